package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeInvalid          ErrorCode = "INVALID"
	ErrCodeConflict         ErrorCode = "CONFLICT"
	ErrCodeForbidden        ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	ErrCodeBusinessRequired ErrorCode = "BUSINESS_REQUIRED"
	ErrCodeInternal         ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationError reports field-level problems found before submission.
func ValidationError(fields map[string]string) *Error {
	return &Error{
		Code:    ErrCodeInvalid,
		Message: "validation failed",
		Fields:  fields,
	}
}

// Common domain errors.
var (
	ErrProfileNotFound      = NewError(ErrCodeNotFound, "profile not found")
	ErrBusinessNotFound     = NewError(ErrCodeNotFound, "business not found")
	ErrBusinessExists       = NewError(ErrCodeConflict, "business already exists for this owner")
	ErrBusinessRequired     = NewError(ErrCodeBusinessRequired, "create a business first")
	ErrProductNotFound      = NewError(ErrCodeNotFound, "product not found")
	ErrCategoryNotFound     = NewError(ErrCodeNotFound, "category not found")
	ErrAttributeNotFound    = NewError(ErrCodeNotFound, "attribute not found")
	ErrOrderNotFound        = NewError(ErrCodeNotFound, "order not found")
	ErrConversationNotFound = NewError(ErrCodeNotFound, "conversation not found")
	ErrUnauthorized         = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrTokenRevoked         = NewError(ErrCodeUnauthorized, "token revoked")
	ErrForbidden            = NewError(ErrCodeForbidden, "forbidden")
	ErrInvalidPayload       = NewError(ErrCodeInvalid, "invalid payload")
	ErrConfirmationRequired = NewError(ErrCodeInvalid, "delete requires confirmation")
	ErrConflict             = NewError(ErrCodeConflict, "conflicting record")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
