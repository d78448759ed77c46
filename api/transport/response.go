package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/valyala/fasthttp"

	"github.com/setuponce/backend/domain"
)

// CodeNoBusiness marks the absent-business state of GET /api/v1/business.
const CodeNoBusiness = "NO_BUSINESS"

// Envelope is the standard API response wrapper used for both success and error payloads.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data"`
	Error  interface{} `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// ErrorBody is the error member of a failed envelope.
type ErrorBody struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// SnapshotMeta tells the client which collection revision the data reflects.
type SnapshotMeta struct {
	Collection string `json:"collection"`
	Revision   int64  `json:"revision"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

// NewError returns an error envelope with optional metadata.
func NewError(code string, err interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  err,
		Meta:   meta,
	}
}

// FromError builds the status code and envelope for err.
func FromError(err error) (int, Envelope) {
	status, code := StatusOf(err)
	body := ErrorBody{Message: err.Error()}
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		body.Fields = dErr.Fields
		if status == http.StatusInternalServerError {
			body.Message = dErr.Message
		}
	} else {
		body.Message = "internal error"
	}
	return status, NewError(code, body, nil)
}

// StatusOf maps domain error codes onto HTTP statuses.
func StatusOf(err error) (int, string) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized, string(domain.ErrCodeUnauthorized)
	case domain.IsDomainError(err, domain.ErrCodeForbidden):
		return http.StatusForbidden, string(domain.ErrCodeForbidden)
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest, string(domain.ErrCodeInvalid)
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, string(domain.ErrCodeNotFound)
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		return http.StatusConflict, string(domain.ErrCodeConflict)
	case domain.IsDomainError(err, domain.ErrCodeBusinessRequired):
		return http.StatusPreconditionFailed, string(domain.ErrCodeBusinessRequired)
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal)
	}
}

// Write serialises payload as the JSON response body.
func Write(ctx *fasthttp.RequestCtx, status int, payload Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, err := json.Marshal(payload)
	if err != nil {
		ctx.SetStatusCode(http.StatusInternalServerError)
		body = []byte(`{"status":"error","code":"INTERNAL"}`)
	}
	ctx.SetBody(body)
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
