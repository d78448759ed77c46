package domain

import "time"

// NotificationKind mirrors the toast variants of the dashboard.
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
)

// Notification is a fire-and-forget message for a business's operators.
type Notification struct {
	ID          string           `json:"id"`
	BusinessID  string           `json:"business_id"`
	Kind        NotificationKind `json:"kind"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}
