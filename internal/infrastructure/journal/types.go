package journal

import (
	"time"

	"github.com/google/uuid"

	"github.com/setuponce/backend/domain"
)

// Entry is one persisted notification.
type Entry struct {
	domain.Notification
}

func (e *Entry) normalize() {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
}
