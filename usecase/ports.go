package usecase

import "context"

// Mutation kinds reported to notifiers and metrics.
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// Notifier delivers operator notifications. Calls never fail from the
// caller's point of view.
type Notifier interface {
	Success(ctx context.Context, businessID, title, description string)
	Error(ctx context.Context, businessID, title, description string)
}

// MutationRecorder observes tenant collection writes.
type MutationRecorder interface {
	ObserveMutation(collection, operation string, err error)
}

type nopNotifier struct{}

func (nopNotifier) Success(context.Context, string, string, string) {}
func (nopNotifier) Error(context.Context, string, string, string)   {}

// NopNotifier discards every notification.
func NopNotifier() Notifier { return nopNotifier{} }

type nopRecorder struct{}

func (nopRecorder) ObserveMutation(string, string, error) {}

// NopRecorder discards every observation.
func NopRecorder() MutationRecorder { return nopRecorder{} }
