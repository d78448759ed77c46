package tenant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/setuponce/backend/domain"
	"github.com/setuponce/backend/repository"
	"github.com/setuponce/backend/usecase"
)

// Store is the per-entity persistence contract. Every call is restricted to
// the rows of businessID.
type Store[T any] interface {
	List(ctx context.Context, businessID string) ([]T, error)
	Create(ctx context.Context, businessID string, item *T) error
	Update(ctx context.Context, businessID, id string, item *T) error
	Delete(ctx context.Context, businessID, id string) error
}

// BuildFunc turns a validated form into an entity draft. id is empty on create.
type BuildFunc[T, In any] func(ctx context.Context, businessID, id string, in In) (*T, error)

// Config wires a Service for one collection.
type Config[T, In any] struct {
	Collection string
	// Label is the human name used in notifications, e.g. "Product".
	Label     string
	Store     Store[T]
	Build     BuildFunc[T, In]
	Revisions repository.RevisionRepository
	Notifier  usecase.Notifier
	Recorder  usecase.MutationRecorder
	Logger    *zap.Logger
}

// Service implements list, create, update and delete with unconditional
// refetch for a tenant-scoped collection.
type Service[T, In any] struct {
	collection string
	label      string
	store      Store[T]
	build      BuildFunc[T, In]
	revisions  repository.RevisionRepository
	notifier   usecase.Notifier
	recorder   usecase.MutationRecorder
	logger     *zap.Logger
}

func New[T, In any](cfg Config[T, In]) *Service[T, In] {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = usecase.NopNotifier()
	}
	if cfg.Recorder == nil {
		cfg.Recorder = usecase.NopRecorder()
	}
	if cfg.Label == "" {
		cfg.Label = cfg.Collection
	}
	return &Service[T, In]{
		collection: cfg.Collection,
		label:      cfg.Label,
		store:      cfg.Store,
		build:      cfg.Build,
		revisions:  cfg.Revisions,
		notifier:   cfg.Notifier,
		recorder:   cfg.Recorder,
		logger:     cfg.Logger.With(zap.String("collection", cfg.Collection)),
	}
}

// Collection returns the collection name used for revisions and metrics.
func (s *Service[T, In]) Collection() string {
	return s.collection
}

// List fetches the scoped collection. On failure the caller keeps whatever it
// displayed before.
func (s *Service[T, In]) List(ctx context.Context, scope domain.Scope) (*Snapshot[T], error) {
	businessID, err := Authorize(scope)
	if err != nil {
		return nil, err
	}
	revision := s.currentRevision(ctx, businessID)
	return s.snapshot(ctx, businessID, revision)
}

func (s *Service[T, In]) Create(ctx context.Context, scope domain.Scope, in In) (*Snapshot[T], error) {
	return s.Mutate(ctx, scope, usecase.OperationCreate, func(ctx context.Context, businessID string) error {
		item, err := s.draft(ctx, businessID, "", in)
		if err != nil {
			return err
		}
		return s.store.Create(ctx, businessID, item)
	})
}

func (s *Service[T, In]) Update(ctx context.Context, scope domain.Scope, id string, in In) (*Snapshot[T], error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrInvalidPayload
	}
	return s.Mutate(ctx, scope, usecase.OperationUpdate, func(ctx context.Context, businessID string) error {
		item, err := s.draft(ctx, businessID, id, in)
		if err != nil {
			return err
		}
		return s.store.Update(ctx, businessID, id, item)
	})
}

// Delete removes the row only when the caller confirmed the action.
func (s *Service[T, In]) Delete(ctx context.Context, scope domain.Scope, id string, confirmed bool) (*Snapshot[T], error) {
	if !confirmed {
		return nil, domain.ErrConfirmationRequired
	}
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrInvalidPayload
	}
	return s.Mutate(ctx, scope, usecase.OperationDelete, func(ctx context.Context, businessID string) error {
		return s.store.Delete(ctx, businessID, id)
	})
}

// Mutate runs write against the scoped business, bumps the collection
// revision and returns the refetched collection. It is the single path every
// write of the collection goes through.
func (s *Service[T, In]) Mutate(ctx context.Context, scope domain.Scope, operation string, write func(ctx context.Context, businessID string) error) (*Snapshot[T], error) {
	businessID, err := Authorize(scope)
	if err != nil {
		return nil, err
	}

	err = write(ctx, businessID)
	s.recorder.ObserveMutation(s.collection, operation, err)
	if err != nil {
		s.reportFailure(ctx, businessID, operation, err)
		return nil, err
	}

	revision := s.bumpRevision(ctx, businessID)
	s.notifier.Success(ctx, businessID, s.successTitle(operation), "")

	return s.snapshot(ctx, businessID, revision)
}

func (s *Service[T, In]) draft(ctx context.Context, businessID, id string, in In) (*T, error) {
	if err := usecase.Validate(in); err != nil {
		return nil, err
	}
	return s.build(ctx, businessID, id, in)
}

func (s *Service[T, In]) snapshot(ctx context.Context, businessID string, revision int64) (*Snapshot[T], error) {
	items, err := s.store.List(ctx, businessID)
	if err != nil {
		s.logger.Error("list failed", zap.String("business_id", businessID), zap.Error(err))
		s.notifier.Error(ctx, businessID, fmt.Sprintf("Failed to load %s", s.collection), err.Error())
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return &Snapshot[T]{Collection: s.collection, Revision: revision, Items: items}, nil
}

func (s *Service[T, In]) currentRevision(ctx context.Context, businessID string) int64 {
	if s.revisions == nil {
		return 0
	}
	rev, err := s.revisions.Current(ctx, businessID, s.collection)
	if err != nil {
		s.logger.Warn("revision read failed", zap.String("business_id", businessID), zap.Error(err))
		return 0
	}
	return rev
}

// bumpRevision runs after a committed write, so failures only degrade
// client-side ordering and are not returned.
func (s *Service[T, In]) bumpRevision(ctx context.Context, businessID string) int64 {
	if s.revisions == nil {
		return 0
	}
	rev, err := s.revisions.Bump(ctx, businessID, s.collection)
	if err != nil {
		s.logger.Warn("revision bump failed", zap.String("business_id", businessID), zap.Error(err))
		return s.currentRevision(ctx, businessID)
	}
	return rev
}

func (s *Service[T, In]) reportFailure(ctx context.Context, businessID, operation string, err error) {
	var dErr *domain.Error
	if errors.As(err, &dErr) && dErr.Code != domain.ErrCodeInternal {
		s.logger.Info("mutation rejected", zap.String("operation", operation), zap.String("code", string(dErr.Code)))
	} else {
		s.logger.Error("mutation failed", zap.String("operation", operation), zap.String("business_id", businessID), zap.Error(err))
	}
	s.notifier.Error(ctx, businessID, fmt.Sprintf("Failed to %s %s", operation, strings.ToLower(s.label)), err.Error())
}

func (s *Service[T, In]) successTitle(operation string) string {
	switch operation {
	case usecase.OperationCreate:
		return s.label + " created"
	case usecase.OperationUpdate:
		return s.label + " updated"
	case usecase.OperationDelete:
		return s.label + " deleted"
	}
	return s.label + " saved"
}

// Authorize checks that the role may use tenant tabs and returns the scoped
// business id.
func Authorize(scope domain.Scope) (string, error) {
	if !scope.CanAccessTenant() {
		return "", domain.ErrForbidden
	}
	return scope.RequireBusiness()
}
