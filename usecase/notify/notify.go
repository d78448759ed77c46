package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/setuponce/backend/domain"
	"github.com/setuponce/backend/pkg/logger"
	"github.com/setuponce/backend/usecase/tenant"
)

type Journal interface {
	Append(n domain.Notification) (domain.Notification, error)
	Recent(businessID string, limit int) ([]domain.Notification, error)
}

type Counter interface {
	ObserveNotification(kind string)
}

// UseCase records operator notifications and lists them back.
type UseCase struct {
	journal      Journal
	counter      Counter
	defaultLimit int
	logger       *zap.Logger
}

func New(journal Journal, counter Counter, defaultLimit int, log *zap.Logger) *UseCase {
	if log == nil {
		log = zap.NewNop()
	}
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	return &UseCase{
		journal:      journal,
		counter:      counter,
		defaultLimit: defaultLimit,
		logger:       log,
	}
}

func (uc *UseCase) Success(ctx context.Context, businessID, title, description string) {
	uc.publish(ctx, domain.NotifySuccess, businessID, title, description)
}

func (uc *UseCase) Error(ctx context.Context, businessID, title, description string) {
	uc.publish(ctx, domain.NotifyError, businessID, title, description)
}

// List returns the newest notifications of the scoped business.
func (uc *UseCase) List(_ context.Context, scope domain.Scope, limit int) ([]domain.Notification, error) {
	businessID, err := tenant.Authorize(scope)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = uc.defaultLimit
	}
	items, err := uc.journal.Recent(businessID, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Notification{}
	}
	return items, nil
}

// publish never reports failure to the caller.
func (uc *UseCase) publish(ctx context.Context, kind domain.NotificationKind, businessID, title, description string) {
	log := logger.WithRequestID(ctx, uc.logger).With(
		zap.String("kind", string(kind)),
		zap.String("business_id", businessID),
		zap.String("title", title),
	)
	if uc.counter != nil {
		uc.counter.ObserveNotification(string(kind))
	}
	if businessID == "" || uc.journal == nil {
		log.Debug("notification not journaled")
		return
	}

	_, err := uc.journal.Append(domain.Notification{
		BusinessID:  businessID,
		Kind:        kind,
		Title:       title,
		Description: description,
	})
	if err != nil {
		log.Warn("notification journal append failed", zap.Error(err))
		return
	}
	log.Debug("notification recorded")
}
