package repository

import (
	"context"

	"github.com/setuponce/backend/domain"
)

type BusinessRepository interface {
	GetByOwner(ctx context.Context, ownerID string) (*domain.Business, error)
	GetByMember(ctx context.Context, userID string) (*domain.Business, error)
	Create(ctx context.Context, business *domain.Business) error
	Update(ctx context.Context, business *domain.Business) error
	ListAll(ctx context.Context, limit, offset int) ([]domain.Business, error)
}

// BusinessCache memoises the business resolved for an identity.
type BusinessCache interface {
	Get(ctx context.Context, identity string) (*domain.Business, error)
	Set(ctx context.Context, identity string, business *domain.Business) error
	Invalidate(ctx context.Context, identity string) error
}
