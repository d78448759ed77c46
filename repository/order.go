package repository

import (
	"context"

	"github.com/setuponce/backend/domain"
)

type OrderRepository interface {
	List(ctx context.Context, businessID string) ([]domain.Order, error)
	Create(ctx context.Context, businessID string, order *domain.Order) error
	Update(ctx context.Context, businessID, id string, order *domain.Order) error
	UpdateStatus(ctx context.Context, businessID, id string, status domain.OrderStatus) error
	Delete(ctx context.Context, businessID, id string) error
}
