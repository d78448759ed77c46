package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/setuponce/backend/domain"
)

// Every method takes the business id and must restrict its statement to rows
// of that business.

type ProductRepository interface {
	List(ctx context.Context, businessID string) ([]domain.Product, error)
	Create(ctx context.Context, businessID string, product *domain.Product) error
	Update(ctx context.Context, businessID, id string, product *domain.Product) error
	Delete(ctx context.Context, businessID, id string) error
	Prices(ctx context.Context, businessID string, ids []string) (map[string]decimal.Decimal, error)
}

type CategoryRepository interface {
	List(ctx context.Context, businessID string) ([]domain.Category, error)
	Create(ctx context.Context, businessID string, category *domain.Category) error
	Update(ctx context.Context, businessID, id string, category *domain.Category) error
	Delete(ctx context.Context, businessID, id string) error
}

type AttributeRepository interface {
	List(ctx context.Context, businessID string) ([]domain.Attribute, error)
	Create(ctx context.Context, businessID string, attribute *domain.Attribute) error
	Update(ctx context.Context, businessID, id string, attribute *domain.Attribute) error
	Delete(ctx context.Context, businessID, id string) error
}
