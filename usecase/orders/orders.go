package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/setuponce/backend/domain"
	"github.com/setuponce/backend/repository"
	"github.com/setuponce/backend/usecase"
	"github.com/setuponce/backend/usecase/tenant"
)

const Collection = "orders"

type Service = tenant.Service[domain.Order, domain.OrderInput]

// UseCase serves the orders tab.
type UseCase struct {
	*Service
	orders   repository.OrderRepository
	products repository.ProductRepository
	now      func() time.Time
}

type Deps struct {
	Orders    repository.OrderRepository
	Products  repository.ProductRepository
	Revisions repository.RevisionRepository
	Notifier  usecase.Notifier
	Recorder  usecase.MutationRecorder
	Logger    *zap.Logger
}

func New(deps Deps) *UseCase {
	uc := &UseCase{
		orders:   deps.Orders,
		products: deps.Products,
		now:      time.Now,
	}
	uc.Service = tenant.New(tenant.Config[domain.Order, domain.OrderInput]{
		Collection: Collection,
		Label:      "Order",
		Store:      deps.Orders,
		Build:      uc.build,
		Revisions:  deps.Revisions,
		Notifier:   deps.Notifier,
		Recorder:   deps.Recorder,
		Logger:     deps.Logger,
	})
	return uc
}

// UpdateStatus writes the new status only; items and totals are untouched.
func (uc *UseCase) UpdateStatus(ctx context.Context, scope domain.Scope, id, status string) (*tenant.Snapshot[domain.Order], error) {
	parsed, err := domain.ParseOrderStatus(strings.TrimSpace(status))
	if err != nil {
		return nil, err
	}
	return uc.Mutate(ctx, scope, usecase.OperationUpdate, func(ctx context.Context, businessID string) error {
		return uc.orders.UpdateStatus(ctx, businessID, id, parsed)
	})
}

func (uc *UseCase) build(ctx context.Context, businessID, id string, in domain.OrderInput) (*domain.Order, error) {
	prices, err := uc.lookupPrices(ctx, businessID, in.Items)
	if err != nil {
		return nil, err
	}
	order, err := domain.BuildOrder(businessID, in, prices)
	if err != nil {
		return nil, err
	}
	if id == "" {
		order.OrderNumber = domain.NewOrderNumber(uc.now(), strings.ReplaceAll(uuid.NewString(), "-", ""))
	}
	return order, nil
}

// lookupPrices loads current prices for lines that do not carry an explicit
// unit price.
func (uc *UseCase) lookupPrices(ctx context.Context, businessID string, items []domain.OrderItemInput) (domain.PriceLookup, error) {
	var ids []string
	for _, item := range items {
		if item.UnitPrice == nil {
			ids = append(ids, item.ProductID)
		}
	}
	if len(ids) == 0 || uc.products == nil {
		return nil, nil
	}
	found, err := uc.products.Prices(ctx, businessID, ids)
	if err != nil {
		return nil, err
	}
	return func(productID string) (decimal.Decimal, bool) {
		price, ok := found[productID]
		return price, ok
	}, nil
}
