package overview

import (
	"context"

	"github.com/setuponce/backend/domain"
	"github.com/setuponce/backend/repository"
	"github.com/setuponce/backend/usecase/tenant"
)

type UseCase struct {
	stats repository.OverviewRepository
}

func New(stats repository.OverviewRepository) *UseCase {
	return &UseCase{stats: stats}
}

// Get returns the dashboard statistics of the scoped business.
func (uc *UseCase) Get(ctx context.Context, scope domain.Scope) (*domain.Overview, error) {
	businessID, err := tenant.Authorize(scope)
	if err != nil {
		return nil, err
	}
	overview, err := uc.stats.Overview(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if overview.RecentOrders == nil {
		overview.RecentOrders = []domain.Order{}
	}
	return overview, nil
}
