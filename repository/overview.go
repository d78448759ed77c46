package repository

import (
	"context"

	"github.com/setuponce/backend/domain"
)

type OverviewRepository interface {
	Overview(ctx context.Context, businessID string) (*domain.Overview, error)
}
