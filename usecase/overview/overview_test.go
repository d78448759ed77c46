package overview

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setuponce/backend/domain"
)

type fakeStats struct {
	asked string
}

func (f *fakeStats) Overview(_ context.Context, businessID string) (*domain.Overview, error) {
	f.asked = businessID
	return &domain.Overview{TotalProducts: 3, TotalRevenue: decimal.NewFromInt(40)}, nil
}

func TestGetUsesScopedBusiness(t *testing.T) {
	stats := &fakeStats{}
	uc := New(stats)
	scope := domain.Scope{
		Identity: "u1",
		Profile:  domain.Profile{Role: domain.RoleOwner},
		Business: &domain.Business{ID: "b1"},
	}

	overview, err := uc.Get(context.Background(), scope)
	require.NoError(t, err)
	assert.Equal(t, "b1", stats.asked)
	assert.Equal(t, 3, overview.TotalProducts)
	assert.NotNil(t, overview.RecentOrders)
}

func TestGetWithoutBusiness(t *testing.T) {
	uc := New(&fakeStats{})

	_, err := uc.Get(context.Background(), domain.Scope{Profile: domain.Profile{Role: domain.RoleOwner}})
	assert.ErrorIs(t, err, domain.ErrBusinessRequired)
}
