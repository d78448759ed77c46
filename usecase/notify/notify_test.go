package notify

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setuponce/backend/domain"
	"github.com/setuponce/backend/internal/infrastructure/journal"
)

type countingCounter map[string]int

func (c countingCounter) ObserveNotification(kind string) { c[kind]++ }

func openJournal(t *testing.T) *journal.Store {
	t.Helper()
	store, err := journal.Open(filepath.Join(t.TempDir(), "notify.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNotificationsAreJournaledPerBusiness(t *testing.T) {
	counter := countingCounter{}
	uc := New(openJournal(t), counter, 10, nil)
	ctx := context.Background()

	uc.Success(ctx, "b1", "Product created", "")
	uc.Error(ctx, "b1", "Failed to delete order", "timeout")
	uc.Success(ctx, "b2", "Category created", "")
	uc.Success(ctx, "", "Dropped", "")

	scope := domain.Scope{Profile: domain.Profile{Role: domain.RoleOwner}, Business: &domain.Business{ID: "b1"}}
	items, err := uc.List(ctx, scope, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Failed to delete order", items[0].Title)
	assert.Equal(t, domain.NotifyError, items[0].Kind)
	assert.Equal(t, 3, counter["success"])
	assert.Equal(t, 1, counter["error"])
}

func TestListRequiresBusiness(t *testing.T) {
	uc := New(openJournal(t), nil, 10, nil)

	_, err := uc.List(context.Background(), domain.Scope{Profile: domain.Profile{Role: domain.RoleOwner}}, 5)
	assert.ErrorIs(t, err, domain.ErrBusinessRequired)
}
