package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setuponce/backend/domain"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "journal.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecentReturnsNewestFirstPerBusiness(t *testing.T) {
	store := openStore(t)
	base := time.Now().Add(-time.Hour)

	for i, title := range []string{"first", "second", "third"} {
		_, err := store.Append(domain.Notification{
			BusinessID: "b1",
			Kind:       domain.NotifySuccess,
			Title:      title,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
	_, err := store.Append(domain.Notification{BusinessID: "b2", Kind: domain.NotifyError, Title: "other"})
	require.NoError(t, err)

	items, err := store.Recent("b1", 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "third", items[0].Title)
	assert.Equal(t, "second", items[1].Title)
	for _, n := range items {
		assert.Equal(t, "b1", n.BusinessID)
		assert.NotEmpty(t, n.ID)
	}

	none, err := store.Recent("missing", 10)
	require.NoError(t, err)
	assert.Empty(t, none)

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 4, size)
}

func TestAppendRequiresBusiness(t *testing.T) {
	store := openStore(t)
	_, err := store.Append(domain.Notification{Title: "orphan"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestCleanupDropsOldEntries(t *testing.T) {
	store := openStore(t)
	now := time.Now()

	_, err := store.Append(domain.Notification{BusinessID: "b1", Title: "old", CreatedAt: now.Add(-48 * time.Hour)})
	require.NoError(t, err)
	_, err = store.Append(domain.Notification{BusinessID: "b2", Title: "older", CreatedAt: now.Add(-72 * time.Hour)})
	require.NoError(t, err)
	_, err = store.Append(domain.Notification{BusinessID: "b1", Title: "fresh", CreatedAt: now})
	require.NoError(t, err)

	removed, err := store.Cleanup(now.Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	items, err := store.Recent("b1", 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "fresh", items[0].Title)
}
