package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setuponce/backend/domain"
	"github.com/setuponce/backend/internal/infrastructure/journal"
)

func TestPruneDropsExpiredNotifications(t *testing.T) {
	store, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	_, err = store.Append(domain.Notification{BusinessID: "b1", Title: "old", CreatedAt: now.Add(-48 * time.Hour)})
	require.NoError(t, err)
	_, err = store.Append(domain.Notification{BusinessID: "b1", Title: "fresh", CreatedAt: now.Add(-time.Hour)})
	require.NoError(t, err)

	pruner, err := NewJournalPruner(store, PrunerConfig{Schedule: "@every 1h", Retention: 24 * time.Hour}, nil)
	require.NoError(t, err)
	pruner.now = func() time.Time { return now }

	removed, err := pruner.Prune()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	items, err := store.Recent("b1", 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "fresh", items[0].Title)
}

func TestInvalidScheduleIsRejected(t *testing.T) {
	_, err := NewJournalPruner(nil, PrunerConfig{Schedule: "not a schedule"}, nil)
	assert.Error(t, err)
}

func TestStartStop(t *testing.T) {
	pruner, err := NewJournalPruner(nil, PrunerConfig{}, nil)
	require.NoError(t, err)

	pruner.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	pruner.Stop(ctx)
}
