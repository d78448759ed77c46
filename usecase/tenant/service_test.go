package tenant

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setuponce/backend/domain"
)

type item struct {
	ID         string
	BusinessID string
	Name       string
}

type itemInput struct {
	Name string `json:"name" validate:"required,notblank,max=20"`
}

type memoryStore struct {
	mu      sync.Mutex
	rows    map[string]item
	seq     int
	failOn  string
	listErr error
	lists   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{rows: map[string]item{}}
}

func (m *memoryStore) List(_ context.Context, businessID string) ([]item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []item
	for _, row := range m.rows {
		if row.BusinessID == businessID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryStore) Create(_ context.Context, businessID string, it *item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn == "create" {
		return errors.New("connection reset")
	}
	m.seq++
	it.ID = fmt.Sprintf("item-%d", m.seq)
	it.BusinessID = businessID
	m.rows[it.ID] = *it
	return nil
}

func (m *memoryStore) Update(_ context.Context, businessID, id string, it *item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || row.BusinessID != businessID {
		return domain.ErrProductNotFound
	}
	row.Name = it.Name
	m.rows[id] = row
	return nil
}

func (m *memoryStore) Delete(_ context.Context, businessID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || row.BusinessID != businessID {
		return domain.ErrProductNotFound
	}
	delete(m.rows, id)
	return nil
}

type counterRevisions struct {
	mu   sync.Mutex
	revs map[string]int64
	err  error
}

func (c *counterRevisions) Current(_ context.Context, businessID, collection string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revs[businessID+"/"+collection], nil
}

func (c *counterRevisions) Bump(_ context.Context, businessID, collection string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, c.err
	}
	if c.revs == nil {
		c.revs = map[string]int64{}
	}
	c.revs[businessID+"/"+collection]++
	return c.revs[businessID+"/"+collection], nil
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	failures  []string
}

func (r *recordingNotifier) Success(_ context.Context, _, title, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, title)
}

func (r *recordingNotifier) Error(_ context.Context, _, title, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, title)
}

func newTestService(store *memoryStore, revs *counterRevisions, notifier *recordingNotifier) *Service[item, itemInput] {
	return New(Config[item, itemInput]{
		Collection: "items",
		Label:      "Item",
		Store:      store,
		Revisions:  revs,
		Notifier:   notifier,
		Build: func(_ context.Context, businessID, _ string, in itemInput) (*item, error) {
			return &item{BusinessID: businessID, Name: in.Name}, nil
		},
	})
}

func ownerScope(businessID string) domain.Scope {
	return domain.Scope{
		Identity: "user-1",
		Profile:  domain.Profile{UserID: "user-1", Role: domain.RoleOwner},
		Business: &domain.Business{ID: businessID},
	}
}

func TestCreateRefetchesWithBumpedRevision(t *testing.T) {
	store := newMemoryStore()
	revs := &counterRevisions{}
	notifier := &recordingNotifier{}
	svc := newTestService(store, revs, notifier)

	snap, err := svc.Create(context.Background(), ownerScope("b1"), itemInput{Name: "first"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.Revision)
	assert.Equal(t, "items", snap.Collection)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "first", snap.Items[0].Name)
	assert.Equal(t, []string{"Item created"}, notifier.successes)
	assert.Equal(t, 1, store.lists)

	snap, err = svc.Create(context.Background(), ownerScope("b1"), itemInput{Name: "second"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), snap.Revision)
	assert.Len(t, snap.Items, 2)
}

func TestListIsScopedToBusiness(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store, &counterRevisions{}, &recordingNotifier{})

	_, err := svc.Create(context.Background(), ownerScope("b1"), itemInput{Name: "mine"})
	require.NoError(t, err)

	snap, err := svc.List(context.Background(), ownerScope("b2"))
	require.NoError(t, err)
	assert.NotNil(t, snap.Items)
	assert.Empty(t, snap.Items)
}

func TestValidationFailureSkipsWriteAndRevision(t *testing.T) {
	store := newMemoryStore()
	revs := &counterRevisions{}
	notifier := &recordingNotifier{}
	svc := newTestService(store, revs, notifier)

	_, err := svc.Create(context.Background(), ownerScope("b1"), itemInput{Name: "  "})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	assert.Empty(t, store.rows)
	assert.Equal(t, 0, store.lists)
	assert.Empty(t, revs.revs)
	assert.Equal(t, []string{"Failed to create item"}, notifier.failures)
}

func TestBackendFailureIsReturned(t *testing.T) {
	store := newMemoryStore()
	store.failOn = "create"
	svc := newTestService(store, &counterRevisions{}, &recordingNotifier{})

	_, err := svc.Create(context.Background(), ownerScope("b1"), itemInput{Name: "x"})
	assert.EqualError(t, err, "connection reset")
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store, &counterRevisions{}, &recordingNotifier{})
	snap, err := svc.Create(context.Background(), ownerScope("b1"), itemInput{Name: "x"})
	require.NoError(t, err)
	id := snap.Items[0].ID

	_, err = svc.Delete(context.Background(), ownerScope("b1"), id, false)
	assert.ErrorIs(t, err, domain.ErrConfirmationRequired)
	assert.Len(t, store.rows, 1)

	snap, err = svc.Delete(context.Background(), ownerScope("b1"), id, true)
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
	assert.Equal(t, int64(2), snap.Revision)
}

func TestCrossTenantUpdateIsNotFound(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store, &counterRevisions{}, &recordingNotifier{})
	snap, err := svc.Create(context.Background(), ownerScope("b1"), itemInput{Name: "x"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), ownerScope("b2"), snap.Items[0].ID, itemInput{Name: "stolen"})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Equal(t, "x", store.rows[snap.Items[0].ID].Name)
}

func TestRevisionFailureDoesNotFailMutation(t *testing.T) {
	store := newMemoryStore()
	revs := &counterRevisions{err: errors.New("redis down")}
	svc := newTestService(store, revs, &recordingNotifier{})

	snap, err := svc.Create(context.Background(), ownerScope("b1"), itemInput{Name: "x"})
	require.NoError(t, err)
	assert.Len(t, snap.Items, 1)
	assert.Equal(t, int64(0), snap.Revision)
}

func TestRefetchFailureIsReported(t *testing.T) {
	store := newMemoryStore()
	notifier := &recordingNotifier{}
	svc := newTestService(store, &counterRevisions{}, notifier)
	store.listErr = errors.New("timeout")

	_, err := svc.List(context.Background(), ownerScope("b1"))
	assert.EqualError(t, err, "timeout")
	assert.Equal(t, []string{"Failed to load items"}, notifier.failures)
}

func TestScopeChecks(t *testing.T) {
	svc := newTestService(newMemoryStore(), &counterRevisions{}, &recordingNotifier{})

	noBusiness := ownerScope("")
	noBusiness.Business = nil
	_, err := svc.List(context.Background(), noBusiness)
	assert.ErrorIs(t, err, domain.ErrBusinessRequired)

	admin := ownerScope("b1")
	admin.Profile.Role = domain.RoleAdmin
	_, err = svc.List(context.Background(), admin)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	member := ownerScope("b1")
	member.Profile.Role = domain.RoleTeamMember
	_, err = svc.List(context.Background(), member)
	assert.NoError(t, err)
}
