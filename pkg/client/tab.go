package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
)

// Snapshot is one collection listing as answered by the API.
type Snapshot[T any] struct {
	Seq      uint64
	Revision int64
	Items    []T
}

// Tab mirrors one tenant collection. Every call issues a sequence number;
// a response is applied only if no later-issued call has been applied and its
// revision is not older than the one shown, so the last issued fetch wins.
type Tab[T any] struct {
	client *Client
	path   string

	mu       sync.Mutex
	issued   uint64
	applied  uint64
	revision int64
	items    []T
	loaded   bool
}

// NewTab binds a view to a collection path such as "/api/v1/products".
func NewTab[T any](c *Client, path string) *Tab[T] {
	return &Tab[T]{client: c, path: path}
}

// Items returns a copy of the rows currently shown.
func (t *Tab[T]) Items() []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]T, len(t.items))
	copy(out, t.items)
	return out
}

func (t *Tab[T]) Revision() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.revision
}

// Loaded reports whether any snapshot has been applied yet.
func (t *Tab[T]) Loaded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loaded
}

// Refresh fetches the collection. On error the shown rows are kept.
func (t *Tab[T]) Refresh(ctx context.Context) (bool, error) {
	return t.call(ctx, http.MethodGet, t.path, nil)
}

func (t *Tab[T]) Create(ctx context.Context, in interface{}) (bool, error) {
	return t.call(ctx, http.MethodPost, t.path, in)
}

func (t *Tab[T]) Update(ctx context.Context, id string, in interface{}) (bool, error) {
	return t.call(ctx, http.MethodPut, t.path+"/"+url.PathEscape(id), in)
}

// Delete removes a row. The caller must have obtained the user's confirmation.
func (t *Tab[T]) Delete(ctx context.Context, id string) (bool, error) {
	return t.call(ctx, http.MethodDelete, t.path+"/"+url.PathEscape(id)+"?confirm=true", nil)
}

// Apply installs snap unless it is stale. It reports whether the view changed.
func (t *Tab[T]) Apply(snap Snapshot[T]) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if snap.Seq <= t.applied {
		return false
	}
	if t.loaded && snap.Revision < t.revision {
		return false
	}
	t.applied = snap.Seq
	t.revision = snap.Revision
	t.items = snap.Items
	if t.items == nil {
		t.items = []T{}
	}
	t.loaded = true
	return true
}

// Issue reserves the next sequence number.
func (t *Tab[T]) Issue() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.issued++
	return t.issued
}

func (t *Tab[T]) call(ctx context.Context, method, path string, body interface{}) (bool, error) {
	seq := t.Issue()

	var items []T
	meta, err := t.client.Do(ctx, method, path, body, &items)
	if err != nil {
		return false, err
	}
	if meta == nil {
		return false, fmt.Errorf("%s %s: response has no snapshot metadata", method, path)
	}
	return t.Apply(Snapshot[T]{Seq: seq, Revision: meta.Revision, Items: items}), nil
}
