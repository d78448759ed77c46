package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/setuponce/backend/domain"
	"github.com/setuponce/backend/internal/infrastructure/monitor"
	"github.com/setuponce/backend/pkg/httpcontext"
	"github.com/setuponce/backend/usecase/tenant"
)

type envelope struct {
	Status string          `json:"status"`
	Code   string          `json:"code"`
	Data   json.RawMessage `json:"data"`
	Error  struct {
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
	Meta json.RawMessage `json:"meta"`
}

func decodeEnvelope(t *testing.T, ctx *fasthttp.RequestCtx) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &env), string(ctx.Response.Body()))
	return env
}

func ownerScope(businessID string) domain.Scope {
	scope := domain.Scope{
		Identity: "user-1",
		Profile:  domain.Profile{UserID: "user-1", Role: domain.RoleOwner, IsActive: true},
	}
	if businessID != "" {
		scope.Business = &domain.Business{ID: businessID, OwnerID: "user-1", Name: "Bakery"}
	}
	return scope
}

func newRequest(method, body string, scope *domain.Scope) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	if body != "" {
		ctx.Request.SetBodyString(body)
	}
	if scope != nil {
		httpcontext.SetScope(ctx, *scope)
	}
	return ctx
}

type row struct {
	ID         string `json:"id"`
	BusinessID string `json:"business_id"`
	Name       string `json:"name"`
}

type rowInput struct {
	Name string `json:"name" validate:"required,notblank"`
}

type rowStore struct {
	mu   sync.Mutex
	rows map[string]row
	seq  int
}

func (s *rowStore) List(_ context.Context, businessID string) ([]row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []row{}
	for _, r := range s.rows {
		if r.BusinessID == businessID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *rowStore) Create(_ context.Context, businessID string, r *row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	r.ID = fmt.Sprintf("row-%d", s.seq)
	r.BusinessID = businessID
	s.rows[r.ID] = *r
	return nil
}

func (s *rowStore) Update(_ context.Context, businessID, id string, r *row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.rows[id]
	if !ok || existing.BusinessID != businessID {
		return domain.ErrProductNotFound
	}
	existing.Name = r.Name
	s.rows[id] = existing
	return nil
}

func (s *rowStore) Delete(_ context.Context, businessID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.rows[id]
	if !ok || existing.BusinessID != businessID {
		return domain.ErrProductNotFound
	}
	delete(s.rows, id)
	return nil
}

type counterRevisions struct {
	mu   sync.Mutex
	revs map[string]int64
}

func (r *counterRevisions) Current(_ context.Context, businessID, collection string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.revs[businessID+"/"+collection], nil
}

func (r *counterRevisions) Bump(_ context.Context, businessID, collection string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revs[businessID+"/"+collection]++
	return r.revs[businessID+"/"+collection], nil
}

func newTabHandler() (*TabHandler[row, rowInput], *rowStore) {
	store := &rowStore{rows: map[string]row{}}
	svc := tenant.New(tenant.Config[row, rowInput]{
		Collection: "rows",
		Label:      "Row",
		Store:      store,
		Build: func(_ context.Context, businessID, _ string, in rowInput) (*row, error) {
			return &row{BusinessID: businessID, Name: in.Name}, nil
		},
		Revisions: &counterRevisions{revs: map[string]int64{}},
	})
	return NewTabHandler(svc, httpcontext.NewAdapter(time.Second), nil), store
}

func TestTabHandlerCreateReturnsRefetchedCollection(t *testing.T) {
	h, _ := newTabHandler()
	scope := ownerScope("biz-1")

	ctx := newRequest(http.MethodPost, `{"name":"Bread"}`, &scope)
	h.Create(ctx)

	require.Equal(t, http.StatusCreated, ctx.Response.StatusCode())
	env := decodeEnvelope(t, ctx)
	assert.Equal(t, "success", env.Status)

	var rows []row
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Bread", rows[0].Name)
	assert.Equal(t, "biz-1", rows[0].BusinessID)

	var meta struct {
		Collection string `json:"collection"`
		Revision   int64  `json:"revision"`
	}
	require.NoError(t, json.Unmarshal(env.Meta, &meta))
	assert.Equal(t, "rows", meta.Collection)
	assert.Equal(t, int64(1), meta.Revision)
}

func TestTabHandlerRejectsInvalidInput(t *testing.T) {
	h, store := newTabHandler()
	scope := ownerScope("biz-1")

	ctx := newRequest(http.MethodPost, `{"name":"   "}`, &scope)
	h.Create(ctx)

	require.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
	env := decodeEnvelope(t, ctx)
	assert.Equal(t, "INVALID", env.Code)
	assert.Contains(t, env.Error.Fields, "name")
	assert.Empty(t, store.rows)
}

func TestTabHandlerRejectsMalformedJSON(t *testing.T) {
	h, _ := newTabHandler()
	scope := ownerScope("biz-1")

	ctx := newRequest(http.MethodPost, `{"name":`, &scope)
	h.Create(ctx)

	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
	assert.Equal(t, "malformed JSON", decodeEnvelope(t, ctx).Error.Message)
}

func TestTabHandlerRequiresBusiness(t *testing.T) {
	h, _ := newTabHandler()
	scope := ownerScope("")

	ctx := newRequest(http.MethodGet, "", &scope)
	h.List(ctx)

	assert.Equal(t, http.StatusPreconditionFailed, ctx.Response.StatusCode())
	assert.Equal(t, "BUSINESS_REQUIRED", decodeEnvelope(t, ctx).Code)
}

func TestTabHandlerWithoutScopeIsUnauthorized(t *testing.T) {
	h, _ := newTabHandler()

	ctx := newRequest(http.MethodGet, "", nil)
	h.List(ctx)

	assert.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode())
}

func TestTabHandlerDeleteNeedsConfirmation(t *testing.T) {
	h, store := newTabHandler()
	scope := ownerScope("biz-1")
	store.rows["row-9"] = row{ID: "row-9", BusinessID: "biz-1", Name: "Cake"}

	ctx := newRequest(http.MethodDelete, "", &scope)
	ctx.SetUserValue("id", "row-9")
	h.Delete(ctx)
	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
	assert.Len(t, store.rows, 1)

	ctx = newRequest(http.MethodDelete, "", &scope)
	ctx.SetUserValue("id", "row-9")
	ctx.Request.SetRequestURI("/api/v1/rows/row-9?confirm=true")
	h.Delete(ctx)
	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	assert.Empty(t, store.rows)
}

func TestTabHandlerUpdateOtherTenantIsNotFound(t *testing.T) {
	h, store := newTabHandler()
	scope := ownerScope("biz-1")
	store.rows["row-5"] = row{ID: "row-5", BusinessID: "biz-2", Name: "Theirs"}

	ctx := newRequest(http.MethodPut, `{"name":"Mine"}`, &scope)
	ctx.SetUserValue("id", "row-5")
	h.Update(ctx)

	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())
	assert.Equal(t, "Theirs", store.rows["row-5"].Name)
}

type fakeBusinessService struct {
	created *domain.Business
	err     error
	page    int
}

func (f *fakeBusinessService) Current(_ context.Context, scope domain.Scope) (*domain.Business, error) {
	if scope.Business == nil {
		return nil, domain.ErrBusinessNotFound
	}
	return scope.Business, nil
}

func (f *fakeBusinessService) Create(_ context.Context, _ domain.Scope, in domain.BusinessInput) (*domain.Business, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = &domain.Business{ID: "biz-new", Name: in.Name}
	return f.created, nil
}

func (f *fakeBusinessService) Update(_ context.Context, scope domain.Scope, in domain.BusinessInput) (*domain.Business, error) {
	return &domain.Business{ID: scope.BusinessID(), Name: in.Name}, f.err
}

func (f *fakeBusinessService) ListAll(_ context.Context, _ domain.Scope, page int) ([]domain.Business, error) {
	f.page = page
	return []domain.Business{}, f.err
}

func TestBusinessGetWithoutBusinessAnswersNoBusiness(t *testing.T) {
	h := NewBusinessHandler(&fakeBusinessService{}, nil, nil)
	scope := ownerScope("")

	ctx := newRequest(http.MethodGet, "", &scope)
	h.Get(ctx)

	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())
	assert.Equal(t, "NO_BUSINESS", decodeEnvelope(t, ctx).Code)
}

func TestBusinessCreate(t *testing.T) {
	svc := &fakeBusinessService{}
	h := NewBusinessHandler(svc, nil, nil)
	scope := ownerScope("")

	ctx := newRequest(http.MethodPost, `{"name":"Bakery"}`, &scope)
	h.Create(ctx)

	assert.Equal(t, http.StatusCreated, ctx.Response.StatusCode())
	require.NotNil(t, svc.created)
	assert.Equal(t, "Bakery", svc.created.Name)
}

func TestBusinessCreateConflict(t *testing.T) {
	h := NewBusinessHandler(&fakeBusinessService{err: domain.ErrBusinessExists}, nil, nil)
	scope := ownerScope("biz-1")

	ctx := newRequest(http.MethodPost, `{"name":"Again"}`, &scope)
	h.Create(ctx)

	assert.Equal(t, http.StatusConflict, ctx.Response.StatusCode())
}

func TestBusinessListAllParsesPage(t *testing.T) {
	svc := &fakeBusinessService{}
	h := NewBusinessHandler(svc, nil, nil)
	scope := domain.Scope{Identity: "admin", Profile: domain.Profile{Role: domain.RoleAdmin}}

	ctx := newRequest(http.MethodGet, "", &scope)
	ctx.Request.SetRequestURI("/api/v1/admin/businesses?page=3")
	h.ListAll(ctx)

	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, 3, svc.page)
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	h := NewBusinessHandler(&fakeBusinessService{err: errors.New("pq: password authentication failed")}, nil, nil)
	scope := ownerScope("biz-1")

	ctx := newRequest(http.MethodPut, `{"name":"Bakery"}`, &scope)
	h.Update(ctx)

	assert.Equal(t, http.StatusInternalServerError, ctx.Response.StatusCode())
	assert.Equal(t, "internal error", decodeEnvelope(t, ctx).Error.Message)
}

type fakeChat struct {
	content string
}

func (f *fakeChat) Thread(_ context.Context, _ domain.Scope, id string) (*domain.Thread, error) {
	return &domain.Thread{ConversationID: id, Messages: []domain.Message{}}, nil
}

func (f *fakeChat) Send(_ context.Context, _ domain.Scope, id, content string) (*domain.Thread, error) {
	f.content = content
	return &domain.Thread{ConversationID: id, Messages: []domain.Message{{Content: content}}, Revision: 7}, nil
}

func TestChatSendReportsRevision(t *testing.T) {
	svc := &fakeChat{}
	h := NewChatHandler(svc, "conversations", nil, nil)
	scope := ownerScope("biz-1")

	ctx := newRequest(http.MethodPost, `{"content":"hello"}`, &scope)
	ctx.SetUserValue("id", "conv-1")
	h.Send(ctx)

	require.Equal(t, http.StatusCreated, ctx.Response.StatusCode())
	assert.Equal(t, "hello", svc.content)
	env := decodeEnvelope(t, ctx)
	assert.JSONEq(t, `{"collection":"conversations","revision":7}`, string(env.Meta))
}

type fakeRevoker struct {
	token domain.AccessToken
}

func (f *fakeRevoker) SignOut(_ context.Context, token domain.AccessToken) error {
	f.token = token
	return nil
}

func TestSignOutRevokesPresentedToken(t *testing.T) {
	revoker := &fakeRevoker{}
	h := NewAccountHandler(revoker, nil, nil)

	ctx := newRequest(http.MethodPost, "", nil)
	httpcontext.SetToken(ctx, domain.AccessToken{UserID: "user-1", ID: "jti-1"})
	h.SignOut(ctx)

	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "jti-1", revoker.token.ID)
}

type fakeNotifications struct {
	limit int
}

func (f *fakeNotifications) List(_ context.Context, _ domain.Scope, limit int) ([]domain.Notification, error) {
	f.limit = limit
	return nil, nil
}

func TestNotificationsLimit(t *testing.T) {
	notes := &fakeNotifications{}
	h := NewDashboardHandler(nil, notes, nil, nil)
	scope := ownerScope("biz-1")

	ctx := newRequest(http.MethodGet, "", &scope)
	ctx.Request.SetRequestURI("/api/v1/notifications?limit=5")
	h.Notifications(ctx)
	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, 5, notes.limit)
	assert.Equal(t, "[]", string(decodeEnvelope(t, ctx).Data))

	ctx = newRequest(http.MethodGet, "", &scope)
	ctx.Request.SetRequestURI("/api/v1/notifications?limit=abc")
	h.Notifications(ctx)
	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
}

type staticStatus monitor.Status

func (s staticStatus) GetStatus() monitor.Status { return monitor.Status(s) }

func TestHealthDegradedWhenRedisDown(t *testing.T) {
	h := NewHealthHandler(staticStatus{PostgreSQL: true, Journal: true}, nil, nil)

	ctx := newRequest(http.MethodGet, "", nil)
	h.Check(ctx)
	assert.Equal(t, http.StatusServiceUnavailable, ctx.Response.StatusCode())

	h = NewHealthHandler(staticStatus{PostgreSQL: true, Redis: true}, nil, nil)
	ctx = newRequest(http.MethodGet, "", nil)
	h.Check(ctx)
	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())
}
