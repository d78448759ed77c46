package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/setuponce/backend/domain"
	"github.com/setuponce/backend/pkg/httpcontext"
)

type OverviewReader interface {
	Get(ctx context.Context, scope domain.Scope) (*domain.Overview, error)
}

type NotificationLister interface {
	List(ctx context.Context, scope domain.Scope, limit int) ([]domain.Notification, error)
}

// DashboardHandler serves the landing page: the overview numbers and the
// notification feed.
type DashboardHandler struct {
	baseHandler
	overview      OverviewReader
	notifications NotificationLister
}

func NewDashboardHandler(overview OverviewReader, notifications NotificationLister, adapter *httpcontext.Adapter, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		baseHandler:   newBaseHandler(adapter, logger),
		overview:      overview,
		notifications: notifications,
	}
}

// @Summary Dashboard overview
// @Tags overview
// @Router /api/v1/overview [get]
func (h *DashboardHandler) Overview(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	overview, err := h.overview.Get(stdCtx, scope)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, overview)
}

// @Summary Recent notifications, newest first
// @Tags notifications
// @Param limit query int false "Maximum entries"
// @Router /api/v1/notifications [get]
func (h *DashboardHandler) Notifications(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	limit := 0
	if raw := ctx.QueryArgs().Peek("limit"); len(raw) > 0 {
		parsed, err := strconv.Atoi(string(raw))
		if err != nil || parsed < 0 {
			h.respondError(ctx, stdCtx, domain.ValidationError(map[string]string{"limit": "must be a non-negative integer"}))
			return
		}
		limit = parsed
	}

	entries, err := h.notifications.List(stdCtx, scope, limit)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	if entries == nil {
		entries = []domain.Notification{}
	}
	h.respondSuccess(ctx, http.StatusOK, entries)
}
