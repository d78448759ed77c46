package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/setuponce/backend/api/transport"
	"github.com/setuponce/backend/pkg/httpcontext"
	"github.com/setuponce/backend/usecase/tenant"
)

// TabHandler exposes one tenant collection over REST. Every write answers
// with the refetched collection and its revision.
type TabHandler[T, In any] struct {
	baseHandler
	svc *tenant.Service[T, In]
}

func NewTabHandler[T, In any](svc *tenant.Service[T, In], adapter *httpcontext.Adapter, logger *zap.Logger) *TabHandler[T, In] {
	return &TabHandler[T, In]{
		baseHandler: newBaseHandler(adapter, logger),
		svc:         svc,
	}
}

// @Summary List a tenant collection
// @Router /api/v1/{collection} [get]
func (h *TabHandler[T, In]) List(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	snap, err := h.svc.List(stdCtx, scope)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSnapshot(ctx, http.StatusOK, snap)
}

// @Summary Create a row and return the refreshed collection
// @Router /api/v1/{collection} [post]
func (h *TabHandler[T, In]) Create(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	var in In
	if !h.decode(ctx, &in) {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	snap, err := h.svc.Create(stdCtx, scope, in)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSnapshot(ctx, http.StatusCreated, snap)
}

// @Summary Update a row and return the refreshed collection
// @Router /api/v1/{collection}/{id} [put]
func (h *TabHandler[T, In]) Update(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	var in In
	if !h.decode(ctx, &in) {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	snap, err := h.svc.Update(stdCtx, scope, pathParam(ctx, "id"), in)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSnapshot(ctx, http.StatusOK, snap)
}

// @Summary Delete a row; requires ?confirm=true
// @Router /api/v1/{collection}/{id} [delete]
func (h *TabHandler[T, In]) Delete(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	snap, err := h.svc.Delete(stdCtx, scope, pathParam(ctx, "id"), confirmed(ctx))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSnapshot(ctx, http.StatusOK, snap)
}

func (h *TabHandler[T, In]) respondSnapshot(ctx *fasthttp.RequestCtx, status int, snap *tenant.Snapshot[T]) {
	respondSnapshot(h.baseHandler, ctx, status, snap)
}

func respondSnapshot[T any](h baseHandler, ctx *fasthttp.RequestCtx, status int, snap *tenant.Snapshot[T]) {
	h.respondJSON(ctx, status, transport.NewSuccess(snap.Items, transport.SnapshotMeta{
		Collection: snap.Collection,
		Revision:   snap.Revision,
	}))
}
