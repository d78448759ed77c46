package handler

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/setuponce/backend/api/transport"
	"github.com/setuponce/backend/domain"
	"github.com/setuponce/backend/pkg/httpcontext"
	"github.com/setuponce/backend/usecase/tenant"
)

type OrderStatusUpdater interface {
	UpdateStatus(ctx context.Context, scope domain.Scope, id, status string) (*tenant.Snapshot[domain.Order], error)
}

type OrderHandler struct {
	baseHandler
	svc OrderStatusUpdater
}

func NewOrderHandler(svc OrderStatusUpdater, adapter *httpcontext.Adapter, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		baseHandler: newBaseHandler(adapter, logger),
		svc:         svc,
	}
}

// @Summary Change the status of an order
// @Tags orders
// @Accept json
// @Param id path string true "Order ID"
// @Param request body transport.OrderStatusRequest true "Status"
// @Router /api/v1/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	var req transport.OrderStatusRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	snap, err := h.svc.UpdateStatus(stdCtx, scope, pathParam(ctx, "id"), req.Status)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	respondSnapshot(h.baseHandler, ctx, http.StatusOK, snap)
}
