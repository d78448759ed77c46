package handler

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/setuponce/backend/api/transport"
	"github.com/setuponce/backend/domain"
	"github.com/setuponce/backend/pkg/httpcontext"
)

// BusinessService is the business-scoping surface the handler relies on.
type BusinessService interface {
	Current(ctx context.Context, scope domain.Scope) (*domain.Business, error)
	Create(ctx context.Context, scope domain.Scope, in domain.BusinessInput) (*domain.Business, error)
	Update(ctx context.Context, scope domain.Scope, in domain.BusinessInput) (*domain.Business, error)
	ListAll(ctx context.Context, scope domain.Scope, page int) ([]domain.Business, error)
}

type BusinessHandler struct {
	baseHandler
	svc BusinessService
}

func NewBusinessHandler(svc BusinessService, adapter *httpcontext.Adapter, logger *zap.Logger) *BusinessHandler {
	return &BusinessHandler{
		baseHandler: newBaseHandler(adapter, logger),
		svc:         svc,
	}
}

// @Summary Current business of the caller
// @Tags business
// @Success 200 {object} transport.Envelope
// @Failure 404 {object} transport.Envelope "NO_BUSINESS"
// @Router /api/v1/business [get]
func (h *BusinessHandler) Get(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	business, err := h.svc.Current(stdCtx, scope)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			h.respondJSON(ctx, http.StatusNotFound, transport.NewError(
				transport.CodeNoBusiness,
				transport.ErrorBody{Message: "no business set up yet"},
				nil,
			))
			return
		}
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, business)
}

// @Summary Set up the caller's business
// @Tags business
// @Accept json
// @Param request body domain.BusinessInput true "Business"
// @Success 201 {object} transport.Envelope
// @Failure 409 {object} transport.Envelope
// @Router /api/v1/business [post]
func (h *BusinessHandler) Create(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	var in domain.BusinessInput
	if !h.decode(ctx, &in) {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	business, err := h.svc.Create(stdCtx, scope, in)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, business)
}

// @Summary Edit business settings
// @Tags business
// @Accept json
// @Param request body domain.BusinessInput true "Business"
// @Router /api/v1/business [put]
func (h *BusinessHandler) Update(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	var in domain.BusinessInput
	if !h.decode(ctx, &in) {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	business, err := h.svc.Update(stdCtx, scope, in)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, business)
}

// @Summary All businesses (admin)
// @Tags admin
// @Param page query int false "Page, 1-based"
// @Router /api/v1/admin/businesses [get]
func (h *BusinessHandler) ListAll(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	page := parseInt(string(ctx.QueryArgs().Peek("page")), 1)
	businesses, err := h.svc.ListAll(stdCtx, scope, page)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(businesses, map[string]int{"page": page}))
}
