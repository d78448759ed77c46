package handler

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/setuponce/backend/domain"
	"github.com/setuponce/backend/pkg/httpcontext"
	"github.com/setuponce/backend/usecase/catalog"
)

type CatalogLookups interface {
	Lookups(ctx context.Context, scope domain.Scope) (*catalog.Lookups, error)
	CategoryTree(ctx context.Context, scope domain.Scope) ([]*domain.CategoryNode, error)
}

// CatalogHandler serves the read-only helpers of the product and category
// forms. The CRUD routes go through TabHandler.
type CatalogHandler struct {
	baseHandler
	svc CatalogLookups
}

func NewCatalogHandler(svc CatalogLookups, adapter *httpcontext.Adapter, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		baseHandler: newBaseHandler(adapter, logger),
		svc:         svc,
	}
}

// @Summary Categories and attributes offered by the product form
// @Tags products
// @Router /api/v1/products/lookups [get]
func (h *CatalogHandler) Lookups(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	lookups, err := h.svc.Lookups(stdCtx, scope)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, lookups)
}

// @Summary Categories nested by parent
// @Tags categories
// @Router /api/v1/categories/tree [get]
func (h *CatalogHandler) CategoryTree(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tree, err := h.svc.CategoryTree(stdCtx, scope)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	if tree == nil {
		tree = []*domain.CategoryNode{}
	}
	h.respondSuccess(ctx, http.StatusOK, tree)
}
