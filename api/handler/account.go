package handler

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/setuponce/backend/domain"
	"github.com/setuponce/backend/pkg/httpcontext"
)

type TokenRevoker interface {
	SignOut(ctx context.Context, token domain.AccessToken) error
}

type AccountHandler struct {
	baseHandler
	tokens TokenRevoker
}

func NewAccountHandler(tokens TokenRevoker, adapter *httpcontext.Adapter, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		baseHandler: newBaseHandler(adapter, logger),
		tokens:      tokens,
	}
}

// @Summary Caller profile
// @Tags profile
// @Router /api/v1/profile [get]
func (h *AccountHandler) Profile(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	h.respondSuccess(ctx, http.StatusOK, scope.Profile)
}

// @Summary Revoke the presented token
// @Tags auth
// @Router /api/v1/auth/signout [post]
func (h *AccountHandler) SignOut(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	token, ok := httpcontext.Token(ctx)
	if !ok {
		h.respondError(ctx, stdCtx, domain.ErrUnauthorized)
		return
	}
	if err := h.tokens.SignOut(stdCtx, token); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"message": "signed out"})
}
