package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/setuponce/backend/api/transport"
	"github.com/setuponce/backend/domain"
	"github.com/setuponce/backend/pkg/httpcontext"
	"github.com/setuponce/backend/pkg/logger"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if adapter == nil {
		adapter = httpcontext.NewAdapter(0)
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	return h.adapter.Attach(ctx)
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	transport.Write(ctx, status, payload)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, nil))
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, stdCtx context.Context, err error) {
	status, payload := transport.FromError(err)
	if status == http.StatusInternalServerError {
		logger.WithRequestID(stdCtx, h.logger).Error("request failed",
			zap.ByteString("path", ctx.Path()),
			zap.Error(err),
		)
	}
	h.respondJSON(ctx, status, payload)
}

// scope returns the authenticated scope or answers 401.
func (h baseHandler) scope(ctx *fasthttp.RequestCtx) (domain.Scope, bool) {
	scope, ok := httpcontext.Scope(ctx)
	if !ok {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError(
			string(domain.ErrCodeUnauthorized),
			transport.ErrorBody{Message: "missing identity"},
			nil,
		))
	}
	return scope, ok
}

// decode reads a JSON body into dst or answers 400.
func (h baseHandler) decode(ctx *fasthttp.RequestCtx, dst interface{}) bool {
	if err := json.Unmarshal(ctx.PostBody(), dst); err != nil {
		var syntaxErr *json.SyntaxError
		message := "invalid payload"
		if errors.As(err, &syntaxErr) {
			message = "malformed JSON"
		}
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(
			string(domain.ErrCodeInvalid),
			transport.ErrorBody{Message: message},
			nil,
		))
		return false
	}
	return true
}

func pathParam(ctx *fasthttp.RequestCtx, name string) string {
	value, _ := ctx.UserValue(name).(string)
	return value
}

// confirmed reports whether the destructive action was explicitly confirmed.
func confirmed(ctx *fasthttp.RequestCtx) bool {
	ok, err := strconv.ParseBool(string(ctx.QueryArgs().Peek("confirm")))
	return err == nil && ok
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
