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

type ChatService interface {
	Thread(ctx context.Context, scope domain.Scope, conversationID string) (*domain.Thread, error)
	Send(ctx context.Context, scope domain.Scope, conversationID, content string) (*domain.Thread, error)
}

type ChatHandler struct {
	baseHandler
	svc        ChatService
	collection string
}

func NewChatHandler(svc ChatService, collection string, adapter *httpcontext.Adapter, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		baseHandler: newBaseHandler(adapter, logger),
		svc:         svc,
		collection:  collection,
	}
}

// @Summary Messages of a conversation, oldest first
// @Tags conversations
// @Param id path string true "Conversation ID"
// @Router /api/v1/conversations/{id}/messages [get]
func (h *ChatHandler) Thread(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	thread, err := h.svc.Thread(stdCtx, scope, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, thread)
}

// @Summary Send an operator message
// @Tags conversations
// @Accept json
// @Param id path string true "Conversation ID"
// @Param request body transport.MessageRequest true "Message"
// @Router /api/v1/conversations/{id}/messages [post]
func (h *ChatHandler) Send(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}
	var req transport.MessageRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	thread, err := h.svc.Send(stdCtx, scope, pathParam(ctx, "id"), req.Content)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, transport.NewSuccess(thread, transport.SnapshotMeta{
		Collection: h.collection,
		Revision:   thread.Revision,
	}))
}
