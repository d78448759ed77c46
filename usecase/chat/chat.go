package chat

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/setuponce/backend/domain"
	"github.com/setuponce/backend/repository"
	"github.com/setuponce/backend/usecase"
	"github.com/setuponce/backend/usecase/tenant"
)

const Collection = "conversations"

type Service = tenant.Service[domain.Conversation, domain.ConversationInput]

// UseCase serves the chat panel: the conversation list and per-conversation threads.
type UseCase struct {
	*Service
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	logger        *zap.Logger
}

type Deps struct {
	Conversations repository.ConversationRepository
	Messages      repository.MessageRepository
	Revisions     repository.RevisionRepository
	Notifier      usecase.Notifier
	Recorder      usecase.MutationRecorder
	Logger        *zap.Logger
}

func New(deps Deps) *UseCase {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &UseCase{
		Service: tenant.New(tenant.Config[domain.Conversation, domain.ConversationInput]{
			Collection: Collection,
			Label:      "Conversation",
			Store:      deps.Conversations,
			Build: func(_ context.Context, businessID, _ string, in domain.ConversationInput) (*domain.Conversation, error) {
				return domain.BuildConversation(businessID, in)
			},
			Revisions: deps.Revisions,
			Notifier:  deps.Notifier,
			Recorder:  deps.Recorder,
			Logger:    deps.Logger,
		}),
		conversations: deps.Conversations,
		messages:      deps.Messages,
		logger:        deps.Logger,
	}
}

// Thread returns the messages of a conversation, oldest first.
func (uc *UseCase) Thread(ctx context.Context, scope domain.Scope, conversationID string) (*domain.Thread, error) {
	businessID, err := tenant.Authorize(scope)
	if err != nil {
		return nil, err
	}
	messages, err := uc.messages.ListByConversation(ctx, businessID, conversationID)
	if err != nil {
		return nil, err
	}
	return &domain.Thread{ConversationID: conversationID, Messages: messages}, nil
}

// Send posts an operator message, moves the conversation's last_message_at
// forward to the message time and returns the refreshed thread together with
// the refreshed conversation list.
func (uc *UseCase) Send(ctx context.Context, scope domain.Scope, conversationID, content string) (*domain.Thread, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ValidationError(map[string]string{"content": "message cannot be empty"})
	}

	snap, err := uc.Mutate(ctx, scope, usecase.OperationUpdate, func(ctx context.Context, businessID string) error {
		sender := domain.HumanSenderName
		message := &domain.Message{
			ConversationID: conversationID,
			BusinessID:     businessID,
			SenderType:     domain.SenderHuman,
			SenderName:     &sender,
			Content:        content,
		}
		return uc.messages.Post(ctx, message)
	})
	if err != nil {
		return nil, err
	}

	thread, err := uc.Thread(ctx, scope, conversationID)
	if err != nil {
		return nil, err
	}
	thread.Conversations = snap.Items
	thread.Revision = snap.Revision
	return thread, nil
}
