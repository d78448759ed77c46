package repository

import (
	"context"

	"github.com/setuponce/backend/domain"
)

type ConversationRepository interface {
	List(ctx context.Context, businessID string) ([]domain.Conversation, error)
	Create(ctx context.Context, businessID string, conversation *domain.Conversation) error
	Update(ctx context.Context, businessID, id string, conversation *domain.Conversation) error
	Delete(ctx context.Context, businessID, id string) error
}

type MessageRepository interface {
	ListByConversation(ctx context.Context, businessID, conversationID string) ([]domain.Message, error)
	// Post stores the message and advances the conversation's
	// last_message_at atomically. Archived conversations are rejected.
	Post(ctx context.Context, message *domain.Message) error
}
