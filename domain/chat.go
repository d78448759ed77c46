package domain

import "time"

// SenderType identifies who wrote a chat message.
type SenderType string

const (
	SenderHuman    SenderType = "human"
	SenderAI       SenderType = "ai"
	SenderCustomer SenderType = "customer"
)

// HumanSenderName is shown for messages typed by the dashboard operator.
const HumanSenderName = "You"

// Conversation is a customer chat thread on one channel.
type Conversation struct {
	ID            string     `json:"id"`
	BusinessID    string     `json:"business_id"`
	Channel       string     `json:"channel"`
	CustomerName  *string    `json:"customer_name,omitempty"`
	CustomerPhone *string    `json:"customer_phone,omitempty"`
	ExternalID    *string    `json:"external_id,omitempty"`
	IsActive      bool       `json:"is_active"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ConversationInput is the payload for opening or editing a conversation.
type ConversationInput struct {
	Channel       string `json:"channel" validate:"required,notblank,max=50"`
	CustomerName  string `json:"customer_name" validate:"max=255"`
	CustomerPhone string `json:"customer_phone" validate:"max=50"`
	ExternalID    string `json:"external_id" validate:"max=255"`
}

// BuildConversation normalises the conversation form.
func BuildConversation(businessID string, in ConversationInput) (*Conversation, error) {
	return &Conversation{
		BusinessID:    businessID,
		Channel:       trim(in.Channel),
		CustomerName:  OptionalText(in.CustomerName),
		CustomerPhone: OptionalText(in.CustomerPhone),
		ExternalID:    OptionalText(in.ExternalID),
		IsActive:      true,
	}, nil
}

// Message is one entry of a conversation thread.
type Message struct {
	ID             string     `json:"id"`
	ConversationID string     `json:"conversation_id"`
	BusinessID     string     `json:"business_id"`
	SenderType     SenderType `json:"sender_type"`
	SenderName     *string    `json:"sender_name,omitempty"`
	Content        string     `json:"content"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Thread is a conversation's messages in display order together with the
// refreshed conversation list.
type Thread struct {
	ConversationID string         `json:"conversation_id"`
	Messages       []Message      `json:"messages"`
	Conversations  []Conversation `json:"conversations,omitempty"`
	Revision       int64          `json:"revision"`
}
