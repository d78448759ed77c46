package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/setuponce/backend/domain"
	"github.com/setuponce/backend/repository"
)

type conversationRepository struct {
	pool *pgxpool.Pool
}

// NewConversationRepository returns a Postgres-backed implementation of ConversationRepository.
func NewConversationRepository(pool *pgxpool.Pool) repository.ConversationRepository {
	return &conversationRepository{pool: pool}
}

func (r *conversationRepository) List(ctx context.Context, businessID string) ([]domain.Conversation, error) {
	const query = `
	SELECT id, business_id, channel, customer_name, customer_phone, external_id, is_active, last_message_at, created_at
	FROM chat_conversations
	WHERE business_id = $1 AND is_active
	ORDER BY last_message_at DESC NULLS LAST, created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conversations := []domain.Conversation{}
	for rows.Next() {
		var c domain.Conversation
		if err := rows.Scan(
			&c.ID,
			&c.BusinessID,
			&c.Channel,
			&c.CustomerName,
			&c.CustomerPhone,
			&c.ExternalID,
			&c.IsActive,
			&c.LastMessageAt,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}

func (r *conversationRepository) Create(ctx context.Context, businessID string, conversation *domain.Conversation) error {
	if conversation == nil {
		return domain.ErrInvalidPayload
	}
	if conversation.ID == "" {
		conversation.ID = uuid.NewString()
	}
	conversation.BusinessID = businessID

	const query = `
	INSERT INTO chat_conversations (id, business_id, channel, customer_name, customer_phone, external_id, is_active)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query,
		conversation.ID,
		businessID,
		conversation.Channel,
		conversation.CustomerName,
		conversation.CustomerPhone,
		conversation.ExternalID,
		conversation.IsActive,
	).Scan(&conversation.CreatedAt)
	return translate(err, domain.ErrConversationNotFound)
}

func (r *conversationRepository) Update(ctx context.Context, businessID, id string, conversation *domain.Conversation) error {
	if conversation == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE chat_conversations
	SET channel = $3,
		customer_name = $4,
		customer_phone = $5,
		external_id = $6
	WHERE id = $1 AND business_id = $2 AND is_active
	RETURNING last_message_at, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		id,
		businessID,
		conversation.Channel,
		conversation.CustomerName,
		conversation.CustomerPhone,
		conversation.ExternalID,
	).Scan(&conversation.LastMessageAt, &conversation.CreatedAt)
	if err != nil {
		return translate(err, domain.ErrConversationNotFound)
	}
	conversation.ID = id
	conversation.BusinessID = businessID
	return nil
}

// Delete archives the conversation; its messages are kept.
func (r *conversationRepository) Delete(ctx context.Context, businessID, id string) error {
	const query = `
	UPDATE chat_conversations SET is_active = FALSE
	WHERE id = $1 AND business_id = $2 AND is_active
	`
	tag, err := r.pool.Exec(ctx, query, id, businessID)
	if err != nil {
		return err
	}
	return affected(tag, domain.ErrConversationNotFound)
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository returns a Postgres-backed implementation of MessageRepository.
func NewMessageRepository(pool *pgxpool.Pool) repository.MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) ListByConversation(ctx context.Context, businessID, conversationID string) ([]domain.Message, error) {
	const query = `
	SELECT id, conversation_id, business_id, sender_type, sender_name, content, created_at
	FROM chat_messages
	WHERE business_id = $1 AND conversation_id = $2
	ORDER BY created_at ASC, id
	`
	rows, err := r.pool.Query(ctx, query, businessID, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var (
			m      domain.Message
			sender string
		)
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.BusinessID, &sender, &m.SenderName, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.SenderType = domain.SenderType(sender)
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

const lockConversationQuery = `
	SELECT c.id FROM chat_conversations c
	WHERE c.id = $1 AND c.business_id = $2 AND c.is_active
	FOR UPDATE
	`

const insertMessageQuery = `
	INSERT INTO chat_messages (id, conversation_id, business_id, sender_type, sender_name, content, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()))
	RETURNING created_at
	`

// last_message_at only moves forward.
const touchConversationQuery = `
	UPDATE chat_conversations
	SET last_message_at = GREATEST(COALESCE(last_message_at, $3), $3)
	WHERE id = $1 AND business_id = $2
	`

// Post appends a message to an active conversation and advances its
// last_message_at in a single transaction. Archived or unknown
// conversations yield ErrConversationNotFound.
func (r *messageRepository) Post(ctx context.Context, message *domain.Message) error {
	if message == nil {
		return domain.ErrInvalidPayload
	}
	if message.ID == "" {
		message.ID = uuid.NewString()
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var id string
		err := tx.QueryRow(ctx, lockConversationQuery, message.ConversationID, message.BusinessID).Scan(&id)
		if err != nil {
			return translate(err, domain.ErrConversationNotFound)
		}

		err = tx.QueryRow(ctx, insertMessageQuery,
			message.ID,
			message.ConversationID,
			message.BusinessID,
			string(message.SenderType),
			message.SenderName,
			message.Content,
			nullTime(message.CreatedAt),
		).Scan(&message.CreatedAt)
		if isForeignKeyViolation(err) {
			return domain.ErrConversationNotFound
		}
		if err != nil {
			return translate(err, domain.ErrConversationNotFound)
		}

		tag, err := tx.Exec(ctx, touchConversationQuery, message.ConversationID, message.BusinessID, message.CreatedAt)
		if err != nil {
			return err
		}
		return affected(tag, domain.ErrConversationNotFound)
	})
}
