package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/setuponce/backend/domain"
	"github.com/setuponce/backend/repository"
)

type tokenRepository struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

// NewTokenRepository creates a Redis-backed revocation list. ttl bounds how
// long a revocation is kept when the token carries no expiry.
func NewTokenRepository(client *redislib.Client, ttl time.Duration) repository.TokenRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &tokenRepository{
		client: client,
		prefix: "revoked:",
		ttl:    ttl,
	}
}

func (r *tokenRepository) Revoke(ctx context.Context, token *domain.RevokedToken) error {
	if token == nil || token.ID == "" {
		return domain.ErrInvalidPayload
	}
	if token.RevokedAt.IsZero() {
		token.RevokedAt = time.Now()
	}

	ttl := token.TTL(token.RevokedAt)
	if token.ExpiresAt.IsZero() {
		ttl = r.ttl
	}
	if ttl <= 0 {
		// already expired, nothing left to revoke
		return nil
	}

	payload, err := json.Marshal(token)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(token.ID), payload, ttl).Err()
}

func (r *tokenRepository) IsRevoked(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	n, err := r.client.Exists(ctx, r.key(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *tokenRepository) key(id string) string {
	return fmt.Sprintf("%s%s", r.prefix, id)
}
