package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/setuponce/backend/domain"
	"github.com/setuponce/backend/repository"
)

type businessCache struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

// NewBusinessCache caches the business resolved for each identity.
func NewBusinessCache(client *redislib.Client, ttl time.Duration) repository.BusinessCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &businessCache{
		client: client,
		prefix: "business:identity:",
		ttl:    ttl,
	}
}

// Get returns (nil, nil) on a cache miss.
func (c *businessCache) Get(ctx context.Context, identity string) (*domain.Business, error) {
	result, err := c.client.Get(ctx, c.key(identity)).Result()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var business domain.Business
	if err := json.Unmarshal([]byte(result), &business); err != nil {
		return nil, err
	}
	return &business, nil
}

func (c *businessCache) Set(ctx context.Context, identity string, business *domain.Business) error {
	if business == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(business)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(identity), payload, c.ttl).Err()
}

func (c *businessCache) Invalidate(ctx context.Context, identity string) error {
	return c.client.Del(ctx, c.key(identity)).Err()
}

func (c *businessCache) key(identity string) string {
	return fmt.Sprintf("%s%s", c.prefix, identity)
}
