package redis

import (
	"context"
	"errors"
	"fmt"

	redislib "github.com/redis/go-redis/v9"

	"github.com/setuponce/backend/repository"
)

type revisionRepository struct {
	client *redislib.Client
	prefix string
}

// NewRevisionRepository keeps one INCR counter per business and collection.
func NewRevisionRepository(client *redislib.Client) repository.RevisionRepository {
	return &revisionRepository{client: client, prefix: "rev:"}
}

func (r *revisionRepository) Current(ctx context.Context, businessID, collection string) (int64, error) {
	rev, err := r.client.Get(ctx, r.key(businessID, collection)).Int64()
	if errors.Is(err, redislib.Nil) {
		return 0, nil
	}
	return rev, err
}

func (r *revisionRepository) Bump(ctx context.Context, businessID, collection string) (int64, error) {
	return r.client.Incr(ctx, r.key(businessID, collection)).Result()
}

func (r *revisionRepository) key(businessID, collection string) string {
	return fmt.Sprintf("%s%s:%s", r.prefix, businessID, collection)
}
