package repository

import (
	"context"

	"github.com/setuponce/backend/domain"
)

type TokenRepository interface {
	Revoke(ctx context.Context, token *domain.RevokedToken) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}

// RevisionRepository hands out monotonically increasing revisions per
// business and collection.
type RevisionRepository interface {
	Current(ctx context.Context, businessID, collection string) (int64, error)
	Bump(ctx context.Context, businessID, collection string) (int64, error)
}
