package repository

import (
	"context"

	"github.com/setuponce/backend/domain"
)

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*domain.Profile, error)
}
