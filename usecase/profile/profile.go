package profile

import (
	"context"

	"go.uber.org/zap"

	"github.com/setuponce/backend/domain"
	"github.com/setuponce/backend/repository"
)

type UseCase struct {
	profiles repository.ProfileRepository
	logger   *zap.Logger
}

func New(profiles repository.ProfileRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		profiles: profiles,
		logger:   logger,
	}
}

// Get loads the profile row the identity provider keeps for userID. Inactive
// profiles are refused.
func (uc *UseCase) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	profile, err := uc.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !profile.IsActive {
		uc.logger.Info("inactive profile refused", zap.String("user_id", userID))
		return nil, domain.ErrForbidden
	}
	return profile, nil
}
