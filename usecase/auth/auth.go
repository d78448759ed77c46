package auth

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/setuponce/backend/domain"
	"github.com/setuponce/backend/repository"
)

type ProfileReader interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
}

type BusinessResolver interface {
	Resolve(ctx context.Context, profile domain.Profile) (*domain.Business, error)
}

// UseCase turns verified tokens into request scopes and handles sign-out.
type UseCase struct {
	profiles   ProfileReader
	businesses BusinessResolver
	tokens     repository.TokenRepository
	logger     *zap.Logger
}

func New(profiles ProfileReader, businesses BusinessResolver, tokens repository.TokenRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		profiles:   profiles,
		businesses: businesses,
		tokens:     tokens,
		logger:     logger,
	}
}

// Authenticate builds the immutable scope of a request: identity, profile and
// the business it resolves to (nil when none exists yet).
func (uc *UseCase) Authenticate(ctx context.Context, token domain.AccessToken) (domain.Scope, error) {
	if token.UserID == "" {
		return domain.Scope{}, domain.ErrUnauthorized
	}
	if token.ID != "" {
		revoked, err := uc.tokens.IsRevoked(ctx, token.ID)
		if err != nil {
			return domain.Scope{}, err
		}
		if revoked {
			return domain.Scope{}, domain.ErrTokenRevoked
		}
	}

	profile, err := uc.profiles.Get(ctx, token.UserID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return domain.Scope{}, domain.ErrUnauthorized
		}
		return domain.Scope{}, err
	}

	business, err := uc.businesses.Resolve(ctx, *profile)
	if err != nil {
		return domain.Scope{}, err
	}

	return domain.Scope{
		Identity: token.UserID,
		Profile:  *profile,
		Business: business,
	}, nil
}

// SignOut revokes the token until it expires.
func (uc *UseCase) SignOut(ctx context.Context, token domain.AccessToken) error {
	if token.ID == "" {
		return domain.NewError(domain.ErrCodeInvalid, "token has no id to revoke")
	}
	err := uc.tokens.Revoke(ctx, &domain.RevokedToken{
		ID:        token.ID,
		UserID:    token.UserID,
		RevokedAt: time.Now(),
		ExpiresAt: token.ExpiresAt,
	})
	if err != nil {
		return err
	}
	uc.logger.Info("token revoked", zap.String("user_id", token.UserID))
	return nil
}
