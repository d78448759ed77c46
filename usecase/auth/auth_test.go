package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setuponce/backend/domain"
)

type fakeProfiles map[string]*domain.Profile

func (f fakeProfiles) Get(_ context.Context, userID string) (*domain.Profile, error) {
	if p, ok := f[userID]; ok {
		return p, nil
	}
	return nil, domain.ErrProfileNotFound
}

type fakeResolver map[string]*domain.Business

func (f fakeResolver) Resolve(_ context.Context, profile domain.Profile) (*domain.Business, error) {
	return f[profile.UserID], nil
}

type fakeTokens map[string]*domain.RevokedToken

func (f fakeTokens) Revoke(_ context.Context, token *domain.RevokedToken) error {
	f[token.ID] = token
	return nil
}

func (f fakeTokens) IsRevoked(_ context.Context, id string) (bool, error) {
	_, ok := f[id]
	return ok, nil
}

func newUseCase() (*UseCase, fakeTokens) {
	tokens := fakeTokens{}
	profiles := fakeProfiles{
		"u1": {UserID: "u1", Role: domain.RoleOwner, IsActive: true},
		"u2": {UserID: "u2", Role: domain.RoleOwner, IsActive: true},
	}
	resolver := fakeResolver{"u1": {ID: "b1", OwnerID: "u1"}}
	return New(profiles, resolver, tokens, nil), tokens
}

func TestAuthenticateBuildsScope(t *testing.T) {
	uc, _ := newUseCase()

	scope, err := uc.Authenticate(context.Background(), domain.AccessToken{UserID: "u1", ID: "t1"})
	require.NoError(t, err)
	assert.Equal(t, "u1", scope.Identity)
	assert.Equal(t, domain.RoleOwner, scope.Profile.Role)
	assert.Equal(t, "b1", scope.BusinessID())

	scope, err = uc.Authenticate(context.Background(), domain.AccessToken{UserID: "u2"})
	require.NoError(t, err)
	assert.Nil(t, scope.Business)
}

func TestAuthenticateUnknownProfile(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.Authenticate(context.Background(), domain.AccessToken{UserID: "ghost"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSignedOutTokenIsRejected(t *testing.T) {
	uc, tokens := newUseCase()
	token := domain.AccessToken{UserID: "u1", ID: "t1", ExpiresAt: time.Now().Add(time.Hour)}

	require.NoError(t, uc.SignOut(context.Background(), token))
	assert.Contains(t, tokens, "t1")

	_, err := uc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)
}

func TestSignOutNeedsTokenID(t *testing.T) {
	uc, _ := newUseCase()

	err := uc.SignOut(context.Background(), domain.AccessToken{UserID: "u1"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}
