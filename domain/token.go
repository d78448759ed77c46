package domain

import "time"

// RevokedToken marks a signed-out access token until it would have expired anyway.
type RevokedToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	RevokedAt time.Time `json:"revoked_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TTL returns how long the revocation must be remembered.
func (t *RevokedToken) TTL(reference time.Time) time.Duration {
	if t == nil {
		return 0
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return t.ExpiresAt.Sub(reference)
}

// AccessToken is what is known about a verified bearer token.
type AccessToken struct {
	UserID    string
	ID        string
	ExpiresAt time.Time
}
