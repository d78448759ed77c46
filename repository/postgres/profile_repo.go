package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/setuponce/backend/domain"
	"github.com/setuponce/backend/repository"
)

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository instantiates a Postgres-backed profile repository.
func NewProfileRepository(pool *pgxpool.Pool) repository.ProfileRepository {
	return &profileRepository{pool: pool}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	const query = `
		SELECT id, user_id, email, COALESCE(full_name, ''), role, subscription_plan, is_active, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	var (
		p    domain.Profile
		role string
		plan string
	)
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.Email,
		&p.FullName,
		&role,
		&plan,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, translate(err, domain.ErrProfileNotFound)
	}

	parsed, err := domain.ParseRole(role)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeForbidden, "profile has an unsupported role", err)
	}
	p.Role = parsed
	p.SubscriptionPlan = domain.Plan(plan)
	return &p, nil
}
