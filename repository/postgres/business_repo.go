package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/setuponce/backend/domain"
	"github.com/setuponce/backend/repository"
)

type businessRepository struct {
	pool *pgxpool.Pool
}

// NewBusinessRepository instantiates a Postgres-backed business repository.
func NewBusinessRepository(pool *pgxpool.Pool) repository.BusinessRepository {
	return &businessRepository{pool: pool}
}

const businessColumns = `b.id, b.owner_id, b.name, b.description, b.website_subdomain, b.business_context,
	b.is_active, b.created_at, b.updated_at`

func (r *businessRepository) GetByOwner(ctx context.Context, ownerID string) (*domain.Business, error) {
	query := `SELECT ` + businessColumns + `
	FROM businesses b
	WHERE b.owner_id = $1
	`
	return scanBusiness(r.pool.QueryRow(ctx, query, ownerID))
}

func (r *businessRepository) GetByMember(ctx context.Context, userID string) (*domain.Business, error) {
	query := `SELECT ` + businessColumns + `
	FROM businesses b
	JOIN team_members tm ON tm.business_id = b.id
	WHERE tm.user_id = $1
	ORDER BY tm.created_at
	LIMIT 1
	`
	return scanBusiness(r.pool.QueryRow(ctx, query, userID))
}

func (r *businessRepository) Create(ctx context.Context, business *domain.Business) error {
	if business == nil || business.OwnerID == "" {
		return domain.ErrInvalidPayload
	}
	if business.ID == "" {
		business.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO businesses (id, owner_id, name, description, website_subdomain, business_context, is_active)
	VALUES ($1, $2, $3, $4, $5, $6, TRUE)
	RETURNING is_active, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		business.ID,
		business.OwnerID,
		business.Name,
		business.Description,
		business.WebsiteSubdomain,
		business.BusinessContext,
	).Scan(&business.IsActive, &business.CreatedAt, &business.UpdatedAt)
	if err != nil {
		err = translate(err, domain.ErrBusinessNotFound)
		if domain.IsDomainError(err, domain.ErrCodeConflict) {
			return domain.WrapError(domain.ErrCodeConflict, "business already exists or subdomain is taken", err)
		}
		return err
	}
	return nil
}

func (r *businessRepository) Update(ctx context.Context, business *domain.Business) error {
	if business == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE businesses
	SET name = $2,
		description = $3,
		website_subdomain = $4,
		business_context = $5,
		updated_at = NOW()
	WHERE id = $1
	RETURNING owner_id, is_active, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		business.ID,
		business.Name,
		business.Description,
		business.WebsiteSubdomain,
		business.BusinessContext,
	).Scan(&business.OwnerID, &business.IsActive, &business.CreatedAt, &business.UpdatedAt)
	return translate(err, domain.ErrBusinessNotFound)
}

func (r *businessRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.Business, error) {
	query := `SELECT ` + businessColumns + `
	FROM businesses b
	ORDER BY b.created_at DESC
	LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, clampLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	businesses := []domain.Business{}
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		businesses = append(businesses, *b)
	}
	return businesses, rows.Err()
}

func scanBusiness(row scanner) (*domain.Business, error) {
	var b domain.Business
	if err := row.Scan(
		&b.ID,
		&b.OwnerID,
		&b.Name,
		&b.Description,
		&b.WebsiteSubdomain,
		&b.BusinessContext,
		&b.IsActive,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return nil, translate(err, domain.ErrBusinessNotFound)
	}
	return &b, nil
}
