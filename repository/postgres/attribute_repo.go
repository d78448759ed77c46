package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/setuponce/backend/domain"
	"github.com/setuponce/backend/repository"
)

type attributeRepository struct {
	pool *pgxpool.Pool
}

// NewAttributeRepository returns a Postgres-backed implementation of AttributeRepository.
func NewAttributeRepository(pool *pgxpool.Pool) repository.AttributeRepository {
	return &attributeRepository{pool: pool}
}

func (r *attributeRepository) List(ctx context.Context, businessID string) ([]domain.Attribute, error) {
	const query = `
	SELECT id, business_id, name, type, is_required, is_filterable, is_searchable, options, sort_order, is_active, created_at
	FROM product_attributes
	WHERE business_id = $1
	ORDER BY sort_order ASC, name ASC
	`
	rows, err := r.pool.Query(ctx, query, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attributes := []domain.Attribute{}
	for rows.Next() {
		var (
			a        domain.Attribute
			attrType string
		)
		if err := rows.Scan(
			&a.ID,
			&a.BusinessID,
			&a.Name,
			&attrType,
			&a.IsRequired,
			&a.IsFilterable,
			&a.IsSearchable,
			&a.Options,
			&a.SortOrder,
			&a.IsActive,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		a.Type = domain.AttributeType(attrType)
		a.Annotate()
		attributes = append(attributes, a)
	}
	return attributes, rows.Err()
}

func (r *attributeRepository) Create(ctx context.Context, businessID string, attribute *domain.Attribute) error {
	if attribute == nil {
		return domain.ErrInvalidPayload
	}
	if attribute.ID == "" {
		attribute.ID = uuid.NewString()
	}
	attribute.BusinessID = businessID

	const query = `
	INSERT INTO product_attributes (id, business_id, name, type, is_required, is_filterable, is_searchable, options, sort_order, is_active)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query,
		attribute.ID,
		businessID,
		attribute.Name,
		string(attribute.Type),
		attribute.IsRequired,
		attribute.IsFilterable,
		attribute.IsSearchable,
		attribute.Options,
		attribute.SortOrder,
		attribute.IsActive,
	).Scan(&attribute.CreatedAt)
	return translate(err, domain.ErrAttributeNotFound)
}

func (r *attributeRepository) Update(ctx context.Context, businessID, id string, attribute *domain.Attribute) error {
	if attribute == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE product_attributes
	SET name = $3,
		type = $4,
		is_required = $5,
		is_filterable = $6,
		is_searchable = $7,
		options = $8,
		sort_order = $9
	WHERE id = $1 AND business_id = $2
	RETURNING is_active, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		id,
		businessID,
		attribute.Name,
		string(attribute.Type),
		attribute.IsRequired,
		attribute.IsFilterable,
		attribute.IsSearchable,
		attribute.Options,
		attribute.SortOrder,
	).Scan(&attribute.IsActive, &attribute.CreatedAt)
	if err != nil {
		return translate(err, domain.ErrAttributeNotFound)
	}
	attribute.ID = id
	attribute.BusinessID = businessID
	return nil
}

func (r *attributeRepository) Delete(ctx context.Context, businessID, id string) error {
	const query = `DELETE FROM product_attributes WHERE id = $1 AND business_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, businessID)
	if err != nil {
		return err
	}
	return affected(tag, domain.ErrAttributeNotFound)
}
