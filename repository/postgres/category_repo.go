package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/setuponce/backend/domain"
	"github.com/setuponce/backend/repository"
)

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository returns a Postgres-backed implementation of CategoryRepository.
func NewCategoryRepository(pool *pgxpool.Pool) repository.CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) List(ctx context.Context, businessID string) ([]domain.Category, error) {
	const query = `
	SELECT id, business_id, name, description, slug, parent_id, image_url, sort_order, is_active, created_at
	FROM product_categories
	WHERE business_id = $1
	ORDER BY sort_order ASC, name ASC
	`
	rows, err := r.pool.Query(ctx, query, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(
			&c.ID,
			&c.BusinessID,
			&c.Name,
			&c.Description,
			&c.Slug,
			&c.ParentID,
			&c.ImageURL,
			&c.SortOrder,
			&c.IsActive,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *categoryRepository) Create(ctx context.Context, businessID string, category *domain.Category) error {
	if category == nil {
		return domain.ErrInvalidPayload
	}
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	category.BusinessID = businessID

	const query = `
	INSERT INTO product_categories (id, business_id, name, description, slug, parent_id, image_url, sort_order, is_active)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query,
		category.ID,
		businessID,
		category.Name,
		category.Description,
		category.Slug,
		category.ParentID,
		category.ImageURL,
		category.SortOrder,
		category.IsActive,
	).Scan(&category.CreatedAt)
	return translate(err, domain.ErrCategoryNotFound)
}

func (r *categoryRepository) Update(ctx context.Context, businessID, id string, category *domain.Category) error {
	if category == nil {
		return domain.ErrInvalidPayload
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if category.ParentID != nil {
			cyclic, err := createsCycle(ctx, tx, businessID, id, *category.ParentID)
			if err != nil {
				return err
			}
			if cyclic {
				return domain.ValidationError(map[string]string{
					"parent_id": "parent cannot be a descendant of the category",
				})
			}
		}

		const query = `
		UPDATE product_categories
		SET name = $3,
			description = $4,
			slug = $5,
			parent_id = $6,
			image_url = $7,
			sort_order = $8
		WHERE id = $1 AND business_id = $2
		RETURNING is_active, created_at
		`
		err := tx.QueryRow(ctx, query,
			id,
			businessID,
			category.Name,
			category.Description,
			category.Slug,
			category.ParentID,
			category.ImageURL,
			category.SortOrder,
		).Scan(&category.IsActive, &category.CreatedAt)
		if err != nil {
			return translate(err, domain.ErrCategoryNotFound)
		}
		category.ID = id
		category.BusinessID = businessID
		return nil
	})
}

// Delete removes the category. Children and products fall back to no parent /
// no category through ON DELETE SET NULL.
func (r *categoryRepository) Delete(ctx context.Context, businessID, id string) error {
	const query = `DELETE FROM product_categories WHERE id = $1 AND business_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, businessID)
	if err != nil {
		return err
	}
	return affected(tag, domain.ErrCategoryNotFound)
}

func createsCycle(ctx context.Context, tx pgx.Tx, businessID, id, parentID string) (bool, error) {
	if id == parentID {
		return true, nil
	}
	const query = `
	WITH RECURSIVE ancestors AS (
		SELECT id, parent_id FROM product_categories WHERE id = $2 AND business_id = $1
		UNION
		SELECT c.id, c.parent_id
		FROM product_categories c
		JOIN ancestors a ON c.id = a.parent_id
		WHERE c.business_id = $1
	)
	SELECT EXISTS (SELECT 1 FROM ancestors WHERE id = $3)
	`
	var cyclic bool
	if err := tx.QueryRow(ctx, query, businessID, parentID, id).Scan(&cyclic); err != nil {
		return false, err
	}
	return cyclic, nil
}
