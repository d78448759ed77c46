package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/setuponce/backend/domain"
	"github.com/setuponce/backend/repository"
)

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a Postgres-backed implementation of ProductRepository.
func NewProductRepository(pool *pgxpool.Pool) repository.ProductRepository {
	return &productRepository{pool: pool}
}

const productColumns = `id, business_id, name, description, price, cost, sku, category_id, brand, barcode,
	image_url, is_featured, sort_order, stock_quantity, low_stock_alert, is_active, created_at, updated_at`

func (r *productRepository) List(ctx context.Context, businessID string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + `
	FROM products
	WHERE business_id = $1 AND is_active
	ORDER BY created_at DESC, id
	`
	rows, err := r.pool.Query(ctx, query, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, rows.Err()
}

func (r *productRepository) Create(ctx context.Context, businessID string, product *domain.Product) error {
	if product == nil {
		return domain.ErrInvalidPayload
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	product.BusinessID = businessID

	const query = `
	INSERT INTO products (id, business_id, name, description, price, cost, sku, category_id, brand, barcode,
		image_url, is_featured, sort_order, stock_quantity, low_stock_alert, is_active)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		product.ID,
		businessID,
		product.Name,
		product.Description,
		product.Price,
		product.Cost,
		product.SKU,
		product.CategoryID,
		product.Brand,
		product.Barcode,
		product.ImageURL,
		product.IsFeatured,
		product.SortOrder,
		product.StockQuantity,
		product.LowStockAlert,
		product.IsActive,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	return translate(err, domain.ErrProductNotFound)
}

func (r *productRepository) Update(ctx context.Context, businessID, id string, product *domain.Product) error {
	if product == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE products
	SET name = $3,
		description = $4,
		price = $5,
		cost = $6,
		sku = $7,
		category_id = $8,
		brand = $9,
		barcode = $10,
		image_url = $11,
		is_featured = $12,
		sort_order = $13,
		stock_quantity = $14,
		low_stock_alert = $15,
		updated_at = NOW()
	WHERE id = $1 AND business_id = $2 AND is_active
	RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		id,
		businessID,
		product.Name,
		product.Description,
		product.Price,
		product.Cost,
		product.SKU,
		product.CategoryID,
		product.Brand,
		product.Barcode,
		product.ImageURL,
		product.IsFeatured,
		product.SortOrder,
		product.StockQuantity,
		product.LowStockAlert,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return translate(err, domain.ErrProductNotFound)
	}
	product.ID = id
	product.BusinessID = businessID
	return nil
}

// Delete deactivates the product; order lines keep referencing it.
func (r *productRepository) Delete(ctx context.Context, businessID, id string) error {
	const query = `
	UPDATE products SET is_active = FALSE, updated_at = NOW()
	WHERE id = $1 AND business_id = $2 AND is_active
	`
	tag, err := r.pool.Exec(ctx, query, id, businessID)
	if err != nil {
		return err
	}
	return affected(tag, domain.ErrProductNotFound)
}

func (r *productRepository) Prices(ctx context.Context, businessID string, ids []string) (map[string]decimal.Decimal, error) {
	const query = `
	SELECT id, price FROM products
	WHERE business_id = $1 AND id = ANY($2) AND is_active
	`
	rows, err := r.pool.Query(ctx, query, businessID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prices := make(map[string]decimal.Decimal, len(ids))
	for rows.Next() {
		var (
			id    string
			price decimal.Decimal
		)
		if err := rows.Scan(&id, &price); err != nil {
			return nil, err
		}
		prices[id] = price
	}
	return prices, rows.Err()
}

func scanProduct(row scanner) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(
		&p.ID,
		&p.BusinessID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Cost,
		&p.SKU,
		&p.CategoryID,
		&p.Brand,
		&p.Barcode,
		&p.ImageURL,
		&p.IsFeatured,
		&p.SortOrder,
		&p.StockQuantity,
		&p.LowStockAlert,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, translate(err, domain.ErrProductNotFound)
	}
	p.Annotate()
	return &p, nil
}
