package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/setuponce/backend/domain"
	"github.com/setuponce/backend/repository"
)

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns a Postgres-backed implementation of OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) repository.OrderRepository {
	return &orderRepository{pool: pool}
}

const orderColumns = `id, business_id, order_number, status, total_amount, customer_name, customer_phone,
	customer_address, channel, notes, created_at, updated_at`

// orderItemsQuery loads the lines of several orders joined to their product.
const orderItemsQuery = `
	SELECT oi.id, oi.order_id, oi.product_id, p.name, p.sku, oi.quantity, oi.unit_price, oi.total_price
	FROM order_items oi
	JOIN orders o ON o.id = oi.order_id AND o.business_id = $1
	LEFT JOIN products p ON p.id = oi.product_id AND p.business_id = $1
	WHERE oi.order_id = ANY($2)
	ORDER BY oi.created_at, oi.id
	`

const insertOrderItemQuery = `
	INSERT INTO order_items (id, order_id, business_id, product_id, quantity, unit_price, total_price)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

func (r *orderRepository) List(ctx context.Context, businessID string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + `
	FROM orders
	WHERE business_id = $1
	ORDER BY created_at DESC, id
	`
	orders, err := r.queryOrders(ctx, query, businessID)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, businessID, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Recent returns the newest orders without their items.
func (r *orderRepository) Recent(ctx context.Context, businessID string, limit int) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + `
	FROM orders
	WHERE business_id = $1
	ORDER BY created_at DESC, id
	LIMIT $2
	`
	return r.queryOrders(ctx, query, businessID, clampLimit(limit))
}

func (r *orderRepository) Create(ctx context.Context, businessID string, order *domain.Order) error {
	if order == nil {
		return domain.ErrInvalidPayload
	}
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.OrderNumber == "" {
		order.OrderNumber = domain.NewOrderNumber(time.Now(), uuid.NewString())
	}
	order.BusinessID = businessID

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
		INSERT INTO orders (id, business_id, order_number, status, total_amount, customer_name, customer_phone,
			customer_address, channel, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
		`
		if err := tx.QueryRow(ctx, query,
			order.ID,
			businessID,
			order.OrderNumber,
			string(order.Status),
			order.TotalAmount,
			order.CustomerName,
			order.CustomerPhone,
			order.CustomerAddress,
			order.Channel,
			order.Notes,
		).Scan(&order.CreatedAt, &order.UpdatedAt); err != nil {
			return translate(err, domain.ErrOrderNotFound)
		}
		return insertItems(ctx, tx, businessID, order)
	})
}

// Update rewrites the order fields and replaces its lines. The order number is kept.
func (r *orderRepository) Update(ctx context.Context, businessID, id string, order *domain.Order) error {
	if order == nil {
		return domain.ErrInvalidPayload
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
		UPDATE orders
		SET status = $3,
			total_amount = $4,
			customer_name = $5,
			customer_phone = $6,
			customer_address = $7,
			channel = $8,
			notes = $9,
			updated_at = NOW()
		WHERE id = $1 AND business_id = $2
		RETURNING order_number, created_at, updated_at
		`
		if err := tx.QueryRow(ctx, query,
			id,
			businessID,
			string(order.Status),
			order.TotalAmount,
			order.CustomerName,
			order.CustomerPhone,
			order.CustomerAddress,
			order.Channel,
			order.Notes,
		).Scan(&order.OrderNumber, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return translate(err, domain.ErrOrderNotFound)
		}
		order.ID = id
		order.BusinessID = businessID

		if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
			return err
		}
		return insertItems(ctx, tx, businessID, order)
	})
}

func (r *orderRepository) UpdateStatus(ctx context.Context, businessID, id string, status domain.OrderStatus) error {
	const query = `
	UPDATE orders SET status = $3, updated_at = NOW()
	WHERE id = $1 AND business_id = $2
	`
	tag, err := r.pool.Exec(ctx, query, id, businessID, string(status))
	if err != nil {
		return translate(err, domain.ErrOrderNotFound)
	}
	return affected(tag, domain.ErrOrderNotFound)
}

func (r *orderRepository) Delete(ctx context.Context, businessID, id string) error {
	const query = `DELETE FROM orders WHERE id = $1 AND business_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, businessID)
	if err != nil {
		return err
	}
	return affected(tag, domain.ErrOrderNotFound)
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var (
			o      domain.Order
			status string
		)
		if err := rows.Scan(
			&o.ID,
			&o.BusinessID,
			&o.OrderNumber,
			&status,
			&o.TotalAmount,
			&o.CustomerName,
			&o.CustomerPhone,
			&o.CustomerAddress,
			&o.Channel,
			&o.Notes,
			&o.CreatedAt,
			&o.UpdatedAt,
		); err != nil {
			return nil, err
		}
		o.Status = domain.OrderStatus(status)
		o.Items = []domain.OrderItem{}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *orderRepository) attachItems(ctx context.Context, businessID string, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	index := make(map[string]int, len(orders))
	ids := make([]string, 0, len(orders))
	for i, o := range orders {
		index[o.ID] = i
		ids = append(ids, o.ID)
	}

	rows, err := r.pool.Query(ctx, orderItemsQuery, businessID, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item domain.OrderItem
			name *string
		)
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&name,
			&item.ProductSKU,
			&item.Quantity,
			&item.UnitPrice,
			&item.TotalPrice,
		); err != nil {
			return err
		}
		item.ProductName = domain.TextValue(name)
		if i, ok := index[item.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	return rows.Err()
}

func insertItems(ctx context.Context, tx pgx.Tx, businessID string, order *domain.Order) error {
	if len(order.Items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i := range order.Items {
		item := &order.Items[i]
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.OrderID = order.ID
		batch.Queue(insertOrderItemQuery, item.ID, order.ID, businessID, item.ProductID, item.Quantity, item.UnitPrice, item.TotalPrice)
	}
	results := tx.SendBatch(ctx, batch)
	for range order.Items {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return translate(err, domain.ErrProductNotFound)
		}
	}
	return results.Close()
}
