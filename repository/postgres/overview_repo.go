package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/setuponce/backend/domain"
	"github.com/setuponce/backend/repository"
)

type overviewRepository struct {
	pool   *pgxpool.Pool
	orders *orderRepository
}

// NewOverviewRepository returns the dashboard statistics reader.
func NewOverviewRepository(pool *pgxpool.Pool) repository.OverviewRepository {
	return &overviewRepository{pool: pool, orders: &orderRepository{pool: pool}}
}

func (r *overviewRepository) Overview(ctx context.Context, businessID string) (*domain.Overview, error) {
	const query = `
	SELECT
		(SELECT COUNT(*) FROM products WHERE business_id = $1 AND is_active),
		(SELECT COUNT(*) FROM products WHERE business_id = $1 AND is_active AND stock_quantity <= low_stock_alert),
		(SELECT COUNT(*) FROM orders WHERE business_id = $1),
		(SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE business_id = $1 AND status IN ('confirmed', 'delivered')),
		(SELECT COUNT(*) FROM chat_conversations WHERE business_id = $1 AND is_active)
	`
	var o domain.Overview
	if err := r.pool.QueryRow(ctx, query, businessID).Scan(
		&o.TotalProducts,
		&o.LowStockProducts,
		&o.TotalOrders,
		&o.TotalRevenue,
		&o.ActiveChats,
	); err != nil {
		return nil, err
	}

	recent, err := r.orders.Recent(ctx, businessID, domain.RecentOrderLimit)
	if err != nil {
		return nil, err
	}
	o.RecentOrders = recent
	return &o, nil
}
