package domain

import "github.com/shopspring/decimal"

// RecentOrderLimit caps the orders listed on the overview.
const RecentOrderLimit = 5

// Overview aggregates the dashboard landing statistics for one business.
type Overview struct {
	TotalProducts    int             `json:"total_products"`
	LowStockProducts int             `json:"low_stock_products"`
	TotalOrders      int             `json:"total_orders"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	ActiveChats      int             `json:"active_chats"`
	RecentOrders     []Order         `json:"recent_orders"`
}
