package store

import (
	"context"
	"fmt"

	"storefront/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// LowStockThreshold is the stock level below which a product counts as low
const LowStockThreshold = 5

// OrderStats aggregates the orders table
type OrderStats struct {
	Total          int             `db:"total" json:"total"`
	Pending        int             `db:"pending" json:"pending"`
	PaymentWaiting int             `db:"payment_waiting" json:"payment_waiting"`
	Revenue        decimal.Decimal `db:"revenue" json:"revenue"`
}

// ProductStats aggregates the products table
type ProductStats struct {
	Total    int `db:"total" json:"total"`
	LowStock int `db:"low_stock" json:"low_stock"`
}

// Dashboard is the back-office landing summary
type Dashboard struct {
	Orders       OrderStats     `json:"orders"`
	Products     ProductStats   `json:"products"`
	ActiveChats  int            `json:"active_chats"`
	Users        int            `json:"users"`
	RecentOrders []models.Order `json:"recent_orders"`
}

// Dashboard computes the aggregate counts on a single connection
func (s *Store) Dashboard(ctx context.Context, recent int) (*Dashboard, error) {
	d := &Dashboard{RecentOrders: []models.Order{}}

	err := s.withConn(ctx, func(q querier) error {
		err := sqlx.GetContext(ctx, q, &d.Orders, `
			SELECT COUNT(*) AS total,
				COUNT(*) FILTER (WHERE status = 'pending') AS pending,
				COUNT(*) FILTER (WHERE payment_status = 'uploaded') AS payment_waiting,
				COALESCE(SUM(total), 0) AS revenue
			FROM orders`)
		if err != nil {
			return fmt.Errorf("failed to aggregate orders: %w", err)
		}

		err = sqlx.GetContext(ctx, q, &d.Products, `
			SELECT COUNT(*) AS total,
				COUNT(*) FILTER (WHERE stock < $1) AS low_stock
			FROM products`, LowStockThreshold)
		if err != nil {
			return fmt.Errorf("failed to aggregate products: %w", err)
		}

		if err := sqlx.GetContext(ctx, q, &d.ActiveChats,
			"SELECT COUNT(*) FROM chat_sessions WHERE status = $1", models.ChatStatusActive); err != nil {
			return fmt.Errorf("failed to count chats: %w", err)
		}

		if err := sqlx.GetContext(ctx, q, &d.Users, "SELECT COUNT(*) FROM users"); err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}

		return sqlx.SelectContext(ctx, q, &d.RecentOrders,
			"SELECT * FROM orders ORDER BY created_at DESC, id DESC LIMIT $1", recent)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}
