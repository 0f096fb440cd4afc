package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/models"

	"github.com/jmoiron/sqlx"
)

// maxOrderNoAttempts bounds order number regeneration on collision.
const maxOrderNoAttempts = 8

// ErrOrderNoExhausted is returned when no free order number was found.
var ErrOrderNoExhausted = errors.New("could not allocate a unique order number")

// OrderStatusUpdate holds the admin-editable order fields
type OrderStatusUpdate struct {
	Status        string
	PaymentStatus string
	TrackingNo    string
	CargoCompany  string
}

// CreateOrder inserts the order and all of its items in one transaction.
// nextOrderNo is called again whenever the generated number is taken.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem, nextOrderNo func() string) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := insertOrder(ctx, tx, order, nextOrderNo); err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
			err := tx.GetContext(ctx, &items[i].ID, `
				INSERT INTO order_items (order_id, product_id, product_name, quantity, price)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id`,
				items[i].OrderID, items[i].ProductID, items[i].ProductName, items[i].Quantity, items[i].Price)
			if err != nil {
				return fmt.Errorf("failed to create order item: %w", translate(err))
			}
		}
		return nil
	})
}

func insertOrder(ctx context.Context, tx *sqlx.Tx, order *models.Order, nextOrderNo func() string) error {
	query := `
		INSERT INTO orders (order_no, user_id, customer_name, customer_phone, customer_email,
			customer_address, customer_note, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (order_no) DO NOTHING
		RETURNING id, status, payment_status, created_at, updated_at`

	for attempt := 0; attempt < maxOrderNoAttempts; attempt++ {
		order.OrderNo = nextOrderNo()

		err := tx.GetContext(ctx, order, query,
			order.OrderNo, order.UserID, order.CustomerName, order.CustomerPhone, order.CustomerEmail,
			order.CustomerAddress, order.CustomerNote, order.Total)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to create order: %w", translate(err))
		}
		return nil
	}
	return ErrOrderNoExhausted
}

// GetOrderByNumber retrieves an order and its items by public order number
func (s *Store) GetOrderByNumber(ctx context.Context, orderNo string) (*models.Order, []models.OrderItem, error) {
	return s.getOrderWithItems(ctx, "SELECT * FROM orders WHERE order_no = $1", orderNo)
}

// GetOrderByID retrieves an order and its items
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, []models.OrderItem, error) {
	return s.getOrderWithItems(ctx, "SELECT * FROM orders WHERE id = $1", id)
}

func (s *Store) getOrderWithItems(ctx context.Context, query string, arg interface{}) (*models.Order, []models.OrderItem, error) {
	var order models.Order
	items := []models.OrderItem{}

	err := s.withConn(ctx, func(q querier) error {
		if err := sqlx.GetContext(ctx, q, &order, query, arg); err != nil {
			return translate(err)
		}
		return sqlx.SelectContext(ctx, q, &items,
			"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", order.ID)
	})
	if err != nil {
		return nil, nil, err
	}
	return &order, items, nil
}

// ListOrders retrieves all orders, newest first
func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders, "SELECT * FROM orders ORDER BY created_at DESC, id DESC")
	return orders, err
}

// RecentOrders retrieves the latest orders
func (s *Store) RecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders ORDER BY created_at DESC, id DESC LIMIT $1", limit)
	return orders, err
}

// OrdersForUser lists the orders a customer placed while signed in, newest
// first. Guest checkouts carry no user and never show up here.
func (s *Store) OrdersForUser(ctx context.Context, userID int64) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC", userID)
	return orders, translate(err)
}

// UpdateOrderStatus overwrites the admin-editable fields. Items and total
// are never touched.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID int64, upd OrderStatusUpdate) error {
	return expectAffected(s.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, payment_status = $2, tracking_no = $3, cargo_company = $4, updated_at = NOW()
		WHERE id = $5`,
		upd.Status, upd.PaymentStatus, upd.TrackingNo, upd.CargoCompany, orderID))
}

// SetReceipt attaches a payment receipt and marks the payment as uploaded
func (s *Store) SetReceipt(ctx context.Context, orderNo, path string) error {
	return expectAffected(s.db.ExecContext(ctx, `
		UPDATE orders SET receipt_image = $1, payment_status = $2, updated_at = NOW()
		WHERE order_no = $3`,
		path, models.PaymentStatusUploaded, orderNo))
}
