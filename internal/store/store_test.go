package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"storefront/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewWithDB(sqlx.NewDb(db, "postgres")), mock
}

func orderNumbers(nums ...string) func() string {
	i := 0
	return func() string {
		n := nums[i%len(nums)]
		i++
		return n
	}
}

func TestCreateOrderRegeneratesTakenNumber(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()
	productID := int64(1)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WithArgs("SA-11111", nil, "Ada", "555", "", "", "", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "payment_status", "created_at", "updated_at"}))
	mock.ExpectQuery("INSERT INTO orders").
		WithArgs("SA-22222", nil, "Ada", "555", "", "", "", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "payment_status", "created_at", "updated_at"}).
			AddRow(7, models.OrderStatusPending, models.PaymentStatusWaiting, now, now))
	mock.ExpectQuery("INSERT INTO order_items").
		WithArgs(int64(7), &productID, "Brake pad", 2, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(70))
	mock.ExpectCommit()

	order := &models.Order{CustomerName: "Ada", CustomerPhone: "555", Total: decimal.NewFromInt(200)}
	items := []models.OrderItem{{ProductID: &productID, ProductName: "Brake pad", Quantity: 2, Price: decimal.NewFromInt(100)}}

	err := s.CreateOrder(context.Background(), order, items, orderNumbers("SA-11111", "SA-22222"))
	require.NoError(t, err)

	assert.Equal(t, "SA-22222", order.OrderNo)
	assert.Equal(t, int64(7), order.ID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, int64(7), items[0].OrderID)
	assert.Equal(t, int64(70), items[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderGivesUpAfterBoundedAttempts(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	for i := 0; i < maxOrderNoAttempts; i++ {
		mock.ExpectQuery("INSERT INTO orders").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
	}
	mock.ExpectRollback()

	err := s.CreateOrder(context.Background(), &models.Order{}, nil, orderNumbers("SA-00000"))
	assert.ErrorIs(t, err, ErrOrderNoExhausted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderRollsBackWhenItemInsertFails(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "payment_status", "created_at", "updated_at"}).
			AddRow(3, models.OrderStatusPending, models.PaymentStatusWaiting, now, now))
	mock.ExpectQuery("INSERT INTO order_items").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	items := []models.OrderItem{{ProductName: "Filter", Quantity: 1, Price: decimal.NewFromInt(10)}}
	err := s.CreateOrder(context.Background(), &models.Order{}, items, orderNumbers("SA-12345"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderByNumber(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM orders WHERE order_no = $1")).
		WithArgs("SA-10001").
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_no", "customer_name", "total", "status", "payment_status", "created_at", "updated_at"}).
			AddRow(4, "SA-10001", "Ada", "200.00", "pending", "waiting", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM order_items WHERE order_id = $1")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "product_name", "quantity", "price"}).
			AddRow(1, 4, 1, "Brake pad", 2, "100.00"))

	order, items, err := s.GetOrderByNumber(context.Background(), "SA-10001")
	require.NoError(t, err)

	assert.Equal(t, "SA-10001", order.OrderNo)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(200)))
	require.Len(t, items, 1)
	assert.True(t, items[0].LineTotal().Equal(order.Total))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderByNumberNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT \\* FROM orders").
		WithArgs("SA-99999").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	order, items, err := s.GetOrderByNumber(context.Background(), "SA-99999")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, order)
	assert.Nil(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleFavorite(t *testing.T) {
	t.Run("adds when absent", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery("DELETE FROM favorites").
			WithArgs(int64(1), int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectExec("INSERT INTO favorites").
			WithArgs(int64(1), int64(5)).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		added, err := s.ToggleFavorite(context.Background(), 1, 5)
		require.NoError(t, err)
		assert.True(t, added)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("removes when present", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery("DELETE FROM favorites").
			WithArgs(int64(1), int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
		mock.ExpectCommit()

		added, err := s.ToggleFavorite(context.Background(), 1, 5)
		require.NoError(t, err)
		assert.False(t, added)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown product", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery("DELETE FROM favorites").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectExec("INSERT INTO favorites").
			WillReturnError(&pq.Error{Code: pqForeignKeyViolation, Constraint: "favorites_product_id_fkey"})
		mock.ExpectRollback()

		_, err := s.ToggleFavorite(context.Background(), 1, 404)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func expectProductRowLock(mock sqlmock.Sqlmock, id int64, images ...interface{}) {
	row := []driver.Value{nil, nil, nil}
	for i, img := range images {
		row[i] = img
	}
	mock.ExpectQuery("SELECT image, image2, image3 FROM products").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"image", "image2", "image3"}).AddRow(row...))
}

func TestUpdateProductReconcilesVehicleSet(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	expectProductRowLock(mock, 9)
	mock.ExpectExec("UPDATE products SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT vehicle_model_id FROM product_vehicles").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"vehicle_model_id"}).AddRow(1).AddRow(3))
	mock.ExpectExec("DELETE FROM product_vehicles").
		WithArgs(int64(9), pq.Array([]int64{1})).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO product_vehicles").
		WithArgs(int64(9), pq.Array([]int64{2})).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := s.UpdateProduct(context.Background(), 9, ProductInput{
		Name:            "Brake pad",
		Price:           decimal.NewFromInt(100),
		VehicleModelIDs: []int64{2, 3, 3},
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{2}, result.Vehicles.Added)
	assert.Equal(t, []int64{1}, result.Vehicles.Removed)
	assert.Empty(t, result.ReplacedImages)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProductUnchangedSetTouchesNoLinks(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	expectProductRowLock(mock, 9)
	mock.ExpectExec("UPDATE products SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT vehicle_model_id FROM product_vehicles").
		WillReturnRows(sqlmock.NewRows([]string{"vehicle_model_id"}).AddRow(4))
	mock.ExpectCommit()

	result, err := s.UpdateProduct(context.Background(), 9, ProductInput{Name: "x", VehicleModelIDs: []int64{4}})
	require.NoError(t, err)
	assert.Empty(t, result.Vehicles.Added)
	assert.Empty(t, result.Vehicles.Removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProductReportsReplacedImages(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	expectProductRowLock(mock, 9, "/uploads/a.png", "/uploads/b.png", nil)
	mock.ExpectExec("UPDATE products SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT vehicle_model_id FROM product_vehicles").
		WillReturnRows(sqlmock.NewRows([]string{"vehicle_model_id"}))
	mock.ExpectCommit()

	fresh, same, third := "/uploads/new.png", "/uploads/b.png", "/uploads/c.png"
	result, err := s.UpdateProduct(context.Background(), 9, ProductInput{
		Name:   "x",
		Images: [3]*string{&fresh, &same, &third},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/a.png"}, result.ReplacedImages)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProductNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT image, image2, image3 FROM products").
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"image", "image2", "image3"}))
	mock.ExpectRollback()

	_, err := s.UpdateProduct(context.Background(), 404, ProductInput{Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, errors.Is(err, ErrReferenceMissing))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProductUnknownCategory(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	expectProductRowLock(mock, 9)
	mock.ExpectExec("UPDATE products SET").
		WillReturnError(&pq.Error{Code: pqForeignKeyViolation, Constraint: "products_category_id_fkey"})
	mock.ExpectRollback()

	category := int64(77)
	_, err := s.UpdateProduct(context.Background(), 9, ProductInput{Name: "x", CategoryID: &category})
	assert.ErrorIs(t, err, ErrReferenceMissing)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProductReturnsImages(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("DELETE FROM products").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"image", "image2", "image3"}).AddRow("/uploads/a.png", nil, ""))
	images, err := s.DeleteProduct(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/a.png"}, images)

	mock.ExpectQuery("DELETE FROM products").
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"image", "image2", "image3"}))
	_, err = s.DeleteProduct(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrdersForUser(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_no", "user_id"}).
			AddRow(4, "SA-40000", 7).
			AddRow(2, "SA-20000", 7))

	orders, err := s.OrdersForUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "SA-40000", orders[0].OrderNo)
	require.NotNil(t, orders[1].UserID)
	assert.Equal(t, int64(7), *orders[1].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: pqUniqueViolation, Constraint: "users_email_key"})

	err := s.CreateUser(context.Background(), &models.User{Name: "Ada", Email: "ada@example.com"})
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOversizedValueIsValidationError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: pqStringTooLong, Message: "value too long for type character varying(20)"})
	err := s.CreateUser(context.Background(), &models.User{Name: "Ada", Email: "ada@example.com"})
	assert.ErrorIs(t, err, ErrInvalid)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: pqNumericOutOfRange, Message: "numeric field overflow"})
	err = s.CreateUser(context.Background(), &models.User{Name: "Ada", Email: "ada@example.com"})
	assert.ErrorIs(t, err, ErrInvalid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendAdminMessageUnknownSession(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE chat_sessions SET updated_at").
		WithArgs(int64(77)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.AppendAdminMessage(context.Background(), 77, "hello")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendCustomerMessageOpensSession(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO chat_sessions").
		WithArgs("key-1", models.DefaultVisitorName, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec("INSERT INTO chat_messages").
		WithArgs(int64(5), models.SenderCustomer, "is this in stock?").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	id, err := s.AppendCustomerMessage(context.Background(), "key-1", models.DefaultVisitorName, nil, "is this in stock?")
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSettingsIsOneTransaction(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO settings").
		WithArgs("company_name", "Parts Co").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO settings").
		WithArgs("phone", "555").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := s.SaveSettings(context.Background(), map[string]string{"phone": "555", "company_name": "Parts Co"})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProductsByIDsEmpty(t *testing.T) {
	s, mock := newMockStore(t)

	products, err := s.GetProductsByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboard(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("FROM orders").
		WillReturnRows(sqlmock.NewRows([]string{"total", "pending", "payment_waiting", "revenue"}).
			AddRow(10, 3, 2, "1250.50"))
	mock.ExpectQuery("FROM products").
		WithArgs(LowStockThreshold).
		WillReturnRows(sqlmock.NewRows([]string{"total", "low_stock"}).AddRow(40, 6))
	mock.ExpectQuery("FROM chat_sessions").
		WithArgs(models.ChatStatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(15))
	mock.ExpectQuery("SELECT \\* FROM orders ORDER BY").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_no"}).AddRow(10, "SA-00010"))

	d, err := s.Dashboard(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, 10, d.Orders.Total)
	assert.Equal(t, 2, d.Orders.PaymentWaiting)
	assert.Equal(t, "1250.5", d.Orders.Revenue.String())
	assert.Equal(t, 6, d.Products.LowStock)
	assert.Equal(t, 2, d.ActiveChats)
	assert.Equal(t, 15, d.Users)
	require.Len(t, d.RecentOrders, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
