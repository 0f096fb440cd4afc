package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"storefront/internal/models"
	"storefront/internal/store"
	"storefront/internal/util"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const orderNoPrefix = "SA-"

// OrderStore is the persistence the order service needs
type OrderStore interface {
	GetProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error)
	CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem, nextOrderNo func() string) error
	GetOrderByNumber(ctx context.Context, orderNo string) (*models.Order, []models.OrderItem, error)
	GetOrderByID(ctx context.Context, id int64) (*models.Order, []models.OrderItem, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	OrdersForUser(ctx context.Context, userID int64) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, upd store.OrderStatusUpdate) error
	SetReceipt(ctx context.Context, orderNo, path string) error
}

// OrderService handles order business logic
type OrderService struct {
	store          OrderStore
	eventPublisher EventPublisher
	nextOrderNo    func() string
	logger         *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(store OrderStore, eventPublisher EventPublisher) *OrderService {
	return &OrderService{
		store:          store,
		eventPublisher: eventPublisher,
		nextOrderNo:    NewOrderNumber,
		logger:         util.ComponentLogger("orders"),
	}
}

// CreateOrderRequest represents a checkout
type CreateOrderRequest struct {
	Name    string             `json:"name"`
	Phone   string             `json:"phone"`
	Email   string             `json:"email"`
	Address string             `json:"address"`
	Note    string             `json:"note"`
	Items   []OrderItemRequest `json:"items"`
}

// OrderItemRequest represents a cart line
type OrderItemRequest struct {
	ProductID int64 `json:"id"`
	Quantity  int   `json:"qty"`
}

// CreateOrderResponse is returned after a successful checkout
type CreateOrderResponse struct {
	OrderNo string          `json:"order_no"`
	Total   decimal.Decimal `json:"total"`
}

// TrackedOrder is the public view of an order
type TrackedOrder struct {
	OrderNo       string          `json:"order_no"`
	CustomerName  string          `json:"customer_name"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	TrackingNo    string          `json:"tracking_no"`
	CargoCompany  string          `json:"cargo_company"`
	CreatedAt     time.Time       `json:"created_at"`
	Items         []TrackedItem   `json:"items"`
}

// TrackedItem is the public view of an order line
type TrackedItem struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// UpdateOrderRequest holds the admin-editable order fields
type UpdateOrderRequest struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	TrackingNo    string `json:"tracking_no"`
	CargoCompany  string `json:"cargo_company"`
}

// OrderDetail is an order with its lines
type OrderDetail struct {
	Order models.Order       `json:"order"`
	Items []models.OrderItem `json:"items"`
}

// NewOrderNumber returns a random public order number such as SA-48213
func NewOrderNumber() string {
	n, err := rand.Int(rand.Reader, big.NewInt(90000))
	if err != nil {
		// crypto/rand only fails when the OS source is unusable
		panic(fmt.Sprintf("order number: %v", err))
	}
	return fmt.Sprintf("%s%d", orderNoPrefix, 10000+n.Int64())
}

// CreateOrder prices the cart at current product prices and stores the
// order with all of its lines atomically. Lines whose product no longer
// exists are dropped.
func (s *OrderService) CreateOrder(ctx context.Context, userID *int64, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder", attribute.Int("items", len(req.Items)))
	defer span.End()

	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Name == "" || req.Phone == "" || len(req.Items) == 0 {
		util.OrdersFailedTotal.WithLabelValues("missing_fields").Inc()
		return nil, invalid("name, phone and at least one item are required")
	}
	if err := validateCheckout(req); err != nil {
		util.OrdersFailedTotal.WithLabelValues("invalid_fields").Inc()
		return nil, err
	}

	products, err := s.resolveProducts(ctx, req.Items)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		util.RecordError(span, err)
		return nil, err
	}

	items := buildOrderItems(req.Items, products)
	if len(items) == 0 {
		util.OrdersFailedTotal.WithLabelValues("invalid_items").Inc()
		return nil, invalid("none of the ordered products are available")
	}

	total := calculateTotal(items)
	if total.GreaterThan(maxMoney) {
		util.OrdersFailedTotal.WithLabelValues("invalid_items").Inc()
		return nil, invalid("order total exceeds %s", maxMoney.StringFixed(2))
	}

	order := &models.Order{
		UserID:          userID,
		CustomerName:    req.Name,
		CustomerPhone:   req.Phone,
		CustomerEmail:   strings.TrimSpace(req.Email),
		CustomerAddress: strings.TrimSpace(req.Address),
		CustomerNote:    strings.TrimSpace(req.Note),
		Total:           total,
	}

	if err := s.store.CreateOrder(ctx, order, items, s.nextOrderNo); err != nil {
		if errors.Is(err, store.ErrInvalid) {
			util.OrdersFailedTotal.WithLabelValues("invalid_fields").Inc()
			return nil, invalid("order has a value that is too long or out of range")
		}
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		util.RecordError(span, err)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	util.OrdersCreatedTotal.Inc()
	util.OrderValue.Observe(order.Total.InexactFloat64())
	span.SetAttributes(attribute.String("order_no", order.OrderNo))
	s.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.String("order_no", order.OrderNo),
		zap.String("total", order.Total.StringFixed(2)))

	event := &models.OrderPlacedEvent{
		BaseEvent:    newBaseEvent(models.EventTypeOrderPlaced),
		OrderID:      order.ID,
		OrderNo:      order.OrderNo,
		UserID:       order.UserID,
		CustomerName: order.CustomerName,
		Total:        order.Total,
		ItemCount:    len(items),
	}
	if err := s.eventPublisher.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderPlaced event", zap.String("order_no", order.OrderNo), zap.Error(err))
	}

	return &CreateOrderResponse{
		OrderNo: order.OrderNo,
		Total:   order.Total,
	}, nil
}

// validateCheckout bounds the customer fields and quantities to what the
// orders table can hold
func validateCheckout(req *CreateOrderRequest) error {
	if err := firstError(
		checkLength("name", req.Name, maxNameLen),
		checkLength("phone", req.Phone, maxPhoneLen),
		checkLength("email", strings.TrimSpace(req.Email), maxEmailLen),
	); err != nil {
		return err
	}
	for _, line := range req.Items {
		if line.Quantity > maxQuantity {
			return invalid("quantity must be at most %d", maxQuantity)
		}
	}
	return nil
}

// resolveProducts loads the current price and name of every ordered product
func (s *OrderService) resolveProducts(ctx context.Context, items []OrderItemRequest) (map[int64]*models.Product, error) {
	productIDs := make([]int64, len(items))
	for i, item := range items {
		productIDs[i] = item.ProductID
	}

	products, err := s.store.GetProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	productMap := make(map[int64]*models.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}
	return productMap, nil
}

// buildOrderItems snapshots name and price for every resolvable line.
// Quantities below one are raised to one.
func buildOrderItems(req []OrderItemRequest, products map[int64]*models.Product) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(req))
	for _, line := range req {
		product, ok := products[line.ProductID]
		if !ok {
			continue
		}

		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}

		productID := product.ID
		items = append(items, models.OrderItem{
			ProductID:   &productID,
			ProductName: product.Name,
			Quantity:    qty,
			Price:       product.Price,
		})
	}
	return items
}

// calculateTotal sums price × quantity over the lines
func calculateTotal(items []models.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// TrackOrder returns the public view of an order by its number
func (s *OrderService) TrackOrder(ctx context.Context, orderNo string) (*TrackedOrder, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.TrackOrder", attribute.String("order_no", orderNo))
	defer span.End()

	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return nil, notFound("order")
	}

	order, items, err := s.store.GetOrderByNumber(ctx, orderNo)
	if err != nil {
		return nil, fromStore(err, "track order", "order")
	}

	tracked := &TrackedOrder{
		OrderNo:       order.OrderNo,
		CustomerName:  order.CustomerName,
		Total:         order.Total,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		TrackingNo:    order.TrackingNo,
		CargoCompany:  order.CargoCompany,
		CreatedAt:     order.CreatedAt,
		Items:         make([]TrackedItem, 0, len(items)),
	}
	for _, item := range items {
		tracked.Items = append(tracked.Items, TrackedItem{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	return tracked, nil
}

// UploadReceipt attaches a stored payment receipt to an order
func (s *OrderService) UploadReceipt(ctx context.Context, orderNo, path string) error {
	ctx, span := util.StartSpan(ctx, "OrderService.UploadReceipt", attribute.String("order_no", orderNo))
	defer span.End()

	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return invalid("order number is required")
	}

	if err := s.store.SetReceipt(ctx, orderNo, path); err != nil {
		return fromStore(err, "attach receipt", "order")
	}

	util.ReceiptsUploadedTotal.Inc()
	s.logger.Info("Receipt uploaded", zap.String("order_no", orderNo), zap.String("path", path))
	return nil
}

// ListOrders returns all orders, newest first
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.ListOrders")
	defer span.End()

	orders, err := s.store.ListOrders(ctx)
	return orders, fromStore(err, "list orders", "order")
}

// ListMyOrders returns the order history of a signed-in customer
func (s *OrderService) ListMyOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.ListMyOrders", attribute.Int64("user_id", userID))
	defer span.End()

	if userID <= 0 {
		return nil, unauthorized("please log in")
	}
	orders, err := s.store.OrdersForUser(ctx, userID)
	return orders, fromStore(err, "list customer orders", "order")
}

// GetOrder retrieves an order with its lines
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*OrderDetail, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.GetOrder", attribute.Int64("order_id", orderID))
	defer span.End()

	order, items, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, fromStore(err, "get order", "order")
	}
	return &OrderDetail{Order: *order, Items: items}, nil
}

// UpdateOrder changes status, payment status and shipping details. Any
// status may follow any other; only membership in the enums is checked.
func (s *OrderService) UpdateOrder(ctx context.Context, orderID int64, req *UpdateOrderRequest) error {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateOrder", attribute.Int64("order_id", orderID))
	defer span.End()

	if !models.ValidOrderStatus(req.Status) {
		return invalid("unknown order status %q", req.Status)
	}
	if !models.ValidPaymentStatus(req.PaymentStatus) {
		return invalid("unknown payment status %q", req.PaymentStatus)
	}

	upd := store.OrderStatusUpdate{
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
		TrackingNo:    strings.TrimSpace(req.TrackingNo),
		CargoCompany:  strings.TrimSpace(req.CargoCompany),
	}
	if err := s.store.UpdateOrderStatus(ctx, orderID, upd); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			util.RecordError(span, err)
		}
		return fromStore(err, "update order", "order")
	}

	util.OrderUpdatesTotal.WithLabelValues(req.Status).Inc()
	s.logger.Info("Order updated",
		zap.Int64("order_id", orderID),
		zap.String("status", req.Status),
		zap.String("payment_status", req.PaymentStatus))

	event := &models.OrderUpdatedEvent{
		BaseEvent:     newBaseEvent(models.EventTypeOrderUpdated),
		OrderID:       orderID,
		Status:        upd.Status,
		PaymentStatus: upd.PaymentStatus,
		TrackingNo:    upd.TrackingNo,
	}
	if err := s.eventPublisher.PublishOrderUpdated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderUpdated event", zap.Int64("order_id", orderID), zap.Error(err))
	}
	return nil
}
