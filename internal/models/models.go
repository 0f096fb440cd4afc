package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money goes over the wire as a JSON number, not a quoted string.
	decimal.MarshalJSONWithoutQuotes = true
}

// Category groups products in the catalog
type Category struct {
	ID           int64  `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Icon         string `db:"icon" json:"icon"`
	SortOrder    int    `db:"sort_order" json:"sort_order"`
	IsActive     bool   `db:"is_active" json:"is_active"`
	ProductCount int    `db:"product_count" json:"product_count"`
}

// VehicleBrand is a car manufacturer
type VehicleBrand struct {
	ID           int64  `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	SortOrder    int    `db:"sort_order" json:"sort_order"`
	IsActive     bool   `db:"is_active" json:"is_active"`
	ProductCount int    `db:"product_count" json:"product_count"`
}

// VehicleModel is a model line of a brand, optionally bounded by years
type VehicleModel struct {
	ID        int64  `db:"id" json:"id"`
	BrandID   int64  `db:"brand_id" json:"brand_id"`
	BrandName string `db:"brand_name" json:"brand_name,omitempty"`
	Name      string `db:"name" json:"name"`
	YearStart *int   `db:"year_start" json:"year_start"`
	YearEnd   *int   `db:"year_end" json:"year_end"`
	IsActive  bool   `db:"is_active" json:"is_active"`
}

// Product represents a spare part in the catalog
type Product struct {
	ID           int64               `db:"id" json:"id"`
	Name         string              `db:"name" json:"name"`
	CategoryID   *int64              `db:"category_id" json:"category_id"`
	CategoryName *string             `db:"category_name" json:"category_name"`
	Brand        string              `db:"brand" json:"brand"`
	OEMNo        string              `db:"oem_no" json:"oem_no"`
	Price        decimal.Decimal     `db:"price" json:"price"`
	OldPrice     decimal.NullDecimal `db:"old_price" json:"old_price"`
	Stock        int                 `db:"stock" json:"stock"`
	Description  string              `db:"description" json:"description"`
	Image        *string             `db:"image" json:"image"`
	Image2       *string             `db:"image2" json:"image2"`
	Image3       *string             `db:"image3" json:"image3"`
	Badge        string              `db:"badge" json:"badge"`
	IsActive     bool                `db:"is_active" json:"is_active"`
	CreatedAt    time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time           `db:"updated_at" json:"updated_at"`
}

// ProductDetail is a product together with its compatible vehicles
type ProductDetail struct {
	Product
	Vehicles []VehicleModel `json:"vehicles"`
}

// User is a registered customer
type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password" json:"-"`
	Phone        string    `db:"phone" json:"phone"`
	Address      string    `db:"address" json:"address"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Admin is a back-office account
type Admin struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password" json:"-"`
	Name         string    `db:"name" json:"name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Order represents a customer order
type Order struct {
	ID              int64           `db:"id" json:"id"`
	OrderNo         string          `db:"order_no" json:"order_no"`
	UserID          *int64          `db:"user_id" json:"user_id"`
	CustomerName    string          `db:"customer_name" json:"customer_name"`
	CustomerPhone   string          `db:"customer_phone" json:"customer_phone"`
	CustomerEmail   string          `db:"customer_email" json:"customer_email"`
	CustomerAddress string          `db:"customer_address" json:"customer_address"`
	CustomerNote    string          `db:"customer_note" json:"customer_note"`
	Total           decimal.Decimal `db:"total" json:"total"`
	Status          string          `db:"status" json:"status"`
	PaymentStatus   string          `db:"payment_status" json:"payment_status"`
	ReceiptImage    *string         `db:"receipt_image" json:"receipt_image"`
	TrackingNo      string          `db:"tracking_no" json:"tracking_no"`
	CargoCompany    string          `db:"cargo_company" json:"cargo_company"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// OrderItem is an order line with the product name and price snapshotted
// at creation time
type OrderItem struct {
	ID          int64           `db:"id" json:"id"`
	OrderID     int64           `db:"order_id" json:"order_id"`
	ProductID   *int64          `db:"product_id" json:"product_id"`
	ProductName string          `db:"product_name" json:"product_name"`
	Quantity    int             `db:"quantity" json:"quantity"`
	Price       decimal.Decimal `db:"price" json:"price"`
}

// LineTotal returns price × quantity
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ChatSession is a support conversation keyed by a client-generated token
type ChatSession struct {
	ID          int64     `db:"id" json:"id"`
	SessionKey  string    `db:"session_key" json:"session_key"`
	VisitorName string    `db:"visitor_name" json:"visitor_name"`
	UserID      *int64    `db:"user_id" json:"user_id"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
	MsgCount    int       `db:"msg_count" json:"msg_count"`
	LastMessage *string   `db:"last_message" json:"last_message"`
}

// ChatMessage is one entry of the append-only chat log
type ChatMessage struct {
	Sender    string    `db:"sender" json:"sender"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Setting is a key/value site setting
type Setting struct {
	Key   string `db:"setting_key" json:"key"`
	Value string `db:"setting_value" json:"value"`
}

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Payment statuses
const (
	PaymentStatusWaiting  = "waiting"
	PaymentStatusUploaded = "uploaded"
	PaymentStatusApproved = "approved"
	PaymentStatusRejected = "rejected"
)

// Chat session statuses and message senders
const (
	ChatStatusActive = "active"
	ChatStatusClosed = "closed"

	SenderCustomer = "customer"
	SenderAdmin    = "admin"
)

// DefaultVisitorName is used for chat sessions opened without a name
const DefaultVisitorName = "Visitor"

// ValidOrderStatus reports whether s is a known order status
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is a known payment status
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusWaiting, PaymentStatusUploaded, PaymentStatusApproved, PaymentStatusRejected:
		return true
	}
	return false
}

// Principal is the minimal identity kept in a session slot
type Principal struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
