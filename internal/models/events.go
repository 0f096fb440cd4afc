package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeOrderPlaced  = "ORDER_PLACED"
	EventTypeOrderUpdated = "ORDER_UPDATED"
	EventTypeChatMessage  = "CHAT_MESSAGE"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacedEvent published when a checkout succeeds
type OrderPlacedEvent struct {
	BaseEvent
	OrderID      int64           `json:"order_id"`
	OrderNo      string          `json:"order_no"`
	UserID       *int64          `json:"user_id,omitempty"`
	CustomerName string          `json:"customer_name"`
	Total        decimal.Decimal `json:"total"`
	ItemCount    int             `json:"item_count"`
}

// OrderUpdatedEvent published when an admin changes order status fields
type OrderUpdatedEvent struct {
	BaseEvent
	OrderID       int64  `json:"order_id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	TrackingNo    string `json:"tracking_no,omitempty"`
}

// ChatMessageEvent published for every appended chat message
type ChatMessageEvent struct {
	BaseEvent
	SessionID  int64  `json:"session_id"`
	SessionKey string `json:"session_key,omitempty"`
	Sender     string `json:"sender"`
	Preview    string `json:"preview"`
}

// Notification is an admin-facing entry derived from store events
type Notification struct {
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	RefID     int64     `json:"ref_id"`
	CreatedAt time.Time `json:"created_at"`
}
