package worker

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/broker"
	"storefront/internal/models"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// Notification kinds
const (
	KindOrderPlaced  = "order_placed"
	KindOrderUpdated = "order_updated"
	KindChatMessage  = "chat_message"
)

// NotificationSink stores admin notifications
type NotificationSink interface {
	PushNotification(ctx context.Context, n *models.Notification) error
}

// NotificationWorker turns store events into admin notifications
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	sink         NotificationSink
	logger       *zap.Logger
	now          func() time.Time
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer, sink NotificationSink) *NotificationWorker {
	w := &NotificationWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		sink:         sink,
		logger:       util.ComponentLogger("notification-worker"),
		now:          time.Now,
	}

	w.eventHandler.OnOrderPlaced(w.handleOrderPlaced)
	w.eventHandler.OnOrderUpdated(w.handleOrderUpdated)
	w.eventHandler.OnChatMessage(w.handleChatMessage)
	return w
}

// Start consumes until ctx is cancelled
func (w *NotificationWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting notification worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	w.logger.Info("Stopping notification worker")
	return w.consumer.Close()
}

func (w *NotificationWorker) handleOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	return w.push(ctx, &models.Notification{
		Kind:    KindOrderPlaced,
		Message: fmt.Sprintf("New order %s from %s, total %s", event.OrderNo, event.CustomerName, event.Total.StringFixed(2)),
		RefID:   event.OrderID,
	})
}

func (w *NotificationWorker) handleOrderUpdated(ctx context.Context, event *models.OrderUpdatedEvent) error {
	return w.push(ctx, &models.Notification{
		Kind:    KindOrderUpdated,
		Message: fmt.Sprintf("Order #%d is now %s, payment %s", event.OrderID, event.Status, event.PaymentStatus),
		RefID:   event.OrderID,
	})
}

// handleChatMessage notifies only about customer messages; admin replies
// are already known to the admins.
func (w *NotificationWorker) handleChatMessage(ctx context.Context, event *models.ChatMessageEvent) error {
	if event.Sender != models.SenderCustomer {
		return nil
	}
	return w.push(ctx, &models.Notification{
		Kind:    KindChatMessage,
		Message: "New chat message: " + event.Preview,
		RefID:   event.SessionID,
	})
}

func (w *NotificationWorker) push(ctx context.Context, n *models.Notification) error {
	n.CreatedAt = w.now()
	if err := w.sink.PushNotification(ctx, n); err != nil {
		return fmt.Errorf("failed to store %s notification: %w", n.Kind, err)
	}
	util.NotificationsTotal.WithLabelValues(n.Kind).Inc()
	return nil
}
