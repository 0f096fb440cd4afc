package service

import (
	"context"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
)

// EventPublisher is the outbound store event stream. Publishing is best
// effort: a failed publish is logged and never fails the operation.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
	PublishOrderUpdated(ctx context.Context, event *models.OrderUpdatedEvent) error
	PublishChatMessage(ctx context.Context, event *models.ChatMessageEvent) error
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
