package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"storefront/internal/models"
	"storefront/internal/util"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	maxSessionKeyLen = 100
	previewLen       = 80
)

// ChatStore persists chat sessions and their message log
type ChatStore interface {
	AppendCustomerMessage(ctx context.Context, key, visitorName string, userID *int64, message string) (int64, error)
	AppendAdminMessage(ctx context.Context, sessionID int64, message string) error
	MessagesByKey(ctx context.Context, key string) ([]models.ChatMessage, error)
	MessagesBySessionID(ctx context.Context, sessionID int64) ([]models.ChatMessage, error)
	ListChatSessions(ctx context.Context) ([]models.ChatSession, error)
	SetChatStatus(ctx context.Context, sessionID int64, status string) error
}

// ChatService runs the poll-based support chat
type ChatService struct {
	store          ChatStore
	eventPublisher EventPublisher
	logger         *zap.Logger
}

// NewChatService creates a new chat service
func NewChatService(store ChatStore, eventPublisher EventPublisher) *ChatService {
	return &ChatService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.ComponentLogger("chat"),
	}
}

// SendMessageRequest is a customer message from the chat widget
type SendMessageRequest struct {
	SessionKey  string `json:"session_key"`
	Message     string `json:"message"`
	VisitorName string `json:"visitor_name"`
	UserID      *int64 `json:"-"`
}

// Send appends a customer message, opening the session on first use
func (s *ChatService) Send(ctx context.Context, req *SendMessageRequest) error {
	ctx, span := util.StartSpan(ctx, "ChatService.Send")
	defer span.End()

	key := strings.TrimSpace(req.SessionKey)
	message := strings.TrimSpace(req.Message)
	if key == "" || message == "" {
		return invalid("session_key and message are required")
	}
	if utf8.RuneCountInString(key) > maxSessionKeyLen {
		return invalid("session_key is too long")
	}

	visitor := strings.TrimSpace(req.VisitorName)
	if visitor == "" {
		visitor = models.DefaultVisitorName
	}
	if err := checkLength("visitor_name", visitor, maxNameLen); err != nil {
		return err
	}

	sessionID, err := s.store.AppendCustomerMessage(ctx, key, visitor, req.UserID, message)
	if err != nil {
		util.RecordError(span, err)
		return fromStore(err, "send message", "chat session")
	}

	util.ChatMessagesTotal.WithLabelValues(models.SenderCustomer).Inc()
	s.publish(ctx, sessionID, key, models.SenderCustomer, message)
	return nil
}

// Messages returns a session's messages oldest first. An unknown key has
// no messages yet.
func (s *ChatService) Messages(ctx context.Context, sessionKey string) ([]models.ChatMessage, error) {
	ctx, span := util.StartSpan(ctx, "ChatService.Messages")
	defer span.End()

	messages, err := s.store.MessagesByKey(ctx, strings.TrimSpace(sessionKey))
	return messages, fromStore(err, "load messages", "chat session")
}

// ListSessions returns every session, most recently active first
func (s *ChatService) ListSessions(ctx context.Context) ([]models.ChatSession, error) {
	ctx, span := util.StartSpan(ctx, "ChatService.ListSessions")
	defer span.End()

	sessions, err := s.store.ListChatSessions(ctx)
	return sessions, fromStore(err, "list chat sessions", "chat session")
}

func (s *ChatService) SessionMessages(ctx context.Context, sessionID int64) ([]models.ChatMessage, error) {
	ctx, span := util.StartSpan(ctx, "ChatService.SessionMessages", attribute.Int64("session_id", sessionID))
	defer span.End()

	messages, err := s.store.MessagesBySessionID(ctx, sessionID)
	return messages, fromStore(err, "load messages", "chat session")
}

// Reply appends an admin message to an existing session
func (s *ChatService) Reply(ctx context.Context, sessionID int64, message string) error {
	ctx, span := util.StartSpan(ctx, "ChatService.Reply", attribute.Int64("session_id", sessionID))
	defer span.End()

	message = strings.TrimSpace(message)
	if message == "" {
		return invalid("message is required")
	}

	if err := s.store.AppendAdminMessage(ctx, sessionID, message); err != nil {
		return fromStore(err, "send reply", "chat session")
	}

	util.ChatMessagesTotal.WithLabelValues(models.SenderAdmin).Inc()
	s.publish(ctx, sessionID, "", models.SenderAdmin, message)
	return nil
}

// SetStatus opens or closes a session
func (s *ChatService) SetStatus(ctx context.Context, sessionID int64, status string) error {
	if status != models.ChatStatusActive && status != models.ChatStatusClosed {
		return invalid("unknown chat status %q", status)
	}
	return fromStore(s.store.SetChatStatus(ctx, sessionID, status), "update chat status", "chat session")
}

func (s *ChatService) publish(ctx context.Context, sessionID int64, key, sender, message string) {
	event := &models.ChatMessageEvent{
		BaseEvent:  newBaseEvent(models.EventTypeChatMessage),
		SessionID:  sessionID,
		SessionKey: key,
		Sender:     sender,
		Preview:    preview(message),
	}
	if err := s.eventPublisher.PublishChatMessage(ctx, event); err != nil {
		s.logger.Error("Failed to publish ChatMessage event", zap.Int64("session_id", sessionID), zap.Error(err))
	}
}

func preview(message string) string {
	if utf8.RuneCountInString(message) <= previewLen {
		return message
	}
	runes := []rune(message)
	return string(runes[:previewLen]) + "…"
}
