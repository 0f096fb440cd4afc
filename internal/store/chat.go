package store

import (
	"context"

	"storefront/internal/models"

	"github.com/jmoiron/sqlx"
)

// AppendCustomerMessage opens the session for key on first use (or touches
// it) and appends a customer message. It returns the session id.
func (s *Store) AppendCustomerMessage(ctx context.Context, key, visitorName string, userID *int64, message string) (int64, error) {
	var sessionID int64

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &sessionID, `
			INSERT INTO chat_sessions (session_key, visitor_name, user_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (session_key) DO UPDATE SET updated_at = NOW()
			RETURNING id`,
			key, visitorName, userID)
		if err != nil {
			return translate(err)
		}

		return insertMessage(ctx, tx, sessionID, models.SenderCustomer, message)
	})
	return sessionID, err
}

// AppendAdminMessage appends an admin reply to an existing session
func (s *Store) AppendAdminMessage(ctx context.Context, sessionID int64, message string) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := expectAffected(tx.ExecContext(ctx,
			"UPDATE chat_sessions SET updated_at = NOW() WHERE id = $1", sessionID)); err != nil {
			return err
		}
		return insertMessage(ctx, tx, sessionID, models.SenderAdmin, message)
	})
}

func insertMessage(ctx context.Context, tx *sqlx.Tx, sessionID int64, sender, message string) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO chat_messages (session_id, sender, message) VALUES ($1, $2, $3)",
		sessionID, sender, message)
	return translate(err)
}

// MessagesByKey returns a session's messages oldest first
func (s *Store) MessagesByKey(ctx context.Context, key string) ([]models.ChatMessage, error) {
	messages := []models.ChatMessage{}
	err := s.db.SelectContext(ctx, &messages, `
		SELECT cm.sender, cm.message, cm.created_at
		FROM chat_messages cm
		JOIN chat_sessions cs ON cm.session_id = cs.id
		WHERE cs.session_key = $1
		ORDER BY cm.created_at ASC, cm.id ASC`, key)
	return messages, err
}

// MessagesBySessionID returns a session's messages oldest first
func (s *Store) MessagesBySessionID(ctx context.Context, sessionID int64) ([]models.ChatMessage, error) {
	messages := []models.ChatMessage{}
	err := s.db.SelectContext(ctx, &messages, `
		SELECT sender, message, created_at
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY created_at ASC, id ASC`, sessionID)
	return messages, err
}

// ListChatSessions returns every session with its message count and last
// message, most recently active first
func (s *Store) ListChatSessions(ctx context.Context) ([]models.ChatSession, error) {
	sessions := []models.ChatSession{}
	err := s.db.SelectContext(ctx, &sessions, `
		SELECT cs.*,
			(SELECT COUNT(*) FROM chat_messages WHERE session_id = cs.id) AS msg_count,
			(SELECT message FROM chat_messages WHERE session_id = cs.id
				ORDER BY created_at DESC, id DESC LIMIT 1) AS last_message
		FROM chat_sessions cs
		ORDER BY cs.updated_at DESC`)
	return sessions, err
}

// SetChatStatus opens or closes a session
func (s *Store) SetChatStatus(ctx context.Context, sessionID int64, status string) error {
	return expectAffected(s.db.ExecContext(ctx,
		"UPDATE chat_sessions SET status = $1, updated_at = NOW() WHERE id = $2",
		status, sessionID))
}
