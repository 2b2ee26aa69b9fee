package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anragu/poolpal/internal/models"
)

// GetChat retrieves a chat record by id.
func (s *SQLiteStore) GetChat(ctx context.Context, chatID string) (*models.Chat, error) {
	chat := &models.Chat{}
	var userA, userB string
	var lastText, lastSender sql.NullString
	var lastAt sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_a, user_b, last_message_text, last_message_sender, last_message_at
		FROM chats WHERE id = ?`,
		chatID,
	).Scan(&chat.ID, &userA, &userB, &lastText, &lastSender, &lastAt)
	if err == sql.ErrNoRows {
		return nil, nil // Chat not created yet
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	chat.Users = []string{userA, userB}
	if lastText.Valid {
		chat.LastMessage = &models.LastMessage{
			Text:      lastText.String,
			SenderID:  lastSender.String,
			Timestamp: lastAt.Int64,
		}
	}
	return chat, nil
}

// AppendMessage inserts a message and updates the parent chat's
// last-message summary in one transaction, creating the chat if needed.
func (s *SQLiteStore) AppendMessage(ctx context.Context, chatID string, users []string, m *models.Message) error {
	if len(users) != 2 {
		return fmt.Errorf("chat requires exactly two members, got %d", len(users))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO chats (id, user_a, user_b, last_message_text, last_message_sender, last_message_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			last_message_text = excluded.last_message_text,
			last_message_sender = excluded.last_message_sender,
			last_message_at = excluded.last_message_at`,
		chatID, users[0], users[1], m.Text, m.SenderID, m.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to upsert chat: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO messages (id, chat_id, text, sender_id, sender_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, chatID, m.Text, m.SenderID, m.SenderName, m.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListMessages returns the most recent limit messages in ascending order.
func (s *SQLiteStore) ListMessages(ctx context.Context, chatID string, limit int) ([]models.Message, error) {
	// Select the newest window, then reverse to ascending.
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, sender_id, sender_name, created_at
		FROM messages
		WHERE chat_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`,
		chatID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var msgs []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.Text, &m.SenderID, &m.SenderName, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}
