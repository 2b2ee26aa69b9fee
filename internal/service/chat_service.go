package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anragu/poolpal/internal/models"
	"github.com/anragu/poolpal/internal/pairing"
	"github.com/anragu/poolpal/internal/realtime"
	"github.com/anragu/poolpal/internal/storage"
)

// ChatService manages the two-party message channels. Chats share the
// pairing function with pools but live in their own namespace.
type ChatService struct {
	store  storage.Store
	notify Notifier
}

// NewChatService creates a ChatService with the given storage backend and
// notifier.
func NewChatService(store storage.Store, notify Notifier) *ChatService {
	return &ChatService{store: store, notify: notify}
}

// ChatSnapshot is the full channel state pushed to subscribers: the chat
// record plus the bounded message window.
type ChatSnapshot struct {
	Chat     *models.Chat     `json:"chat"`
	Messages []models.Message `json:"messages"`
}

// SendMessage appends a message to the channel shared with friendUID and
// updates the chat's last-message summary.
func (s *ChatService) SendMessage(ctx context.Context, selfUID, friendUID, text string) (*models.Message, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyMessage
	}

	self, err := s.store.GetUserByID(ctx, selfUID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if self == nil {
		return nil, ErrNotFound
	}
	if !self.HasFriend(friendUID) {
		return nil, ErrNotFriends
	}

	msg := &models.Message{
		ID:         uuid.New().String(),
		Text:       trimmed,
		SenderID:   selfUID,
		SenderName: self.Name,
		CreatedAt:  time.Now().Unix(),
	}

	chatID := pairing.ID(selfUID, friendUID)
	if err := s.store.AppendMessage(ctx, chatID, []string{selfUID, friendUID}, msg); err != nil {
		return nil, fmt.Errorf("failed to append message: %w", err)
	}

	slog.Info("message sent", "chat", chatID, "message", msg.ID)
	s.publishChat(ctx, chatID)
	return msg, nil
}

// History returns the chat and its most recent messages (bounded window,
// ascending order). A never-created chat yields an empty snapshot.
func (s *ChatService) History(ctx context.Context, selfUID, friendUID string) (string, *ChatSnapshot, error) {
	chatID := pairing.ID(selfUID, friendUID)
	chat, err := s.store.GetChat(ctx, chatID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load chat: %w", err)
	}
	if chat == nil {
		return chatID, &ChatSnapshot{Messages: []models.Message{}}, nil
	}
	if !memberOf(chat.Users, selfUID) {
		return "", nil, ErrNotMember
	}

	msgs, err := s.store.ListMessages(ctx, chatID, models.MessageWindow)
	if err != nil {
		return "", nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return chatID, &ChatSnapshot{Chat: chat, Messages: msgs}, nil
}

// publishChat pushes the full channel snapshot so consuming views
// re-render from scratch.
func (s *ChatService) publishChat(ctx context.Context, chatID string) {
	chat, err := s.store.GetChat(ctx, chatID)
	if err != nil || chat == nil {
		slog.Warn("failed to publish chat snapshot", "chat", chatID, "error", err)
		return
	}
	msgs, err := s.store.ListMessages(ctx, chatID, models.MessageWindow)
	if err != nil {
		slog.Warn("failed to load chat window", "chat", chatID, "error", err)
		return
	}
	s.notify.Publish(realtime.ChatTopic(chatID), &ChatSnapshot{Chat: chat, Messages: msgs})
}
