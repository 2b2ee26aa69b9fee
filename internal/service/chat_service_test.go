package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/anragu/poolpal/internal/models"
	"github.com/anragu/poolpal/internal/realtime"
)

func TestSendMessage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedFriends(t, "a", "b")

	msg, err := env.chats.SendMessage(ctx, "a", "b", "  hello there  ")
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if msg.Text != "hello there" {
		t.Errorf("text should be trimmed, got %q", msg.Text)
	}
	if msg.SenderID != "a" || msg.SenderName != "user a" {
		t.Errorf("attribution wrong: %+v", msg)
	}

	chat, err := env.store.GetChat(ctx, "a_b")
	if err != nil || chat == nil {
		t.Fatalf("chat not created: %v", err)
	}
	if chat.LastMessage == nil || chat.LastMessage.Text != "hello there" {
		t.Errorf("last message summary not updated: %+v", chat.LastMessage)
	}
	if chat.LastMessage.SenderID != "a" {
		t.Errorf("last message sender: expected a, got %s", chat.LastMessage.SenderID)
	}

	if env.notify.count(realtime.ChatTopic("a_b")) == 0 {
		t.Error("expected chat snapshot published")
	}
}

func TestSendMessageErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedFriends(t, "a", "b")
	env.seedUser(t, "c", "c@example.com")

	if _, err := env.chats.SendMessage(ctx, "a", "b", "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("blank text: got %v, want ErrEmptyMessage", err)
	}
	if _, err := env.chats.SendMessage(ctx, "a", "c", "hi"); !errors.Is(err, ErrNotFriends) {
		t.Errorf("not friends: got %v, want ErrNotFriends", err)
	}
}

func TestHistoryWindow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedFriends(t, "a", "b")

	// Never-chatted pair yields an empty snapshot, not an error.
	chatID, snap, err := env.chats.History(ctx, "a", "b")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if chatID != "a_b" || len(snap.Messages) != 0 {
		t.Errorf("expected empty history for a_b, got %d messages", len(snap.Messages))
	}

	// Seed beyond the window with increasing timestamps.
	for i := 0; i < models.MessageWindow+10; i++ {
		m := &models.Message{
			ID:         "m-" + strconv.Itoa(i),
			Text:       "msg " + strconv.Itoa(i),
			SenderID:   "a",
			SenderName: "A",
			CreatedAt:  int64(1000 + i),
		}
		if err := env.store.AppendMessage(ctx, "a_b", []string{"a", "b"}, m); err != nil {
			t.Fatalf("seed message %d failed: %v", i, err)
		}
	}

	_, snap, err = env.chats.History(ctx, "b", "a")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(snap.Messages) != models.MessageWindow {
		t.Fatalf("expected %d messages, got %d", models.MessageWindow, len(snap.Messages))
	}
	for i := 1; i < len(snap.Messages); i++ {
		if snap.Messages[i].CreatedAt < snap.Messages[i-1].CreatedAt {
			t.Fatalf("messages not ascending at %d", i)
		}
	}
	// Window holds the newest messages.
	last := snap.Messages[len(snap.Messages)-1]
	if last.CreatedAt != int64(1000+models.MessageWindow+9) {
		t.Errorf("window should end at the newest message, got %d", last.CreatedAt)
	}
}
