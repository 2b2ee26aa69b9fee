package service

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/anragu/poolpal/internal/auth"
	"github.com/anragu/poolpal/internal/models"
	"github.com/anragu/poolpal/internal/storage/sqlite"
)

// recordingNotifier captures published topics for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	topics []string
}

func (r *recordingNotifier) Publish(topic string, _ interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.topics = append(r.topics, topic)
}

func (r *recordingNotifier) count(topic string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.topics {
		if t == topic {
			n++
		}
	}
	return n
}

// capturingMailer remembers the last token it was asked to deliver.
type capturingMailer struct {
	mu         sync.Mutex
	lastVerify string
	lastReset  string
}

func (m *capturingMailer) SendVerification(_ string, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastVerify = token
}

func (m *capturingMailer) SendPasswordReset(_ string, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastReset = token
}

type testEnv struct {
	store    *sqlite.SQLiteStore
	notify   *recordingNotifier
	mailer   *capturingMailer
	friends  *FriendService
	pools    *PoolService
	chats    *ChatService
	accounts *AccountService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "poolpal-svc-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
		os.Remove(tmpFile.Name())
	})

	notify := &recordingNotifier{}
	mailer := &capturingMailer{}
	passwords := auth.NewPasswordAuthenticator(store)
	tokens := auth.NewTokenIssuer(store, mailer)
	jwt := auth.NewJWTManager("test-secret-key-32-bytes-long!!!", time.Hour)

	return &testEnv{
		store:    store,
		notify:   notify,
		mailer:   mailer,
		friends:  NewFriendService(store, notify),
		pools:    NewPoolService(store, notify),
		chats:    NewChatService(store, notify),
		accounts: NewAccountService(store, passwords, tokens, jwt, notify),
	}
}

// seedUser creates a user record directly in storage.
func (e *testEnv) seedUser(t *testing.T, uid, email string) {
	t.Helper()
	err := e.store.CreateUser(context.Background(), &models.User{
		UID:          uid,
		Name:         "user " + uid,
		Email:        email,
		PasswordHash: "x",
		CreatedAt:    time.Now().Unix(),
	})
	if err != nil {
		t.Fatalf("seedUser(%s) failed: %v", uid, err)
	}
}

// seedFriends creates two users and makes them friends.
func (e *testEnv) seedFriends(t *testing.T, uidA, uidB string) {
	t.Helper()
	ctx := context.Background()
	e.seedUser(t, uidA, uidA+"@example.com")
	e.seedUser(t, uidB, uidB+"@example.com")
	if err := e.store.CreateFriendRequest(ctx, uidA, uidB); err != nil {
		t.Fatalf("seed request failed: %v", err)
	}
	if err := e.store.AcceptFriendRequest(ctx, uidB, uidA); err != nil {
		t.Fatalf("seed accept failed: %v", err)
	}
}
