// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/anragu/poolpal/internal/models"
)

// ErrNotFound is returned by mutations whose target record does not exist.
// Lookup methods return (nil, nil) for missing records instead.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for poolpal storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
//
// Relationship mutations touch two users' state; implementations must apply
// them atomically so a failure never leaves one side updated. Likewise
// ToggleExpenseDone must be a targeted per-entry update, never a
// whole-collection rewrite.
type Store interface {
	// CreateUser persists a new user record.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email with friend-graph state
	// populated. Returns (nil, nil) if no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by uid with friend-graph state
	// populated. Returns (nil, nil) if not found.
	GetUserByID(ctx context.Context, uid string) (*models.User, error)

	// UpdateUserName sets the display name and stamps the change time.
	UpdateUserName(ctx context.Context, uid, name string, at int64) error

	// SetEmailVerified marks the user's email address as confirmed.
	SetEmailVerified(ctx context.Context, uid string) error

	// UpdatePasswordHash replaces the stored credential hash.
	UpdatePasswordHash(ctx context.Context, uid, hash string) error

	// DeleteUser removes the user record. Friend back-references and
	// pool/chat records are left in place.
	DeleteUser(ctx context.Context, uid string) error

	// CreateFriendRequest records an in-flight request from one user to
	// another. The single row backs both halves of the request state
	// (sender's sentRequests, recipient's pendingRequests).
	CreateFriendRequest(ctx context.Context, fromUID, toUID string) error

	// AcceptFriendRequest atomically clears the request pair and adds
	// the symmetric friendship rows. Returns ErrNotFound when no such
	// request is in flight.
	AcceptFriendRequest(ctx context.Context, selfUID, friendUID string) error

	// DeclineFriendRequest atomically removes the request pair without
	// touching friendships. Returns ErrNotFound when no such request is
	// in flight.
	DeclineFriendRequest(ctx context.Context, selfUID, friendUID string) error

	// GetPool retrieves a pool with its full expense list.
	// Returns (nil, nil) if the pool was never created.
	GetPool(ctx context.Context, poolID string) (*models.Pool, error)

	// AddExpense appends an expense, creating the pool record seeded
	// with the member uids if it does not exist yet. Creation and
	// append happen in one transaction, so concurrent first expenses
	// from both members cannot race.
	AddExpense(ctx context.Context, poolID string, users []string, e *models.Expense) error

	// ToggleExpenseDone flips the done flag of a single expense with a
	// targeted update and returns the new value. Returns ErrNotFound if
	// the expense is not in the pool.
	ToggleExpenseDone(ctx context.Context, poolID, expenseID string) (bool, error)

	// GetChat retrieves a chat record. Returns (nil, nil) if the chat
	// was never created.
	GetChat(ctx context.Context, chatID string) (*models.Chat, error)

	// AppendMessage appends a message and updates the parent chat's
	// last-message summary in one transaction, creating the chat record
	// if needed.
	AppendMessage(ctx context.Context, chatID string, users []string, m *models.Message) error

	// ListMessages returns the most recent limit messages in ascending
	// order.
	ListMessages(ctx context.Context, chatID string, limit int) ([]models.Message, error)

	// CreateActionToken stores a single-use token (email verification,
	// password reset).
	CreateActionToken(ctx context.Context, token, uid, purpose string, expiresAt int64) error

	// ConsumeActionToken atomically looks up and deletes a token,
	// returning its uid and expiry. Returns ErrNotFound for unknown or
	// already-used tokens.
	ConsumeActionToken(ctx context.Context, token, purpose string) (uid string, expiresAt int64, err error)

	// Close releases any resources held by the store.
	Close() error
}
