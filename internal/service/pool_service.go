package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/anragu/poolpal/internal/ledger"
	"github.com/anragu/poolpal/internal/models"
	"github.com/anragu/poolpal/internal/pairing"
	"github.com/anragu/poolpal/internal/realtime"
	"github.com/anragu/poolpal/internal/storage"
)

// PoolService is the pool resolver: it derives the canonical pool id for a
// pair of users and performs the append/toggle mutations.
type PoolService struct {
	store  storage.Store
	notify Notifier
}

// NewPoolService creates a PoolService with the given storage backend and
// notifier.
func NewPoolService(store storage.Store, notify Notifier) *PoolService {
	return &PoolService{store: store, notify: notify}
}

// AddExpense appends an expense to the pool shared with friendUID, creating
// the pool on first use. Expense ids are server-generated UUIDs and
// CreatedAt is server-assigned.
func (s *PoolService) AddExpense(ctx context.Context, selfUID, friendUID string, amount float64, reason string) (*models.Pool, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
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

	if reason == "" {
		reason = models.DefaultExpenseReason
	}

	expense := &models.Expense{
		ID:          uuid.New().String(),
		Amount:      amount,
		Reason:      reason,
		CreatedAt:   time.Now().Unix(),
		AddedBy:     selfUID,
		AddedByName: self.Name,
	}

	poolID := pairing.ID(selfUID, friendUID)
	if err := s.store.AddExpense(ctx, poolID, []string{selfUID, friendUID}, expense); err != nil {
		return nil, fmt.Errorf("failed to add expense: %w", err)
	}

	slog.Info("expense added", "pool", poolID, "expense", expense.ID, "amount", amount)
	return s.publishPool(ctx, poolID)
}

// ToggleExpenseDone flips the done flag of a single expense. The member
// check keys off the pool record so either party may toggle any entry.
func (s *PoolService) ToggleExpenseDone(ctx context.Context, selfUID, poolID, expenseID string) (*models.Pool, error) {
	pool, err := s.store.GetPool(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pool: %w", err)
	}
	if pool == nil {
		return nil, ErrNotFound
	}
	if !memberOf(pool.Users, selfUID) {
		return nil, ErrNotMember
	}

	done, err := s.store.ToggleExpenseDone(ctx, poolID, expenseID)
	if err == storage.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to toggle expense: %w", err)
	}

	slog.Info("expense toggled", "pool", poolID, "expense", expenseID, "done", done)
	return s.publishPool(ctx, poolID)
}

// Ledger returns the display projection of the pool shared with friendUID:
// newest first, recomputed in full. A never-created pool yields an empty
// ledger.
func (s *PoolService) Ledger(ctx context.Context, selfUID, friendUID string) (string, []models.Expense, error) {
	poolID := pairing.ID(selfUID, friendUID)
	pool, err := s.store.GetPool(ctx, poolID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load pool: %w", err)
	}
	if pool == nil {
		return poolID, []models.Expense{}, nil
	}
	if !memberOf(pool.Users, selfUID) {
		return "", nil, ErrNotMember
	}
	return poolID, ledger.Project(pool.Expenses), nil
}

// publishPool reloads the pool and pushes the snapshot to subscribers.
func (s *PoolService) publishPool(ctx context.Context, poolID string) (*models.Pool, error) {
	pool, err := s.store.GetPool(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload pool: %w", err)
	}
	if pool == nil {
		return nil, ErrNotFound
	}
	s.notify.Publish(realtime.PoolTopic(poolID), pool)
	return pool, nil
}

func memberOf(users []string, uid string) bool {
	for _, u := range users {
		if u == uid {
			return true
		}
	}
	return false
}
