package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anragu/poolpal/internal/models"
)

// GetPool retrieves a pool by id, including its full expense list.
func (s *SQLiteStore) GetPool(ctx context.Context, poolID string) (*models.Pool, error) {
	pool := &models.Pool{}
	var userA, userB string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_a, user_b FROM pools WHERE id = ?", poolID,
	).Scan(&pool.ID, &userA, &userB)
	if err == sql.ErrNoRows {
		return nil, nil // Pool not created yet
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pool: %w", err)
	}
	pool.Users = []string{userA, userB}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, amount, reason, done, created_at, added_by, added_by_name
		FROM expenses
		WHERE pool_id = ?
		ORDER BY created_at, id`,
		poolID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e models.Expense
		var done int
		if err := rows.Scan(&e.ID, &e.Amount, &e.Reason, &done, &e.CreatedAt, &e.AddedBy, &e.AddedByName); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Done = done != 0
		pool.Expenses = append(pool.Expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return pool, nil
}

// AddExpense appends an expense, lazily creating the pool record.
// INSERT OR IGNORE makes the creation idempotent, so both members racing to
// add the first expense cannot produce duplicate pools or lose an entry.
func (s *SQLiteStore) AddExpense(ctx context.Context, poolID string, users []string, e *models.Expense) error {
	if len(users) != 2 {
		return fmt.Errorf("pool requires exactly two members, got %d", len(users))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO pools (id, user_a, user_b) VALUES (?, ?, ?)",
		poolID, users[0], users[1],
	); err != nil {
		return fmt.Errorf("failed to create pool: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO expenses (id, pool_id, amount, reason, done, created_at, added_by, added_by_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, poolID, e.Amount, e.Reason, boolToInt(e.Done), e.CreatedAt, e.AddedBy, e.AddedByName,
	); err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ToggleExpenseDone flips the done flag of a single expense row. The
// targeted update means two users toggling different expenses concurrently
// can never clobber each other's change.
func (s *SQLiteStore) ToggleExpenseDone(ctx context.Context, poolID, expenseID string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE expenses SET done = 1 - done WHERE id = ? AND pool_id = ?",
		expenseID, poolID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to toggle expense: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return false, err
	}

	var done int
	if err := tx.QueryRowContext(ctx,
		"SELECT done FROM expenses WHERE id = ?", expenseID,
	).Scan(&done); err != nil {
		return false, fmt.Errorf("failed to read toggled expense: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return done != 0, nil
}
