package sqlite

import (
	"context"
	"fmt"
	"time"
)

// CreateFriendRequest records an in-flight request. A single row backs both
// the sender's sentRequests and the recipient's pendingRequests views, so
// the two halves can never diverge.
func (s *SQLiteStore) CreateFriendRequest(ctx context.Context, fromUID, toUID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO friend_requests (from_uid, to_uid, created_at) VALUES (?, ?, ?)",
		fromUID, toUID, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to create friend request: %w", err)
	}
	return nil
}

// AcceptFriendRequest clears the request pair and adds the symmetric
// friendship rows in one transaction: both sides commit or neither does.
func (s *SQLiteStore) AcceptFriendRequest(ctx context.Context, selfUID, friendUID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"DELETE FROM friend_requests WHERE from_uid = ? AND to_uid = ?",
		friendUID, selfUID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear friend request: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}

	// A mutual-send race can leave a reciprocal row; clear it too so the
	// pair is never friends and requested at the same time.
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM friend_requests WHERE from_uid = ? AND to_uid = ?",
		selfUID, friendUID,
	); err != nil {
		return fmt.Errorf("failed to clear reciprocal request: %w", err)
	}

	now := time.Now().Unix()
	for _, pair := range [][2]string{{selfUID, friendUID}, {friendUID, selfUID}} {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO friendships (user_uid, friend_uid, created_at) VALUES (?, ?, ?)",
			pair[0], pair[1], now,
		); err != nil {
			return fmt.Errorf("failed to insert friendship: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeclineFriendRequest removes the request pair without touching
// friendships. Any reciprocal row from a mutual-send race goes with it.
func (s *SQLiteStore) DeclineFriendRequest(ctx context.Context, selfUID, friendUID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"DELETE FROM friend_requests WHERE from_uid = ? AND to_uid = ?",
		friendUID, selfUID,
	)
	if err != nil {
		return fmt.Errorf("failed to decline friend request: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM friend_requests WHERE from_uid = ? AND to_uid = ?",
		selfUID, friendUID,
	); err != nil {
		return fmt.Errorf("failed to clear reciprocal request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
