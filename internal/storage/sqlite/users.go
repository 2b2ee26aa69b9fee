package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anragu/poolpal/internal/models"
	"github.com/anragu/poolpal/internal/storage"
)

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (uid, name, email, password_hash, email_verified, name_last_updated_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.UID,
		user.Name,
		user.Email,
		user.PasswordHash,
		boolToInt(user.EmailVerified),
		user.NameLastUpdatedAt,
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves a user by their email address, including
// friend-graph state.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email = ?", email)
}

// GetUserByID retrieves a user by their uid, including friend-graph state.
func (s *SQLiteStore) GetUserByID(ctx context.Context, uid string) (*models.User, error) {
	return s.getUser(ctx, "uid = ?", uid)
}

func (s *SQLiteStore) getUser(ctx context.Context, where string, arg string) (*models.User, error) {
	query := `
		SELECT uid, name, email, password_hash, email_verified, name_last_updated_at, created_at
		FROM users
		WHERE ` + where

	user := &models.User{}
	var verified int
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.UID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&verified,
		&user.NameLastUpdatedAt,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // User not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.EmailVerified = verified != 0

	if err := s.loadFriendState(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// loadFriendState populates Friends, SentRequests and PendingRequests from
// the relational edge tables.
func (s *SQLiteStore) loadFriendState(ctx context.Context, user *models.User) error {
	var err error
	user.Friends, err = s.collectUIDs(ctx,
		"SELECT friend_uid FROM friendships WHERE user_uid = ? ORDER BY created_at", user.UID)
	if err != nil {
		return fmt.Errorf("failed to load friends: %w", err)
	}

	user.SentRequests, err = s.collectUIDs(ctx,
		"SELECT to_uid FROM friend_requests WHERE from_uid = ? ORDER BY created_at", user.UID)
	if err != nil {
		return fmt.Errorf("failed to load sent requests: %w", err)
	}

	user.PendingRequests, err = s.collectUIDs(ctx,
		"SELECT from_uid FROM friend_requests WHERE to_uid = ? ORDER BY created_at", user.UID)
	if err != nil {
		return fmt.Errorf("failed to load pending requests: %w", err)
	}
	return nil
}

func (s *SQLiteStore) collectUIDs(ctx context.Context, query string, arg string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uids []string
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, err
		}
		uids = append(uids, uid)
	}
	return uids, rows.Err()
}

// UpdateUserName sets the display name and stamps the change time.
func (s *SQLiteStore) UpdateUserName(ctx context.Context, uid, name string, at int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET name = ?, name_last_updated_at = ? WHERE uid = ?",
		name, at, uid,
	)
	if err != nil {
		return fmt.Errorf("failed to update name: %w", err)
	}
	return requireAffected(res)
}

// SetEmailVerified marks the user's email address as confirmed.
func (s *SQLiteStore) SetEmailVerified(ctx context.Context, uid string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET email_verified = 1 WHERE uid = ?", uid,
	)
	if err != nil {
		return fmt.Errorf("failed to set email verified: %w", err)
	}
	return requireAffected(res)
}

// UpdatePasswordHash replaces the stored credential hash.
func (s *SQLiteStore) UpdatePasswordHash(ctx context.Context, uid, hash string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ? WHERE uid = ?", hash, uid,
	)
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	return requireAffected(res)
}

// DeleteUser removes the user record and its outstanding tokens. Friend
// back-references and pool/chat records are intentionally left in place.
func (s *SQLiteStore) DeleteUser(ctx context.Context, uid string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE uid = ?", uid)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM action_tokens WHERE uid = ?", uid); err != nil {
		return fmt.Errorf("failed to delete action tokens: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// CreateActionToken stores a single-use token.
func (s *SQLiteStore) CreateActionToken(ctx context.Context, token, uid, purpose string, expiresAt int64) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO action_tokens (token, uid, purpose, expires_at) VALUES (?, ?, ?, ?)",
		token, uid, purpose, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create action token: %w", err)
	}
	return nil
}

// ConsumeActionToken atomically looks up and deletes a token.
func (s *SQLiteStore) ConsumeActionToken(ctx context.Context, token, purpose string) (string, int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var uid string
	var expiresAt int64
	err = tx.QueryRowContext(ctx,
		"SELECT uid, expires_at FROM action_tokens WHERE token = ? AND purpose = ?",
		token, purpose,
	).Scan(&uid, &expiresAt)
	if err == sql.ErrNoRows {
		return "", 0, storage.ErrNotFound
	}
	if err != nil {
		return "", 0, fmt.Errorf("failed to get action token: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM action_tokens WHERE token = ?", token,
	); err != nil {
		return "", 0, fmt.Errorf("failed to consume action token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return uid, expiresAt, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
