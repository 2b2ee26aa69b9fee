package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/anragu/poolpal/internal/storage"
)

// Token purposes. A token is only valid for the purpose it was issued for.
const (
	PurposeVerifyEmail   = "verify_email"
	PurposeResetPassword = "reset_password"
)

const (
	verifyTokenTTL = 24 * time.Hour
	resetTokenTTL  = time.Hour
)

var ErrTokenExpired = errors.New("token expired")

// Mailer delivers action tokens out of band. Implementations decide the
// channel (SMTP, provider API, log output in development).
type Mailer interface {
	SendVerification(email, token string)
	SendPasswordReset(email, token string)
}

// LogMailer is the development Mailer: it logs tokens instead of sending
// mail.
type LogMailer struct{}

func (LogMailer) SendVerification(email, token string) {
	slog.Info("verification token issued", "email", email, "token", token)
}

func (LogMailer) SendPasswordReset(email, token string) {
	slog.Info("password reset token issued", "email", email, "token", token)
}

// TokenStore is the subset of storage the token issuer needs.
type TokenStore interface {
	CreateActionToken(ctx context.Context, token, uid, purpose string, expiresAt int64) error
	ConsumeActionToken(ctx context.Context, token, purpose string) (string, int64, error)
}

// TokenIssuer creates and redeems single-use action tokens. Verification
// is an explicit confirm, never a polling loop on auth state.
type TokenIssuer struct {
	store  TokenStore
	mailer Mailer
}

// NewTokenIssuer creates a TokenIssuer backed by the given store and
// mailer.
func NewTokenIssuer(store TokenStore, mailer Mailer) *TokenIssuer {
	return &TokenIssuer{store: store, mailer: mailer}
}

// IssueVerification creates an email-verification token and hands it to the
// mailer.
func (t *TokenIssuer) IssueVerification(ctx context.Context, uid, email string) error {
	token := uuid.New().String()
	expires := time.Now().Add(verifyTokenTTL).Unix()
	if err := t.store.CreateActionToken(ctx, token, uid, PurposeVerifyEmail, expires); err != nil {
		return fmt.Errorf("failed to issue verification token: %w", err)
	}
	t.mailer.SendVerification(email, token)
	return nil
}

// IssuePasswordReset creates a password-reset token and hands it to the
// mailer.
func (t *TokenIssuer) IssuePasswordReset(ctx context.Context, uid, email string) error {
	token := uuid.New().String()
	expires := time.Now().Add(resetTokenTTL).Unix()
	if err := t.store.CreateActionToken(ctx, token, uid, PurposeResetPassword, expires); err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}
	t.mailer.SendPasswordReset(email, token)
	return nil
}

// Redeem consumes a token and returns the uid it was issued for.
// A token can be redeemed at most once; expired tokens fail with
// ErrTokenExpired.
func (t *TokenIssuer) Redeem(ctx context.Context, token, purpose string) (string, error) {
	uid, expiresAt, err := t.store.ConsumeActionToken(ctx, token, purpose)
	if err != nil {
		return "", err
	}
	if time.Now().Unix() > expiresAt {
		return "", ErrTokenExpired
	}
	return uid, nil
}

// Type check against the full storage interface.
var _ TokenStore = (storage.Store)(nil)
