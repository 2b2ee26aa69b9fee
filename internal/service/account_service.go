package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/anragu/poolpal/internal/auth"
	"github.com/anragu/poolpal/internal/models"
	"github.com/anragu/poolpal/internal/realtime"
	"github.com/anragu/poolpal/internal/storage"
)

// AccountService covers the account lifecycle: registration, sessions,
// email verification, password reset, profile-name changes, and deletion.
type AccountService struct {
	store         storage.Store
	authenticator auth.Authenticator
	passwords     *auth.PasswordAuthenticator
	tokens        *auth.TokenIssuer
	jwt           *auth.JWTManager
	notify        Notifier
}

// NewAccountService creates an AccountService.
func NewAccountService(
	store storage.Store,
	passwords *auth.PasswordAuthenticator,
	tokens *auth.TokenIssuer,
	jwt *auth.JWTManager,
	notify Notifier,
) *AccountService {
	return &AccountService{
		store:         store,
		authenticator: passwords,
		passwords:     passwords,
		tokens:        tokens,
		jwt:           jwt,
		notify:        notify,
	}
}

// Register creates an account, issues a verification token, and returns a
// session token. The session starts unverified and only reaches the
// limited route class until the email is confirmed.
func (s *AccountService) Register(ctx context.Context, email, name, password string) (*models.User, string, error) {
	user, err := s.authenticator.Register(ctx, email, name, password)
	if err != nil {
		return nil, "", err
	}

	if err := s.tokens.IssueVerification(ctx, user.UID, user.Email); err != nil {
		// The account exists; verification can be re-requested.
		slog.Warn("failed to issue verification token", "uid", user.UID, "error", err)
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate session token: %w", err)
	}

	slog.Info("user registered", "uid", user.UID, "email", user.Email)
	return user, token, nil
}

// Login authenticates by email and password and returns a session token.
func (s *AccountService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate session token: %w", err)
	}

	slog.Info("user logged in", "uid", user.UID)
	return user, token, nil
}

// VerifyEmail redeems a verification token and marks the address
// confirmed.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) error {
	uid, err := s.tokens.Redeem(ctx, token, auth.PurposeVerifyEmail)
	if err == storage.ErrNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := s.store.SetEmailVerified(ctx, uid); err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}

	slog.Info("email verified", "uid", uid)
	s.publishUser(ctx, uid)
	return nil
}

// ResendVerification issues a fresh verification token for the session
// user.
func (s *AccountService) ResendVerification(ctx context.Context, uid string) error {
	user, err := s.store.GetUserByID(ctx, uid)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return ErrNotFound
	}
	if user.EmailVerified {
		return nil // nothing to do
	}
	return s.tokens.IssueVerification(ctx, user.UID, user.Email)
}

// RequestPasswordReset issues a reset token for the given email. Unknown
// addresses are not revealed to the caller.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up email: %w", err)
	}
	if user == nil {
		slog.Info("password reset requested for unknown email")
		return nil
	}
	return s.tokens.IssuePasswordReset(ctx, user.UID, user.Email)
}

// ResetPassword redeems a reset token and stores the new credential.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	uid, err := s.tokens.Redeem(ctx, token, auth.PurposeResetPassword)
	if err == storage.ErrNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := s.passwords.SetPassword(ctx, uid, newPassword); err != nil {
		return err
	}
	slog.Info("password reset", "uid", uid)
	return nil
}

// UpdateProfileName changes the display name, rate-limited to once per
// 29-day window. At exactly 29 days elapsed the change is accepted.
func (s *AccountService) UpdateProfileName(ctx context.Context, uid, name string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	now := time.Now()
	if user.NameLastUpdatedAt != 0 {
		elapsed := now.Sub(time.Unix(user.NameLastUpdatedAt, 0))
		if elapsed < models.NameChangeWindow {
			remaining := models.NameChangeWindow - elapsed
			days := int(math.Ceil(remaining.Hours() / 24))
			return nil, &RateLimitedError{DaysRemaining: days}
		}
	}

	if err := s.store.UpdateUserName(ctx, uid, name, now.Unix()); err != nil {
		if err == storage.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update name: %w", err)
	}

	slog.Info("display name updated", "uid", uid)
	return s.publishUser(ctx, uid)
}

// DeleteAccount removes the user record after re-verifying the credential.
// Friend back-references and pool/chat records are deliberately left in
// place; the orphan counts are logged so the gap stays visible.
func (s *AccountService) DeleteAccount(ctx context.Context, uid, password string) error {
	if password == "" {
		return ErrReauthRequired
	}
	if err := s.authenticator.Reauthenticate(ctx, uid, password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return ErrWrongCredential
		}
		if errors.Is(err, auth.ErrUserGone) {
			return ErrNotFound
		}
		return err
	}

	user, err := s.store.GetUserByID(ctx, uid)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return ErrNotFound
	}

	if err := s.store.DeleteUser(ctx, uid); err != nil {
		if err == storage.ErrNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if n := len(user.Friends); n > 0 {
		slog.Warn("account deleted without cascade",
			"uid", uid,
			"orphaned_friend_refs", n,
			"orphaned_requests", len(user.SentRequests)+len(user.PendingRequests),
		)
	} else {
		slog.Info("account deleted", "uid", uid)
	}
	return nil
}

func (s *AccountService) publishUser(ctx context.Context, uid string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	s.notify.Publish(realtime.UserTopic(uid), user)
	return user, nil
}
