package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anragu/poolpal/internal/auth"
	"github.com/anragu/poolpal/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, token, err := env.accounts.Register(ctx, "new@example.com", "Newbie", "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.UID == "" || token == "" {
		t.Fatal("expected uid and session token")
	}
	if user.EmailVerified {
		t.Error("fresh account must start unverified")
	}
	if env.mailer.lastVerify == "" {
		t.Error("registration should issue a verification token")
	}

	if _, _, err := env.accounts.Register(ctx, "new@example.com", "Dup", "password123"); !errors.Is(err, auth.ErrEmailExists) {
		t.Errorf("duplicate email: got %v, want ErrEmailExists", err)
	}
	if _, _, err := env.accounts.Register(ctx, "weak@example.com", "W", "short"); !errors.Is(err, auth.ErrWeakPassword) {
		t.Errorf("weak password: got %v, want ErrWeakPassword", err)
	}

	if _, _, err := env.accounts.Login(ctx, "new@example.com", "password123"); err != nil {
		t.Errorf("Login failed: %v", err)
	}
	if _, _, err := env.accounts.Login(ctx, "new@example.com", "wrongpass!"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("bad password: got %v, want ErrInvalidCredentials", err)
	}
}

func TestVerifyEmailFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, _, err := env.accounts.Register(ctx, "v@example.com", "V", "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := env.accounts.VerifyEmail(ctx, env.mailer.lastVerify); err != nil {
		t.Fatalf("VerifyEmail failed: %v", err)
	}

	loaded, _ := env.store.GetUserByID(ctx, user.UID)
	if !loaded.EmailVerified {
		t.Error("email should be verified")
	}

	// Tokens are single use.
	if err := env.accounts.VerifyEmail(ctx, env.mailer.lastVerify); !errors.Is(err, ErrNotFound) {
		t.Errorf("reused token: got %v, want ErrNotFound", err)
	}
	if err := env.accounts.VerifyEmail(ctx, "bogus"); !errors.Is(err, ErrNotFound) {
		t.Errorf("bogus token: got %v, want ErrNotFound", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, err := env.accounts.Register(ctx, "r@example.com", "R", "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Unknown email: no error, no token, nothing revealed.
	before := env.mailer.lastReset
	if err := env.accounts.RequestPasswordReset(ctx, "ghost@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset for unknown email failed: %v", err)
	}
	if env.mailer.lastReset != before {
		t.Error("unknown email must not issue a token")
	}

	if err := env.accounts.RequestPasswordReset(ctx, "r@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}
	if env.mailer.lastReset == "" {
		t.Fatal("expected reset token")
	}

	if err := env.accounts.ResetPassword(ctx, env.mailer.lastReset, "newpassword1"); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}
	if _, _, err := env.accounts.Login(ctx, "r@example.com", "newpassword1"); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}
	if _, _, err := env.accounts.Login(ctx, "r@example.com", "password123"); err == nil {
		t.Error("old password must no longer work")
	}
}

func TestUpdateProfileNameRateLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Renamed 10 days ago: rejected with 19 days remaining.
	tenDaysAgo := time.Now().Add(-10 * 24 * time.Hour).Unix()
	if err := env.store.CreateUser(ctx, &models.User{
		UID: "recent", Name: "Old Name", Email: "recent@example.com",
		PasswordHash: "x", NameLastUpdatedAt: tenDaysAgo, CreatedAt: tenDaysAgo,
	}); err != nil {
		t.Fatal(err)
	}

	_, err := env.accounts.UpdateProfileName(ctx, "recent", "New Name")
	rl, ok := IsRateLimited(err)
	if !ok {
		t.Fatalf("expected RateLimitedError, got %v", err)
	}
	if rl.DaysRemaining != 19 {
		t.Errorf("days remaining: expected 19, got %d", rl.DaysRemaining)
	}

	loaded, _ := env.store.GetUserByID(ctx, "recent")
	if loaded.Name != "Old Name" {
		t.Error("rejected rename must leave the name untouched")
	}
}

func TestUpdateProfileNameBoundary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Exactly 29 days elapsed: accepted.
	boundary := time.Now().Add(-models.NameChangeWindow).Unix()
	if err := env.store.CreateUser(ctx, &models.User{
		UID: "boundary", Name: "Old", Email: "boundary@example.com",
		PasswordHash: "x", NameLastUpdatedAt: boundary, CreatedAt: boundary,
	}); err != nil {
		t.Fatal(err)
	}

	user, err := env.accounts.UpdateProfileName(ctx, "boundary", "Fresh")
	if err != nil {
		t.Fatalf("rename at the 29-day boundary should succeed: %v", err)
	}
	if user.Name != "Fresh" {
		t.Errorf("name: expected Fresh, got %s", user.Name)
	}
	if user.NameLastUpdatedAt == boundary {
		t.Error("NameLastUpdatedAt should be restamped")
	}
}

func TestUpdateProfileNameFirstChange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, "fresh", "fresh@example.com")

	// Never renamed: always allowed.
	if _, err := env.accounts.UpdateProfileName(ctx, "fresh", "First Rename"); err != nil {
		t.Fatalf("first rename should succeed: %v", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, _, err := env.accounts.Register(ctx, "d@example.com", "D", "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := env.accounts.DeleteAccount(ctx, user.UID, ""); !errors.Is(err, ErrReauthRequired) {
		t.Errorf("missing credential: got %v, want ErrReauthRequired", err)
	}
	if err := env.accounts.DeleteAccount(ctx, user.UID, "wrongpass!"); !errors.Is(err, ErrWrongCredential) {
		t.Errorf("wrong credential: got %v, want ErrWrongCredential", err)
	}

	// Still intact after failed attempts.
	if loaded, _ := env.store.GetUserByID(ctx, user.UID); loaded == nil {
		t.Fatal("failed deletes must leave the account intact")
	}

	if err := env.accounts.DeleteAccount(ctx, user.UID, "password123"); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}
	if loaded, _ := env.store.GetUserByID(ctx, user.UID); loaded != nil {
		t.Error("account should be gone")
	}
}

func TestDeleteAccountAlreadyGone(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, _, err := env.accounts.Register(ctx, "d@example.com", "D", "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := env.store.DeleteUser(ctx, user.UID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}

	// The session token outlives the account; the delete reports not
	// found rather than an internal failure.
	if err := env.accounts.DeleteAccount(ctx, user.UID, "password123"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted account: got %v, want ErrNotFound", err)
	}
}

func TestDeleteAccountDoesNotCascade(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedFriends(t, "a", "b")

	pool, err := env.pools.AddExpense(ctx, "a", "b", 10, "x")
	if err != nil {
		t.Fatal(err)
	}

	// Delete directly; helpers seed an opaque hash, so skip reauth.
	if err := env.store.DeleteUser(ctx, "a"); err != nil {
		t.Fatal(err)
	}

	// The pool record and b's back-reference survive; deletion does not
	// cascade.
	survivor, err := env.store.GetPool(ctx, pool.ID)
	if err != nil || survivor == nil {
		t.Fatalf("pool should survive account deletion: %v", err)
	}
	b, _ := env.store.GetUserByID(ctx, "b")
	if !b.HasFriend("a") {
		t.Error("friend back-reference is expected to orphan, not cascade")
	}
}
