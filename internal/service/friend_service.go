package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anragu/poolpal/internal/models"
	"github.com/anragu/poolpal/internal/realtime"
	"github.com/anragu/poolpal/internal/storage"
)

// FriendService is the identity & relationship manager: it owns the friend
// graph and the request lifecycle.
type FriendService struct {
	store  storage.Store
	notify Notifier
}

// NewFriendService creates a FriendService with the given storage backend
// and notifier.
func NewFriendService(store storage.Store, notify Notifier) *FriendService {
	return &FriendService{store: store, notify: notify}
}

// SendFriendRequest looks up the target by email and records the request
// pair. The pairing invariant holds throughout: a pair is never
// simultaneously friends and in a request set.
func (s *FriendService) SendFriendRequest(ctx context.Context, selfUID, targetEmail string) (*models.User, error) {
	self, err := s.store.GetUserByID(ctx, selfUID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if self == nil {
		return nil, ErrNotFound
	}
	if self.Email == targetEmail {
		return nil, ErrSelfRequest
	}

	target, err := s.store.GetUserByEmail(ctx, targetEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to look up target: %w", err)
	}
	if target == nil {
		return nil, ErrNotFound
	}
	if target.UID == selfUID {
		return nil, ErrSelfRequest
	}

	switch {
	case self.HasFriend(target.UID):
		return nil, ErrAlreadyFriends
	case self.HasSentRequestTo(target.UID):
		return nil, ErrAlreadyRequested
	case self.HasPendingRequestFrom(target.UID):
		return nil, ErrAlreadyPending
	}

	if err := s.store.CreateFriendRequest(ctx, selfUID, target.UID); err != nil {
		return nil, fmt.Errorf("failed to record request: %w", err)
	}

	slog.Info("friend request sent", "from", selfUID, "to", target.UID)
	s.publishUsers(ctx, selfUID, target.UID)
	return target, nil
}

// AcceptFriendRequest clears the request pair and makes the friendship
// symmetric, atomically.
func (s *FriendService) AcceptFriendRequest(ctx context.Context, selfUID, friendUID string) error {
	err := s.store.AcceptFriendRequest(ctx, selfUID, friendUID)
	if err == storage.ErrNotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to accept request: %w", err)
	}

	slog.Info("friend request accepted", "user", selfUID, "friend", friendUID)
	s.publishUsers(ctx, selfUID, friendUID)
	return nil
}

// DeclineFriendRequest removes the pairing from both request sets without
// touching the friends sets.
func (s *FriendService) DeclineFriendRequest(ctx context.Context, selfUID, friendUID string) error {
	err := s.store.DeclineFriendRequest(ctx, selfUID, friendUID)
	if err == storage.ErrNotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to decline request: %w", err)
	}

	slog.Info("friend request declined", "user", selfUID, "friend", friendUID)
	s.publishUsers(ctx, selfUID, friendUID)
	return nil
}

// GetProfile returns a user record with friend-graph state.
func (s *FriendService) GetProfile(ctx context.Context, uid string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// ListFriends resolves the user's friends to full records. Friends whose
// accounts were since deleted are skipped (account deletion does not
// cascade to back-references).
func (s *FriendService) ListFriends(ctx context.Context, uid string) ([]*models.User, error) {
	user, err := s.GetProfile(ctx, uid)
	if err != nil {
		return nil, err
	}

	friends := make([]*models.User, 0, len(user.Friends))
	for _, fuid := range user.Friends {
		friend, err := s.store.GetUserByID(ctx, fuid)
		if err != nil {
			return nil, fmt.Errorf("failed to load friend %s: %w", fuid, err)
		}
		if friend == nil {
			continue // orphaned back-reference
		}
		friends = append(friends, friend)
	}
	return friends, nil
}

// publishUsers pushes fresh snapshots of both touched user records so every
// subscribed device re-derives its views.
func (s *FriendService) publishUsers(ctx context.Context, uids ...string) {
	for _, uid := range uids {
		user, err := s.store.GetUserByID(ctx, uid)
		if err != nil || user == nil {
			slog.Warn("failed to publish user snapshot", "uid", uid, "error", err)
			continue
		}
		s.notify.Publish(realtime.UserTopic(uid), user)
	}
}
