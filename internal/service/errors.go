// Package service implements the poolpal domain operations: the identity &
// relationship manager, the pool resolver, the chat channel, and account
// maintenance. Handlers map the sentinel errors defined here to transport
// statuses; none are retried, and a failed operation leaves prior state
// untouched.
package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a lookup by email or uid finds no
	// record.
	ErrNotFound = errors.New("user not found")

	// ErrSelfRequest rejects friend requests addressed to oneself.
	ErrSelfRequest = errors.New("you cannot add yourself as a friend")

	// ErrAlreadyFriends rejects requests to an existing friend.
	ErrAlreadyFriends = errors.New("you are already friends")

	// ErrAlreadyRequested rejects duplicate outgoing requests.
	ErrAlreadyRequested = errors.New("you have already sent a request to this user")

	// ErrAlreadyPending rejects a request to someone whose own request
	// is waiting for you.
	ErrAlreadyPending = errors.New("this user has already sent you a request")

	// ErrWrongCredential is returned when re-authentication fails.
	ErrWrongCredential = errors.New("wrong password")

	// ErrReauthRequired is returned when a sensitive operation is
	// attempted without a fresh credential.
	ErrReauthRequired = errors.New("this operation requires your password")

	// ErrEmptyMessage rejects chat messages that are empty after
	// trimming.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrNotFriends rejects pool and chat operations between users who
	// are not friends.
	ErrNotFriends = errors.New("you are not friends with this user")

	// ErrInvalidAmount rejects non-positive expense amounts.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrNotMember rejects pool/chat access by a non-member.
	ErrNotMember = errors.New("you are not a member of this pool")
)

// RateLimitedError reports a rejected display-name change and how long
// until the next one is allowed.
type RateLimitedError struct {
	DaysRemaining int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf(
		"you can only change your name once every 29 days; try again in %d day(s)",
		e.DaysRemaining,
	)
}

// IsRateLimited reports whether err is a RateLimitedError and returns it.
func IsRateLimited(err error) (*RateLimitedError, bool) {
	var rl *RateLimitedError
	if errors.As(err, &rl) {
		return rl, true
	}
	return nil, false
}
