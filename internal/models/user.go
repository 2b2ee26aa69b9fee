package models

import "time"

// User represents a registered account and its friend-graph state.
type User struct {
	// UID is the unique identifier for the user (UUID format).
	UID string `json:"uid"`

	// Name is the display name. Changes are rate-limited to once per
	// NameChangeWindow, enforced at mutation time.
	Name string `json:"name"`

	// Email is the user's email address (unique, used for login and
	// friend lookup).
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the login credential.
	// Never serialized.
	PasswordHash string `json:"-"`

	// EmailVerified reports whether the address has been confirmed.
	// Unverified sessions only reach the limited route class.
	EmailVerified bool `json:"emailVerified"`

	// Friends holds the uids of accepted friends. Symmetric: this user
	// appears in each listed friend's Friends set.
	Friends []string `json:"friends"`

	// SentRequests holds uids this user has requested friendship with.
	SentRequests []string `json:"sentRequests"`

	// PendingRequests holds uids that have requested friendship with
	// this user.
	PendingRequests []string `json:"pendingRequests"`

	// NameLastUpdatedAt is the Unix timestamp of the last display-name
	// change, zero if the name was never changed.
	NameLastUpdatedAt int64 `json:"nameLastUpdatedAt,omitempty"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"createdAt"`
}

// NameChangeWindow is the minimum interval between display-name changes.
const NameChangeWindow = 29 * 24 * time.Hour

// HasFriend reports whether uid is in the user's friends set.
func (u *User) HasFriend(uid string) bool { return contains(u.Friends, uid) }

// HasSentRequestTo reports whether the user already requested uid.
func (u *User) HasSentRequestTo(uid string) bool { return contains(u.SentRequests, uid) }

// HasPendingRequestFrom reports whether uid already requested this user.
func (u *User) HasPendingRequestFrom(uid string) bool { return contains(u.PendingRequests, uid) }

func contains(set []string, uid string) bool {
	for _, s := range set {
		if s == uid {
			return true
		}
	}
	return false
}
