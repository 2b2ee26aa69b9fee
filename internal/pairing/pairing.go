// Package pairing derives the canonical identifier for a two-party record.
//
// Pools and chats are both keyed by this id. The construction (sort the two
// uids lexicographically, join with "_") must be preserved bit-for-bit for
// compatibility with already stored ids.
package pairing

import "strings"

// ID returns the deterministic pairing id for two user identifiers.
// It is commutative: ID(a, b) == ID(b, a).
func ID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "_" + b
}

// Contains reports whether uid is one of the two parties in id. Uids never
// contain the separator, so a prefix or suffix match is exact.
func Contains(id, uid string) bool {
	if uid == "" {
		return false
	}
	return strings.HasPrefix(id, uid+"_") || strings.HasSuffix(id, "_"+uid)
}
