package models

// Pool is a two-party shared expense ledger. It is created lazily on the
// first expense and keyed by the pairing id of its two member uids.
type Pool struct {
	// ID is the deterministic pairing id of the two members.
	ID string `json:"id"`

	// Users holds the two member uids.
	Users []string `json:"users"`

	// Expenses is the pool's expense list, append-mostly. Only the Done
	// flag of an entry is ever mutated in place.
	Expenses []Expense `json:"expenses"`
}

// Expense is a single entry in a pool.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// Amount is the positive currency value of the expense.
	Amount float64 `json:"amount"`

	// Reason is free text describing the expense. Defaults to
	// DefaultExpenseReason when absent.
	Reason string `json:"reason"`

	// Done marks the expense as settled. Toggle-only.
	Done bool `json:"done"`

	// CreatedAt is the server-assigned Unix timestamp, used for the
	// newest-first ledger ordering.
	CreatedAt int64 `json:"createdAt"`

	// AddedBy and AddedByName attribute the expense to its creator.
	AddedBy     string `json:"addedBy"`
	AddedByName string `json:"addedByName"`
}

// DefaultExpenseReason is used when an expense is added with no reason.
const DefaultExpenseReason = "No reason"
