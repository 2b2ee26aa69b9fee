// Package ledger derives the display projection of a pool's expenses.
package ledger

import (
	"sort"

	"github.com/anragu/poolpal/internal/models"
)

// Project returns the expenses ordered for display: newest first by
// CreatedAt, entries with no timestamp last, id ascending as tie-break.
// The input slice is not modified; the projection is recomputed in full
// from every pushed snapshot.
func Project(expenses []models.Expense) []models.Expense {
	out := make([]models.Expense, len(expenses))
	copy(out, expenses)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.CreatedAt != b.CreatedAt {
			if a.CreatedAt == 0 {
				return false
			}
			if b.CreatedAt == 0 {
				return true
			}
			return a.CreatedAt > b.CreatedAt
		}
		return a.ID < b.ID
	})
	return out
}

// Totals sums the open and settled amounts of a ledger.
func Totals(expenses []models.Expense) (open, settled float64) {
	for _, e := range expenses {
		if e.Done {
			settled += e.Amount
		} else {
			open += e.Amount
		}
	}
	return open, settled
}
