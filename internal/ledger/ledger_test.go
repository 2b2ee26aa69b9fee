package ledger

import (
	"testing"

	"github.com/anragu/poolpal/internal/models"
)

func TestProjectNewestFirst(t *testing.T) {
	in := []models.Expense{
		{ID: "a", CreatedAt: 100},
		{ID: "b", CreatedAt: 300},
		{ID: "c", CreatedAt: 200},
	}

	got := Project(in)

	want := []string{"b", "c", "a"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestProjectZeroTimestampsLast(t *testing.T) {
	in := []models.Expense{
		{ID: "unstamped-b"},
		{ID: "old", CreatedAt: 1},
		{ID: "unstamped-a"},
		{ID: "new", CreatedAt: 2},
	}

	got := Project(in)

	want := []string{"new", "old", "unstamped-a", "unstamped-b"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID, id)
		}
	}

	// Deterministic: a second projection of the same input must agree.
	again := Project(in)
	for i := range got {
		if got[i].ID != again[i].ID {
			t.Fatalf("projection not deterministic at %d: %s vs %s", i, got[i].ID, again[i].ID)
		}
	}
}

func TestProjectDoesNotMutateInput(t *testing.T) {
	in := []models.Expense{
		{ID: "a", CreatedAt: 1},
		{ID: "b", CreatedAt: 2},
	}

	Project(in)

	if in[0].ID != "a" || in[1].ID != "b" {
		t.Errorf("input reordered: %v", in)
	}
}

func TestTotals(t *testing.T) {
	in := []models.Expense{
		{Amount: 10, Done: false},
		{Amount: 5, Done: true},
		{Amount: 2.5, Done: false},
	}

	open, settled := Totals(in)
	if open != 12.5 {
		t.Errorf("open = %v, want 12.5", open)
	}
	if settled != 5 {
		t.Errorf("settled = %v, want 5", settled)
	}
}
