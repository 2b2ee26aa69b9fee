package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/anragu/poolpal/internal/models"
)

func TestAddExpenseCreatesThenAppends(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedFriends(t, "a1", "b2")

	pool, err := env.pools.AddExpense(ctx, "a1", "b2", 12.5, "Taxi fare")
	if err != nil {
		t.Fatalf("first AddExpense failed: %v", err)
	}
	if pool.ID != "a1_b2" {
		t.Errorf("pool id: expected a1_b2, got %s", pool.ID)
	}
	if len(pool.Expenses) != 1 {
		t.Fatalf("expected exactly one expense, got %d", len(pool.Expenses))
	}
	if pool.Expenses[0].AddedBy != "a1" || pool.Expenses[0].AddedByName != "user a1" {
		t.Errorf("attribution wrong: %+v", pool.Expenses[0])
	}

	// Second expense, added by the other member, appends.
	pool, err = env.pools.AddExpense(ctx, "b2", "a1", 3, "")
	if err != nil {
		t.Fatalf("second AddExpense failed: %v", err)
	}
	if len(pool.Expenses) != 2 {
		t.Fatalf("expected two expenses, got %d", len(pool.Expenses))
	}
}

func TestAddExpenseDefaultsReason(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedFriends(t, "a", "b")

	pool, err := env.pools.AddExpense(ctx, "a", "b", 5, "")
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	if pool.Expenses[0].Reason != models.DefaultExpenseReason {
		t.Errorf("reason: expected %q, got %q", models.DefaultExpenseReason, pool.Expenses[0].Reason)
	}
}

func TestAddExpenseValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedFriends(t, "a", "b")
	env.seedUser(t, "c", "c@example.com")

	if _, err := env.pools.AddExpense(ctx, "a", "b", 0, "x"); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero amount: got %v, want ErrInvalidAmount", err)
	}
	if _, err := env.pools.AddExpense(ctx, "a", "b", -1, "x"); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative amount: got %v, want ErrInvalidAmount", err)
	}
	if _, err := env.pools.AddExpense(ctx, "a", "c", 5, "x"); !errors.Is(err, ErrNotFriends) {
		t.Errorf("not friends: got %v, want ErrNotFriends", err)
	}
}

func TestToggleExpenseDoneDouble(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedFriends(t, "a", "b")

	pool, err := env.pools.AddExpense(ctx, "a", "b", 10, "Snacks")
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	expenseID := pool.Expenses[0].ID

	pool, err = env.pools.ToggleExpenseDone(ctx, "b", pool.ID, expenseID)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !pool.Expenses[0].Done {
		t.Error("expense should be done after first toggle")
	}

	pool, err = env.pools.ToggleExpenseDone(ctx, "a", pool.ID, expenseID)
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if pool.Expenses[0].Done {
		t.Error("double toggle must restore original value")
	}
}

func TestAddExpenseConcurrentFirstExpense(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedFriends(t, "a", "b")

	// Both members add the pool's first expense at the same time; the
	// create must be idempotent and neither expense may be lost.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = env.pools.AddExpense(ctx, "a", "b", 1, "one")
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = env.pools.AddExpense(ctx, "b", "a", 2, "two")
	}()
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("concurrent first add %d failed: %v", i, err)
		}
	}

	pool, err := env.store.GetPool(ctx, "a_b")
	if err != nil {
		t.Fatal(err)
	}
	if pool == nil {
		t.Fatal("pool should exist after first expenses")
	}
	if len(pool.Expenses) != 2 {
		t.Fatalf("pool has %d expenses, want 2", len(pool.Expenses))
	}
	if len(pool.Users) != 2 {
		t.Errorf("pool seeded with %d members, want 2", len(pool.Users))
	}
}

func TestToggleExpenseDoneConcurrentDistinctEntries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedFriends(t, "a", "b")

	p1, err := env.pools.AddExpense(ctx, "a", "b", 1, "one")
	if err != nil {
		t.Fatal(err)
	}
	p2, err := env.pools.AddExpense(ctx, "b", "a", 2, "two")
	if err != nil {
		t.Fatal(err)
	}
	poolID := p2.ID
	id1 := p1.Expenses[0].ID
	var id2 string
	for _, e := range p2.Expenses {
		if e.ID != id1 {
			id2 = e.ID
		}
	}

	// Both members toggle different expenses at the same time; neither
	// change may be lost.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = env.pools.ToggleExpenseDone(ctx, "a", poolID, id1)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = env.pools.ToggleExpenseDone(ctx, "b", poolID, id2)
	}()
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("concurrent toggle %d failed: %v", i, err)
		}
	}

	final, err := env.store.GetPool(ctx, poolID)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range final.Expenses {
		if !e.Done {
			t.Errorf("expense %s lost its toggle", e.ID)
		}
	}
}

func TestToggleAuthorization(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedFriends(t, "a", "b")
	env.seedUser(t, "outsider", "o@example.com")

	pool, err := env.pools.AddExpense(ctx, "a", "b", 10, "x")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := env.pools.ToggleExpenseDone(ctx, "outsider", pool.ID, pool.Expenses[0].ID); !errors.Is(err, ErrNotMember) {
		t.Errorf("outsider toggle: got %v, want ErrNotMember", err)
	}
	if _, err := env.pools.ToggleExpenseDone(ctx, "a", "nope_pool", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown pool: got %v, want ErrNotFound", err)
	}
}

func TestLedgerProjection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedFriends(t, "a", "b")

	// Empty before any expense exists.
	poolID, expenses, err := env.pools.Ledger(ctx, "a", "b")
	if err != nil {
		t.Fatalf("Ledger failed: %v", err)
	}
	if poolID != "a_b" || len(expenses) != 0 {
		t.Errorf("expected empty ledger for a_b, got %s with %d entries", poolID, len(expenses))
	}

	// Seed with distinct timestamps to check newest-first order.
	for i, e := range []models.Expense{
		{ID: "e1", Amount: 1, Reason: "r", CreatedAt: 100, AddedBy: "a", AddedByName: "A"},
		{ID: "e2", Amount: 2, Reason: "r", CreatedAt: 300, AddedBy: "a", AddedByName: "A"},
		{ID: "e3", Amount: 3, Reason: "r", CreatedAt: 200, AddedBy: "b", AddedByName: "B"},
	} {
		e := e
		if err := env.store.AddExpense(ctx, "a_b", []string{"a", "b"}, &e); err != nil {
			t.Fatalf("seed expense %d failed: %v", i, err)
		}
	}

	_, expenses, err = env.pools.Ledger(ctx, "b", "a")
	if err != nil {
		t.Fatalf("Ledger failed: %v", err)
	}
	want := []string{"e2", "e3", "e1"}
	for i, id := range want {
		if expenses[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, expenses[i].ID, id)
		}
	}
}
