package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pigeonworks-llc/campus-budget/pkg/budget"
	"github.com/shopspring/decimal"
)

func openTestDB(t *testing.T) *Connection {
	t.Helper()
	conn, err := Open(filepath.Join(t.TempDir(), "nested", "budget.sqlite"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestSnapshotRepositoryRoundTrip(t *testing.T) {
	repo := NewSnapshotRepository(openTestDB(t))
	ctx := context.Background()

	snap, err := repo.Load(ctx)
	if err != nil || snap != nil {
		t.Fatalf("Load() on empty database = %v, %v", snap, err)
	}

	in := budget.EmptySnapshot()
	in.IsAuthenticated = true
	in.User = &budget.User{ID: "1", Name: "sam", Settings: budget.DefaultSettings()}
	in.Bills = append(in.Bills, budget.NewBill("b1", "Rent", decimal.NewFromInt(500), budget.CategoryRent,
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), budget.FrequencyMonthly, 3, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	if err := repo.Save(ctx, &in); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	in.User.Name = "sam2"
	if err := repo.Save(ctx, &in); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	out, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if out.User.Name != "sam2" || len(out.Bills) != 1 || !out.Bills[0].IsRecurring {
		t.Errorf("unexpected snapshot: %+v", out)
	}
	if !out.User.Settings.MonthlyBudget.Equal(decimal.NewFromInt(800)) {
		t.Errorf("monthly budget = %s", out.User.Settings.MonthlyBudget)
	}

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error: %v", err)
	}
	if stats.Backend != "sqlite" || stats.SaveCount != 2 || stats.LastSavedAt == nil || stats.SizeBytes == 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestSnapshotRepositoryHistory(t *testing.T) {
	repo := NewSnapshotRepository(openTestDB(t))
	ctx := context.Background()

	snap := budget.EmptySnapshot()
	for i := 0; i < 5; i++ {
		snap.Transactions = append(snap.Transactions, budget.Transaction{ID: string(rune('a' + i))})
		if err := repo.Save(ctx, &snap); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
	}

	history, err := repo.History(ctx, 3)
	if err != nil {
		t.Fatalf("History() error: %v", err)
	}
	if len(history) != 3 || history[0].TransactionCount != 5 {
		t.Errorf("unexpected history: %+v", history)
	}

	removed, err := repo.PruneHistory(ctx, 2)
	if err != nil {
		t.Fatalf("PruneHistory() error: %v", err)
	}
	if removed != 3 {
		t.Errorf("PruneHistory() removed %d rows, expected 3", removed)
	}
	stats, _ := repo.Stats(ctx)
	if stats.SaveCount != 2 {
		t.Errorf("SaveCount after prune = %d, expected 2", stats.SaveCount)
	}
}
