// Package state holds the client-side budget state and writes every change
// through to a Persister.
package state

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pigeonworks-llc/campus-budget/pkg/budget"
)

// StorageName is the key the snapshot is persisted under.
const StorageName = "campus-budget-storage"

// PersistStats describes the persisted snapshot.
type PersistStats struct {
	Backend     string
	Location    string
	SaveCount   int64
	LastSavedAt *time.Time
	SizeBytes   int64
}

// Persister loads and saves the whole snapshot. Load returns nil, nil when
// nothing has been saved yet.
type Persister interface {
	Load(ctx context.Context) (*budget.Snapshot, error)
	Save(ctx context.Context, snap *budget.Snapshot) error
	Stats(ctx context.Context) (PersistStats, error)
}

// Store is the single source of truth for the client. Mutations never
// return errors: unknown ids are ignored and persistence failures are logged
// and kept for Err.
type Store struct {
	mu        sync.Mutex
	snap      budget.Snapshot
	persister Persister
	logger    *slog.Logger
	lastErr   error
}

// New creates a Store in the initial state. Call Open to rehydrate.
func New(p Persister, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		snap:      budget.EmptySnapshot(),
		persister: p,
		logger:    logger,
	}
}

// Open loads the persisted snapshot, if any.
func (s *Store) Open(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	snap, err := s.persister.Load(ctx)
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}
	snap.Normalize()

	s.mu.Lock()
	s.snap = *snap
	s.mu.Unlock()

	s.logger.Debug("state rehydrated",
		"authenticated", snap.IsAuthenticated,
		"transactions", len(snap.Transactions),
		"bills", len(snap.Bills))
	return nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() budget.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// Err returns the most recent persistence error, or nil.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Stats reports on the persisted snapshot.
func (s *Store) Stats(ctx context.Context) (PersistStats, error) {
	if s.persister == nil {
		return PersistStats{Backend: "memory"}, nil
	}
	return s.persister.Stats(ctx)
}

// update applies fn under the lock and persists the result.
func (s *Store) update(op string, fn func(*budget.Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.snap)

	if s.persister == nil {
		return
	}
	snap := s.snap.Clone()
	if err := s.persister.Save(context.Background(), &snap); err != nil {
		s.lastErr = err
		s.logger.Error("failed to persist state", "op", op, "error", err)
		return
	}
	s.lastErr = nil
}

// Login stores the user and marks the session authenticated.
func (s *Store) Login(u budget.User) {
	s.update("login", func(snap *budget.Snapshot) {
		snap.User = &u
		snap.IsAuthenticated = true
	})
}

// Logout clears everything back to the initial state.
func (s *Store) Logout() {
	s.update("logout", func(snap *budget.Snapshot) {
		*snap = budget.EmptySnapshot()
	})
}

// SetUser replaces the user without touching the auth flag.
func (s *Store) SetUser(u budget.User) {
	s.update("set_user", func(snap *budget.Snapshot) {
		snap.User = &u
	})
}

// SetAccounts replaces the account list.
func (s *Store) SetAccounts(accounts []budget.Account) {
	accounts = append([]budget.Account{}, accounts...)
	s.update("set_accounts", func(snap *budget.Snapshot) {
		snap.Accounts = accounts
	})
}

// UpdateAccount merges patch into the account with the given id.
func (s *Store) UpdateAccount(id string, patch budget.AccountPatch) {
	s.update("update_account", func(snap *budget.Snapshot) {
		for i := range snap.Accounts {
			if snap.Accounts[i].ID == id {
				snap.Accounts[i] = patch.Apply(snap.Accounts[i])
				return
			}
		}
	})
}

// SetTransactions replaces the transaction list.
func (s *Store) SetTransactions(txns []budget.Transaction) {
	txns = append([]budget.Transaction{}, txns...)
	s.update("set_transactions", func(snap *budget.Snapshot) {
		snap.Transactions = txns
	})
}

// AddTransaction puts t at the front of the list. The list is not re-sorted.
func (s *Store) AddTransaction(t budget.Transaction) {
	s.update("add_transaction", func(snap *budget.Snapshot) {
		snap.Transactions = prepend(snap.Transactions, t)
	})
}

// UpdateTransaction merges patch into the transaction with the given id.
func (s *Store) UpdateTransaction(id string, patch budget.TransactionPatch) {
	s.update("update_transaction", func(snap *budget.Snapshot) {
		for i := range snap.Transactions {
			if snap.Transactions[i].ID == id {
				snap.Transactions[i] = patch.Apply(snap.Transactions[i])
				return
			}
		}
	})
}

// DeleteTransaction removes the transaction with the given id.
func (s *Store) DeleteTransaction(id string) {
	s.update("delete_transaction", func(snap *budget.Snapshot) {
		snap.Transactions = without(snap.Transactions, func(t budget.Transaction) bool { return t.ID == id })
	})
}

// SetNotes replaces the note list.
func (s *Store) SetNotes(notes []budget.Note) {
	notes = append([]budget.Note{}, notes...)
	for i := range notes {
		notes[i].Tags = append([]string{}, notes[i].Tags...)
	}
	s.update("set_notes", func(snap *budget.Snapshot) {
		snap.Notes = notes
	})
}

// AddNote puts n at the front of the list.
func (s *Store) AddNote(n budget.Note) {
	n.Tags = append([]string{}, n.Tags...)
	s.update("add_note", func(snap *budget.Snapshot) {
		snap.Notes = prepend(snap.Notes, n)
	})
}

// UpdateNote merges patch into the note with that id, if any.
func (s *Store) UpdateNote(id string, patch budget.NotePatch) {
	s.update("update_note", func(snap *budget.Snapshot) {
		for i := range snap.Notes {
			if snap.Notes[i].ID == id {
				snap.Notes[i] = patch.Apply(snap.Notes[i])
				return
			}
		}
	})
}

// DeleteNote removes the note with that id.
func (s *Store) DeleteNote(id string) {
	s.update("delete_note", func(snap *budget.Snapshot) {
		snap.Notes = without(snap.Notes, func(n budget.Note) bool { return n.ID == id })
	})
}

// SetSavingsGoals replaces the savings goal list.
func (s *Store) SetSavingsGoals(goals []budget.SavingsGoal) {
	goals = append([]budget.SavingsGoal{}, goals...)
	s.update("set_savings_goals", func(snap *budget.Snapshot) {
		snap.SavingsGoals = goals
	})
}

// AddSavingsGoal puts g at the front of the list.
func (s *Store) AddSavingsGoal(g budget.SavingsGoal) {
	s.update("add_savings_goal", func(snap *budget.Snapshot) {
		snap.SavingsGoals = prepend(snap.SavingsGoals, g)
	})
}

// UpdateSavingsGoal merges patch into the goal with that id, if any.
func (s *Store) UpdateSavingsGoal(id string, patch budget.SavingsGoalPatch) {
	s.update("update_savings_goal", func(snap *budget.Snapshot) {
		for i := range snap.SavingsGoals {
			if snap.SavingsGoals[i].ID == id {
				snap.SavingsGoals[i] = patch.Apply(snap.SavingsGoals[i])
				return
			}
		}
	})
}

// DeleteSavingsGoal removes the goal with that id.
func (s *Store) DeleteSavingsGoal(id string) {
	s.update("delete_savings_goal", func(snap *budget.Snapshot) {
		snap.SavingsGoals = without(snap.SavingsGoals, func(g budget.SavingsGoal) bool { return g.ID == id })
	})
}

// SetBills replaces the bill list.
func (s *Store) SetBills(bills []budget.Bill) {
	bills = append([]budget.Bill{}, bills...)
	s.update("set_bills", func(snap *budget.Snapshot) {
		snap.Bills = bills
	})
}

// AddBill puts b at the front of the list, like every other Add.
func (s *Store) AddBill(b budget.Bill) {
	s.update("add_bill", func(snap *budget.Snapshot) {
		snap.Bills = prepend(snap.Bills, b)
	})
}

// UpdateBill merges patch into the bill with that id, if any.
func (s *Store) UpdateBill(id string, patch budget.BillPatch) {
	s.update("update_bill", func(snap *budget.Snapshot) {
		for i := range snap.Bills {
			if snap.Bills[i].ID == id {
				snap.Bills[i] = patch.Apply(snap.Bills[i])
				return
			}
		}
	})
}

// DeleteBill removes the bill with that id.
func (s *Store) DeleteBill(id string) {
	s.update("delete_bill", func(snap *budget.Snapshot) {
		snap.Bills = without(snap.Bills, func(b budget.Bill) bool { return b.ID == id })
	})
}

// MarkBillAsPaid only flips IsPaid. Use PayBill to also roll a recurring
// bill forward.
func (s *Store) MarkBillAsPaid(id string) {
	s.update("mark_bill_paid", func(snap *budget.Snapshot) {
		for i := range snap.Bills {
			if snap.Bills[i].ID == id {
				snap.Bills[i].IsPaid = true
				return
			}
		}
	})
}

// PayBill applies budget.MarkPaid to the bill in one step: the bill is
// marked paid and, if recurring, comes back unpaid at its next due date.
// It reports whether the bill was found.
func (s *Store) PayBill(id string) bool {
	found := false
	s.update("pay_bill", func(snap *budget.Snapshot) {
		for i := range snap.Bills {
			if snap.Bills[i].ID != id {
				continue
			}
			found = true
			paid, next := budget.MarkPaid(snap.Bills[i])
			if next != nil {
				snap.Bills[i] = *next
			} else {
				snap.Bills[i] = paid
			}
			return
		}
	})
	return found
}

// ResetData clears the financial collections and keeps the user and
// auth flag.
func (s *Store) ResetData() {
	s.update("reset_data", func(snap *budget.Snapshot) {
		fresh := budget.EmptySnapshot()
		fresh.User = snap.User
		fresh.IsAuthenticated = snap.IsAuthenticated
		*snap = fresh
	})
}

func prepend[T any](list []T, v T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, v)
	return append(out, list...)
}

func without[T any](list []T, drop func(T) bool) []T {
	out := make([]T, 0, len(list))
	for _, v := range list {
		if !drop(v) {
			out = append(out, v)
		}
	}
	return out
}
