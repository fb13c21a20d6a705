package state

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/pigeonworks-llc/campus-budget/pkg/budget"
	"github.com/shopspring/decimal"
)

// memPersister keeps the last saved snapshot in memory.
type memPersister struct {
	saved   *budget.Snapshot
	saves   int
	failErr error
}

func (m *memPersister) Load(ctx context.Context) (*budget.Snapshot, error) {
	if m.saved == nil {
		return nil, nil
	}
	c := m.saved.Clone()
	return &c, nil
}

func (m *memPersister) Save(ctx context.Context, snap *budget.Snapshot) error {
	if m.failErr != nil {
		return m.failErr
	}
	c := snap.Clone()
	m.saved = &c
	m.saves++
	return nil
}

func (m *memPersister) Stats(ctx context.Context) (PersistStats, error) {
	return PersistStats{Backend: "mem", SaveCount: int64(m.saves)}, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) (*Store, *memPersister) {
	t.Helper()
	p := &memPersister{}
	s := New(p, quietLogger())
	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	return s, p
}

func testUser() budget.User {
	return budget.User{ID: "1", Name: "sam", Email: "sam@bravemail.uncp.edu", Settings: budget.DefaultSettings()}
}

func TestLoginLogoutRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	s.Login(testUser())
	s.AddTransaction(budget.Transaction{ID: "t1", Amount: decimal.NewFromInt(5)})
	s.AddNote(budget.Note{ID: "n1"})
	s.AddBill(budget.Bill{ID: "b1"})

	snap := s.Snapshot()
	if !snap.IsAuthenticated || snap.User == nil || snap.User.Name != "sam" {
		t.Fatalf("unexpected state after login: %+v", snap)
	}

	s.Logout()
	snap = s.Snapshot()
	if snap.IsAuthenticated || snap.User != nil {
		t.Errorf("logout left user behind: %+v", snap.User)
	}
	if len(snap.Accounts)+len(snap.Transactions)+len(snap.Notes)+len(snap.SavingsGoals)+len(snap.Bills) != 0 {
		t.Errorf("logout left collections behind: %+v", snap)
	}
	if snap.Transactions == nil || snap.Bills == nil {
		t.Error("collections should be empty, not nil")
	}
}

func TestAddPrependsWithoutAliasing(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddTransaction(budget.Transaction{ID: "t1"})
	before := s.Snapshot()

	s.AddTransaction(budget.Transaction{ID: "t2"})
	s.AddBill(budget.Bill{ID: "b1"})
	s.AddBill(budget.Bill{ID: "b2"})

	if len(before.Transactions) != 1 || before.Transactions[0].ID != "t1" {
		t.Errorf("earlier snapshot was mutated: %+v", before.Transactions)
	}

	after := s.Snapshot()
	if after.Transactions[0].ID != "t2" || after.Transactions[1].ID != "t1" {
		t.Errorf("transactions not prepended: %+v", after.Transactions)
	}
	if after.Bills[0].ID != "b2" {
		t.Errorf("bills not prepended: %+v", after.Bills)
	}
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	s, p := newTestStore(t)
	s.AddSavingsGoal(budget.SavingsGoal{ID: "g1", Name: "Laptop"})
	name := "Other"

	s.UpdateSavingsGoal("missing", budget.SavingsGoalPatch{Name: &name})
	s.DeleteNote("missing")
	s.MarkBillAsPaid("missing")
	if s.PayBill("missing") {
		t.Error("PayBill(missing) reported found")
	}

	snap := s.Snapshot()
	if len(snap.SavingsGoals) != 1 || snap.SavingsGoals[0].Name != "Laptop" {
		t.Errorf("unexpected goals: %+v", snap.SavingsGoals)
	}
	if s.Err() != nil {
		t.Errorf("Err() = %v", s.Err())
	}
	if p.saves != 5 {
		t.Errorf("saves = %d, expected every call to persist", p.saves)
	}
}

func TestSetReplacesWithoutAliasing(t *testing.T) {
	s, _ := newTestStore(t)
	notes := []budget.Note{{ID: "n1", Tags: []string{"a"}}}
	goals := []budget.SavingsGoal{{ID: "g1"}, {ID: "g2"}}

	s.SetNotes(notes)
	s.SetSavingsGoals(goals)
	s.SetBills([]budget.Bill{{ID: "b1"}})

	notes[0].Tags[0] = "mutated"
	goals[0].ID = "mutated"

	snap := s.Snapshot()
	if snap.Notes[0].Tags[0] != "a" || snap.SavingsGoals[0].ID != "g1" {
		t.Errorf("caller slices alias store state: %+v %+v", snap.Notes, snap.SavingsGoals)
	}
	if len(snap.SavingsGoals) != 2 || len(snap.Bills) != 1 {
		t.Errorf("unexpected lengths: %+v", snap)
	}
}

func TestUpdateMergesPatch(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddTransaction(budget.Transaction{ID: "t1", Description: "Subway", Category: budget.CategoryDining, Amount: decimal.NewFromInt(9)})

	amount := decimal.RequireFromString("12.25")
	s.UpdateTransaction("t1", budget.TransactionPatch{Amount: &amount})

	got := s.Snapshot().Transactions[0]
	if !got.Amount.Equal(amount) || got.Description != "Subway" || got.Category != budget.CategoryDining {
		t.Errorf("patch merge lost fields: %+v", got)
	}
}

func TestUpdateAccountLeavesTransactionsAlone(t *testing.T) {
	s, _ := newTestStore(t)
	s.SetAccounts([]budget.Account{{ID: "acc1", Name: "Checking", Balance: decimal.NewFromInt(100)}})
	s.AddTransaction(budget.Transaction{ID: "t1", AccountID: "acc1", Type: budget.TxnDebit, Amount: decimal.NewFromInt(30)})

	balance := decimal.NewFromInt(70)
	s.UpdateAccount("acc1", budget.AccountPatch{Balance: &balance})

	snap := s.Snapshot()
	if got := snap.Accounts[0]; !got.Balance.Equal(balance) || got.Name != "Checking" {
		t.Errorf("UpdateAccount() = %+v", got)
	}
	if len(snap.Transactions) != 1 {
		t.Errorf("transactions changed: %+v", snap.Transactions)
	}
}

func TestResetDataKeepsUser(t *testing.T) {
	s, _ := newTestStore(t)
	s.Login(testUser())
	s.SetAccounts([]budget.Account{{ID: "acc1"}})
	s.AddSavingsGoal(budget.SavingsGoal{ID: "g1"})

	s.ResetData()

	snap := s.Snapshot()
	if !snap.IsAuthenticated || snap.User == nil {
		t.Error("ResetData() dropped the user")
	}
	if len(snap.Accounts) != 0 || len(snap.SavingsGoals) != 0 {
		t.Errorf("ResetData() kept collections: %+v", snap)
	}
}

func TestBillPayment(t *testing.T) {
	s, _ := newTestStore(t)
	due := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.AddBill(budget.NewBill("rent", "Rent", decimal.NewFromInt(500), budget.CategoryRent, due, budget.FrequencyMonthly, 3, now))
	s.AddBill(budget.NewBill("lab", "Lab fee", decimal.NewFromInt(40), budget.CategorySchoolBooks, due, budget.FrequencyOneTime, 3, now))

	s.MarkBillAsPaid("rent")
	rent := findBill(t, s, "rent")
	if !rent.IsPaid || !rent.NextDueDate.Equal(due) {
		t.Errorf("MarkBillAsPaid should only flip IsPaid: %+v", rent)
	}

	s.UpdateBill("rent", budget.BillPatch{IsPaid: boolPtr(false)})
	if !s.PayBill("rent") {
		t.Fatal("PayBill(rent) not found")
	}
	rent = findBill(t, s, "rent")
	if rent.IsPaid || !rent.NextDueDate.Equal(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("recurring bill not rolled forward: %+v", rent)
	}

	s.PayBill("lab")
	lab := findBill(t, s, "lab")
	if !lab.IsPaid || !lab.NextDueDate.Equal(due) {
		t.Errorf("one-time bill should stay paid on its date: %+v", lab)
	}
}

func TestPersistenceFailureIsRetained(t *testing.T) {
	p := &memPersister{failErr: errors.New("disk full")}
	s := New(p, quietLogger())

	s.AddNote(budget.Note{ID: "n1", Title: "kept"})

	if s.Err() == nil {
		t.Fatal("expected Err() after failed save")
	}
	if got := s.Snapshot().Notes; len(got) != 1 {
		t.Errorf("in-memory state rolled back: %+v", got)
	}

	p.failErr = nil
	s.DeleteNote("n1")
	if s.Err() != nil {
		t.Errorf("Err() not cleared after a good save: %v", s.Err())
	}
}

func TestOpenRehydrates(t *testing.T) {
	p := &memPersister{}
	first := New(p, quietLogger())
	first.Login(testUser())
	first.AddTransaction(budget.Transaction{ID: "t1"})

	second := New(p, quietLogger())
	if err := second.Open(context.Background()); err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	snap := second.Snapshot()
	if !snap.IsAuthenticated || len(snap.Transactions) != 1 {
		t.Errorf("state not rehydrated: %+v", snap)
	}
}

func findBill(t *testing.T, s *Store, id string) budget.Bill {
	t.Helper()
	for _, b := range s.Snapshot().Bills {
		if b.ID == id {
			return b
		}
	}
	t.Fatalf("bill %s not found", id)
	return budget.Bill{}
}

func boolPtr(b bool) *bool { return &b }
