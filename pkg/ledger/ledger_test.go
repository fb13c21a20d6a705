package ledger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pigeonworks-llc/campus-budget/pkg/budget"
	"github.com/pigeonworks-llc/campus-budget/pkg/pathutil"
	"github.com/shopspring/decimal"
)

var testAccounts = []budget.Account{
	{ID: "acc1", Name: "Student Checking", Type: budget.AccountChecking},
	{ID: "acc2", Name: "Rainy-day savings", Type: budget.AccountSavings},
	{ID: "acc3", Name: "Campus Card", Type: budget.AccountCredit},
}

func newTestConverter(t *testing.T) *Converter {
	t.Helper()
	m, err := NewMapper("")
	if err != nil {
		t.Fatalf("NewMapper() error: %v", err)
	}
	return NewConverter(m, testAccounts)
}

func at(day int) time.Time {
	return time.Date(2024, 3, day, 12, 0, 0, 0, time.Local)
}

func TestConvert(t *testing.T) {
	conv := newTestConverter(t)
	amount := decimal.RequireFromString("12.50")

	tests := []struct {
		name     string
		txn      budget.Transaction
		accounts [2]string
	}{
		{
			name:     "debit",
			txn:      budget.Transaction{ID: "t1", AccountID: "acc1", Type: budget.TxnDebit, Amount: amount, Category: budget.CategoryDining, CreatedAt: at(5)},
			accounts: [2]string{"Expenses:Food:Dining", "Assets:Bank:Checking:StudentChecking"},
		},
		{
			name:     "card debit",
			txn:      budget.Transaction{ID: "t2", AccountID: "acc3", Type: budget.TxnDebit, Amount: amount, Category: budget.CategorySchoolBooks, CreatedAt: at(5)},
			accounts: [2]string{"Expenses:School:Books", "Liabilities:CreditCard:CampusCard"},
		},
		{
			name:     "credit",
			txn:      budget.Transaction{ID: "t3", AccountID: "acc1", Type: budget.TxnCredit, Amount: amount, CreatedAt: at(5)},
			accounts: [2]string{"Assets:Bank:Checking:StudentChecking", "Income:Deposits"},
		},
		{
			name:     "transfer",
			txn:      budget.Transaction{ID: "t4", AccountID: "acc1", Type: budget.TxnTransfer, Amount: amount, TransferToAccountID: "acc2", CreatedAt: at(5)},
			accounts: [2]string{"Assets:Bank:Savings:RainyDaySavings", "Assets:Bank:Checking:StudentChecking"},
		},
		{
			name:     "unknown account",
			txn:      budget.Transaction{ID: "t5", AccountID: "gone", Type: budget.TxnDebit, Amount: amount, Category: budget.CategoryOther, CreatedAt: at(5)},
			accounts: [2]string{"Expenses:Other", "Assets:Unknown:Gone"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := conv.Convert(tt.txn)
			if len(e.Postings) != 2 {
				t.Fatalf("expected 2 postings, got %d", len(e.Postings))
			}
			sum := e.Postings[0].Amount.Add(e.Postings[1].Amount)
			if !sum.IsZero() {
				t.Errorf("postings do not balance: %s", sum)
			}
			if !e.Postings[0].Amount.Equal(amount) {
				t.Errorf("first posting = %s, expected %s", e.Postings[0].Amount, amount)
			}
			for i, want := range tt.accounts {
				if e.Postings[i].Account != want {
					t.Errorf("posting %d account = %s, expected %s", i, e.Postings[i].Account, want)
				}
			}
			if e.Date != "2024-03-05" || e.Metadata["id"] != tt.txn.ID {
				t.Errorf("unexpected header: %+v", e)
			}
		})
	}
}

func TestFormatEntry(t *testing.T) {
	conv := newTestConverter(t)
	e := conv.Convert(budget.Transaction{
		ID:          "t1",
		AccountID:   "acc1",
		Type:        budget.TxnDebit,
		Amount:      decimal.NewFromInt(9),
		Category:    budget.CategoryDining,
		Description: `Joe's "Famous" Subs`,
		Notes:       "with Alex",
		CreatedAt:   at(5),
	})

	got := FormatEntry(e)
	for _, want := range []string{
		`2024-03-05 * "Joe's \"Famous\" Subs" #debit` + "\n",
		`  id: "t1"` + "\n",
		`  note: "with Alex"` + "\n",
		"9.00 USD ; Dining\n",
		"-9.00 USD\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatEntry() missing %q in:\n%s", want, got)
		}
	}
	if strings.Index(got, "  id:") > strings.Index(got, "  note:") {
		t.Error("metadata not sorted by key")
	}
}

func TestMapperOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.yaml")
	content := "income: Income:Job\ncategories:\n  Dining: Expenses:EatingOut\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	m, err := NewMapper(path)
	if err != nil {
		t.Fatalf("NewMapper() error: %v", err)
	}
	if got := m.ExpenseAccount(budget.CategoryDining); got != "Expenses:EatingOut" {
		t.Errorf("ExpenseAccount(Dining) = %s", got)
	}
	if got := m.ExpenseAccount(budget.CategoryRent); got != "Expenses:Housing:Rent" {
		t.Errorf("defaults lost after override: ExpenseAccount(Rent) = %s", got)
	}
	if m.IncomeAccount() != "Income:Job" || m.Currency() != "USD" {
		t.Errorf("unexpected income/currency: %s %s", m.IncomeAccount(), m.Currency())
	}
	if got := m.ExpenseAccount("Shopping"); got != "Expenses:Unmapped:Shopping" {
		t.Errorf("ExpenseAccount(Shopping) = %s", got)
	}

	if _, err := NewMapper(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing mapping file")
	}
}

func TestSanitizeAccountName(t *testing.T) {
	tests := map[string]string{
		"Student Checking":  "StudentChecking",
		"School/Books":      "SchoolBooks",
		"rainy-day savings": "RainyDaySavings",
		"  ":                "Unknown",
		"Card 4242":         "Card4242",
	}
	for in, want := range tests {
		if got := sanitizeAccountName(in); got != want {
			t.Errorf("sanitizeAccountName(%q) = %q, expected %q", in, got, want)
		}
	}
}

func TestExport(t *testing.T) {
	paths := pathutil.New(pathutil.Config{DataRoot: t.TempDir()})
	repo := NewFileSystemRepository(paths)
	repo.now = func() time.Time { return time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC) }
	conv := newTestConverter(t)

	txns := []budget.Transaction{
		{ID: "late", AccountID: "acc1", Type: budget.TxnDebit, Amount: decimal.NewFromInt(3), Category: budget.CategoryDining, CreatedAt: at(20)},
		{ID: "feb", AccountID: "acc1", Type: budget.TxnDebit, Amount: decimal.NewFromInt(4), Category: budget.CategoryRent, CreatedAt: time.Date(2024, 2, 1, 12, 0, 0, 0, time.Local)},
		{ID: "early", AccountID: "acc1", Type: budget.TxnCredit, Amount: decimal.NewFromInt(5), CreatedAt: at(2)},
	}

	result, err := Export(repo, conv, txns)
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if result.Entries != 3 || strings.Join(result.Months, ",") != "2024-02,2024-03" {
		t.Errorf("unexpected result: %+v", result)
	}

	march, err := repo.ReadMonth("2024-03")
	if err != nil {
		t.Fatalf("ReadMonth() error: %v", err)
	}
	if !strings.HasPrefix(march, "; campus-budget ledger for 2024-03\n; Generated at 2024-04-01T00:00:00Z\n") {
		t.Errorf("unexpected header:\n%s", march)
	}
	if strings.Index(march, `id: "early"`) > strings.Index(march, `id: "late"`) {
		t.Error("entries not in date order")
	}

	// A second export replaces rather than appends.
	if _, err := Export(repo, conv, txns[:1]); err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	march, _ = repo.ReadMonth("2024-03")
	if strings.Contains(march, `id: "early"`) {
		t.Error("re-export appended to the old file")
	}

	months, err := repo.MonthsInYear("2024")
	if err != nil {
		t.Fatalf("MonthsInYear() error: %v", err)
	}
	if strings.Join(months, ",") != "2024-02,2024-03" {
		t.Errorf("MonthsInYear() = %v", months)
	}

	if got, err := repo.ReadMonth("2023-01"); err != nil || got != "" {
		t.Errorf("ReadMonth(missing) = %q, %v", got, err)
	}
	if empty, err := repo.MonthsInYear("1999"); err != nil || len(empty) != 0 {
		t.Errorf("MonthsInYear(1999) = %v, %v", empty, err)
	}
}
