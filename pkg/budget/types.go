// Package budget defines the student budgeting domain: users, accounts,
// transactions, notes, savings goals and bills, plus the views derived from them.
package budget

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers, matching what the mobile client sends.
	decimal.MarshalJSONWithoutQuotes = true
}

// Currency is the settings currency. Only USD is supported.
type Currency string

const CurrencyUSD Currency = "USD"

// Settings holds per-user budget preferences.
type Settings struct {
	WeeklyBudget          decimal.Decimal `json:"weeklyBudget"`
	MonthlyBudget         decimal.Decimal `json:"monthlyBudget"`
	LockSavings           bool            `json:"lockSavings"`
	PreventSavingsForCard bool            `json:"preventSavingsForCard"`
	Currency              Currency        `json:"currency"`
}

// User is the signed-in student. HasLinked gates the dashboard until the
// link wizard has completed.
type User struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	HasLinked bool     `json:"hasLinked"`
	Settings  Settings `json:"settings"`
}

// DefaultSettings returns the settings every new demo user starts with.
func DefaultSettings() Settings {
	return Settings{
		WeeklyBudget:  decimal.NewFromInt(200),
		MonthlyBudget: decimal.NewFromInt(800),
		Currency:      CurrencyUSD,
	}
}

// Account represents a linked bank account or card.
// Balance is independent of the transaction list; nothing recomputes it.
type Account struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Type            AccountType      `json:"type"`
	Last4           string           `json:"last4,omitempty"`
	Balance         decimal.Decimal  `json:"balance"`
	CreditLimit     *decimal.Decimal `json:"creditLimit,omitempty"`
	AvailableCredit *decimal.Decimal `json:"availableCredit,omitempty"`
}

// Transaction is a single money movement. Amount is never negative; the
// direction is carried by Type.
type Transaction struct {
	ID                  string          `json:"id"`
	AccountID           string          `json:"accountId"`
	Type                TransactionType `json:"type"`
	Amount              decimal.Decimal `json:"amount"`
	Category            Category        `json:"category"`
	Description         string          `json:"description"`
	CreatedAt           time.Time       `json:"createdAt"`
	Notes               string          `json:"notes,omitempty"`
	TransferToAccountID string          `json:"transferToAccountId,omitempty"`
}

// Note is a free-form memo. Tags keep their insertion order.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	Pinned    bool      `json:"pinned,omitempty"`
}

// SavingsGoal tracks progress toward a target. CurrentAmount may exceed
// TargetAmount; see Overfunded.
type SavingsGoal struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
	Priority      Priority        `json:"priority"`
}

// Progress returns the funded percentage. It is not capped at 100.
func (g SavingsGoal) Progress() float64 {
	if !g.TargetAmount.IsPositive() {
		return 0
	}
	return g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

// Overfunded reports whether more has been allocated than the target.
func (g SavingsGoal) Overfunded() bool {
	return g.CurrentAmount.GreaterThan(g.TargetAmount)
}

// Remaining returns how much is still needed, floored at zero.
func (g SavingsGoal) Remaining() decimal.Decimal {
	rem := g.TargetAmount.Sub(g.CurrentAmount)
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}

// Bill is a reminder for an upcoming payment. DueDate is the first
// occurrence; NextDueDate is the rolling one.
type Bill struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	Category     Category        `json:"category"`
	DueDate      time.Time       `json:"dueDate"`
	Frequency    Frequency       `json:"frequency"`
	IsRecurring  bool            `json:"isRecurring"`
	ReminderDays int             `json:"reminderDays"`
	IsPaid       bool            `json:"isPaid"`
	NextDueDate  time.Time       `json:"nextDueDate"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// NewBill builds an unpaid bill. IsRecurring is fixed here from the
// frequency and is not re-derived if the frequency is patched later.
func NewBill(id, name string, amount decimal.Decimal, category Category, due time.Time, freq Frequency, reminderDays int, now time.Time) Bill {
	return Bill{
		ID:           id,
		Name:         name,
		Amount:       amount,
		Category:     category,
		DueDate:      due,
		Frequency:    freq,
		IsRecurring:  freq.Recurring(),
		ReminderDays: reminderDays,
		NextDueDate:  due,
		CreatedAt:    now,
	}
}

// Snapshot is the complete persisted client state.
type Snapshot struct {
	User            *User         `json:"user"`
	IsAuthenticated bool          `json:"isAuthenticated"`
	Accounts        []Account     `json:"accounts"`
	Transactions    []Transaction `json:"transactions"`
	Notes           []Note        `json:"notes"`
	SavingsGoals    []SavingsGoal `json:"savingsGoals"`
	Bills           []Bill        `json:"bills"`
}

// EmptySnapshot returns the initial state: no user, empty collections.
func EmptySnapshot() Snapshot {
	return Snapshot{
		Accounts:     []Account{},
		Transactions: []Transaction{},
		Notes:        []Note{},
		SavingsGoals: []SavingsGoal{},
		Bills:        []Bill{},
	}
}

// Clone returns a deep copy so callers can hold it without aliasing.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		IsAuthenticated: s.IsAuthenticated,
		Accounts:        append([]Account{}, s.Accounts...),
		Transactions:    append([]Transaction{}, s.Transactions...),
		Notes:           make([]Note, len(s.Notes)),
		SavingsGoals:    append([]SavingsGoal{}, s.SavingsGoals...),
		Bills:           append([]Bill{}, s.Bills...),
	}
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	for i, n := range s.Notes {
		n.Tags = append([]string{}, n.Tags...)
		out.Notes[i] = n
	}
	return out
}

// Normalize replaces nil collections with empty ones, e.g. after decoding
// an older snapshot.
func (s *Snapshot) Normalize() {
	if s.Accounts == nil {
		s.Accounts = []Account{}
	}
	if s.Transactions == nil {
		s.Transactions = []Transaction{}
	}
	if s.Notes == nil {
		s.Notes = []Note{}
	}
	if s.SavingsGoals == nil {
		s.SavingsGoals = []SavingsGoal{}
	}
	if s.Bills == nil {
		s.Bills = []Bill{}
	}
}
