package budget

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionPatch is a partial update; nil fields are left untouched.
type TransactionPatch struct {
	AccountID           *string          `json:"accountId,omitempty"`
	Type                *TransactionType `json:"type,omitempty"`
	Amount              *decimal.Decimal `json:"amount,omitempty"`
	Category            *Category        `json:"category,omitempty"`
	Description         *string          `json:"description,omitempty"`
	CreatedAt           *time.Time       `json:"createdAt,omitempty"`
	Notes               *string          `json:"notes,omitempty"`
	TransferToAccountID *string          `json:"transferToAccountId,omitempty"`
}

// Apply returns t with the patch merged in.
func (p TransactionPatch) Apply(t Transaction) Transaction {
	if p.AccountID != nil {
		t.AccountID = *p.AccountID
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.CreatedAt != nil {
		t.CreatedAt = *p.CreatedAt
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.TransferToAccountID != nil {
		t.TransferToAccountID = *p.TransferToAccountID
	}
	return t
}

// Check rejects a negative amount.
func (p TransactionPatch) Check() error {
	if p.Amount != nil && p.Amount.IsNegative() {
		return errors.New("amount must not be negative")
	}
	return nil
}

// NotePatch is a partial update of a Note.
type NotePatch struct {
	Title   *string  `json:"title,omitempty"`
	Content *string  `json:"content,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Pinned  *bool    `json:"pinned,omitempty"`
}

// Apply returns n with the patch merged in. Tags replace the old list.
func (p NotePatch) Apply(n Note) Note {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Tags != nil {
		n.Tags = append([]string{}, p.Tags...)
	}
	if p.Pinned != nil {
		n.Pinned = *p.Pinned
	}
	return n
}

// SavingsGoalPatch is a partial update of a SavingsGoal. CurrentAmount is
// accepted as-is, even above the target.
type SavingsGoalPatch struct {
	Name          *string          `json:"name,omitempty"`
	TargetAmount  *decimal.Decimal `json:"targetAmount,omitempty"`
	CurrentAmount *decimal.Decimal `json:"currentAmount,omitempty"`
	Deadline      *time.Time       `json:"deadline,omitempty"`
	Priority      *Priority        `json:"priority,omitempty"`
}

// Check rejects a negative current amount or a non-positive target.
func (p SavingsGoalPatch) Check() error {
	if p.TargetAmount != nil && !p.TargetAmount.IsPositive() {
		return errors.New("targetAmount must be greater than zero")
	}
	if p.CurrentAmount != nil && p.CurrentAmount.IsNegative() {
		return errors.New("currentAmount must not be negative")
	}
	return nil
}

// Apply returns g with the patch merged in.
func (p SavingsGoalPatch) Apply(g SavingsGoal) SavingsGoal {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.TargetAmount != nil {
		g.TargetAmount = *p.TargetAmount
	}
	if p.CurrentAmount != nil {
		g.CurrentAmount = *p.CurrentAmount
	}
	if p.Deadline != nil {
		d := *p.Deadline
		g.Deadline = &d
	}
	if p.Priority != nil {
		g.Priority = *p.Priority
	}
	return g
}

// AccountPatch is a partial update of an Account.
type AccountPatch struct {
	Name            *string          `json:"name,omitempty"`
	Type            *AccountType     `json:"type,omitempty"`
	Last4           *string          `json:"last4,omitempty"`
	Balance         *decimal.Decimal `json:"balance,omitempty"`
	CreditLimit     *decimal.Decimal `json:"creditLimit,omitempty"`
	AvailableCredit *decimal.Decimal `json:"availableCredit,omitempty"`
}

// Apply returns a with the patch merged in.
func (p AccountPatch) Apply(a Account) Account {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Last4 != nil {
		a.Last4 = *p.Last4
	}
	if p.Balance != nil {
		a.Balance = *p.Balance
	}
	if p.CreditLimit != nil {
		v := *p.CreditLimit
		a.CreditLimit = &v
	}
	if p.AvailableCredit != nil {
		v := *p.AvailableCredit
		a.AvailableCredit = &v
	}
	return a
}

// BillPatch is a partial update of a Bill. Changing Frequency does not
// touch IsRecurring.
type BillPatch struct {
	Name         *string          `json:"name,omitempty"`
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	Category     *Category        `json:"category,omitempty"`
	DueDate      *time.Time       `json:"dueDate,omitempty"`
	Frequency    *Frequency       `json:"frequency,omitempty"`
	ReminderDays *int             `json:"reminderDays,omitempty"`
	IsPaid       *bool            `json:"isPaid,omitempty"`
	NextDueDate  *time.Time       `json:"nextDueDate,omitempty"`
}

// Apply returns b with the patch merged in.
func (p BillPatch) Apply(b Bill) Bill {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Amount != nil {
		b.Amount = *p.Amount
	}
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.DueDate != nil {
		b.DueDate = *p.DueDate
	}
	if p.Frequency != nil {
		b.Frequency = *p.Frequency
	}
	if p.ReminderDays != nil {
		b.ReminderDays = *p.ReminderDays
	}
	if p.IsPaid != nil {
		b.IsPaid = *p.IsPaid
	}
	if p.NextDueDate != nil {
		b.NextDueDate = *p.NextDueDate
	}
	return b
}
