// Package models holds the request and response schemas of the mock API.
package models

import (
	"errors"
	"time"

	"github.com/pigeonworks-llc/campus-budget/pkg/budget"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest represents the body of POST /api/transactions.
type CreateTransactionRequest struct {
	AccountID           string                 `json:"accountId" validate:"required"`
	Type                budget.TransactionType `json:"type" validate:"required"`
	Amount              decimal.Decimal        `json:"amount"`
	Category            budget.Category        `json:"category" validate:"required"`
	Description         string                 `json:"description" validate:"required"`
	CreatedAt           *time.Time             `json:"createdAt,omitempty"`
	Notes               string                 `json:"notes,omitempty"`
	TransferToAccountID string                 `json:"transferToAccountId,omitempty" validate:"required_if=Type transfer"`
}

// Check covers what struct tags cannot express.
func (r CreateTransactionRequest) Check() error {
	if !r.Amount.IsPositive() {
		return errors.New("amount must be greater than zero")
	}
	return nil
}

// Transaction builds the record the request describes.
func (r CreateTransactionRequest) Transaction(id string, now time.Time) budget.Transaction {
	created := now
	if r.CreatedAt != nil {
		created = *r.CreatedAt
	}
	return budget.Transaction{
		ID:                  id,
		AccountID:           r.AccountID,
		Type:                r.Type,
		Amount:              r.Amount,
		Category:            r.Category,
		Description:         r.Description,
		CreatedAt:           created,
		Notes:               r.Notes,
		TransferToAccountID: r.TransferToAccountID,
	}
}

// CreateNoteRequest represents the body of POST /api/notes.
type CreateNoteRequest struct {
	Title   string   `json:"title" validate:"required"`
	Content string   `json:"content"`
	Tags    []string `json:"tags" validate:"omitempty,dive,required"`
	Pinned  bool     `json:"pinned,omitempty"`
}

func (r CreateNoteRequest) Note(id string, now time.Time) budget.Note {
	tags := append([]string{}, r.Tags...)
	return budget.Note{ID: id, Title: r.Title, Content: r.Content, Tags: tags, CreatedAt: now, Pinned: r.Pinned}
}

// CreateSavingsGoalRequest represents the body of POST /api/savings-goals.
type CreateSavingsGoalRequest struct {
	Name          string          `json:"name" validate:"required"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
	Priority      budget.Priority `json:"priority" validate:"required"`
}

// Check covers what struct tags cannot express. Over-allocation is allowed.
func (r CreateSavingsGoalRequest) Check() error {
	if !r.TargetAmount.IsPositive() {
		return errors.New("targetAmount must be greater than zero")
	}
	if r.CurrentAmount.IsNegative() {
		return errors.New("currentAmount must not be negative")
	}
	return nil
}

func (r CreateSavingsGoalRequest) SavingsGoal(id string) budget.SavingsGoal {
	return budget.SavingsGoal{
		ID:            id,
		Name:          r.Name,
		TargetAmount:  r.TargetAmount,
		CurrentAmount: r.CurrentAmount,
		Deadline:      r.Deadline,
		Priority:      r.Priority,
	}
}

// TransactionUpdate is the response of PUT /api/transactions/{id}.
type TransactionUpdate struct {
	budget.TransactionPatch
	ID        string    `json:"id"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NoteUpdate is the response of PUT /api/notes/{id}.
type NoteUpdate struct {
	budget.NotePatch
	ID        string    `json:"id"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SavingsGoalUpdate is the response of PUT /api/savings-goals/{id}.
type SavingsGoalUpdate struct {
	budget.SavingsGoalPatch
	ID        string    `json:"id"`
	UpdatedAt time.Time `json:"updatedAt"`
}
