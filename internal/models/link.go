package models

import "github.com/pigeonworks-llc/campus-budget/pkg/budget"

// LinkData is the demo data handed back once linking succeeds.
type LinkData struct {
	Accounts     []budget.Account     `json:"accounts"`
	Transactions []budget.Transaction `json:"transactions"`
	SavingsGoals []budget.SavingsGoal `json:"savingsGoals"`
	Notes        []budget.Note        `json:"notes"`
}

// LinkResponse represents the response of POST /api/link.
type LinkResponse struct {
	Success bool     `json:"success"`
	Data    LinkData `json:"data"`
}
