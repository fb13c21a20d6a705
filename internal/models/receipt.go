package models

import (
	"time"

	"github.com/pigeonworks-llc/campus-budget/pkg/budget"
	"github.com/shopspring/decimal"
)

// Receipt is an uploaded receipt image and what the scanner made of it.
// Label is the raw recognised category, which may fall outside the
// budget categories (e.g. "Shopping").
type Receipt struct {
	ID        string          `json:"id"`
	FileName  string          `json:"fileName"`
	FilePath  string          `json:"filePath"`
	SizeBytes int64           `json:"sizeBytes"`
	Merchant  string          `json:"merchant"`
	Amount    decimal.Decimal `json:"amount"`
	Label     string          `json:"label"`
	Date      string          `json:"date"` // YYYY-MM-DD
	CreatedAt time.Time       `json:"createdAt"`
}

// ScanResponse represents the response of POST /api/receipts/scan.
// Draft is an unsaved debit the client may add to its store.
type ScanResponse struct {
	Receipt Receipt            `json:"receipt"`
	Draft   budget.Transaction `json:"draft"`
}
