// Package ledger exports budget transactions as Beancount journal files,
// one file per month.
package ledger

import "github.com/shopspring/decimal"

// Entry represents a Beancount transaction.
type Entry struct {
	Date      string            // YYYY-MM-DD
	Narration string            // Transaction description
	Payee     string            // Payee name (optional)
	Tags      []string          // Tags without the leading #
	Metadata  map[string]string // Metadata key-value pairs
	Postings  []Posting         // Always balance to zero
}

// Posting represents a posting in a Beancount transaction.
type Posting struct {
	Account  string          // Account name (e.g., "Assets:Bank:Checking")
	Amount   decimal.Decimal // Positive for debit, negative for credit
	Currency string          // Currency code (e.g., "USD")
	Comment  string          // Posting comment (optional)
}
