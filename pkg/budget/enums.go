package budget

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Category is the closed set of spending categories.
type Category string

const (
	CategoryRent          Category = "Rent"
	CategoryGroceries     Category = "Groceries"
	CategoryDining        Category = "Dining"
	CategoryTransport     Category = "Transport"
	CategorySchoolBooks   Category = "School/Books"
	CategorySubscriptions Category = "Subscriptions"
	CategoryHealth        Category = "Health"
	CategoryEntertainment Category = "Entertainment"
	CategoryOther         Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryRent,
	CategoryGroceries,
	CategoryDining,
	CategoryTransport,
	CategorySchoolBooks,
	CategorySubscriptions,
	CategoryHealth,
	CategoryEntertainment,
	CategoryOther,
}

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory matches s case-insensitively against Categories.
func ParseCategory(s string) (Category, error) {
	for _, known := range Categories {
		if strings.EqualFold(strings.TrimSpace(s), string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// CategoryOrOther is ParseCategory that folds unknown labels into Other.
func CategoryOrOther(s string) Category {
	c, err := ParseCategory(s)
	if err != nil {
		return CategoryOther
	}
	return c
}

func (c *Category) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, c, Category.Valid, "category")
}

// AccountType is the kind of a linked account.
type AccountType string

const (
	AccountChecking AccountType = "checking"
	AccountSavings  AccountType = "savings"
	AccountCredit   AccountType = "credit"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountChecking, AccountSavings, AccountCredit:
		return true
	}
	return false
}

func (t *AccountType) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, t, AccountType.Valid, "account type")
}

// TransactionType carries the direction of a transaction.
type TransactionType string

const (
	TxnDebit    TransactionType = "debit"
	TxnCredit   TransactionType = "credit"
	TxnTransfer TransactionType = "transfer"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TxnDebit, TxnCredit, TxnTransfer:
		return true
	}
	return false
}

func (t *TransactionType) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, t, TransactionType.Valid, "transaction type")
}

// Priority ranks savings goals.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func (p *Priority) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, p, Priority.Valid, "priority")
}

// Frequency is how often a bill repeats.
type Frequency string

const (
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
	FrequencyOneTime Frequency = "one-time"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyMonthly, FrequencyYearly, FrequencyOneTime:
		return true
	}
	return false
}

// Recurring reports whether bills with this frequency roll forward when paid.
func (f Frequency) Recurring() bool {
	return f == FrequencyWeekly || f == FrequencyMonthly || f == FrequencyYearly
}

func (f *Frequency) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, f, Frequency.Valid, "frequency")
}

// unmarshalEnum decodes a JSON string into a string-backed enum and rejects
// values outside the closed set. An empty string decodes to the zero value.
func unmarshalEnum[T ~string](data []byte, dst *T, valid func(T) bool, what string) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%s must be a string: %w", what, err)
	}
	v := T(s)
	if s != "" && !valid(v) {
		return fmt.Errorf("invalid %s %q", what, s)
	}
	*dst = v
	return nil
}
