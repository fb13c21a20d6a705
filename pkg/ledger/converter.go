package ledger

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pigeonworks-llc/campus-budget/pkg/budget"
)

// Converter converts budget transactions to Beancount entries.
type Converter struct {
	mapper   *Mapper
	accounts map[string]budget.Account
}

// NewConverter creates a new Converter. accounts resolves transaction
// account ids to names and types.
func NewConverter(mapper *Mapper, accounts []budget.Account) *Converter {
	byID := make(map[string]budget.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}
	return &Converter{mapper: mapper, accounts: byID}
}

// Convert converts a transaction to a balanced two-posting entry. Debits
// move money from the account to the category's expense account, credits
// from income to the account, and transfers between two accounts.
func (c *Converter) Convert(t budget.Transaction) Entry {
	from := c.account(t.AccountID)
	amount := t.Amount
	currency := c.mapper.Currency()

	var postings []Posting
	switch t.Type {
	case budget.TxnCredit:
		postings = []Posting{
			{Account: from, Amount: amount, Currency: currency},
			{Account: c.mapper.IncomeAccount(), Amount: amount.Neg(), Currency: currency},
		}
	case budget.TxnTransfer:
		postings = []Posting{
			{Account: c.account(t.TransferToAccountID), Amount: amount, Currency: currency},
			{Account: from, Amount: amount.Neg(), Currency: currency},
		}
	default:
		postings = []Posting{
			{Account: c.mapper.ExpenseAccount(t.Category), Amount: amount, Currency: currency, Comment: string(t.Category)},
			{Account: from, Amount: amount.Neg(), Currency: currency},
		}
	}

	metadata := map[string]string{"id": t.ID}
	if t.Notes != "" {
		metadata["note"] = t.Notes
	}

	return Entry{
		Date:      t.CreatedAt.Local().Format("2006-01-02"),
		Narration: t.Description,
		Tags:      []string{string(t.Type)},
		Metadata:  metadata,
		Postings:  postings,
	}
}

func (c *Converter) account(id string) string {
	if a, ok := c.accounts[id]; ok {
		return c.mapper.AssetAccount(a)
	}
	return "Assets:Unknown:" + sanitizeAccountName(id)
}

// FormatEntry formats an entry as Beancount text.
func FormatEntry(e Entry) string {
	var sb strings.Builder

	// Transaction header
	sb.WriteString(e.Date)
	sb.WriteString(" *")
	if e.Payee != "" {
		fmt.Fprintf(&sb, " %s", quote(e.Payee))
	}
	fmt.Fprintf(&sb, " %s", quote(e.Narration))
	for _, tag := range e.Tags {
		sb.WriteString(" #")
		sb.WriteString(tag)
	}
	sb.WriteString("\n")

	keys := make([]string, 0, len(e.Metadata))
	for k := range e.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "  %s: %s\n", k, quote(e.Metadata[k]))
	}

	for _, p := range e.Postings {
		sb.WriteString("  ")
		sb.WriteString(p.Account)

		// Right-align amounts
		amount := p.Amount.StringFixed(2)
		spaces := int(math.Max(2, float64(60-len(p.Account)-len(amount))))
		sb.WriteString(strings.Repeat(" ", spaces))
		fmt.Fprintf(&sb, "%s %s", amount, p.Currency)

		if p.Comment != "" {
			fmt.Fprintf(&sb, " ; %s", p.Comment)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", " ")
	return `"` + s + `"`
}
