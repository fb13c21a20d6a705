package ledger

import (
	"fmt"
	"sort"

	"github.com/pigeonworks-llc/campus-budget/pkg/budget"
)

// ExportResult summarises an export.
type ExportResult struct {
	Months  []string // year-month keys written, ascending
	Entries int
}

// Export writes txns to one file per local calendar month, oldest first
// within each month. Months without transactions are left untouched.
func Export(repo Repository, conv *Converter, txns []budget.Transaction) (ExportResult, error) {
	sorted := append([]budget.Transaction(nil), txns...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	byMonth := map[string][]string{}
	for _, t := range sorted {
		key := t.CreatedAt.Local().Format("2006-01")
		byMonth[key] = append(byMonth[key], FormatEntry(conv.Convert(t)))
	}

	var result ExportResult
	for key := range byMonth {
		result.Months = append(result.Months, key)
	}
	sort.Strings(result.Months)

	for _, key := range result.Months {
		if err := repo.WriteMonth(key, byMonth[key]); err != nil {
			return result, fmt.Errorf("failed to write %s: %w", key, err)
		}
		result.Entries += len(byMonth[key])
	}

	return result, nil
}
