package budget

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// SearchTransactions filters txns by a free-text term and an optional
// category, preserving order. The term matches description or category as
// a case-insensitive substring; longer terms also match words within a small
// edit distance, so "grocries" still finds "Groceries".
func SearchTransactions(txns []Transaction, term string, category Category) []Transaction {
	term = strings.ToLower(strings.TrimSpace(term))
	out := []Transaction{}
	for _, t := range txns {
		if category != "" && t.Category != category {
			continue
		}
		if term != "" && !matchesTerm(term, t.Description, string(t.Category)) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// FilterNotes keeps notes whose title, content or tags contain term, and
// which carry tag when one is given.
func FilterNotes(notes []Note, term, tag string) []Note {
	term = strings.ToLower(strings.TrimSpace(term))
	out := []Note{}
	for _, n := range notes {
		if tag != "" && !hasTag(n, tag) {
			continue
		}
		if term != "" && !matchesTerm(term, append([]string{n.Title, n.Content}, n.Tags...)...) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// PartitionNotes splits notes into pinned and unpinned, keeping order.
func PartitionNotes(notes []Note) (pinned, others []Note) {
	pinned, others = []Note{}, []Note{}
	for _, n := range notes {
		if n.Pinned {
			pinned = append(pinned, n)
		} else {
			others = append(others, n)
		}
	}
	return pinned, others
}

func hasTag(n Note, tag string) bool {
	for _, t := range n.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func matchesTerm(term string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	maxDist := fuzzyBudget(term)
	if maxDist == 0 {
		return false
	}
	for _, f := range fields {
		for _, word := range strings.FieldsFunc(strings.ToLower(f), isWordBreak) {
			if levenshtein.ComputeDistance(term, word) <= maxDist {
				return true
			}
		}
	}
	return false
}

// fuzzyBudget is the edit distance tolerated for a term of this length.
func fuzzyBudget(term string) int {
	switch n := len([]rune(term)); {
	case n >= 8:
		return 2
	case n >= 4:
		return 1
	default:
		return 0
	}
}

func isWordBreak(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
