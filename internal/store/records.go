package store

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pigeonworks-llc/campus-budget/pkg/budget"
)

// SaveTransaction stores a transaction created through the API.
func (s *Store) SaveTransaction(t budget.Transaction) error {
	return s.Put(BucketTransactions, t.ID, t)
}

// GetTransaction retrieves a stored transaction.
func (s *Store) GetTransaction(id string) (budget.Transaction, error) {
	var t budget.Transaction
	err := s.Get(BucketTransactions, id, &t)
	return t, err
}

// ListTransactions returns stored transactions, newest first.
func (s *Store) ListTransactions() ([]budget.Transaction, error) {
	txns, err := listJSON[budget.Transaction](s, BucketTransactions)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].CreatedAt.After(txns[j].CreatedAt)
	})
	return txns, nil
}

func (s *Store) SaveNote(n budget.Note) error {
	return s.Put(BucketNotes, n.ID, n)
}

func (s *Store) GetNote(id string) (budget.Note, error) {
	var n budget.Note
	err := s.Get(BucketNotes, id, &n)
	return n, err
}

// ListNotes returns stored notes, newest first.
func (s *Store) ListNotes() ([]budget.Note, error) {
	notes, err := listJSON[budget.Note](s, BucketNotes)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
	return notes, nil
}

func (s *Store) SaveSavingsGoal(g budget.SavingsGoal) error {
	return s.Put(BucketSavingsGoals, g.ID, g)
}

func (s *Store) GetSavingsGoal(id string) (budget.SavingsGoal, error) {
	var g budget.SavingsGoal
	err := s.Get(BucketSavingsGoals, id, &g)
	return g, err
}

// ListSavingsGoals returns stored goals in key order.
func (s *Store) ListSavingsGoals() ([]budget.SavingsGoal, error) {
	return listJSON[budget.SavingsGoal](s, BucketSavingsGoals)
}

func listJSON[T any](s *Store, bucketName string) ([]T, error) {
	results, err := s.List(bucketName, nil)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(results))
	for _, data := range results {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s record: %w", bucketName, err)
		}
		out = append(out, v)
	}
	return out, nil
}
