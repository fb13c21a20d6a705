package store

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pigeonworks-llc/campus-budget/internal/models"
)

// CreateReceipt saves a scanned receipt. The caller assigns the ID.
func (s *Store) CreateReceipt(r *models.Receipt) error {
	if err := s.Put(BucketReceipts, r.ID, r); err != nil {
		return fmt.Errorf("failed to save receipt: %w", err)
	}
	return nil
}

// GetReceipt retrieves a receipt by ID.
func (s *Store) GetReceipt(id string) (*models.Receipt, error) {
	var receipt models.Receipt
	if err := s.Get(BucketReceipts, id, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// ListReceipts returns every receipt, newest first.
func (s *Store) ListReceipts() ([]*models.Receipt, error) {
	results, err := s.List(BucketReceipts, nil)
	if err != nil {
		return nil, err
	}

	receipts := make([]*models.Receipt, 0, len(results))
	for _, data := range results {
		var receipt models.Receipt
		if err := json.Unmarshal(data, &receipt); err != nil {
			return nil, fmt.Errorf("failed to unmarshal receipt: %w", err)
		}
		receipts = append(receipts, &receipt)
	}

	sort.SliceStable(receipts, func(i, j int) bool {
		return receipts[i].CreatedAt.After(receipts[j].CreatedAt)
	})
	return receipts, nil
}

// DeleteReceipt deletes a receipt by ID.
func (s *Store) DeleteReceipt(id string) error {
	return s.Delete(BucketReceipts, id)
}
