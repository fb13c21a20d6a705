package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pigeonworks-llc/campus-budget/internal/state"
	"github.com/pigeonworks-llc/campus-budget/pkg/budget"
)

// SaveRecord is one row of the save history.
type SaveRecord struct {
	ID               int64
	SizeBytes        int64
	TransactionCount int
	BillCount        int
	SavedAt          time.Time
}

// SnapshotRepository persists the client snapshot in SQLite.
type SnapshotRepository struct {
	conn *Connection
	name string
	now  func() time.Time
}

// NewSnapshotRepository returns a state.Persister backed by conn.
func NewSnapshotRepository(conn *Connection) *SnapshotRepository {
	return &SnapshotRepository{conn: conn, name: state.StorageName, now: time.Now}
}

// Load returns nil, nil when nothing has been saved.
func (r *SnapshotRepository) Load(ctx context.Context) (*budget.Snapshot, error) {
	var data string
	err := r.conn.db.QueryRowContext(ctx,
		`SELECT data FROM snapshots WHERE name = ?`, r.name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap budget.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	snap.Normalize()
	return &snap, nil
}

// Save replaces the stored snapshot and appends a history row.
func (r *SnapshotRepository) Save(ctx context.Context, snap *budget.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	now := r.now().UTC()

	return r.conn.Transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO snapshots (name, data, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET
				data = excluded.data,
				updated_at = excluded.updated_at
		`, r.name, string(data), now)
		if err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO snapshot_saves (name, size_bytes, transaction_count, bill_count, saved_at)
			VALUES (?, ?, ?, ?, ?)
		`, r.name, len(data), len(snap.Transactions), len(snap.Bills), now)
		if err != nil {
			return fmt.Errorf("failed to record save: %w", err)
		}
		return nil
	})
}

// Stats reports the save count, last save time and snapshot size.
func (r *SnapshotRepository) Stats(ctx context.Context) (state.PersistStats, error) {
	stats := state.PersistStats{Backend: "sqlite", Location: r.conn.Path()}

	err := r.conn.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM snapshot_saves WHERE name = ?`, r.name).Scan(&stats.SaveCount)
	if err != nil {
		return stats, fmt.Errorf("failed to count saves: %w", err)
	}

	history, err := r.History(ctx, 1)
	if err != nil {
		return stats, err
	}
	if len(history) == 1 {
		savedAt := history[0].SavedAt
		stats.LastSavedAt = &savedAt
		stats.SizeBytes = history[0].SizeBytes
	}
	return stats, nil
}

// History returns up to limit save records, newest first.
func (r *SnapshotRepository) History(ctx context.Context, limit int) ([]SaveRecord, error) {
	rows, err := r.conn.db.QueryContext(ctx, `
		SELECT id, size_bytes, transaction_count, bill_count, saved_at
		FROM snapshot_saves
		WHERE name = ?
		ORDER BY id DESC
		LIMIT ?
	`, r.name, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query save history: %w", err)
	}
	defer rows.Close()

	var records []SaveRecord
	for rows.Next() {
		var rec SaveRecord
		if err := rows.Scan(&rec.ID, &rec.SizeBytes, &rec.TransactionCount, &rec.BillCount, &rec.SavedAt); err != nil {
			return nil, fmt.Errorf("failed to scan save record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// PruneHistory keeps the newest keep rows and reports how many were removed.
func (r *SnapshotRepository) PruneHistory(ctx context.Context, keep int) (int64, error) {
	result, err := r.conn.db.ExecContext(ctx, `
		DELETE FROM snapshot_saves
		WHERE name = ? AND id NOT IN (
			SELECT id FROM snapshot_saves WHERE name = ? ORDER BY id DESC LIMIT ?
		)
	`, r.name, r.name, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune save history: %w", err)
	}
	return result.RowsAffected()
}
