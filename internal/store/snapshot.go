package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pigeonworks-llc/campus-budget/internal/state"
	"github.com/pigeonworks-llc/campus-budget/pkg/budget"
)

// snapshotEnvelope is what gets written under the snapshot name.
type snapshotEnvelope struct {
	Version   int             `json:"version"`
	SaveCount int64           `json:"saveCount"`
	SavedAt   time.Time       `json:"savedAt"`
	State     budget.Snapshot `json:"state"`
}

const snapshotVersion = 1

// SnapshotStore persists the client snapshot in the snapshots bucket.
type SnapshotStore struct {
	store *Store
	name  string
	now   func() time.Time
}

// NewSnapshotStore returns a state.Persister backed by s.
func NewSnapshotStore(s *Store) *SnapshotStore {
	return &SnapshotStore{store: s, name: state.StorageName, now: time.Now}
}

// Load returns nil, nil when no snapshot has been saved.
func (ss *SnapshotStore) Load(ctx context.Context) (*budget.Snapshot, error) {
	env, err := ss.envelope()
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	snap := env.State
	snap.Normalize()
	return &snap, nil
}

// Save overwrites the stored snapshot.
func (ss *SnapshotStore) Save(ctx context.Context, snap *budget.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var count int64
	prev, err := ss.envelope()
	switch {
	case err == nil:
		count = prev.SaveCount
	case !errors.Is(err, ErrNotFound):
		return err
	}

	env := snapshotEnvelope{
		Version:   snapshotVersion,
		SaveCount: count + 1,
		SavedAt:   ss.now().UTC(),
		State:     *snap,
	}
	if err := ss.store.Put(BucketSnapshots, ss.name, env); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Stats reports the save count and the database file size.
func (ss *SnapshotStore) Stats(ctx context.Context) (state.PersistStats, error) {
	stats := state.PersistStats{Backend: "bolt", Location: ss.store.Path()}

	env, err := ss.envelope()
	switch {
	case err == nil:
		stats.SaveCount = env.SaveCount
		savedAt := env.SavedAt
		stats.LastSavedAt = &savedAt
	case !errors.Is(err, ErrNotFound):
		return stats, err
	}

	if fi, err := os.Stat(ss.store.Path()); err == nil {
		stats.SizeBytes = fi.Size()
	}
	return stats, nil
}

func (ss *SnapshotStore) envelope() (snapshotEnvelope, error) {
	var env snapshotEnvelope
	if err := ss.store.Get(BucketSnapshots, ss.name, &env); err != nil {
		return env, err
	}
	if env.Version > snapshotVersion {
		return env, fmt.Errorf("snapshot version %d is newer than supported version %d", env.Version, snapshotVersion)
	}
	return env, nil
}
