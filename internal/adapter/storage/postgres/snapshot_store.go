package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"shamsi-wallet/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// SnapshotStore implements ports.SnapshotStore on the snapshots table.
// The whole ledger lives in one jsonb row; the database is a blob store
// here, not a relational model of the ledger.
type SnapshotStore struct {
	pool Pool
}

// NewSnapshotStore creates a PostgreSQL-backed snapshot store.
func NewSnapshotStore(pool Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

// Load fetches and decodes the snapshot row. No row means no snapshot was
// ever saved and returns (nil, nil).
func (s *SnapshotStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	query := `SELECT data FROM snapshots WHERE id = 1`

	var data []byte
	if err := s.pool.QueryRow(ctx, query).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("selecting snapshot: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot row: %w", err)
	}
	return &snap, nil
}

// Save upserts the snapshot row.
func (s *SnapshotStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	query := `INSERT INTO snapshots (id, data, updated_at) VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`

	if _, err := s.pool.Exec(ctx, query, data); err != nil {
		return fmt.Errorf("upserting snapshot: %w", err)
	}
	return nil
}
