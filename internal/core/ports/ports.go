package ports

import (
	"context"

	"shamsi-wallet/internal/core/domain"
)

// SnapshotStore persists the ledger snapshot as an opaque blob. Load
// returns (nil, nil) when no snapshot has ever been saved. Implementations
// must not retain or mutate the snapshot they are handed.
type SnapshotStore interface {
	Load(ctx context.Context) (*domain.Snapshot, error)
	Save(ctx context.Context, snap *domain.Snapshot) error
}
