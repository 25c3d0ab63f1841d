package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"shamsi-wallet/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// SnapshotStore implements ports.SnapshotStore on a single Redis key
// holding the JSON-encoded snapshot. Snapshots never expire.
type SnapshotStore struct {
	client *goredis.Client
	key    string
}

// NewSnapshotStore creates a Redis-backed snapshot store under the given
// key.
func NewSnapshotStore(client *goredis.Client, key string) *SnapshotStore {
	return &SnapshotStore{client: client, key: key}
}

// Load fetches and decodes the snapshot. A missing key means no snapshot
// was ever saved and returns (nil, nil).
func (s *SnapshotStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis snapshot get: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding redis snapshot: %w", err)
	}
	return &snap, nil
}

// Save encodes and stores the snapshot without a TTL.
func (s *SnapshotStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis snapshot set: %w", err)
	}
	return nil
}
