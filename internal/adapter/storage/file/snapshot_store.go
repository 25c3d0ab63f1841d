// Package file persists the ledger snapshot as a JSON file on disk, the
// default backend for single-machine use.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"shamsi-wallet/internal/core/domain"

	"github.com/rs/zerolog"
)

// SnapshotStore implements ports.SnapshotStore on a single JSON file.
type SnapshotStore struct {
	path string
	log  zerolog.Logger
}

// NewSnapshotStore creates a file-backed snapshot store at the given path.
// The file is created on the first Save.
func NewSnapshotStore(path string, log zerolog.Logger) *SnapshotStore {
	return &SnapshotStore{path: path, log: log}
}

// Load reads and decodes the snapshot file. A missing file means no
// snapshot was ever saved and returns (nil, nil).
func (s *SnapshotStore) Load(_ context.Context) (*domain.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading snapshot file: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot file: %w", err)
	}
	return &snap, nil
}

// Save writes the snapshot to a temporary file in the same directory and
// renames it over the target, so a crash mid-write never leaves a
// truncated snapshot behind.
func (s *SnapshotStore) Save(_ context.Context, snap *domain.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing snapshot file: %w", err)
	}

	s.log.Debug().Str("path", s.path).Int("bytes", len(data)).Msg("snapshot saved")
	return nil
}
