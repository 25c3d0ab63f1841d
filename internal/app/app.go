// Package app owns the load/save lifecycle: it assembles the ledger
// store, the profit engine, and the catch-up scheduler around a snapshot
// store, and runs the missed-profit sweep on every load.
package app

import (
	"context"
	"encoding/json"
	"time"

	"shamsi-wallet/internal/core/domain"
	"shamsi-wallet/internal/core/ports"
	"shamsi-wallet/internal/ledger"
	"shamsi-wallet/internal/profit"
	"shamsi-wallet/pkg/apperror"

	"github.com/rs/zerolog"
)

// App is the application context: the single owner of the ledger and its
// collaborators. All methods assume synchronous, single-threaded use.
type App struct {
	Store  *ledger.Store
	Engine *profit.Engine

	catchup *profit.CatchUp
	storage ports.SnapshotStore
	log     zerolog.Logger
	now     func() time.Time
}

// New assembles an application context over the given snapshot store.
func New(storage ports.SnapshotStore, defaultRate float64, log zerolog.Logger) *App {
	return NewWithClock(storage, defaultRate, log, time.Now)
}

// NewWithClock is New with an injected clock for tests.
func NewWithClock(storage ports.SnapshotStore, defaultRate float64, log zerolog.Logger, now func() time.Time) *App {
	store := ledger.NewStoreWithClock(defaultRate, log, now)
	engine := profit.NewEngine(store, log)
	return &App{
		Store:   store,
		Engine:  engine,
		catchup: profit.NewCatchUp(store, engine, log),
		storage: storage,
		log:     log,
		now:     now,
	}
}

// Load restores the ledger from the snapshot store and runs the catch-up
// sweep. An absent or unusable snapshot means starting with an empty
// ledger, never an error. When the sweep backfilled anything, the new
// state is persisted right away.
func (a *App) Load(ctx context.Context) error {
	snap, err := a.storage.Load(ctx)
	switch {
	case err != nil:
		a.log.Warn().Err(err).Msg("loading snapshot failed, starting with empty ledger")
	case snap == nil:
		a.log.Debug().Msg("no saved snapshot, starting with empty ledger")
	default:
		if err := a.Store.ImportSnapshot(snap); err != nil {
			a.log.Warn().Err(err).Msg("saved snapshot is malformed, starting with empty ledger")
		}
	}

	if backfilled := a.catchup.Run(a.now()); backfilled > 0 {
		return a.Save(ctx)
	}
	return nil
}

// Save persists the current ledger state. A failure is logged and
// surfaced, but the in-memory state is never rolled back.
func (a *App) Save(ctx context.Context) error {
	if err := a.storage.Save(ctx, a.Store.ExportSnapshot()); err != nil {
		a.log.Error().Err(err).Msg("saving snapshot failed, in-memory state kept")
		return apperror.ErrStorageFailure(err)
	}
	return nil
}

// Import replaces the ledger with a user-supplied snapshot document and
// persists it. A document that does not decode into the snapshot shape is
// rejected atomically.
func (a *App) Import(ctx context.Context, data []byte) error {
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return apperror.ErrInvalidFormat(err)
	}
	if err := a.Store.ImportSnapshot(&snap); err != nil {
		return err
	}
	return a.Save(ctx)
}

// Export returns the current ledger state as an indented snapshot
// document.
func (a *App) Export() ([]byte, error) {
	data, err := json.MarshalIndent(a.Store.ExportSnapshot(), "", "  ")
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return data, nil
}
