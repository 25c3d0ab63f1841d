package profit

import (
	"time"

	"shamsi-wallet/internal/ledger"
	"shamsi-wallet/pkg/shamsi"

	"github.com/rs/zerolog"
)

// CatchUp scans the wallet set for missed accrual cycles. It runs whenever
// the ledger is loaded, on the same execution context as every other
// mutation: it must finish before further mutations are accepted, since
// each backfill itself mutates the ledger.
type CatchUp struct {
	store  *ledger.Store
	engine *Engine
	log    zerolog.Logger
}

// NewCatchUp creates a catch-up scheduler over the given store and engine.
func NewCatchUp(store *ledger.Store, engine *Engine, log zerolog.Logger) *CatchUp {
	return &CatchUp{store: store, engine: engine, log: log}
}

// Run backfills every wallet whose last accrual (or creation, if it never
// accrued) lies in an earlier Shamsi month than now. A single backfill
// covers the whole gap. Wallets with unusable timestamps are skipped, and
// a failure on one wallet never blocks the sweep for the others. Returns
// the number of wallets backfilled.
func (c *CatchUp) Run(now time.Time) int {
	var backfilled int
	for _, w := range c.store.Wallets() {
		anchor := w.AccrualAnchor()
		if anchor.IsZero() {
			c.log.Debug().Str("wallet_id", w.ID).Msg("catch-up skipping wallet without usable dates")
			continue
		}

		if !monthBoundaryCrossed(anchor, now) {
			continue
		}

		if _, err := c.engine.Backfill(w.ID, now); err != nil {
			c.log.Warn().Err(err).Str("wallet_id", w.ID).Msg("catch-up accrual failed")
			continue
		}
		backfilled++
	}

	if backfilled > 0 {
		c.log.Info().Int("wallets", backfilled).Msg("missed profit cycles backfilled")
	}
	return backfilled
}

// monthBoundaryCrossed reports whether now falls in a later Shamsi month
// than last, comparing year first and then month.
func monthBoundaryCrossed(last, now time.Time) bool {
	l := shamsi.FromTime(last)
	n := shamsi.FromTime(now)
	return n.Year > l.Year || (n.Year == l.Year && n.Month > l.Month)
}
