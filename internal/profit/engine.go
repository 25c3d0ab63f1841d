// Package profit implements the accrual engine: realized monthly profit
// from a time-weighted average balance, a fixed-balance projection to the
// next trigger date, and the catch-up sweep that backfills missed months.
package profit

import (
	"math"
	"time"

	"shamsi-wallet/internal/core/domain"
	"shamsi-wallet/internal/ledger"
	"shamsi-wallet/pkg/shamsi"

	"github.com/rs/zerolog"
)

const hoursPerDay = 24

// Engine computes and applies profit against the ledger store. All date
// arithmetic runs on the Shamsi calendar: the weighting window starts at
// the first day of the as-of Shamsi month and is normalized by that
// month's length.
type Engine struct {
	store *ledger.Store
	log   zerolog.Logger
}

// NewEngine creates a profit engine reading and mutating the given store.
func NewEngine(store *ledger.Store, log zerolog.Logger) *Engine {
	return &Engine{store: store, log: log}
}

// Accrue runs a regular monthly accrual for the wallet as of the given
// time and records a "Monthly profit" transaction. The computed amount may
// be zero; it is applied and recorded regardless.
func (e *Engine) Accrue(walletID string, asOf time.Time) (*domain.Transaction, error) {
	return e.accrue(walletID, asOf, domain.DescMonthlyProfit)
}

// Backfill runs a catch-up accrual for a wallet whose regular run was
// missed, recording a "Missed profit calculation" transaction. One
// backfill covers the whole gap regardless of how many month boundaries
// were crossed.
func (e *Engine) Backfill(walletID string, asOf time.Time) (*domain.Transaction, error) {
	return e.accrue(walletID, asOf, domain.DescMissedProfit)
}

func (e *Engine) accrue(walletID string, asOf time.Time, description string) (*domain.Transaction, error) {
	w, err := e.store.Wallet(walletID)
	if err != nil {
		return nil, err
	}

	amount := e.computeProfit(w, asOf)
	tx, err := e.store.ApplyProfit(walletID, amount, asOf, description)
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("wallet_id", walletID).
		Int64("profit", amount).
		Str("description", description).
		Time("as_of", asOf).
		Msg("profit accrued")
	return tx, nil
}

// computeProfit walks the wallet's transactions inside the current Shamsi
// month, weighting each held balance by the days it was held. The running
// balance is seeded with the balance observed now, matching how the
// monthly statement presents it, and the weighted total is normalized by
// the Shamsi month length before the wallet's own annual rate is applied.
func (e *Engine) computeProfit(w *domain.Wallet, asOf time.Time) int64 {
	windowStart := shamsi.MonthStart(asOf)
	month := shamsi.FromTime(asOf)
	daysInMonth := shamsi.MonthLength(month.Year, month.Month)

	var weighted float64
	running := float64(w.Balance)
	cursor := windowStart

	for _, tx := range e.store.TransactionsSince(w.ID, windowStart) {
		weighted += running * daysBetween(cursor, tx.Timestamp)
		running += float64(tx.Amount)
		cursor = tx.Timestamp
	}
	weighted += running * daysBetween(cursor, asOf)

	averageDailyBalance := weighted / float64(daysInMonth)
	dailyRate := w.EffectiveRate() / 365
	return roundHalfAway(averageDailyBalance * dailyRate * float64(daysInMonth))
}

// Project forecasts the profit the wallet would earn by the 15th of the
// next Shamsi month if its balance stayed as it is now: one rounded daily
// increment per whole day strictly before the trigger date. It reads the
// ledger but never mutates it.
func (e *Engine) Project(walletID string, asOf time.Time) (int64, error) {
	w, err := e.store.Wallet(walletID)
	if err != nil {
		return 0, err
	}

	end := shamsi.NextTrigger(asOf)
	perDay := roundHalfAway(float64(w.Balance) * w.EffectiveRate() / 365)

	var total int64
	for day := midnight(asOf); day.Before(end); day = day.AddDate(0, 0, 1) {
		total += perDay
	}
	return total, nil
}

func daysBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / hoursPerDay
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// roundHalfAway rounds to the nearest minor unit, halves away from zero.
func roundHalfAway(v float64) int64 {
	return int64(math.Round(v))
}
