package domain

import (
	"strings"
	"time"
)

// DefaultAnnualProfitRate applies to wallets that never had their rate
// configured (24% per year).
const DefaultAnnualProfitRate = 0.24

// Wallet represents one named pool of money. Balance is held in minor
// currency units and is derived from the wallet's transactions; it is only
// changed through ledger operations, never set directly.
type Wallet struct {
	ID                    string     `json:"id"`
	Name                  string     `json:"name"`
	Balance               int64      `json:"balance"`
	CreatedAt             time.Time  `json:"createdAt"`
	LastProfitCalculation *time.Time `json:"lastProfitCalculation,omitempty"`
	AnnualProfitRate      float64    `json:"annualProfitRate,omitempty"`
}

// EffectiveRate returns the wallet's annual profit rate, falling back to
// the default when the rate was never set.
func (w *Wallet) EffectiveRate() float64 {
	if w.AnnualProfitRate > 0 {
		return w.AnnualProfitRate
	}
	return DefaultAnnualProfitRate
}

// AccrualAnchor returns the reference time for catch-up checks: the last
// accrual run, or the creation time if the wallet never accrued. The zero
// time means neither is usable and the wallet must be skipped.
func (w *Wallet) AccrualAnchor() time.Time {
	if w.LastProfitCalculation != nil && !w.LastProfitCalculation.IsZero() {
		return *w.LastProfitCalculation
	}
	return w.CreatedAt
}

// NormalizeName trims surrounding whitespace from a wallet name.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}
