package profit

import (
	"testing"
	"time"

	"shamsi-wallet/internal/core/domain"
	"shamsi-wallet/internal/ledger"
	"shamsi-wallet/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The Shamsi month Ordibehesht 1403 runs 2024-04-20 .. 2024-05-20 (31
// days); its trigger date, Ordibehesht 15, is 2024-05-04. Tests pin the
// store clock to exact Gregorian instants inside that month.
var (
	ordibehesht1  = time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC)
	ordibehesht15 = time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC)
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestEngine(t *testing.T, c *clock) (*ledger.Store, *Engine) {
	t.Helper()
	store := ledger.NewStoreWithClock(0, zerolog.Nop(), c.now)
	return store, NewEngine(store, zerolog.Nop())
}

func TestAccrue_DepositAtWindowStart(t *testing.T) {
	c := &clock{t: ordibehesht1}
	store, engine := newTestEngine(t, c)

	w, err := store.CreateWallet("Savings")
	require.NoError(t, err)
	_, err = store.Deposit(w.ID, 1_000_000)
	require.NoError(t, err)

	// The running balance is seeded with the balance observed at
	// accrual time, so the window-start deposit weighs in at 2,000,000
	// for the 14 days up to the trigger:
	// round(2,000,000 * 14 * 0.24 / 365) = 18,411.
	tx, err := engine.Accrue(w.ID, ordibehesht15)
	require.NoError(t, err)
	assert.Equal(t, int64(18_411), tx.Amount)
	assert.Equal(t, domain.TransactionTypeProfit, tx.Type)
	assert.Equal(t, domain.DescMonthlyProfit, tx.Description)

	got, err := store.Wallet(w.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1_018_411), got.Balance)
	require.NotNil(t, got.LastProfitCalculation)
	assert.Equal(t, ordibehesht15, *got.LastProfitCalculation)
}

func TestAccrue_NoTransactionsInWindow(t *testing.T) {
	// Deposits before the Shamsi month started leave the window with a
	// flat balance: round(1,000,000 * 14 * 0.24 / 365) = 9,205.
	c := &clock{t: time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)}
	store, engine := newTestEngine(t, c)

	w, err := store.CreateWallet("Savings")
	require.NoError(t, err)
	_, err = store.Deposit(w.ID, 1_000_000)
	require.NoError(t, err)

	tx, err := engine.Accrue(w.ID, ordibehesht15)
	require.NoError(t, err)
	assert.Equal(t, int64(9_205), tx.Amount)
}

func TestAccrue_MidWindowWithdrawal(t *testing.T) {
	c := &clock{t: time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)}
	store, engine := newTestEngine(t, c)

	w, err := store.CreateWallet("Savings")
	require.NoError(t, err)
	_, err = store.Deposit(w.ID, 1_000_000)
	require.NoError(t, err)

	// Withdraw 500,000 seven days into the window. Seeded with the
	// observed balance of 500,000, the walk weights 500,000 for seven
	// days and zero afterwards: round(3,500,000 * 0.24 / 365) = 2,301.
	c.t = time.Date(2024, 4, 27, 0, 0, 0, 0, time.UTC)
	_, err = store.Withdraw(w.ID, 500_000)
	require.NoError(t, err)

	tx, err := engine.Accrue(w.ID, ordibehesht15)
	require.NoError(t, err)
	assert.Equal(t, int64(2_301), tx.Amount)
}

func TestAccrue_UsesWalletOwnRate(t *testing.T) {
	c := &clock{t: ordibehesht1}
	store, engine := newTestEngine(t, c)

	w, err := store.CreateWallet("Savings")
	require.NoError(t, err)
	_, err = store.Deposit(w.ID, 1_000_000)
	require.NoError(t, err)

	// With a 36.5% annual rate the daily rate is exactly 0.001:
	// round(2,000,000 * 14 * 0.001) = 28,000.
	rate := 0.365
	require.NoError(t, store.UpdateSettings(w.ID, ledger.Settings{AnnualProfitRate: &rate}))

	tx, err := engine.Accrue(w.ID, ordibehesht15)
	require.NoError(t, err)
	assert.Equal(t, int64(28_000), tx.Amount)
}

func TestAccrue_EmptyWalletRecordsZeroProfit(t *testing.T) {
	c := &clock{t: ordibehesht1}
	store, engine := newTestEngine(t, c)

	w, err := store.CreateWallet("Savings")
	require.NoError(t, err)

	tx, err := engine.Accrue(w.ID, ordibehesht15)
	require.NoError(t, err)
	assert.Equal(t, int64(0), tx.Amount)
	assert.Len(t, store.WalletTransactions(w.ID), 1)
}

func TestAccrue_UnknownWallet(t *testing.T) {
	c := &clock{t: ordibehesht1}
	_, engine := newTestEngine(t, c)

	_, err := engine.Accrue("missing", ordibehesht15)
	assert.Equal(t, "LDG_003", apperror.CodeOf(err))
}

func TestBackfill_Description(t *testing.T) {
	c := &clock{t: ordibehesht1}
	store, engine := newTestEngine(t, c)

	w, err := store.CreateWallet("Savings")
	require.NoError(t, err)

	tx, err := engine.Backfill(w.ID, ordibehesht15)
	require.NoError(t, err)
	assert.Equal(t, domain.DescMissedProfit, tx.Description)
}

func TestProject_ToNextTrigger(t *testing.T) {
	// From 2024-05-01 (Ordibehesht 12) the next trigger is Khordad 15,
	// 2024-06-04: 34 whole days, each earning
	// round(1,000,000 * 0.24 / 365) = 658, so 22,372 in total.
	c := &clock{t: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	store, engine := newTestEngine(t, c)

	w, err := store.CreateWallet("Savings")
	require.NoError(t, err)
	_, err = store.Deposit(w.ID, 1_000_000)
	require.NoError(t, err)

	got, err := engine.Project(w.ID, c.t)
	require.NoError(t, err)
	assert.Equal(t, int64(34*658), got)
}

func TestProject_TimeOfDayIgnored(t *testing.T) {
	c := &clock{t: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	store, engine := newTestEngine(t, c)

	w, err := store.CreateWallet("Savings")
	require.NoError(t, err)
	_, err = store.Deposit(w.ID, 1_000_000)
	require.NoError(t, err)

	atMidnight, err := engine.Project(w.ID, c.t)
	require.NoError(t, err)
	atNoon, err := engine.Project(w.ID, c.t.Add(12*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, atMidnight, atNoon)
}

func TestProject_WrapsShamsiYear(t *testing.T) {
	// 2024-03-10 is Esfand 20, 1402; the next trigger is Farvardin 15,
	// 1403 = 2024-04-03. 24 days at round(365,000 * 0.24 / 365) = 240
	// per day.
	c := &clock{t: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)}
	store, engine := newTestEngine(t, c)

	w, err := store.CreateWallet("Savings")
	require.NoError(t, err)
	_, err = store.Deposit(w.ID, 365_000)
	require.NoError(t, err)

	got, err := engine.Project(w.ID, c.t)
	require.NoError(t, err)
	assert.Equal(t, int64(24*240), got)
}

func TestProject_IsReadOnly(t *testing.T) {
	c := &clock{t: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	store, engine := newTestEngine(t, c)

	w, err := store.CreateWallet("Savings")
	require.NoError(t, err)
	_, err = store.Deposit(w.ID, 1_000_000)
	require.NoError(t, err)
	before := len(store.WalletTransactions(w.ID))

	first, err := engine.Project(w.ID, c.t)
	require.NoError(t, err)
	second, err := engine.Project(w.ID, c.t)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, store.WalletTransactions(w.ID), before)

	got, err := store.Wallet(w.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000), got.Balance)
	assert.Nil(t, got.LastProfitCalculation)
}
