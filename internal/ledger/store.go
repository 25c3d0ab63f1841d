// Package ledger owns the in-memory ledger state: the wallet set and the
// append-only transaction log. Every mutation appends an audit transaction
// and is atomic: a failed operation leaves the state untouched.
package ledger

import (
	"sort"
	"time"

	"shamsi-wallet/internal/core/domain"
	"shamsi-wallet/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Store is the single owner of the ledger state. It assumes synchronous,
// single-threaded use; callers must not interleave mutations.
type Store struct {
	log         zerolog.Logger
	validate    *validator.Validate
	now         func() time.Time
	defaultRate float64

	wallets      map[string]domain.Wallet
	transactions []domain.Transaction
}

// Settings is a partial update for a wallet; nil fields are left unchanged.
type Settings struct {
	Name             *string
	AnnualProfitRate *float64 `validate:"omitempty,gt=0"`
}

type createWalletInput struct {
	Name string `validate:"required"`
}

// NewStore creates an empty ledger store. Wallets created through it get
// the given default annual profit rate.
func NewStore(defaultRate float64, log zerolog.Logger) *Store {
	return NewStoreWithClock(defaultRate, log, time.Now)
}

// NewStoreWithClock creates a store with an injected clock, used by tests
// to pin transaction timestamps.
func NewStoreWithClock(defaultRate float64, log zerolog.Logger, now func() time.Time) *Store {
	if defaultRate <= 0 {
		defaultRate = domain.DefaultAnnualProfitRate
	}
	return &Store{
		log:          log,
		validate:     validator.New(),
		now:          now,
		defaultRate:  defaultRate,
		wallets:      map[string]domain.Wallet{},
		transactions: []domain.Transaction{},
	}
}

// CreateWallet adds a wallet with zero balance and the default rate.
// The name is trimmed and must be non-empty.
func (s *Store) CreateWallet(name string) (*domain.Wallet, error) {
	name = domain.NormalizeName(name)
	if err := s.validate.Struct(createWalletInput{Name: name}); err != nil {
		return nil, apperror.Validation("wallet name must not be empty")
	}

	w := domain.Wallet{
		ID:               uuid.NewString(),
		Name:             name,
		Balance:          0,
		CreatedAt:        s.now(),
		AnnualProfitRate: s.defaultRate,
	}
	s.wallets[w.ID] = w

	s.log.Info().Str("wallet_id", w.ID).Str("name", w.Name).Msg("wallet created")
	return &w, nil
}

// DeleteWallet removes the wallet and all of its transactions.
func (s *Store) DeleteWallet(id string) error {
	if _, ok := s.wallets[id]; !ok {
		return apperror.ErrNotFound("wallet")
	}
	delete(s.wallets, id)

	kept := s.transactions[:0]
	for _, tx := range s.transactions {
		if tx.WalletID != id {
			kept = append(kept, tx)
		}
	}
	s.transactions = kept

	s.log.Info().Str("wallet_id", id).Msg("wallet deleted")
	return nil
}

// Deposit increases the wallet balance and appends a deposit transaction.
func (s *Store) Deposit(id string, amount int64) (*domain.Transaction, error) {
	w, ok := s.wallets[id]
	if !ok {
		return nil, apperror.ErrNotFound("wallet")
	}
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	w.Balance += amount
	s.wallets[id] = w
	return s.append(id, amount, domain.TransactionTypeDeposit, ""), nil
}

// Withdraw decreases the wallet balance and appends a withdraw transaction
// with a negated amount. The balance must never go negative.
func (s *Store) Withdraw(id string, amount int64) (*domain.Transaction, error) {
	w, ok := s.wallets[id]
	if !ok {
		return nil, apperror.ErrNotFound("wallet")
	}
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if amount > w.Balance {
		return nil, apperror.ErrInsufficientBalance()
	}

	w.Balance -= amount
	s.wallets[id] = w
	return s.append(id, -amount, domain.TransactionTypeWithdraw, ""), nil
}

// ApplyProfit credits an accrued profit amount, appends a profit
// transaction, and advances the wallet's last accrual timestamp to asOf.
// The amount may be zero; it is recorded all the same.
func (s *Store) ApplyProfit(id string, amount int64, asOf time.Time, description string) (*domain.Transaction, error) {
	w, ok := s.wallets[id]
	if !ok {
		return nil, apperror.ErrNotFound("wallet")
	}

	w.Balance += amount
	w.LastProfitCalculation = &asOf
	s.wallets[id] = w

	tx := domain.Transaction{
		ID:          uuid.NewString(),
		WalletID:    id,
		Amount:      amount,
		Type:        domain.TransactionTypeProfit,
		Timestamp:   asOf,
		Description: description,
	}
	s.transactions = append(s.transactions, tx)
	return &tx, nil
}

// UpdateSettings applies a partial update to a wallet's name and annual
// profit rate. Provided values are validated; nil fields stay as they are.
func (s *Store) UpdateSettings(id string, set Settings) error {
	w, ok := s.wallets[id]
	if !ok {
		return apperror.ErrNotFound("wallet")
	}
	if err := s.validate.Struct(set); err != nil {
		return apperror.Validation("annual profit rate must be greater than zero")
	}

	if set.Name != nil {
		name := domain.NormalizeName(*set.Name)
		if name == "" {
			return apperror.Validation("wallet name must not be empty")
		}
		w.Name = name
	}
	if set.AnnualProfitRate != nil {
		w.AnnualProfitRate = *set.AnnualProfitRate
	}
	s.wallets[id] = w
	return nil
}

// Wallet returns a copy of the wallet with the given id.
func (s *Store) Wallet(id string) (*domain.Wallet, error) {
	w, ok := s.wallets[id]
	if !ok {
		return nil, apperror.ErrNotFound("wallet")
	}
	if w.LastProfitCalculation != nil {
		t := *w.LastProfitCalculation
		w.LastProfitCalculation = &t
	}
	return &w, nil
}

// Wallets returns all wallets ordered by creation time, then name.
func (s *Store) Wallets() []domain.Wallet {
	out := make([]domain.Wallet, 0, len(s.wallets))
	for _, w := range s.wallets {
		if w.LastProfitCalculation != nil {
			t := *w.LastProfitCalculation
			w.LastProfitCalculation = &t
		}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// WalletTransactions returns the wallet's transactions newest first, the
// order the history view displays them in.
func (s *Store) WalletTransactions(id string) []domain.Transaction {
	var out []domain.Transaction
	for _, tx := range s.transactions {
		if tx.WalletID == id {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// TransactionsSince returns the wallet's transactions with timestamps at
// or after since, ascending. Timestamp ties keep insertion order.
func (s *Store) TransactionsSince(id string, since time.Time) []domain.Transaction {
	var out []domain.Transaction
	for _, tx := range s.transactions {
		if tx.WalletID == id && !tx.Timestamp.Before(since) {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// TotalBalance sums the balances of all wallets.
func (s *Store) TotalBalance() int64 {
	var total int64
	for _, w := range s.wallets {
		total += w.Balance
	}
	return total
}

// ImportSnapshot replaces the entire ledger state. A snapshot failing the
// shape check is rejected without touching the current state.
func (s *Store) ImportSnapshot(snap *domain.Snapshot) error {
	if !snap.Valid() {
		return apperror.ErrInvalidFormat(nil)
	}
	c := snap.Clone()
	s.wallets = c.Wallets
	s.transactions = c.Transactions

	s.log.Info().
		Int("wallets", len(s.wallets)).
		Int("transactions", len(s.transactions)).
		Msg("snapshot imported")
	return nil
}

// ExportSnapshot returns a deep copy of the current state; mutating it
// cannot affect the store.
func (s *Store) ExportSnapshot() *domain.Snapshot {
	snap := domain.Snapshot{Wallets: s.wallets, Transactions: s.transactions}
	return snap.Clone()
}

func (s *Store) append(walletID string, amount int64, typ domain.TransactionType, description string) *domain.Transaction {
	tx := domain.Transaction{
		ID:          uuid.NewString(),
		WalletID:    walletID,
		Amount:      amount,
		Type:        typ,
		Timestamp:   s.now(),
		Description: description,
	}
	s.transactions = append(s.transactions, tx)
	return &tx
}
