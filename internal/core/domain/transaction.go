package domain

import "time"

// TransactionType represents the kind of balance movement.
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "deposit"
	TransactionTypeWithdraw TransactionType = "withdraw"
	TransactionTypeProfit   TransactionType = "profit"
)

// Descriptions attached to profit transactions. A backfilled run is
// distinguished from a regular monthly run only by its description.
const (
	DescMonthlyProfit = "Monthly profit"
	DescMissedProfit  = "Missed profit calculation"
)

// Transaction is an immutable audit record of one balance-changing event.
// Amount is signed: positive for deposits and profit, negative for
// withdrawals. Transactions are append-only and are never mutated or
// reordered after creation.
type Transaction struct {
	ID          string          `json:"id"`
	WalletID    string          `json:"walletId"`
	Amount      int64           `json:"amount"`
	Type        TransactionType `json:"type"`
	Timestamp   time.Time       `json:"timestamp"`
	Description string          `json:"description,omitempty"`
}
