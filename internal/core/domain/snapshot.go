package domain

// Snapshot is the full serializable ledger state: the wallet mapping plus
// the ordered transaction log. It is the unit of persistence and of
// import/export; storage adapters serialize it as JSON and never own it.
type Snapshot struct {
	Wallets      map[string]Wallet `json:"wallets"`
	Transactions []Transaction     `json:"transactions"`
}

// EmptySnapshot returns a snapshot with no wallets and no transactions.
func EmptySnapshot() *Snapshot {
	return &Snapshot{
		Wallets:      map[string]Wallet{},
		Transactions: []Transaction{},
	}
}

// Valid reports whether the snapshot has the required shape: a wallet
// mapping and a transaction sequence. Content beyond the shape is not
// inspected.
func (s *Snapshot) Valid() bool {
	return s != nil && s.Wallets != nil && s.Transactions != nil
}

// Clone returns a deep copy. Mutating the copy never affects the
// original, which lets the ledger hand snapshots to callers without
// exposing its own state.
func (s *Snapshot) Clone() *Snapshot {
	c := &Snapshot{
		Wallets:      make(map[string]Wallet, len(s.Wallets)),
		Transactions: make([]Transaction, len(s.Transactions)),
	}
	for id, w := range s.Wallets {
		if w.LastProfitCalculation != nil {
			t := *w.LastProfitCalculation
			w.LastProfitCalculation = &t
		}
		c.Wallets[id] = w
	}
	copy(c.Transactions, s.Transactions)
	return c
}
