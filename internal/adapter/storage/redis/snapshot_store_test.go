package redis

import (
	"context"
	"testing"
	"time"

	"shamsi-wallet/internal/core/domain"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SnapshotStore {
	t.Helper()
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	return NewSnapshotStore(client, "wallet:snapshot")
}

func TestLoad_MissingKeyMeansAbsent(t *testing.T) {
	store := newTestStore(t)

	snap, err := store.Load(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, snap)
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created := time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC)
	want := &domain.Snapshot{
		Wallets: map[string]domain.Wallet{
			"w1": {ID: "w1", Name: "Savings", Balance: 500_000, CreatedAt: created},
		},
		Transactions: []domain.Transaction{
			{ID: "t1", WalletID: "w1", Amount: 500_000, Type: domain.TransactionTypeDeposit, Timestamp: created},
		},
	}
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(500_000), got.Wallets["w1"].Balance)
	assert.Len(t, got.Transactions, 1)
}

func TestSave_Overwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Snapshot{
		Wallets:      map[string]domain.Wallet{"w1": {ID: "w1"}},
		Transactions: []domain.Transaction{},
	}))
	require.NoError(t, store.Save(ctx, domain.EmptySnapshot()))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Wallets)
}

func TestLoad_CorruptValue(t *testing.T) {
	s := miniredis.RunT(t)
	require.NoError(t, s.Set("wallet:snapshot", "{not json"))

	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewSnapshotStore(client, "wallet:snapshot")

	_, err := store.Load(context.Background())
	assert.Error(t, err)
}
