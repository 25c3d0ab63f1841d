package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"shamsi-wallet/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshotJSON(t *testing.T) []byte {
	t.Helper()
	created := time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC)
	data, err := json.Marshal(&domain.Snapshot{
		Wallets: map[string]domain.Wallet{
			"w1": {ID: "w1", Name: "Savings", Balance: 1_000_000, CreatedAt: created},
		},
		Transactions: []domain.Transaction{
			{ID: "t1", WalletID: "w1", Amount: 1_000_000, Type: domain.TransactionTypeDeposit, Timestamp: created},
		},
	})
	require.NoError(t, err)
	return data
}

func TestLoad_NoRowMeansAbsent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT data FROM snapshots").
		WillReturnError(pgx.ErrNoRows)

	store := NewSnapshotStore(mock)
	snap, err := store.Load(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, snap)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoad_DecodesRow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT data FROM snapshots").
		WillReturnRows(pgxmock.NewRows([]string{"data"}).AddRow(testSnapshotJSON(t)))

	store := NewSnapshotStore(mock)
	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, int64(1_000_000), snap.Wallets["w1"].Balance)
	assert.Len(t, snap.Transactions, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoad_CorruptRow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT data FROM snapshots").
		WillReturnRows(pgxmock.NewRows([]string{"data"}).AddRow([]byte("{not json")))

	store := NewSnapshotStore(mock)
	_, err = store.Load(context.Background())
	assert.Error(t, err)
}

func TestSave_Upserts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO snapshots").
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	store := NewSnapshotStore(mock)
	err = store.Save(context.Background(), domain.EmptySnapshot())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS snapshots").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	assert.NoError(t, EnsureSchema(context.Background(), mock))
	assert.NoError(t, mock.ExpectationsWereMet())
}
