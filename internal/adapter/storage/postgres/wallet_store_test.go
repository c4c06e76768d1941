package postgres

import (
	"context"
	"errors"
	"testing"

	"utxo-wallet-core/pkg/walleterr"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletStore_Save(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewWalletStore(mock)

	mock.ExpectExec("INSERT INTO wallet_records").
		WithArgs("wallet:state", []byte(`{"notes":[]}`), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = store.Save(context.Background(), "wallet:state", []byte(`{"notes":[]}`))
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletStore_Save_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewWalletStore(mock)

	mock.ExpectExec("INSERT INTO wallet_records").
		WithArgs("wallet:state", []byte("x"), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))

	err = store.Save(context.Background(), "wallet:state", []byte("x"))
	require.Error(t, err)
	assert.True(t, walleterr.HasCode(err, walleterr.CodeStorage))
}

func TestWalletStore_Load(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewWalletStore(mock)

	mock.ExpectQuery("SELECT record FROM wallet_records WHERE key").
		WithArgs("wallet:state").
		WillReturnRows(pgxmock.NewRows([]string{"record"}).AddRow([]byte(`{"notes":[]}`)))

	record, err := store.Load(context.Background(), "wallet:state")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"notes":[]}`), record)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletStore_Load_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewWalletStore(mock)

	mock.ExpectQuery("SELECT record FROM wallet_records WHERE key").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"record"}))

	record, err := store.Load(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, record)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletStore_Exists(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewWalletStore(mock)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("wallet:state").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := store.Exists(context.Background(), "wallet:state")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletStore_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewWalletStore(mock)

	mock.ExpectExec("DELETE FROM wallet_records").
		WithArgs("wallet:state").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err = store.Delete(context.Background(), "wallet:state")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
