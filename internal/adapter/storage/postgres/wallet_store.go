package postgres

import (
	"context"
	"errors"
	"time"

	"utxo-wallet-core/pkg/walleterr"

	"github.com/jackc/pgx/v5"
)

// WalletStore implements ports.WalletStore on a single key/blob table.
// Wallet state is saved as one opaque record per key; the schema carries no
// knowledge of notes or transactions.
//
// Schema:
//
//	CREATE TABLE wallet_records (
//	    key        TEXT PRIMARY KEY,
//	    record     BYTEA NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL
//	);
type WalletStore struct {
	pool Pool
}

// NewWalletStore creates a PostgreSQL-backed wallet store.
func NewWalletStore(pool Pool) *WalletStore {
	return &WalletStore{pool: pool}
}

// Save upserts the record under key.
func (s *WalletStore) Save(ctx context.Context, key string, record []byte) error {
	query := `INSERT INTO wallet_records (key, record, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET record = EXCLUDED.record, updated_at = EXCLUDED.updated_at`

	_, err := s.pool.Exec(ctx, query, key, record, time.Now().UTC())
	if err != nil {
		return walleterr.ErrStorage(err)
	}
	return nil
}

// Load fetches the record under key. Returns nil, nil if absent.
func (s *WalletStore) Load(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT record FROM wallet_records WHERE key = $1`

	var record []byte
	err := s.pool.QueryRow(ctx, query, key).Scan(&record)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, walleterr.ErrStorage(err)
	}
	return record, nil
}

// Exists reports whether a record is stored under key.
func (s *WalletStore) Exists(ctx context.Context, key string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM wallet_records WHERE key = $1)`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, key).Scan(&exists); err != nil {
		return false, walleterr.ErrStorage(err)
	}
	return exists, nil
}

// Delete removes the record under key. Deleting an absent key is not an
// error.
func (s *WalletStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM wallet_records WHERE key = $1`

	if _, err := s.pool.Exec(ctx, query, key); err != nil {
		return walleterr.ErrStorage(err)
	}
	return nil
}
