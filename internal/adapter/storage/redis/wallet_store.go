package redis

import (
	"context"

	"utxo-wallet-core/pkg/walleterr"

	goredis "github.com/redis/go-redis/v9"
)

// WalletStore implements ports.WalletStore on Redis. Records never expire;
// the store holds durable wallet state, not a cache.
type WalletStore struct {
	client *goredis.Client
	prefix string
}

// NewWalletStore creates a Redis-backed wallet store.
func NewWalletStore(client *goredis.Client) *WalletStore {
	return &WalletStore{
		client: client,
		prefix: "wallet:",
	}
}

// Save stores the record under key.
func (s *WalletStore) Save(ctx context.Context, key string, record []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, record, 0).Err(); err != nil {
		return walleterr.ErrStorage(err)
	}
	return nil
}

// Load fetches the record under key. Returns nil, nil if absent.
func (s *WalletStore) Load(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, walleterr.ErrStorage(err)
	}
	return val, nil
}

// Exists reports whether a record is stored under key.
func (s *WalletStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+key).Result()
	if err != nil {
		return false, walleterr.ErrStorage(err)
	}
	return n > 0, nil
}

// Delete removes the record under key. Deleting an absent key is not an
// error.
func (s *WalletStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return walleterr.ErrStorage(err)
	}
	return nil
}
