package ports

import (
	"context"
)

// WalletStore persists wallet records as opaque serialized blobs keyed by
// name. Implementations live under internal/adapter/storage; the core never
// touches disk or network directly.
type WalletStore interface {
	Save(ctx context.Context, key string, record []byte) error
	// Load returns nil, nil if the key does not exist.
	Load(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

// NodeClient is the wallet's view of the network peer service.
// Confirmation notifications flow the other way: the node invokes
// WalletService.HandleConfirmation when a transaction lands in a block.
type NodeClient interface {
	Broadcast(ctx context.Context, rawTx []byte) error
}
