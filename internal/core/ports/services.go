package ports

import (
	"context"

	"utxo-wallet-core/internal/core/domain"

	"github.com/google/uuid"
)

//go:generate mockgen -source=repositories.go -destination=mocks/mock_ports.go -package=mocks

// KeyService owns signing identities keyed by name.
type KeyService interface {
	GenerateKey(name string) (domain.Address, error)
	ImportKey(name string, secret []byte) (domain.Address, error)
	GetKey(name string) (*domain.KeyPair, error)
	SignWithKey(name string, message []byte) ([]byte, error)
	RemoveKey(name string) error
	ListKeys() []string
	Addresses() []domain.Address
}

// LedgerService tracks notes (UTXOs) and aggregates them into balances.
type LedgerService interface {
	AddNote(note domain.Note) error
	SpendNote(id uuid.UUID) error
	LockNote(id uuid.UUID) error
	UnlockNote(id uuid.UUID) error
	GetBalance(address domain.Address) domain.Balance
	GetTotalBalance() domain.Balance
	GetSpendableNotes(address domain.Address, amount uint64) ([]domain.Note, error)
	GetNotesForAddress(address domain.Address) []domain.Note
	ConfirmNotes(sourceTxID string, blockHeight uint64) int
	AllNotes() []domain.Note
}

// TransactionService tracks the pending/confirmed transaction lifecycle.
type TransactionService interface {
	AddPendingTransaction(signedTx domain.SignedTransaction, isOutgoing bool) domain.Transaction
	ConfirmTransaction(txID string, blockHeight uint64) (domain.Transaction, error)
	GetAllTransactions() []domain.Transaction
	PendingTransactions() []domain.Transaction
	ConfirmedTransactions() []domain.Transaction
}

// MiningService searches the nonce space for a header that meets its target.
// The search is cancellable through ctx.
type MiningService interface {
	Mine(ctx context.Context, block *domain.Block) error
}
