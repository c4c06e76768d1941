package service

import (
	"sort"
	"sync"
	"time"

	"utxo-wallet-core/internal/core/domain"
	"utxo-wallet-core/pkg/walleterr"

	"github.com/rs/zerolog"
)

// TransactionManager implements ports.TransactionService: the wallet's view of
// transaction lifecycle, PENDING until a confirmation arrives, CONFIRMED
// after. Records are history entries, never deleted.
type TransactionManager struct {
	mu        sync.RWMutex
	pending   []domain.Transaction
	confirmed []domain.Transaction
	log       zerolog.Logger
}

// NewTransactionManager creates an empty transaction history.
func NewTransactionManager(log zerolog.Logger) *TransactionManager {
	return &TransactionManager{log: log}
}

// AddPendingTransaction records a freshly broadcast transaction as PENDING and
// returns the history entry.
func (m *TransactionManager) AddPendingTransaction(signedTx domain.SignedTransaction, isOutgoing bool) domain.Transaction {
	tx := domain.Transaction{
		ID:         signedTx.ID,
		Status:     domain.TransactionStatusPending,
		Amount:     signedTx.TotalOutput(),
		Fee:        signedTx.Fee,
		CreatedAt:  time.Now().UTC(),
		IsOutgoing: isOutgoing,
	}
	if len(signedTx.Outputs) > 0 {
		if addr, err := domain.ParseAddress(signedTx.Outputs[0].RecipientAddress); err == nil {
			tx.ToAddress = &addr
		}
	}

	m.mu.Lock()
	m.pending = append(m.pending, tx)
	m.mu.Unlock()

	m.log.Info().
		Str("tx_id", tx.ID).
		Uint64("amount", tx.Amount).
		Uint64("fee", tx.Fee).
		Bool("outgoing", isOutgoing).
		Msg("transaction pending")
	return tx
}

// ConfirmTransaction moves a pending transaction to CONFIRMED at blockHeight.
// Unknown IDs, including already-confirmed ones, fail with TX not found.
func (m *TransactionManager) ConfirmTransaction(txID string, blockHeight uint64) (domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.pending {
		if m.pending[i].ID != txID {
			continue
		}

		tx := m.pending[i]
		m.pending = append(m.pending[:i], m.pending[i+1:]...)

		now := time.Now().UTC()
		h := blockHeight
		tx.Status = domain.TransactionStatusConfirmed
		tx.BlockHeight = &h
		tx.ConfirmedAt = &now
		m.confirmed = append(m.confirmed, tx)

		m.log.Info().
			Str("tx_id", txID).
			Uint64("height", blockHeight).
			Msg("transaction confirmed")
		return tx, nil
	}

	return domain.Transaction{}, walleterr.ErrTransactionNotFound(txID)
}

// GetAllTransactions returns the full history, newest first.
func (m *TransactionManager) GetAllTransactions() []domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]domain.Transaction, 0, len(m.pending)+len(m.confirmed))
	all = append(all, m.pending...)
	all = append(all, m.confirmed...)

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	return all
}

// PendingTransactions returns the transactions still awaiting confirmation.
func (m *TransactionManager) PendingTransactions() []domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Transaction, len(m.pending))
	copy(out, m.pending)
	return out
}

// ConfirmedTransactions returns the confirmed transactions.
func (m *TransactionManager) ConfirmedTransactions() []domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Transaction, len(m.confirmed))
	copy(out, m.confirmed)
	return out
}
