package service

import (
	"context"
	"encoding/json"
	"time"

	"utxo-wallet-core/internal/core/domain"
	"utxo-wallet-core/internal/core/ports"
	"utxo-wallet-core/pkg/walleterr"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Storage key for the wallet state snapshot.
const walletSnapshotKey = "wallet:state"

// walletSnapshot is the persisted wallet state: the full note set plus the
// transaction history.
type walletSnapshot struct {
	Notes        []domain.Note        `json:"notes"`
	Transactions []domain.Transaction `json:"transactions"`
	SavedAt      time.Time            `json:"saved_at"`
}

// WalletService orchestrates the send/confirm/receive flows across the key
// registry, the ledger, and the transaction history. Collaborators that reach
// outside the process (storage, node) are injected ports.
type WalletService struct {
	keys   ports.KeyService
	ledger ports.LedgerService
	txs    ports.TransactionService
	store  ports.WalletStore
	node   ports.NodeClient
	log    zerolog.Logger
}

// NewWalletService wires the wallet orchestrator.
func NewWalletService(
	keys ports.KeyService,
	ledger ports.LedgerService,
	txs ports.TransactionService,
	store ports.WalletStore,
	node ports.NodeClient,
	log zerolog.Logger,
) *WalletService {
	return &WalletService{
		keys:   keys,
		ledger: ledger,
		txs:    txs,
		store:  store,
		node:   node,
		log:    log,
	}
}

// Send builds, signs, and broadcasts a payment of amount to recipient, funded
// by keyName's spendable notes. Ledger and history are mutated only after the
// broadcast succeeds; a failed broadcast leaves the wallet unchanged.
func (s *WalletService) Send(ctx context.Context, keyName string, recipient domain.Address, amount, fee uint64) (domain.Transaction, error) {
	kp, err := s.keys.GetKey(keyName)
	if err != nil {
		return domain.Transaction{}, err
	}

	notes, err := s.ledger.GetSpendableNotes(kp.Address, amount+fee)
	if err != nil {
		return domain.Transaction{}, err
	}

	builder := NewTransactionBuilder().SetFee(fee)
	var totalIn uint64
	for _, n := range notes {
		builder.AddInput(domain.TransactionInput{
			PreviousOutput: domain.OutPoint{TxID: n.SourceTxID, OutputIndex: n.OutputIndex},
			PublicKey:      kp.PublicBytes(),
			Amount:         n.Amount,
		})
		totalIn += n.Amount
	}

	builder.AddOutput(domain.TransactionOutput{
		Amount:           amount,
		RecipientAddress: recipient.String(),
	})
	change := totalIn - amount - fee
	if change > 0 {
		builder.AddOutput(domain.TransactionOutput{
			Amount:           change,
			RecipientAddress: kp.Address.String(),
		})
	}

	signedTx, err := builder.BuildAndSign(s.keys, keyName)
	if err != nil {
		return domain.Transaction{}, err
	}

	raw, err := json.Marshal(signedTx)
	if err != nil {
		return domain.Transaction{}, walleterr.ErrNetwork(err)
	}
	if err := s.node.Broadcast(ctx, raw); err != nil {
		s.log.Error().Err(err).Str("tx_id", signedTx.ID).Msg("broadcast failed")
		return domain.Transaction{}, walleterr.ErrNetwork(err)
	}

	tx := s.txs.AddPendingTransaction(*signedTx, true)

	for _, n := range notes {
		if err := s.ledger.SpendNote(n.ID); err != nil {
			// Selection returned this note spendable under the ledger lock;
			// a failure here means a concurrent spend raced us.
			s.log.Error().Err(err).Str("note_id", n.ID.String()).Msg("spend after broadcast failed")
		}
	}

	if change > 0 {
		if err := s.ledger.AddNote(domain.Note{
			ID:          uuid.New(),
			Address:     kp.Address,
			Amount:      change,
			SourceTxID:  signedTx.ID,
			OutputIndex: 1,
			CreatedAt:   time.Now().UTC(),
		}); err != nil {
			s.log.Error().Err(err).Str("tx_id", signedTx.ID).Msg("recording change note failed")
		}
	}

	s.persist(ctx)

	s.log.Info().
		Str("tx_id", tx.ID).
		Str("recipient", recipient.String()).
		Uint64("amount", amount).
		Uint64("fee", fee).
		Uint64("change", change).
		Msg("payment sent")
	return tx, nil
}

// HandleConfirmation applies a block confirmation for txID at blockHeight:
// the history entry moves to CONFIRMED and the transaction's unconfirmed
// notes are promoted.
func (s *WalletService) HandleConfirmation(ctx context.Context, txID string, blockHeight uint64) (domain.Transaction, error) {
	tx, err := s.txs.ConfirmTransaction(txID, blockHeight)
	if err != nil {
		return domain.Transaction{}, err
	}

	s.ledger.ConfirmNotes(txID, blockHeight)
	s.persist(ctx)
	return tx, nil
}

// Receive records the outputs of an externally observed transaction that pay
// one of the wallet's addresses, as unconfirmed notes. Returns the number of
// notes credited.
func (s *WalletService) Receive(ctx context.Context, signedTx domain.SignedTransaction) (int, error) {
	mine := make(map[string]domain.Address)
	for _, addr := range s.keys.Addresses() {
		mine[addr.String()] = addr
	}

	var credited int
	for i, out := range signedTx.Outputs {
		addr, ok := mine[out.RecipientAddress]
		if !ok {
			continue
		}
		if err := s.ledger.AddNote(domain.Note{
			ID:          uuid.New(),
			Address:     addr,
			Amount:      out.Amount,
			SourceTxID:  signedTx.ID,
			OutputIndex: uint32(i),
			CreatedAt:   time.Now().UTC(),
		}); err != nil {
			return credited, err
		}
		credited++
	}

	if credited > 0 {
		s.txs.AddPendingTransaction(signedTx, false)
		s.persist(ctx)
		s.log.Info().
			Str("tx_id", signedTx.ID).
			Int("notes", credited).
			Msg("incoming transaction recorded")
	}
	return credited, nil
}

// Balance returns the aggregate balance across all wallet addresses.
func (s *WalletService) Balance() domain.Balance {
	return s.ledger.GetTotalBalance()
}

// History returns the transaction history, newest first.
func (s *WalletService) History() []domain.Transaction {
	return s.txs.GetAllTransactions()
}

// persist snapshots the wallet state to the injected store. Persistence is
// best-effort: the in-memory state is authoritative and a storage failure
// only logs.
func (s *WalletService) persist(ctx context.Context) {
	snap := walletSnapshot{
		Notes:        s.ledger.AllNotes(),
		Transactions: s.txs.GetAllTransactions(),
		SavedAt:      time.Now().UTC(),
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		s.log.Error().Err(err).Msg("snapshot encode failed")
		return
	}
	if err := s.store.Save(ctx, walletSnapshotKey, raw); err != nil {
		s.log.Error().Err(err).Msg("snapshot save failed")
	}
}

// Restore loads a previously saved snapshot and replays its notes into the
// ledger. Returns false if no snapshot exists.
func (s *WalletService) Restore(ctx context.Context) (bool, error) {
	raw, err := s.store.Load(ctx, walletSnapshotKey)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}

	var snap walletSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return false, walleterr.ErrStorage(err)
	}

	for _, n := range snap.Notes {
		if err := s.ledger.AddNote(n); err != nil {
			return false, err
		}
	}

	s.log.Info().
		Int("notes", len(snap.Notes)).
		Time("saved_at", snap.SavedAt).
		Msg("wallet state restored")
	return true, nil
}
