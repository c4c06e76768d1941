package domain

import (
	"time"
)

// OutPoint references a previous transaction output.
type OutPoint struct {
	TxID        string `json:"tx_id"`
	OutputIndex uint32 `json:"output_index"`
}

// TransactionInput spends a previous output.
// Amount is the value being spent from that output; it participates in the
// canonical hash and in fee arithmetic.
type TransactionInput struct {
	PreviousOutput OutPoint `json:"previous_output"`
	Signature      []byte   `json:"signature"`
	PublicKey      [32]byte `json:"public_key"`
	Amount         uint64   `json:"amount"`
}

// TransactionOutput credits RecipientAddress with Amount.
// RecipientAddress is the base58 text form; it enters the canonical hash as
// its raw string bytes.
type TransactionOutput struct {
	Amount           uint64 `json:"amount"`
	RecipientAddress string `json:"recipient_address"`
	Script           []byte `json:"script"`
}

// SignedTransaction is a fully built transaction ready for broadcast.
// ID is the lowercase hex encoding of Hash.
type SignedTransaction struct {
	ID        string              `json:"id"`
	Inputs    []TransactionInput  `json:"inputs"`
	Outputs   []TransactionOutput `json:"outputs"`
	Fee       uint64              `json:"fee"`
	Signature []byte              `json:"signature"`
	Hash      []byte              `json:"hash"`
}

// TotalOutput sums the output amounts.
func (tx *SignedTransaction) TotalOutput() uint64 {
	var sum uint64
	for _, o := range tx.Outputs {
		sum += o.Amount
	}
	return sum
}

// TransactionStatus is the lifecycle state of a history record.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusConfirmed TransactionStatus = "CONFIRMED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// Transaction is the user-facing history entry tracked by the transaction
// manager, distinct from the wire-level SignedTransaction.
type Transaction struct {
	ID          string            `json:"id"`
	Status      TransactionStatus `json:"status"`
	BlockHeight *uint64           `json:"block_height,omitempty"` // set when Status == CONFIRMED
	Amount      uint64            `json:"amount"`
	Fee         uint64            `json:"fee"`
	FromAddress *Address          `json:"from_address,omitempty"`
	ToAddress   *Address          `json:"to_address,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	ConfirmedAt *time.Time        `json:"confirmed_at,omitempty"`
	IsOutgoing  bool              `json:"is_outgoing"`
}

// IsTerminal reports whether the record can no longer change state.
func (t *Transaction) IsTerminal() bool {
	return t.Status == TransactionStatusConfirmed || t.Status == TransactionStatusFailed
}
