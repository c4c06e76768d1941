package domain

import (
	"time"

	"github.com/google/uuid"
)

// Balance holds the per-address amount buckets.
type Balance struct {
	Confirmed   uint64 `json:"confirmed"`
	Unconfirmed uint64 `json:"unconfirmed"`
	Locked      uint64 `json:"locked"`
}

// Total returns confirmed + unconfirmed.
func (b Balance) Total() uint64 {
	return b.Confirmed + b.Unconfirmed
}

// Available returns confirmed − locked, saturating at zero.
func (b Balance) Available() uint64 {
	if b.Locked >= b.Confirmed {
		return 0
	}
	return b.Confirmed - b.Locked
}

// Note is a single transaction output (UTXO) visible to the wallet.
// Notes are never deleted; spending transitions Spent false→true exactly once.
// A nil BlockHeight means the creating transaction is not yet confirmed.
type Note struct {
	ID          uuid.UUID `json:"id"`
	Address     Address   `json:"address"`
	Amount      uint64    `json:"amount"`
	BlockHeight *uint64   `json:"block_height,omitempty"`
	SourceTxID  string    `json:"source_tx_id"`
	OutputIndex uint32    `json:"output_index"`
	Spent       bool      `json:"spent"`
	Locked      bool      `json:"locked"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsConfirmed reports whether the note's creating transaction is in a block.
func (n *Note) IsConfirmed() bool {
	return n.BlockHeight != nil
}

// Spendable reports whether the note can back a new transaction input:
// unspent, unlocked, and confirmed.
func (n *Note) Spendable() bool {
	return !n.Spent && !n.Locked && n.IsConfirmed()
}
