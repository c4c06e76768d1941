package domain

import (
	"crypto/sha256"
	"encoding/binary"
	"time"

	"utxo-wallet-core/pkg/walleterr"
)

// BlockHeader is the proof-of-work block header.
// Timestamp is Unix seconds; Bits is the compact difficulty encoding.
type BlockHeader struct {
	Version      uint32   `json:"version"`
	PreviousHash [32]byte `json:"previous_hash"`
	MerkleRoot   [32]byte `json:"merkle_root"`
	Timestamp    uint64   `json:"timestamp"`
	Bits         uint32   `json:"bits"`
	Nonce        uint64   `json:"nonce"`
	Height       uint64   `json:"height"`
}

// Hash returns the SHA-256 of the fixed-order little-endian serialization:
// version, previous_hash, merkle_root, timestamp, bits, nonce, height.
func (h *BlockHeader) Hash() [32]byte {
	hasher := sha256.New()

	var b4 [4]byte
	var b8 [8]byte

	binary.LittleEndian.PutUint32(b4[:], h.Version)
	hasher.Write(b4[:])
	hasher.Write(h.PreviousHash[:])
	hasher.Write(h.MerkleRoot[:])
	binary.LittleEndian.PutUint64(b8[:], h.Timestamp)
	hasher.Write(b8[:])
	binary.LittleEndian.PutUint32(b4[:], h.Bits)
	hasher.Write(b4[:])
	binary.LittleEndian.PutUint64(b8[:], h.Nonce)
	hasher.Write(b8[:])
	binary.LittleEndian.PutUint64(b8[:], h.Height)
	hasher.Write(b8[:])

	var out [32]byte
	copy(out[:], hasher.Sum(nil))
	return out
}

// MeetsDifficulty reports whether the header hash is numerically ≤ the
// target decoded from Bits, comparing bytes big-endian from the most
// significant byte. Equality on all bytes meets the target.
func (h *BlockHeader) MeetsDifficulty() bool {
	hash := h.Hash()
	target := CompactToTarget(h.Bits)

	for i := 0; i < 32; i++ {
		switch {
		case hash[i] < target[i]:
			return true
		case hash[i] > target[i]:
			return false
		}
	}
	return true
}

// CompactToTarget decodes the compact difficulty encoding (8-bit exponent,
// 24-bit mantissa) into a 32-byte big-endian target.
func CompactToTarget(bits uint32) [32]byte {
	exponent := int((bits >> 24) & 0xff)
	mantissa := bits & 0x00ffffff

	var target [32]byte

	if exponent <= 3 {
		v := mantissa >> (8 * uint(3-exponent))
		target[29] = byte(v >> 16)
		target[30] = byte(v >> 8)
		target[31] = byte(v)
	} else if exponent < 32 {
		start := 32 - exponent
		target[start] = byte(mantissa >> 16)
		target[start+1] = byte(mantissa >> 8)
		target[start+2] = byte(mantissa)
	}

	return target
}

// MerkleRoot folds the transaction hashes pairwise with SHA-256.
// An empty sequence yields 32 zero bytes. Each leaf is the transaction hash
// truncated or zero-padded to 32 bytes. Odd levels duplicate their last
// element as its own pair partner.
func MerkleRoot(transactions []SignedTransaction) [32]byte {
	if len(transactions) == 0 {
		return [32]byte{}
	}

	hashes := make([][32]byte, len(transactions))
	for i := range transactions {
		n := len(transactions[i].Hash)
		if n > 32 {
			n = 32
		}
		copy(hashes[i][:], transactions[i].Hash[:n])
	}

	for len(hashes) > 1 {
		if len(hashes)%2 == 1 {
			hashes = append(hashes, hashes[len(hashes)-1])
		}

		next := make([][32]byte, 0, len(hashes)/2)
		for i := 0; i < len(hashes); i += 2 {
			hasher := sha256.New()
			hasher.Write(hashes[i][:])
			hasher.Write(hashes[i+1][:])

			var parent [32]byte
			copy(parent[:], hasher.Sum(nil))
			next = append(next, parent)
		}
		hashes = next
	}

	return hashes[0]
}

// Block is an immutable-once-validated set of transactions under one header.
type Block struct {
	Header       BlockHeader         `json:"header"`
	Transactions []SignedTransaction `json:"transactions"`
}

// NewBlock assembles a block over transactions, computing the merkle root
// and stamping the current time. The nonce starts at zero; mining is the
// miner service's job.
func NewBlock(previousHash [32]byte, transactions []SignedTransaction, height uint64, bits uint32) *Block {
	return &Block{
		Header: BlockHeader{
			Version:      1,
			PreviousHash: previousHash,
			MerkleRoot:   MerkleRoot(transactions),
			Timestamp:    uint64(time.Now().UTC().Unix()),
			Bits:         bits,
			Nonce:        0,
			Height:       height,
		},
		Transactions: transactions,
	}
}

// Hash returns the header hash.
func (b *Block) Hash() [32]byte {
	return b.Header.Hash()
}

// Validate checks proof of work, merkle-root consistency, and that every
// transaction carries at least one input and one output.
func (b *Block) Validate() error {
	if !b.Header.MeetsDifficulty() {
		return walleterr.ErrInvalidProofOfWork()
	}

	if MerkleRoot(b.Transactions) != b.Header.MerkleRoot {
		return walleterr.ErrInvalidMerkleRoot()
	}

	for i := range b.Transactions {
		if len(b.Transactions[i].Inputs) == 0 {
			return walleterr.ErrEmptyTransaction("transaction has no inputs")
		}
		if len(b.Transactions[i].Outputs) == 0 {
			return walleterr.ErrEmptyTransaction("transaction has no outputs")
		}
	}

	return nil
}
