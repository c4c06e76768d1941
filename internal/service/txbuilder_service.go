package service

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"utxo-wallet-core/internal/core/domain"
	"utxo-wallet-core/internal/core/ports"
	"utxo-wallet-core/pkg/walleterr"
)

// TransactionBuilder assembles inputs and outputs into a signed transaction.
// The zero value is not usable; construct with NewTransactionBuilder.
type TransactionBuilder struct {
	inputs  []domain.TransactionInput
	outputs []domain.TransactionOutput
	fee     uint64
}

// NewTransactionBuilder creates an empty builder.
func NewTransactionBuilder() *TransactionBuilder {
	return &TransactionBuilder{}
}

// AddInput appends an input spending a previous output.
func (b *TransactionBuilder) AddInput(in domain.TransactionInput) *TransactionBuilder {
	b.inputs = append(b.inputs, in)
	return b
}

// AddOutput appends an output crediting a recipient.
func (b *TransactionBuilder) AddOutput(out domain.TransactionOutput) *TransactionBuilder {
	b.outputs = append(b.outputs, out)
	return b
}

// SetFee sets the transaction fee.
func (b *TransactionBuilder) SetFee(fee uint64) *TransactionBuilder {
	b.fee = fee
	return b
}

// TotalInput sums the input amounts.
func (b *TransactionBuilder) TotalInput() uint64 {
	var sum uint64
	for _, in := range b.inputs {
		sum += in.Amount
	}
	return sum
}

// TotalOutput sums the output amounts.
func (b *TransactionBuilder) TotalOutput() uint64 {
	var sum uint64
	for _, out := range b.outputs {
		sum += out.Amount
	}
	return sum
}

// Validate checks the builder holds a well-formed, fully funded transaction:
// at least one input, at least one output, and inputs covering outputs + fee.
func (b *TransactionBuilder) Validate() error {
	if len(b.inputs) == 0 {
		return walleterr.ErrNoInputs()
	}
	if len(b.outputs) == 0 {
		return walleterr.ErrNoOutputs()
	}

	required := b.TotalOutput() + b.fee
	available := b.TotalInput()
	if available < required {
		return walleterr.ErrInsufficientFunds(required, available)
	}
	return nil
}

// CreateTransactionHash computes the canonical transaction digest: a single
// running SHA-256 over every input field, every output field, and the fee, in
// order. Integers are hashed little-endian; strings as their raw bytes.
func CreateTransactionHash(inputs []domain.TransactionInput, outputs []domain.TransactionOutput, fee uint64) []byte {
	h := sha256.New()

	var buf8 [8]byte
	var buf4 [4]byte

	for _, in := range inputs {
		h.Write([]byte(in.PreviousOutput.TxID))
		binary.LittleEndian.PutUint32(buf4[:], in.PreviousOutput.OutputIndex)
		h.Write(buf4[:])
		h.Write(in.Signature)
		h.Write(in.PublicKey[:])
		binary.LittleEndian.PutUint64(buf8[:], in.Amount)
		h.Write(buf8[:])
	}

	for _, out := range outputs {
		binary.LittleEndian.PutUint64(buf8[:], out.Amount)
		h.Write(buf8[:])
		h.Write([]byte(out.RecipientAddress))
		h.Write(out.Script)
	}

	binary.LittleEndian.PutUint64(buf8[:], fee)
	h.Write(buf8[:])

	return h.Sum(nil)
}

// BuildAndSign validates the transaction, computes its canonical hash, and
// signs the hash with the named key. The transaction ID is the lowercase hex
// form of the hash.
func (b *TransactionBuilder) BuildAndSign(keys ports.KeyService, keyName string) (*domain.SignedTransaction, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	hash := CreateTransactionHash(b.inputs, b.outputs, b.fee)

	sig, err := keys.SignWithKey(keyName, hash)
	if err != nil {
		return nil, err
	}

	inputs := make([]domain.TransactionInput, len(b.inputs))
	copy(inputs, b.inputs)
	outputs := make([]domain.TransactionOutput, len(b.outputs))
	copy(outputs, b.outputs)

	return &domain.SignedTransaction{
		ID:        hex.EncodeToString(hash),
		Inputs:    inputs,
		Outputs:   outputs,
		Fee:       b.fee,
		Signature: sig,
		Hash:      hash,
	}, nil
}
