package service

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"testing"

	"utxo-wallet-core/internal/core/domain"
	"utxo-wallet-core/pkg/walleterr"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builderInput(txID string, index uint32, amount uint64) domain.TransactionInput {
	var pub [32]byte
	for i := range pub {
		pub[i] = byte(index + 1)
	}
	return domain.TransactionInput{
		PreviousOutput: domain.OutPoint{TxID: txID, OutputIndex: index},
		PublicKey:      pub,
		Amount:         amount,
	}
}

func builderOutput(recipient string, amount uint64) domain.TransactionOutput {
	return domain.TransactionOutput{Amount: amount, RecipientAddress: recipient}
}

func TestTransactionBuilder_Validate(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *TransactionBuilder
		wantCode string
	}{
		{
			name: "valid",
			build: func() *TransactionBuilder {
				return NewTransactionBuilder().
					AddInput(builderInput("a", 0, 150)).
					AddOutput(builderOutput("recipient", 140)).
					SetFee(10)
			},
		},
		{
			name: "no inputs",
			build: func() *TransactionBuilder {
				return NewTransactionBuilder().AddOutput(builderOutput("recipient", 10))
			},
			wantCode: walleterr.CodeTxNoInputs,
		},
		{
			name: "no outputs",
			build: func() *TransactionBuilder {
				return NewTransactionBuilder().AddInput(builderInput("a", 0, 10))
			},
			wantCode: walleterr.CodeTxNoOutputs,
		},
		{
			name: "underfunded by one",
			build: func() *TransactionBuilder {
				return NewTransactionBuilder().
					AddInput(builderInput("a", 0, 149)).
					AddOutput(builderOutput("recipient", 140)).
					SetFee(10)
			},
			wantCode: walleterr.CodeInsufficientFunds,
		},
		{
			name: "exactly funded",
			build: func() *TransactionBuilder {
				return NewTransactionBuilder().
					AddInput(builderInput("a", 0, 150)).
					AddOutput(builderOutput("recipient", 150)).
					SetFee(0)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build().Validate()
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, walleterr.HasCode(err, tt.wantCode))
		})
	}
}

func TestTransactionBuilder_Validate_Shortfall(t *testing.T) {
	err := NewTransactionBuilder().
		AddInput(builderInput("a", 0, 100)).
		AddOutput(builderOutput("recipient", 140)).
		SetFee(10).
		Validate()
	require.Error(t, err)

	var we *walleterr.WalletError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, uint64(150), we.Required)
	assert.Equal(t, uint64(100), we.Available)
}

func TestCreateTransactionHash_Deterministic(t *testing.T) {
	inputs := []domain.TransactionInput{builderInput("prev-tx", 3, 100)}
	outputs := []domain.TransactionOutput{builderOutput("recipient-addr", 90)}

	h1 := CreateTransactionHash(inputs, outputs, 10)
	h2 := CreateTransactionHash(inputs, outputs, 10)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, sha256.Size)
}

func TestCreateTransactionHash_FieldSensitivity(t *testing.T) {
	base := func() ([]domain.TransactionInput, []domain.TransactionOutput, uint64) {
		return []domain.TransactionInput{builderInput("prev-tx", 3, 100)},
			[]domain.TransactionOutput{builderOutput("recipient-addr", 90)},
			10
	}

	ins, outs, fee := base()
	ref := CreateTransactionHash(ins, outs, fee)

	t.Run("tx id", func(t *testing.T) {
		ins, outs, fee := base()
		ins[0].PreviousOutput.TxID = "prev-ty"
		assert.NotEqual(t, ref, CreateTransactionHash(ins, outs, fee))
	})
	t.Run("output index", func(t *testing.T) {
		ins, outs, fee := base()
		ins[0].PreviousOutput.OutputIndex = 4
		assert.NotEqual(t, ref, CreateTransactionHash(ins, outs, fee))
	})
	t.Run("input amount", func(t *testing.T) {
		ins, outs, fee := base()
		ins[0].Amount = 101
		assert.NotEqual(t, ref, CreateTransactionHash(ins, outs, fee))
	})
	t.Run("public key", func(t *testing.T) {
		ins, outs, fee := base()
		ins[0].PublicKey[0] ^= 0x01
		assert.NotEqual(t, ref, CreateTransactionHash(ins, outs, fee))
	})
	t.Run("output amount", func(t *testing.T) {
		ins, outs, fee := base()
		outs[0].Amount = 91
		assert.NotEqual(t, ref, CreateTransactionHash(ins, outs, fee))
	})
	t.Run("recipient", func(t *testing.T) {
		ins, outs, fee := base()
		outs[0].RecipientAddress = "recipient-adds"
		assert.NotEqual(t, ref, CreateTransactionHash(ins, outs, fee))
	})
	t.Run("script", func(t *testing.T) {
		ins, outs, fee := base()
		outs[0].Script = []byte{0x01}
		assert.NotEqual(t, ref, CreateTransactionHash(ins, outs, fee))
	})
	t.Run("fee", func(t *testing.T) {
		ins, outs, _ := base()
		assert.NotEqual(t, ref, CreateTransactionHash(ins, outs, 11))
	})
}

// Recomputes the digest field by field to pin the canonical layout.
func TestCreateTransactionHash_Reference(t *testing.T) {
	in := builderInput("prev-tx", 3, 100)
	in.Signature = []byte{0xaa, 0xbb}
	out := builderOutput("recipient-addr", 90)
	out.Script = []byte{0x51}

	got := CreateTransactionHash(
		[]domain.TransactionInput{in},
		[]domain.TransactionOutput{out},
		10,
	)

	h := sha256.New()
	h.Write([]byte("prev-tx"))
	h.Write(binary.LittleEndian.AppendUint32(nil, 3))
	h.Write([]byte{0xaa, 0xbb})
	h.Write(in.PublicKey[:])
	h.Write(binary.LittleEndian.AppendUint64(nil, 100))
	h.Write(binary.LittleEndian.AppendUint64(nil, 90))
	h.Write([]byte("recipient-addr"))
	h.Write([]byte{0x51})
	h.Write(binary.LittleEndian.AppendUint64(nil, 10))

	assert.Equal(t, h.Sum(nil), got)
}

func TestTransactionBuilder_BuildAndSign(t *testing.T) {
	keys := NewKeyManager(zerolog.Nop())
	_, err := keys.GenerateKey("primary")
	require.NoError(t, err)

	tx, err := NewTransactionBuilder().
		AddInput(builderInput("prev-1", 0, 100)).
		AddInput(builderInput("prev-2", 0, 50)).
		AddOutput(builderOutput("recipient", 140)).
		SetFee(10).
		BuildAndSign(keys, "primary")
	require.NoError(t, err)

	assert.Equal(t, hex.EncodeToString(tx.Hash), tx.ID)
	assert.Equal(t, uint64(10), tx.Fee)
	assert.Len(t, tx.Inputs, 2)
	assert.Len(t, tx.Outputs, 1)

	kp, err := keys.GetKey("primary")
	require.NoError(t, err)
	assert.True(t, kp.Verify(tx.Hash, tx.Signature))
}

func TestTransactionBuilder_BuildAndSign_Invalid(t *testing.T) {
	keys := NewKeyManager(zerolog.Nop())
	_, err := keys.GenerateKey("primary")
	require.NoError(t, err)

	_, err = NewTransactionBuilder().
		AddInput(builderInput("prev-1", 0, 10)).
		AddOutput(builderOutput("recipient", 140)).
		SetFee(10).
		BuildAndSign(keys, "primary")
	require.Error(t, err)
	assert.True(t, walleterr.HasCode(err, walleterr.CodeInsufficientFunds))
}

func TestTransactionBuilder_BuildAndSign_UnknownKey(t *testing.T) {
	keys := NewKeyManager(zerolog.Nop())

	_, err := NewTransactionBuilder().
		AddInput(builderInput("prev-1", 0, 100)).
		AddOutput(builderOutput("recipient", 90)).
		BuildAndSign(keys, "missing")
	require.Error(t, err)
	assert.True(t, walleterr.HasCode(err, walleterr.CodeKeyNotFound))
}
