package walleterr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWalletError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *WalletError
		expected string
	}{
		{
			name:     "without wrapped error",
			err:      New(CodeKeyNotFound, `key "hot" not found`),
			expected: `[KEY_001] key "hot" not found`,
		},
		{
			name:     "with wrapped error",
			err:      Wrap(CodeStorage, "storage operation failed", fmt.Errorf("disk full")),
			expected: "[STORE_001] storage operation failed: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestWalletError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	err := ErrStorage(inner)

	assert.True(t, errors.Is(err, inner))
	assert.Nil(t, New(CodeKeyExists, "x").Unwrap())
}

func TestHasCode(t *testing.T) {
	err := ErrNoteAlreadySpent("abc")
	assert.True(t, HasCode(err, CodeTxAlreadySpent))
	assert.False(t, HasCode(err, CodeTxNotFound))

	wrapped := fmt.Errorf("context: %w", err)
	assert.True(t, HasCode(wrapped, CodeTxAlreadySpent))

	assert.False(t, HasCode(errors.New("plain"), CodeTxAlreadySpent))
	assert.False(t, HasCode(nil, CodeTxAlreadySpent))
}

func TestErrInsufficientFunds_Fields(t *testing.T) {
	err := ErrInsufficientFunds(150, 100)

	assert.Equal(t, CodeInsufficientFunds, err.Code)
	assert.Equal(t, uint64(150), err.Required)
	assert.Equal(t, uint64(100), err.Available)
	assert.Contains(t, err.Message, "required 150")
	assert.Contains(t, err.Message, "available 100")
}

func TestConstructorCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *WalletError
		code string
	}{
		{"InvalidKeyLength", ErrInvalidKeyLength(16), CodeCryptoKeyLength},
		{"InvalidMnemonic", ErrInvalidMnemonic(fmt.Errorf("bad checksum")), CodeCryptoMnemonic},
		{"AddressEncoding", ErrAddressEncoding(fmt.Errorf("bad char")), CodeAddressEncoding},
		{"AddressLength", ErrAddressLength(20), CodeAddressLength},
		{"NoInputs", ErrNoInputs(), CodeTxNoInputs},
		{"NoOutputs", ErrNoOutputs(), CodeTxNoOutputs},
		{"InvalidProofOfWork", ErrInvalidProofOfWork(), CodeBlockPoW},
		{"InvalidMerkleRoot", ErrInvalidMerkleRoot(), CodeBlockMerkle},
		{"MiningExhausted", ErrMiningExhausted(), CodeConsensus},
		{"KeyNotFound", ErrKeyNotFound("k"), CodeKeyNotFound},
		{"KeyExists", ErrKeyExists("k"), CodeKeyExists},
		{"NoteNotFound", ErrNoteNotFound("n"), CodeNoteNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}
