package walleterr

import (
	"errors"
	"fmt"
)

// WalletError is a structured error carried across the wallet core.
// Every failure is returned as a value; nothing in the core panics on
// malformed input.
type WalletError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Err     error  `json:"-"` // Wrapped internal error (not exposed to callers' users)

	// Set only for TX_003 (insufficient funds). Recoverable: the caller may
	// retry with different inputs or a lower fee.
	Required  uint64 `json:"required,omitempty"`
	Available uint64 `json:"available,omitempty"`
}

func (e *WalletError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *WalletError) Unwrap() error {
	return e.Err
}

// New creates a new WalletError.
func New(code string, message string) *WalletError {
	return &WalletError{Code: code, Message: message}
}

// Wrap wraps an internal error with a WalletError.
func Wrap(code string, message string, err error) *WalletError {
	return &WalletError{Code: code, Message: message, Err: err}
}

// HasCode reports whether err is (or wraps) a WalletError with the given code.
func HasCode(err error, code string) bool {
	var we *WalletError
	if errors.As(err, &we) {
		return we.Code == code
	}
	return false
}

// Error codes.
const (
	CodeCryptoKeyLength   = "CRYPTO_001"
	CodeCryptoSignature   = "CRYPTO_002"
	CodeCryptoMnemonic    = "CRYPTO_003"
	CodeAddressEncoding   = "ADDR_001"
	CodeAddressLength     = "ADDR_002"
	CodeTxNoInputs        = "TX_001"
	CodeTxNoOutputs       = "TX_002"
	CodeInsufficientFunds = "TX_003"
	CodeTxAlreadySpent    = "TX_004"
	CodeTxNotFound        = "TX_005"
	CodeBlockPoW          = "BLOCK_001"
	CodeBlockMerkle       = "BLOCK_002"
	CodeBlockEmptyTx      = "BLOCK_003"
	CodeConsensus         = "CONSENSUS_001"
	CodeKeyNotFound       = "KEY_001"
	CodeKeyExists         = "KEY_002"
	CodeNoteNotFound      = "NOTE_001"
	CodeStorage           = "STORE_001"
	CodeNetwork           = "NET_001"
)

// ---- Cryptography (CRYPTO) ----

func ErrInvalidKeyLength(got int) *WalletError {
	return New(CodeCryptoKeyLength, fmt.Sprintf("invalid secret key length: got %d, want 32", got))
}

func ErrSignatureFailure(err error) *WalletError {
	return Wrap(CodeCryptoSignature, "signature operation failed", err)
}

func ErrInvalidMnemonic(err error) *WalletError {
	return Wrap(CodeCryptoMnemonic, "invalid mnemonic", err)
}

func ErrKeyDerivation(err error) *WalletError {
	return Wrap(CodeCryptoMnemonic, "key derivation failed", err)
}

// ---- Addresses (ADDR) ----

func ErrAddressEncoding(err error) *WalletError {
	return Wrap(CodeAddressEncoding, "malformed base58 address", err)
}

func ErrAddressLength(got int) *WalletError {
	return New(CodeAddressLength, fmt.Sprintf("invalid address length: got %d, want 32", got))
}

// ---- Transactions (TX) ----

func ErrNoInputs() *WalletError {
	return New(CodeTxNoInputs, "no inputs provided")
}

func ErrNoOutputs() *WalletError {
	return New(CodeTxNoOutputs, "no outputs provided")
}

func ErrInsufficientFunds(required, available uint64) *WalletError {
	return &WalletError{
		Code:      CodeInsufficientFunds,
		Message:   fmt.Sprintf("insufficient funds: required %d, available %d", required, available),
		Required:  required,
		Available: available,
	}
}

func ErrNoteAlreadySpent(id string) *WalletError {
	return New(CodeTxAlreadySpent, fmt.Sprintf("note %s already spent", id))
}

func ErrTransactionNotFound(txID string) *WalletError {
	return New(CodeTxNotFound, fmt.Sprintf("transaction %s not found", txID))
}

// ---- Blocks & consensus (BLOCK / CONSENSUS) ----

func ErrInvalidProofOfWork() *WalletError {
	return New(CodeBlockPoW, "invalid proof of work")
}

func ErrInvalidMerkleRoot() *WalletError {
	return New(CodeBlockMerkle, "invalid merkle root")
}

func ErrEmptyTransaction(reason string) *WalletError {
	return New(CodeBlockEmptyTx, reason)
}

func ErrMiningExhausted() *WalletError {
	return New(CodeConsensus, "failed to find valid nonce")
}

func ErrMiningCancelled(err error) *WalletError {
	return Wrap(CodeConsensus, "mining cancelled", err)
}

// ---- Key registry (KEY / NOTE) ----

func ErrKeyNotFound(name string) *WalletError {
	return New(CodeKeyNotFound, fmt.Sprintf("key %q not found", name))
}

func ErrKeyExists(name string) *WalletError {
	return New(CodeKeyExists, fmt.Sprintf("key %q already exists", name))
}

func ErrNoteNotFound(id string) *WalletError {
	return New(CodeNoteNotFound, fmt.Sprintf("note %s not found", id))
}

// ---- Collaborators (STORE / NET) ----

func ErrStorage(err error) *WalletError {
	return Wrap(CodeStorage, "storage operation failed", err)
}

func ErrNetwork(err error) *WalletError {
	return Wrap(CodeNetwork, "network operation failed", err)
}
