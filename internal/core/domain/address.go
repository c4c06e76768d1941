package domain

import (
	"crypto/ed25519"

	"utxo-wallet-core/pkg/walleterr"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// AddressSize is the raw byte length of an address (the ed25519 public key).
const AddressSize = 32

// Address is a wallet address: the raw 32-byte ed25519 public key.
// The canonical text form is the base58 encoding of those bytes.
// Equality is byte equality, so Address is directly usable as a map key.
type Address [AddressSize]byte

// AddressFromPublicKey derives the address owned by pub.
func AddressFromPublicKey(pub ed25519.PublicKey) Address {
	var a Address
	copy(a[:], pub)
	return a
}

// ParseAddress decodes the canonical base58 text form.
// Fails if the input is not valid base58 or decodes to a length other than 32.
func ParseAddress(s string) (Address, error) {
	decoded := base58.Decode(s)
	if len(decoded) == 0 && s != "" {
		return Address{}, walleterr.New(walleterr.CodeAddressEncoding, "malformed base58 address")
	}
	if len(decoded) != AddressSize {
		return Address{}, walleterr.ErrAddressLength(len(decoded))
	}

	var a Address
	copy(a[:], decoded)
	return a, nil
}

// String returns the canonical base58 text form.
// ParseAddress(a.String()) == a for every address.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// Bytes returns a copy of the raw address bytes.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressSize)
	copy(b, a[:])
	return b
}

// PublicKey returns the address bytes as an ed25519 public key.
func (a Address) PublicKey() ed25519.PublicKey {
	return ed25519.PublicKey(a.Bytes())
}
