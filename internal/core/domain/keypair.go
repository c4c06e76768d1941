package domain

import (
	"crypto/ed25519"
	"crypto/rand"

	"utxo-wallet-core/pkg/walleterr"
)

// KeyPair is a signing identity. It exclusively owns the private key
// material; the address is derived from the public key.
type KeyPair struct {
	PublicKey  ed25519.PublicKey
	PrivateKey ed25519.PrivateKey
	Address    Address
}

// GenerateKeyPair creates a fresh random signing identity.
func GenerateKeyPair() (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, walleterr.ErrSignatureFailure(err)
	}
	return &KeyPair{
		PublicKey:  pub,
		PrivateKey: priv,
		Address:    AddressFromPublicKey(pub),
	}, nil
}

// KeyPairFromSecret rebuilds a signing identity from a 32-byte seed.
func KeyPairFromSecret(secret []byte) (*KeyPair, error) {
	if len(secret) != ed25519.SeedSize {
		return nil, walleterr.ErrInvalidKeyLength(len(secret))
	}

	priv := ed25519.NewKeyFromSeed(secret)
	pub := priv.Public().(ed25519.PublicKey)

	return &KeyPair{
		PublicKey:  pub,
		PrivateKey: priv,
		Address:    AddressFromPublicKey(pub),
	}, nil
}

// Sign produces a deterministic ed25519 signature over message.
func (kp *KeyPair) Sign(message []byte) []byte {
	return ed25519.Sign(kp.PrivateKey, message)
}

// Verify checks an ed25519 signature over message.
func (kp *KeyPair) Verify(message, signature []byte) bool {
	if len(signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(kp.PublicKey, message, signature)
}

// SecretBytes returns the 32-byte seed of the private key.
func (kp *KeyPair) SecretBytes() []byte {
	return kp.PrivateKey.Seed()
}

// PublicBytes returns the raw 32-byte public key.
func (kp *KeyPair) PublicBytes() [32]byte {
	var out [32]byte
	copy(out[:], kp.PublicKey)
	return out
}
