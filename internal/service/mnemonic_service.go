package service

import (
	"crypto/sha512"
	"fmt"
	"io"

	"utxo-wallet-core/internal/core/domain"
	"utxo-wallet-core/pkg/walleterr"

	bip39 "github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/hkdf"
)

// HKDF domain-separation labels. These are part of the derived-key format:
// changing either invalidates every previously derived wallet key.
const (
	walletSeedInfo  = "utxo-wallet-seed"
	childKeyInfoFmt = "utxo-wallet-child-key-%d"
)

const mnemonicEntropyBits = 128

// GenerateMnemonic produces a fresh 12-word BIP39 mnemonic from 128 bits of
// entropy.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
	if err != nil {
		return "", walleterr.ErrKeyDerivation(err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", walleterr.ErrKeyDerivation(err)
	}
	return mnemonic, nil
}

// ValidateMnemonic checks the phrase against the BIP39 wordlist and checksum.
func ValidateMnemonic(phrase string) error {
	if _, err := bip39.EntropyFromMnemonic(phrase); err != nil {
		return walleterr.ErrInvalidMnemonic(err)
	}
	return nil
}

// MnemonicToSeed derives the wallet's 32-byte seed: the standard BIP39 seed
// (empty passphrase) expanded through HKDF-SHA512 with a fixed label.
func MnemonicToSeed(phrase string) ([32]byte, error) {
	var key [32]byte

	seed, err := bip39.NewSeedWithErrorChecking(phrase, "")
	if err != nil {
		return key, walleterr.ErrInvalidMnemonic(err)
	}

	r := hkdf.New(sha512.New, seed, nil, []byte(walletSeedInfo))
	if _, err := io.ReadFull(r, key[:]); err != nil {
		return key, walleterr.ErrKeyDerivation(err)
	}
	return key, nil
}

// KeyFromMnemonic builds a signing identity directly from a mnemonic phrase.
func KeyFromMnemonic(phrase string) (*domain.KeyPair, error) {
	seed, err := MnemonicToSeed(phrase)
	if err != nil {
		return nil, err
	}
	return domain.KeyPairFromSecret(seed[:])
}

// DeriveChildKey derives the index-th child key from a parent seed via
// HKDF-SHA512. Derivation is flat, not a hierarchical tree.
func DeriveChildKey(parentSeed [32]byte, index uint32) ([32]byte, error) {
	var child [32]byte

	info := fmt.Sprintf(childKeyInfoFmt, index)
	r := hkdf.New(sha512.New, parentSeed[:], nil, []byte(info))
	if _, err := io.ReadFull(r, child[:]); err != nil {
		return child, walleterr.ErrKeyDerivation(err)
	}
	return child, nil
}

// GenerateMasterKey creates a fresh master seed from new mnemonic entropy.
func GenerateMasterKey() ([32]byte, error) {
	mnemonic, err := GenerateMnemonic()
	if err != nil {
		return [32]byte{}, err
	}
	return MnemonicToSeed(mnemonic)
}
