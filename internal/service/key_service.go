package service

import (
	"sort"
	"sync"

	"utxo-wallet-core/internal/core/domain"
	"utxo-wallet-core/pkg/walleterr"

	"github.com/rs/zerolog"
)

// KeyManager implements ports.KeyService: a named registry of signing
// identities. All key material stays inside this service; callers only ever
// see addresses and signatures.
type KeyManager struct {
	mu   sync.RWMutex
	keys map[string]*domain.KeyPair
	log  zerolog.Logger
}

// NewKeyManager creates an empty key registry.
func NewKeyManager(log zerolog.Logger) *KeyManager {
	return &KeyManager{
		keys: make(map[string]*domain.KeyPair),
		log:  log,
	}
}

// GenerateKey creates a fresh signing identity under name.
func (m *KeyManager) GenerateKey(name string) (domain.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.keys[name]; ok {
		return domain.Address{}, walleterr.ErrKeyExists(name)
	}

	kp, err := domain.GenerateKeyPair()
	if err != nil {
		return domain.Address{}, err
	}
	m.keys[name] = kp

	m.log.Info().Str("key", name).Str("address", kp.Address.String()).Msg("key generated")
	return kp.Address, nil
}

// ImportKey registers an identity rebuilt from a 32-byte secret.
func (m *KeyManager) ImportKey(name string, secret []byte) (domain.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.keys[name]; ok {
		return domain.Address{}, walleterr.ErrKeyExists(name)
	}

	kp, err := domain.KeyPairFromSecret(secret)
	if err != nil {
		return domain.Address{}, err
	}
	m.keys[name] = kp

	m.log.Info().Str("key", name).Str("address", kp.Address.String()).Msg("key imported")
	return kp.Address, nil
}

// GetKey returns the registered key pair.
func (m *KeyManager) GetKey(name string) (*domain.KeyPair, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	kp, ok := m.keys[name]
	if !ok {
		return nil, walleterr.ErrKeyNotFound(name)
	}
	return kp, nil
}

// SignWithKey signs message with the named key.
func (m *KeyManager) SignWithKey(name string, message []byte) ([]byte, error) {
	kp, err := m.GetKey(name)
	if err != nil {
		return nil, err
	}
	return kp.Sign(message), nil
}

// RemoveKey deletes the named identity from the registry.
func (m *KeyManager) RemoveKey(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.keys[name]; !ok {
		return walleterr.ErrKeyNotFound(name)
	}
	delete(m.keys, name)

	m.log.Info().Str("key", name).Msg("key removed")
	return nil
}

// ListKeys returns the registered key names, sorted for stable output.
func (m *KeyManager) ListKeys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.keys))
	for name := range m.keys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Addresses returns the addresses of all registered keys, ordered by name.
func (m *KeyManager) Addresses() []domain.Address {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.keys))
	for name := range m.keys {
		names = append(names, name)
	}
	sort.Strings(names)

	addrs := make([]domain.Address, 0, len(names))
	for _, name := range names {
		addrs = append(addrs, m.keys[name].Address)
	}
	return addrs
}
