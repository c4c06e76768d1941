package service

import (
	"context"
	"testing"
	"time"

	"utxo-wallet-core/internal/core/domain"
	"utxo-wallet-core/pkg/walleterr"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Largest valid exponent: almost every hash meets the target, so mining
// succeeds within a handful of attempts.
const minerEasyBits = uint32(0x1fffffff)

// A three-byte target at the bottom of the range: no hash will ever meet it
// within a short test, which makes cancellation observable.
const minerHardBits = uint32(0x03000001)

func minerTestBlock(bits uint32) *domain.Block {
	tx := domain.SignedTransaction{
		ID:      "tx-mine",
		Hash:    []byte{0x01, 0x02, 0x03},
		Inputs:  []domain.TransactionInput{{Amount: 10}},
		Outputs: []domain.TransactionOutput{{Amount: 9, RecipientAddress: "r"}},
	}
	return domain.NewBlock([32]byte{}, []domain.SignedTransaction{tx}, 1, bits)
}

func TestMiner_Mine(t *testing.T) {
	m := NewMiner(zerolog.Nop())
	b := minerTestBlock(minerEasyBits)

	err := m.Mine(context.Background(), b)
	require.NoError(t, err)

	assert.True(t, b.Header.MeetsDifficulty())
	assert.NoError(t, b.Validate())
}

func TestMiner_Mine_Cancelled(t *testing.T) {
	m := NewMiner(zerolog.Nop())
	b := minerTestBlock(minerHardBits)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Mine(ctx, b)
	require.Error(t, err)
	assert.True(t, walleterr.HasCode(err, walleterr.CodeConsensus))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMiner_Mine_Timeout(t *testing.T) {
	m := NewMiner(zerolog.Nop())
	b := minerTestBlock(minerHardBits)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := m.Mine(ctx, b)
	require.Error(t, err)
	assert.True(t, walleterr.HasCode(err, walleterr.CodeConsensus))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// Cancellation is prompt, not bound to the progress interval.
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestMiner_OnProgress(t *testing.T) {
	m := NewMiner(zerolog.Nop())
	b := minerTestBlock(minerHardBits)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls int
	m.OnProgress = func(attempts uint64) {
		assert.Equal(t, uint64(0), attempts%minerProgressInterval)
		calls++
		if calls >= 2 {
			cancel()
		}
	}

	err := m.Mine(ctx, b)
	require.Error(t, err)
	assert.GreaterOrEqual(t, calls, 2)
}
