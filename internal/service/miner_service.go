package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"utxo-wallet-core/internal/core/domain"
	"utxo-wallet-core/pkg/walleterr"

	"github.com/rs/zerolog"
)

const (
	// Nonces tried between context checks. Small enough to keep cancellation
	// latency under a millisecond on commodity hardware.
	minerCancelCheckInterval = 4096

	// Nonces tried between timestamp refreshes and progress reports.
	minerProgressInterval = 100_000
)

// Miner implements ports.MiningService: a single-threaded, cancellable
// proof-of-work search over the header nonce space.
type Miner struct {
	log zerolog.Logger

	// OnProgress, when set, is invoked from the mining goroutine every
	// minerProgressInterval attempts with the running attempt count.
	OnProgress func(attempts uint64)
}

// NewMiner creates a miner.
func NewMiner(log zerolog.Logger) *Miner {
	return &Miner{log: log}
}

// Mine searches nonces from zero upward until the header hash meets its
// target, mutating block.Header.Nonce in place. The block's timestamp is
// refreshed periodically so a long search stays current. Returns a consensus
// error wrapping ctx.Err() on cancellation, or a consensus error if the
// entire nonce space is exhausted.
func (m *Miner) Mine(ctx context.Context, block *domain.Block) error {
	start := time.Now()
	var attempts uint64

	m.log.Info().
		Uint64("height", block.Header.Height).
		Str("bits", fmt.Sprintf("%#08x", block.Header.Bits)).
		Msg("mining started")

	for nonce := uint64(0); ; nonce++ {
		if attempts%minerCancelCheckInterval == 0 {
			select {
			case <-ctx.Done():
				m.log.Warn().
					Uint64("height", block.Header.Height).
					Uint64("attempts", attempts).
					Msg("mining cancelled")
				return walleterr.ErrMiningCancelled(ctx.Err())
			default:
			}
		}
		if attempts > 0 && attempts%minerProgressInterval == 0 {
			block.Header.Timestamp = uint64(time.Now().UTC().Unix())
			if m.OnProgress != nil {
				m.OnProgress(attempts)
			}
		}

		block.Header.Nonce = nonce
		attempts++

		if block.Header.MeetsDifficulty() {
			m.log.Info().
				Uint64("height", block.Header.Height).
				Uint64("nonce", nonce).
				Uint64("attempts", attempts).
				Dur("elapsed", time.Since(start)).
				Msg("block mined")
			return nil
		}

		if nonce == math.MaxUint64 {
			return walleterr.ErrMiningExhausted()
		}
	}
}
