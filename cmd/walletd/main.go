package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"utxo-wallet-core/config"
	nodeAdapter "utxo-wallet-core/internal/adapter/node"
	pgStorage "utxo-wallet-core/internal/adapter/storage/postgres"
	redisStorage "utxo-wallet-core/internal/adapter/storage/redis"
	"utxo-wallet-core/internal/core/ports"
	"utxo-wallet-core/internal/service"
	"utxo-wallet-core/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("backend", cfg.Storage.Backend).
		Msg("Starting UTXO wallet core")

	ctx := context.Background()

	// Initialize the wallet store backend
	var store ports.WalletStore
	switch cfg.Storage.Backend {
	case "redis":
		rdb, err := redisStorage.NewClient(ctx, cfg.Storage.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		store = redisStorage.NewWalletStore(rdb)
	case "postgres":
		pool, err := pgStorage.NewPool(ctx, cfg.Storage.Postgres, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		store = pgStorage.NewWalletStore(pool)
	default:
		log.Fatal().Str("backend", cfg.Storage.Backend).Msg("Unknown storage backend")
	}

	// Initialize the node client
	node := nodeAdapter.NewClient(cfg.Node, log)

	// Initialize core services
	keys := service.NewKeyManager(log)
	ledger := service.NewLedger(log)
	txs := service.NewTransactionManager(log)

	wallet := service.NewWalletService(keys, ledger, txs, store, node, log)

	// Restore persisted state, if any
	if restored, err := wallet.Restore(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to restore wallet state")
	} else if restored {
		bal := wallet.Balance()
		log.Info().
			Uint64("confirmed", bal.Confirmed).
			Uint64("unconfirmed", bal.Unconfirmed).
			Msg("Wallet state restored")
	}

	log.Info().
		Strs("nodes", cfg.Node.Addresses).
		Str("initial_bits", fmt.Sprintf("%#08x", cfg.Chain.InitialBits)).
		Msg("Wallet ready")

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down...")
}
