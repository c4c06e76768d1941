package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all wallet configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Node    NodeConfig    `mapstructure:"node"`
	Chain   ChainConfig   `mapstructure:"chain"`
	Log     LogConfig     `mapstructure:"log"`
}

// StorageConfig selects and configures the wallet store backend.
type StorageConfig struct {
	Backend  string         `mapstructure:"backend"` // postgres, redis
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DBName, p.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// NodeConfig describes how to reach the node that broadcasts transactions
// and reports confirmations.
type NodeConfig struct {
	Addresses     []string      `mapstructure:"addresses"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
}

// ChainConfig carries the consensus parameters the wallet validates against.
type ChainConfig struct {
	InitialBits        uint32        `mapstructure:"initial_bits"` // compact difficulty
	TargetBlockTime    time.Duration `mapstructure:"target_block_time"`
	AdjustmentInterval uint64        `mapstructure:"adjustment_interval"` // blocks
	MaxBlockSize       int           `mapstructure:"max_block_size"`      // bytes
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: UWC_ (UTXO Wallet Core).
// Nested keys use underscore: UWC_STORAGE_BACKEND, UWC_LOG_LEVEL, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("storage.backend", "postgres")
	v.SetDefault("storage.postgres.host", "localhost")
	v.SetDefault("storage.postgres.port", 5432)
	v.SetDefault("storage.postgres.user", "postgres")
	v.SetDefault("storage.postgres.password", "postgres")
	v.SetDefault("storage.postgres.dbname", "wallet")
	v.SetDefault("storage.postgres.sslmode", "disable")
	v.SetDefault("storage.postgres.max_conns", 10)
	v.SetDefault("storage.postgres.min_conns", 2)
	v.SetDefault("storage.postgres.conn_max_lifetime", "30m")
	v.SetDefault("storage.redis.host", "localhost")
	v.SetDefault("storage.redis.port", 6379)
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("node.addresses", []string{"127.0.0.1:9650"})
	v.SetDefault("node.timeout", "30s")
	v.SetDefault("node.retry_attempts", 3)
	v.SetDefault("chain.initial_bits", 0x1d00ffff)
	v.SetDefault("chain.target_block_time", "10m")
	v.SetDefault("chain.adjustment_interval", 2016)
	v.SetDefault("chain.max_block_size", 1_000_000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: UWC_STORAGE_BACKEND -> storage.backend
	v.SetEnvPrefix("UWC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
