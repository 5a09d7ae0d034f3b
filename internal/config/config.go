// Package config defines the top-level configuration for the wallet core and
// provides validation helpers.
package config

import (
	"fmt"
	"strings"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by WALLETCORE_* environment variables.
type Config struct {
	Cellframe CellframeConfig `toml:"cellframe"`
	Ethereum  EthereumConfig  `toml:"ethereum"`
	Solana    SolanaConfig    `toml:"solana"`
	Tron      TronConfig      `toml:"tron"`
	Supabase  SupabaseConfig  `toml:"supabase"`
	Redis     RedisConfig     `toml:"redis"`
	S3        S3Config        `toml:"s3"`
	Notify    NotifyConfig    `toml:"notify"`
	LogLevel  string          `toml:"log_level"`
}

// CellframeConfig holds the Cellframe network and RPC parameters used by
// internal/chain/cellframe.Config.
type CellframeConfig struct {
	NetworkName         string `toml:"network_name"`
	NetID               uint64 `toml:"net_id"`
	RPCURL              string `toml:"rpc_url"`
	FeeCollectorAddress string `toml:"fee_collector_address"`
	NetworkFee          string `toml:"network_fee"`
	ValidatorFee        string `toml:"validator_fee"`
}

// EthereumConfig holds the Ethereum JSON-RPC and explorer parameters used by
// internal/chain/ethereum.Config.
type EthereumConfig struct {
	RPCURL          string `toml:"rpc_url"`
	ChainID         uint64 `toml:"chain_id"`
	ExplorerBaseURL string `toml:"explorer_base_url"`
}

// SolanaConfig holds the Solana JSON-RPC endpoint. Solana shares Ethereum's
// structural shape (spec.md §1 non-goal) so it needs nothing beyond an RPC
// URL to configure.
type SolanaConfig struct {
	RPCURL string `toml:"rpc_url"`
}

// TronConfig holds the TRON full-node HTTP API base URL.
type TronConfig struct {
	NodeURL string `toml:"node_url"`
}

// SupabaseConfig holds PostgreSQL / Supabase connection parameters.
type SupabaseConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	ApiURL        string `toml:"api_url"`
	ApiKey        string `toml:"api_key"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// S3Config holds S3-compatible object storage parameters.
type S3Config struct {
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Cellframe: CellframeConfig{
			NetworkName:         "Backbone",
			NetID:               0x0404202200000000,
			FeeCollectorAddress: "",
			NetworkFee:          "0.002",
			ValidatorFee:        "0.0001",
		},
		Ethereum: EthereumConfig{
			ChainID: 1,
		},
		Supabase: SupabaseConfig{
			DSN:           "",
			Host:          "localhost",
			Port:          5432,
			Database:      "postgres",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
		},
		S3: S3Config{
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "walletcore-data",
			UseSSL:         false,
			ForcePathStyle: true,
		},
		Notify: NotifyConfig{
			Events: []string{"send_broadcast", "send_rejected", "insufficient_funds"},
		},
		LogLevel: "info",
	}
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	// LogLevel
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Cellframe
	if c.Cellframe.RPCURL == "" {
		errs = append(errs, "cellframe: rpc_url must not be empty")
	}
	if c.Cellframe.NetworkName == "" {
		errs = append(errs, "cellframe: network_name must not be empty")
	}

	// Ethereum
	if c.Ethereum.RPCURL == "" {
		errs = append(errs, "ethereum: rpc_url must not be empty")
	}
	if c.Ethereum.ChainID == 0 {
		errs = append(errs, "ethereum: chain_id must be > 0")
	}

	// Supabase
	if strings.TrimSpace(c.Supabase.DSN) == "" {
		if c.Supabase.Host == "" {
			errs = append(errs, "supabase: host must not be empty (or set supabase.dsn)")
		}
		if c.Supabase.Port <= 0 || c.Supabase.Port > 65535 {
			errs = append(errs, fmt.Sprintf("supabase: port must be 1-65535, got %d", c.Supabase.Port))
		}
		if c.Supabase.Database == "" {
			errs = append(errs, "supabase: database must not be empty")
		}
	}
	if c.Supabase.PoolMaxConns < 1 {
		errs = append(errs, "supabase: pool_max_conns must be >= 1")
	}
	if c.Supabase.PoolMinConns < 0 {
		errs = append(errs, "supabase: pool_min_conns must be >= 0")
	}
	if c.Supabase.PoolMinConns > c.Supabase.PoolMaxConns {
		errs = append(errs, "supabase: pool_min_conns must not exceed pool_max_conns")
	}

	// Redis
	if c.Redis.Addr == "" {
		errs = append(errs, "redis: addr must not be empty")
	}
	if c.Redis.PoolSize < 1 {
		errs = append(errs, "redis: pool_size must be >= 1")
	}

	// S3
	if c.S3.Endpoint == "" {
		errs = append(errs, "s3: endpoint must not be empty")
	}
	if c.S3.Bucket == "" {
		errs = append(errs, "s3: bucket must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
