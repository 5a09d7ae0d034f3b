package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies WALLETCORE_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known WALLETCORE_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Cellframe ──
	setStr(&cfg.Cellframe.NetworkName, "WALLETCORE_CELLFRAME_NETWORK_NAME")
	setStr(&cfg.Cellframe.RPCURL, "WALLETCORE_CELLFRAME_RPC_URL")
	setStr(&cfg.Cellframe.FeeCollectorAddress, "WALLETCORE_CELLFRAME_FEE_COLLECTOR_ADDRESS")
	setStr(&cfg.Cellframe.NetworkFee, "WALLETCORE_CELLFRAME_NETWORK_FEE")
	setStr(&cfg.Cellframe.ValidatorFee, "WALLETCORE_CELLFRAME_VALIDATOR_FEE")

	// ── Ethereum ──
	setStr(&cfg.Ethereum.RPCURL, "WALLETCORE_ETHEREUM_RPC_URL")
	setUint64(&cfg.Ethereum.ChainID, "WALLETCORE_ETHEREUM_CHAIN_ID")
	setStr(&cfg.Ethereum.ExplorerBaseURL, "WALLETCORE_ETHEREUM_EXPLORER_BASE_URL")

	// ── Solana ──
	setStr(&cfg.Solana.RPCURL, "WALLETCORE_SOLANA_RPC_URL")

	// ── Tron ──
	setStr(&cfg.Tron.NodeURL, "WALLETCORE_TRON_NODE_URL")

	// ── Supabase ──
	setStr(&cfg.Supabase.DSN, "WALLETCORE_SUPABASE_DSN")
	setStr(&cfg.Supabase.DSN, "WALLETCORE_SUPABASE_URL") // compatibility alias
	setStr(&cfg.Supabase.Host, "WALLETCORE_SUPABASE_HOST")
	setInt(&cfg.Supabase.Port, "WALLETCORE_SUPABASE_PORT")
	setStr(&cfg.Supabase.Database, "WALLETCORE_SUPABASE_DATABASE")
	setStr(&cfg.Supabase.User, "WALLETCORE_SUPABASE_USER")
	setStr(&cfg.Supabase.Password, "WALLETCORE_SUPABASE_PASSWORD")
	setStr(&cfg.Supabase.SSLMode, "WALLETCORE_SUPABASE_SSLMODE")
	setStr(&cfg.Supabase.SSLMode, "WALLETCORE_SUPABASE_SSL_MODE") // compatibility alias
	setInt(&cfg.Supabase.PoolMaxConns, "WALLETCORE_SUPABASE_POOL_MAX_CONNS")
	setInt(&cfg.Supabase.PoolMinConns, "WALLETCORE_SUPABASE_POOL_MIN_CONNS")
	setStr(&cfg.Supabase.ApiURL, "WALLETCORE_SUPABASE_API_URL")
	setStr(&cfg.Supabase.ApiKey, "WALLETCORE_SUPABASE_API_KEY")
	setBool(&cfg.Supabase.RunMigrations, "WALLETCORE_SUPABASE_RUN_MIGRATIONS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "WALLETCORE_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "WALLETCORE_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "WALLETCORE_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "WALLETCORE_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "WALLETCORE_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "WALLETCORE_REDIS_TLS_ENABLED")

	// ── S3 ──
	setStr(&cfg.S3.Endpoint, "WALLETCORE_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "WALLETCORE_S3_REGION")
	setStr(&cfg.S3.Bucket, "WALLETCORE_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "WALLETCORE_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "WALLETCORE_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "WALLETCORE_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "WALLETCORE_S3_FORCE_PATH_STYLE")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "WALLETCORE_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "WALLETCORE_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "WALLETCORE_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "WALLETCORE_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "WALLETCORE_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setUint64(dst *uint64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
