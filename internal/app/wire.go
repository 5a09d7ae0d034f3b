package app

import (
	"context"
	"fmt"
	"log/slog"

	s3blob "github.com/nocdem/dna-messenger/walletcore/internal/blob/s3"
	"github.com/nocdem/dna-messenger/walletcore/internal/cache/redis"
	"github.com/nocdem/dna-messenger/walletcore/internal/chain/cellframe"
	"github.com/nocdem/dna-messenger/walletcore/internal/chain/ethereum"
	"github.com/nocdem/dna-messenger/walletcore/internal/chain/registry"
	"github.com/nocdem/dna-messenger/walletcore/internal/chain/solana"
	"github.com/nocdem/dna-messenger/walletcore/internal/chain/tron"
	"github.com/nocdem/dna-messenger/walletcore/internal/config"
	"github.com/nocdem/dna-messenger/walletcore/internal/domain"
	"github.com/nocdem/dna-messenger/walletcore/internal/notify"
	"github.com/nocdem/dna-messenger/walletcore/internal/store/postgres"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/u256"
)

// Dependencies bundles every dependency a CLI command needs to operate. It is
// constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Registry *registry.Registry

	TxStore   domain.TxRecordStore
	AddrStore domain.AddressBookStore

	UTXOCache   domain.UTXOCache
	RateLimiter domain.RateLimiter
	LockManager domain.LockManager

	BlobWriter  domain.BlobWriter
	BlobReader  domain.BlobReader
	BlobDeleter domain.BlobDeleter
	Archiver    domain.Archiver

	Notifier *notify.Notifier
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{Registry: registry.NewRegistry()}

	// --- Chain adapter fee parsing ---
	networkFee, err := u256.FromAmountString(cfg.Cellframe.NetworkFee)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: cellframe network_fee: %w", err)
	}
	validatorFee, err := u256.FromAmountString(cfg.Cellframe.ValidatorFee)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: cellframe validator_fee: %w", err)
	}

	// --- PostgreSQL ---
	pgClient, err := postgres.New(ctx, postgres.ClientConfig{
		DSN:      cfg.Supabase.DSN,
		Host:     cfg.Supabase.Host,
		Port:     cfg.Supabase.Port,
		Database: cfg.Supabase.Database,
		User:     cfg.Supabase.User,
		Password: cfg.Supabase.Password,
		SSLMode:  cfg.Supabase.SSLMode,
		MaxConns: cfg.Supabase.PoolMaxConns,
		MinConns: cfg.Supabase.PoolMinConns,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: postgres: %w", err)
	}
	closers = append(closers, pgClient.Close)

	if cfg.Supabase.RunMigrations {
		if err := pgClient.RunMigrations(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
		}
	}

	pool := pgClient.Pool()
	deps.TxStore = postgres.NewTxRecordStore(pool)
	deps.AddrStore = postgres.NewAddressBookStore(pool)

	// --- Redis ---
	redisClient, err := redis.New(ctx, redis.ClientConfig{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		PoolSize:   cfg.Redis.PoolSize,
		MaxRetries: cfg.Redis.MaxRetries,
		TLSEnabled: cfg.Redis.TLSEnabled,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: redis: %w", err)
	}
	closers = append(closers, func() { _ = redisClient.Close() })

	deps.UTXOCache = redis.NewUTXOCache(redisClient)
	deps.RateLimiter = redis.NewRateLimiter(redisClient)
	deps.LockManager = redis.NewLockManager(redisClient)

	// --- Chain adapters ---
	// Registered here, after the UTXO cache and rate limiter exist, so
	// Cellframe's Send path can avoid double-querying the node for the same
	// (addr, token) pair during a non-native transfer, and every adapter's
	// outbound RPC calls are throttled through the shared sliding-window
	// limiter.
	deps.Registry.Register(ethereum.NewAdapter(ethereum.Config{
		RPCURL:          cfg.Ethereum.RPCURL,
		ChainID:         cfg.Ethereum.ChainID,
		ExplorerBaseURL: cfg.Ethereum.ExplorerBaseURL,
		RateLimiter:     deps.RateLimiter,
	}))
	deps.Registry.Register(solana.NewAdapter(solana.Config{
		RPCURL:      cfg.Solana.RPCURL,
		RateLimiter: deps.RateLimiter,
	}))
	deps.Registry.Register(tron.NewAdapter(tron.Config{
		NodeURL:     cfg.Tron.NodeURL,
		RateLimiter: deps.RateLimiter,
	}))
	deps.Registry.Register(cellframe.NewAdapter(cellframe.Config{
		NetworkName:         cfg.Cellframe.NetworkName,
		NetID:               cfg.Cellframe.NetID,
		RPCURL:              cfg.Cellframe.RPCURL,
		FeeCollectorAddress: cfg.Cellframe.FeeCollectorAddress,
		NetworkFee:          networkFee,
		ValidatorFee:        validatorFee,
		UTXOCache:           deps.UTXOCache,
		RateLimiter:         deps.RateLimiter,
	}))

	// --- S3 blob storage ---
	s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
		Endpoint:       cfg.S3.Endpoint,
		Region:         cfg.S3.Region,
		Bucket:         cfg.S3.Bucket,
		AccessKey:      cfg.S3.AccessKey,
		SecretKey:      cfg.S3.SecretKey,
		UseSSL:         cfg.S3.UseSSL,
		ForcePathStyle: cfg.S3.ForcePathStyle,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: s3: %w", err)
	}
	closers = append(closers, func() { _ = s3Client.Close() })

	deps.BlobWriter = s3blob.NewWriter(s3Client)
	reader := s3blob.NewReader(s3Client)
	deps.BlobReader = reader
	deps.BlobDeleter = reader // same type implements BlobDeleter
	deps.Archiver = s3blob.NewArchiver(deps.BlobWriter, deps.TxStore)

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	return deps, cleanup, nil
}
