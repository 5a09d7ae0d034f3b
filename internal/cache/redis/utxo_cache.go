package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nocdem/dna-messenger/walletcore/internal/domain"
	"github.com/redis/go-redis/v9"
)

// UTXOCache implements domain.UTXOCache using a Redis string holding
// JSON-serialized UTXO listings.
//
// Key schema:
//
//	utxo:{net}:{addr}:{token}  - string value containing a JSON UTXO array
type UTXOCache struct {
	rdb *redis.Client
}

// NewUTXOCache creates a UTXOCache backed by the given Client.
func NewUTXOCache(c *Client) *UTXOCache {
	return &UTXOCache{rdb: c.Underlying()}
}

func utxoKey(net, addr, token string) string {
	return fmt.Sprintf("utxo:%s:%s:%s", net, addr, token)
}

// Set stores a ledger's UTXO listing with the given TTL.
func (uc *UTXOCache) Set(ctx context.Context, net, addr, token string, utxos []domain.UTXO, ttl time.Duration) error {
	data, err := json.Marshal(utxos)
	if err != nil {
		return fmt.Errorf("redis: marshal utxos %s/%s/%s: %w", net, addr, token, err)
	}
	if err := uc.rdb.Set(ctx, utxoKey(net, addr, token), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set utxos %s/%s/%s: %w", net, addr, token, err)
	}
	return nil
}

// Get retrieves a ledger's cached UTXO listing. The second return value
// reports whether a cached entry was found.
func (uc *UTXOCache) Get(ctx context.Context, net, addr, token string) ([]domain.UTXO, bool, error) {
	data, err := uc.rdb.Get(ctx, utxoKey(net, addr, token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis: get utxos %s/%s/%s: %w", net, addr, token, err)
	}

	var utxos []domain.UTXO
	if err := json.Unmarshal(data, &utxos); err != nil {
		return nil, false, fmt.Errorf("redis: unmarshal utxos %s/%s/%s: %w", net, addr, token, err)
	}
	return utxos, true, nil
}

// Invalidate removes a ledger's cached UTXO listing, e.g. immediately after a
// send spends some of its outputs.
func (uc *UTXOCache) Invalidate(ctx context.Context, net, addr, token string) error {
	if err := uc.rdb.Del(ctx, utxoKey(net, addr, token)).Err(); err != nil {
		return fmt.Errorf("redis: invalidate utxos %s/%s/%s: %w", net, addr, token, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.UTXOCache = (*UTXOCache)(nil)
