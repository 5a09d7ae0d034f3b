package domain

import (
	"context"
	"time"
)

// UTXO mirrors the protocol-level unspent output (spec.md §3 "UTXO").
type UTXO struct {
	PrevHash string
	Idx      uint32
	Value    string // decimal datoshi/wei amount, kept as a string to avoid float
}

// UTXOCache caches a ledger's UTXO listing for a few seconds so a
// non-native-token send's two independent UTXO selections (spec.md §4.7)
// don't re-query the node twice for the same address.
type UTXOCache interface {
	Set(ctx context.Context, net, addr, token string, utxos []UTXO, ttl time.Duration) error
	Get(ctx context.Context, net, addr, token string) ([]UTXO, bool, error)
	Invalidate(ctx context.Context, net, addr, token string) error
}

// RateLimiter provides distributed rate limiting, used here to throttle
// outbound JSON-RPC calls per adapter.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Wait(ctx context.Context, key string) error
}

// LockManager provides distributed locking, used here to guard a
// (chain, address) pair against concurrent sends racing the same UTXO set
// (spec.md §5 notes the core itself gives no such guarantee; this is an
// opt-in convenience the CLI applies on top).
type LockManager interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (unlock func(), err error)
}
