package domain

import "context"

// ChainType identifies one of the blockchains the registry can dispatch to.
type ChainType string

const (
	ChainCellframe ChainType = "cellframe"
	ChainEthereum  ChainType = "ethereum"
	ChainSolana    ChainType = "solana"
	ChainTron      ChainType = "tron"
)

// Speed selects a fee/gas-price tier for a send. Cellframe fees are fixed
// constants (spec.md §6) so the tier has no effect there; Ethereum scales
// the discovered gas price by it (spec.md §4.9).
type Speed string

const (
	SpeedSlow   Speed = "slow"
	SpeedNormal Speed = "normal"
	SpeedFast   Speed = "fast"
)

// TxStatus is the coarse status an adapter reports for a broadcast
// transaction (spec.md §4.7 "Status").
type TxStatus string

const (
	TxStatusSuccess  TxStatus = "success"
	TxStatusNotFound TxStatus = "not_found"
	TxStatusPending  TxStatus = "pending"
	TxStatusFailed   TxStatus = "failed"
)

// HistoryEntry is one row of an address's transaction history (spec.md §4.7
// "History").
type HistoryEntry struct {
	Hash          string
	Status        TxStatus
	Timestamp     int64
	Token         string
	Amount        string
	IsOutgoing    bool
	OtherAddress  string
}

// FeeEstimate is the result of Adapter.EstimateFee: a total fee (in the
// chain's native unit, as a decimal string) and, for account-model chains,
// the gas price used to compute it.
type FeeEstimate struct {
	Fee      string
	GasPrice string
}

// Adapter is the uniform, chain-agnostic contract every blockchain
// implementation in this module satisfies (spec.md §1/§3 "Adapter
// descriptor"). Adapters are constructed once at process initialization and
// live for the process lifetime (spec.md §3 lifecycle note); neither the
// registry nor the app wiring calls Cleanup.
type Adapter interface {
	// Name is the adapter's registry key, e.g. "cellframe", "ethereum".
	Name() string

	// Type reports the chain family this adapter serves.
	Type() ChainType

	// Init performs any one-time setup (e.g. warms an RPC connection pool).
	// It is safe to call Init multiple times; implementations must be
	// idempotent.
	Init(ctx context.Context) error

	// Cleanup releases resources held by the adapter. Nothing in this
	// module calls it.
	Cleanup() error

	// Balance returns the decimal-string balance of addr for token (the
	// chain's native unit if token is empty).
	Balance(ctx context.Context, addr, token string) (string, error)

	// EstimateFee returns the fee (and, for account-model chains, gas
	// price) for a send at the given speed tier.
	EstimateFee(ctx context.Context, speed Speed) (FeeEstimate, error)

	// Send builds, signs, and broadcasts a transfer from a raw private key
	// and returns the resulting transaction hash.
	Send(ctx context.Context, from, to, amount, token string, privKey []byte, speed Speed) (string, error)

	// SendFromWallet does the same as Send but resolves the sender's keys
	// from a wallet container file on disk.
	SendFromWallet(ctx context.Context, walletPath, to, amount, token, net string, speed Speed) (string, error)

	// TxStatus reports the status of a previously broadcast transaction.
	TxStatus(ctx context.Context, hash string) (TxStatus, error)

	// ValidateAddress reports whether addr is a well-formed address for
	// this chain (format only; does not imply the address has ever been
	// used).
	ValidateAddress(addr string) bool

	// History returns the transaction history for addr, optionally
	// filtered to a single token.
	History(ctx context.Context, addr, token string) ([]HistoryEntry, error)
}
