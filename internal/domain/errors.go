package domain

import "errors"

// Sentinel errors forming the wallet core's error taxonomy (spec.md §7).
// Adapters wrap these with fmt.Errorf("%w", ...) so callers can match with
// errors.Is while still getting a human-readable message.
var (
	// ErrInvalidInput covers malformed addresses, decimal strings, and
	// zero-length TSD payloads.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNumericOverflow covers any U256 arithmetic overflow or a decimal
	// string out of range.
	ErrNumericOverflow = errors.New("numeric overflow")

	// ErrInsufficientFunds covers UTXO selection that cannot reach the
	// required amount.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrKeyError covers a malformed private key or a signature primitive
	// refusing to sign.
	ErrKeyError = errors.New("key error")

	// ErrIoError covers wallet file read/write failures and RPC network
	// failures.
	ErrIoError = errors.New("io error")

	// ErrRpcError covers a malformed or error-bearing RPC response.
	ErrRpcError = errors.New("rpc error")

	// ErrNodeRejected covers tx_create=false or an equivalent node-side
	// rejection.
	ErrNodeRejected = errors.New("node rejected transaction")

	// ErrProtectedWallet covers a v2 (encrypted) wallet file that the core
	// cannot decrypt.
	ErrProtectedWallet = errors.New("wallet is protected (v2, encrypted)")

	// ErrNotFound covers an absent transaction, UTXO set, or store record.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is raised by stores on duplicate-key inserts.
	ErrAlreadyExists = errors.New("already exists")

	// ErrLockHeld is raised by the distributed send-lock when a concurrent
	// send already holds the lock for the same (chain, address) pair.
	ErrLockHeld = errors.New("lock already held")
)
