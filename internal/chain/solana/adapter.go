// Package solana implements a thin structural generalization of the
// Ethereum adapter for Solana (spec.md §1 non-goal: "Solana and TRON
// adapters exist in the repository but share Ethereum's structural shape
// (classical curve, JSON-RPC, simple address formats); they are not
// individually specified"). Real Solana transactions are Borsh-encoded,
// ed25519-signed, and program-addressed; this adapter deliberately keeps
// Ethereum's JSON-RPC/secp256k1 shape instead, matching the generalization
// the spec calls for rather than a protocol-faithful Solana client.
package solana

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/nocdem/dna-messenger/walletcore/internal/chain/ethereum"
	"github.com/nocdem/dna-messenger/walletcore/internal/domain"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/addresscodec"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/container"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/pq"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/u256"
)

// baseFeeLamports is Solana's standard per-signature base fee, used as a
// fixed fee estimate since this adapter does not build real compute-budget
// instructions.
const baseFeeLamports = 5000

// Config holds the parameters an Adapter is constructed with.
type Config struct {
	RPCURL string

	// RateLimiter is optional. When set, every RPC call this adapter
	// issues is throttled through it under the "solana" key.
	RateLimiter domain.RateLimiter
}

// Adapter implements domain.Adapter for Solana's native SOL unit.
type Adapter struct {
	cfg Config
	rpc *ethereum.RPCClient
}

// NewAdapter constructs a Solana adapter, reusing the Ethereum JSON-RPC 2.0
// client since Solana's RPC envelope is the same shape.
func NewAdapter(cfg Config) *Adapter {
	rpc := ethereum.NewRPCClient(cfg.RPCURL)
	if cfg.RateLimiter != nil {
		rpc.SetRateLimiter(cfg.RateLimiter, "solana")
	}
	return &Adapter{cfg: cfg, rpc: rpc}
}

func (a *Adapter) Name() string                     { return "solana" }
func (a *Adapter) Type() domain.ChainType           { return domain.ChainSolana }
func (a *Adapter) Init(ctx context.Context) error   { return nil }
func (a *Adapter) Cleanup() error                   { return nil }
func (a *Adapter) ValidateAddress(addr string) bool { return addresscodec.ValidateSolanaAddress(addr) }

// Balance queries getBalance and formats the lamport amount with 9
// fractional digits. Solana has no native SPL-token balance RPC as simple as
// Ethereum's eth_call/balanceOf, so a non-empty token is rejected.
func (a *Adapter) Balance(ctx context.Context, addr, token string) (string, error) {
	if token != "" {
		return "", fmt.Errorf("%w: SPL token balances are not supported by this adapter", domain.ErrInvalidInput)
	}
	if _, err := addresscodec.DecodeSolanaAddress(addr); err != nil {
		return "", err
	}

	var result struct {
		Value uint64 `json:"value"`
	}
	if err := a.rpc.Call(ctx, "getBalance", []interface{}{addr}, &result); err != nil {
		return "", err
	}
	return u256.FormatFixed(u256.FromU64(result.Value), 9), nil
}

// EstimateFee returns Solana's fixed per-signature base fee regardless of
// speed tier; Solana's fee market is a priority-fee add-on this adapter does
// not model.
func (a *Adapter) EstimateFee(ctx context.Context, speed domain.Speed) (domain.FeeEstimate, error) {
	return domain.FeeEstimate{Fee: u256.FormatFixed(u256.FromU64(baseFeeLamports), 9)}, nil
}

func (a *Adapter) latestBlockhash(ctx context.Context) (string, error) {
	var result struct {
		Value struct {
			Blockhash string `json:"blockhash"`
		} `json:"value"`
	}
	if err := a.rpc.Call(ctx, "getLatestBlockhash", []interface{}{}, &result); err != nil {
		return "", err
	}
	return result.Value.Blockhash, nil
}

// Send builds a minimal transfer payload (recipient pubkey || lamports ||
// blockhash), signs it with the same secp256k1-recoverable primitive the
// Ethereum adapter uses, and submits the result as base64 opaque transaction
// data via sendTransaction.
func (a *Adapter) Send(ctx context.Context, from, to, amount, token string, privKey []byte, speed domain.Speed) (string, error) {
	if len(privKey) != 32 {
		return "", fmt.Errorf("%w: solana private key must be 32 bytes, got %d", domain.ErrKeyError, len(privKey))
	}
	var sk [32]byte
	copy(sk[:], privKey)
	return a.buildSignBroadcast(ctx, to, amount, token, sk)
}

// SendFromWallet resolves the sender's key from a wallet container and
// delegates to the same build/sign/broadcast path as Send.
func (a *Adapter) SendFromWallet(ctx context.Context, walletPath, to, amount, token, net string, speed domain.Speed) (string, error) {
	ks, err := container.ReadKeystore(walletPath)
	if err != nil {
		return "", err
	}
	raw, err := hex.DecodeString(ks.PrivateKey)
	if err != nil || len(raw) != 32 {
		return "", fmt.Errorf("%w: malformed keystore private key", domain.ErrKeyError)
	}
	var sk [32]byte
	copy(sk[:], raw)
	return a.buildSignBroadcast(ctx, to, amount, token, sk)
}

func (a *Adapter) buildSignBroadcast(ctx context.Context, to, amount, token string, sk [32]byte) (string, error) {
	if token != "" {
		return "", fmt.Errorf("%w: SPL token transfers are not supported by this adapter", domain.ErrInvalidInput)
	}
	recipient, err := addresscodec.DecodeSolanaAddress(to)
	if err != nil {
		return "", err
	}
	lamports, err := u256.FromAmountString(amount)
	if err != nil {
		return "", err
	}
	blockhash, err := a.latestBlockhash(ctx)
	if err != nil {
		return "", err
	}

	payload := make([]byte, 0, 32+8+32)
	payload = append(payload, recipient[:]...)
	amountLE := make([]byte, 8)
	binary.LittleEndian.PutUint64(amountLE, lowU64(lamports))
	payload = append(payload, amountLE...)
	payload = append(payload, []byte(blockhash)...)

	hash := pq.Keccak256(payload)
	sig, err := pq.Secp256k1SignRecoverable(sk, hash)
	if err != nil {
		return "", err
	}

	tx := append(append([]byte{}, sig.R[:]...), sig.S[:]...)
	tx = append(tx, sig.RecoveryID)
	tx = append(tx, payload...)
	encoded := base64.StdEncoding.EncodeToString(tx)

	var txHash string
	if err := a.rpc.Call(ctx, "sendTransaction", []interface{}{encoded, map[string]string{"encoding": "base64"}}, &txHash); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrNodeRejected, err)
	}
	return txHash, nil
}

// TxStatus reports the confirmation status of a signature via
// getSignatureStatuses.
func (a *Adapter) TxStatus(ctx context.Context, hash string) (domain.TxStatus, error) {
	var result struct {
		Value []*struct {
			ConfirmationStatus string `json:"confirmationStatus"`
			Err                interface{} `json:"err"`
		} `json:"value"`
	}
	if err := a.rpc.Call(ctx, "getSignatureStatuses", []interface{}{[]string{hash}}, &result); err != nil {
		return domain.TxStatusNotFound, nil
	}
	if len(result.Value) == 0 || result.Value[0] == nil {
		return domain.TxStatusNotFound, nil
	}
	status := result.Value[0]
	if status.Err != nil {
		return domain.TxStatusFailed, nil
	}
	switch status.ConfirmationStatus {
	case "finalized", "confirmed":
		return domain.TxStatusSuccess, nil
	default:
		return domain.TxStatusPending, nil
	}
}

// History is unimplemented: Solana's history lives behind a separate
// getSignaturesForAddress RPC with its own collaborator-picked indexer for
// anything beyond the most recent unpruned ledger slots, which spec.md §1
// explicitly leaves unspecified for this adapter.
func (a *Adapter) History(ctx context.Context, addr, token string) ([]domain.HistoryEntry, error) {
	return nil, fmt.Errorf("%w: solana history is not implemented by this adapter", domain.ErrInvalidInput)
}

func lowU64(v u256.U256) uint64 {
	return v.LoLo
}
