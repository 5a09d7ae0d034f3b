// Package tron implements a thin structural generalization of the Ethereum
// adapter for TRON (spec.md §1 non-goal: "Solana and TRON adapters exist in
// the repository but share Ethereum's structural shape (classical curve,
// JSON-RPC, simple address formats); they are not individually specified").
// TRON does use the same secp256k1 curve and a similar node HTTP API as the
// examples this module is grounded on, so unlike Solana this adapter's
// signing step is protocol-faithful: a TRON node signs a transaction's
// sha256(raw_data) with a recoverable secp256k1 signature, same primitive
// the Ethereum adapter uses.
package tron

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/nocdem/dna-messenger/walletcore/internal/domain"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/addresscodec"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/container"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/pq"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/u256"
)

// sunDecimals is the number of decimal places of TRX (1 TRX = 1_000_000 sun).
const sunDecimals = 6

// baseFeeSun is a fixed bandwidth-consumption fee estimate in sun, used
// since this adapter does not model TRON's energy/bandwidth market.
const baseFeeSun = 100_000 // 0.1 TRX

// Config holds the parameters an Adapter is constructed with.
type Config struct {
	NodeURL string // TRON full node HTTP API base, e.g. "https://api.trongrid.io"

	// RateLimiter is optional. When set, every RPC call this adapter
	// issues is throttled through it under the "tron" key.
	RateLimiter domain.RateLimiter
}

// Adapter implements domain.Adapter for TRON's native TRX unit.
type Adapter struct {
	cfg Config
	rpc *httpClient
}

// NewAdapter constructs a TRON adapter.
func NewAdapter(cfg Config) *Adapter {
	rpc := newHTTPClient(cfg.NodeURL)
	if cfg.RateLimiter != nil {
		rpc.setRateLimiter(cfg.RateLimiter, "tron")
	}
	return &Adapter{cfg: cfg, rpc: rpc}
}

func (a *Adapter) Name() string                     { return "tron" }
func (a *Adapter) Type() domain.ChainType           { return domain.ChainTron }
func (a *Adapter) Init(ctx context.Context) error   { return nil }
func (a *Adapter) Cleanup() error                   { return nil }
func (a *Adapter) ValidateAddress(addr string) bool { return addresscodec.ValidateTronAddress(addr) }

type accountResponse struct {
	Balance int64 `json:"balance"`
}

// Balance queries /wallet/getaccount and formats the sun balance with 6
// fractional digits. TRC-20 token balances require a separate
// triggersmartcontract call this thin adapter does not implement.
func (a *Adapter) Balance(ctx context.Context, addr, token string) (string, error) {
	if token != "" {
		return "", fmt.Errorf("%w: TRC-20 balances are not supported by this adapter", domain.ErrInvalidInput)
	}
	if _, err := addresscodec.DecodeTronAddress(addr); err != nil {
		return "", err
	}

	var resp accountResponse
	if err := a.rpc.post(ctx, "/wallet/getaccount", map[string]interface{}{
		"address": addr,
		"visible": true,
	}, &resp); err != nil {
		return "", err
	}
	return u256.FormatFixed(u256.FromU64(uint64(resp.Balance)), sunDecimals), nil
}

// EstimateFee returns a fixed bandwidth-based fee regardless of speed tier.
func (a *Adapter) EstimateFee(ctx context.Context, speed domain.Speed) (domain.FeeEstimate, error) {
	return domain.FeeEstimate{Fee: u256.FormatFixed(u256.FromU64(baseFeeSun), sunDecimals)}, nil
}

type createTransactionResponse struct {
	TxID       string `json:"txID"`
	RawDataHex string `json:"raw_data_hex"`
	RawData    json.RawMessage `json:"raw_data"`
}

// Send builds a TRX transfer via /wallet/createtransaction, signs the
// resulting txID (sha256 of raw_data) with a recoverable secp256k1
// signature, and broadcasts via /wallet/broadcasttransaction.
func (a *Adapter) Send(ctx context.Context, from, to, amount, token string, privKey []byte, speed domain.Speed) (string, error) {
	if len(privKey) != 32 {
		return "", fmt.Errorf("%w: tron private key must be 32 bytes, got %d", domain.ErrKeyError, len(privKey))
	}
	var sk [32]byte
	copy(sk[:], privKey)
	return a.buildSignBroadcast(ctx, from, to, amount, token, sk)
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
	return a.buildSignBroadcast(ctx, ks.Address, to, amount, token, sk)
}

func (a *Adapter) buildSignBroadcast(ctx context.Context, from, to, amount, token string, sk [32]byte) (string, error) {
	if token != "" {
		return "", fmt.Errorf("%w: TRC-20 transfers are not supported by this adapter", domain.ErrInvalidInput)
	}
	if _, err := addresscodec.DecodeTronAddress(to); err != nil {
		return "", err
	}
	amountU, err := u256.FromAmountString(amount)
	if err != nil {
		return "", err
	}

	var created createTransactionResponse
	if err := a.rpc.post(ctx, "/wallet/createtransaction", map[string]interface{}{
		"owner_address": from,
		"to_address":    to,
		"amount":        amountU.LoLo,
		"visible":       true,
	}, &created); err != nil {
		return "", err
	}
	if created.TxID == "" {
		return "", fmt.Errorf("%w: node returned no transaction id", domain.ErrNodeRejected)
	}

	txIDBytes, err := hex.DecodeString(created.TxID)
	if err != nil || len(txIDBytes) != 32 {
		return "", fmt.Errorf("%w: malformed txID from node", domain.ErrRpcError)
	}
	var hash [32]byte
	copy(hash[:], txIDBytes)

	sig, err := pq.Secp256k1SignRecoverable(sk, hash)
	if err != nil {
		return "", err
	}
	sigBytes := append(append(append([]byte{}, sig.R[:]...), sig.S[:]...), sig.RecoveryID)
	sigHex := hex.EncodeToString(sigBytes)

	var broadcast struct {
		Result  bool   `json:"result"`
		TxID    string `json:"txid"`
		Message string `json:"message"`
	}
	if err := a.rpc.post(ctx, "/wallet/broadcasttransaction", map[string]interface{}{
		"raw_data":     created.RawData,
		"raw_data_hex": created.RawDataHex,
		"txID":         created.TxID,
		"signature":    []string{sigHex},
	}, &broadcast); err != nil {
		return "", err
	}
	if !broadcast.Result {
		return "", fmt.Errorf("%w: %s", domain.ErrNodeRejected, broadcast.Message)
	}
	return created.TxID, nil
}

// TxStatus reports the status of a previously broadcast transaction via
// /wallet/gettransactioninfobyid.
func (a *Adapter) TxStatus(ctx context.Context, hash string) (domain.TxStatus, error) {
	var info struct {
		ID      string `json:"id"`
		Receipt struct {
			Result string `json:"result"`
		} `json:"receipt"`
	}
	if err := a.rpc.post(ctx, "/wallet/gettransactioninfobyid", map[string]interface{}{"value": hash}, &info); err != nil {
		return domain.TxStatusNotFound, nil
	}
	if info.ID == "" {
		return domain.TxStatusPending, nil
	}
	switch info.Receipt.Result {
	case "SUCCESS", "":
		return domain.TxStatusSuccess, nil
	default:
		return domain.TxStatusFailed, nil
	}
}

// History is unimplemented: TRON's equivalent to an explorer-backed history
// list (TronGrid's /v1/accounts/{address}/transactions) is a separate,
// collaborator-scale API surface this thin adapter does not wire up.
func (a *Adapter) History(ctx context.Context, addr, token string) ([]domain.HistoryEntry, error) {
	return nil, fmt.Errorf("%w: tron history is not implemented by this adapter", domain.ErrInvalidInput)
}
