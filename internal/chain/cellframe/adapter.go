// Package cellframe implements the Cellframe chain adapter (spec.md §4.7):
// balance/UTXO/submit queries over JSON-RPC, UTXO selection, change
// computation, and orchestration of the transaction builder and signer.
package cellframe

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/nocdem/dna-messenger/walletcore/internal/chain/cellframe/signer"
	"github.com/nocdem/dna-messenger/walletcore/internal/chain/cellframe/txbuilder"
	"github.com/nocdem/dna-messenger/walletcore/internal/domain"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/addresscodec"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/container"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/pq"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/u256"
)

// utxoCacheTTL bounds how long a ledger;list;outs_all response is reused
// across a send's independent token/CELL UTXO selections (spec.md §4.7).
const utxoCacheTTL = 5 * time.Second

// DefaultNetworkName is the Cellframe default network (spec.md §6
// "Environment").
const DefaultNetworkName = "Backbone"

// DefaultFeeCollectorAddress is the fixed network fee collector address
// (spec.md §6).
const DefaultFeeCollectorAddress = "Rj7J7MiX2bWy8sNyX38bB86KTFUnSn7sdKDsTFa2RJyQTDWFaebrj6BucT7Wa5CSq77zwRAwevbiKy1sv1RBGTonM83D3xPDwoyGasZ7"

// DefaultNetworkFeeDatoshi and DefaultValidatorFeeDatoshi are the fixed fee
// constants (spec.md §6): 0.002 CELL and 0.0001 CELL respectively.
var (
	DefaultNetworkFeeDatoshi   = u256.FromU64(2_000_000_000_000_000)
	DefaultValidatorFeeDatoshi = u256.FromU64(100_000_000_000_000)
)

// Config holds the per-network parameters an Adapter is constructed with.
type Config struct {
	NetworkName         string
	NetID               uint64
	RPCURL              string
	FeeCollectorAddress string
	NetworkFee          u256.U256
	ValidatorFee        u256.U256

	// UTXOCache is optional. When set, fetchOutsCached serves repeated
	// lookups of the same (addr, token) pair within utxoCacheTTL from
	// cache instead of re-querying the node.
	UTXOCache domain.UTXOCache

	// RateLimiter is optional. When set, every RPC call this adapter
	// issues is throttled through it under the "cellframe" key.
	RateLimiter domain.RateLimiter
}

// DefaultConfig returns the Backbone-net defaults (spec.md §6).
func DefaultConfig(rpcURL string) Config {
	return Config{
		NetworkName:         DefaultNetworkName,
		NetID:               0x0404202200000000,
		RPCURL:              rpcURL,
		FeeCollectorAddress: DefaultFeeCollectorAddress,
		NetworkFee:          DefaultNetworkFeeDatoshi,
		ValidatorFee:        DefaultValidatorFeeDatoshi,
	}
}

// Adapter implements domain.Adapter for the Cellframe chain.
type Adapter struct {
	cfg Config
	rpc *RPCClient
}

// NewAdapter constructs a Cellframe adapter. It does not register itself;
// the app wiring layer (internal/app/wire.go) registers it, the same way the
// teacher's arbitrage strategies are constructed and registered during app
// wiring.
func NewAdapter(cfg Config) *Adapter {
	rpc := NewRPCClient(cfg.RPCURL)
	if cfg.RateLimiter != nil {
		rpc.SetRateLimiter(cfg.RateLimiter, "cellframe")
	}
	return &Adapter{cfg: cfg, rpc: rpc}
}

func (a *Adapter) Name() string          { return "cellframe" }
func (a *Adapter) Type() domain.ChainType { return domain.ChainCellframe }
func (a *Adapter) Init(ctx context.Context) error { return nil }
func (a *Adapter) Cleanup() error                 { return nil }

func (a *Adapter) ValidateAddress(addr string) bool {
	return addresscodec.ValidateCellframeAddress(addr)
}

type walletInfoResponse struct {
	Balance string `json:"balance"`
}

// ledgerOut mirrors domain.UTXO but is decoded directly off the RPC response
// shape (spec.md §4.7 "parse result[0][0].outs[] ... into {prev_hash, idx,
// value}").
type ledgerOut struct {
	PrevHash string `json:"prev_hash"`
	Idx      uint32 `json:"idx"`
	Value    string `json:"value"`
}

// Balance queries wallet info and returns the balance as a decimal string.
// An empty or malformed response yields "0" rather than failing (spec.md
// §4.7 "Balance query").
func (a *Adapter) Balance(ctx context.Context, addr, token string) (string, error) {
	var result [][]walletInfoResponse
	params := []interface{}{
		"wallet", "info",
		"-net", a.cfg.NetworkName,
		"-addr", addr,
		"-token", token,
	}
	if err := a.rpc.Call(ctx, "wallet;info", params, &result); err != nil {
		return "0", nil
	}
	if len(result) == 0 || len(result[0]) == 0 || result[0][0].Balance == "" {
		return "0", nil
	}
	return result[0][0].Balance, nil
}

// EstimateFee reports the fixed network+validator fee total. Cellframe fees
// are constants; the speed tier has no effect (spec.md §4.9 note carried
// over to §4.7: only Ethereum scales by speed).
func (a *Adapter) EstimateFee(ctx context.Context, speed domain.Speed) (domain.FeeEstimate, error) {
	total, overflow := a.cfg.NetworkFee.Add(a.cfg.ValidatorFee)
	if overflow {
		return domain.FeeEstimate{}, domain.ErrNumericOverflow
	}
	return domain.FeeEstimate{Fee: total.String()}, nil
}

// selectUTXOs iterates outs in returned order, accumulating into the
// selected set until running_sum >= required (spec.md §4.7 "UTXO
// selection"). No fee-aware optimization, no smallest-first heuristic.
func selectUTXOs(outs []ledgerOut, required u256.U256) (selected []ledgerOut, total u256.U256, err error) {
	var running u256.U256
	for _, o := range outs {
		val, perr := u256.ScanUninteger(o.Value)
		if perr != nil {
			continue
		}
		selected = append(selected, o)
		var overflow bool
		running, overflow = running.Add(val)
		if overflow {
			return nil, u256.U256{}, domain.ErrNumericOverflow
		}
		if running.Compare(required) >= 0 {
			return selected, running, nil
		}
	}
	return nil, u256.U256{}, fmt.Errorf("%w: required=%s available=%s", domain.ErrInsufficientFunds, required.String(), running.String())
}

func (a *Adapter) fetchOuts(ctx context.Context, addr, token string) ([]ledgerOut, error) {
	var result [][]struct {
		Outs []ledgerOut `json:"outs"`
	}
	params := []interface{}{"ledger", "list", "outs_all", "-net", a.cfg.NetworkName, "-addr", addr, "-token", token}
	if err := a.rpc.Call(ctx, "ledger;list;outs_all", params, &result); err != nil {
		return nil, err
	}
	if len(result) == 0 || len(result[0]) == 0 {
		return nil, nil
	}
	return result[0][0].Outs, nil
}

// fetchOutsCached wraps fetchOuts with an optional read-through cache so a
// send's two independent UTXO selections (token + CELL fee) don't re-query
// the node for the same (addr, token) pair.
func (a *Adapter) fetchOutsCached(ctx context.Context, addr, token string) ([]ledgerOut, error) {
	if a.cfg.UTXOCache == nil {
		return a.fetchOuts(ctx, addr, token)
	}

	if cached, ok, err := a.cfg.UTXOCache.Get(ctx, a.cfg.NetworkName, addr, token); err == nil && ok {
		return utxosToLedgerOuts(cached), nil
	}

	outs, err := a.fetchOuts(ctx, addr, token)
	if err != nil {
		return nil, err
	}
	_ = a.cfg.UTXOCache.Set(ctx, a.cfg.NetworkName, addr, token, ledgerOutsToUTXOs(outs), utxoCacheTTL)
	return outs, nil
}

func ledgerOutsToUTXOs(outs []ledgerOut) []domain.UTXO {
	utxos := make([]domain.UTXO, len(outs))
	for i, o := range outs {
		utxos[i] = domain.UTXO{PrevHash: o.PrevHash, Idx: o.Idx, Value: o.Value}
	}
	return utxos
}

func utxosToLedgerOuts(utxos []domain.UTXO) []ledgerOut {
	outs := make([]ledgerOut, len(utxos))
	for i, u := range utxos {
		outs[i] = ledgerOut{PrevHash: u.PrevHash, Idx: u.Idx, Value: u.Value}
	}
	return outs
}

func parseHexHash32(s string) ([32]byte, error) {
	var out [32]byte
	s = strings.TrimPrefix(s, "0x")
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 32 {
		return out, fmt.Errorf("%w: malformed prev_hash %q", domain.ErrInvalidInput, s)
	}
	copy(out[:], raw)
	return out, nil
}

// Send builds, signs, and broadcasts a native or token transfer from a raw
// Dilithium private key (spec.md §4.7 end to end flow).
func (a *Adapter) Send(ctx context.Context, from, to, amount, token string, privKey []byte, speed domain.Speed) (string, error) {
	amountU, err := u256.FromAmountString(amount)
	if err != nil {
		return "", err
	}

	serializedSk := privKey
	pkRaw, err := derivePublicFromPrivate(serializedSk)
	if err != nil {
		return "", err
	}
	serializedPk := serializePubkeyFraming(pkRaw)

	fromAddr := addresscodec.ComposeCellframeAddress(serializedPk, a.cfg.NetID)
	return a.buildSignBroadcast(ctx, fromAddr, to, amountU, token, serializedSk, serializedPk, speed)
}

// SendFromWallet resolves keys from a .dwallet container file, then
// delegates to the same build/sign/broadcast path as Send.
func (a *Adapter) SendFromWallet(ctx context.Context, walletPath, to, amount, token, net string, speed domain.Speed) (string, error) {
	data, err := readFile(walletPath)
	if err != nil {
		return "", err
	}
	w, err := container.DecodeWallet(data, a.cfg.NetID)
	if err != nil {
		return "", err
	}
	if w.Protected {
		return "", domain.ErrProtectedWallet
	}

	amountU, err := u256.FromAmountString(amount)
	if err != nil {
		return "", err
	}

	serializedSk := serializeKeyFraming(w.PrivateKey, privateKeyTotalLen)
	serializedPk := serializeKeyFraming(w.PublicKey, publicKeyTotalLen)

	return a.buildSignBroadcast(ctx, w.Address, to, amountU, token, serializedSk, serializedPk, speed)
}

const (
	publicKeyTotalLen  = pq.DilithiumPublicKeySize + 12
	privateKeyTotalLen = pq.DilithiumPrivateKeySize + 12
)

func (a *Adapter) buildSignBroadcast(ctx context.Context, fromAddr, to string, amount u256.U256, token, serializedSk, serializedPk []byte, speed domain.Speed) (string, error) {
	recipientRaw, err := addresscodec.DecodeCellframeAddressRaw(to)
	if err != nil {
		return "", err
	}
	collectorRaw, err := addresscodec.DecodeCellframeAddressRaw(a.cfg.FeeCollectorAddress)
	if err != nil {
		return "", err
	}
	senderRaw, err := addresscodec.DecodeCellframeAddressRaw(fromAddr)
	if err != nil {
		return "", err
	}

	isNative := token == "" || strings.EqualFold(token, "CELL")

	b := txbuilder.NewBuilder(uint64(nowUnix()))

	totalFees, overflow := a.cfg.NetworkFee.Add(a.cfg.ValidatorFee)
	if overflow {
		return "", domain.ErrNumericOverflow
	}

	if isNative {
		required, overflow := amount.Add(totalFees)
		if overflow {
			return "", domain.ErrNumericOverflow
		}
		outs, err := a.fetchOutsCached(ctx, fromAddr, "CELL")
		if err != nil {
			return "", err
		}
		selected, total, err := selectUTXOs(outs, required)
		if err != nil {
			return "", err
		}
		for _, o := range selected {
			hash, err := parseHexHash32(o.PrevHash)
			if err != nil {
				return "", err
			}
			b.AddIn(hash, o.Idx)
		}
		b.AddOut(amount, recipientRaw)
		b.AddOut(a.cfg.NetworkFee, collectorRaw)
		change, underflow := total.Sub(required)
		if underflow {
			return "", domain.ErrNumericOverflow
		}
		if !change.IsZero() {
			b.AddOut(change, senderRaw)
		}
		b.AddFee(a.cfg.ValidatorFee)
	} else {
		tokenOuts, err := a.fetchOutsCached(ctx, fromAddr, token)
		if err != nil {
			return "", err
		}
		tokenSelected, tokenTotal, err := selectUTXOs(tokenOuts, amount)
		if err != nil {
			return "", err
		}
		cellOuts, err := a.fetchOutsCached(ctx, fromAddr, "CELL")
		if err != nil {
			return "", err
		}
		cellSelected, cellTotal, err := selectUTXOs(cellOuts, totalFees)
		if err != nil {
			return "", err
		}
		for _, o := range tokenSelected {
			hash, err := parseHexHash32(o.PrevHash)
			if err != nil {
				return "", err
			}
			b.AddIn(hash, o.Idx)
		}
		for _, o := range cellSelected {
			hash, err := parseHexHash32(o.PrevHash)
			if err != nil {
				return "", err
			}
			b.AddIn(hash, o.Idx)
		}
		if err := b.AddOutExt(amount, recipientRaw, token); err != nil {
			return "", err
		}
		if err := b.AddOutExt(a.cfg.NetworkFee, collectorRaw, "CELL"); err != nil {
			return "", err
		}
		cellChange, underflow := cellTotal.Sub(totalFees)
		if underflow {
			return "", domain.ErrNumericOverflow
		}
		if !cellChange.IsZero() {
			if err := b.AddOutExt(cellChange, senderRaw, "CELL"); err != nil {
				return "", err
			}
		}
		tokenChange, underflow := tokenTotal.Sub(amount)
		if underflow {
			return "", domain.ErrNumericOverflow
		}
		if !tokenChange.IsZero() {
			if err := b.AddOutExt(tokenChange, senderRaw, token); err != nil {
				return "", err
			}
		}
		b.AddFee(a.cfg.ValidatorFee)
	}

	signingData := b.GetSigningData()
	dapSign, err := signer.SignTransaction(signingData, serializedSk, serializedPk)
	if err != nil {
		return "", err
	}
	b.AddSignature(dapSign)
	final := b.GetFinalData()

	hash, err := a.broadcast(ctx, final)
	if err == nil {
		a.invalidateSpentUTXOs(ctx, fromAddr, token, isNative)
	}
	return hash, err
}

// invalidateSpentUTXOs drops cached UTXO listings a send has just consumed so
// the next send against the same address re-queries the node rather than
// reusing a now-stale set.
func (a *Adapter) invalidateSpentUTXOs(ctx context.Context, fromAddr, token string, isNative bool) {
	if a.cfg.UTXOCache == nil {
		return
	}
	_ = a.cfg.UTXOCache.Invalidate(ctx, a.cfg.NetworkName, fromAddr, "CELL")
	if !isNative {
		_ = a.cfg.UTXOCache.Invalidate(ctx, a.cfg.NetworkName, fromAddr, token)
	}
}

type txCreateResponse struct {
	TxCreate bool   `json:"tx_create"`
	Hash     string `json:"hash"`
}

func (a *Adapter) broadcast(ctx context.Context, final []byte) (string, error) {
	var result []txCreateResponse
	params := []interface{}{"tx_create_json", "-net", a.cfg.NetworkName, "-datum", hex.EncodeToString(final)}
	if err := a.rpc.Call(ctx, "tx_create_json", params, &result); err != nil {
		return "", err
	}
	if len(result) == 0 || !result[0].TxCreate {
		return "", domain.ErrNodeRejected
	}
	return result[0].Hash, nil
}

// TxStatus reports SUCCESS if tx;dump returns a record, NOT_FOUND otherwise
// (spec.md §4.7 "Status").
func (a *Adapter) TxStatus(ctx context.Context, hash string) (domain.TxStatus, error) {
	var result []map[string]interface{}
	params := []interface{}{"tx", "dump", "-net", a.cfg.NetworkName, "-hash", hash}
	if err := a.rpc.Call(ctx, "tx;dump", params, &result); err != nil {
		return domain.TxStatusNotFound, nil
	}
	if len(result) == 0 {
		return domain.TxStatusNotFound, nil
	}
	return domain.TxStatusSuccess, nil
}

// History parses tx;history, skipping the first two meta elements and
// mapping each record via the tx_type=="recv" discriminator (spec.md §4.7
// "History").
func (a *Adapter) History(ctx context.Context, addr, token string) ([]domain.HistoryEntry, error) {
	var raw []historyRecord
	params := []interface{}{"tx", "history", "-addr", addr, "-net", a.cfg.NetworkName}
	if err := a.rpc.Call(ctx, "tx;history", params, &raw); err != nil {
		return nil, err
	}
	if len(raw) <= 2 {
		return nil, nil
	}
	entries := make([]domain.HistoryEntry, 0, len(raw)-2)
	for _, r := range raw[2:] {
		if token != "" && r.Token != token {
			continue
		}
		entries = append(entries, domain.HistoryEntry{
			Hash:         r.Hash,
			Status:       domain.TxStatusSuccess,
			Timestamp:    r.Timestamp,
			Token:        r.Token,
			Amount:       r.Amount,
			IsOutgoing:   r.TxType != "recv",
			OtherAddress: r.OtherAddress,
		})
	}
	return entries, nil
}

type historyRecord struct {
	Hash         string `json:"hash"`
	Timestamp    int64  `json:"timestamp"`
	Token        string `json:"token"`
	Amount       string `json:"amount"`
	TxType       string `json:"tx_type"`
	OtherAddress string `json:"other_address"`
}
