// Package ethereum implements the Ethereum chain adapter (spec.md §4.9):
// nonce/gas-price discovery, speed-tiered legacy transaction assembly,
// ERC-20 call-data encoding, and broadcast over a standard Ethereum
// JSON-RPC node.
package ethereum

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nocdem/dna-messenger/walletcore/internal/chain/ethereum/signer"
	"github.com/nocdem/dna-messenger/walletcore/internal/domain"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/addresscodec"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/container"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/u256"
)

// Config holds the parameters an Adapter is constructed with.
type Config struct {
	RPCURL          string
	ChainID         uint64
	ExplorerBaseURL string // block-explorer API base, e.g. Blockscout (spec.md §4.9 "History")

	// RateLimiter is optional. When set, every RPC call this adapter
	// issues is throttled through it under the "ethereum" key.
	RateLimiter domain.RateLimiter
}

// Adapter implements domain.Adapter for Ethereum and ERC-20 tokens.
type Adapter struct {
	cfg        Config
	rpc        *RPCClient
	httpClient *http.Client
}

// NewAdapter constructs an Ethereum adapter.
func NewAdapter(cfg Config) *Adapter {
	rpc := NewRPCClient(cfg.RPCURL)
	if cfg.RateLimiter != nil {
		rpc.SetRateLimiter(cfg.RateLimiter, "ethereum")
	}
	return &Adapter{
		cfg:        cfg,
		rpc:        rpc,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (a *Adapter) Name() string                     { return "ethereum" }
func (a *Adapter) Type() domain.ChainType           { return domain.ChainEthereum }
func (a *Adapter) Init(ctx context.Context) error   { return nil }
func (a *Adapter) Cleanup() error                   { return nil }
func (a *Adapter) ValidateAddress(addr string) bool { return addresscodec.ValidateEthereumAddress(addr) }

// Balance queries eth_getBalance(addr,"latest") and formats the hex-wei
// result as a decimal string with up to 18 fractional digits, trimming
// trailing zeros (spec.md §4.9 "Balance"). An empty token selects the
// chain's native unit (ETH); a non-empty token queries that ERC-20
// contract's balanceOf instead.
func (a *Adapter) Balance(ctx context.Context, addr, token string) (string, error) {
	addrBytes, err := addresscodec.DecodeEthereumAddress(addr)
	if err != nil {
		return "", err
	}

	if token == "" {
		var hexBalance string
		if err := a.rpc.Call(ctx, "eth_getBalance", []interface{}{addr, "latest"}, &hexBalance); err != nil {
			return "", err
		}
		v, err := parseHexU256(hexBalance)
		if err != nil {
			return "", err
		}
		return formatBalanceDisplay(v, "999999999.0"), nil
	}

	tokenAddr, err := addresscodec.DecodeEthereumAddress(token)
	if err != nil {
		return "", err
	}
	callData := ERC20BalanceOfCallData(addrBytes)
	retHex, err := a.ethCall(ctx, tokenAddr, callData)
	if err != nil {
		return "", err
	}
	ret, err := hex.DecodeString(strings.TrimPrefix(retHex, "0x"))
	if err != nil {
		return "", fmt.Errorf("%w: malformed balanceOf return: %v", domain.ErrRpcError, err)
	}
	v := DecodeERC20BalanceOfResult(ret)
	return formatBalanceDisplay(v, "999999.0"), nil
}

// formatBalanceDisplay clamps a balance exceeding u64::MAX to a display-only
// sentinel before formatting (spec.md §9 open question 2 — a legacy display
// degradation preserved on purpose). The clamp never touches the U256 value
// itself; it only governs what Balance returns to the caller, so nothing
// downstream of a send (the signer in particular) ever sees a sentinel.
func formatBalanceDisplay(v u256.U256, sentinel string) string {
	if v.HiHi != 0 || v.HiLo != 0 || v.LoHi != 0 {
		return sentinel
	}
	return u256.FormatFixed(v, 18)
}

// speedMultiplierPercent implements the 80/100/150 percent tiering (spec.md
// §4.9 "Speed tiering").
func speedMultiplierPercent(speed domain.Speed) uint64 {
	switch speed {
	case domain.SpeedSlow:
		return 80
	case domain.SpeedFast:
		return 150
	default:
		return 100
	}
}

func (a *Adapter) gasPrice(ctx context.Context, speed domain.Speed) (u256.U256, error) {
	var hexPrice string
	if err := a.rpc.Call(ctx, "eth_gasPrice", nil, &hexPrice); err != nil {
		return u256.U256{}, err
	}
	base, err := parseHexU256(hexPrice)
	if err != nil {
		return u256.U256{}, err
	}
	pct := u256.FromU64(speedMultiplierPercent(speed))
	scaled, overflow := base.MulChecked(pct)
	if overflow {
		return u256.U256{}, domain.ErrNumericOverflow
	}
	quotient, _ := scaled.DivModSmall(100)
	return quotient, nil
}

// EstimateFee returns gas_price * 21000 at the given speed tier as the fee,
// and the gas price itself (spec.md §3 "Adapter descriptor").
func (a *Adapter) EstimateFee(ctx context.Context, speed domain.Speed) (domain.FeeEstimate, error) {
	price, err := a.gasPrice(ctx, speed)
	if err != nil {
		return domain.FeeEstimate{}, err
	}
	gasLimit := u256.FromU64(21000)
	fee, overflow := price.MulChecked(gasLimit)
	if overflow {
		return domain.FeeEstimate{}, domain.ErrNumericOverflow
	}
	return domain.FeeEstimate{Fee: fee.String(), GasPrice: price.String()}, nil
}

func (a *Adapter) nonce(ctx context.Context, addr string) (uint64, error) {
	var hexNonce string
	if err := a.rpc.Call(ctx, "eth_getTransactionCount", []interface{}{addr, "pending"}, &hexNonce); err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(hexNonce, "0x"), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed nonce %q: %v", domain.ErrRpcError, hexNonce, err)
	}
	return n, nil
}

// Send builds, signs, and broadcasts an ETH or ERC-20 transfer from a raw
// 32-byte secp256k1 private key (spec.md §4.9).
func (a *Adapter) Send(ctx context.Context, from, to, amount, token string, privKey []byte, speed domain.Speed) (string, error) {
	if len(privKey) != 32 {
		return "", fmt.Errorf("%w: ethereum private key must be 32 bytes, got %d", domain.ErrKeyError, len(privKey))
	}
	var sk [32]byte
	copy(sk[:], privKey)
	return a.buildSignBroadcast(ctx, from, to, amount, token, sk, speed)
}

// SendFromWallet resolves the sender's key from an unencrypted Ethereum
// keystore JSON file, then delegates to the same build/sign/broadcast path
// as Send.
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
	return a.buildSignBroadcast(ctx, ks.Address, to, amount, token, sk, speed)
}

func (a *Adapter) buildSignBroadcast(ctx context.Context, from, to, amount, token string, sk [32]byte, speed domain.Speed) (string, error) {
	amountU, err := u256.FromAmountString(amount)
	if err != nil {
		return "", err
	}

	price, err := a.gasPrice(ctx, speed)
	if err != nil {
		return "", err
	}
	n, err := a.nonce(ctx, from)
	if err != nil {
		return "", err
	}

	isNative := token == ""
	var toAddr [20]byte
	var value u256.U256
	var data []byte
	var gasLimit uint64

	if isNative {
		toAddr, err = addresscodec.DecodeEthereumAddress(to)
		if err != nil {
			return "", err
		}
		value = amountU
		gasLimit = 21000
	} else {
		tokenAddr, err := addresscodec.DecodeEthereumAddress(token)
		if err != nil {
			return "", err
		}
		recipientAddr, err := addresscodec.DecodeEthereumAddress(to)
		if err != nil {
			return "", err
		}
		// The outer transaction's recipient is the contract, not the
		// ultimate token recipient (spec.md §4.9 "ERC-20 transfer").
		toAddr = tokenAddr
		value = u256.Zero()
		data = ERC20TransferCallData(recipientAddr, amountU)
		gasLimit = ERC20TransferGasLimit
	}

	tx := signer.Transaction{
		Nonce:    n,
		GasPrice: price,
		GasLimit: gasLimit,
		To:       toAddr,
		Value:    value,
		Data:     data,
		ChainID:  a.cfg.ChainID,
	}
	signed, err := signer.Sign(tx, sk)
	if err != nil {
		return "", err
	}
	raw := signed.Encode()

	var txHash string
	if err := a.rpc.Call(ctx, "eth_sendRawTransaction", []interface{}{"0x" + hex.EncodeToString(raw)}, &txHash); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrNodeRejected, err)
	}
	return txHash, nil
}

// TxStatus reports SUCCESS when eth_getTransactionReceipt returns a receipt
// with status 0x1, FAILED for status 0x0, PENDING when the transaction is
// known but unmined, and NOT_FOUND otherwise (spec.md §4.9).
func (a *Adapter) TxStatus(ctx context.Context, hash string) (domain.TxStatus, error) {
	var receipt *struct {
		Status string `json:"status"`
	}
	if err := a.rpc.Call(ctx, "eth_getTransactionReceipt", []interface{}{hash}, &receipt); err != nil {
		return domain.TxStatusNotFound, nil
	}
	if receipt == nil {
		var tx *struct {
			Hash string `json:"hash"`
		}
		if err := a.rpc.Call(ctx, "eth_getTransactionByHash", []interface{}{hash}, &tx); err != nil || tx == nil {
			return domain.TxStatusNotFound, nil
		}
		return domain.TxStatusPending, nil
	}
	switch receipt.Status {
	case "0x1":
		return domain.TxStatusSuccess, nil
	case "0x0":
		return domain.TxStatusFailed, nil
	default:
		return domain.TxStatusNotFound, nil
	}
}

// ethCall issues eth_call against to with data at the latest block, returning
// the raw 0x-hex result string.
func (a *Adapter) ethCall(ctx context.Context, to [20]byte, data []byte) (string, error) {
	callObj := map[string]string{
		"to":   "0x" + hex.EncodeToString(to[:]),
		"data": "0x" + hex.EncodeToString(data),
	}
	var result string
	if err := a.rpc.Call(ctx, "eth_call", []interface{}{callObj, "latest"}, &result); err != nil {
		return "", err
	}
	return result, nil
}

// explorerTx is the subset of a Blockscout-style "account transaction list"
// API response this adapter understands.
type explorerTx struct {
	Hash      string `json:"hash"`
	From      string `json:"from"`
	To        string `json:"to"`
	Value     string `json:"value"`
	Timestamp string `json:"timeStamp"`
	IsError   string `json:"isError"`
	TokenAddr string `json:"contractAddress"`
}

// History fetches addr's transaction list from the configured block-explorer
// API (spec.md §4.9 "History" — "the exact endpoint is a collaborator"; this
// targets the Blockscout/Etherscan-compatible "txlist" action, the most
// widely deployed shape among Ethereum explorers). An empty ExplorerBaseURL
// means no explorer has been wired for this deployment, so History fails
// with ErrInvalidInput rather than guessing at an endpoint.
func (a *Adapter) History(ctx context.Context, addr, token string) ([]domain.HistoryEntry, error) {
	if a.cfg.ExplorerBaseURL == "" {
		return nil, fmt.Errorf("%w: no block explorer configured for this ethereum deployment", domain.ErrInvalidInput)
	}

	path := fmt.Sprintf("%s/api?module=account&action=txlist&address=%s&sort=desc",
		a.cfg.ExplorerBaseURL, addr)
	body, err := a.doExplorerGet(ctx, path)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Result []explorerTx `json:"result"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode explorer response: %v", domain.ErrRpcError, err)
	}

	normalizedAddr := strings.ToLower(addr)
	entries := make([]domain.HistoryEntry, 0, len(envelope.Result))
	for _, tx := range envelope.Result {
		if token != "" && !strings.EqualFold(tx.TokenAddr, token) {
			continue
		}
		ts, _ := strconv.ParseInt(tx.Timestamp, 10, 64)
		amount, err := parseHexOrDecimalU256(tx.Value)
		if err != nil {
			continue
		}
		outgoing := strings.EqualFold(tx.From, normalizedAddr)
		other := tx.From
		if outgoing {
			other = tx.To
		}
		status := domain.TxStatusSuccess
		if tx.IsError == "1" {
			status = domain.TxStatusFailed
		}
		entries = append(entries, domain.HistoryEntry{
			Hash:         tx.Hash,
			Status:       status,
			Timestamp:    ts,
			Token:        token,
			Amount:       u256.FormatFixed(amount, 18),
			IsOutgoing:   outgoing,
			OtherAddress: other,
		})
	}
	return entries, nil
}

func (a *Adapter) doExplorerGet(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create explorer request: %v", domain.ErrIoError, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: explorer request: %v", domain.ErrIoError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read explorer response: %v", domain.ErrIoError, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: explorer returned status %d", domain.ErrRpcError, resp.StatusCode)
	}
	return body, nil
}

// parseHexOrDecimalU256 accepts either a 0x-prefixed hex integer (what the
// JSON-RPC endpoints return) or a plain decimal string (what explorer APIs
// typically return for wei amounts).
func parseHexOrDecimalU256(s string) (u256.U256, error) {
	if strings.HasPrefix(s, "0x") {
		return parseHexU256(s)
	}
	return u256.ScanUninteger(s)
}

func parseHexU256(s string) (u256.U256, error) {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		s = "0"
	}
	if len(s)%2 != 0 {
		s = "0" + s
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return u256.U256{}, fmt.Errorf("%w: malformed hex integer %q: %v", domain.ErrRpcError, s, err)
	}
	if len(raw) > 32 {
		return u256.U256{}, fmt.Errorf("%w: hex integer %q overflows 256 bits", domain.ErrNumericOverflow, s)
	}
	var buf [32]byte
	copy(buf[32-len(raw):], raw)
	return u256.FromBigEndianBytes(buf), nil
}
