package cellframe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nocdem/dna-messenger/walletcore/internal/domain"
)

// RPCClient is the JSON-RPC client for a Cellframe node (spec.md §4.7).
// Grounded on the teacher's polymarket/gamma.go doGet/checkHTTPStatus shape,
// adapted from REST GETs to a single JSON-RPC POST endpoint.
type RPCClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    domain.RateLimiter
	limiterKey string
}

// NewRPCClient returns a client against baseURL (a Cellframe node's JSON-RPC
// endpoint).
func NewRPCClient(baseURL string) *RPCClient {
	return &RPCClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetRateLimiter attaches a distributed rate limiter that Call throttles
// outbound requests against, keyed by key (spec.md §2 component 15). A nil
// limiter disables throttling.
func (c *RPCClient) SetRateLimiter(limiter domain.RateLimiter, key string) {
	c.limiter = limiter
	c.limiterKey = key
}

type rpcRequest struct {
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
	ID     int             `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Call issues method with params and decodes the raw "result" field into
// out. A non-nil "error" field in the response is surfaced as RpcError.
func (c *RPCClient) Call(ctx context.Context, method string, params []interface{}, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, c.limiterKey); err != nil {
			return fmt.Errorf("%w: rate limit wait: %v", domain.ErrRpcError, err)
		}
	}

	reqBody, err := json.Marshal(rpcRequest{Method: method, Params: params, ID: 1})
	if err != nil {
		return fmt.Errorf("%w: encode request: %v", domain.ErrRpcError, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("%w: create request: %v", domain.ErrRpcError, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIoError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", domain.ErrIoError, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: node returned status %d: %s", domain.ErrRpcError, resp.StatusCode, string(body))
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return fmt.Errorf("%w: decode envelope: %v", domain.ErrRpcError, err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("%w: %s (code %d)", domain.ErrRpcError, rpcResp.Error.Message, rpcResp.Error.Code)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(rpcResp.Result, out); err != nil {
		return fmt.Errorf("%w: decode result: %v", domain.ErrRpcError, err)
	}
	return nil
}
