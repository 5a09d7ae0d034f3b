package tron

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

// httpClient is a minimal JSON-over-HTTP client against a TRON full node's
// REST API (/wallet/*), grounded on the teacher's
// internal/platform/kalshi/client.go doSignedRequest shape (POST JSON body,
// read full response, decode) with the RSA request-signing stripped out —
// TRON's HTTP API needs no request signing, only the transaction payload
// itself is signed (see adapter.go buildSignBroadcast).
type httpClient struct {
	baseURL    string
	client     *http.Client
	limiter    domain.RateLimiter
	limiterKey string
}

func newHTTPClient(baseURL string) *httpClient {
	return &httpClient{baseURL: baseURL, client: &http.Client{Timeout: 30 * time.Second}}
}

// setRateLimiter attaches a distributed rate limiter that post throttles
// outbound requests against, keyed by key (spec.md §2 component 15). A nil
// limiter disables throttling.
func (c *httpClient) setRateLimiter(limiter domain.RateLimiter, key string) {
	c.limiter = limiter
	c.limiterKey = key
}

func (c *httpClient) post(ctx context.Context, path string, reqBody, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, c.limiterKey); err != nil {
			return fmt.Errorf("%w: rate limit wait: %v", domain.ErrRpcError, err)
		}
	}

	var bodyReader io.Reader
	if reqBody != nil {
		raw, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("%w: encode request: %v", domain.ErrRpcError, err)
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("%w: create request: %v", domain.ErrRpcError, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
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
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrRpcError, err)
	}
	return nil
}
