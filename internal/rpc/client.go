// Package rpc is a minimal Ethereum JSON-RPC client used for wallet balance
// queries. It speaks plain JSON-RPC 2.0 over HTTP; chain interaction beyond
// read-only queries is out of scope for this client.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"chainchat/internal/logging"
)

const defaultTimeout = 15 * time.Second

// Client talks to one JSON-RPC endpoint.
type Client struct {
	url    string
	http   *http.Client
	nextID atomic.Int64
}

// NewClient builds a client for the given endpoint URL.
func NewClient(url string) *Client {
	return &Client{
		url:  url,
		http: &http.Client{Timeout: defaultTimeout},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Call invokes a JSON-RPC method and decodes the result into out.
func (c *Client) Call(ctx context.Context, method string, params []any, out any) error {
	if c.url == "" {
		return fmt.Errorf("rpc endpoint not configured")
	}

	reqBody := rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rpc endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if rpcResp.Error != nil {
		return rpcResp.Error
	}

	logging.L(logging.CategoryRPC).Debugw("call completed", "method", method, "elapsed", time.Since(start))

	if out != nil {
		if err := json.Unmarshal(rpcResp.Result, out); err != nil {
			return fmt.Errorf("failed to parse result: %w", err)
		}
	}
	return nil
}

// BalanceAt returns the latest balance of an address in wei.
func (c *Client) BalanceAt(ctx context.Context, address string) (*big.Int, error) {
	var hexBalance string
	if err := c.Call(ctx, "eth_getBalance", []any{address, "latest"}, &hexBalance); err != nil {
		return nil, err
	}
	return parseHexBig(hexBalance)
}

// ChainID returns the endpoint's chain id.
func (c *Client) ChainID(ctx context.Context) (int, error) {
	var hexID string
	if err := c.Call(ctx, "eth_chainId", []any{}, &hexID); err != nil {
		return 0, err
	}
	id, err := parseHexBig(hexID)
	if err != nil {
		return 0, err
	}
	return int(id.Int64()), nil
}

func parseHexBig(s string) (*big.Int, error) {
	clean := strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if clean == "" {
		return nil, fmt.Errorf("empty hex quantity")
	}
	v, ok := new(big.Int).SetString(clean, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex quantity %q", s)
	}
	return v, nil
}

// FormatEther renders a wei amount as a decimal ether string with up to six
// fractional digits.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	ether := new(big.Rat).SetFrac(wei, big.NewInt(1e18))
	out := ether.FloatString(6)
	out = strings.TrimRight(out, "0")
	out = strings.TrimSuffix(out, ".")
	if out == "" || out == "-" {
		return "0"
	}
	return out
}
