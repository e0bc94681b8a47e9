package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"nhbfaucet/crypto"
)

const defaultHTTPTimeout = 15 * time.Second

// Client talks JSON-RPC 2.0 to an NHB node. All methods are bound to the
// caller's context; the embedded HTTP client enforces an overall ceiling on
// top of that.
type Client struct {
	endpoint   string
	authToken  string
	httpClient *http.Client
	nextID     atomic.Int64
}

func NewClient(endpoint, authToken string) *Client {
	return &Client{
		endpoint:   strings.TrimSpace(endpoint),
		authToken:  strings.TrimSpace(authToken),
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int64         `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// Account mirrors the nhb_getBalance result fields the faucet consumes.
type Account struct {
	Address    string   `json:"address"`
	BalanceNHB *big.Int `json:"balanceNHB"`
	Nonce      uint64   `json:"nonce"`
}

// Account fetches the balance and nonce for an address.
func (c *Client) Account(ctx context.Context, addr string) (*Account, error) {
	result, err := c.call(ctx, "nhb_getBalance", []interface{}{addr}, false)
	if err != nil {
		return nil, err
	}
	var account Account
	if err := json.Unmarshal(result, &account); err != nil {
		return nil, fmt.Errorf("decode balance response: %w", err)
	}
	if account.BalanceNHB == nil {
		account.BalanceNHB = big.NewInt(0)
	}
	return &account, nil
}

// Balance returns the confirmed NHB balance for an address.
func (c *Client) Balance(ctx context.Context, addr string) (*big.Int, error) {
	account, err := c.Account(ctx, addr)
	if err != nil {
		return nil, err
	}
	return account.BalanceNHB, nil
}

// SubmitTransfer signs a value transfer with the given key and submits it,
// returning the transaction hash once the node has accepted it. The sender
// nonce is fetched immediately before signing.
func (c *Client) SubmitTransfer(ctx context.Context, key *crypto.PrivateKey, to crypto.Address, amount *big.Int) (string, error) {
	from := key.PubKey().Address().String()
	account, err := c.Account(ctx, from)
	if err != nil {
		return "", fmt.Errorf("fetch sender account: %w", err)
	}

	tx := NewTransfer(to, amount, account.Nonce)
	if err := tx.Sign(key); err != nil {
		return "", fmt.Errorf("sign transaction: %w", err)
	}

	result, err := c.call(ctx, "nhb_sendTransaction", []interface{}{tx}, true)
	if err != nil {
		return "", err
	}

	var hash string
	if len(result) > 0 {
		if err := json.Unmarshal(result, &hash); err != nil {
			// Some node versions return an acknowledgment object instead of
			// the bare hash string.
			hash = ""
		}
	}
	if strings.TrimSpace(hash) == "" {
		hash, err = tx.HashHex()
		if err != nil {
			return "", fmt.Errorf("derive transaction hash: %w", err)
		}
	}
	return hash, nil
}

func (c *Client) call(ctx context.Context, method string, params []interface{}, requireAuth bool) (json.RawMessage, error) {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	})
	if err != nil {
		return nil, fmt.Errorf("encode rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build rpc request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if requireAuth && c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", c.endpoint, err)
	}
	defer resp.Body.Close()

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, fmt.Errorf("decode response from node: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("error from node: %s", rpcResp.Error.Message)
	}
	return rpcResp.Result, nil
}
