// internal/intmax/http_client.go
package intmax

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zksub/zksub-backend/internal/config"
)

// HTTPClient talks to a wallet node service over HTTP. The node holds the
// actual wallet; this client only brackets sessions and reads history.
type HTTPClient struct {
	baseURL string
	cfg     config.IntMaxConfig
	http    *http.Client

	mtx   sync.Mutex
	token string
}

type loginRequest struct {
	Environment   string `json:"environment"`
	EthPrivateKey string `json:"eth_private_key"`
	L1RPCURL      string `json:"l1_rpc_url"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type historyResponse struct {
	Transactions []Transaction `json:"transactions"`
}

func NewHTTPClient(cfg config.IntMaxConfig) *HTTPClient {
	return &HTTPClient{
		baseURL: cfg.APIURL,
		cfg:     cfg,
		http: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

func (c *HTTPClient) Login(ctx context.Context) error {
	body, err := json.Marshal(loginRequest{
		Environment:   c.cfg.Environment,
		EthPrivateKey: c.cfg.EthPrivateKey,
		L1RPCURL:      c.cfg.L1RPCURL,
	})
	if err != nil {
		return fmt.Errorf("failed to encode login request: %w", err)
	}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/v1/wallet/login", bytes.NewReader(body), &resp); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	c.mtx.Lock()
	c.token = resp.Token
	c.mtx.Unlock()

	logrus.Debug("Payment network session established")
	return nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/v1/wallet/logout", nil, nil); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	c.mtx.Lock()
	c.token = ""
	c.mtx.Unlock()

	logrus.Debug("Payment network session released")
	return nil
}

func (c *HTTPClient) FetchTransactionHistory(ctx context.Context) ([]Transaction, error) {
	var resp historyResponse
	if err := c.do(ctx, http.MethodGet, "/v1/wallet/transactions", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch transaction history: %w", err)
	}
	return resp.Transactions, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	c.mtx.Lock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mtx.Unlock()

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, string(snippet))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
