package node

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"utxo-wallet-core/config"
	"utxo-wallet-core/pkg/walleterr"

	"github.com/rs/zerolog"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client implements ports.NodeClient over HTTP: a signed transaction is
// POSTed to the node's submission endpoint. Addresses are tried in order;
// the first accepted submission wins.
type Client struct {
	addresses  []string
	attempts   int
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewClient creates a node client from the node configuration.
func NewClient(cfg config.NodeConfig, log zerolog.Logger) *Client {
	attempts := cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &Client{
		addresses:  cfg.Addresses,
		attempts:   attempts,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// NewClientWithHTTP creates a node client with an injected HTTP client.
func NewClientWithHTTP(cfg config.NodeConfig, httpClient HTTPClient, log zerolog.Logger) *Client {
	c := NewClient(cfg, log)
	c.httpClient = httpClient
	return c
}

// Broadcast submits rawTx to the node. Every configured address is tried on
// every attempt; the call fails only once all attempts are exhausted.
func (c *Client) Broadcast(ctx context.Context, rawTx []byte) error {
	if len(c.addresses) == 0 {
		return walleterr.ErrNetwork(fmt.Errorf("no node addresses configured"))
	}

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		for _, addr := range c.addresses {
			if err := c.submit(ctx, addr, rawTx); err != nil {
				lastErr = err
				c.log.Warn().Err(err).
					Str("node", addr).
					Int("attempt", attempt).
					Msg("transaction submission failed")
				continue
			}
			return nil
		}
		if ctx.Err() != nil {
			return walleterr.ErrNetwork(ctx.Err())
		}
	}
	return walleterr.ErrNetwork(lastErr)
}

func (c *Client) submit(ctx context.Context, addr string, rawTx []byte) error {
	url := fmt.Sprintf("http://%s/transactions", addr)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(rawTx))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("node %s returned status %d", addr, resp.StatusCode)
	}

	c.log.Debug().Str("node", addr).Msg("transaction submitted")
	return nil
}
