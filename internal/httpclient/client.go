// Package httpclient provides the retrying JSON transport used by all
// PDBe MCP adapters.
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/PDBeurope/PDBe-MCP-Servers/internal/common"
	"github.com/PDBeurope/PDBe-MCP-Servers/internal/config"
)

// maxResponseSize caps response bodies to prevent OOM from unexpectedly large responses.
const maxResponseSize = 50 << 20 // 50MB

// retryableStatus lists the upstream status codes worth retrying.
var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// StatusError is returned when the upstream responds with a non-2xx status.
// The body is kept so callers can render it into their error envelopes.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

// Client is a JSON HTTP client with bounded exponential-backoff retries on
// 429/500/502/503/504 and transport errors. It is explicitly constructed and
// passed to the components that need it; there is no shared global session.
type Client struct {
	httpClient *http.Client
	logger     *common.Logger
	maxRetries uint64
}

// New creates a client from transport configuration.
func New(cfg config.ClientConfig, logger *common.Logger) *Client {
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.GetTimeout()},
		logger:     logger,
		maxRetries: uint64(maxRetries),
	}
}

// GetJSON performs a GET request with optional query parameters and decodes
// the JSON response body.
func (c *Client) GetJSON(ctx context.Context, rawURL string, params url.Values) (any, error) {
	return c.doJSON(ctx, http.MethodGet, rawURL, params)
}

// PostJSON performs a POST request with no body and decodes the JSON
// response body. Request bodies are not supported by the upstream contract.
func (c *Client) PostJSON(ctx context.Context, rawURL string) (any, error) {
	return c.doJSON(ctx, http.MethodPost, rawURL, nil)
}

func (c *Client) doJSON(ctx context.Context, method, rawURL string, params url.Values) (any, error) {
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		rawURL += sep + params.Encode()
	}

	logger := c.logger.WithCorrelationId(uuid.NewString()[:8])

	var result any
	op := func() error {
		logger.Debug().Str("method", method).Str("url", rawURL).Msg("api request")

		req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		duration := time.Since(start)
		if err != nil {
			logger.Error().Str("method", method).Str("url", rawURL).Int64("duration_ms", duration.Milliseconds()).Str("error", err.Error()).Msg("api request failed")
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		logger.Debug().Int("status", resp.StatusCode).Int64("duration_ms", duration.Milliseconds()).Msg("api response")

		if resp.StatusCode >= 400 {
			serr := &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
			if retryableStatus[resp.StatusCode] {
				return serr
			}
			return backoff.Permanent(serr)
		}

		if err := json.Unmarshal(body, &result); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to parse response: %w", err))
		}
		return nil
	}

	notify := func(err error, wait time.Duration) {
		logger.Warn().Str("url", rawURL).Str("error", err.Error()).Int64("retry_in_ms", wait.Milliseconds()).Msg("retrying api request")
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.RetryNotify(op, bo, notify); err != nil {
		return nil, err
	}
	return result, nil
}
