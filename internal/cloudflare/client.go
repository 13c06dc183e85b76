// Package cloudflare is a minimal client for the parts of the
// Cloudflare v4 API this tool needs: account-level IP lists and
// zone-level firewall rules. Responses use the v4 envelope, which is
// checked on every call before the result payload is touched.
package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/edgeban/edgeban/internal/brand"
	"github.com/edgeban/edgeban/internal/logging"
	"github.com/edgeban/edgeban/internal/metrics"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.cloudflare.com/client/v4"

// Client talks to the Cloudflare API with one domain's credentials.
// Auth uses the legacy global-key headers (X-Auth-Email / X-Auth-Key),
// matching the credential shape of the config.
type Client struct {
	baseURL    string
	email      string
	apiKey     string
	httpClient *http.Client
	logger     *logging.Logger
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API endpoint (used by tests).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a Client authenticating as email/apiKey.
func NewClient(email, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		email:   email,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.Default()
	}
	c.logger = c.logger.WithComponent("cloudflare")

	return c
}

// doRequest performs one bounded request/response cycle and decodes
// the v4 envelope. There is no retry here: transient failures surface
// immediately as TransportError and the caller decides what a failed
// call means for its domain.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", brand.UserAgent())
	req.Header.Set("X-Auth-Email", c.email)
	req.Header.Set("X-Auth-Key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.Get().RecordAPIRequest(method, 0, time.Since(start))
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()
	metrics.Get().RecordAPIRequest(method, resp.StatusCode, time.Since(start))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: fmt.Errorf("reading response: %w", err)}
	}

	c.logger.Debug("api call", "method", method, "path", path, "status", resp.StatusCode)

	if len(respBody) == 0 {
		return &TransportError{Op: method + " " + path, Err: fmt.Errorf("empty response (status %d)", resp.StatusCode)}
	}

	var env Envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return &TransportError{Op: method + " " + path, Err: fmt.Errorf("malformed response (status %d): %w", resp.StatusCode, err)}
	}

	if !env.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: env.firstError()}
	}

	if result != nil && len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, result); err != nil {
			return &TransportError{Op: method + " " + path, Err: fmt.Errorf("decoding result: %w", err)}
		}
	}

	return nil
}
