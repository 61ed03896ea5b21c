package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"digital.vasic.conformance/pkg/catalog"
)

// ClientOption configures a Client via functional options.
type ClientOption func(*Client)

// Client wraps net/http.Client for fetching contract catalogs
// and JSON documents from remote definition banks. Defaults
// suit unauthenticated endpoints so callers can use
// NewClient(url) with zero options.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client targeting the given base URL.
// Pass ClientOption values to override defaults.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// WithTimeout overrides the default HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithToken sets a bearer token sent on every request.
func WithToken(token string) ClientOption {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying HTTP client, e.g. to
// add a custom transport.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// GetRaw performs a GET request and returns the status code and
// raw body bytes.
func (c *Client) GetRaw(
	ctx context.Context, path string,
) (int, []byte, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.baseURL+path, nil,
	)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}

	return resp.StatusCode, data, nil
}

// GetJSON performs a GET request and decodes the JSON response
// into the given value. Non-200 statuses are returned as
// errors.
func (c *Client) GetJSON(
	ctx context.Context, path string, into any,
) error {
	code, data, err := c.GetRaw(ctx, path)
	if err != nil {
		return err
	}
	if code != http.StatusOK {
		return fmt.Errorf(
			"GET %s returned HTTP %d: %s",
			path, code, strings.TrimSpace(string(data)),
		)
	}
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// FetchCatalog retrieves a contract catalog from the given
// path. The encoding is picked from the response Content-Type
// when it names json or yaml, falling back to sniffing the
// payload itself.
func (c *Client) FetchCatalog(
	ctx context.Context, path string,
) (*catalog.File, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.baseURL+path, nil,
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json, application/yaml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read catalog response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"catalog fetch returned HTTP %d: %s",
			resp.StatusCode, strings.TrimSpace(string(data)),
		)
	}

	contentType := resp.Header.Get("Content-Type")
	switch {
	case strings.Contains(contentType, "yaml"):
		return catalog.ParseYAML(data)
	case strings.Contains(contentType, "json"):
		return catalog.ParseJSON(data)
	default:
		return catalog.Parse(data)
	}
}

// Token returns the configured bearer token.
func (c *Client) Token() string {
	return c.token
}

// SetToken sets the bearer token directly, e.g. after rotating
// credentials.
func (c *Client) SetToken(token string) {
	c.token = token
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}
