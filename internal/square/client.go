// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package square is a small client for the parts of the Square REST API
// the storefront needs: catalog listing, image lookup, payment links and
// locations.
package square

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"github.com/pdiddy/storefront/internal/httputil"
	"github.com/pdiddy/storefront/pkg/types"
)

// API hosts per environment. Declared as vars so tests can substitute
// httptest servers.
var (
	productionBase = "https://connect.squareup.com"
	sandboxBase    = "https://connect.squareupsandbox.com"
)

const (
	// DefaultVersion is the Square-Version header the client was written against.
	DefaultVersion = "2024-01-18"

	defaultTimeout = 30 * time.Second
	maxErrorBody   = 64 << 10
)

// ErrNoLocation is returned when the merchant has no location to attach
// payment links to.
var ErrNoLocation = errors.New("no Square location available")

// APIError is a non-2xx response from the Square API.
type APIError struct {
	Op         string
	StatusCode int
	// Detail is the first error detail Square reported, if any.
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
}

// BaseURL returns the API host for environment. Anything other than
// production maps to the sandbox.
func BaseURL(environment string) string {
	if environment == types.EnvironmentProduction {
		return productionBase
	}
	return sandboxBase
}

// Client talks to the Square API with a bearer token. The zero value is
// not usable; construct with NewClient.
type Client struct {
	// BaseURL is the API host without the /v2 suffix.
	BaseURL string

	http       *http.Client
	token      string
	version    string
	userAgent  string
	timeout    time.Duration
	maxRetries int

	mu         sync.Mutex
	locationID string
}

// NewClient builds a client from cfg. A nil httpClient uses
// http.DefaultClient.
func NewClient(httpClient *http.Client, cfg types.SquareConfig) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	version := cfg.Version
	if version == "" {
		version = DefaultVersion
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		BaseURL:    BaseURL(cfg.Environment),
		http:       httpClient,
		token:      cfg.AccessToken,
		version:    version,
		userAgent:  cfg.UserAgent,
		timeout:    timeout,
		maxRetries: cfg.MaxRetries,
		locationID: cfg.LocationID,
	}
}

// do sends one API request and decodes a 2xx JSON response into out.
// The client timeout bounds each attempt; 429 backoff waits fall outside it.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encoding request: %w", op, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+"/v2"+path, reader)
	if err != nil {
		return fmt.Errorf("%s: creating request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Square-Version", c.version)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := httputil.DoWithRetryTimeout(ctx, c.http, req, c.maxRetries, c.timeout)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Detail:     gjson.GetBytes(raw, "errors.0.detail").String(),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: parsing response: %w", op, err)
	}
	return nil
}
