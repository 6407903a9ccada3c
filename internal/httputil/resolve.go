// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxDrain = 64 << 10

// Resolver follows HTTP redirects and reports the final URL.
type Resolver struct {
	Client    *http.Client
	UserAgent string

	// Timeout bounds one resolution, redirects included. Zero means the
	// client's own timeout applies.
	Timeout time.Duration
}

// Resolve issues a GET for rawURL, follows redirects and returns the URL
// of the last response. Non-2xx final responses are errors.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (string, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if r.UserAgent != "" {
		req.Header.Set("User-Agent", r.UserAgent)
	}

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("resolving %s: HTTP %d", rawURL, resp.StatusCode)
	}
	return resp.Request.URL.String(), nil
}
