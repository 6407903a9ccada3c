// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the Square client, the
// matcher and the scraper.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// RetryBaseDelay is the first backoff step after an HTTP 429. Tests
// override it to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

const defaultMaxRetries = 5

// DoWithRetry executes req and retries on HTTP 429 (Too Many Requests)
// with exponential backoff starting at RetryBaseDelay and doubling per
// attempt. A request with a body must set GetBody so it can be replayed.
//
// When maxRetries is 0 the default (5) is used. If ctx is cancelled while
// waiting, ctx.Err() is returned. After the last retry the 429 response is
// returned as-is so the caller can report it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	return DoWithRetryTimeout(ctx, client, req, maxRetries, 0)
}

// DoWithRetryTimeout is DoWithRetry with each attempt bounded by
// attemptTimeout. Backoff waits do not count against it, so the overall
// duration is bounded only by ctx. The deadline of the returned attempt
// stays in force until its body is closed. Zero disables the bound.
func DoWithRetryTimeout(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, attemptTimeout time.Duration) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		attemptCtx, cancel := ctx, context.CancelFunc(func() {})
		if attemptTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, attemptTimeout)
		}

		try := req.Clone(attemptCtx)
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				cancel()
				return nil, err
			}
			try.Body = body
		}

		resp, err := client.Do(try)
		if err != nil {
			cancel()
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		cancel()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		log.Ctx(ctx).Warn().
			Str("url", req.URL.String()).
			Dur("backoff", backoff).
			Int("attempt", attempt+1).
			Int("max_retries", maxRetries).
			Msg("rate limited, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// cancelOnClose releases an attempt's context once the caller is done
// with the response body.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
