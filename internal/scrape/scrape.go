// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrape extracts product details from hosted checkout pages.
//
// Checkout providers fill Open Graph tags even when they hide structured
// product data, so extraction leans on og:title, og:description and
// og:image, with loosely structured inline data as the price source.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/pdiddy/storefront/pkg/types"
)

const (
	defaultTimeout = 15 * time.Second
	maxPageBytes   = 5 << 20

	// DefaultMinAmountCents is the embedded "amount" value at or below
	// which a number is treated as a count or id rather than a price.
	DefaultMinAmountCents = 100
)

// DefaultShortLinkHosts are resolved to their destination before fetching.
var DefaultShortLinkHosts = []string{"square.link", "sq.link"}

// ErrNoName is returned when a page yields no product name. Such a page is
// treated as a failed scrape.
var ErrNoName = errors.New("no product name found on page")

// Result holds the fields extracted from one checkout page. Empty strings
// mean the field was not found.
type Result struct {
	Name         string
	Description  string
	Image        string
	PriceDisplay string

	// PriceCents is the lowest price seen, nil when no price was found.
	PriceCents *int64
}

// Resolver follows redirects from a URL to its final destination.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string) (string, error)
}

// Scraper fetches checkout pages and extracts product fields.
type Scraper struct {
	client         *http.Client
	resolver       Resolver
	userAgent      string
	timeout        time.Duration
	shortLinkHosts []string
	minAmount      int64
	limiter        *rate.Limiter
}

// New builds a Scraper. A nil resolver disables short-link resolution;
// a zero cfg.Delay disables pacing.
func New(client *http.Client, resolver Resolver, cfg types.ScrapeConfig) *Scraper {
	if client == nil {
		client = http.DefaultClient
	}
	s := &Scraper{
		client:         client,
		resolver:       resolver,
		userAgent:      cfg.UserAgent,
		timeout:        cfg.Timeout,
		shortLinkHosts: cfg.ShortLinkHosts,
		minAmount:      cfg.MinAmountCents,
	}
	if s.timeout <= 0 {
		s.timeout = defaultTimeout
	}
	if s.shortLinkHosts == nil {
		s.shortLinkHosts = DefaultShortLinkHosts
	}
	if s.minAmount <= 0 {
		s.minAmount = DefaultMinAmountCents
	}
	if cfg.Delay > 0 {
		s.limiter = rate.NewLimiter(rate.Every(cfg.Delay), 1)
	}
	return s
}

// Scrape fetches rawURL and extracts product fields from it. Short links
// are resolved first; if that fails the original URL is fetched instead.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*Result, error) {
	target := rawURL
	if s.resolver != nil && s.isShortLink(rawURL) {
		resolved, err := s.resolver.Resolve(ctx, rawURL)
		if err != nil {
			log.Ctx(ctx).Debug().Err(err).Str("url", rawURL).Msg("short link did not resolve, fetching as is")
		} else {
			target = resolved
		}
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	body, err := s.fetch(ctx, target)
	if err != nil {
		return nil, err
	}
	return Extract(body, s.minAmount)
}

func (s *Scraper) isShortLink(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range s.shortLinkHosts {
		h = strings.ToLower(h)
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

func (s *Scraper) fetch(ctx context.Context, target string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: HTTP %d", target, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", target, err)
	}
	return body, nil
}
