// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Square API environments.
const (
	EnvironmentSandbox    = "sandbox"
	EnvironmentProduction = "production"
)

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout bounds a single request, including redirects and body read.
	Timeout time.Duration `json:"timeout" yaml:"timeout" validate:"gt=0"`

	// UserAgent is the User-Agent header sent with requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" validate:"required"`
}

// SquareConfig holds settings for the Square API client.
type SquareConfig struct {
	HTTPConfig `yaml:",inline"`

	// Environment selects the API host: sandbox or production.
	Environment string `json:"environment" yaml:"environment" validate:"oneof=sandbox production"`

	// AccessToken is the bearer token. Empty means no API access.
	AccessToken string `json:"-" yaml:"-"`

	// Version is sent as the Square-Version header.
	Version string `json:"version" yaml:"version" validate:"required"`

	// LocationID overrides the location lookup when set.
	LocationID string `json:"location_id,omitempty" yaml:"location_id,omitempty"`

	// MaxRetries bounds retries on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" validate:"gte=0"`
}

// ScrapeConfig holds settings for the checkout page scraper.
type ScrapeConfig struct {
	HTTPConfig `yaml:",inline"`

	// ResolveTimeout bounds a redirect resolution request.
	ResolveTimeout time.Duration `json:"resolve_timeout" yaml:"resolve_timeout" validate:"gt=0"`

	// Delay is the minimum spacing between consecutive page fetches.
	Delay time.Duration `json:"delay" yaml:"delay" validate:"gte=0"`

	// ShortLinkHosts lists hosts whose URLs are resolved before fetching.
	ShortLinkHosts []string `json:"short_link_hosts" yaml:"short_link_hosts"`

	// MinAmountCents drops embedded "amount" values at or below it.
	MinAmountCents int64 `json:"min_amount_cents" yaml:"min_amount_cents" validate:"gte=0"`
}

// SyncConfig groups the settings for the sync command.
type SyncConfig struct {
	Square SquareConfig `json:"square" yaml:"square"`
}

// EnrichConfig groups the settings for the enrich command.
type EnrichConfig struct {
	Square SquareConfig `json:"square" yaml:"square"`
	Scrape ScrapeConfig `json:"scrape" yaml:"scrape"`
}
