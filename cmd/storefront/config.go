// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/storefront/internal/scrape"
	"github.com/pdiddy/storefront/internal/secrets"
	"github.com/pdiddy/storefront/internal/square"
	"github.com/pdiddy/storefront/pkg/types"
)

// Config keys, as they appear in storefront.yaml.
const (
	keyAccessToken = "square.access_token"
	keyEnvironment = "square.environment"
	keyLocationID  = "square.location_id"
	keyVersion     = "square.version"
	keyAPITimeout  = "square.timeout"
	keyMaxRetries  = "square.max_retries"

	keyPageTimeout    = "scrape.timeout"
	keyResolveTimeout = "scrape.resolve_timeout"
	keyDelay          = "scrape.delay"
	keyShortLinkHosts = "scrape.short_link_hosts"
	keyMinAmount      = "scrape.min_amount_cents"
)

const (
	defaultAPITimeout     = 30 * time.Second
	defaultResolveTimeout = 10 * time.Second
	defaultPageTimeout    = 15 * time.Second
	defaultDelay          = 1 * time.Second
	defaultMaxRetries     = 5
)

// userAgent mimics a desktop browser; checkout pages serve reduced markup
// to unknown agents.
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

var validate = validator.New(validator.WithRequiredStructEnabled())

// squareConfig assembles the Square settings. The --environment flag
// wins over the config file, which wins over defaultEnv.
func squareConfig(cmd *cobra.Command, defaultEnv string) (types.SquareConfig, error) {
	env, _ := cmd.Flags().GetString("environment")
	if env == "" {
		env = viper.GetString(keyEnvironment)
	}
	if env == "" {
		env = defaultEnv
	}

	cfg := types.SquareConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   durationOr(keyAPITimeout, defaultAPITimeout),
			UserAgent: "storefront/" + version,
		},
		Environment: strings.ToLower(env),
		AccessToken: secretDefault(secrets.SquareAccessToken, viper.GetString(keyAccessToken)),
		Version:     stringOr(keyVersion, square.DefaultVersion),
		LocationID:  secretDefault(secrets.SquareLocationID, viper.GetString(keyLocationID)),
		MaxRetries:  defaultMaxRetries,
	}
	if viper.IsSet(keyMaxRetries) {
		cfg.MaxRetries = viper.GetInt(keyMaxRetries)
	}
	if err := validate.Struct(cfg); err != nil {
		return cfg, configError(err)
	}
	return cfg, nil
}

// scrapeConfig assembles the checkout page scraper settings.
func scrapeConfig() (types.ScrapeConfig, error) {
	cfg := types.ScrapeConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   durationOr(keyPageTimeout, defaultPageTimeout),
			UserAgent: userAgent,
		},
		ResolveTimeout: durationOr(keyResolveTimeout, defaultResolveTimeout),
		Delay:          defaultDelay,
		ShortLinkHosts: scrape.DefaultShortLinkHosts,
		MinAmountCents: scrape.DefaultMinAmountCents,
	}
	if viper.IsSet(keyDelay) {
		cfg.Delay = viper.GetDuration(keyDelay)
	}
	if hosts := viper.GetStringSlice(keyShortLinkHosts); len(hosts) > 0 {
		cfg.ShortLinkHosts = hosts
	}
	if viper.IsSet(keyMinAmount) {
		cfg.MinAmountCents = viper.GetInt64(keyMinAmount)
	}
	if err := validate.Struct(cfg); err != nil {
		return cfg, configError(err)
	}
	return cfg, nil
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if d := viper.GetDuration(key); d > 0 {
		return d
	}
	return fallback
}

func stringOr(key, fallback string) string {
	if s := viper.GetString(key); s != "" {
		return s
	}
	return fallback
}

// configError turns validator output into a readable message.
func configError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "oneof":
			problems = append(problems, fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value()))
		default:
			problems = append(problems, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
}
