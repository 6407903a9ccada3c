// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/storefront/internal/scrape"
	"github.com/pdiddy/storefront/internal/secrets"
	"github.com/pdiddy/storefront/pkg/types"
)

// testCommand returns a command carrying the root's persistent flags.
func testCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("environment", "", "")
	cmd.Flags().String("log-level", "info", "")
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func resetConfig(t *testing.T) {
	t.Helper()
	viper.Reset()
	loadedSecrets = nil
	t.Cleanup(func() {
		viper.Reset()
		loadedSecrets = nil
	})
}

func TestSquareConfig_Defaults(t *testing.T) {
	resetConfig(t)

	tests := []struct {
		name       string
		defaultEnv string
	}{
		{"sync", types.EnvironmentProduction},
		{"enrich", types.EnvironmentSandbox},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := squareConfig(testCommand(t), tt.defaultEnv)
			require.NoError(t, err)
			assert.Equal(t, tt.defaultEnv, cfg.Environment)
			assert.Equal(t, defaultAPITimeout, cfg.Timeout)
			assert.Equal(t, defaultMaxRetries, cfg.MaxRetries)
			assert.Equal(t, "2024-01-18", cfg.Version)
			assert.Empty(t, cfg.AccessToken)
		})
	}
}

func TestSquareConfig_Precedence(t *testing.T) {
	resetConfig(t)
	viper.Set(keyEnvironment, "sandbox")
	viper.Set(keyAccessToken, "from-env")
	viper.Set(keyAPITimeout, "5s")
	loadedSecrets = map[string]string{
		secrets.SquareAccessToken: "from-secrets",
		secrets.SquareLocationID:  "LOC1",
	}

	cfg, err := squareConfig(testCommand(t, "--environment", "Production"), types.EnvironmentSandbox)
	require.NoError(t, err)
	assert.Equal(t, types.EnvironmentProduction, cfg.Environment, "flag wins over config")
	assert.Equal(t, "from-env", cfg.AccessToken, "env wins over secrets")
	assert.Equal(t, "LOC1", cfg.LocationID, "secrets fill in what env leaves empty")
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestSquareConfig_InvalidEnvironment(t *testing.T) {
	resetConfig(t)

	_, err := squareConfig(testCommand(t, "--environment", "staging"), types.EnvironmentSandbox)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Environment must be one of [sandbox production]")
}

func TestScrapeConfig(t *testing.T) {
	resetConfig(t)

	cfg, err := scrapeConfig()
	require.NoError(t, err)
	assert.Equal(t, defaultPageTimeout, cfg.Timeout)
	assert.Equal(t, defaultResolveTimeout, cfg.ResolveTimeout)
	assert.Equal(t, defaultDelay, cfg.Delay)
	assert.Equal(t, scrape.DefaultShortLinkHosts, cfg.ShortLinkHosts)
	assert.Equal(t, int64(scrape.DefaultMinAmountCents), cfg.MinAmountCents)

	viper.Set(keyDelay, "0s")
	viper.Set(keyShortLinkHosts, []string{"go.example"})
	cfg, err = scrapeConfig()
	require.NoError(t, err)
	assert.Zero(t, cfg.Delay)
	assert.Equal(t, []string{"go.example"}, cfg.ShortLinkHosts)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := newLogger(testCommand(t, "--log-level", "warn"), &buf)
	require.NoError(t, err)
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	_, err = newLogger(testCommand(t, "--log-level", "loud"), &buf)
	assert.Error(t, err)
}
