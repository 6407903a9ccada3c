// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the storefront CLI. It keeps a
// JSON product inventory in step with a Square seller account.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/storefront/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when it is set, else the secret stored
// under key, else "".
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the storefront CLI.
var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Sync and enrich a storefront inventory against Square",
	Long: `storefront maintains inventory.json, the list of prints and services a
static site renders, against a Square seller account.

sync rebuilds the inventory from the Square catalog and creates a checkout
link per priced item. enrich fills in names, prices, descriptions and
images for the checkout links already in the file, first from the Square
payment links API and then by reading the checkout pages themselves.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd, os.Stderr)
		if err != nil {
			return err
		}
		cmd.SetContext(logger.WithContext(cmd.Context()))

		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			logger.Warn().Err(err).Msg("could not read .env")
		}

		s, err := secrets.Load(cmd.Context(), ".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug().Strs("keys", keys).Msg("loaded secrets")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./storefront.yaml or ~/.config/storefront/storefront.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("environment", "", "Square environment: sandbox or production (default depends on command)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("storefront")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "storefront"))
		}
	}

	viper.SetEnvPrefix("STOREFRONT")
	viper.AutomaticEnv()

	// The Square variables keep their conventional names.
	_ = viper.BindEnv(keyAccessToken, "STOREFRONT_SQUARE_ACCESS_TOKEN", "SQUARE_ACCESS_TOKEN")
	_ = viper.BindEnv(keyEnvironment, "STOREFRONT_SQUARE_ENVIRONMENT", "SQUARE_ENVIRONMENT")
	_ = viper.BindEnv(keyLocationID, "STOREFRONT_SQUARE_LOCATION_ID", "SQUARE_LOCATION_ID")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the console logger for a command run.
func newLogger(cmd *cobra.Command, w io.Writer) (zerolog.Logger, error) {
	levelName, _ := cmd.Flags().GetString("log-level")
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid --log-level %q: %w", levelName, err)
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
