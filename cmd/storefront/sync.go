// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pdiddy/storefront/internal/catalogsync"
	"github.com/pdiddy/storefront/internal/inventory"
	"github.com/pdiddy/storefront/internal/square"
	"github.com/pdiddy/storefront/pkg/types"
)

// errNoToken is returned by sync when no access token is configured.
var errNoToken = errors.New("no Square access token: set SQUARE_ACCESS_TOKEN or .secrets/square-access-token")

var syncCmd = &cobra.Command{
	Use:   "sync <inventory.json>",
	Short: "Rebuild the inventory from the Square catalog",
	Long: `Sync lists every item in the Square catalog, creates a checkout link for
each item that has a name and a price, and writes the result as a complete
replacement of the inventory file. Items of type APPOINTMENTS_SERVICE become
services; everything else is a print.

Sync defaults to the production environment.`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := log.Ctx(ctx)
	path := args[0]

	cfg, err := squareConfig(cmd, types.EnvironmentProduction)
	if err != nil {
		return err
	}
	if cfg.AccessToken == "" {
		logger.Error().Msg(errNoToken.Error())
		return errNoToken
	}

	client := square.NewClient(&http.Client{}, cfg)
	logger.Info().Str("environment", cfg.Environment).Str("base_url", client.BaseURL).Msg("syncing catalog")

	inv, summary := catalogsync.Run(ctx, client)
	if err := inventory.Save(path, inv); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	logger.Info().
		Int("prints", summary.Prints).
		Int("services", summary.Services).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Str("path", path).
		Msg("inventory written")
	return nil
}
