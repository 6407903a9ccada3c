// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pdiddy/storefront/internal/enrich"
	"github.com/pdiddy/storefront/internal/httputil"
	"github.com/pdiddy/storefront/internal/inventory"
	"github.com/pdiddy/storefront/internal/matcher"
	"github.com/pdiddy/storefront/internal/scrape"
	"github.com/pdiddy/storefront/internal/square"
	"github.com/pdiddy/storefront/pkg/types"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <inventory.json>",
	Short: "Fill in inventory entries from payment links and checkout pages",
	Long: `Enrich walks every print and service in the inventory file. Each entry's
checkout URL is matched against the seller's payment links (exact, then
after following redirects, then by path suffix). Entries with no match are
enriched by reading the checkout page itself. Entries that cannot be
enriched are kept unchanged.

Without an access token the payment link lookup is skipped. Enrich defaults
to the sandbox environment.`,
	Args: cobra.ExactArgs(1),
	RunE: runEnrich,
}

func init() {
	enrichCmd.Flags().Bool("report", false, "print a YAML report of every entry to stdout")

	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := log.Ctx(ctx)
	path := args[0]

	inv, err := inventory.Load(path)
	if err != nil {
		return err
	}
	if err := inventory.Validate(inv); err != nil {
		var verr *inventory.ValidationError
		if errors.As(err, &verr) {
			for _, problem := range verr.Problems() {
				logger.Warn().Msg(problem)
			}
		}
		logger.Warn().Err(err).Msg("inventory has problems, continuing")
	}

	sqCfg, err := squareConfig(cmd, types.EnvironmentSandbox)
	if err != nil {
		return err
	}
	scCfg, err := scrapeConfig()
	if err != nil {
		return err
	}

	httpClient := &http.Client{}
	resolver := &httputil.Resolver{
		Client:    httpClient,
		UserAgent: scCfg.UserAgent,
		Timeout:   scCfg.ResolveTimeout,
	}

	var links []types.PaymentLink
	if sqCfg.AccessToken == "" {
		logger.Warn().Msg("no Square access token, enriching from checkout pages only")
	} else {
		client := square.NewClient(httpClient, sqCfg)
		logger.Info().Str("environment", sqCfg.Environment).Msg("listing payment links")
		links, err = client.ListPaymentLinks(ctx)
		if err != nil {
			logger.Error().Err(err).Int("links", len(links)).Msg("payment link listing incomplete")
		}
		logger.Info().Int("links", len(links)).Msg("fetched payment links")
	}

	e := &enrich.Enricher{
		Matcher: &matcher.Matcher{Resolver: resolver},
		Scraper: scrape.New(httpClient, resolver, scCfg),
		Links:   links,
	}
	out, report := e.Enrich(ctx, inv)

	if err := inventory.Save(path, out); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	logger.Info().
		Int("matched", report.Matched).
		Int("scraped", report.Scraped).
		Int("unchanged", report.Unchanged).
		Int("needs_review", len(report.NeedsReview())).
		Str("path", path).
		Msg("inventory written")

	if show, _ := cmd.Flags().GetBool("report"); show {
		if err := report.WriteYAML(os.Stdout); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	return nil
}
