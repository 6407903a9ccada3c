// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich fills in inventory entries from payment-link data or, when
// no link matches, from the checkout page itself.
package enrich

import (
	"context"
	"io"

	"github.com/rs/zerolog/log"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/storefront/internal/matcher"
	"github.com/pdiddy/storefront/internal/pricing"
	"github.com/pdiddy/storefront/internal/scrape"
	"github.com/pdiddy/storefront/pkg/types"
)

// Matcher finds the payment link a checkout URL refers to.
type Matcher interface {
	Match(ctx context.Context, target string, links []types.PaymentLink) (types.PaymentLink, matcher.Tier, bool)
}

// Scraper extracts product fields from a checkout page.
type Scraper interface {
	Scrape(ctx context.Context, rawURL string) (*scrape.Result, error)
}

// Source records where an entry's new data came from.
type Source string

const (
	SourceAPI       Source = "api"
	SourceScrape    Source = "scrape"
	SourceUnchanged Source = "unchanged"
)

// Outcome describes what happened to one entry.
type Outcome struct {
	List        string `yaml:"list"`
	Index       int    `yaml:"index"`
	URL         string `yaml:"url"`
	Name        string `yaml:"name,omitempty"`
	Source      Source `yaml:"source"`
	Tier        string `yaml:"tier,omitempty"`
	NeedsReview bool   `yaml:"needs_review,omitempty"`
	Reason      string `yaml:"reason,omitempty"`
}

// Report summarizes an enrichment run.
type Report struct {
	Matched   int       `yaml:"matched"`
	Scraped   int       `yaml:"scraped"`
	Unchanged int       `yaml:"unchanged"`
	Outcomes  []Outcome `yaml:"outcomes"`
}

// NeedsReview returns the outcomes that rest on low-confidence matches.
func (r Report) NeedsReview() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.NeedsReview {
			out = append(out, o)
		}
	}
	return out
}

// WriteYAML writes the report as YAML.
func (r Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

func (r *Report) add(o Outcome) {
	switch o.Source {
	case SourceAPI:
		r.Matched++
	case SourceScrape:
		r.Scraped++
	default:
		r.Unchanged++
	}
	r.Outcomes = append(r.Outcomes, o)
}

// Enricher enriches entries. Links may be empty, in which case every entry
// goes straight to the scraper. A nil Scraper disables the fallback.
type Enricher struct {
	Matcher Matcher
	Scraper Scraper
	Links   []types.PaymentLink
}

// Enrich processes every print and service in order and returns the
// enriched inventory together with a report. Failures on one entry never
// stop the others; inv itself is not modified.
func (e *Enricher) Enrich(ctx context.Context, inv *types.Inventory) (*types.Inventory, Report) {
	out := &types.Inventory{Extra: inv.Extra}
	var report Report

	for _, list := range []struct {
		category string
		in       []types.InventoryEntry
		out      *[]types.InventoryEntry
	}{
		{types.CategoryPrint, inv.Prints, &out.Prints},
		{types.CategoryService, inv.Services, &out.Services},
	} {
		enriched := make([]types.InventoryEntry, 0, len(list.in))
		for i, entry := range list.in {
			next, outcome := e.Entry(ctx, entry)
			outcome.List = list.category
			outcome.Index = i + 1
			report.add(outcome)
			enriched = append(enriched, next)
		}
		*list.out = enriched
	}
	return out, report
}

// Entry enriches a single entry: payment-link match first, then the
// checkout page, else the entry comes back unchanged.
func (e *Enricher) Entry(ctx context.Context, entry types.InventoryEntry) (types.InventoryEntry, Outcome) {
	logger := log.Ctx(ctx).With().Str("url", entry.URL).Logger()
	outcome := Outcome{URL: entry.URL, Name: entry.Name, Source: SourceUnchanged}

	if entry.URL == "" {
		outcome.Reason = "entry has no url"
		return entry, outcome
	}

	if len(e.Links) > 0 && e.Matcher != nil {
		if pl, tier, ok := e.Matcher.Match(ctx, entry.URL, e.Links); ok {
			next := fromLink(entry, pl)
			outcome.Name = next.Name
			outcome.Source = SourceAPI
			outcome.Tier = tier.String()
			outcome.NeedsReview = tier.LowConfidence()
			if outcome.NeedsReview {
				logger.Warn().Str("name", next.Name).Str("tier", tier.String()).Msg("low-confidence match, review before publishing")
			} else {
				logger.Info().Str("name", next.Name).Str("tier", tier.String()).Msg("API matched")
			}
			return next, outcome
		}
	}

	if e.Scraper == nil {
		outcome.Reason = "no payment link matched"
		logger.Warn().Msg("could not enrich")
		return entry, outcome
	}

	logger.Debug().Msg("scraping checkout page")
	res, err := e.Scraper.Scrape(ctx, entry.URL)
	if err != nil {
		outcome.Reason = err.Error()
		logger.Warn().Err(err).Msg("could not enrich")
		return entry, outcome
	}

	next := fromScrape(entry, res)
	outcome.Name = next.Name
	outcome.Source = SourceScrape
	logger.Info().Str("name", next.Name).Msg("scraped")
	return next, outcome
}

// fromLink builds an entry from a matched payment link. The stored URL is
// kept as is, and local image and icon survive.
func fromLink(entry types.InventoryEntry, pl types.PaymentLink) types.InventoryEntry {
	var qp types.QuickPay
	if pl.QuickPay != nil {
		qp = *pl.QuickPay
	}

	next := types.InventoryEntry{
		URL:         entry.URL,
		Name:        firstNonEmpty(qp.Name, entry.Name, pl.Description),
		Description: firstNonEmpty(pl.Description, entry.Description),
		Image:       entry.Image,
		Icon:        entry.Icon,
	}
	if qp.PriceMoney != nil {
		amount := qp.PriceMoney.Amount
		next.Price = &amount
		next.PriceDisplay = pricing.FormatCents(amount)
	} else {
		next.Price, next.PriceDisplay = existingPrice(entry)
	}
	return next
}

// fromScrape merges scraped fields over entry. Scraped name, description
// and price win; the local image wins over the scraped one; icon is kept.
func fromScrape(entry types.InventoryEntry, res *scrape.Result) types.InventoryEntry {
	next := types.InventoryEntry{
		URL:         entry.URL,
		Name:        firstNonEmpty(res.Name, entry.Name),
		Description: firstNonEmpty(res.Description, entry.Description),
		Image:       firstNonEmpty(entry.Image, res.Image),
		Icon:        entry.Icon,
	}
	next.Price, next.PriceDisplay = existingPrice(entry)
	if res.PriceDisplay != "" {
		next.PriceDisplay = res.PriceDisplay
		next.Price = res.PriceCents
	}
	return next
}

// existingPrice returns the entry's own price. Hand-edited entries that
// carry only a display string get their cents recovered from it.
func existingPrice(entry types.InventoryEntry) (*int64, string) {
	if entry.Price != nil || entry.PriceDisplay == "" {
		return entry.Price, entry.PriceDisplay
	}
	cents, _, err := pricing.ParseDisplay(entry.PriceDisplay)
	if err != nil {
		return nil, entry.PriceDisplay
	}
	return &cents, entry.PriceDisplay
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
