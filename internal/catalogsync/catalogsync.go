// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalogsync builds a fresh inventory from the Square catalog,
// creating a checkout link for every priced item.
package catalogsync

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/storefront/internal/pricing"
	"github.com/pdiddy/storefront/pkg/types"
)

// Catalog is the subset of the Square client the sync needs.
type Catalog interface {
	ListItems(ctx context.Context) ([]types.CatalogItem, error)
	BatchFetchImages(ctx context.Context, ids map[string]struct{}) (map[string]string, error)
	CreateCheckoutLink(ctx context.Context, name string, price types.Money) (string, error)
}

// Summary counts what a sync did.
type Summary struct {
	Items    int
	Prints   int
	Services int
	Skipped  int
	Failed   int
}

// Written returns the number of entries in the new inventory.
func (s Summary) Written() int {
	return s.Prints + s.Services
}

// Run lists the catalog and returns a complete replacement inventory.
// Items without a name or price are skipped; items whose link cannot be
// created are counted as failed. Neither stops the run.
func Run(ctx context.Context, catalog Catalog) (*types.Inventory, Summary) {
	logger := log.Ctx(ctx)
	var summary Summary

	items, err := catalog.ListItems(ctx)
	if err != nil {
		logger.Error().Err(err).Int("items", len(items)).Msg("catalog listing incomplete, continuing with partial result")
	}
	summary.Items = len(items)
	logger.Info().Int("items", len(items)).Msg("fetched catalog items")

	imageIDs := make(map[string]struct{})
	for _, item := range items {
		for _, id := range item.ImageIDs {
			imageIDs[id] = struct{}{}
		}
	}
	images, err := catalog.BatchFetchImages(ctx, imageIDs)
	if err != nil {
		logger.Error().Err(err).Int("images", len(imageIDs)).Msg("could not fetch images, entries will have none")
		images = map[string]string{}
	}

	inv := &types.Inventory{
		Prints:   []types.InventoryEntry{},
		Services: []types.InventoryEntry{},
	}
	for _, item := range items {
		itemLog := logger.With().Str("item", item.ID).Str("name", item.Name).Logger()

		if item.Name == "" {
			itemLog.Info().Msg("skipping item without a name")
			summary.Skipped++
			continue
		}
		display, money, ok := pricing.Format(item.Variations)
		if !ok {
			itemLog.Info().Msg("skipping item without a price")
			summary.Skipped++
			continue
		}

		link, err := catalog.CreateCheckoutLink(ctx, item.Name, *money)
		if err != nil {
			itemLog.Error().Err(err).Msg("could not create payment link")
			summary.Failed++
			continue
		}

		amount := money.Amount
		entry := types.InventoryEntry{
			URL:          link,
			Name:         item.Name,
			Price:        &amount,
			PriceDisplay: display,
			Description:  item.Description,
			Image:        firstImage(item, images),
		}

		category := item.Category()
		list := inv.List(category)
		*list = append(*list, entry)
		if category == types.CategoryService {
			summary.Services++
		} else {
			summary.Prints++
		}
		itemLog.Info().Str("category", category).Str("url", link).Msg("added")
	}

	return inv, summary
}

// firstImage returns the URL of the item's first image when it was resolved.
func firstImage(item types.CatalogItem, images map[string]string) string {
	if len(item.ImageIDs) == 0 {
		return ""
	}
	return images[item.ImageIDs[0]]
}
