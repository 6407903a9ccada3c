// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package square

import (
	"context"
	"net/http"
	"net/url"
	"sort"

	"github.com/pdiddy/storefront/pkg/types"
)

// Catalog object types.
const (
	objectItem  = "ITEM"
	objectImage = "IMAGE"
)

type catalogObject struct {
	Type              string         `json:"type"`
	ID                string         `json:"id"`
	ItemData          *itemData      `json:"item_data,omitempty"`
	ItemVariationData *variationData `json:"item_variation_data,omitempty"`
	ImageData         *imageData     `json:"image_data,omitempty"`
}

type itemData struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ProductType string          `json:"product_type"`
	ImageIDs    []string        `json:"image_ids"`
	Variations  []catalogObject `json:"variations"`
}

type variationData struct {
	Name       string       `json:"name"`
	PriceMoney *types.Money `json:"price_money"`
}

type imageData struct {
	URL string `json:"url"`
}

type listCatalogResponse struct {
	Objects []catalogObject `json:"objects"`
	Cursor  string          `json:"cursor"`
}

type batchRetrieveRequest struct {
	ObjectIDs             []string `json:"object_ids"`
	IncludeRelatedObjects bool     `json:"include_related_objects"`
}

type batchRetrieveResponse struct {
	Objects []catalogObject `json:"objects"`
}

// ListItems pages through every ITEM in the catalog. On error it returns
// the items gathered so far together with the error.
func (c *Client) ListItems(ctx context.Context) ([]types.CatalogItem, error) {
	var items []types.CatalogItem
	cursor := ""
	for {
		params := url.Values{"types": {objectItem}}
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		var page listCatalogResponse
		if err := c.do(ctx, "listing catalog", http.MethodGet, "/catalog/list?"+params.Encode(), nil, &page); err != nil {
			return items, err
		}
		for _, obj := range page.Objects {
			if obj.Type == objectItem && obj.ItemData != nil {
				items = append(items, toCatalogItem(obj))
			}
		}

		cursor = page.Cursor
		if cursor == "" {
			return items, nil
		}
	}
}

func toCatalogItem(obj catalogObject) types.CatalogItem {
	d := obj.ItemData
	item := types.CatalogItem{
		ID:          obj.ID,
		Name:        d.Name,
		Description: d.Description,
		ProductType: d.ProductType,
		ImageIDs:    d.ImageIDs,
	}
	for _, v := range d.Variations {
		variation := types.Variation{ID: v.ID}
		if v.ItemVariationData != nil {
			variation.Name = v.ItemVariationData.Name
			variation.PriceMoney = v.ItemVariationData.PriceMoney
		}
		item.Variations = append(item.Variations, variation)
	}
	return item
}

// BatchFetchImages resolves image ids to hosted URLs in a single request.
// An empty set makes no request. On error the map is empty.
func (c *Client) BatchFetchImages(ctx context.Context, ids map[string]struct{}) (map[string]string, error) {
	images := make(map[string]string)
	if len(ids) == 0 {
		return images, nil
	}

	req := batchRetrieveRequest{ObjectIDs: make([]string, 0, len(ids))}
	for id := range ids {
		req.ObjectIDs = append(req.ObjectIDs, id)
	}
	sort.Strings(req.ObjectIDs)

	var resp batchRetrieveResponse
	if err := c.do(ctx, "fetching images", http.MethodPost, "/catalog/batch-retrieve", req, &resp); err != nil {
		return map[string]string{}, err
	}
	for _, obj := range resp.Objects {
		if img, ok := toImage(obj); ok {
			images[img.ID] = img.URL
		}
	}
	return images, nil
}

func toImage(obj catalogObject) (types.Image, bool) {
	if obj.Type != objectImage || obj.ImageData == nil || obj.ImageData.URL == "" {
		return types.Image{}, false
	}
	return types.Image{ID: obj.ID, URL: obj.ImageData.URL}, true
}
