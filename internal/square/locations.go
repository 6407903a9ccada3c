// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package square

import (
	"context"
	"net/http"
)

type listLocationsResponse struct {
	Locations []struct {
		ID string `json:"id"`
	} `json:"locations"`
}

// ResolveLocation returns the location payment links are created under: a
// configured id, or else the merchant's first location. The first
// successful lookup is kept for the lifetime of the client; failures are
// retried on the next call.
func (c *Client) ResolveLocation(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.locationID != "" {
		return c.locationID, nil
	}

	var resp listLocationsResponse
	if err := c.do(ctx, "listing locations", http.MethodGet, "/locations", nil, &resp); err != nil {
		return "", err
	}
	if len(resp.Locations) == 0 || resp.Locations[0].ID == "" {
		return "", ErrNoLocation
	}

	c.locationID = resp.Locations[0].ID
	return c.locationID, nil
}
