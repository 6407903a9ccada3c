// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package square

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/pdiddy/storefront/pkg/types"
)

const paymentLinksPageSize = 100

type listPaymentLinksResponse struct {
	PaymentLinks []types.PaymentLink `json:"payment_links"`
	Cursor       string              `json:"cursor"`
}

type createPaymentLinkRequest struct {
	IdempotencyKey string         `json:"idempotency_key"`
	QuickPay       types.QuickPay `json:"quick_pay"`
}

type createPaymentLinkResponse struct {
	PaymentLink types.PaymentLink `json:"payment_link"`
}

// ListPaymentLinks pages through the merchant's payment links. On error it
// returns the links gathered so far together with the error.
func (c *Client) ListPaymentLinks(ctx context.Context) ([]types.PaymentLink, error) {
	var links []types.PaymentLink
	cursor := ""
	for {
		params := url.Values{"limit": {strconv.Itoa(paymentLinksPageSize)}}
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		var page listPaymentLinksResponse
		if err := c.do(ctx, "listing payment links", http.MethodGet, "/online-checkout/payment-links?"+params.Encode(), nil, &page); err != nil {
			return links, err
		}
		links = append(links, page.PaymentLinks...)

		cursor = page.Cursor
		if cursor == "" {
			return links, nil
		}
	}
}

// CreateCheckoutLink creates a quick-pay payment link for name at price
// and returns its short URL. Each call uses a fresh idempotency key.
func (c *Client) CreateCheckoutLink(ctx context.Context, name string, price types.Money) (string, error) {
	locationID, err := c.ResolveLocation(ctx)
	if err != nil {
		return "", fmt.Errorf("creating payment link for %q: %w", name, err)
	}

	req := createPaymentLinkRequest{
		IdempotencyKey: uuid.NewString(),
		QuickPay: types.QuickPay{
			Name:       name,
			PriceMoney: &price,
			LocationID: locationID,
		},
	}

	var resp createPaymentLinkResponse
	if err := c.do(ctx, "creating payment link", http.MethodPost, "/online-checkout/payment-links", req, &resp); err != nil {
		return "", err
	}
	if resp.PaymentLink.URL == "" {
		return "", fmt.Errorf("creating payment link for %q: response has no url", name)
	}
	return resp.PaymentLink.URL, nil
}
