// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ProductTypeAppointmentsService marks catalog items that are booked
// services rather than physical prints.
const ProductTypeAppointmentsService = "APPOINTMENTS_SERVICE"

// Money is an amount in the smallest currency unit (cents for USD).
type Money struct {
	Amount   int64  `json:"amount" yaml:"amount"`
	Currency string `json:"currency" yaml:"currency"`
}

// Variation is one purchasable variant of a catalog item. PriceMoney is nil
// for variable-priced variants.
type Variation struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
	PriceMoney *Money `json:"price_money,omitempty" yaml:"price_money,omitempty"`
}

// CatalogItem is the read-only view of a Square catalog ITEM object.
type CatalogItem struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	ProductType string      `json:"product_type,omitempty" yaml:"product_type,omitempty"`
	ImageIDs    []string    `json:"image_ids,omitempty" yaml:"image_ids,omitempty"`
	Variations  []Variation `json:"variations,omitempty" yaml:"variations,omitempty"`
}

// Category classifies the item as a print or a service.
func (c CatalogItem) Category() string {
	if c.ProductType == ProductTypeAppointmentsService {
		return CategoryService
	}
	return CategoryPrint
}

// Image is a catalog IMAGE object resolved to its hosted URL.
type Image struct {
	ID  string `json:"id" yaml:"id"`
	URL string `json:"url" yaml:"url"`
}

// QuickPay describes a payment link defined by name and price rather than
// by a catalog reference.
type QuickPay struct {
	Name       string `json:"name" yaml:"name"`
	PriceMoney *Money `json:"price_money,omitempty" yaml:"price_money,omitempty"`
	LocationID string `json:"location_id,omitempty" yaml:"location_id,omitempty"`
}

// PaymentLink is the read-only view of a hosted checkout link. URL is the
// short form; LongURL the canonical checkout page it redirects to.
type PaymentLink struct {
	ID          string    `json:"id,omitempty" yaml:"id,omitempty"`
	URL         string    `json:"url" yaml:"url"`
	LongURL     string    `json:"long_url,omitempty" yaml:"long_url,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	QuickPay    *QuickPay `json:"quick_pay,omitempty" yaml:"quick_pay,omitempty"`
}
