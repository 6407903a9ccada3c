// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures for the storefront tools:
// the inventory file model, the read-only views of the Square catalog and
// payment links, and the per-command configuration.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Inventory categories. A catalog item lands in exactly one of them.
const (
	CategoryPrint   = "print"
	CategoryService = "service"
)

// InventoryEntry is one storefront listing. URL is the identity key across
// runs; every other field may be replaced by sync or enrichment.
type InventoryEntry struct {
	// URL is the checkout link, usually a short square.link URL.
	URL string `json:"url" yaml:"url" validate:"required,url"`

	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Price is the amount in cents. When set, PriceDisplay is set too.
	Price *int64 `json:"price,omitempty" yaml:"price,omitempty"`

	// PriceDisplay is the formatted price, e.g. "$25.00" or "From $25.00".
	PriceDisplay string `json:"price_display,omitempty" yaml:"price_display,omitempty"`

	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Image is a product image URL. Locally curated values win over
	// anything enrichment discovers.
	Image string `json:"image,omitempty" yaml:"image,omitempty" validate:"omitempty,url"`

	// Icon is a locally curated icon name; enrichment never touches it.
	Icon string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// UnmarshalJSON accepts either a full object or a bare URL string, so
// hand-written files listing only checkout links load into the same shape.
func (e *InventoryEntry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var u string
		if err := json.Unmarshal(data, &u); err != nil {
			return err
		}
		*e = InventoryEntry{URL: u}
		return nil
	}
	type plain InventoryEntry
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decoding inventory entry: %w", err)
	}
	*e = InventoryEntry(p)
	return nil
}

// Inventory is the whole inventory file. Top-level keys other than prints
// and services are carried through untouched in Extra.
type Inventory struct {
	Prints   []InventoryEntry `json:"prints" validate:"unique=URL,dive"`
	Services []InventoryEntry `json:"services" validate:"unique=URL,dive"`

	Extra map[string]json.RawMessage `json:"-"`
}

// List returns a pointer to the entry list for category, or nil when the
// category is unknown.
func (inv *Inventory) List(category string) *[]InventoryEntry {
	switch category {
	case CategoryPrint:
		return &inv.Prints
	case CategoryService:
		return &inv.Services
	default:
		return nil
	}
}

// MarshalJSON writes every top-level key in sorted order without HTML
// escaping. Empty lists are written as [] rather than null.
func (inv Inventory) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(inv.Extra)+2)
	for k, v := range inv.Extra {
		out[k] = v
	}
	prints, services := inv.Prints, inv.Services
	if prints == nil {
		prints = []InventoryEntry{}
	}
	if services == nil {
		services = []InventoryEntry{}
	}
	out["prints"] = prints
	out["services"] = services

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON decodes prints and services and keeps the remaining keys.
func (inv *Inventory) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var next Inventory
	if v, ok := raw["prints"]; ok {
		if err := json.Unmarshal(v, &next.Prints); err != nil {
			return fmt.Errorf("decoding prints: %w", err)
		}
		delete(raw, "prints")
	}
	if v, ok := raw["services"]; ok {
		if err := json.Unmarshal(v, &next.Services); err != nil {
			return fmt.Errorf("decoding services: %w", err)
		}
		delete(raw, "services")
	}
	if len(raw) > 0 {
		next.Extra = raw
	}
	*inv = next
	return nil
}
