// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pricing formats cent amounts as storefront price strings and
// parses them back.
package pricing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pdiddy/storefront/pkg/types"
)

const (
	currencySymbol = "$"
	fromPrefix     = "From "
)

var hundred = decimal.NewFromInt(100)

// FormatCents renders cents as "$X.YY".
func FormatCents(cents int64) string {
	return currencySymbol + decimal.New(cents, -2).StringFixed(2)
}

// Format picks the lowest priced variation and renders it. Variations
// without a price are ignored; ok is false when none are left. With more
// than one priced variation the display reads "From $X.YY". The returned
// Money is the record of the chosen variation.
func Format(variations []types.Variation) (display string, money *types.Money, ok bool) {
	var priced []*types.Money
	for _, v := range variations {
		if v.PriceMoney != nil {
			priced = append(priced, v.PriceMoney)
		}
	}
	if len(priced) == 0 {
		return "", nil, false
	}

	sort.SliceStable(priced, func(i, j int) bool {
		return priced[i].Amount < priced[j].Amount
	})
	lowest := *priced[0]

	display = FormatCents(lowest.Amount)
	if len(priced) > 1 {
		display = fromPrefix + display
	}
	return display, &lowest, true
}

// Display renders a set of observed amounts. Duplicates collapse; when more
// than one distinct amount remains the minimum is shown as "From $X.YY".
// The minimum is returned alongside the text.
func Display(amounts []int64) (string, int64, bool) {
	if len(amounts) == 0 {
		return "", 0, false
	}
	distinct := make(map[int64]struct{}, len(amounts))
	lowest := amounts[0]
	for _, a := range amounts {
		distinct[a] = struct{}{}
		if a < lowest {
			lowest = a
		}
	}
	display := FormatCents(lowest)
	if len(distinct) > 1 {
		display = fromPrefix + display
	}
	return display, lowest, true
}

// DollarsToCents converts a decimal dollar string such as "25" or "25.50"
// to cents. Fractions of a cent are truncated.
func DollarsToCents(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parsing dollar amount %q: %w", s, err)
	}
	return d.Mul(hundred).IntPart(), nil
}

// ParseDisplay is the inverse of FormatCents and Display. It reports the
// cent amount and whether the string carried the "From " prefix.
func ParseDisplay(s string) (cents int64, from bool, err error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, fromPrefix); ok {
		from = true
		s = rest
	}
	num, ok := strings.CutPrefix(s, currencySymbol)
	if !ok {
		return 0, false, fmt.Errorf("price %q has no %s prefix", s, currencySymbol)
	}
	cents, err = DollarsToCents(num)
	if err != nil {
		return 0, false, err
	}
	return cents, from, nil
}
