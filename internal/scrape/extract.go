// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/storefront/internal/pricing"
)

var (
	// titleSuffix matches a trailing " - Store Name" or "| Store Name".
	titleSuffix = regexp.MustCompile(`(?:\s+[-–]\s+|\s*\|\s*)[^\-–|]+$`)

	// originalAsset matches a full-resolution catalog image URL.
	originalAsset = regexp.MustCompile(`https://items-images-[^"'\s<>]+/original\.(?:jpe?g|png|webp)`)

	embeddedAmount = regexp.MustCompile(`"amount"\s*:\s*(\d+)`)
	dollarAmount   = regexp.MustCompile(`\$(\d+(?:\.\d{2})?)`)
)

// placeholderDescriptions are template defaults that carry no information.
var placeholderDescriptions = map[string]bool{
	"":            true,
	"description": true,
	"desc":        true,
}

// page is a parsed checkout page.
type page struct {
	raw       string
	doc       *goquery.Document
	minAmount int64
}

// extractor fills one field of r from p.
type extractor func(p *page, r *Result)

var extractors = []extractor{
	extractName,
	extractDescription,
	extractImage,
	extractPrice,
}

// Extract runs every extractor over an HTML document. Amounts at or below
// minAmount cents in embedded data are ignored. ErrNoName is returned when
// no name was found.
func Extract(content []byte, minAmount int64) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}

	p := &page{raw: string(content), doc: doc, minAmount: minAmount}
	r := &Result{}
	for _, extract := range extractors {
		extract(p, r)
	}
	if r.Name == "" {
		return nil, ErrNoName
	}
	return r, nil
}

// meta returns the content of the first meta tag whose property or name
// attribute equals key, ignoring case.
func (p *page) meta(key string) string {
	var content string
	p.doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		prop, _ := s.Attr("property")
		name, _ := s.Attr("name")
		if !strings.EqualFold(prop, key) && !strings.EqualFold(name, key) {
			return true
		}
		if c, ok := s.Attr("content"); ok && strings.TrimSpace(c) != "" {
			content = strings.TrimSpace(c)
			return false
		}
		return true
	})
	return content
}

func extractName(p *page, r *Result) {
	if title := p.meta("og:title"); title != "" {
		r.Name = stripSuffix(title)
		return
	}
	title := strings.TrimSpace(p.doc.Find("title").First().Text())
	if title == "" {
		return
	}
	title, _, _ = strings.Cut(title, "|")
	r.Name = stripSuffix(strings.TrimSpace(title))
}

// stripSuffix removes a trailing site name. A title that is nothing but
// the suffix pattern is kept as is.
func stripSuffix(title string) string {
	stripped := strings.TrimSpace(titleSuffix.ReplaceAllString(title, ""))
	if stripped == "" {
		return strings.TrimSpace(title)
	}
	return stripped
}

func extractDescription(p *page, r *Result) {
	desc := p.meta("og:description")
	if placeholderDescriptions[strings.ToLower(desc)] {
		return
	}
	r.Description = desc
}

func extractImage(p *page, r *Result) {
	img := p.meta("og:image")
	if img == "" {
		return
	}
	img, _, _ = strings.Cut(img, "?")
	if orig := originalAsset.FindString(p.raw); orig != "" {
		img = html.UnescapeString(orig)
	}
	r.Image = img
}

// pricePasses run in order; the first to report any amount wins.
var pricePasses = []func(p *page) []int64{
	embeddedAmounts,
	displayedAmounts,
}

func extractPrice(p *page, r *Result) {
	for _, pass := range pricePasses {
		amounts := pass(p)
		if len(amounts) == 0 {
			continue
		}
		display, lowest, _ := pricing.Display(amounts)
		r.PriceDisplay = display
		r.PriceCents = &lowest
		return
	}
}

// embeddedAmounts collects "amount": <cents> values from inline page data,
// dropping small values that are counts or ids rather than prices.
func embeddedAmounts(p *page) []int64 {
	var out []int64
	for _, m := range embeddedAmount.FindAllStringSubmatch(p.raw, -1) {
		v, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil || v <= p.minAmount {
			continue
		}
		out = append(out, v)
	}
	return out
}

// hiddenElements never contribute to the rendered page text.
const hiddenElements = "script, style, noscript, template"

// displayedAmounts collects "$12" and "$12.34" figures from the rendered
// page text.
func displayedAmounts(p *page) []int64 {
	text := renderedText(p.doc.Find("body"))
	if strings.TrimSpace(text) == "" {
		text = renderedText(p.doc.Selection)
	}
	var out []int64
	for _, m := range dollarAmount.FindAllStringSubmatch(text, -1) {
		cents, err := pricing.DollarsToCents(m[1])
		if err != nil {
			continue
		}
		out = append(out, cents)
	}
	return out
}

// renderedText returns the text of sel without script or style content.
// sel itself is left untouched.
func renderedText(sel *goquery.Selection) string {
	visible := sel.Clone()
	visible.Find(hiddenElements).Remove()
	return visible.Text()
}
