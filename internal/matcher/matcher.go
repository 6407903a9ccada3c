// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package matcher decides which known payment link, if any, a stored
// checkout URL refers to.
//
// Tiers run in a fixed order and the first hit wins:
//
//  1. exact: the target equals a link's url or long_url
//  2. resolved: the target's redirect destination equals a link's url or
//     long_url, or shares its path
//  3. partial path: a link's path is a suffix of the target's path
//
// Hosts compare case-insensitively; paths compare case-sensitively because
// checkout ids are opaque and case-sensitive.
package matcher

import (
	"context"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/storefront/pkg/types"
)

// Tier identifies the strategy that produced a match.
type Tier int

const (
	TierNone Tier = iota
	TierExact
	TierResolved
	TierPartialPath
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierResolved:
		return "resolved"
	case TierPartialPath:
		return "partial-path"
	default:
		return "none"
	}
}

// LowConfidence reports whether matches from this tier should be reviewed
// by hand before being trusted.
func (t Tier) LowConfidence() bool {
	return t == TierPartialPath
}

// Resolver follows redirects from a URL to its final destination.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string) (string, error)
}

// Matcher matches checkout URLs against payment links. Resolver may be nil,
// in which case the resolved tier never matches.
type Matcher struct {
	Resolver Resolver
}

// strategy inspects the target and returns the index of the matching link.
type strategy struct {
	tier  Tier
	match func(ctx context.Context, t *target, links []types.PaymentLink) (int, bool)
}

var strategies = []strategy{
	{TierExact, matchExact},
	{TierResolved, matchResolved},
	{TierPartialPath, matchPartialPath},
}

// target carries the URL being matched and its lazily resolved form.
type target struct {
	raw      string
	resolver Resolver

	resolvedDone bool
	resolved     string
}

// resolvedURL resolves the target at most once. Failures are logged and
// reported as an empty string.
func (t *target) resolvedURL(ctx context.Context) string {
	if t.resolvedDone {
		return t.resolved
	}
	t.resolvedDone = true
	if t.resolver == nil {
		return ""
	}
	r, err := t.resolver.Resolve(ctx, t.raw)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("url", t.raw).Msg("could not resolve target")
		return ""
	}
	t.resolved = r
	return r
}

// Match returns the payment link targetURL refers to and the tier that
// found it. The returned bool is false when nothing matched.
func (m *Matcher) Match(ctx context.Context, targetURL string, links []types.PaymentLink) (types.PaymentLink, Tier, bool) {
	t := &target{raw: strings.TrimSpace(targetURL), resolver: m.Resolver}
	if t.raw == "" || len(links) == 0 {
		return types.PaymentLink{}, TierNone, false
	}
	for _, s := range strategies {
		if i, ok := s.match(ctx, t, links); ok {
			return links[i], s.tier, true
		}
	}
	return types.PaymentLink{}, TierNone, false
}

func matchExact(_ context.Context, t *target, links []types.PaymentLink) (int, bool) {
	return findEqual(t.raw, links)
}

func matchResolved(ctx context.Context, t *target, links []types.PaymentLink) (int, bool) {
	resolved := t.resolvedURL(ctx)
	if resolved == "" {
		return 0, false
	}
	if i, ok := findEqual(resolved, links); ok {
		return i, true
	}

	resolvedPath := pathOf(resolved)
	if !meaningfulPath(resolvedPath) {
		return 0, false
	}
	for i, pl := range links {
		if pl.URL == "" {
			continue
		}
		if pathOf(pl.URL) == resolvedPath {
			return i, true
		}
		if pl.LongURL != "" && pathOf(pl.LongURL) == resolvedPath {
			return i, true
		}
	}
	return 0, false
}

func matchPartialPath(_ context.Context, t *target, links []types.PaymentLink) (int, bool) {
	targetPath := pathOf(t.raw)
	if !meaningfulPath(targetPath) {
		return 0, false
	}
	for i, pl := range links {
		if pl.URL == "" {
			continue
		}
		for _, candidate := range []string{pl.URL, pl.LongURL} {
			p := pathOf(candidate)
			if meaningfulPath(p) && strings.HasSuffix(targetPath, p) {
				return i, true
			}
		}
	}
	return 0, false
}

// findEqual returns the first link whose url or long_url equals raw.
func findEqual(raw string, links []types.PaymentLink) (int, bool) {
	for i, pl := range links {
		if pl.URL == "" {
			continue
		}
		if sameURL(raw, pl.URL) || (pl.LongURL != "" && sameURL(raw, pl.LongURL)) {
			return i, true
		}
	}
	return 0, false
}

// sameURL compares two URLs with the scheme and host folded to lower case
// and everything else compared verbatim.
func sameURL(a, b string) bool {
	if a == b {
		return true
	}
	ua, errA := url.Parse(a)
	ub, errB := url.Parse(b)
	if errA != nil || errB != nil {
		return false
	}
	return strings.EqualFold(ua.Scheme, ub.Scheme) &&
		strings.EqualFold(ua.Host, ub.Host) &&
		ua.EscapedPath() == ub.EscapedPath() &&
		ua.RawQuery == ub.RawQuery &&
		ua.Fragment == ub.Fragment
}

func pathOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.EscapedPath()
}

// meaningfulPath rejects empty and root paths, which would otherwise match
// every link on a host.
func meaningfulPath(p string) bool {
	return p != "" && p != "/"
}
