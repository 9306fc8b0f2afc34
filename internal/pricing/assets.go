// Package pricing derives USD values for tokens, swaps and whole pools from
// the trade-observed price cache.
package pricing

import (
	"strings"

	"vault-analytics-lab/internal/config"
)

// Assets is the immutable pricing-asset table built from configuration.
// Lookups normalize addresses to lowercase.
type Assets struct {
	stables      []string
	pricing      []string // stables first, then extra pricing assets
	stableSet    map[string]struct{}
	pricingSet   map[string]struct{}
	nestedLinear map[string]struct{}
}

// NewAssets builds the lookup table from cfg, preserving preference order.
func NewAssets(cfg config.Config) *Assets {
	a := &Assets{
		stableSet:    make(map[string]struct{}, len(cfg.StableAssets)),
		pricingSet:   make(map[string]struct{}),
		nestedLinear: make(map[string]struct{}, len(cfg.NestedLinearAssets)),
	}
	for _, s := range cfg.StableAssets {
		s = strings.ToLower(s)
		a.stables = append(a.stables, s)
		a.pricing = append(a.pricing, s)
		a.stableSet[s] = struct{}{}
		a.pricingSet[s] = struct{}{}
	}
	for _, p := range cfg.PricingAssets {
		p = strings.ToLower(p)
		a.pricing = append(a.pricing, p)
		a.pricingSet[p] = struct{}{}
	}
	for _, n := range cfg.NestedLinearAssets {
		a.nestedLinear[strings.ToLower(n)] = struct{}{}
	}
	return a
}

// IsUSDStable reports whether the asset trades 1:1 with USD.
func (a *Assets) IsUSDStable(asset string) bool {
	_, ok := a.stableSet[strings.ToLower(asset)]
	return ok
}

// IsPricingAsset reports whether spot prices may be recorded against asset.
func (a *Assets) IsPricingAsset(asset string) bool {
	_, ok := a.pricingSet[strings.ToLower(asset)]
	return ok
}

// IsNestedLinear reports whether the asset is a linear pool share token that
// must be priced through its underlying main token.
func (a *Assets) IsNestedLinear(asset string) bool {
	_, ok := a.nestedLinear[strings.ToLower(asset)]
	return ok
}

// Preferential returns the highest-preference pricing asset present in
// candidates, or "" when none qualifies.
func (a *Assets) Preferential(candidates []string) string {
	set := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		set[strings.ToLower(c)] = struct{}{}
	}
	for _, p := range a.pricing {
		if _, ok := set[p]; ok {
			return p
		}
	}
	return ""
}

// Stables returns the USD-stable assets in preference order.
func (a *Assets) Stables() []string { return a.stables }
