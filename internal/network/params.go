package network

import (
	"math"
	"slices"
	"strings"

	"github.com/vanshika/granttrace/backend/internal/dataset"
)

// Parameter bounds applied by Normalize.
const (
	MinDepth       = 0
	MaxDepth       = 5
	DefaultDepth   = 2
	MinOrgs        = 1
	MaxOrgs        = 100
	DefaultMaxOrgs = 10
	MaxMinAmount   = 100_000_000
)

// Params selects the sub-network to extract.
type Params struct {
	OrgFilter     string  `json:"orgFilter" yaml:"org_filter"`
	MinAmount     float64 `json:"minAmount" yaml:"min_amount"`
	MaxOrgs       int     `json:"maxOrgs" yaml:"max_orgs"`
	Depth         int     `json:"depth" yaml:"depth"`
	SelectedYears []int   `json:"selectedYears" yaml:"selected_years"`
}

// DefaultParams returns the parameters a fresh control surface starts with.
func DefaultParams() Params {
	return Params{
		MaxOrgs: DefaultMaxOrgs,
		Depth:   DefaultDepth,
	}
}

// Normalize clamps every field into range. An unset MaxOrgs falls back to the default,
// and an empty year selection expands to the years available for the root.
func (p Params) Normalize(ds *dataset.Dataset) Params {
	out := Params{
		OrgFilter: strings.TrimSpace(p.OrgFilter),
		MinAmount: p.MinAmount,
		MaxOrgs:   p.MaxOrgs,
		Depth:     clampInt(p.Depth, MinDepth, MaxDepth),
	}

	if math.IsNaN(out.MinAmount) || out.MinAmount < 0 {
		out.MinAmount = 0
	}
	if out.MinAmount > MaxMinAmount {
		out.MinAmount = MaxMinAmount
	}

	if out.MaxOrgs <= 0 {
		out.MaxOrgs = DefaultMaxOrgs
	}
	out.MaxOrgs = clampInt(out.MaxOrgs, MinOrgs, MaxOrgs)

	years := slices.Clone(p.SelectedYears)
	if len(years) == 0 && ds != nil {
		years = AvailableYears(ds, out.OrgFilter)
	}
	slices.SortFunc(years, func(a, b int) int { return b - a })
	out.SelectedYears = slices.Compact(years)

	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type yearSet map[int]struct{}

func newYearSet(years []int) yearSet {
	set := make(yearSet, len(years))
	for _, y := range years {
		set[y] = struct{}{}
	}
	return set
}

func (s yearSet) has(year int) bool {
	_, ok := s[year]
	return ok
}
