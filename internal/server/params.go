package server

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/vanshika/granttrace/backend/internal/config"
	"github.com/vanshika/granttrace/backend/internal/network"
)

// paramsInput is a filter request before defaults and clamping. Nil fields were
// not supplied by the client.
type paramsInput struct {
	OrgFilter     string   `json:"orgFilter"`
	MinAmount     *float64 `json:"minAmount"`
	MaxOrgs       *int     `json:"maxOrgs"`
	Depth         *int     `json:"depth"`
	SelectedYears []int    `json:"selectedYears"`
}

func (in paramsInput) toParams(defaults config.FilterConfig) network.Params {
	p := network.Params{
		OrgFilter:     in.OrgFilter,
		MaxOrgs:       defaults.DefaultMaxOrgs,
		Depth:         defaults.DefaultDepth,
		SelectedYears: in.SelectedYears,
	}
	if in.MinAmount != nil {
		p.MinAmount = *in.MinAmount
	}
	if in.MaxOrgs != nil && *in.MaxOrgs != 0 {
		p.MaxOrgs = *in.MaxOrgs
	}
	if in.Depth != nil {
		p.Depth = *in.Depth
	}
	return p
}

// paramsFromQuery reads org, minAmount, maxOrgs, depth and years (comma separated).
// Unparsable values are treated as absent.
func paramsFromQuery(q url.Values) paramsInput {
	in := paramsInput{OrgFilter: q.Get("org")}
	if v, err := strconv.ParseFloat(q.Get("minAmount"), 64); err == nil {
		in.MinAmount = &v
	}
	if v, err := strconv.Atoi(q.Get("maxOrgs")); err == nil {
		in.MaxOrgs = &v
	}
	if v, err := strconv.Atoi(q.Get("depth")); err == nil {
		in.Depth = &v
	}
	in.SelectedYears = parseYears(q.Get("years"))
	return in
}

func parseYears(raw string) []int {
	var years []int
	for _, part := range strings.Split(raw, ",") {
		if year, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			years = append(years, year)
		}
	}
	return years
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}
