package server

import (
	"github.com/vanshika/granttrace/backend/internal/domain"
	"github.com/vanshika/granttrace/backend/internal/network"
	"github.com/vanshika/granttrace/backend/internal/service"
)

type networkResponse struct {
	Root          string          `json:"root" yaml:"root"`
	Params        paramsResponse  `json:"params" yaml:"params"`
	Stats         statsResponse   `json:"stats" yaml:"stats"`
	Organizations []string        `json:"organizations" yaml:"organizations"`
	Depths        map[string]int  `json:"depths" yaml:"depths"`
	Grants        []grantResponse `json:"grants" yaml:"grants"`
	Nodes         []nodeResponse  `json:"nodes,omitempty" yaml:"-"`
	Links         []linkResponse  `json:"links,omitempty" yaml:"-"`
}

type paramsResponse struct {
	OrgFilter     string  `json:"orgFilter" yaml:"org_filter"`
	MinAmount     float64 `json:"minAmount" yaml:"min_amount"`
	MaxOrgs       int     `json:"maxOrgs" yaml:"max_orgs"`
	Depth         int     `json:"depth" yaml:"depth"`
	SelectedYears []int   `json:"selectedYears" yaml:"selected_years"`
}

type statsResponse struct {
	OrgCount          int     `json:"orgCount" yaml:"org_count"`
	GrantCount        int     `json:"grantCount" yaml:"grant_count"`
	TotalGrants       int     `json:"totalGrants" yaml:"total_grants"`
	TotalAmount       float64 `json:"totalAmount" yaml:"total_amount"`
	AverageAmount     float64 `json:"averageAmount" yaml:"average_amount"`
	StandardDeviation float64 `json:"standardDeviation" yaml:"standard_deviation"`
}

type grantResponse struct {
	FilerEIN string  `json:"filerEin" yaml:"filer_ein"`
	GrantEIN string  `json:"grantEin" yaml:"grant_ein"`
	Amount   float64 `json:"amount" yaml:"amount"`
	TaxYear  int     `json:"taxYear" yaml:"tax_year"`
}

type nodeResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Depth int     `json:"depth"`
}

type linkResponse struct {
	Source  string  `json:"source"`
	Target  string  `json:"target"`
	Value   float64 `json:"value"`
	TaxYear int     `json:"taxYear"`
	IsSelf  bool    `json:"isSelf"`
}

type orgMatchResponse struct {
	EIN  string `json:"ein"`
	Name string `json:"name"`
}

type orgDetailsResponse struct {
	EIN           string `json:"ein"`
	Name          string `json:"name"`
	Receipts      int64  `json:"receipts"`
	GovtFunds     int64  `json:"govtFunds"`
	Contributions int64  `json:"contributions"`
	GrantsGiven   int64  `json:"grantsGiven"`
}

type orgCheckResponse struct {
	EIN            string `json:"ein"`
	Exists         bool   `json:"exists"`
	GrantsGiven    int    `json:"grantsGiven"`
	GrantsReceived int    `json:"grantsReceived"`
}

type impactRequest struct {
	EINs []string `json:"eins" validate:"required,min=1,max=1000,dive,required,max=64"`
}

type impactResponse struct {
	Organizations int   `json:"organizations"`
	GovtFunds     int64 `json:"govtFunds"`
}

func newNetworkResponse(snap service.Snapshot) networkResponse {
	res := snap.Result
	out := networkResponse{
		Root:          res.Root,
		Params:        newParamsResponse(res.Params),
		Organizations: res.Organizations,
		Depths:        res.Depths,
		Grants:        make([]grantResponse, 0, len(res.Grants)),
		Stats: statsResponse{
			OrgCount:          res.Stats.OrgCount,
			GrantCount:        res.Stats.GrantCount,
			TotalGrants:       res.Stats.TotalGrants,
			TotalAmount:       res.Stats.TotalAmount,
			AverageAmount:     res.Stats.AverageAmount,
			StandardDeviation: res.Stats.StandardDeviation,
		},
	}
	for _, g := range res.Grants {
		out.Grants = append(out.Grants, grantResponse{
			FilerEIN: g.FilerEIN,
			GrantEIN: g.GrantEIN,
			Amount:   g.Amount,
			TaxYear:  g.TaxYear,
		})
	}
	for _, n := range snap.View.Nodes {
		out.Nodes = append(out.Nodes, nodeResponse(n))
	}
	for _, l := range snap.View.Links {
		out.Links = append(out.Links, linkResponse(l))
	}
	return out
}

func newParamsResponse(p network.Params) paramsResponse {
	years := p.SelectedYears
	if years == nil {
		years = []int{}
	}
	return paramsResponse{
		OrgFilter:     p.OrgFilter,
		MinAmount:     p.MinAmount,
		MaxOrgs:       p.MaxOrgs,
		Depth:         p.Depth,
		SelectedYears: years,
	}
}

func newOrgMatches(matches []domain.OrgMatch) []orgMatchResponse {
	out := make([]orgMatchResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, orgMatchResponse(m))
	}
	return out
}
