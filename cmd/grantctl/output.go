package main

import (
	"github.com/vanshika/granttrace/backend/internal/domain"
	"github.com/vanshika/granttrace/backend/internal/network"
)

type networkOutput struct {
	Root          string         `json:"root" yaml:"root"`
	Params        network.Params `json:"params" yaml:"params"`
	Organizations []string       `json:"organizations" yaml:"organizations"`
	Depths        map[string]int `json:"depths" yaml:"depths"`
	Grants        []grantOutput  `json:"grants" yaml:"grants"`
	Stats         statsOutput    `json:"stats" yaml:"stats"`
}

type grantOutput struct {
	FilerEIN string  `json:"filerEin" yaml:"filer_ein"`
	GrantEIN string  `json:"grantEin" yaml:"grant_ein"`
	Amount   float64 `json:"amount" yaml:"amount"`
	TaxYear  int     `json:"taxYear" yaml:"tax_year"`
}

type statsOutput struct {
	OrgCount          int     `json:"orgCount" yaml:"org_count"`
	GrantCount        int     `json:"grantCount" yaml:"grant_count"`
	TotalGrants       int     `json:"totalGrants" yaml:"total_grants"`
	TotalAmount       float64 `json:"totalAmount" yaml:"total_amount"`
	AverageAmount     float64 `json:"averageAmount" yaml:"average_amount"`
	StandardDeviation float64 `json:"standardDeviation" yaml:"standard_deviation"`
}

type orgDetailsOutput struct {
	EIN           string `json:"ein" yaml:"ein"`
	Name          string `json:"name" yaml:"name"`
	Receipts      int64  `json:"receipts" yaml:"receipts"`
	GovtFunds     int64  `json:"govtFunds" yaml:"govt_funds"`
	Contributions int64  `json:"contributions" yaml:"contributions"`
	GrantsGiven   int64  `json:"grantsGiven" yaml:"grants_given"`
}

func orgOutput(d domain.OrgDetails) orgDetailsOutput {
	return orgDetailsOutput(d)
}

func newNetworkOutput(res network.Result) networkOutput {
	out := networkOutput{
		Root:          res.Root,
		Params:        res.Params,
		Organizations: res.Organizations,
		Depths:        res.Depths,
		Grants:        make([]grantOutput, 0, len(res.Grants)),
		Stats:         statsOutput(res.Stats),
	}
	for _, g := range res.Grants {
		out.Grants = append(out.Grants, grantOutput{
			FilerEIN: g.FilerEIN,
			GrantEIN: g.GrantEIN,
			Amount:   g.Amount,
			TaxYear:  g.TaxYear,
		})
	}
	return out
}
