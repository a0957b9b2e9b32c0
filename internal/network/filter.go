// Package network extracts bounded grant sub-networks from a loaded dataset.
//
// A filter run is a pipeline of pure functions over the immutable dataset:
// Traverse collects qualifying grants outward from a root, LimitToTopOrgs keeps the
// organizations with the largest grant volume, and ComputeStats summarises what is
// left. Nothing here mutates the dataset, so concurrent filter runs are safe.
package network

import (
	"errors"

	"github.com/vanshika/granttrace/backend/internal/dataset"
	"github.com/vanshika/granttrace/backend/internal/domain"
)

// ErrDatasetNotLoaded is returned when a filter runs before any dataset is available.
var ErrDatasetNotLoaded = errors.New("grant dataset is not loaded")

// Result is a filter outcome together with the normalized parameters that produced it.
type Result struct {
	domain.NetworkResult
	Params Params
}

// Filter normalizes params and extracts the matching sub-network. An empty or unknown
// root, or a root with no qualifying grants, yields a degenerate result rather than an
// error.
func Filter(ds *dataset.Dataset, params Params) (Result, error) {
	if ds == nil {
		return Result{}, ErrDatasetNotLoaded
	}

	p := params.Normalize(ds)
	root := p.OrgFilter
	if root == "" || !ds.Has(root) {
		return Result{NetworkResult: emptyResult(ds, root), Params: p}, nil
	}

	traversal := Traverse(ds.Grants(), root, p.MinAmount, p.Depth, p.SelectedYears)
	if len(traversal.Grants) == 0 {
		return Result{NetworkResult: emptyResult(ds, root), Params: p}, nil
	}

	// The root always occupies one of the MaxOrgs slots.
	grants, orgs := LimitToTopOrgs(traversal.Grants, p.MaxOrgs-1, root)
	summary := ComputeStats(grants)

	return Result{
		NetworkResult: domain.NetworkResult{
			Root:          root,
			Grants:        grants,
			Organizations: orgs,
			Depths:        traversal.Depths,
			Stats: domain.NetworkStats{
				OrgCount:          len(orgs),
				GrantCount:        summary.Count,
				TotalGrants:       ds.TotalGrantRecords(),
				TotalAmount:       summary.Total,
				AverageAmount:     summary.Mean,
				StandardDeviation: summary.StdDev,
			},
		},
		Params: p,
	}, nil
}

func emptyResult(ds *dataset.Dataset, root string) domain.NetworkResult {
	result := domain.NetworkResult{
		Root:          root,
		Grants:        []domain.Grant{},
		Organizations: []string{},
		Depths:        map[string]int{},
		Stats:         domain.NetworkStats{TotalGrants: ds.TotalGrantRecords()},
	}
	if root != "" {
		result.Organizations = append(result.Organizations, root)
		result.Depths[root] = 0
	}
	result.Stats.OrgCount = len(result.Organizations)
	return result
}
