package network

import (
	"github.com/vanshika/granttrace/backend/internal/dataset"
	"github.com/vanshika/granttrace/backend/internal/domain"
)

// BuildView converts a filter result into renderable nodes and links. Nodes appear
// in the order their first grant references them and carry the summed amount of
// every grant touching them.
func BuildView(ds *dataset.Dataset, result domain.NetworkResult) domain.NetworkView {
	view := domain.NetworkView{
		Nodes: []domain.NetworkNode{},
		Links: make([]domain.NetworkLink, 0, len(result.Grants)),
	}
	if ds == nil {
		return view
	}

	for _, g := range result.Grants {
		view.Links = append(view.Links, domain.NetworkLink{
			Source:  g.FilerEIN,
			Target:  g.GrantEIN,
			Value:   g.Amount,
			TaxYear: g.TaxYear,
			IsSelf:  g.IsSelf(),
		})
	}

	if len(result.Depths) <= 1 {
		root, ok := ds.Charity(result.Root)
		if !ok {
			return view
		}
		var total float64
		for _, g := range result.Grants {
			total += g.Amount
		}
		if total <= 0 {
			total = 1
		}
		view.Nodes = append(view.Nodes, domain.NetworkNode{ID: root.EIN, Name: root.Name, Value: total})
		return view
	}

	positions := make(map[string]int)
	touch := func(ein string, amount float64) {
		pos, ok := positions[ein]
		if !ok {
			charity, known := ds.Charity(ein)
			if !known {
				return
			}
			pos = len(view.Nodes)
			positions[ein] = pos
			view.Nodes = append(view.Nodes, domain.NetworkNode{
				ID:    ein,
				Name:  charity.Name,
				Depth: result.Depths[ein],
			})
		}
		view.Nodes[pos].Value += amount
	}
	for _, g := range result.Grants {
		touch(g.FilerEIN, g.Amount)
		touch(g.GrantEIN, g.Amount)
	}
	return view
}
