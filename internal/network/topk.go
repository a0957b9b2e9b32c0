package network

import (
	"cmp"
	"math"
	"slices"

	"github.com/vanshika/granttrace/backend/internal/domain"
)

type orgVolume struct {
	ein    string
	volume float64
}

// LimitToTopOrgs keeps root plus the maxCount organizations with the largest grant
// volume, where volume is the sum of amounts of every grant touching the organization.
// Equal volumes are ordered by EIN ascending. Grants survive only when both endpoints
// survive; their relative order is preserved. Organizations are returned root first,
// then by rank.
func LimitToTopOrgs(grants []domain.Grant, maxCount int, root string) ([]domain.Grant, []string) {
	if maxCount < 0 {
		maxCount = 0
	}

	volumes := make(map[string]float64)
	var candidates []string
	add := func(ein string, amount float64) {
		if ein == root {
			return
		}
		if _, ok := volumes[ein]; !ok {
			candidates = append(candidates, ein)
		}
		if math.IsNaN(amount) || math.IsInf(amount, 0) {
			amount = 0
		}
		volumes[ein] += amount
	}
	for _, g := range grants {
		add(g.FilerEIN, g.Amount)
		add(g.GrantEIN, g.Amount)
	}

	ranked := make([]orgVolume, 0, len(candidates))
	for _, ein := range candidates {
		ranked = append(ranked, orgVolume{ein: ein, volume: volumes[ein]})
	}
	slices.SortFunc(ranked, func(a, b orgVolume) int {
		if c := cmp.Compare(b.volume, a.volume); c != 0 {
			return c
		}
		return cmp.Compare(a.ein, b.ein)
	})
	if len(ranked) > maxCount {
		ranked = ranked[:maxCount]
	}

	orgs := make([]string, 0, len(ranked)+1)
	orgs = append(orgs, root)
	keep := map[string]struct{}{root: {}}
	for _, org := range ranked {
		orgs = append(orgs, org.ein)
		keep[org.ein] = struct{}{}
	}

	kept := make([]domain.Grant, 0, len(grants))
	for _, g := range grants {
		_, filerKept := keep[g.FilerEIN]
		_, granteeKept := keep[g.GrantEIN]
		if filerKept && granteeKept {
			kept = append(kept, g)
		}
	}
	return kept, orgs
}
