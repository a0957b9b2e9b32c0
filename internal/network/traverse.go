package network

import "github.com/vanshika/granttrace/backend/internal/domain"

// Traversal is the raw output of a bounded breadth-first expansion.
type Traversal struct {
	// Grants holds every qualifying grant in discovery order, each at most once.
	Grants []domain.Grant
	// Depths maps each discovered EIN to its hop distance from the root.
	Depths map[string]int
}

// Traverse expands outward from root one level at a time, following grants in either
// direction. A grant qualifies when its amount is at least minAmount, its tax year is
// in years and one of its endpoints sits on the current frontier. An EIN keeps the
// depth at which it was first discovered, so cycles terminate.
//
// Every level rescans the full grant list: cost is O(maxDepth * len(grants)). There is
// no adjacency index.
func Traverse(grants []domain.Grant, root string, minAmount float64, maxDepth int, years []int) Traversal {
	selected := newYearSet(years)
	qualifies := func(g domain.Grant) bool {
		return g.Amount >= minAmount && selected.has(g.TaxYear)
	}

	result := Traversal{Depths: map[string]int{root: 0}}

	if maxDepth <= 0 {
		for _, g := range grants {
			if g.FilerEIN == root && g.GrantEIN == root && qualifies(g) {
				result.Grants = append(result.Grants, g)
			}
		}
		return result
	}

	included := make([]bool, len(grants))
	frontier := map[string]struct{}{root: {}}
	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		next := make(map[string]struct{})
		for i, g := range grants {
			if !qualifies(g) {
				continue
			}
			_, filerOnFrontier := frontier[g.FilerEIN]
			_, granteeOnFrontier := frontier[g.GrantEIN]
			if !filerOnFrontier && !granteeOnFrontier {
				continue
			}

			if !included[i] {
				included[i] = true
				result.Grants = append(result.Grants, g)
			}
			for _, ein := range [2]string{g.FilerEIN, g.GrantEIN} {
				if _, seen := result.Depths[ein]; !seen {
					result.Depths[ein] = depth + 1
					next[ein] = struct{}{}
				}
			}
		}
		frontier = next
	}

	return result
}
