package network

import (
	"math"
	"slices"

	"github.com/vanshika/granttrace/backend/internal/dataset"
	"github.com/vanshika/granttrace/backend/internal/domain"
)

// DefaultYears is offered when an organization has no grants to derive years from.
var DefaultYears = []int{2023, 2022, 2021}

// AvailableYears lists the distinct tax years of grants touching ein, newest first.
func AvailableYears(ds *dataset.Dataset, ein string) []int {
	if ds == nil || ein == "" {
		return slices.Clone(DefaultYears)
	}

	seen := make(map[int]struct{})
	var years []int
	for _, g := range ds.Grants() {
		if !g.Touches(ein) {
			continue
		}
		if _, ok := seen[g.TaxYear]; ok {
			continue
		}
		seen[g.TaxYear] = struct{}{}
		years = append(years, g.TaxYear)
	}
	if len(years) == 0 {
		return slices.Clone(DefaultYears)
	}
	slices.SortFunc(years, func(a, b int) int { return b - a })
	return years
}

// ConnectedOrgs returns the depth of every organization reachable from root within
// depth hops, ignoring amount and year filters. Every grant is followed, including
// ones with negative amounts.
func ConnectedOrgs(ds *dataset.Dataset, root string, depth int) map[string]int {
	depths := map[string]int{}
	if ds == nil || depth < 0 || !ds.Has(root) {
		return depths
	}
	var years []int
	seen := make(map[int]struct{})
	for _, g := range ds.Grants() {
		if _, ok := seen[g.TaxYear]; !ok {
			seen[g.TaxYear] = struct{}{}
			years = append(years, g.TaxYear)
		}
	}
	return Traverse(ds.Grants(), root, math.Inf(-1), depth, years).Depths
}

// OrgDetails returns the financial profile of a charity.
func OrgDetails(ds *dataset.Dataset, ein string) (domain.OrgDetails, bool) {
	if ds == nil {
		return domain.OrgDetails{}, false
	}
	c, ok := ds.Charity(ein)
	if !ok {
		return domain.OrgDetails{}, false
	}
	return domain.OrgDetails{
		EIN:           c.EIN,
		Name:          c.Name,
		Receipts:      c.ReceiptAmt,
		GovtFunds:     c.GovtAmt,
		Contributions: c.ContribAmt,
		GrantsGiven:   c.GrantAmt,
	}, true
}

// TaxpayerImpact sums the government funding received by the given charities.
// Unknown EINs contribute nothing.
func TaxpayerImpact(ds *dataset.Dataset, eins []string) int64 {
	if ds == nil {
		return 0
	}
	var total int64
	for _, ein := range eins {
		if c, ok := ds.Charity(ein); ok {
			total += c.GovtAmt
		}
	}
	return total
}

// CheckOrganization reports whether ein is known and how many grants it gave and received.
func CheckOrganization(ds *dataset.Dataset, ein string) domain.OrgCheck {
	check := domain.OrgCheck{EIN: ein}
	if ds == nil {
		return check
	}
	check.Exists = ds.Has(ein)
	for _, g := range ds.Grants() {
		if g.FilerEIN == ein {
			check.GrantsGiven++
		}
		if g.GrantEIN == ein {
			check.GrantsReceived++
		}
	}
	return check
}
