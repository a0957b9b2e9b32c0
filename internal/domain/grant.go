package domain

import "fmt"

// Grant is a coalesced, directed grant edge between two charities for one tax year.
type Grant struct {
	FilerEIN string
	GrantEIN string
	Amount   float64
	TaxYear  int
}

// Key returns the coalescing key of the grant.
func (g Grant) Key() GrantKey {
	return GrantKey{FilerEIN: g.FilerEIN, GrantEIN: g.GrantEIN, TaxYear: g.TaxYear}
}

// IsSelf reports whether the grant loops back to its filer.
func (g Grant) IsSelf() bool {
	return g.FilerEIN == g.GrantEIN
}

// Touches reports whether ein is either endpoint of the grant.
func (g Grant) Touches(ein string) bool {
	return g.FilerEIN == ein || g.GrantEIN == ein
}

// GrantKey identifies a grant edge. At most one edge exists per key.
type GrantKey struct {
	FilerEIN string
	GrantEIN string
	TaxYear  int
}

func (k GrantKey) String() string {
	return fmt.Sprintf("%s~%s~%d", k.FilerEIN, k.GrantEIN, k.TaxYear)
}

// GrantRecord is a raw grant row as produced by a record source. A zero TaxYear means
// the year was missing or unparsable.
type GrantRecord struct {
	FilerEIN string
	GrantEIN string
	Amount   int64
	TaxYear  int
}
