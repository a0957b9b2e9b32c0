// Package dataset builds the immutable in-memory grant graph that every filter
// operation reads from.
//
// A Dataset is constructed once from raw records. Construction drops rows without
// identifiers, drops grants that reference unknown charities, coalesces grants that
// share a (filer, grantee, year) key and accumulates each charity's grants-given total.
// After Build returns, the Dataset is read-only and safe for concurrent readers.
package dataset

import (
	"strings"
	"time"

	"github.com/vanshika/granttrace/backend/internal/domain"
)

// Dataset is the loaded grant graph.
type Dataset struct {
	charities         map[string]*domain.Charity
	order             []string
	grants            []domain.Grant
	totalGrantRecords int
	index             *Index
}

// Report describes what Build kept and dropped.
type Report struct {
	Charities         int
	SkippedCharities  int
	GrantRecords      int
	SkippedGrants     int
	UnknownEndpoints  int
	CoalescedGrants   int
	DefaultedTaxYears int
}

// Option customises Build.
type Option func(*builder)

// WithClock overrides the clock used to default missing tax years.
func WithClock(nowFn func() time.Time) Option {
	return func(b *builder) {
		if nowFn != nil {
			b.nowFn = nowFn
		}
	}
}

type builder struct {
	nowFn func() time.Time
}

// Build validates and coalesces raw records into a Dataset.
func Build(records domain.Records, opts ...Option) (*Dataset, Report) {
	b := builder{nowFn: time.Now}
	for _, opt := range opts {
		opt(&b)
	}

	var report Report
	ds := &Dataset{
		charities: make(map[string]*domain.Charity, len(records.Charities)),
		order:     make([]string, 0, len(records.Charities)),
	}

	for _, rec := range records.Charities {
		ein := strings.TrimSpace(rec.EIN)
		if ein == "" {
			report.SkippedCharities++
			continue
		}
		if _, exists := ds.charities[ein]; !exists {
			ds.order = append(ds.order, ein)
		}
		// Later rows for the same EIN replace earlier ones but keep the first position.
		ds.charities[ein] = &domain.Charity{
			EIN:        ein,
			Name:       strings.TrimSpace(rec.Name),
			ReceiptAmt: rec.ReceiptAmt,
			GovtAmt:    rec.GovtAmt,
			ContribAmt: rec.ContribAmt,
		}
	}
	report.Charities = len(ds.order)

	currentYear := b.nowFn().Year()
	positions := make(map[domain.GrantKey]int)
	for _, rec := range records.Grants {
		filer := strings.TrimSpace(rec.FilerEIN)
		grantee := strings.TrimSpace(rec.GrantEIN)
		if filer == "" || grantee == "" {
			report.SkippedGrants++
			continue
		}
		report.GrantRecords++

		year := rec.TaxYear
		if year == 0 {
			year = currentYear
			report.DefaultedTaxYears++
		}

		filerCharity, filerKnown := ds.charities[filer]
		_, granteeKnown := ds.charities[grantee]
		if !filerKnown || !granteeKnown {
			report.UnknownEndpoints++
			continue
		}

		key := domain.GrantKey{FilerEIN: filer, GrantEIN: grantee, TaxYear: year}
		if pos, ok := positions[key]; ok {
			ds.grants[pos].Amount += float64(rec.Amount)
			report.CoalescedGrants++
		} else {
			positions[key] = len(ds.grants)
			ds.grants = append(ds.grants, domain.Grant{
				FilerEIN: filer,
				GrantEIN: grantee,
				Amount:   float64(rec.Amount),
				TaxYear:  year,
			})
		}
		filerCharity.GrantAmt += rec.Amount
	}
	ds.totalGrantRecords = report.GrantRecords
	ds.index = newIndex(ds)

	return ds, report
}

// Charity returns the charity registered under ein.
func (d *Dataset) Charity(ein string) (domain.Charity, bool) {
	c, ok := d.charities[ein]
	if !ok {
		return domain.Charity{}, false
	}
	return *c, true
}

// Has reports whether ein is a known charity.
func (d *Dataset) Has(ein string) bool {
	_, ok := d.charities[ein]
	return ok
}

// Charities returns all charities in load order.
func (d *Dataset) Charities() []domain.Charity {
	out := make([]domain.Charity, 0, len(d.order))
	for _, ein := range d.order {
		out = append(out, *d.charities[ein])
	}
	return out
}

// Grants returns the coalesced grant edges in first-seen order. The slice is shared
// with the dataset and must not be modified.
func (d *Dataset) Grants() []domain.Grant {
	return d.grants
}

// CharityCount returns the number of known charities.
func (d *Dataset) CharityCount() int {
	return len(d.order)
}

// TotalGrantRecords returns the number of raw grant rows that carried both identifiers.
func (d *Dataset) TotalGrantRecords() int {
	return d.totalGrantRecords
}

// Index returns the search index over the dataset's charities.
func (d *Dataset) Index() *Index {
	return d.index
}
