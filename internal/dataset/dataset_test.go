package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/granttrace/backend/internal/domain"
)

func fixedClock() time.Time {
	return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
}

func TestBuild(t *testing.T) {
	t.Run("coalesces grants sharing a key", func(t *testing.T) {
		ds, report := Build(domain.Records{
			Charities: []domain.CharityRecord{
				{EIN: "A", Name: "Alpha"},
				{EIN: "B", Name: "Beta"},
			},
			Grants: []domain.GrantRecord{
				{FilerEIN: "A", GrantEIN: "B", Amount: 100, TaxYear: 2023},
				{FilerEIN: "A", GrantEIN: "B", Amount: 25, TaxYear: 2023},
				{FilerEIN: "A", GrantEIN: "B", Amount: 5, TaxYear: 2022},
			},
		})

		require.Len(t, ds.Grants(), 2)
		assert.Equal(t, domain.Grant{FilerEIN: "A", GrantEIN: "B", Amount: 125, TaxYear: 2023}, ds.Grants()[0])
		assert.Equal(t, domain.Grant{FilerEIN: "A", GrantEIN: "B", Amount: 5, TaxYear: 2022}, ds.Grants()[1])
		assert.Equal(t, 1, report.CoalescedGrants)
		assert.Equal(t, 3, ds.TotalGrantRecords())
	})

	t.Run("drops grants with unknown endpoints", func(t *testing.T) {
		ds, report := Build(domain.Records{
			Charities: []domain.CharityRecord{{EIN: "A", Name: "Alpha"}},
			Grants: []domain.GrantRecord{
				{FilerEIN: "A", GrantEIN: "Z", Amount: 100, TaxYear: 2023},
				{FilerEIN: "Z", GrantEIN: "A", Amount: 100, TaxYear: 2023},
			},
		})

		assert.Empty(t, ds.Grants())
		assert.Equal(t, 2, report.UnknownEndpoints)
		assert.Equal(t, 2, ds.TotalGrantRecords())
		alpha, ok := ds.Charity("A")
		require.True(t, ok)
		assert.Zero(t, alpha.GrantAmt)
	})

	t.Run("skips rows without identifiers", func(t *testing.T) {
		ds, report := Build(domain.Records{
			Charities: []domain.CharityRecord{{EIN: "  "}, {EIN: "A"}},
			Grants: []domain.GrantRecord{
				{FilerEIN: "", GrantEIN: "A", Amount: 1, TaxYear: 2023},
				{FilerEIN: "A", GrantEIN: "", Amount: 1, TaxYear: 2023},
			},
		})

		assert.Equal(t, 1, ds.CharityCount())
		assert.Equal(t, 1, report.SkippedCharities)
		assert.Equal(t, 2, report.SkippedGrants)
		assert.Zero(t, ds.TotalGrantRecords())
	})

	t.Run("accumulates grants given across all years", func(t *testing.T) {
		ds, _ := Build(domain.Records{
			Charities: []domain.CharityRecord{{EIN: "A"}, {EIN: "B"}, {EIN: "C"}},
			Grants: []domain.GrantRecord{
				{FilerEIN: "A", GrantEIN: "B", Amount: 100, TaxYear: 2023},
				{FilerEIN: "A", GrantEIN: "C", Amount: 40, TaxYear: 2021},
				{FilerEIN: "B", GrantEIN: "C", Amount: 7, TaxYear: 2023},
			},
		})

		alpha, _ := ds.Charity("A")
		beta, _ := ds.Charity("B")
		gamma, _ := ds.Charity("C")
		assert.Equal(t, int64(140), alpha.GrantAmt)
		assert.Equal(t, int64(7), beta.GrantAmt)
		assert.Zero(t, gamma.GrantAmt)
	})

	t.Run("keeps self referential grants", func(t *testing.T) {
		ds, _ := Build(domain.Records{
			Charities: []domain.CharityRecord{{EIN: "A"}},
			Grants:    []domain.GrantRecord{{FilerEIN: "A", GrantEIN: "A", Amount: 30, TaxYear: 2023}},
		})

		require.Len(t, ds.Grants(), 1)
		assert.True(t, ds.Grants()[0].IsSelf())
	})

	t.Run("defaults missing tax year to the current year", func(t *testing.T) {
		ds, report := Build(domain.Records{
			Charities: []domain.CharityRecord{{EIN: "A"}, {EIN: "B"}},
			Grants:    []domain.GrantRecord{{FilerEIN: "A", GrantEIN: "B", Amount: 1}},
		}, WithClock(fixedClock))

		require.Len(t, ds.Grants(), 1)
		assert.Equal(t, 2024, ds.Grants()[0].TaxYear)
		assert.Equal(t, 1, report.DefaultedTaxYears)
	})

	t.Run("later charity rows replace earlier ones in place", func(t *testing.T) {
		ds, _ := Build(domain.Records{
			Charities: []domain.CharityRecord{
				{EIN: "A", Name: "Old"},
				{EIN: "B", Name: "Beta"},
				{EIN: "A", Name: " New "},
			},
		})

		charities := ds.Charities()
		require.Len(t, charities, 2)
		assert.Equal(t, "A", charities[0].EIN)
		assert.Equal(t, "New", charities[0].Name)
	})
}

func TestIndexSearch(t *testing.T) {
	ds, _ := Build(domain.Records{
		Charities: []domain.CharityRecord{
			{EIN: "11-0001", Name: "Seattle Food Bank"},
			{EIN: "11-0002", Name: "Tacoma Arts Foundation"},
			{EIN: "22-0003", Name: "Seattle Arts Foundation"},
			{EIN: "22-0004", Name: "Foundation For Good"},
			{EIN: "22-0005", Name: "Spokane Foundation"},
			{EIN: "22-0006", Name: "Olympia Foundation"},
			{EIN: "22-0007", Name: "Everett Foundation"},
		},
	})
	idx := ds.Index()

	t.Run("short input returns nothing", func(t *testing.T) {
		assert.Empty(t, idx.Search(""))
		assert.Empty(t, idx.Search("s"))
	})

	t.Run("matches names case-insensitively", func(t *testing.T) {
		matches := idx.Search("SEATTLE")
		assert.Equal(t, []domain.OrgMatch{
			{EIN: "11-0001", Name: "Seattle Food Bank"},
			{EIN: "22-0003", Name: "Seattle Arts Foundation"},
		}, matches)
	})

	t.Run("matches identifiers", func(t *testing.T) {
		matches := idx.Search("11-000")
		require.Len(t, matches, 2)
		assert.Equal(t, "11-0001", matches[0].EIN)
		assert.Equal(t, "11-0002", matches[1].EIN)
	})

	t.Run("caps results at five in load order", func(t *testing.T) {
		matches := idx.Search("foundation")
		require.Len(t, matches, 5)
		assert.Equal(t, "11-0002", matches[0].EIN)
		assert.Equal(t, "22-0006", matches[4].EIN)
	})

	t.Run("matches alphanumeric identifiers in any case", func(t *testing.T) {
		ds, _ := Build(domain.Records{
			Charities: []domain.CharityRecord{{EIN: "AB-12", Name: "Helping Hands"}},
		})
		want := []domain.OrgMatch{{EIN: "AB-12", Name: "Helping Hands"}}
		assert.Equal(t, want, ds.Index().Search("AB-12"))
		assert.Equal(t, want, ds.Index().Search("ab-12"))
		assert.Equal(t, want, ds.Index().Search("ab-12 helping"))
	})

	t.Run("resolves names", func(t *testing.T) {
		name, ok := idx.Name("22-0004")
		require.True(t, ok)
		assert.Equal(t, "Foundation For Good", name)

		_, ok = idx.Name("99-9999")
		assert.False(t, ok)
	})
}
