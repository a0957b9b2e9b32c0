package generator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vanshika/granttrace/backend/internal/dataset"
)

func TestGenerateIsDeterministic(t *testing.T) {
	cfg := Config{NumCharities: 50, NumGrants: 300, Seed: 7}

	first, err := New(cfg).Generate(context.Background())
	require.NoError(t, err)
	second, err := New(cfg).Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first.Charities, 50)
	assert.Len(t, first.Grants, 300)
}

func TestGenerateInjectsIrregularRows(t *testing.T) {
	cfg := Config{
		NumCharities:      20,
		NumGrants:         2000,
		Years:             []int{2022, 2023},
		SelfGrantChance:   0.1,
		DuplicateChance:   0.1,
		UnknownEINChance:  0.1,
		MissingYearChance: 0.1,
		Seed:              99,
	}
	records, err := New(cfg).Generate(context.Background())
	require.NoError(t, err)

	known := make(map[string]bool, len(records.Charities))
	for _, c := range records.Charities {
		known[c.EIN] = true
		assert.NotEmpty(t, c.Name)
		assert.LessOrEqual(t, c.GovtAmt, c.ReceiptAmt)
	}

	var self, unknown, missingYear int
	for _, g := range records.Grants {
		require.True(t, known[g.FilerEIN])
		if g.FilerEIN == g.GrantEIN {
			self++
		}
		if !known[g.GrantEIN] {
			unknown++
		}
		if g.TaxYear == 0 {
			missingYear++
		} else {
			assert.Contains(t, cfg.Years, g.TaxYear)
		}
		assert.Positive(t, g.Amount)
	}
	assert.Positive(t, self)
	assert.Positive(t, unknown)
	assert.Positive(t, missingYear)

	ds, report := dataset.Build(records)
	assert.Equal(t, 20, ds.CharityCount())
	assert.Positive(t, report.CoalescedGrants)
	assert.Positive(t, report.UnknownEndpoints)
}

func TestGenerateHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Config{NumCharities: 10, NumGrants: 10, Seed: 1}).Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewAppliesDefaults(t *testing.T) {
	cfg := New(Config{Seed: 3}).Config()
	assert.Equal(t, DefaultConfig().NumCharities, cfg.NumCharities)
	assert.Equal(t, DefaultConfig().Years, cfg.Years)
	assert.Equal(t, int64(3), cfg.Seed)
}

func TestWriteDataset(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	gen := New(Config{NumCharities: 5, NumGrants: 10, Seed: 11})
	records, err := gen.Generate(context.Background())
	require.NoError(t, err)

	require.NoError(t, WriteDataset(records, gen.Config(), dir))

	loaded, err := dataset.NewFileSource(dir).LoadRecords(context.Background())
	require.NoError(t, err)
	assert.Equal(t, records, loaded)

	raw, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	require.NoError(t, err)
	var manifest Manifest
	require.NoError(t, yaml.Unmarshal(raw, &manifest))
	assert.Equal(t, 5, manifest.Charities)
	assert.Equal(t, 10, manifest.Grants)
	assert.Equal(t, int64(11), manifest.Config.Seed)
}
