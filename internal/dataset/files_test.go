package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/granttrace/backend/internal/domain"
)

func TestLooseIntDecoding(t *testing.T) {
	tests := []struct {
		input     string
		wantValue int64
		wantValid bool
	}{
		{`1200`, 1200, true},
		{`"1200"`, 1200, true},
		{`" 42 "`, 42, true},
		{`12.9`, 12, true},
		{`"-7"`, -7, true},
		{`"1200 USD"`, 1200, true},
		{`"abc"`, 0, false},
		{`""`, 0, false},
		{`null`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var n looseInt
			require.NoError(t, json.Unmarshal([]byte(tt.input), &n))
			assert.Equal(t, tt.wantValue, n.value)
			assert.Equal(t, tt.wantValid, n.valid)
		})
	}
}

func TestFileSourceLoadRecords(t *testing.T) {
	dir := t.TempDir()
	charities := `[
		{"filer_ein": "A", "filer_name": "Alpha", "receipt_amt": "1000", "govt_amt": 250, "contrib_amt": "n/a"},
		{"filer_ein": "B", "filer_name": "Beta", "receipt_amt": 10, "govt_amt": null, "contrib_amt": 3}
	]`
	grants := `[
		{"filer_ein": "A", "grant_ein": "B", "grant_amt": "500", "tax_year": "2023"},
		{"filer_ein": "B", "grant_ein": "A", "grant_amt": "bad", "tax_year": "unknown"}
	]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, CharitiesFile), []byte(charities), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, GrantsFile), []byte(grants), 0o644))

	records, err := NewFileSource(dir).LoadRecords(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []domain.CharityRecord{
		{EIN: "A", Name: "Alpha", ReceiptAmt: 1000, GovtAmt: 250, ContribAmt: 0},
		{EIN: "B", Name: "Beta", ReceiptAmt: 10, GovtAmt: 0, ContribAmt: 3},
	}, records.Charities)
	assert.Equal(t, []domain.GrantRecord{
		{FilerEIN: "A", GrantEIN: "B", Amount: 500, TaxYear: 2023},
		{FilerEIN: "B", GrantEIN: "A", Amount: 0, TaxYear: 0},
	}, records.Grants)
}

func TestFileSourceMissingFiles(t *testing.T) {
	_, err := NewFileSource(t.TempDir()).LoadRecords(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingRecords))
}

func TestWriteRecordsRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	in := domain.Records{
		Charities: []domain.CharityRecord{{EIN: "A", Name: "Alpha", ReceiptAmt: 5, GovtAmt: 4, ContribAmt: 3}},
		Grants:    []domain.GrantRecord{{FilerEIN: "A", GrantEIN: "A", Amount: 9, TaxYear: 2022}},
	}
	require.NoError(t, WriteRecords(dir, in))

	out, err := NewFileSource(dir).LoadRecords(context.Background())
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
