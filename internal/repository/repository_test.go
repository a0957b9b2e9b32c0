package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/granttrace/backend/internal/domain"
	"github.com/vanshika/granttrace/backend/internal/graph"
)

func TestRepository_UpsertCharities(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	err := repo.UpsertCharities(context.Background(), []domain.Charity{
		{EIN: "11-0001", Name: "Alpha", ReceiptAmt: 100, GovtAmt: 40, ContribAmt: 10, GrantAmt: 25},
		{EIN: "11-0002", Name: "Beta"},
	})
	require.NoError(t, err)

	calls := mem.WriteCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, upsertCharitiesCypher, calls[0].Query)

	rows, ok := calls[0].Params["rows"].([]map[string]any)
	require.True(t, ok, "rows param has type %T", calls[0].Params["rows"])
	require.Len(t, rows, 2)
	assert.Equal(t, "11-0001", rows[0]["ein"])
	assert.Equal(t, int64(40), rows[0]["govtAmt"])
	assert.Equal(t, int64(25), rows[0]["grantsGiven"])
}

func TestRepository_UpsertGrants(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	err := repo.UpsertGrants(context.Background(), []domain.Grant{
		{FilerEIN: "A", GrantEIN: "B", Amount: 125, TaxYear: 2023},
	})
	require.NoError(t, err)

	calls := mem.WriteCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, upsertGrantsCypher, calls[0].Query)
	rows := calls[0].Params["rows"].([]map[string]any)
	assert.Equal(t, map[string]any{"filerEin": "A", "grantEin": "B", "amount": 125.0, "taxYear": 2023}, rows[0])
}

func TestRepository_UpsertValidation(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)
	ctx := context.Background()

	assert.ErrorIs(t, repo.UpsertCharities(ctx, []domain.Charity{{Name: "nameless"}}), ErrMissingEIN)
	assert.ErrorIs(t, repo.UpsertGrants(ctx, []domain.Grant{{FilerEIN: "A"}}), ErrMissingEIN)
	require.NoError(t, repo.UpsertCharities(ctx, nil))
	require.NoError(t, repo.UpsertGrants(ctx, nil))
	assert.Empty(t, mem.WriteCalls())
}

func TestRepository_LoadRecords(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.OnRead("MATCH (c:Charity)", graph.Result{Records: []graph.Record{
		{"ein": "A", "name": "Alpha", "receiptAmt": int64(10), "govtAmt": int64(5), "contribAmt": int64(1)},
		{"ein": "B", "name": "Beta", "receiptAmt": int64(0), "govtAmt": int64(0), "contribAmt": int64(0)},
	}})
	mem.OnRead("GRANTED", graph.Result{Records: []graph.Record{
		{"filerEin": "A", "grantEin": "B", "amount": 125.0, "taxYear": int64(2023)},
	}})

	records, err := New(mem).LoadRecords(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []domain.CharityRecord{
		{EIN: "A", Name: "Alpha", ReceiptAmt: 10, GovtAmt: 5, ContribAmt: 1},
		{EIN: "B", Name: "Beta"},
	}, records.Charities)
	assert.Equal(t, []domain.GrantRecord{
		{FilerEIN: "A", GrantEIN: "B", Amount: 125, TaxYear: 2023},
	}, records.Grants)
}

func TestRepository_Errors(t *testing.T) {
	boom := errors.New("bolt unavailable")
	mem := graph.NewMemoryClient().WithError(boom).WithConnectivityError(boom)
	repo := New(mem)
	ctx := context.Background()

	_, err := repo.LoadRecords(ctx)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, repo.EnsureSchema(ctx), boom)
	assert.ErrorIs(t, repo.UpsertGrants(ctx, []domain.Grant{{FilerEIN: "A", GrantEIN: "B"}}), boom)
	assert.ErrorIs(t, repo.Probe(ctx), boom)
}
