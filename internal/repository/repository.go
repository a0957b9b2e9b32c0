// Package repository persists the grant graph in Neo4j and reads it back as raw
// records for the in-memory dataset.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/vanshika/granttrace/backend/internal/domain"
	"github.com/vanshika/granttrace/backend/internal/graph"
)

// ErrMissingEIN indicates a charity or grant row without an identifier.
var ErrMissingEIN = errors.New("ein is required")

// Repository encapsulates graph persistence operations.
type Repository struct {
	client graph.Client
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{client: client}
}

// EnsureSchema creates the uniqueness constraint MERGE relies on.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.client.ExecuteWrite(ctx, charityConstraintCypher, nil); err != nil {
		return fmt.Errorf("ensure charity constraint: %w", err)
	}
	return nil
}

// UpsertCharities merges a batch of charity nodes keyed by EIN.
func (r *Repository) UpsertCharities(ctx context.Context, charities []domain.Charity) error {
	if len(charities) == 0 {
		return nil
	}

	rows := make([]map[string]any, 0, len(charities))
	for _, c := range charities {
		if c.EIN == "" {
			return ErrMissingEIN
		}
		rows = append(rows, map[string]any{
			"ein":         c.EIN,
			"name":        c.Name,
			"receiptAmt":  c.ReceiptAmt,
			"govtAmt":     c.GovtAmt,
			"contribAmt":  c.ContribAmt,
			"grantsGiven": c.GrantAmt,
		})
	}

	if _, err := r.client.ExecuteWrite(ctx, upsertCharitiesCypher, map[string]any{"rows": rows}); err != nil {
		return fmt.Errorf("upsert %d charities: %w", len(rows), err)
	}
	return nil
}

// UpsertGrants merges a batch of GRANTED relationships, one per (filer, grantee, year).
// Amounts overwrite rather than accumulate, so re-ingesting the same dataset is a no-op.
func (r *Repository) UpsertGrants(ctx context.Context, grants []domain.Grant) error {
	if len(grants) == 0 {
		return nil
	}

	rows := make([]map[string]any, 0, len(grants))
	for _, g := range grants {
		if g.FilerEIN == "" || g.GrantEIN == "" {
			return ErrMissingEIN
		}
		rows = append(rows, map[string]any{
			"filerEin": g.FilerEIN,
			"grantEin": g.GrantEIN,
			"amount":   g.Amount,
			"taxYear":  g.TaxYear,
		})
	}

	if _, err := r.client.ExecuteWrite(ctx, upsertGrantsCypher, map[string]any{"rows": rows}); err != nil {
		return fmt.Errorf("upsert %d grants: %w", len(rows), err)
	}
	return nil
}

// LoadRecords reads every charity and grant back out of the graph.
func (r *Repository) LoadRecords(ctx context.Context) (domain.Records, error) {
	charityRes, err := r.client.ExecuteRead(ctx, exportCharitiesCypher, nil)
	if err != nil {
		return domain.Records{}, fmt.Errorf("export charities: %w", err)
	}
	grantRes, err := r.client.ExecuteRead(ctx, exportGrantsCypher, nil)
	if err != nil {
		return domain.Records{}, fmt.Errorf("export grants: %w", err)
	}

	records := domain.Records{
		Charities: make([]domain.CharityRecord, 0, len(charityRes.Records)),
		Grants:    make([]domain.GrantRecord, 0, len(grantRes.Records)),
	}
	for _, rec := range charityRes.Records {
		records.Charities = append(records.Charities, domain.CharityRecord{
			EIN:        rec.String("ein"),
			Name:       rec.String("name"),
			ReceiptAmt: rec.Int64("receiptAmt"),
			GovtAmt:    rec.Int64("govtAmt"),
			ContribAmt: rec.Int64("contribAmt"),
		})
	}
	for _, rec := range grantRes.Records {
		records.Grants = append(records.Grants, domain.GrantRecord{
			FilerEIN: rec.String("filerEin"),
			GrantEIN: rec.String("grantEin"),
			Amount:   rec.Int64("amount"),
			TaxYear:  int(rec.Int64("taxYear")),
		})
	}
	return records, nil
}

// Probe checks the graph is reachable.
func (r *Repository) Probe(ctx context.Context) error {
	return r.client.VerifyConnectivity(ctx)
}

const charityConstraintCypher = `
CREATE CONSTRAINT charity_ein IF NOT EXISTS
FOR (c:Charity) REQUIRE c.ein IS UNIQUE
`

const upsertCharitiesCypher = `
UNWIND $rows AS row
MERGE (c:Charity {ein: row.ein})
SET c.name = row.name,
	c.receiptAmt = row.receiptAmt,
	c.govtAmt = row.govtAmt,
	c.contribAmt = row.contribAmt,
	c.grantsGiven = row.grantsGiven
`

const upsertGrantsCypher = `
UNWIND $rows AS row
MATCH (filer:Charity {ein: row.filerEin})
MATCH (grantee:Charity {ein: row.grantEin})
MERGE (filer)-[g:GRANTED {taxYear: row.taxYear}]->(grantee)
SET g.amount = row.amount
`

const exportCharitiesCypher = `
MATCH (c:Charity)
RETURN c.ein AS ein,
       c.name AS name,
       coalesce(c.receiptAmt, 0) AS receiptAmt,
       coalesce(c.govtAmt, 0) AS govtAmt,
       coalesce(c.contribAmt, 0) AS contribAmt
ORDER BY c.ein
`

const exportGrantsCypher = `
MATCH (filer:Charity)-[g:GRANTED]->(grantee:Charity)
RETURN filer.ein AS filerEin,
       grantee.ein AS grantEin,
       coalesce(g.amount, 0) AS amount,
       g.taxYear AS taxYear
ORDER BY filer.ein, grantee.ein, g.taxYear DESC
`
