// Package generator synthesises charity and grant records for local development and
// load testing. Output is deterministic for a given seed.
package generator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/vanshika/granttrace/backend/internal/domain"
)

// Generator produces synthetic records in the same shape the record files use.
type Generator struct {
	cfg           Config
	rand          *rand.Rand
	nameFragments nameFragments
	hubs          []int
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	defaults := DefaultConfig()
	if cfg.NumCharities <= 0 {
		cfg.NumCharities = defaults.NumCharities
	}
	if cfg.NumGrants < 0 {
		cfg.NumGrants = defaults.NumGrants
	}
	if len(cfg.Years) == 0 {
		cfg.Years = defaults.Years
	}
	if cfg.HubChance <= 0 {
		cfg.HubChance = defaults.HubChance
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:           cfg,
		rand:          rand.New(rand.NewSource(cfg.Seed)),
		nameFragments: defaultNameFragments(),
	}
}

// Config returns the effective configuration after defaults were applied.
func (g *Generator) Config() Config {
	return g.cfg
}

// Generate synthesises charities and grants. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (domain.Records, error) {
	charities := make([]domain.CharityRecord, g.cfg.NumCharities)
	for i := range charities {
		if err := ctx.Err(); err != nil {
			return domain.Records{}, err
		}

		receipts := int64(g.rand.Intn(5_000_000) + 10_000)
		govt := int64(float64(receipts) * g.rand.Float64() * 0.6)
		charities[i] = domain.CharityRecord{
			EIN:        charityEIN(i),
			Name:       g.randomName(),
			ReceiptAmt: receipts,
			GovtAmt:    govt,
			ContribAmt: int64(float64(receipts-govt) * g.rand.Float64()),
		}
	}
	// A handful of large funders attract most of the edges.
	hubCount := max(1, g.cfg.NumCharities/50)
	g.hubs = g.rand.Perm(g.cfg.NumCharities)[:hubCount]

	grants := make([]domain.GrantRecord, 0, g.cfg.NumGrants)
	for len(grants) < g.cfg.NumGrants {
		if err := ctx.Err(); err != nil {
			return domain.Records{}, err
		}

		if len(grants) > 0 && g.chance(g.cfg.DuplicateChance) {
			dup := grants[g.rand.Intn(len(grants))]
			dup.Amount = g.randomAmount()
			grants = append(grants, dup)
			continue
		}

		filer := g.pickCharity()
		grantee := filer
		if !g.chance(g.cfg.SelfGrantChance) {
			grantee = g.pickCharity()
			if grantee == filer && g.cfg.NumCharities > 1 {
				grantee = (grantee + 1) % g.cfg.NumCharities
			}
		}

		rec := domain.GrantRecord{
			FilerEIN: charityEIN(filer),
			GrantEIN: charityEIN(grantee),
			Amount:   g.randomAmount(),
			TaxYear:  g.cfg.Years[g.rand.Intn(len(g.cfg.Years))],
		}
		if g.chance(g.cfg.UnknownEINChance) {
			rec.GrantEIN = fmt.Sprintf("99-%07d", g.rand.Intn(10_000_000))
		}
		if g.chance(g.cfg.MissingYearChance) {
			rec.TaxYear = 0
		}
		grants = append(grants, rec)
	}

	return domain.Records{Charities: charities, Grants: grants}, nil
}

func (g *Generator) pickCharity() int {
	if g.chance(g.cfg.HubChance) {
		return g.hubs[g.rand.Intn(len(g.hubs))]
	}
	return g.rand.Intn(g.cfg.NumCharities)
}

func (g *Generator) chance(p float64) bool {
	return p > 0 && g.rand.Float64() < p
}

// randomAmount is skewed toward small grants with a long tail of large ones.
func (g *Generator) randomAmount() int64 {
	base := g.rand.ExpFloat64() * 25_000
	return int64(base) + 500
}

func (g *Generator) randomName() string {
	f := g.nameFragments
	switch g.rand.Intn(3) {
	case 0:
		return fmt.Sprintf("%s %s %s", f.places[g.rand.Intn(len(f.places))],
			f.causes[g.rand.Intn(len(f.causes))], f.kinds[g.rand.Intn(len(f.kinds))])
	case 1:
		return fmt.Sprintf("%s Family %s", f.surnames[g.rand.Intn(len(f.surnames))],
			f.kinds[g.rand.Intn(len(f.kinds))])
	default:
		return fmt.Sprintf("%s %s For %s", f.places[g.rand.Intn(len(f.places))],
			f.kinds[g.rand.Intn(len(f.kinds))], f.causes[g.rand.Intn(len(f.causes))])
	}
}

func charityEIN(i int) string {
	return fmt.Sprintf("%02d-%07d", 10+i%80, i+1)
}

type nameFragments struct {
	places   []string
	causes   []string
	kinds    []string
	surnames []string
}

func defaultNameFragments() nameFragments {
	return nameFragments{
		places:   []string{"Seattle", "Tacoma", "Spokane", "Olympia", "Everett", "Yakima", "Bellingham", "Cascade", "Puget Sound", "Columbia"},
		causes:   []string{"Food", "Housing", "Arts", "Education", "Health", "Youth", "Veterans", "Environment", "Literacy", "Community"},
		kinds:    []string{"Foundation", "Trust", "Fund", "Alliance", "Society", "Network", "Council"},
		surnames: []string{"Doe", "Smith", "Chen", "Patel", "Garcia", "Khan", "Kim", "Nguyen", "Silva", "Brown", "Lee"},
	}
}
