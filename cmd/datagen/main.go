package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vanshika/granttrace/backend/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		charities     = flag.Int("charities", cfg.NumCharities, "number of charities to generate")
		grants        = flag.Int("grants", cfg.NumGrants, "number of grant rows to generate")
		years         = flag.String("years", joinYears(cfg.Years), "comma separated tax years to spread grants across")
		hubChance     = flag.Float64("hub-chance", cfg.HubChance, "probability that a grant endpoint is one of the large funders")
		selfChance    = flag.Float64("self-grant-chance", cfg.SelfGrantChance, "probability of a charity granting to itself")
		dupChance     = flag.Float64("duplicate-chance", cfg.DuplicateChance, "probability of repeating an earlier filer, grantee and year")
		unknownChance = flag.Float64("unknown-ein-chance", cfg.UnknownEINChance, "probability of a grantee missing from charities.json")
		missingYear   = flag.Float64("missing-year-chance", cfg.MissingYearChance, "probability of a grant row without a tax year")
		seed          = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		outputDir     = flag.String("output-dir", "data", "directory to write charities.json and grants.json")
		writeStdout   = flag.Bool("stdout", false, "write combined records to stdout instead of files")
	)
	flag.Parse()

	parsedYears, err := parseYears(*years)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -years: %v\n", err)
		os.Exit(2)
	}

	genCfg := generator.Config{
		NumCharities:      *charities,
		NumGrants:         *grants,
		Years:             parsedYears,
		HubChance:         clampProbability(*hubChance),
		SelfGrantChance:   clampProbability(*selfChance),
		DuplicateChance:   clampProbability(*dupChance),
		UnknownEINChance:  clampProbability(*unknownChance),
		MissingYearChance: clampProbability(*missingYear),
		Seed:              *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	gen := generator.New(genCfg)
	records, err := gen.Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if *writeStdout {
		if err := json.NewEncoder(os.Stdout).Encode(records); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write records to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := generator.WriteDataset(records, gen.Config(), *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write records: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d charities and %d grants into %s\n", len(records.Charities), len(records.Grants), *outputDir)
}

func parseYears(raw string) ([]int, error) {
	var years []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		year, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		years = append(years, year)
	}
	return years, nil
}

func joinYears(years []int) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = strconv.Itoa(y)
	}
	return strings.Join(parts, ",")
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
