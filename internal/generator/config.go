package generator

// Config drives the synthetic grant data generator.
type Config struct {
	NumCharities int     `yaml:"num_charities"`
	NumGrants    int     `yaml:"num_grants"`
	Years        []int   `yaml:"years"`
	HubChance    float64 `yaml:"hub_chance"`
	// Chances below inject the irregular rows real filings contain.
	SelfGrantChance   float64 `yaml:"self_grant_chance"`
	DuplicateChance   float64 `yaml:"duplicate_chance"`
	UnknownEINChance  float64 `yaml:"unknown_ein_chance"`
	MissingYearChance float64 `yaml:"missing_year_chance"`
	Seed              int64   `yaml:"seed"`
}

// DefaultConfig returns settings that produce a dense, multi-year grant graph.
func DefaultConfig() Config {
	return Config{
		NumCharities:      2000,
		NumGrants:         20000,
		Years:             []int{2023, 2022, 2021},
		HubChance:         0.3,
		SelfGrantChance:   0.01,
		DuplicateChance:   0.05,
		UnknownEINChance:  0.02,
		MissingYearChance: 0.01,
		Seed:              42,
	}
}
