package domain

// Records is the raw output of a record source before validation and coalescing.
type Records struct {
	Charities []CharityRecord
	Grants    []GrantRecord
}
