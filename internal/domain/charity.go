package domain

// Charity models an organization node in the grant graph.
type Charity struct {
	EIN        string
	Name       string
	ReceiptAmt int64
	GovtAmt    int64
	ContribAmt int64
	// GrantAmt is the total of every grant this charity filed across the whole dataset.
	GrantAmt int64
}

// CharityRecord is a raw organization row as produced by a record source.
type CharityRecord struct {
	EIN        string
	Name       string
	ReceiptAmt int64
	GovtAmt    int64
	ContribAmt int64
}

// OrgMatch is a single search hit.
type OrgMatch struct {
	EIN  string
	Name string
}

// OrgDetails captures the financial profile of a charity.
type OrgDetails struct {
	EIN           string
	Name          string
	Receipts      int64
	GovtFunds     int64
	Contributions int64
	GrantsGiven   int64
}

// OrgCheck reports whether an EIN is known and how many edges touch it.
type OrgCheck struct {
	EIN            string
	Exists         bool
	GrantsGiven    int
	GrantsReceived int
}
