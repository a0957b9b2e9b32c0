package domain

// NetworkStats summarises a filtered grant network.
type NetworkStats struct {
	OrgCount          int
	GrantCount        int
	TotalGrants       int
	TotalAmount       float64
	AverageAmount     float64
	StandardDeviation float64
}

// NetworkResult is the immutable output of a single filter run.
type NetworkResult struct {
	Root          string
	Grants        []Grant
	Organizations []string
	Depths        map[string]int
	Stats         NetworkStats
}

// HasOrganization reports whether ein survived the filter.
func (r NetworkResult) HasOrganization(ein string) bool {
	for _, org := range r.Organizations {
		if org == ein {
			return true
		}
	}
	return false
}

// NetworkNode is a renderable organization in a network view.
type NetworkNode struct {
	ID    string
	Name  string
	Value float64
	Depth int
}

// NetworkLink is a renderable grant in a network view.
type NetworkLink struct {
	Source  string
	Target  string
	Value   float64
	TaxYear int
	IsSelf  bool
}

// NetworkView is the node/link shape consumed by layout and rendering clients.
type NetworkView struct {
	Nodes []NetworkNode
	Links []NetworkLink
}
