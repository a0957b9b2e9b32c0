package service

import (
	"github.com/vanshika/granttrace/backend/internal/domain"
	"github.com/vanshika/granttrace/backend/internal/network"
)

// Snapshot pairs a filter result with its renderable view.
type Snapshot struct {
	Result network.Result
	View   domain.NetworkView
}

// IngestSummary reports what a bulk ingestion wrote.
type IngestSummary struct {
	Charities      int
	Grants         int
	CharityBatches int
	GrantBatches   int
}
