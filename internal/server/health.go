package server

import (
	"context"
	"errors"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// LoadState reports whether the grant dataset is ready to serve queries.
type LoadState interface {
	Loaded() bool
}

var errDatasetLoading = errors.New("grant dataset is still loading")

// DatasetHealthService reports healthy once the record source answers and the
// dataset has been loaded.
type DatasetHealthService struct {
	Source HealthService
	State  LoadState
}

// Probe implements the HealthService interface.
func (s DatasetHealthService) Probe(ctx context.Context) error {
	if s.Source != nil {
		if err := s.Source.Probe(ctx); err != nil {
			return err
		}
	}
	if s.State != nil && !s.State.Loaded() {
		return errDatasetLoading
	}
	return nil
}
