package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"

	"github.com/vanshika/granttrace/backend/internal/dataset"
	"github.com/vanshika/granttrace/backend/internal/domain"
	"github.com/vanshika/granttrace/backend/internal/logging"
	"github.com/vanshika/granttrace/backend/internal/network"
)

const defaultWarmRetry = 5 * time.Second

var (
	// ErrDatasetNotLoaded is returned by queries issued before Load has succeeded.
	ErrDatasetNotLoaded = network.ErrDatasetNotLoaded
	// ErrOrgNotFound indicates an EIN that is not part of the dataset.
	ErrOrgNotFound = errors.New("organization not found")
)

// RecordSource produces the raw records the dataset is built from.
type RecordSource interface {
	LoadRecords(ctx context.Context) (domain.Records, error)
	Probe(ctx context.Context) error
}

// GrantService owns the loaded dataset and answers every query against it.
type GrantService struct {
	source RecordSource
	logger *slog.Logger
	nowFn  func() time.Time

	flight singleflight.Group
	mu     sync.RWMutex
	ds     *dataset.Dataset
	report dataset.Report
}

// NewGrantService constructs a GrantService reading from source.
func NewGrantService(source RecordSource, logger *slog.Logger) *GrantService {
	return &GrantService{
		source: source,
		logger: logging.Component(logger, "grant_service"),
		nowFn:  time.Now,
	}
}

// WithClock overrides the time provider (used primarily in tests).
func (s *GrantService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// Load builds the dataset on first use and returns the cached copy afterwards.
// Concurrent first callers share a single read of the record source. A failed load
// is not cached: only a later Load call retries it, so long-running callers should
// use Warm.
func (s *GrantService) Load(ctx context.Context) (*dataset.Dataset, error) {
	if ds := s.current(); ds != nil {
		return ds, nil
	}

	v, err, _ := s.flight.Do("dataset", func() (any, error) {
		if ds := s.current(); ds != nil {
			return ds, nil
		}
		return s.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*dataset.Dataset), nil
}

func (s *GrantService) load(ctx context.Context) (*dataset.Dataset, error) {
	ctx, span := tracer.Start(ctx, "GrantService.Load")
	defer span.End()

	start := s.nowFn()
	records, err := s.source.LoadRecords(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load records failed")
		datasetLoads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load records: %w", err)
	}

	ds, report := dataset.Build(records, dataset.WithClock(s.nowFn))

	s.mu.Lock()
	s.ds = ds
	s.report = report
	s.mu.Unlock()

	datasetLoads.WithLabelValues("ok").Inc()
	datasetCharities.Set(float64(ds.CharityCount()))
	datasetGrants.Set(float64(len(ds.Grants())))
	span.SetAttributes(
		attribute.Int("charities", report.Charities),
		attribute.Int("grants", len(ds.Grants())),
		attribute.Int("coalesced", report.CoalescedGrants),
	)

	s.logger.Info("grant dataset loaded",
		"charities", report.Charities,
		"grant_records", report.GrantRecords,
		"grants", len(ds.Grants()),
		"coalesced", report.CoalescedGrants,
		"unknown_endpoints", report.UnknownEndpoints,
		"skipped_charities", report.SkippedCharities,
		"skipped_grants", report.SkippedGrants,
		"defaulted_tax_years", report.DefaultedTaxYears,
		"duration", s.nowFn().Sub(start),
	)
	return ds, nil
}

// Warm calls Load until it succeeds, waiting retryEvery between failed attempts.
// It returns ctx.Err() if ctx ends before a load succeeds.
func (s *GrantService) Warm(ctx context.Context, retryEvery time.Duration) error {
	if retryEvery <= 0 {
		retryEvery = defaultWarmRetry
	}
	for attempt := 1; ; attempt++ {
		_, err := s.Load(ctx)
		if err == nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		s.logger.Warn("dataset load failed, retrying", "error", err, "attempt", attempt, "retry_in", retryEvery)

		timer := time.NewTimer(retryEvery)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (s *GrantService) current() *dataset.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds
}

// Loaded reports whether the dataset is available.
func (s *GrantService) Loaded() bool {
	return s.current() != nil
}

// Report returns the build report of the loaded dataset.
func (s *GrantService) Report() dataset.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// Probe checks the record source is reachable.
func (s *GrantService) Probe(ctx context.Context) error {
	return s.source.Probe(ctx)
}

// Filter extracts the sub-network described by params.
func (s *GrantService) Filter(ctx context.Context, params network.Params) (network.Result, error) {
	_, span := tracer.Start(ctx, "GrantService.Filter")
	defer span.End()
	span.SetAttributes(
		attribute.String("org_filter", params.OrgFilter),
		attribute.Int("depth", params.Depth),
		attribute.Int("max_orgs", params.MaxOrgs),
		attribute.Float64("min_amount", params.MinAmount),
	)

	start := time.Now()
	result, err := network.Filter(s.current(), params)
	filterDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "filter failed")
		filterRuns.WithLabelValues("error").Inc()
		return network.Result{}, err
	}

	outcome := "ok"
	if len(result.Grants) == 0 {
		outcome = "empty"
	}
	filterRuns.WithLabelValues(outcome).Inc()
	filterGrants.Observe(float64(len(result.Grants)))
	span.SetAttributes(
		attribute.Int("grants", len(result.Grants)),
		attribute.Int("organizations", len(result.Organizations)),
	)
	return result, nil
}

// Network runs Filter and builds the renderable view of the result.
func (s *GrantService) Network(ctx context.Context, params network.Params) (Snapshot, error) {
	result, err := s.Filter(ctx, params)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Result: result,
		View:   network.BuildView(s.current(), result.NetworkResult),
	}, nil
}

// Search looks charities up by EIN or name fragment. The text is matched as typed;
// only case is ignored.
func (s *GrantService) Search(_ context.Context, text string) ([]domain.OrgMatch, error) {
	ds := s.current()
	if ds == nil {
		return nil, ErrDatasetNotLoaded
	}
	return ds.Index().Search(text), nil
}

// OrgDetails returns the financial profile of a charity.
func (s *GrantService) OrgDetails(_ context.Context, ein string) (domain.OrgDetails, error) {
	ds := s.current()
	if ds == nil {
		return domain.OrgDetails{}, ErrDatasetNotLoaded
	}
	details, ok := network.OrgDetails(ds, normalizeEIN(ein))
	if !ok {
		return domain.OrgDetails{}, ErrOrgNotFound
	}
	return details, nil
}

// AvailableYears lists the tax years with grants touching ein.
func (s *GrantService) AvailableYears(_ context.Context, ein string) ([]int, error) {
	ds := s.current()
	if ds == nil {
		return nil, ErrDatasetNotLoaded
	}
	return network.AvailableYears(ds, normalizeEIN(ein)), nil
}

// TaxpayerImpact sums government funding across the given charities.
func (s *GrantService) TaxpayerImpact(_ context.Context, eins []string) (int64, error) {
	ds := s.current()
	if ds == nil {
		return 0, ErrDatasetNotLoaded
	}
	return network.TaxpayerImpact(ds, normalizeEINs(eins)), nil
}

// CheckOrganization reports whether ein exists and how many grants touch it.
func (s *GrantService) CheckOrganization(_ context.Context, ein string) (domain.OrgCheck, error) {
	ds := s.current()
	if ds == nil {
		return domain.OrgCheck{}, ErrDatasetNotLoaded
	}
	return network.CheckOrganization(ds, normalizeEIN(ein)), nil
}

// ConnectedOrgs returns every charity within depth hops of ein regardless of filters.
func (s *GrantService) ConnectedOrgs(_ context.Context, ein string, depth int) (map[string]int, error) {
	ds := s.current()
	if ds == nil {
		return nil, ErrDatasetNotLoaded
	}
	return network.ConnectedOrgs(ds, normalizeEIN(ein), depth), nil
}
