package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vanshika/granttrace/backend/internal/dataset"
	"github.com/vanshika/granttrace/backend/internal/domain"
	"github.com/vanshika/granttrace/backend/internal/logging"
)

const (
	defaultIngestWorkers   = 4
	defaultIngestBatchSize = 500
)

// TaskError accumulates multiple errors produced during bulk ingestion.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *TaskError) Unwrap() []error {
	return e.Errors
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// GraphWriter is the storage contract bulk ingestion writes through.
type GraphWriter interface {
	UpsertCharities(ctx context.Context, charities []domain.Charity) error
	UpsertGrants(ctx context.Context, grants []domain.Grant) error
}

// BulkIngestor writes a built dataset to the graph in batches using a worker pool.
type BulkIngestor struct {
	writer    GraphWriter
	workers   int
	batchSize int
	logger    *slog.Logger
}

// NewBulkIngestor creates a BulkIngestor with the provided concurrency and batch size.
func NewBulkIngestor(writer GraphWriter, workers, batchSize int, logger *slog.Logger) *BulkIngestor {
	if workers <= 0 {
		workers = defaultIngestWorkers
	}
	if batchSize <= 0 {
		batchSize = defaultIngestBatchSize
	}
	return &BulkIngestor{
		writer:    writer,
		workers:   workers,
		batchSize: batchSize,
		logger:    logging.Component(logger, "bulk_ingestor"),
	}
}

// Ingest writes every charity, then every coalesced grant. Grants are only written
// once all charity batches succeeded, since the grant statement matches existing nodes.
func (bi *BulkIngestor) Ingest(ctx context.Context, ds *dataset.Dataset) (IngestSummary, error) {
	if ds == nil {
		return IngestSummary{}, ErrDatasetNotLoaded
	}

	var summary IngestSummary
	charities := ds.Charities()
	n, err := bi.IngestCharities(ctx, charities)
	summary.CharityBatches = n
	if err != nil {
		return summary, fmt.Errorf("ingest charities: %w", err)
	}
	summary.Charities = len(charities)

	grants := ds.Grants()
	n, err = bi.IngestGrants(ctx, grants)
	summary.GrantBatches = n
	if err != nil {
		return summary, fmt.Errorf("ingest grants: %w", err)
	}
	summary.Grants = len(grants)

	bi.logger.Info("ingestion complete",
		"charities", summary.Charities,
		"grants", summary.Grants,
		"charity_batches", summary.CharityBatches,
		"grant_batches", summary.GrantBatches,
	)
	return summary, nil
}

// IngestCharities upserts charities concurrently in batches and returns the batch count.
func (bi *BulkIngestor) IngestCharities(ctx context.Context, charities []domain.Charity) (int, error) {
	batches := chunk(charities, bi.batchSize)
	return len(batches), bi.run(ctx, len(batches), func(idx int) error {
		err := bi.writer.UpsertCharities(ctx, batches[idx])
		recordBatch("charities", err)
		return err
	})
}

// IngestGrants upserts grants concurrently in batches and returns the batch count.
func (bi *BulkIngestor) IngestGrants(ctx context.Context, grants []domain.Grant) (int, error) {
	batches := chunk(grants, bi.batchSize)
	return len(batches), bi.run(ctx, len(batches), func(idx int) error {
		err := bi.writer.UpsertGrants(ctx, batches[idx])
		recordBatch("grants", err)
		return err
	})
}

func recordBatch(kind string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	ingestBatches.WithLabelValues(kind, result).Inc()
}

func chunk[T any](items []T, size int) [][]T {
	var batches [][]T
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		batches = append(batches, items[start:end])
	}
	return batches
}

func (bi *BulkIngestor) run(ctx context.Context, total int, workerFn func(idx int) error) error {
	if total == 0 {
		return nil
	}
	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := workerFn(idx); err != nil {
				select {
				case errCh <- err:
				case <-ctx.Done():
					return
				}
			}
		}
	}

	for i := 0; i < bi.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < total; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	if err := ctx.Err(); err != nil {
		return err
	}

	var taskErr TaskError
	for err := range errCh {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		taskErr.append(err)
	}
	return taskErr.asError()
}
