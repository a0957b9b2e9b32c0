package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vanshika/granttrace/backend/internal/config"
	"github.com/vanshika/granttrace/backend/internal/dataset"
	"github.com/vanshika/granttrace/backend/internal/graph"
	"github.com/vanshika/granttrace/backend/internal/logging"
	"github.com/vanshika/granttrace/backend/internal/repository"
	"github.com/vanshika/granttrace/backend/internal/service"
)

var errEmptyDataset = errors.New("dataset contains no charities")

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var (
		datasetDir = flag.String("dataset-dir", cfg.Data.Dir, "Directory containing charities.json and grants.json")
		workers    = flag.Int("workers", cfg.Ingest.Workers, "Number of concurrent workers for ingestion")
		batchSize  = flag.Int("batch-size", cfg.Ingest.BatchSize, "Rows written per graph transaction")
	)
	flag.Parse()

	logger := logging.Component(logging.New(cfg.Logging), "ingest")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	records, err := dataset.NewFileSource(*datasetDir).LoadRecords(ctx)
	if err != nil {
		logger.Error("failed to read records", "error", err, "dir", *datasetDir)
		os.Exit(1)
	}
	ds, report := dataset.Build(records)
	if ds.CharityCount() == 0 {
		logger.Error("nothing to ingest", "error", errEmptyDataset, "dir", *datasetDir)
		os.Exit(1)
	}
	logger.Info("dataset built",
		"charities", report.Charities,
		"grant_records", report.GrantRecords,
		"grants", len(ds.Grants()),
		"unknown_endpoints", report.UnknownEndpoints,
		"coalesced", report.CoalescedGrants,
	)

	graphClient, err := buildGraphClient(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	repo := repository.New(graphClient)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("failed to ensure graph schema", "error", err)
		os.Exit(1)
	}

	ingestor := service.NewBulkIngestor(repo, *workers, *batchSize, logger)

	start := time.Now()
	summary, err := ingestor.Ingest(ctx, ds)
	if err != nil {
		logger.Error("ingestion failed", "error", err)
		os.Exit(1)
	}

	logger.Info("ingestion complete",
		"duration", time.Since(start).String(),
		"charities", summary.Charities,
		"grants", summary.Grants,
		"charity_batches", summary.CharityBatches,
		"grant_batches", summary.GrantBatches,
	)
}

func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, graph.ErrMissingURI
	}
	opts := graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
	client, err := graph.NewNeo4jClient(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.VerifyConnectivity(ctx); err != nil {
		_ = client.Close(ctx)
		return nil, err
	}
	logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
	return client, nil
}
