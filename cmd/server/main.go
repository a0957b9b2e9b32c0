package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/vanshika/granttrace/backend/internal/config"
	"github.com/vanshika/granttrace/backend/internal/dataset"
	"github.com/vanshika/granttrace/backend/internal/graph"
	"github.com/vanshika/granttrace/backend/internal/logging"
	"github.com/vanshika/granttrace/backend/internal/repository"
	"github.com/vanshika/granttrace/backend/internal/server"
	"github.com/vanshika/granttrace/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source, closeSource, err := buildRecordSource(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to create record source", "error", err)
		os.Exit(1)
	}
	defer closeSource()

	grantService := service.NewGrantService(source, logger)

	// Serve health checks while the dataset builds; queries answer 503 until then.
	// Failed loads are retried until one succeeds or the server shuts down.
	go func() {
		if err := grantService.Warm(ctx, cfg.Data.LoadRetry); err != nil {
			logger.Warn("dataset warm-up stopped", "error", err)
		}
	}()

	origins := parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV)
	apiHandlers := server.NewAPIHandlers(logger, grantService, server.HandlerOptions{
		Defaults:       cfg.Filter,
		AllowedOrigins: origins,
	})

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.DatasetHealthService{Source: grantService, State: grantService},
		API:              apiHandlers,
		AllowedOrigins:   origins,
		AllowCredentials: true,
		MetricsEnabled:   cfg.HTTP.MetricsEnabled,
	})

	srv := server.New(logger, cfg.HTTP, router)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped unexpectedly", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func buildRecordSource(ctx context.Context, logger *slog.Logger, cfg config.Config) (service.RecordSource, func(), error) {
	if cfg.Data.Source != config.SourceGraph {
		logger.Info("loading grant records from files", "dir", cfg.Data.Dir)
		return dataset.NewFileSource(cfg.Data.Dir), func() {}, nil
	}

	client, err := graph.NewNeo4jClient(ctx, graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("loading grant records from graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)

	closeFn := func() {
		if err := client.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}
	return repository.New(client), closeFn, nil
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	var origins []string
	for _, part := range strings.Split(csv, ",") {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
