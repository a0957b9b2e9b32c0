package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("granttrace/service")

var (
	datasetLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "granttrace_dataset_loads_total",
		Help: "Dataset load attempts by result",
	}, []string{"result"})

	datasetCharities = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "granttrace_dataset_charities",
		Help: "Charities in the loaded dataset",
	})

	datasetGrants = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "granttrace_dataset_grants",
		Help: "Coalesced grant edges in the loaded dataset",
	})

	filterRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "granttrace_filter_runs_total",
		Help: "Network filter runs by outcome",
	}, []string{"outcome"})

	filterDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "granttrace_filter_duration_seconds",
		Help:    "Network filter duration",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1},
	})

	filterGrants = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "granttrace_filter_result_grants",
		Help:    "Grants surviving a filter run",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
	})

	ingestBatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "granttrace_ingest_batches_total",
		Help: "Ingestion batches written to the graph by kind and result",
	}, []string{"kind", "result"})
)
