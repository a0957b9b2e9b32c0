package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, defaultHost, cfg.HTTP.Host)
	assert.Equal(t, defaultPort, cfg.HTTP.Port)
	assert.Equal(t, defaultReadTimeout, cfg.HTTP.ReadTimeout)
	assert.Equal(t, SourceFile, cfg.Data.Source)
	assert.Equal(t, defaultDataDir, cfg.Data.Dir)
	assert.Equal(t, defaultLoadRetry, cfg.Data.LoadRetry)
	assert.Equal(t, 10, cfg.Filter.DefaultMaxOrgs)
	assert.Equal(t, 2, cfg.Filter.DefaultDepth)
	assert.Equal(t, defaultIngestBatchSize, cfg.Ingest.BatchSize)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_WRITE_TIMEOUT", "3s")
	t.Setenv("SERVER_METRICS_ENABLED", "true")
	t.Setenv("DATA_SOURCE", "graph")
	t.Setenv("GRAPH_URI", "neo4j://localhost:7687")
	t.Setenv("FILTER_DEFAULT_DEPTH", "0")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("DATA_LOAD_RETRY", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 3*time.Second, cfg.HTTP.WriteTimeout)
	assert.True(t, cfg.HTTP.MetricsEnabled)
	assert.Equal(t, SourceGraph, cfg.Data.Source)
	assert.Equal(t, 0, cfg.Filter.DefaultDepth)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 30*time.Second, cfg.Data.LoadRetry)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "SERVER_PORT", "70000"},
		{"port not a number", "SERVER_PORT", "http"},
		{"bad duration", "SERVER_READ_TIMEOUT", "soon"},
		{"unknown source", "DATA_SOURCE", "s3"},
		{"depth too deep", "FILTER_DEFAULT_DEPTH", "9"},
		{"max orgs too small", "FILTER_DEFAULT_MAX_ORGS", "0"},
		{"unknown log format", "LOG_FORMAT", "xml"},
		{"non-positive load retry", "DATA_LOAD_RETRY", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestGraphSourceRequiresURI(t *testing.T) {
	t.Setenv("DATA_SOURCE", "graph")
	t.Setenv("GRAPH_URI", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrGraphURIRequired)
}
