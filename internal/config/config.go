package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig
	Graph   GraphConfig
	Data    DataConfig
	Filter  FilterConfig
	Ingest  IngestConfig
	Logging LoggingConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string
	Port              int           `validate:"min=1,max=65535"`
	ReadTimeout       time.Duration `validate:"gt=0"`
	WriteTimeout      time.Duration `validate:"gt=0"`
	IdleTimeout       time.Duration `validate:"gt=0"`
	ShutdownTimeout   time.Duration `validate:"gt=0"`
	MetricsEnabled    bool
	AllowedOriginsCSV string
}

// GraphConfig describes connectivity to the Neo4j graph store.
type GraphConfig struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int `validate:"min=0"`
}

// DataConfig selects where grant records are loaded from.
type DataConfig struct {
	Source    string        `validate:"oneof=file graph"`
	Dir       string        `validate:"required"`
	LoadRetry time.Duration `validate:"gt=0"`
}

// FilterConfig holds the parameters applied when a request leaves them unset.
type FilterConfig struct {
	DefaultMaxOrgs int `validate:"min=1,max=100"`
	DefaultDepth   int `validate:"min=0,max=5"`
}

// IngestConfig tunes bulk writes into the graph store.
type IngestConfig struct {
	Workers   int `validate:"min=1"`
	BatchSize int `validate:"min=1"`
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string `validate:"omitempty,oneof=debug info warn warning error"`
	Format        string `validate:"omitempty,oneof=text json"`
	IncludeCaller bool
}

// Record sources.
const (
	SourceFile  = "file"
	SourceGraph = "graph"
)

const (
	defaultHost             = "0.0.0.0"
	defaultPort             = 8080
	defaultReadTimeout      = 10 * time.Second
	defaultWriteTimeout     = 15 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "text"
	defaultGraphMaxSessions = 10
	defaultDataDir          = "./data"
	defaultLoadRetry        = 5 * time.Second
	defaultMaxOrgs          = 10
	defaultDepth            = 2
	defaultIngestWorkers    = 4
	defaultIngestBatchSize  = 500
)

// ErrGraphURIRequired indicates the graph source was selected without GRAPH_URI.
var ErrGraphURIRequired = errors.New("GRAPH_URI is required when DATA_SOURCE=graph")

var validate = validator.New()

// Load reads configuration from the environment, applying defaults. A .env file in
// the working directory is read first when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTP: HTTPConfig{
			Host:              valueOrDefault("SERVER_HOST", defaultHost),
			MetricsEnabled:    parseBoolWithDefault("SERVER_METRICS_ENABLED", false),
			AllowedOriginsCSV: os.Getenv("SERVER_ALLOWED_ORIGINS"),
		},
		Logging: LoggingConfig{
			Level:         valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format:        valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
			IncludeCaller: parseBoolWithDefault("LOG_INCLUDE_CALLER", false),
		},
		Graph: GraphConfig{
			URI:            os.Getenv("GRAPH_URI"),
			Database:       valueOrDefault("GRAPH_DATABASE", ""),
			Username:       os.Getenv("GRAPH_USERNAME"),
			Password:       os.Getenv("GRAPH_PASSWORD"),
			MaxConnections: parseIntWithDefault("GRAPH_MAX_CONNECTIONS", defaultGraphMaxSessions),
		},
		Data: DataConfig{
			Source: valueOrDefault("DATA_SOURCE", SourceFile),
			Dir:    valueOrDefault("DATA_DIR", defaultDataDir),
		},
		Filter: FilterConfig{
			DefaultMaxOrgs: parseIntWithDefault("FILTER_DEFAULT_MAX_ORGS", defaultMaxOrgs),
			DefaultDepth:   parseIntWithDefault("FILTER_DEFAULT_DEPTH", defaultDepth),
		},
		Ingest: IngestConfig{
			Workers:   parseIntWithDefault("INGEST_WORKERS", defaultIngestWorkers),
			BatchSize: parseIntWithDefault("INGEST_BATCH_SIZE", defaultIngestBatchSize),
		},
	}

	port, err := parsePort("SERVER_PORT", defaultPort)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	durations := []struct {
		key      string
		target   *time.Duration
		fallback time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &cfg.HTTP.ReadTimeout, defaultReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout, defaultWriteTimeout},
		{"SERVER_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout, defaultIdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout, defaultShutdownTimeout},
		{"DATA_LOAD_RETRY", &cfg.Data.LoadRetry, defaultLoadRetry},
	}
	for _, d := range durations {
		value, err := parseDurationWithDefault(d.key, d.fallback)
		if err != nil {
			return Config{}, err
		}
		*d.target = value
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field ranges and cross-field requirements.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Data.Source == SourceGraph && c.Graph.URI == "" {
		return ErrGraphURIRequired
	}
	return nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parseDurationWithDefault(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}
