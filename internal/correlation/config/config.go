package config

import (
	"errors"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
)

// SalesforceConfig holds the connection settings of the org being analyzed.
type SalesforceConfig struct {
	InstanceURL string        `env:"SF_INSTANCE_URL" json:"instance_url"`
	AccessToken string        `env:"SF_ACCESS_TOKEN" json:"-"`
	APIVersion  string        `env:"SF_API_VERSION" envDefault:"60.0" json:"api_version"`
	HTTPTimeout time.Duration `env:"SF_HTTP_TIMEOUT" envDefault:"60s" json:"http_timeout"`
}

// BulkConfig tunes the bulk metadata retrieval.
type BulkConfig struct {
	// ChunkSize is the number of ids read per composite call.
	ChunkSize int `env:"BULK_CHUNK_SIZE" envDefault:"25" json:"chunk_size"`
	// MaxParallel bounds the number of composite calls in flight.
	MaxParallel         int      `env:"BULK_MAX_PARALLEL" envDefault:"5" json:"max_parallel"`
	ToleratedErrorCodes []string `env:"BULK_TOLERATED_ERROR_CODES" envDefault:"UNKNOWN_EXCEPTION" envSeparator:"," json:"tolerated_error_codes"`
	DependencyChunkSize int      `env:"DEPENDENCY_CHUNK_SIZE" envDefault:"100" json:"dependency_chunk_size"`
}

// CacheConfig holds the Redis result cache settings. An empty Addr disables the cache.
type CacheConfig struct {
	Addr     string        `env:"REDIS_ADDR" json:"addr"`
	Password string        `env:"REDIS_PASSWORD" json:"-"`
	DB       int           `env:"REDIS_DB" envDefault:"0" json:"db"`
	TTL      time.Duration `env:"CACHE_TTL" envDefault:"1h" json:"ttl"`
	Prefix   string        `env:"CACHE_PREFIX" envDefault:"orgcheck:" json:"prefix"`
}

// SnapshotConfig holds the MongoDB snapshot archive settings. An empty URI
// disables snapshots.
type SnapshotConfig struct {
	MongoDBURI   string `env:"MONGODB_URI" json:"-"`
	DatabaseName string `env:"MONGODB_DATABASE" envDefault:"orgcheck" json:"database_name"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host         string `env:"SERVER_HOST" envDefault:"0.0.0.0" json:"host"`
	Port         string `env:"SERVER_PORT" envDefault:"3030" json:"port"`
	ProgressPath string `env:"PROGRESS_WS_PATH" envDefault:"/ws/v1/progress" json:"progress_path"`
}

// ScoringConfig holds thresholds used by the built-in scoring rules.
type ScoringConfig struct {
	MinAPIVersion float64 `env:"SCORE_MIN_API_VERSION" envDefault:"40" json:"min_api_version"`
}

// Config holds all configuration for the correlation module.
type Config struct {
	Salesforce SalesforceConfig `json:"salesforce"`
	Bulk       BulkConfig       `json:"bulk"`
	Cache      CacheConfig      `json:"cache"`
	Snapshot   SnapshotConfig   `json:"snapshot"`
	Server     ServerConfig     `json:"server"`
	Scoring    ScoringConfig    `json:"scoring"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load correlation configuration from environment: " + err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the invariants LoadConfig relies on.
func (c *Config) Validate() error {
	if c.Bulk.ChunkSize <= 0 {
		return errors.New("BULK_CHUNK_SIZE must be greater than zero")
	}
	if c.Bulk.MaxParallel <= 0 {
		return errors.New("BULK_MAX_PARALLEL must be greater than zero")
	}
	if c.Bulk.DependencyChunkSize <= 0 {
		return errors.New("DEPENDENCY_CHUNK_SIZE must be greater than zero")
	}
	if c.Salesforce.InstanceURL != "" {
		u, err := url.Parse(c.Salesforce.InstanceURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.New("SF_INSTANCE_URL must be an absolute http(s) URL")
		}
	}
	return nil
}

// RequireOrg reports an error when no org connection is configured.
func (c *Config) RequireOrg() error {
	if c.Salesforce.InstanceURL == "" {
		return errors.New("SF_INSTANCE_URL environment variable is not set")
	}
	return nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Salesforce: SalesforceConfig{
			APIVersion:  "60.0",
			HTTPTimeout: 60 * time.Second,
		},
		Bulk: BulkConfig{
			ChunkSize:           25,
			MaxParallel:         5,
			ToleratedErrorCodes: []string{"UNKNOWN_EXCEPTION"},
			DependencyChunkSize: 100,
		},
		Cache: CacheConfig{
			TTL:    time.Hour,
			Prefix: "orgcheck:",
		},
		Snapshot: SnapshotConfig{DatabaseName: "orgcheck"},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         "3030",
			ProgressPath: "/ws/v1/progress",
		},
		Scoring: ScoringConfig{MinAPIVersion: 40},
	}
}
