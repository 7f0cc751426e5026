// Package config loads centrality run settings. Values are layered:
// built-in defaults, then an optional YAML file, then CENTRALITY_*
// environment variables, then explicitly set command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CENTRALITY_"

// Config holds the settings shared by the centrality drivers.
type Config struct {
	// Input is the graph file (.txt adjacency or .json node/edge list).
	Input string `yaml:"input"`

	ChunkSize    int           `yaml:"chunk_size" validate:"min=1"`
	Workers      int           `yaml:"workers" validate:"min=0,max=4096"`
	ChunkTimeout time.Duration `yaml:"chunk_timeout" validate:"gte=0"`

	LogLevel    string `yaml:"log_level" validate:"oneof=debug info warn error"`
	CacheFile   string `yaml:"cache_file"`
	MetricsAddr string `yaml:"metrics_addr" validate:"omitempty,hostname_port"`

	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig selects an edge list from a database instead of a file.
type PostgresConfig struct {
	DSN   string `yaml:"dsn"`
	Query string `yaml:"query" validate:"required_with=DSN"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		ChunkSize: 10_000,
		LogLevel:  "info",
	}
}

// Load returns the defaults overlaid with the YAML file at path (skipped
// when path is empty) and the process environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML document at path. Keys absent from the file
// keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays CENTRALITY_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(EnvPrefix + key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = d
		}
	}

	str("INPUT", &c.Input)
	num("CHUNK_SIZE", &c.ChunkSize)
	num("WORKERS", &c.Workers)
	dur("CHUNK_TIMEOUT", &c.ChunkTimeout)
	str("LOG_LEVEL", &c.LogLevel)
	str("CACHE_FILE", &c.CacheFile)
	str("METRICS_ADDR", &c.MetricsAddr)
	str("PG_DSN", &c.Postgres.DSN)
	str("PG_QUERY", &c.Postgres.Query)

	return errors.Join(errs...)
}

// Validate checks every field, reporting the first violation.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config cannot be nil")
	}
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if c.Input == "" && c.Postgres.DSN == "" {
		return errors.New("input: a graph file or a postgres dsn is required")
	}
	return nil
}
