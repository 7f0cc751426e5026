package config

import (
	"flag"
	"time"
)

// Flags holds command-line overrides registered on a FlagSet.
type Flags struct {
	fs *flag.FlagSet

	ConfigFile string

	input        string
	chunkSize    int
	workers      int
	chunkTimeout time.Duration
	logLevel     string
	cacheFile    string
	metricsAddr  string
	pgDSN        string
	pgQuery      string
}

// RegisterFlags defines the shared flags on fs. Defaults shown in -help are
// the built-in ones; only flags set explicitly override the loaded config.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	d := Default()
	f := &Flags{fs: fs}
	fs.StringVar(&f.ConfigFile, "config", "", "YAML config file")
	fs.StringVar(&f.input, "input", d.Input, "Graph file (.txt adjacency list or .json node/edge list)")
	fs.IntVar(&f.chunkSize, "chunk-size", d.ChunkSize, "Node pairs per worker task")
	fs.IntVar(&f.workers, "workers", d.Workers, "Worker goroutines (0 = one per CPU)")
	fs.DurationVar(&f.chunkTimeout, "chunk-timeout", d.ChunkTimeout, "Deadline per chunk (0 = none)")
	fs.StringVar(&f.logLevel, "log-level", d.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&f.cacheFile, "cache-file", d.CacheFile, "Path cache snapshot to restore from and save to")
	fs.StringVar(&f.metricsAddr, "metrics-addr", d.MetricsAddr, "Serve Prometheus metrics on this address")
	fs.StringVar(&f.pgDSN, "pg-dsn", d.Postgres.DSN, "Postgres connection string to load edges from")
	fs.StringVar(&f.pgQuery, "pg-query", d.Postgres.Query, "Query returning (source, target) rows")
	return f
}

// Apply copies every explicitly set flag into cfg.
func (f *Flags) Apply(cfg *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "input":
			cfg.Input = f.input
		case "chunk-size":
			cfg.ChunkSize = f.chunkSize
		case "workers":
			cfg.Workers = f.workers
		case "chunk-timeout":
			cfg.ChunkTimeout = f.chunkTimeout
		case "log-level":
			cfg.LogLevel = f.logLevel
		case "cache-file":
			cfg.CacheFile = f.cacheFile
		case "metrics-addr":
			cfg.MetricsAddr = f.metricsAddr
		case "pg-dsn":
			cfg.Postgres.DSN = f.pgDSN
		case "pg-query":
			cfg.Postgres.Query = f.pgQuery
		}
	})
}

// Resolve loads the config file named by -config, the environment and the
// explicit flags, then validates the result. fs must already be parsed.
func (f *Flags) Resolve() (*Config, error) {
	cfg, err := Load(f.ConfigFile)
	if err != nil {
		return nil, err
	}
	f.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
