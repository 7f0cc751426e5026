package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "centrality.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 10_000, cfg.ChunkSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Zero(t, cfg.Workers)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
input: graph.txt
chunk_size: 500
workers: 4
chunk_timeout: 30s
metrics_addr: ":9090"
postgres:
  dsn: postgres://localhost/contacts
  query: SELECT src, dst FROM interactions
`)
	cfg := Default()
	require.NoError(t, cfg.LoadFile(path))

	assert.Equal(t, "graph.txt", cfg.Input)
	assert.Equal(t, 500, cfg.ChunkSize)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 30*time.Second, cfg.ChunkTimeout)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.Equal(t, "info", cfg.LogLevel, "absent keys keep their defaults")
	assert.Equal(t, "SELECT src, dst FROM interactions", cfg.Postgres.Query)
	require.NoError(t, cfg.Validate())
}

func TestLoadFileErrors(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))

	bad := writeFile(t, "chunk_size: [1, 2]\n")
	err := cfg.LoadFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"CENTRALITY_INPUT":         "data/graph.json",
		"CENTRALITY_CHUNK_SIZE":    "250",
		"CENTRALITY_WORKERS":       "3",
		"CENTRALITY_CHUNK_TIMEOUT": "1m",
		"CENTRALITY_LOG_LEVEL":     "debug",
		"CENTRALITY_CACHE_FILE":    "/tmp/paths.snappy",
		"UNRELATED":                "ignored",
	}))
	require.NoError(t, err)

	assert.Equal(t, "data/graph.json", cfg.Input)
	assert.Equal(t, 250, cfg.ChunkSize)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, time.Minute, cfg.ChunkTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/paths.snappy", cfg.CacheFile)
}

func TestApplyEnvInvalid(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"CENTRALITY_CHUNK_SIZE":    "lots",
		"CENTRALITY_CHUNK_TIMEOUT": "soon",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CENTRALITY_CHUNK_SIZE")
	assert.Contains(t, err.Error(), "CENTRALITY_CHUNK_TIMEOUT")
	assert.Equal(t, 10_000, cfg.ChunkSize, "bad values leave the field untouched")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "zero chunk size", mutate: func(c *Config) { c.ChunkSize = 0 }, wantErr: "chunk_size: must be at least 1"},
		{name: "negative workers", mutate: func(c *Config) { c.Workers = -1 }, wantErr: "workers: must be at least 0"},
		{name: "too many workers", mutate: func(c *Config) { c.Workers = 10_000 }, wantErr: "workers: must not exceed 4096"},
		{name: "negative timeout", mutate: func(c *Config) { c.ChunkTimeout = -time.Second }, wantErr: "chunk_timeout"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: `log_level: must be one of [debug info warn error], got "loud"`},
		{name: "bad metrics addr", mutate: func(c *Config) { c.MetricsAddr = "nowhere" }, wantErr: "metrics_addr"},
		{name: "dsn without query", mutate: func(c *Config) { c.Postgres.DSN = "postgres://x" }, wantErr: "postgres.query: field is required"},
		{name: "no input", mutate: func(c *Config) { c.Input = "" }, wantErr: "input: a graph file or a postgres dsn is required"},
		{name: "postgres only", mutate: func(c *Config) {
			c.Input = ""
			c.Postgres = PostgresConfig{DSN: "postgres://x", Query: "SELECT a, b FROM e"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Input = "graph.txt"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), "got %q, want %q", err, tt.wantErr)
		})
	}

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}

func TestFlagsOverrideFileAndEnv(t *testing.T) {
	path := writeFile(t, "input: from-file.txt\nchunk_size: 100\nworkers: 2\n")
	t.Setenv("CENTRALITY_WORKERS", "6")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-config", path, "-chunk-size", "50"}))

	cfg, err := flags.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "from-file.txt", cfg.Input)
	assert.Equal(t, 50, cfg.ChunkSize, "explicit flag wins")
	assert.Equal(t, 6, cfg.Workers, "env beats file")
	assert.Equal(t, "info", cfg.LogLevel, "unset flags do not reset values")
}

func TestResolveInvalid(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-input", "g.txt", "-log-level", "verbose"}))

	_, err := flags.Resolve()
	assert.Error(t, err)
}
