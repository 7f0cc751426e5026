// Package session wires a loaded graph, its centrality engine and the
// optional path-cache snapshot file together for the drivers.
package session

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/dd0wney/cluso-centrality/pkg/algorithms"
	"github.com/dd0wney/cluso-centrality/pkg/config"
	"github.com/dd0wney/cluso-centrality/pkg/graph"
	"github.com/dd0wney/cluso-centrality/pkg/loader"
	"github.com/dd0wney/cluso-centrality/pkg/logging"
	"github.com/dd0wney/cluso-centrality/pkg/metrics"
	"github.com/dd0wney/cluso-centrality/pkg/pathcache"
)

// Session is one graph and the engine computing its measures.
type Session struct {
	Config  *config.Config
	Graph   *graph.Graph
	Engine  *algorithms.Engine
	Logger  logging.Logger
	Metrics *metrics.Registry
}

// LoadGraph reads the graph named by cfg: the Postgres query when a DSN is
// set, the input file otherwise.
func LoadGraph(ctx context.Context, cfg *config.Config) (*graph.Graph, error) {
	if cfg.Postgres.DSN != "" {
		return loader.LoadPostgres(ctx, cfg.Postgres.DSN, cfg.Postgres.Query)
	}
	return loader.Load(cfg.Input)
}

// Open loads the graph and builds its engine. logger and reg may be nil.
func Open(ctx context.Context, cfg *config.Config, logger logging.Logger, reg *metrics.Registry) (*Session, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	source := cfg.Input
	if cfg.Postgres.DSN != "" {
		source = loader.PostgresSource
	}
	timer := logging.StartTimer(logger, "loading graph", logging.File(source))
	g, err := LoadGraph(ctx, cfg)
	if err != nil {
		timer.EndError(err)
		return nil, err
	}
	timer.End(logging.Int("nodes", g.Len()), logging.Int("edges", g.EdgeCount()))

	return New(cfg, g, logger, reg), nil
}

// New builds a session around an already loaded graph.
func New(cfg *config.Config, g *graph.Graph, logger logging.Logger, reg *metrics.Registry) *Session {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	opts := pathcache.Options{
		ChunkSize:    cfg.ChunkSize,
		Workers:      cfg.Workers,
		ChunkTimeout: cfg.ChunkTimeout,
		Logger:       logger,
		Metrics:      reg,
	}
	return &Session{
		Config:  cfg,
		Graph:   g,
		Engine:  algorithms.NewEngine(g, opts),
		Logger:  logger,
		Metrics: reg,
	}
}

// Warm fills the path cache up front. With a cache file configured it
// restores a matching snapshot, or populates and writes a fresh one when the
// file is missing, stale or unreadable.
func (s *Session) Warm(ctx context.Context) error {
	cache := s.Engine.Cache()
	path := s.Config.CacheFile

	if path != "" {
		err := cache.RestoreFile(path)
		switch {
		case err == nil:
			s.Logger.Info("path cache loaded from snapshot", logging.File(path), logging.Count(cache.Len()))
			return nil
		case errors.Is(err, pathcache.ErrAlreadyPopulated):
			return nil
		case errors.Is(err, os.ErrNotExist):
			s.Logger.Debug("no path cache snapshot yet", logging.File(path))
		case errors.Is(err, pathcache.ErrSnapshotMismatch), errors.Is(err, pathcache.ErrCorruptSnapshot):
			s.Logger.Warn("ignoring path cache snapshot", logging.File(path), logging.Error(err))
		default:
			return err
		}
	}

	start := time.Now()
	if err := s.Engine.Warm(ctx); err != nil {
		return err
	}
	s.Logger.Info("path cache ready", logging.Count(cache.Len()), logging.Latency(time.Since(start)))

	if path != "" {
		if err := cache.SaveFile(path); err != nil {
			return err
		}
		s.Logger.Info("path cache snapshot written", logging.File(path))
	}
	return nil
}
