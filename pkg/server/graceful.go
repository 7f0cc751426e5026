// Package server runs the side HTTP endpoint (Prometheus metrics) next to
// the interactive drivers and stops it cleanly when the session ends.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/dd0wney/cluso-centrality/pkg/logging"
)

// DefaultShutdownTimeout bounds how long Serve waits for in-flight scrapes.
const DefaultShutdownTimeout = 5 * time.Second

// GracefulServer wraps an HTTP server with context-driven shutdown.
type GracefulServer struct {
	server       *http.Server
	logger       logging.Logger
	listener     net.Listener
	shutdownCh   chan struct{}
	shutdownOnce sync.Once
}

// NewGracefulServer creates a server for handler on addr.
func NewGracefulServer(addr string, handler http.Handler, logger logging.Logger) *GracefulServer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &GracefulServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
		logger:     logger.With(logging.Component("server")),
		shutdownCh: make(chan struct{}),
	}
}

// Listen binds the address so Addr is known before Serve runs.
func (gs *GracefulServer) Listen() error {
	ln, err := net.Listen("tcp", gs.server.Addr)
	if err != nil {
		return err
	}
	gs.listener = ln
	return nil
}

// Addr returns the bound address, or the configured one before Listen.
func (gs *GracefulServer) Addr() string {
	if gs.listener != nil {
		return gs.listener.Addr().String()
	}
	return gs.server.Addr
}

// Serve handles requests until ctx is cancelled, then shuts down.
func (gs *GracefulServer) Serve(ctx context.Context) error {
	if gs.listener == nil {
		if err := gs.Listen(); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		gs.logger.Info("starting HTTP server", logging.String("addr", gs.Addr()))
		errCh <- gs.server.Serve(gs.listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		return gs.Shutdown(DefaultShutdownTimeout)
	}
}

// Shutdown initiates a graceful shutdown
func (gs *GracefulServer) Shutdown(timeout time.Duration) error {
	var err error
	gs.shutdownOnce.Do(func() {
		close(gs.shutdownCh)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if shutdownErr := gs.server.Shutdown(ctx); shutdownErr != nil {
			err = shutdownErr
			gs.logger.Error("error during shutdown", logging.Error(shutdownErr))
		} else {
			gs.logger.Info("server shutdown complete")
		}
	})
	return err
}

// IsShuttingDown returns true if shutdown has been initiated
func (gs *GracefulServer) IsShuttingDown() bool {
	select {
	case <-gs.shutdownCh:
		return true
	default:
		return false
	}
}
