package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dd0wney/cluso-centrality/pkg/config"
	"github.com/dd0wney/cluso-centrality/pkg/logging"
	"github.com/dd0wney/cluso-centrality/pkg/metrics"
	"github.com/dd0wney/cluso-centrality/pkg/server"
	"github.com/dd0wney/cluso-centrality/pkg/session"
)

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	plain := fs.Bool("plain", false, "Print fixed-width tables instead of styled ones")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [flags] <graph.txt|graph.json>\n\n", os.Args[0])
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	// A bare positional argument names the input file.
	if fs.NArg() > 0 {
		_ = fs.Set("input", fs.Arg(0))
	}

	cfg, err := flags.Resolve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n\n", err)
		fs.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdin, os.Stdout, *plain); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, plain bool) error {
	logger := logging.NewJSONLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel))
	reg := metrics.NewRegistry()
	started := time.Now()

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", reg.Handler())
		srv := server.NewGracefulServer(cfg.MetricsAddr, mux, logger)
		if err := srv.Listen(); err != nil {
			return fmt.Errorf("metrics listener: %w", err)
		}
		go func() {
			if err := srv.Serve(ctx); err != nil {
				logger.Error("metrics server stopped", logging.Error(err))
			}
		}()
		defer srv.Shutdown(server.DefaultShutdownTimeout)
		fmt.Fprintf(out, "📈 Metrics on http://%s/metrics\n", srv.Addr())
	}

	s, err := session.Open(ctx, cfg, logger, reg)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "✅ Graph loaded: %d nodes, %d edges\n", s.Graph.Len(), s.Graph.EdgeCount())

	fmt.Fprintln(out, "Finding shortest paths...")
	if err := s.Warm(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "Shortest paths found")
	reg.UpdateSystemMetrics(started)

	m := &menu{
		session: s,
		scanner: bufio.NewScanner(in),
		out:     out,
		plain:   plain,
	}
	return m.run(ctx)
}
