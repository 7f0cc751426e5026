package pathcache

import (
	"context"
	"fmt"
	"time"

	"github.com/dd0wney/cluso-centrality/pkg/graph"
	"github.com/dd0wney/cluso-centrality/pkg/logging"
	"github.com/dd0wney/cluso-centrality/pkg/metrics"
	"github.com/dd0wney/cluso-centrality/pkg/parallel"
	"github.com/dd0wney/cluso-centrality/pkg/paths"
)

// shortestPaths is the per-pair search run by chunks.
var shortestPaths = paths.ShortestPaths

// DefaultChunkSize is the number of pairs handed to one worker task.
const DefaultChunkSize = 10_000

// Options configures cache population.
type Options struct {
	ChunkSize    int               // Pairs per task; <= 0 means DefaultChunkSize
	Workers      int               // Pool size; <= 0 means one per CPU
	ChunkTimeout time.Duration     // Deadline per chunk; 0 disables it
	Logger       logging.Logger    // nil means logging.NopLogger
	Metrics      *metrics.Registry // nil disables metrics
}

// DefaultOptions returns the default population settings.
func DefaultOptions() Options {
	return Options{ChunkSize: DefaultChunkSize}
}

func (o Options) normalized() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.Logger == nil {
		o.Logger = logging.NewNopLogger()
	}
	return o
}

// Stats summarises one population run.
type Stats struct {
	Pairs        int           `json:"pairs"`
	Chunks       int           `json:"chunks"`
	Paths        int           `json:"paths"`
	Disconnected int           `json:"disconnected"`
	Duration     time.Duration `json:"duration"`
}

// Pairs enumerates every unordered pair of distinct nodes exactly once, in
// canonical node order.
func Pairs(g *graph.Graph) []paths.Pair {
	nodes := g.Nodes()
	n := len(nodes)
	if n < 2 {
		return nil
	}
	out := make([]paths.Pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out = append(out, paths.Pair{U: nodes[i], V: nodes[j]})
		}
	}
	return out
}

// Chunks splits pairs into consecutive slices of at most size elements.
func Chunks(pairs []paths.Pair, size int) [][]paths.Pair {
	if size <= 0 {
		size = DefaultChunkSize
	}
	chunks := make([][]paths.Pair, 0, (len(pairs)+size-1)/size)
	for i := 0; i < len(pairs); i += size {
		end := i + size
		if end > len(pairs) {
			end = len(pairs)
		}
		chunks = append(chunks, pairs[i:end])
	}
	return chunks
}

// Populate computes the shortest-path set of every pair in g. Chunks run on
// a bounded worker pool, each filling its own result slot; the slots are
// concatenated in chunk order after every task has finished, so the output
// is in canonical pair order whatever the chunk size or worker count. The
// first failing chunk fails the whole run and no partial result is returned.
func Populate(ctx context.Context, g *graph.Graph, opts Options) ([]paths.PathSet, Stats, error) {
	if g == nil {
		return nil, Stats{}, graph.NewError("Populate").Cause(graph.ErrNilGraph).Build()
	}
	opts = opts.normalized()
	start := time.Now()

	pairs := Pairs(g)
	chunks := Chunks(pairs, opts.ChunkSize)
	stats := Stats{Pairs: len(pairs), Chunks: len(chunks)}

	opts.Logger.Info("finding shortest paths",
		logging.Int("pairs", len(pairs)),
		logging.Int("chunks", len(chunks)),
		logging.Int("chunk_size", opts.ChunkSize))

	pool, err := parallel.NewWorkerPool(opts.Workers)
	if err != nil {
		return nil, stats, err
	}

	// The first failing chunk cancels the rest so queued chunks stop at
	// their first pair instead of running to completion.
	ctx, abort := context.WithCancelCause(ctx)
	defer abort(nil)

	results := make([][]paths.PathSet, len(chunks))
	for i, chunk := range chunks {
		i, chunk := i, chunk
		if err := pool.Submit(func() error {
			chunkStart := time.Now()
			buf, err := runChunk(ctx, g, chunk, opts.ChunkTimeout)
			if err != nil {
				err = fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
				abort(err)
				return err
			}
			results[i] = buf
			if opts.Metrics != nil {
				opts.Metrics.RecordChunk(time.Since(chunkStart))
			}
			if opts.Logger.Enabled(logging.DebugLevel) {
				opts.Logger.Debug("chunk finished",
					logging.Chunk(i, len(chunks)),
					logging.Count(len(buf)),
					logging.Latency(time.Since(chunkStart)))
			}
			return nil
		}); err != nil {
			pool.Close()
			return nil, stats, err
		}
	}

	if err := pool.Wait(); err != nil {
		stats.Duration = time.Since(start)
		opts.Logger.Error("populate failed", logging.Error(err), logging.Latency(stats.Duration))
		if opts.Metrics != nil {
			opts.Metrics.RecordPopulate(err, stats.Duration, 0, 0, 0)
		}
		return nil, stats, err
	}

	merged := make([]paths.PathSet, 0, len(pairs))
	for _, buf := range results {
		for _, set := range buf {
			stats.Paths += len(set.Paths)
			if !set.Connected() {
				stats.Disconnected++
			}
		}
		merged = append(merged, buf...)
	}
	stats.Duration = time.Since(start)

	if stats.Disconnected > 0 {
		opts.Logger.Warn("graph is disconnected", logging.Int("disconnected_pairs", stats.Disconnected))
	}
	if opts.Metrics != nil {
		opts.Metrics.RecordPopulate(nil, stats.Duration, stats.Pairs, stats.Paths, stats.Disconnected)
	}
	return merged, stats, nil
}

// runChunk finds the path sets for one chunk into a task-local buffer.
func runChunk(ctx context.Context, g *graph.Graph, chunk []paths.Pair, timeout time.Duration) ([]paths.PathSet, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	buf := make([]paths.PathSet, 0, len(chunk))
	for _, pair := range chunk {
		if ctx.Err() != nil {
			return nil, context.Cause(ctx)
		}
		set, err := shortestPaths(g, pair.U, pair.V)
		if err != nil {
			return nil, err
		}
		buf = append(buf, set)
	}
	return buf, nil
}
