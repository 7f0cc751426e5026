// Package pathcache stores the shortest-path set of every node pair of one
// graph. A Cache is populated at most once, either by running the pair
// scheduler or by restoring a snapshot, and is read-only afterwards, so
// readers need no locking once Populated reports true.
package pathcache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/dd0wney/cluso-centrality/pkg/graph"
	"github.com/dd0wney/cluso-centrality/pkg/logging"
	"github.com/dd0wney/cluso-centrality/pkg/paths"
)

// ErrNotPopulated is returned by operations that need a populated cache.
var ErrNotPopulated = errors.New("path cache is not populated")

// ErrAlreadyPopulated is returned when restoring into a populated cache.
var ErrAlreadyPopulated = errors.New("path cache is already populated")

const populateKey = "populate"

// Cache is the write-once path store bound to a single graph.
type Cache struct {
	g     *graph.Graph
	opts  Options
	group  singleflight.Group
	runMu  sync.Mutex
	run    *populateRun // guarded by runMu
	fillMu sync.Mutex   // serialises populate and restore
	ready  atomic.Bool

	// Written once before ready is set; immutable afterwards.
	sets     []paths.PathSet
	index    map[paths.Pair]int
	incident [][]int // per canonical node index, positions in sets
	runID    string
	stats    Stats
}

// New returns an empty cache for g.
func New(g *graph.Graph, opts Options) *Cache {
	return &Cache{g: g, opts: opts.normalized()}
}

// Build creates a cache for g and populates it.
func Build(ctx context.Context, g *graph.Graph, opts Options) (*Cache, error) {
	c := New(g, opts)
	if err := c.Populate(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Graph returns the graph the cache belongs to.
func (c *Cache) Graph() *graph.Graph {
	return c.g
}

// Populated reports whether the cache is complete.
func (c *Cache) Populated() bool {
	return c.ready.Load()
}

// Populate fills the cache. Calling it on a populated cache is a no-op, and
// concurrent callers share a single run. A failed run leaves the cache
// empty, so a later call starts over.
//
// The shared run keeps the values of the context that started it but not
// its cancellation. Each caller stops waiting when its own ctx is done and
// gets ctx.Err(); the run itself is cancelled only once every caller waiting
// on it has gone.
func (c *Cache) Populate(ctx context.Context) error {
	if c.ready.Load() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r, ch := c.join(ctx)
	select {
	case res := <-ch:
		c.leave(r)
		return res.Err
	case <-ctx.Done():
		c.leave(r)
		return ctx.Err()
	}
}

// populateRun is one in-flight population and the callers waiting on it.
type populateRun struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// join attaches the caller to the in-flight run, starting one if there is
// none. c.run and the group's in-flight call are set and cleared together
// under runMu.
func (c *Cache) join(ctx context.Context) (*populateRun, <-chan singleflight.Result) {
	c.runMu.Lock()
	defer c.runMu.Unlock()

	r := c.run
	if r == nil {
		runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		r = &populateRun{ctx: runCtx, cancel: cancel}
		c.run = r
	}
	r.waiters++
	ch := c.group.DoChan(populateKey, func() (any, error) {
		defer r.cancel()
		defer c.detach(r)
		return nil, c.fill(r.ctx)
	})
	return r, ch
}

// leave drops one waiter. The last one out abandons the run, so a later
// Populate starts a fresh one instead of joining a cancelled run.
func (c *Cache) leave(r *populateRun) {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	r.waiters--
	if r.waiters == 0 {
		c.detachLocked(r)
		r.cancel()
	}
}

func (c *Cache) detach(r *populateRun) {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	c.detachLocked(r)
}

func (c *Cache) detachLocked(r *populateRun) {
	if c.run == r {
		c.run = nil
		c.group.Forget(populateKey)
	}
}

// fill runs the scheduler and installs its result.
func (c *Cache) fill(ctx context.Context) error {
	c.fillMu.Lock()
	defer c.fillMu.Unlock()
	if c.ready.Load() {
		return nil
	}

	runID := uuid.NewString()
	log := c.opts.Logger.With(logging.Component("pathcache"), logging.RunID(runID))
	opts := c.opts
	opts.Logger = log

	sets, stats, err := Populate(ctx, c.g, opts)
	if err != nil {
		return err
	}
	c.install(sets, runID, stats)
	log.Info("shortest paths found",
		logging.Int("pairs", stats.Pairs),
		logging.Int("paths", stats.Paths),
		logging.Latency(stats.Duration))
	return nil
}

// install publishes a complete result. Callers hold c.fillMu.
func (c *Cache) install(sets []paths.PathSet, runID string, stats Stats) {
	index := make(map[paths.Pair]int, len(sets))
	incident := make([][]int, c.g.Len())
	for i, set := range sets {
		index[set.Pair()] = i
		if u := c.g.Index(set.Source); u >= 0 {
			incident[u] = append(incident[u], i)
		}
		if v := c.g.Index(set.Target); v >= 0 {
			incident[v] = append(incident[v], i)
		}
	}

	c.sets = sets
	c.index = index
	c.incident = incident
	c.runID = runID
	c.stats = stats
	c.ready.Store(true)
}

// Len returns the number of stored path sets.
func (c *Cache) Len() int {
	if !c.ready.Load() {
		return 0
	}
	return len(c.sets)
}

// Sets returns every path set in canonical pair order, or nil before
// population. The slice is shared and must not be modified.
func (c *Cache) Sets() []paths.PathSet {
	if !c.ready.Load() {
		return nil
	}
	return c.sets
}

// Incident returns the path sets that have id as an endpoint, in canonical
// pair order.
func (c *Cache) Incident(id graph.NodeID) []paths.PathSet {
	if !c.ready.Load() {
		return nil
	}
	i := c.g.Index(id)
	if i < 0 {
		return nil
	}
	out := make([]paths.PathSet, len(c.incident[i]))
	for k, pos := range c.incident[i] {
		out[k] = c.sets[pos]
	}
	return out
}

// Lookup returns the path set between a and b with paths oriented from a.
func (c *Cache) Lookup(a, b graph.NodeID) (paths.PathSet, error) {
	if !c.ready.Load() {
		return paths.PathSet{}, ErrNotPopulated
	}
	if !c.g.HasNode(a) {
		return paths.PathSet{}, graph.InvalidNode("Lookup", a)
	}
	if !c.g.HasNode(b) {
		return paths.PathSet{}, graph.InvalidNode("Lookup", b)
	}
	if a == b {
		return paths.PathSet{Source: a, Target: b, Paths: []paths.Path{{a}}}, nil
	}

	set := c.sets[c.index[paths.NewPair(a, b)]]
	return paths.PathSet{
		Source:   a,
		Target:   b,
		Distance: set.Distance,
		Paths:    set.From(a),
	}, nil
}

// RunID identifies the population run (or restored snapshot) that filled
// the cache.
func (c *Cache) RunID() string {
	if !c.ready.Load() {
		return ""
	}
	return c.runID
}

// Stats returns the statistics of the run that filled the cache.
func (c *Cache) Stats() Stats {
	if !c.ready.Load() {
		return Stats{}
	}
	return c.stats
}
