package pathcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-centrality/pkg/logging"
	"github.com/dd0wney/cluso-centrality/pkg/paths"
)

// Snapshot errors
var (
	ErrSnapshotMismatch = errors.New("snapshot was built from a different graph")
	ErrCorruptSnapshot  = errors.New("snapshot is corrupt")
)

const snapshotVersion = 1

type snapshot struct {
	Version     int             `json:"version"`
	Fingerprint string          `json:"fingerprint"`
	RunID       string          `json:"run_id"`
	CreatedAt   time.Time       `json:"created_at"`
	Stats       Stats           `json:"stats"`
	Sets        []paths.PathSet `json:"sets"`
}

// Save writes the populated cache as snappy-framed JSON.
func (c *Cache) Save(w io.Writer) error {
	if !c.ready.Load() {
		return ErrNotPopulated
	}

	sw := snappy.NewBufferedWriter(w)
	if err := json.NewEncoder(sw).Encode(snapshot{
		Version:     snapshotVersion,
		Fingerprint: c.g.Fingerprint(),
		RunID:       c.runID,
		CreatedAt:   time.Now().UTC(),
		Stats:       c.stats,
		Sets:        c.sets,
	}); err != nil {
		sw.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return sw.Close()
}

// Restore fills an empty cache from a snapshot written by Save. The
// snapshot must match the cache's graph and cover every pair exactly once.
func (c *Cache) Restore(r io.Reader) error {
	if c.ready.Load() {
		return ErrAlreadyPopulated
	}
	c.fillMu.Lock()
	defer c.fillMu.Unlock()
	if c.ready.Load() {
		return ErrAlreadyPopulated
	}

	var snap snapshot
	if err := json.NewDecoder(snappy.NewReader(r)).Decode(&snap); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("%w: version %d", ErrCorruptSnapshot, snap.Version)
	}
	if snap.Fingerprint != c.g.Fingerprint() {
		return ErrSnapshotMismatch
	}
	if err := c.verify(snap.Sets); err != nil {
		return err
	}

	c.install(snap.Sets, snap.RunID, snap.Stats)
	c.opts.Logger.Info("path cache restored",
		logging.Component("pathcache"),
		logging.RunID(snap.RunID),
		logging.Int("pairs", len(snap.Sets)))
	return nil
}

// verify checks that sets are exactly the canonical pairs of the graph, in
// order, with internally consistent paths.
func (c *Cache) verify(sets []paths.PathSet) error {
	want := Pairs(c.g)
	if len(sets) != len(want) {
		return fmt.Errorf("%w: %d path sets for %d pairs", ErrCorruptSnapshot, len(sets), len(want))
	}
	for i, set := range sets {
		if set.Source != want[i].U || set.Target != want[i].V {
			return fmt.Errorf("%w: entry %d is %s-%s, want %s-%s",
				ErrCorruptSnapshot, i, set.Source, set.Target, want[i].U, want[i].V)
		}
		if !set.Connected() {
			if set.Distance != -1 {
				return fmt.Errorf("%w: empty set %s-%s has distance %d", ErrCorruptSnapshot, set.Source, set.Target, set.Distance)
			}
			continue
		}
		for _, p := range set.Paths {
			if p.Len() != set.Distance || p[0] != set.Source || p[len(p)-1] != set.Target {
				return fmt.Errorf("%w: bad path %v in %s-%s", ErrCorruptSnapshot, p, set.Source, set.Target)
			}
			for k := 1; k < len(p); k++ {
				if !c.g.HasEdge(p[k-1], p[k]) {
					return fmt.Errorf("%w: %s-%s is not an edge", ErrCorruptSnapshot, p[k-1], p[k])
				}
			}
		}
	}
	return nil
}

// SaveFile writes a snapshot to path, replacing it atomically.
func (c *Cache) SaveFile(path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := c.Save(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// RestoreFile restores a snapshot from path.
func (c *Cache) RestoreFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return c.Restore(f)
}
