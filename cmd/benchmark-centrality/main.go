package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"runtime"
	"strconv"
	"time"

	"github.com/dd0wney/cluso-centrality/pkg/algorithms"
	"github.com/dd0wney/cluso-centrality/pkg/graph"
	"github.com/dd0wney/cluso-centrality/pkg/pathcache"
	"github.com/dd0wney/cluso-centrality/pkg/report"
)

type run struct {
	chunkSize int
	workers   int
	populate  time.Duration
	measure   time.Duration
}

func main() {
	nodes := flag.Int("nodes", 300, "Number of nodes to create")
	edges := flag.Int("edges", 900, "Number of edges to create (at least nodes-1)")
	seed := flag.Int64("seed", 1, "Random seed for graph generation")
	flag.Parse()

	if *nodes < 2 {
		log.Fatalf("need at least 2 nodes, got %d", *nodes)
	}

	fmt.Printf("🔥 Cluso Centrality - Path Cache Benchmark\n")
	fmt.Printf("==========================================\n\n")
	fmt.Printf("Configuration:\n")
	fmt.Printf("  Nodes: %d\n", *nodes)
	fmt.Printf("  Edges: %d\n", *edges)
	fmt.Printf("  Seed:  %d\n", *seed)
	fmt.Printf("  CPUs:  %d\n\n", runtime.NumCPU())

	fmt.Printf("📝 Building random connected graph...\n")
	start := time.Now()
	g := randomConnected(*nodes, *edges, rand.New(rand.NewSource(*seed)))
	fmt.Printf("✅ Built %d nodes, %d edges in %v\n", g.Len(), g.EdgeCount(), time.Since(start))

	ctx := context.Background()
	pairs := g.Len() * (g.Len() - 1) / 2
	chunkSizes := []int{pairs, max(pairs/16, 1), max(pairs/256, 1)}
	workerCounts := []int{1, runtime.NumCPU()}

	var baseline algorithms.Scores
	var runs []run

	for _, chunkSize := range chunkSizes {
		for _, workers := range workerCounts {
			fmt.Printf("\n📊 Chunk size %d, %d worker(s)\n", chunkSize, workers)
			engine := algorithms.NewEngine(g, pathcache.Options{ChunkSize: chunkSize, Workers: workers})

			start = time.Now()
			if err := engine.Warm(ctx); err != nil {
				log.Fatalf("Populate failed: %v", err)
			}
			populate := time.Since(start)
			st := engine.Cache().Stats()
			fmt.Printf("✅ Populated %d pairs in %d chunk(s), %d paths, in %v\n", st.Pairs, st.Chunks, st.Paths, populate)

			start = time.Now()
			scores, err := engine.Betweenness(ctx)
			if err != nil {
				log.Fatalf("Betweenness failed: %v", err)
			}
			measure := time.Since(start)
			fmt.Printf("✅ Betweenness completed in %v\n", measure)

			if baseline == nil {
				baseline = scores
			} else if node, ok := firstDifference(baseline, scores); !ok {
				log.Fatalf("Betweenness of node %s differs between runs: %v vs %v", node, baseline[node], scores[node])
			}
			runs = append(runs, run{chunkSize: chunkSize, workers: workers, populate: populate, measure: measure})
		}
	}

	fmt.Printf("\n🏆 Top 5 nodes by Betweenness:\n")
	for _, e := range report.Top(baseline, 5, g) {
		fmt.Printf("    %d. Node %s (score: %s)\n", e.Index, e.Label, report.FormatScore(e.Score))
	}

	fmt.Printf("\n🎯 Summary\n")
	fmt.Printf("==========\n")
	fmt.Printf("%-12s %-8s %-14s %-14s\n", "Chunk", "Workers", "Populate", "Betweenness")
	for _, r := range runs {
		fmt.Printf("%-12d %-8d %-14v %-14v\n", r.chunkSize, r.workers, r.populate.Round(time.Microsecond), r.measure.Round(time.Microsecond))
	}
	fmt.Printf("\n✅ Betweenness identical across all %d runs\n", len(runs))
}

// randomConnected links every node to a random earlier one, then adds random
// extra edges until the requested count is reached or the graph is complete.
func randomConnected(n, edges int, rng *rand.Rand) *graph.Graph {
	id := func(i int) graph.NodeID { return graph.NodeID(strconv.Itoa(i + 1)) }

	b := graph.NewBuilder()
	seen := make(map[[2]int]bool)
	link := func(u, v int) bool {
		if u > v {
			u, v = v, u
		}
		if u == v || seen[[2]int{u, v}] {
			return false
		}
		seen[[2]int{u, v}] = true
		b.AddEdge(id(u), id(v))
		return true
	}

	for i := 1; i < n; i++ {
		link(i, rng.Intn(i))
	}

	limit := min(edges, n*(n-1)/2)
	for len(seen) < limit {
		link(rng.Intn(n), rng.Intn(n))
	}
	return b.Build()
}

func firstDifference(want, got algorithms.Scores) (graph.NodeID, bool) {
	for node, score := range want {
		if got[node] != score {
			return node, false
		}
	}
	return "", true
}
