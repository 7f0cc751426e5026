package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dd0wney/cluso-centrality/pkg/graph"
)

// PostgresSource is the Source reported in errors from database loads.
const PostgresSource = "postgres"

// Querier is the part of a pgx connection or pool used to read edges.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ReadEdges runs query, which must yield (source, target) text columns, and
// builds the undirected graph of the returned rows.
func ReadEdges(ctx context.Context, q Querier, query string, args ...any) (*graph.Graph, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query edges: %w", err)
	}
	defer rows.Close()

	b := graph.NewBuilder()
	row := 0
	for rows.Next() {
		row++
		var src, dst *string
		if err := rows.Scan(&src, &dst); err != nil {
			return nil, malformed(PostgresSource, row, "scan: %v", err)
		}
		if src == nil || dst == nil || *src == "" || *dst == "" {
			return nil, malformed(PostgresSource, row, "edge endpoint is null or empty")
		}
		b.AddEdge(graph.NodeID(*src), graph.NodeID(*dst))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read edges: %w", err)
	}
	return b.Build(), nil
}

// LoadPostgres connects to dsn, reads the edge query and disconnects.
func LoadPostgres(ctx context.Context, dsn, query string) (*graph.Graph, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	config.MaxConns = 2
	config.MaxConnLifetime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return ReadEdges(ctx, pool, query)
}
