package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
)

// PostgresSource reads wallets, contracts and transactions tables
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource connects to databaseURL and verifies the connection
func NewPostgresSource(ctx context.Context, databaseURL string) (*PostgresSource, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 1
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return &PostgresSource{pool: pool}, nil
}

// Kind implements Source
func (s *PostgresSource) Kind() string { return "postgres" }

// Ping checks database connectivity
func (s *PostgresSource) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the database connection pool
func (s *PostgresSource) Close() error {
	s.pool.Close()
	return nil
}

const nodesQuery = `
	SELECT address, 'wallet' AS kind, wallet_type, risk_score, chain FROM wallets
	UNION ALL
	SELECT address, 'contract' AS kind, contract_type, risk_score, chain FROM contracts
	ORDER BY kind DESC, address
`

// Snapshot implements Source
func (s *PostgresSource) Snapshot(ctx context.Context, q Query) (*Snapshot, error) {
	nodes, err := s.nodes(ctx)
	if err != nil {
		return nil, err
	}
	edges, err := s.edges(ctx, q)
	if err != nil {
		return nil, err
	}
	return newSnapshot(s.Kind(), nodes, edges), nil
}

func (s *PostgresSource) nodes(ctx context.Context) ([]*graph.Attributes, error) {
	rows, err := s.pool.Query(ctx, nodesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	nodes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*graph.Attributes, error) {
		var r nodeRow
		if err := row.Scan(&r.Address, &r.Kind, &r.Subtype, &r.RiskScore, &r.Chain); err != nil {
			return nil, err
		}
		return r.attributes(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan nodes: %w", err)
	}
	return nodes, nil
}

func (s *PostgresSource) edges(ctx context.Context, q Query) ([]*graph.Attributes, error) {
	query, args := edgesQuery(q)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	edges, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*graph.Attributes, error) {
		var r edgeRow
		if err := row.Scan(&r.Hash, &r.From, &r.To, &r.Kind, &r.Value, &r.Chain, &r.Timestamp); err != nil {
			return nil, err
		}
		return r.attributes(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions: %w", err)
	}
	return edges, nil
}

// edgesQuery renders the transaction query for q. Contract creations have
// no recipient and are never returned.
func edgesQuery(q Query) (string, []any) {
	var (
		conds = []string{"to_address IS NOT NULL"}
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if q.Start != nil {
		conds = append(conds, "timestamp >= "+arg(*q.Start))
	}
	if q.End != nil {
		conds = append(conds, "timestamp <= "+arg(*q.End))
	}
	if q.Chain != "" {
		conds = append(conds, "chain = "+arg(q.Chain))
	}
	if q.MinValue > 0 {
		conds = append(conds, "value >= "+arg(q.MinValue))
	}
	if len(q.Addresses) > 0 {
		p := arg(q.Addresses)
		conds = append(conds, fmt.Sprintf("(from_address = ANY(%s) OR to_address = ANY(%s))", p, p))
	}

	var b strings.Builder
	b.WriteString("SELECT hash, from_address, to_address, tx_type, value::float8, chain, timestamp FROM transactions")
	b.WriteString(" WHERE ")
	b.WriteString(strings.Join(conds, " AND "))
	b.WriteString(" ORDER BY timestamp, hash")
	if q.Limit > 0 {
		b.WriteString(" LIMIT " + arg(q.Limit))
	}
	return b.String(), args
}

type nodeRow struct {
	Address   string
	Kind      string
	Subtype   *string
	RiskScore *float64
	Chain     *string
}

func (r nodeRow) attributes() *graph.Attributes {
	a := graph.Attrs(graph.KeyID, r.Address, KeyType, r.Kind)
	if r.Subtype != nil {
		a.Set(KeySubtype, graph.StringValue(*r.Subtype))
	}
	if r.RiskScore != nil {
		a.Set(KeyRiskScore, graph.FloatValue(*r.RiskScore))
	}
	if r.Chain != nil {
		a.Set(KeyChain, graph.StringValue(*r.Chain))
	}
	return a
}

type edgeRow struct {
	Hash      string
	From      string
	To        string
	Kind      *string
	Value     *float64
	Chain     *string
	Timestamp time.Time
}

func (r edgeRow) attributes() *graph.Attributes {
	kind := TypeTransaction
	if r.Kind != nil && *r.Kind != "" {
		kind = *r.Kind
	}
	a := graph.Attrs(
		graph.KeySource, r.From,
		graph.KeyTarget, r.To,
		KeyType, kind,
		KeyTxHash, r.Hash,
	)
	if r.Value != nil {
		a.Set(KeyValue, graph.FloatValue(*r.Value))
	}
	if r.Chain != nil {
		a.Set(KeyChain, graph.StringValue(*r.Chain))
	}
	a.Set(KeyTimestamp, graph.StringValue(r.Timestamp.UTC().Format(time.RFC3339)))
	return a
}
