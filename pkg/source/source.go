// Package source fetches node and link snapshots from files, PostgreSQL,
// S3 or a synthetic generator. Every source returns records in the shape
// the analysis package consumes: nodes keyed by "id", links keyed by
// "source" and "target".
package source

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
)

// ErrNotFound is returned when the configured snapshot does not exist
var ErrNotFound = errors.New("snapshot not found")

// Record keys written by every source
const (
	KeyType      = "type"
	KeySubtype   = "subtype"
	KeyRiskScore = "risk_score"
	KeyChain     = "chain"
	KeyValue     = "value"
	KeyTxHash    = "tx_hash"
	KeyTimestamp = "timestamp"
)

// Node and link types
const (
	TypeWallet      = "wallet"
	TypeContract    = "contract"
	TypeTransaction = "transaction"
	TypeInteraction = "interaction"
)

// Query narrows the links of a snapshot. Nodes are always returned in full.
type Query struct {
	// Limit caps the number of links; zero or negative means no cap
	Limit int
	// Start and End bound link timestamps, inclusive
	Start, End *time.Time
	Chain      string
	MinValue   float64
	// Addresses keeps links touching any of these node ids
	Addresses []string
}

// Snapshot is one fetched network
type Snapshot struct {
	ID        string              `json:"id"`
	Source    string              `json:"source"`
	FetchedAt time.Time           `json:"fetched_at"`
	Nodes     []*graph.Attributes `json:"nodes"`
	Edges     []*graph.Attributes `json:"links"`
}

// Empty reports whether the snapshot lacks nodes or links
func (s *Snapshot) Empty() bool {
	return len(s.Nodes) == 0 || len(s.Edges) == 0
}

func newSnapshot(kind string, nodes, edges []*graph.Attributes) *Snapshot {
	if nodes == nil {
		nodes = []*graph.Attributes{}
	}
	if edges == nil {
		edges = []*graph.Attributes{}
	}
	return &Snapshot{
		ID:        uuid.NewString(),
		Source:    kind,
		FetchedAt: time.Now().UTC(),
		Nodes:     nodes,
		Edges:     edges,
	}
}

// Source produces snapshots
type Source interface {
	// Kind names the backend, e.g. "file" or "postgres"
	Kind() string
	Snapshot(ctx context.Context, q Query) (*Snapshot, error)
	Ping(ctx context.Context) error
	Close() error
}
