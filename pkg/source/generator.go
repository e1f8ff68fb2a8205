package source

import (
	"context"
	"encoding/hex"
	"math"
	"math/rand/v2"
	"time"

	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
)

// GeneratorOptions sizes a synthetic network
type GeneratorOptions struct {
	Wallets      int
	Contracts    int
	Transactions int
	Seed         int64
	Chain        string
	// Start is the earliest transaction time; zero means 30 days ago
	Start time.Time
	// Span is the time range transactions are spread over
	Span time.Duration
}

var (
	walletSubtypes   = []string{"EOA", "exchange", "miner", "mixer"}
	contractSubtypes = []string{"token", "defi", "nft", "bridge"}
)

// Generator produces a deterministic synthetic blockchain network: the
// same options always yield the same records
type Generator struct {
	opts GeneratorOptions
}

// NewGenerator fills unset options with defaults
func NewGenerator(opts GeneratorOptions) *Generator {
	if opts.Wallets <= 0 {
		opts.Wallets = 50
	}
	if opts.Contracts < 0 {
		opts.Contracts = 0
	}
	if opts.Transactions < 0 {
		opts.Transactions = 0
	}
	if opts.Chain == "" {
		opts.Chain = "ethereum"
	}
	if opts.Span <= 0 {
		opts.Span = 30 * 24 * time.Hour
	}
	if opts.Start.IsZero() {
		opts.Start = time.Now().UTC().Add(-opts.Span).Truncate(time.Hour)
	}
	return &Generator{opts: opts}
}

// Kind implements Source
func (g *Generator) Kind() string { return "synthetic" }

// Snapshot implements Source
func (g *Generator) Snapshot(ctx context.Context, q Query) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc := g.Document()
	return newSnapshot(g.Kind(), doc.Nodes, Filter(doc.Links, q)), nil
}

// Ping implements Source
func (g *Generator) Ping(ctx context.Context) error { return ctx.Err() }

// Close implements Source
func (g *Generator) Close() error { return nil }

// Document generates the full network. Wallet-to-wallet links are
// transactions carrying a value; wallet-to-contract links are interactions.
// Transactions are emitted in timestamp order and never form self-loops.
func (g *Generator) Document() *Document {
	o := g.opts
	rng := rand.New(rand.NewPCG(uint64(o.Seed), uint64(o.Seed)^0x9e3779b97f4a7c15))

	wallets := make([]string, o.Wallets)
	contracts := make([]string, o.Contracts)
	nodes := make([]*graph.Attributes, 0, o.Wallets+o.Contracts)
	for i := range wallets {
		wallets[i] = address(rng)
		nodes = append(nodes, graph.Attrs(
			graph.KeyID, wallets[i],
			KeyType, TypeWallet,
			KeySubtype, walletSubtypes[rng.IntN(len(walletSubtypes))],
			KeyRiskScore, round2(rng.Float64()*100),
			KeyChain, o.Chain,
		))
	}
	for i := range contracts {
		contracts[i] = address(rng)
		nodes = append(nodes, graph.Attrs(
			graph.KeyID, contracts[i],
			KeyType, TypeContract,
			KeySubtype, contractSubtypes[rng.IntN(len(contractSubtypes))],
			KeyRiskScore, round2(rng.Float64()*100),
			KeyChain, o.Chain,
		))
	}

	links := make([]*graph.Attributes, 0, o.Transactions)
	if o.Transactions == 0 || (len(wallets) < 2 && len(contracts) == 0) {
		return &Document{Nodes: nodes, Links: links}
	}

	step := o.Span / time.Duration(o.Transactions)
	for i := 0; i < o.Transactions; i++ {
		from := wallets[rng.IntN(len(wallets))]
		ts := o.Start.Add(time.Duration(i)*step + time.Duration(rng.Int64N(int64(max(step, 1)))))

		var link *graph.Attributes
		if len(contracts) > 0 && (len(wallets) < 2 || rng.IntN(4) == 0) {
			link = graph.Attrs(
				graph.KeySource, from,
				graph.KeyTarget, contracts[rng.IntN(len(contracts))],
				KeyType, TypeInteraction,
				"relationship", "call",
			)
		} else {
			to := from
			for to == from {
				to = wallets[rng.IntN(len(wallets))]
			}
			link = graph.Attrs(
				graph.KeySource, from,
				graph.KeyTarget, to,
				KeyType, TypeTransaction,
				KeyValue, round2(math.Exp(rng.NormFloat64()*2)),
			)
		}
		link.Set(KeyTxHash, graph.StringValue(txHash(rng)))
		link.Set(KeyChain, graph.StringValue(o.Chain))
		link.Set(KeyTimestamp, graph.StringValue(ts.UTC().Format(time.RFC3339)))
		links = append(links, link)
	}
	return &Document{Nodes: nodes, Links: links}
}

func address(rng *rand.Rand) string {
	var b [20]byte
	fill(rng, b[:])
	return "0x" + hex.EncodeToString(b[:])
}

func txHash(rng *rand.Rand) string {
	var b [32]byte
	fill(rng, b[:])
	return "0x" + hex.EncodeToString(b[:])
}

func fill(rng *rand.Rand, b []byte) {
	for i := range b {
		b[i] = byte(rng.UintN(256))
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
