package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
	"github.com/dd0wney/cluso-chaingraph/pkg/logging"
)

// countingRecorder captures instrumentation calls
type countingRecorder struct {
	mu        sync.Mutex
	ops       map[string]int
	skips     map[string]int
	dropped   map[string]int
	fallbacks map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{
		ops:       make(map[string]int),
		skips:     make(map[string]int),
		dropped:   make(map[string]int),
		fallbacks: make(map[string]int),
	}
}

func (r *countingRecorder) RecordAnalysis(op string, _ time.Duration, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops[op]++
}

func (r *countingRecorder) RecordSkip(metric string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skips[metric]++
}

func (r *countingRecorder) RecordDroppedRecords(kind string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropped[kind] += n
}

func (r *countingRecorder) RecordLayoutFallback(layout string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallbacks[layout]++
}

func nodeRecords(ids ...string) []*graph.Attributes {
	out := make([]*graph.Attributes, len(ids))
	for i, id := range ids {
		out[i] = graph.Attrs("id", id)
	}
	return out
}

func linkRecords(pairs ...[2]string) []*graph.Attributes {
	out := make([]*graph.Attributes, len(pairs))
	for i, p := range pairs {
		out[i] = graph.Attrs("source", p[0], "target", p[1])
	}
	return out
}

// walletAnalyzer builds the five-entity directed network used across tests
func walletAnalyzer(t *testing.T, opts ...Option) *Analyzer {
	t.Helper()
	nodes := nodeRecords("wallet1", "wallet2", "wallet3", "contract1", "contract2")
	links := linkRecords(
		[2]string{"wallet1", "contract1"},
		[2]string{"wallet2", "contract2"},
		[2]string{"contract1", "wallet3"},
		[2]string{"wallet3", "contract2"},
		[2]string{"contract2", "wallet2"},
		[2]string{"wallet1", "wallet3"},
	)
	return New(nodes, links, true, append([]Option{WithLogger(logging.NewNopLogger())}, opts...)...)
}

// trianglesAnalyzer builds two undirected triangles joined by c-d
func trianglesAnalyzer(t *testing.T, opts ...Option) *Analyzer {
	t.Helper()
	nodes := nodeRecords("a", "b", "c", "d", "e", "f")
	links := linkRecords(
		[2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"c", "a"},
		[2]string{"d", "e"}, [2]string{"e", "f"}, [2]string{"f", "d"},
		[2]string{"c", "d"},
	)
	return New(nodes, links, false, append([]Option{WithLogger(logging.NewNopLogger())}, opts...)...)
}

// topLevelKeys returns the keys of a JSON object in document order
func topLevelKeys(t *testing.T, data []byte) []string {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	require.NoError(t, err)
	require.Equal(t, json.Delim('{'), tok)

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		require.NoError(t, err)
		key, ok := tok.(string)
		require.True(t, ok, fmt.Sprintf("expected key, got %v", tok))
		keys = append(keys, key)
		var skip json.RawMessage
		require.NoError(t, dec.Decode(&skip))
	}
	return keys
}

func decodeObject(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}
