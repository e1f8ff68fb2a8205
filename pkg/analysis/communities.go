package analysis

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dd0wney/cluso-chaingraph/pkg/algorithms"
	"github.com/dd0wney/cluso-chaingraph/pkg/graph"
	"github.com/dd0wney/cluso-chaingraph/pkg/logging"
)

// Community detection algorithm names
const (
	AlgorithmLouvain          = "louvain"
	AlgorithmGreedy           = "greedy"
	AlgorithmLabelPropagation = "label_propagation"
	AlgorithmGirvanNewman     = "girvan_newman"
)

// ErrUnknownAlgorithm is returned for community algorithm names with no strategy
var ErrUnknownAlgorithm = errors.New("unknown community algorithm")

// CommunityDetector partitions the nodes of an undirected graph
type CommunityDetector func(g *graph.Graph) *algorithms.CommunityDetectionResult

// CommunityRegistry maps algorithm names to detectors. An alias resolves
// to another registered name, which is then reported as the algorithm.
type CommunityRegistry struct {
	detectors map[string]CommunityDetector
	aliases   map[string]string
}

// NewCommunityRegistry registers the built-in detectors. When louvain is
// disabled the name resolves to greedy.
func NewCommunityRegistry(louvain bool) *CommunityRegistry {
	r := &CommunityRegistry{
		detectors: make(map[string]CommunityDetector),
		aliases:   make(map[string]string),
	}
	r.Register(AlgorithmGreedy, algorithms.GreedyModularityCommunities)
	r.Register(AlgorithmLabelPropagation, algorithms.LabelPropagation)
	r.Register(AlgorithmGirvanNewman, algorithms.GirvanNewmanFirstSplit)
	if louvain {
		r.Register(AlgorithmLouvain, func(g *graph.Graph) *algorithms.CommunityDetectionResult {
			return algorithms.LouvainCommunities(g, algorithms.DefaultLouvainOptions())
		})
	} else {
		r.Alias(AlgorithmLouvain, AlgorithmGreedy)
	}
	return r
}

var defaultRegistry = NewCommunityRegistry(true)

// DefaultCommunityRegistry returns the registry with every detector enabled
func DefaultCommunityRegistry() *CommunityRegistry { return defaultRegistry }

// Register adds or replaces a detector
func (r *CommunityRegistry) Register(name string, d CommunityDetector) {
	name = strings.ToLower(name)
	delete(r.aliases, name)
	r.detectors[name] = d
}

// Alias makes name resolve to target
func (r *CommunityRegistry) Alias(name, target string) {
	name = strings.ToLower(name)
	delete(r.detectors, name)
	r.aliases[name] = strings.ToLower(target)
}

// Resolve returns the canonical name and detector for name (case-insensitive)
func (r *CommunityRegistry) Resolve(name string) (string, CommunityDetector, bool) {
	name = strings.ToLower(name)
	if target, ok := r.aliases[name]; ok {
		name = target
	}
	d, ok := r.detectors[name]
	return name, d, ok
}

// Names lists every accepted name, aliases included
func (r *CommunityRegistry) Names() []string {
	names := make([]string, 0, len(r.detectors)+len(r.aliases))
	for name := range r.detectors {
		names = append(names, name)
	}
	for name := range r.aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CommunityResult is the outcome of community detection. Err is set when
// detection failed as a whole; Communities is then empty.
type CommunityResult struct {
	Algorithm   string
	Communities [][]string
	Modularity  Outcome[float64]
	Err         error
}

// CommunityCount returns the number of communities
func (r *CommunityResult) CommunityCount() int { return len(r.Communities) }

// Sizes returns the size of every community
func (r *CommunityResult) Sizes() []int {
	sizes := make([]int, len(r.Communities))
	for i, c := range r.Communities {
		sizes[i] = len(c)
	}
	return sizes
}

// Assignment maps every node id to the index of its community
func (r *CommunityResult) Assignment() map[string]int {
	out := make(map[string]int)
	for i, c := range r.Communities {
		for _, id := range c {
			out[id] = i
		}
	}
	return out
}

// MarshalJSON writes the result, or the error form when detection failed
func (r *CommunityResult) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	w.field("community_count", r.CommunityCount())
	communities := r.Communities
	if communities == nil {
		communities = [][]string{}
	}
	w.field("communities", communities)
	w.field("algorithm", r.Algorithm)
	w.field("modularity", r.Modularity)
	if r.Err != nil {
		w.field("error", r.Err.Error())
	} else {
		w.field("community_sizes", r.Sizes())
	}
	return w.bytes()
}

// DetectCommunities partitions the undirected projection of the graph with
// the named algorithm. Unknown names and failures produce a result with
// Err set instead of an error return; modularity is best-effort.
func (a *Analyzer) DetectCommunities(algorithm string) (result *CommunityResult) {
	name, detect, ok := a.communities.Resolve(algorithm)
	done := a.timed("detect_communities", logging.Algorithm(name))
	result = &CommunityResult{Algorithm: name}

	defer func() {
		if r := recover(); r != nil {
			result = &CommunityResult{Algorithm: name, Err: fmt.Errorf("community detection panicked: %v", r)}
		}
		if result.Err != nil {
			result.Communities = [][]string{}
			result.Modularity = Skipped[float64](result.Err)
		}
		done(result.Err)
	}()

	if !ok {
		result.Err = fmt.Errorf("%w %q", ErrUnknownAlgorithm, algorithm)
		return result
	}

	g := a.graph
	if g.Directed() {
		g = g.ToUndirected()
	}
	detected := detect(g)

	result.Communities = make([][]string, len(detected.Communities))
	for i, c := range detected.Communities {
		ids := make([]string, len(c.Nodes))
		for j, u := range c.Nodes {
			ids[j] = g.ID(u)
		}
		result.Communities[i] = ids
	}
	result.Modularity = attempt(a, "modularity", func() (float64, error) {
		return algorithms.Modularity(g, detected.Groups())
	})
	return result
}
