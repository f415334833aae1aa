package inference

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/cogpy/hypersynth/core/egraph"
	"github.com/cogpy/hypersynth/core/itemmemory"
	"github.com/cogpy/hypersynth/core/kg"
	"github.com/cogpy/hypersynth/core/provenance"
	"github.com/cogpy/hypersynth/core/symbol"
	"github.com/cogpy/hypersynth/core/vsa"
)

// Activation pairs a symbol with how strongly it was activated.
type Activation struct {
	ID    symbol.Id
	Value float64
}

// Result is the output of Run: the ranked, top-k activations with seeds
// excluded, the bundled interference pattern accumulated along the way,
// and every provenance record emitted while producing it.
type Result struct {
	Ranked     []Activation
	Pattern    *vsa.HyperVec
	Provenance []provenance.Record
}

// Engine runs spreading-activation queries over a knowledge graph and item
// memory.
type Engine struct {
	graph  *kg.Graph
	memory *itemmemory.ItemMemory
	log    *zap.Logger
}

// New builds an inference engine over graph and memory. A nil logger
// installs a no-op one.
func New(graph *kg.Graph, memory *itemmemory.ItemMemory, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{graph: graph, memory: memory, log: log}
}

type frontierEntry struct {
	id         symbol.Id
	activation float64
}

// Run executes the spreading-activation algorithm described for the
// inference engine: seed activation, graph/VSA expansion up to MaxDepth,
// optional e-graph verification, then truncation to TopK.
func (e *Engine) Run(q Query) (*Result, error) {
	if len(q.Seeds) == 0 {
		return nil, ErrNoSeeds
	}

	activations := make(map[symbol.Id]float64)
	expanded := make(map[symbol.Id]bool)
	graphReached := make(map[symbol.Id]bool)
	var records []provenance.Record
	var bundleInputs []*vsa.HyperVec
	now := time.Now().UnixNano()

	for _, seed := range q.Seeds {
		activations[seed] = 1.0
		graphReached[seed] = true
		records = append(records, provenance.Record{
			Derived: seed, Kind: provenance.Seed, Timestamp: now,
		})
		bundleInputs = append(bundleInputs, e.memory.GetOrCreate(seed))
	}

	verified := make(map[symbol.Id]bool)

	for depth := 0; depth < q.MaxDepth; depth++ {
		frontier := e.collectFrontier(activations, expanded)
		if len(frontier) == 0 {
			break
		}

		for _, f := range frontier {
			expanded[f.id] = true
			e.expand(q, f, activations, graphReached, &records, &bundleInputs)
		}
	}

	if q.VerifyWithEgraph {
		e.verify(activations, graphReached, verified)
	}

	pattern, err := vsa.Bundle(bundleInputs)
	if err != nil {
		return nil, fmt.Errorf("inference: bundling pattern: %w", err)
	}

	ranked := rankAndTruncate(activations, q.Seeds, q.TopK)

	return &Result{Ranked: ranked, Pattern: pattern, Provenance: records}, nil
}

func (e *Engine) collectFrontier(activations map[symbol.Id]float64, expanded map[symbol.Id]bool) []frontierEntry {
	var frontier []frontierEntry
	for id, a := range activations {
		if !expanded[id] {
			frontier = append(frontier, frontierEntry{id: id, activation: a})
		}
	}
	sort.Slice(frontier, func(i, j int) bool { return frontier[i].id < frontier[j].id })
	return frontier
}

func (e *Engine) expand(
	q Query,
	f frontierEntry,
	activations map[symbol.Id]float64,
	graphReached map[symbol.Id]bool,
	records *[]provenance.Record,
	bundleInputs *[]*vsa.HyperVec,
) {
	now := time.Now().UnixNano()

	for _, t := range e.graph.TriplesFrom(f.id) {
		if !q.allows(t.Predicate) {
			e.log.Debug("inference: skipping filtered predicate", zap.Uint64("predicate", uint64(t.Predicate)))
			continue
		}

		aGraph := f.activation * t.Confidence
		if aGraph >= q.MinConfidence {
			if aGraph > activations[t.Object] {
				activations[t.Object] = aGraph
			}
			graphReached[t.Object] = true
			*records = append(*records, provenance.Record{
				Derived: t.Object, Kind: provenance.GraphEdge,
				Sources: []symbol.Id{f.id}, Predicate: t.Predicate, Timestamp: now,
			})
			*bundleInputs = append(*bundleInputs, e.memory.GetOrCreate(t.Object))
		} else {
			e.log.Debug("inference: graph channel below min_confidence", zap.Float64("a_graph", aGraph))
		}

		e.expandVSAChannel(q, f, t, aGraph, activations, graphReached, records, bundleInputs)
	}
}

func (e *Engine) expandVSAChannel(
	q Query,
	f frontierEntry,
	t kg.Triple,
	aGraph float64,
	activations map[symbol.Id]float64,
	graphReached map[symbol.Id]bool,
	records *[]provenance.Record,
	bundleInputs *[]*vsa.HyperVec,
) {
	now := time.Now().UnixNano()

	subjectVec := e.memory.GetOrCreate(f.id)
	predicateVec := e.memory.GetOrCreate(t.Predicate)
	recovered, err := vsa.Unbind(subjectVec, predicateVec)
	if err != nil {
		e.log.Debug("inference: vsa unbind failed", zap.Error(err))
		return
	}

	for _, match := range e.memory.Search(recovered, recoveryNeighbors) {
		if match.Similarity < q.MinSimilarity || match.ID == t.Object {
			continue
		}

		// Graph-direct activation for this symbol wins over a coincident
		// VSA recovery: skip rather than let a suggester channel override
		// what graph traversal already asserted for the same symbol.
		if graphReached[match.ID] {
			continue
		}

		aVSA := f.activation * min(t.Confidence, match.Similarity)
		combined := max(aGraph, aVSA)
		if combined < q.MinConfidence {
			continue
		}

		if combined > activations[match.ID] {
			activations[match.ID] = combined
		}
		*records = append(*records, provenance.Record{
			Derived: match.ID, Kind: provenance.VsaRecovery,
			Sources: []symbol.Id{f.id}, Predicate: t.Predicate, Similarity: match.Similarity, Timestamp: now,
		})
		*bundleInputs = append(*bundleInputs, e.memory.GetOrCreate(match.ID))
	}
}

// verify applies e-graph verification to every activation not reached
// through the graph channel (seeds and graph-edge hits are skipped):
// construct a canonical triple term, saturate, and penalize activations
// whose extracted term does not simplify below the cost threshold.
func (e *Engine) verify(activations map[symbol.Id]float64, graphReached map[symbol.Id]bool, verified map[symbol.Id]bool) {
	for id, a := range activations {
		if graphReached[id] || verified[id] {
			continue
		}
		verified[id] = true

		g := egraph.New()
		term := egraph.NewOp(egraph.OpTriple, egraph.NewLeafSymbol(id))
		class := g.Add(term)
		g.Saturate()
		extracted := g.Extract(class)

		if size(extracted) > egraphCostThreshold {
			activations[id] = a * egraphPenalty
		}
	}
}

func size(t *egraph.Term) int {
	if t.IsLeaf() {
		return 1
	}
	total := 1
	for _, arg := range t.Args {
		total += size(arg)
	}
	return total
}

func rankAndTruncate(activations map[symbol.Id]float64, seeds []symbol.Id, topK int) []Activation {
	seedSet := make(map[symbol.Id]bool, len(seeds))
	for _, s := range seeds {
		seedSet[s] = true
	}

	out := make([]Activation, 0, len(activations))
	for id, a := range activations {
		if seedSet[id] {
			continue
		}
		out = append(out, Activation{ID: id, Value: a})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].ID < out[j].ID
	})

	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
