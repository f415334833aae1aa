// Package inference implements the spreading-activation engine that
// combines knowledge-graph traversal with VSA-based recovery to surface
// symbols related to a set of seeds.
package inference

import "github.com/cogpy/hypersynth/core/symbol"

// Query is the input to Run.
type Query struct {
	Seeds            []symbol.Id
	TopK             int
	MaxDepth         int
	MinConfidence    float64
	MinSimilarity    float64
	VerifyWithEgraph bool
	PredicateFilter  []symbol.Id // nil means no filter
}

func (q Query) allows(predicate symbol.Id) bool {
	if len(q.PredicateFilter) == 0 {
		return true
	}
	for _, p := range q.PredicateFilter {
		if p == predicate {
			return true
		}
	}
	return false
}

// recoveryNeighbors bounds how many nearest item-memory vectors the VSA
// channel inspects per outgoing edge.
const recoveryNeighbors = 5

// egraphPenalty is applied to a VSA-derived activation when e-graph
// verification fails to simplify its canonical term below the cost
// threshold.
const egraphPenalty = 0.9

// egraphCostThreshold is the AST-size a verified term must simplify to or
// below to be considered "verified" rather than penalized.
const egraphCostThreshold = 4
