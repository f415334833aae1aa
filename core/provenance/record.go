// Package provenance implements the append-only derivation ledger: every
// fact the engine learns, whether seeded directly or derived by inference,
// the e-graph, or a context lift, is recorded here with its sources.
package provenance

import "github.com/cogpy/hypersynth/core/symbol"

// Kind tags how a record's derived symbol came to be known.
type Kind int

const (
	Seed Kind = iota
	GraphEdge
	VsaRecovery
	RuleApplication
	ContradictionDetected
	ContextLifting
	AutonomousGoalGeneration
	SemanticEnrichment
)

func (k Kind) String() string {
	switch k {
	case Seed:
		return "seed"
	case GraphEdge:
		return "graph_edge"
	case VsaRecovery:
		return "vsa_recovery"
	case RuleApplication:
		return "rule_application"
	case ContradictionDetected:
		return "contradiction_detected"
	case ContextLifting:
		return "context_lifting"
	case AutonomousGoalGeneration:
		return "autonomous_goal_generation"
	case SemanticEnrichment:
		return "semantic_enrichment"
	default:
		return "unknown"
	}
}

// Record is one entry in the provenance ledger: derived names Kind as the
// mechanism that produced it, and Sources names what it was derived from.
// Predicate and Similarity hold the GraphEdge{from,predicate} and
// VsaRecovery{from,predicate,similarity} payload fields respectively;
// Sources[0] is "from" for both kinds. Detail carries free-form context
// for kinds with no fixed payload shape (RuleApplication and the rest).
type Record struct {
	Derived    symbol.Id   `json:"derived"`
	Kind       Kind        `json:"kind"`
	Sources    []symbol.Id `json:"sources,omitempty"`
	Predicate  symbol.Id   `json:"predicate,omitempty"`
	Similarity float64     `json:"similarity,omitempty"`
	Detail     string      `json:"detail,omitempty"`
	Timestamp  int64       `json:"timestamp"`
}
