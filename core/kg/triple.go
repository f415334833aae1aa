// Package kg implements the in-memory knowledge graph: a directed,
// edge-labeled multigraph over symbol.Id nodes with roaring-bitmap indices
// for subject, object, and predicate lookups.
package kg

import (
	"github.com/cogpy/hypersynth/core/symbol"
)

// Triple is one (subject, predicate, object) edge, carrying the confidence,
// timestamp, provenance, and compartment metadata the rest of the engine
// attaches to every fact.
type Triple struct {
	Subject      symbol.Id
	Predicate    symbol.Id
	Object       symbol.Id
	Confidence   float64
	Timestamp    int64
	ProvenanceID string
	Compartment  symbol.Id // 0 means the default/global compartment
}

type tripleKey struct {
	subject     symbol.Id
	predicate   symbol.Id
	object      symbol.Id
	compartment symbol.Id
}

func (t Triple) key() tripleKey {
	return tripleKey{t.Subject, t.Predicate, t.Object, t.Compartment}
}
