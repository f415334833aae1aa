// Package predicate implements predicate hierarchy closure and defeasible
// reasoning over a knowledge graph.
package predicate

import "github.com/cogpy/hypersynth/core/symbol"

// Well-known predicate labels (§6) that model hierarchy and defeasible
// structure as ordinary triples. The facade resolves these through the
// symbol registry at startup so that label-ingested triples using the
// same labels land on the identical ids this package walks, instead of a
// range reserved for this package alone.
const (
	// SpecializesPredicateLabel relates a specific predicate to a more
	// general one it specializes: (specific, code:specializes-predicate, general).
	SpecializesPredicateLabel = "code:specializes-predicate"
	// InversePredicateLabel relates a predicate to its inverse.
	InversePredicateLabel = "code:inverse-predicate"
	// ExceptLabel records a declared defeasible exception:
	// (general, defeasible:except, specific).
	ExceptLabel = "defeasible:except"
	// MonotonicLabel marks a (subject, predicate) pair as monotonic:
	// (subject, defeasible:monotonic, predicate).
	MonotonicLabel = "defeasible:monotonic"
)

// Pair is one (predicate, object) result from a hierarchy-aware query.
type Pair struct {
	Predicate symbol.Id
	Object    symbol.Id
}
