// Package microtheory implements context-scoped reasoning: a context is a
// symbol that specializes zero or more parent contexts, and triples can be
// scoped to a context via their compartment id.
package microtheory

import (
	"github.com/cogpy/hypersynth/core/kg"
	"github.com/cogpy/hypersynth/core/symbol"
)

// Well-known predicate labels (§6) that model context structure as
// ordinary triples. The facade resolves these through the symbol registry
// at startup so that label-ingested triples using the same labels land on
// the identical ids this package walks, instead of a range reserved for
// this package alone.
const (
	// DomainLabel relates a context to its domain label triple, asserted
	// as (ctx, ctx:domain, domainSymbol).
	DomainLabel = "ctx:domain"
	// SpecializesLabel relates a child context to a parent it specializes.
	SpecializesLabel = "ctx:specializes"
	// DisjointLabel relates two contexts declared mutually exclusive.
	DisjointLabel = "ctx:disjoint"
)

// Context describes a created microtheory: its id, domain symbol, and the
// BFS ancestor ordering from immediate parents upward.
type Context struct {
	ID        symbol.Id
	Domain    symbol.Id
	Ancestors []symbol.Id
}

// Registry manages contexts over a knowledge graph, with an ancestor cache
// invalidated whenever a specialization edge changes.
type Registry struct {
	graph     *kg.Graph
	ancestors *ancestorCache
	labels    func(symbol.Id) string
	rules     []LiftingRule

	predDomain      symbol.Id
	predSpecializes symbol.Id
	predDisjoint    symbol.Id
}

// New creates a context registry over graph. labelOf (the registry's
// ResolveLabel) is stored but not consulted: compartments are compared by
// symbol id, not by label. predDomain, predSpecializes, and predDisjoint are the
// symbol ids resolved for DomainLabel, SpecializesLabel, and
// DisjointLabel respectively — callers resolve these once, at facade
// startup, against the same registry label-ingest uses.
func New(graph *kg.Graph, labelOf func(symbol.Id) string, predDomain, predSpecializes, predDisjoint symbol.Id) *Registry {
	return &Registry{
		graph:           graph,
		ancestors:       newAncestorCache(),
		labels:          labelOf,
		predDomain:      predDomain,
		predSpecializes: predSpecializes,
		predDisjoint:    predDisjoint,
	}
}
