// Package ingest resolves label-based triples against the symbol registry
// and writes them into the knowledge graph, the same resolve-or-create
// step every ingestion path (label tuples, CSV, autonomous assertions)
// shares.
package ingest

import (
	"time"

	"github.com/cogpy/hypersynth/core/kg"
	"github.com/cogpy/hypersynth/core/registry"
	"github.com/cogpy/hypersynth/core/symbol"
)

// LabelTriple is one (subject, predicate, object, confidence) tuple
// addressed by label rather than by already-resolved symbol id.
type LabelTriple struct {
	Subject    string
	Predicate  string
	Object     string
	Confidence float64
}

// Counts reports how many new symbols and triples a Labels call produced.
type Counts struct {
	SymbolsCreated  int
	TriplesIngested int
}

// Resolver resolves-or-creates symbols against a registry and allocator,
// shared by label-triple ingestion and CSV ingestion.
type Resolver struct {
	registry  *registry.Registry
	allocator *registry.Allocator
}

// NewResolver wraps a registry and allocator for resolve-or-create use.
func NewResolver(r *registry.Registry, a *registry.Allocator) *Resolver {
	return &Resolver{registry: r, allocator: a}
}

// ResolveOrCreate returns label's existing symbol id, or allocates and
// registers a new one of kind if label has never been seen. Reports
// whether a new symbol was created.
func (res *Resolver) ResolveOrCreate(label string, kind symbol.Kind) (symbol.Id, bool, error) {
	if id, ok := res.registry.Lookup(label); ok {
		return id, false, nil
	}

	id := res.allocator.Next()
	meta := symbol.Meta{ID: id, Kind: kind, Label: label, CreatedAt: time.Now().UnixNano()}
	if err := res.registry.Register(meta); err != nil {
		// A concurrent caller may have registered the same label between
		// the Lookup above and this Register; resolve to its id instead.
		if existing, ok := res.registry.Lookup(label); ok {
			return existing, false, nil
		}
		return 0, false, err
	}
	return id, true, nil
}

// Labels resolves and inserts every tuple in ts into graph, returning how
// many symbols were newly created and how many triples were ingested.
func Labels(graph *kg.Graph, res *Resolver, ts []LabelTriple) (Counts, error) {
	var counts Counts
	now := time.Now().UnixNano()

	for _, t := range ts {
		s, sNew, err := res.ResolveOrCreate(t.Subject, symbol.Entity)
		if err != nil {
			return counts, err
		}
		p, pNew, err := res.ResolveOrCreate(t.Predicate, symbol.Relation)
		if err != nil {
			return counts, err
		}
		o, oNew, err := res.ResolveOrCreate(t.Object, symbol.Entity)
		if err != nil {
			return counts, err
		}

		for _, created := range []bool{sNew, pNew, oNew} {
			if created {
				counts.SymbolsCreated++
			}
		}

		confidence := t.Confidence
		if confidence == 0 {
			confidence = 1.0
		}

		graph.InsertTriple(kg.Triple{
			Subject: s, Predicate: p, Object: o, Confidence: confidence, Timestamp: now,
		})
		counts.TriplesIngested++
	}

	return counts, nil
}
