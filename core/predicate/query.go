package predicate

import (
	"github.com/cogpy/hypersynth/core/kg"
	"github.com/cogpy/hypersynth/core/symbol"
)

// Hierarchy resolves predicate specialization/inverse closure over a
// knowledge graph's predicate index.
type Hierarchy struct {
	graph *kg.Graph

	specializesPred symbol.Id
	inversePred     symbol.Id
	exceptPred      symbol.Id
	monotonicPred   symbol.Id
}

// New wraps graph for hierarchy-aware and defeasible queries.
// specializesPred, inversePred, exceptPred, and monotonicPred are the
// symbol ids resolved for SpecializesPredicateLabel, InversePredicateLabel,
// ExceptLabel, and MonotonicLabel respectively — callers resolve these
// once, at facade startup, against the same registry label-ingest uses.
func New(graph *kg.Graph, specializesPred, inversePred, exceptPred, monotonicPred symbol.Id) *Hierarchy {
	return &Hierarchy{
		graph:           graph,
		specializesPred: specializesPred,
		inversePred:     inversePred,
		exceptPred:      exceptPred,
		monotonicPred:   monotonicPred,
	}
}

// specializationsOf returns p and every predicate that transitively
// specializes it, via (specific, code:specializes-predicate, general) edges.
func (h *Hierarchy) specializationsOf(p symbol.Id) []symbol.Id {
	seen := map[symbol.Id]bool{p: true}
	closure := []symbol.Id{p}
	queue := []symbol.Id{p}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, specific := range h.graph.SubjectsOf(h.specializesPred, cur) {
			if seen[specific] {
				continue
			}
			seen[specific] = true
			closure = append(closure, specific)
			queue = append(queue, specific)
		}
	}
	return closure
}

func (h *Hierarchy) inverseOf(p symbol.Id) (symbol.Id, bool) {
	invs := h.graph.ObjectsOf(p, h.inversePred)
	if len(invs) == 0 {
		return 0, false
	}
	return invs[0], true
}

// QueryWithHierarchy returns (p', o) pairs where p' is p or any predicate
// that specializes it. When a predicate in the closure has a declared
// inverse, (o, inverse, s) triples in the graph also match, contributing
// the pair (p', o) as if (s, p', o) itself had been asserted.
func (h *Hierarchy) QueryWithHierarchy(s, p symbol.Id) []Pair {
	var out []Pair
	for _, pp := range h.specializationsOf(p) {
		for _, o := range h.graph.ObjectsOf(s, pp) {
			out = append(out, Pair{Predicate: pp, Object: o})
		}
		if inv, ok := h.inverseOf(pp); ok {
			for _, o := range h.graph.SubjectsOf(inv, s) {
				out = append(out, Pair{Predicate: pp, Object: o})
			}
		}
	}
	return out
}

// typeChain returns subject and every type reachable upward through isA
// edges (subject is-a parent), nearest first, breadth-first so multiple
// inheritance is handled without revisiting a type twice.
func (h *Hierarchy) typeChain(subject, isA symbol.Id) []symbol.Id {
	seen := map[symbol.Id]bool{subject: true}
	chain := []symbol.Id{subject}
	queue := []symbol.Id{subject}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, parent := range h.graph.ObjectsOf(cur, isA) {
			if seen[parent] {
				continue
			}
			seen[parent] = true
			chain = append(chain, parent)
			queue = append(queue, parent)
		}
	}
	return chain
}

// isMonotonic reports whether (subject, defeasible:monotonic, pred) has
// been declared, marking assertions of pred on subject as monotonic.
func (h *Hierarchy) isMonotonic(subject, pred symbol.Id) bool {
	for _, o := range h.graph.ObjectsOf(subject, h.monotonicPred) {
		if o == pred {
			return true
		}
	}
	return false
}

// CandidatesFor assembles the candidate set query_defeasible(subject, pred)
// needs (§4.10): it walks subject's is-a chain via isA from most specific
// (subject itself) to least, and at every type in that chain collects each
// triple whose predicate is pred or a hierarchy specialization of it,
// reading defeasible:monotonic off the graph for each. TypeDepth ranks
// subject's own assertions above its ancestors' — deeper in the chain,
// more specific.
func (h *Hierarchy) CandidatesFor(subject, pred, isA symbol.Id) []Candidate {
	chain := h.typeChain(subject, isA)
	n := len(chain)

	var out []Candidate
	for i, t := range chain {
		depth := n - i
		for _, pp := range h.specializationsOf(pred) {
			for _, tr := range h.graph.TriplesFrom(t) {
				if tr.Predicate != pp {
					continue
				}
				out = append(out, Candidate{
					Object:     tr.Object,
					Monotonic:  h.isMonotonic(t, pp),
					TypeDepth:  depth,
					Timestamp:  tr.Timestamp,
					Confidence: tr.Confidence,
				})
			}
		}
	}
	return out
}

// ExceptionChecker returns an ExceptionChecker backed by declared
// (general, defeasible:except, specific) triples in the graph.
func (h *Hierarchy) ExceptionChecker() ExceptionChecker {
	return func(general, specific symbol.Id) bool {
		for _, o := range h.graph.ObjectsOf(general, h.exceptPred) {
			if o == specific {
				return true
			}
		}
		return false
	}
}
