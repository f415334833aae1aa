package microtheory

import (
	"time"

	"github.com/cogpy/hypersynth/core/kg"
	"github.com/cogpy/hypersynth/core/symbol"
)

// Condition controls which (subject, predicate) pairs a LiftingRule copies
// into its target context.
type Condition int

const (
	// Always copies every triple regardless of what the target already has.
	Always Condition = iota
	// IfNotOverridden skips (s, p, _) pairs the target context already has
	// any triple for.
	IfNotOverridden
	// IfConsistent skips (s, p, _) pairs where the target already has a
	// conflicting object for the same (s, p).
	IfConsistent
)

// LiftingRule describes one context-to-context lift: every triple scoped
// to From may be copied into To, subject to Condition.
type LiftingRule struct {
	From, To symbol.Id
	Cond     Condition
}

// AddLiftingRule registers rule for future ApplyLiftingRules calls.
func (r *Registry) AddLiftingRule(rule LiftingRule) {
	r.rules = append(r.rules, rule)
}

// ApplyLiftingRules runs every rule registered with From == fromCtx,
// writing rewritten triples into their target compartments. It returns the
// triples actually written.
func (r *Registry) ApplyLiftingRules(fromCtx symbol.Id) []kg.Triple {
	var written []kg.Triple

	for _, rule := range r.rules {
		if rule.From != fromCtx {
			continue
		}
		for _, t := range r.graph.TriplesForCompartment(fromCtx) {
			if rule.Cond != Always && r.targetHasPair(rule.To, t.Subject, t.Predicate, t.Object, rule.Cond) {
				continue
			}
			lifted := t
			lifted.Compartment = rule.To
			lifted.Timestamp = time.Now().UnixNano()
			r.graph.InsertTriple(lifted)
			written = append(written, lifted)
		}
	}

	return written
}

func (r *Registry) targetHasPair(target, subject, predicate, object symbol.Id, cond Condition) bool {
	for _, existing := range r.graph.TriplesFrom(subject) {
		if existing.Predicate != predicate || existing.Compartment != target {
			continue
		}
		switch cond {
		case IfNotOverridden:
			return true
		case IfConsistent:
			if existing.Object != object {
				return true
			}
		}
	}
	return false
}
