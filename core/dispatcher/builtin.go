package dispatcher

import (
	"context"
	"fmt"
	"time"

	"github.com/cogpy/hypersynth/core/egraph"
	"github.com/cogpy/hypersynth/core/inference"
	"github.com/cogpy/hypersynth/core/kg"
	"github.com/cogpy/hypersynth/core/predicate"
	"github.com/cogpy/hypersynth/core/symbol"
)

// Each built-in reasoner below is a thin adapter over one existing engine
// package, wired to exactly one problem kind.

// ForwardInferenceReasoner adapts core/inference.Engine.
type ForwardInferenceReasoner struct {
	Engine *inference.Engine
}

type ForwardInferencePayload struct {
	Query inference.Query
}

func (r *ForwardInferenceReasoner) Name() string { return "forward_inference" }

func (r *ForwardInferenceReasoner) CanHandle(p Problem) (Bid, bool) {
	if p.Kind != ForwardInference {
		return Bid{}, false
	}
	return Bid{EstimatedCost: 5 * time.Millisecond, Confidence: 0.9}, true
}

func (r *ForwardInferenceReasoner) Solve(ctx context.Context, p Problem, budget time.Duration) (interface{}, error) {
	payload, ok := p.Payload.(ForwardInferencePayload)
	if !ok {
		return nil, fmt.Errorf("dispatcher: forward_inference expects ForwardInferencePayload")
	}
	return r.Engine.Run(payload.Query)
}

// EgraphSimplificationReasoner adapts core/egraph.
type EgraphSimplificationReasoner struct{}

type EgraphSimplificationPayload struct {
	Term *egraph.Term
}

func (r *EgraphSimplificationReasoner) Name() string { return "egraph_simplification" }

func (r *EgraphSimplificationReasoner) CanHandle(p Problem) (Bid, bool) {
	if p.Kind != EgraphSimplification {
		return Bid{}, false
	}
	return Bid{EstimatedCost: 2 * time.Millisecond, Confidence: 0.95}, true
}

func (r *EgraphSimplificationReasoner) Solve(ctx context.Context, p Problem, budget time.Duration) (interface{}, error) {
	payload, ok := p.Payload.(EgraphSimplificationPayload)
	if !ok {
		return nil, fmt.Errorf("dispatcher: egraph_simplification expects EgraphSimplificationPayload")
	}
	g := egraph.New()
	class := g.Add(payload.Term)
	g.Saturate()
	return g.Extract(class), nil
}

// PredicateSubsumptionReasoner adapts core/predicate.
type PredicateSubsumptionReasoner struct {
	Hierarchy *predicate.Hierarchy
}

type PredicateSubsumptionPayload struct {
	Subject, Predicate symbol.Id
}

func (r *PredicateSubsumptionReasoner) Name() string { return "predicate_subsumption" }

func (r *PredicateSubsumptionReasoner) CanHandle(p Problem) (Bid, bool) {
	if p.Kind != PredicateSubsumption {
		return Bid{}, false
	}
	return Bid{EstimatedCost: time.Millisecond, Confidence: 0.9}, true
}

func (r *PredicateSubsumptionReasoner) Solve(ctx context.Context, p Problem, budget time.Duration) (interface{}, error) {
	payload, ok := p.Payload.(PredicateSubsumptionPayload)
	if !ok {
		return nil, fmt.Errorf("dispatcher: predicate_subsumption expects PredicateSubsumptionPayload")
	}
	return r.Hierarchy.QueryWithHierarchy(payload.Subject, payload.Predicate), nil
}

// TransitiveClosureReasoner walks a single predicate's edges breadth-first
// from a subject, directly over core/kg.
type TransitiveClosureReasoner struct {
	Graph *kg.Graph
}

type TransitiveClosurePayload struct {
	Subject, Predicate symbol.Id
}

func (r *TransitiveClosureReasoner) Name() string { return "transitive_closure" }

func (r *TransitiveClosureReasoner) CanHandle(p Problem) (Bid, bool) {
	if p.Kind != TransitiveClosure {
		return Bid{}, false
	}
	return Bid{EstimatedCost: 3 * time.Millisecond, Confidence: 0.85}, true
}

func (r *TransitiveClosureReasoner) Solve(ctx context.Context, p Problem, budget time.Duration) (interface{}, error) {
	payload, ok := p.Payload.(TransitiveClosurePayload)
	if !ok {
		return nil, fmt.Errorf("dispatcher: transitive_closure expects TransitiveClosurePayload")
	}

	seen := map[symbol.Id]bool{payload.Subject: true}
	queue := []symbol.Id{payload.Subject}
	var closure []symbol.Id

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range r.Graph.ObjectsOf(cur, payload.Predicate) {
			if seen[next] {
				continue
			}
			seen[next] = true
			closure = append(closure, next)
			queue = append(queue, next)
		}
	}
	return closure, nil
}

// TypeCheckReasoner checks whether subject reaches typ via the hierarchy's
// is-a predicate, reusing the same closure machinery as subsumption.
type TypeCheckReasoner struct {
	Hierarchy *predicate.Hierarchy
	IsA       symbol.Id
}

type TypeCheckPayload struct {
	Subject, Type symbol.Id
}

func (r *TypeCheckReasoner) Name() string { return "type_check" }

func (r *TypeCheckReasoner) CanHandle(p Problem) (Bid, bool) {
	if p.Kind != TypeCheck {
		return Bid{}, false
	}
	return Bid{EstimatedCost: time.Millisecond, Confidence: 0.9}, true
}

func (r *TypeCheckReasoner) Solve(ctx context.Context, p Problem, budget time.Duration) (interface{}, error) {
	payload, ok := p.Payload.(TypeCheckPayload)
	if !ok {
		return nil, fmt.Errorf("dispatcher: type_check expects TypeCheckPayload")
	}
	for _, pair := range r.Hierarchy.QueryWithHierarchy(payload.Subject, r.IsA) {
		if pair.Object == payload.Type {
			return true, nil
		}
	}
	return false, nil
}

// SuperpositionReasoner resolves a superposition problem by bundling the
// candidate vectors, reusing core/vsa the same way inference does.
type SuperpositionReasoner struct{}

func (r *SuperpositionReasoner) Name() string { return "superposition" }

func (r *SuperpositionReasoner) CanHandle(p Problem) (Bid, bool) {
	if p.Kind != Superposition {
		return Bid{}, false
	}
	return Bid{EstimatedCost: 4 * time.Millisecond, Confidence: 0.8}, true
}

func (r *SuperpositionReasoner) Solve(ctx context.Context, p Problem, budget time.Duration) (interface{}, error) {
	vectors, ok := p.Payload.(SuperpositionPayload)
	if !ok {
		return nil, fmt.Errorf("dispatcher: superposition expects SuperpositionPayload")
	}
	return bundleVectors(vectors.Vectors)
}

// BackwardChainingReasoner checks reachability from subject to goal along
// predicate by delegating to the same BFS core/kg drives for transitive
// closure, framed as a goal membership test.
type BackwardChainingReasoner struct {
	Graph *kg.Graph
}

type BackwardChainingPayload struct {
	Subject, Predicate, Goal symbol.Id
}

func (r *BackwardChainingReasoner) Name() string { return "backward_chaining" }

func (r *BackwardChainingReasoner) CanHandle(p Problem) (Bid, bool) {
	if p.Kind != BackwardChaining {
		return Bid{}, false
	}
	return Bid{EstimatedCost: 3 * time.Millisecond, Confidence: 0.8}, true
}

func (r *BackwardChainingReasoner) Solve(ctx context.Context, p Problem, budget time.Duration) (interface{}, error) {
	payload, ok := p.Payload.(BackwardChainingPayload)
	if !ok {
		return nil, fmt.Errorf("dispatcher: backward_chaining expects BackwardChainingPayload")
	}

	seen := map[symbol.Id]bool{payload.Subject: true}
	queue := []symbol.Id{payload.Subject}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == payload.Goal {
			return true, nil
		}
		for _, next := range r.Graph.ObjectsOf(cur, payload.Predicate) {
			if seen[next] {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
		}
	}
	return false, nil
}
