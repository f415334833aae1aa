package microtheory

import (
	"time"

	"github.com/cogpy/hypersynth/core/kg"
	"github.com/cogpy/hypersynth/core/symbol"
)

// CreateContext asserts id's domain and its specialization edges to each
// parent, rejecting the request if any parent is already a descendant of
// id (which would create a cycle). Returns the context with its BFS
// ancestor ordering from immediate parents upward.
func (r *Registry) CreateContext(id, domain symbol.Id, parents []symbol.Id) (Context, error) {
	for _, p := range parents {
		if r.isAncestor(id, p) {
			return Context{}, ErrCycle
		}
	}

	now := time.Now().UnixNano()
	r.graph.InsertTriple(kg.Triple{Subject: id, Predicate: r.predDomain, Object: domain, Confidence: 1.0, Timestamp: now})
	for _, p := range parents {
		r.graph.InsertTriple(kg.Triple{Subject: id, Predicate: r.predSpecializes, Object: p, Confidence: 1.0, Timestamp: now})
	}
	r.ancestors.invalidateAll()

	return Context{ID: id, Domain: domain, Ancestors: r.Ancestors(id)}, nil
}

// isAncestor reports whether candidate appears in ctx's ancestor chain,
// used to reject cycle-creating CreateContext calls before they mutate the
// graph.
func (r *Registry) isAncestor(candidate, ctx symbol.Id) bool {
	for _, a := range r.Ancestors(ctx) {
		if a == candidate {
			return true
		}
	}
	return candidate == ctx
}

// Ancestors returns ctx's BFS ancestor ordering from immediate parents
// upward, memoized until the next specialization change.
func (r *Registry) Ancestors(ctx symbol.Id) []symbol.Id {
	if cached, ok := r.ancestors.get(ctx); ok {
		return cached
	}

	var order []symbol.Id
	seen := map[symbol.Id]bool{ctx: true}
	queue := []symbol.Id{ctx}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, parent := range r.graph.ObjectsOf(cur, r.predSpecializes) {
			if seen[parent] {
				continue
			}
			seen[parent] = true
			order = append(order, parent)
			queue = append(queue, parent)
		}
	}

	r.ancestors.set(ctx, order)
	return order
}

// ContextsAreDisjoint reports whether a ctx:disjoint triple relates a and
// b, checked symmetrically.
func (r *Registry) ContextsAreDisjoint(a, b symbol.Id) bool {
	for _, o := range r.graph.ObjectsOf(a, r.predDisjoint) {
		if o == b {
			return true
		}
	}
	for _, o := range r.graph.ObjectsOf(b, r.predDisjoint) {
		if o == a {
			return true
		}
	}
	return false
}

// scopedTriple pairs a triple with how many specialization hops separate
// its compartment from the queried context, so more-specific results can
// be sorted first.
type scopedTriple struct {
	triple kg.Triple
	depth  int
}

// TriplesInContext returns triples with subject s and predicate p whose
// compartment id is ctx's id, any ancestor's id, or the global
// compartment (id 0). Results are sorted so more-specific contexts (fewer
// specialization hops from ctx) come first.
func (r *Registry) TriplesInContext(s, p, ctx symbol.Id) []kg.Triple {
	depthOf := map[symbol.Id]int{ctx: 0}
	for i, a := range r.Ancestors(ctx) {
		depthOf[a] = i + 1
	}

	var scoped []scopedTriple
	for _, t := range r.graph.TriplesFrom(s) {
		if t.Predicate != p {
			continue
		}
		if t.Compartment == 0 {
			scoped = append(scoped, scopedTriple{triple: t, depth: len(depthOf) + 1})
			continue
		}
		if depth, ok := depthOf[t.Compartment]; ok {
			scoped = append(scoped, scopedTriple{triple: t, depth: depth})
		}
	}

	sortScopedByDepth(scoped)

	out := make([]kg.Triple, len(scoped))
	for i, s := range scoped {
		out[i] = s.triple
	}
	return out
}

func sortScopedByDepth(scoped []scopedTriple) {
	for i := 1; i < len(scoped); i++ {
		for j := i; j > 0 && scoped[j-1].depth > scoped[j].depth; j-- {
			scoped[j-1], scoped[j] = scoped[j], scoped[j-1]
		}
	}
}
