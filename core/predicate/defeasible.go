package predicate

import "github.com/cogpy/hypersynth/core/symbol"

// Candidate is one candidate object for a defeasible (subject, predicate)
// query, carrying the metadata the five-rule resolution order needs.
type Candidate struct {
	Object     symbol.Id
	Monotonic  bool
	TypeDepth  int // deeper means more specific in the is-a chain
	Timestamp  int64
	Confidence float64
}

// ExceptionChecker reports whether a defeasible exception
// (general, defeasible:except, specific) has been declared between two
// candidates' objects, flipping which one wins a tie.
type ExceptionChecker func(general, specific symbol.Id) bool

// ResolveDefeasible applies the five ordered rules — monotonic override,
// type specificity, declared exception, recency, confidence — narrowing
// candidates at each step until one remains or all rules are exhausted. A
// tie surviving every rule returns a nil winner with the surviving
// candidates so the caller can inspect them.
func ResolveDefeasible(candidates []Candidate, exception ExceptionChecker) (*symbol.Id, []Candidate) {
	if len(candidates) == 0 {
		return nil, nil
	}
	if len(candidates) == 1 {
		obj := candidates[0].Object
		return &obj, candidates
	}

	remaining := candidates

	if narrowed := filterMonotonic(remaining); len(narrowed) > 0 && len(narrowed) < len(remaining) {
		remaining = narrowed
	}
	if len(remaining) == 1 {
		return winner(remaining)
	}

	remaining = filterMaxBy(remaining, func(c Candidate) float64 { return float64(c.TypeDepth) })
	if len(remaining) == 1 {
		return winner(remaining)
	}

	if exception != nil {
		if narrowed := applyException(remaining, exception); len(narrowed) == 1 {
			return winner(narrowed)
		}
	}

	remaining = filterMaxBy(remaining, func(c Candidate) float64 { return float64(c.Timestamp) })
	if len(remaining) == 1 {
		return winner(remaining)
	}

	remaining = filterMaxBy(remaining, func(c Candidate) float64 { return c.Confidence })
	if len(remaining) == 1 {
		return winner(remaining)
	}

	return nil, remaining
}

func winner(cs []Candidate) (*symbol.Id, []Candidate) {
	obj := cs[0].Object
	return &obj, cs
}

func filterMonotonic(cs []Candidate) []Candidate {
	var out []Candidate
	for _, c := range cs {
		if c.Monotonic {
			out = append(out, c)
		}
	}
	return out
}

func filterMaxBy(cs []Candidate, key func(Candidate) float64) []Candidate {
	best := key(cs[0])
	for _, c := range cs[1:] {
		if v := key(c); v > best {
			best = v
		}
	}
	var out []Candidate
	for _, c := range cs {
		if key(c) == best {
			out = append(out, c)
		}
	}
	return out
}

func applyException(cs []Candidate, exception ExceptionChecker) []Candidate {
	for i, general := range cs {
		for j, specific := range cs {
			if i == j {
				continue
			}
			if exception(general.Object, specific.Object) {
				return []Candidate{specific}
			}
		}
	}
	return cs
}
