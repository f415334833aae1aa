package predicate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogpy/hypersynth/core/kg"
	"github.com/cogpy/hypersynth/core/symbol"
)

const (
	bird    symbol.Id = 1
	penguin symbol.Id = 2
	canFly  symbol.Id = 3
	isA     symbol.Id = 4
	tTrue   symbol.Id = 5
	tFalse  symbol.Id = 6

	specializesPred symbol.Id = 50
	inversePred     symbol.Id = 51
	exceptPred      symbol.Id = 52
	monotonicPred   symbol.Id = 53
)

func newTestHierarchy(g *kg.Graph) *Hierarchy {
	return New(g, specializesPred, inversePred, exceptPred, monotonicPred)
}

func TestQueryWithHierarchyIncludesSpecializations(t *testing.T) {
	g := kg.New()
	const specific, general symbol.Id = 10, 11
	g.InsertTriple(kg.Triple{Subject: specific, Predicate: specializesPred, Object: general})
	g.InsertTriple(kg.Triple{Subject: 100, Predicate: specific, Object: 200})

	h := newTestHierarchy(g)
	pairs := h.QueryWithHierarchy(100, general)
	require.Len(t, pairs, 1)
	assert.Equal(t, symbol.Id(200), pairs[0].Object)
}

func TestQueryWithHierarchyFollowsInverse(t *testing.T) {
	g := kg.New()
	const p, inv symbol.Id = 10, 11
	g.InsertTriple(kg.Triple{Subject: p, Predicate: inversePred, Object: inv})
	g.InsertTriple(kg.Triple{Subject: 200, Predicate: inv, Object: 100})

	h := newTestHierarchy(g)
	pairs := h.QueryWithHierarchy(100, p)
	require.Len(t, pairs, 1)
	assert.Equal(t, symbol.Id(200), pairs[0].Object)
}

func TestDefeasibleOverrideBySpecificity(t *testing.T) {
	candidates := []Candidate{
		{Object: tTrue, Monotonic: false, TypeDepth: 0, Timestamp: 1, Confidence: 0.9},
		{Object: tFalse, Monotonic: false, TypeDepth: 1, Timestamp: 1, Confidence: 0.9},
	}

	winner, _ := ResolveDefeasible(candidates, nil)
	require.NotNil(t, winner)
	assert.Equal(t, tFalse, *winner)
}

func TestDefeasibleMonotonicOverridesNonMonotonic(t *testing.T) {
	candidates := []Candidate{
		{Object: tTrue, Monotonic: true, TypeDepth: 0, Timestamp: 1, Confidence: 0.1},
		{Object: tFalse, Monotonic: false, TypeDepth: 1, Timestamp: 5, Confidence: 0.9},
	}

	winner, _ := ResolveDefeasible(candidates, nil)
	require.NotNil(t, winner)
	assert.Equal(t, tTrue, *winner)
}

func TestDefeasibleExceptionFlipsPriority(t *testing.T) {
	candidates := []Candidate{
		{Object: tTrue, Monotonic: false, TypeDepth: 1, Timestamp: 1, Confidence: 0.9},
		{Object: tFalse, Monotonic: false, TypeDepth: 1, Timestamp: 1, Confidence: 0.1},
	}
	exception := func(general, specific symbol.Id) bool {
		return general == tTrue && specific == tFalse
	}

	winner, _ := ResolveDefeasible(candidates, exception)
	require.NotNil(t, winner)
	assert.Equal(t, tFalse, *winner)
}

func TestDefeasibleUnresolvedTieReturnsNilWithCandidates(t *testing.T) {
	candidates := []Candidate{
		{Object: tTrue, TypeDepth: 1, Timestamp: 1, Confidence: 0.5},
		{Object: tFalse, TypeDepth: 1, Timestamp: 1, Confidence: 0.5},
	}

	winner, remaining := ResolveDefeasible(candidates, nil)
	assert.Nil(t, winner)
	assert.Len(t, remaining, 2)
}

// TestCandidatesForGathersThroughTypeHierarchy exercises the defeasible
// override-by-specificity scenario end to end off real graph triples:
// Bird can-fly True, Penguin is-a Bird, Penguin can-fly False. Querying
// (Penguin, can-fly) must surface both candidates with Penguin's own
// assertion ranked more specific, so ResolveDefeasible picks False.
func TestCandidatesForGathersThroughTypeHierarchy(t *testing.T) {
	g := kg.New()
	g.InsertTriple(kg.Triple{Subject: bird, Predicate: canFly, Object: tTrue, Timestamp: 1, Confidence: 0.9})
	g.InsertTriple(kg.Triple{Subject: penguin, Predicate: isA, Object: bird, Timestamp: 1, Confidence: 1.0})
	g.InsertTriple(kg.Triple{Subject: penguin, Predicate: canFly, Object: tFalse, Timestamp: 2, Confidence: 0.9})

	h := newTestHierarchy(g)
	candidates := h.CandidatesFor(penguin, canFly, isA)
	require.Len(t, candidates, 2)

	winner, _ := ResolveDefeasible(candidates, h.ExceptionChecker())
	require.NotNil(t, winner)
	assert.Equal(t, tFalse, *winner)
}

func TestCandidatesForRespectsDeclaredException(t *testing.T) {
	g := kg.New()
	g.InsertTriple(kg.Triple{Subject: bird, Predicate: canFly, Object: tTrue, Timestamp: 1, Confidence: 0.9})
	g.InsertTriple(kg.Triple{Subject: penguin, Predicate: isA, Object: bird, Timestamp: 1, Confidence: 1.0})
	g.InsertTriple(kg.Triple{Subject: penguin, Predicate: canFly, Object: tFalse, Timestamp: 1, Confidence: 0.9})
	g.InsertTriple(kg.Triple{Subject: tTrue, Predicate: exceptPred, Object: tFalse})

	h := newTestHierarchy(g)
	candidates := h.CandidatesFor(penguin, canFly, isA)

	winner, _ := ResolveDefeasible(candidates, h.ExceptionChecker())
	require.NotNil(t, winner)
	assert.Equal(t, tFalse, *winner)
}

func TestCandidatesForHonorsMonotonicOverride(t *testing.T) {
	g := kg.New()
	g.InsertTriple(kg.Triple{Subject: bird, Predicate: canFly, Object: tTrue, Timestamp: 1, Confidence: 0.1})
	g.InsertTriple(kg.Triple{Subject: bird, Predicate: monotonicPred, Object: canFly})
	g.InsertTriple(kg.Triple{Subject: penguin, Predicate: isA, Object: bird, Timestamp: 1, Confidence: 1.0})
	g.InsertTriple(kg.Triple{Subject: penguin, Predicate: canFly, Object: tFalse, Timestamp: 5, Confidence: 0.9})

	h := newTestHierarchy(g)
	candidates := h.CandidatesFor(penguin, canFly, isA)

	winner, _ := ResolveDefeasible(candidates, h.ExceptionChecker())
	require.NotNil(t, winner)
	assert.Equal(t, tTrue, *winner)
}
