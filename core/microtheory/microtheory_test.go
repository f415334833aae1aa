package microtheory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogpy/hypersynth/core/kg"
	"github.com/cogpy/hypersynth/core/symbol"
)

const (
	dog     symbol.Id = 1
	mammal  symbol.Id = 2
	pet     symbol.Id = 3
	isA     symbol.Id = 4
	parentP symbol.Id = 100
	childC  symbol.Id = 101
	domain  symbol.Id = 200

	predDomain      symbol.Id = 300
	predSpecializes symbol.Id = 301
	predDisjoint    symbol.Id = 302
)

func newTestRegistry(g *kg.Graph) *Registry {
	return New(g, nil, predDomain, predSpecializes, predDisjoint)
}

func TestContextScopeSpecificityOrdering(t *testing.T) {
	g := kg.New()
	r := newTestRegistry(g)

	_, err := r.CreateContext(parentP, domain, nil)
	require.NoError(t, err)
	_, err = r.CreateContext(childC, domain, []symbol.Id{parentP})
	require.NoError(t, err)

	g.InsertTriple(kg.Triple{Subject: dog, Predicate: isA, Object: mammal, Compartment: parentP})
	g.InsertTriple(kg.Triple{Subject: dog, Predicate: isA, Object: pet, Compartment: childC})

	inChild := r.TriplesInContext(dog, isA, childC)
	require.Len(t, inChild, 2)
	assert.Equal(t, pet, inChild[0].Object)
	assert.Equal(t, mammal, inChild[1].Object)

	inParent := r.TriplesInContext(dog, isA, parentP)
	require.Len(t, inParent, 1)
	assert.Equal(t, mammal, inParent[0].Object)
}

func TestCreateContextRejectsCycle(t *testing.T) {
	g := kg.New()
	r := newTestRegistry(g)

	_, err := r.CreateContext(parentP, domain, nil)
	require.NoError(t, err)
	_, err = r.CreateContext(childC, domain, []symbol.Id{parentP})
	require.NoError(t, err)

	_, err = r.CreateContext(parentP, domain, []symbol.Id{childC})
	assert.ErrorIs(t, err, ErrCycle)
}

func TestAncestorsAcyclic(t *testing.T) {
	g := kg.New()
	r := newTestRegistry(g)

	_, err := r.CreateContext(parentP, domain, nil)
	require.NoError(t, err)
	ctx, err := r.CreateContext(childC, domain, []symbol.Id{parentP})
	require.NoError(t, err)

	assert.NotContains(t, ctx.Ancestors, childC)
}

func TestContextsAreDisjointSymmetric(t *testing.T) {
	g := kg.New()
	r := newTestRegistry(g)
	g.InsertTriple(kg.Triple{Subject: parentP, Predicate: predDisjoint, Object: childC, Confidence: 1})

	assert.True(t, r.ContextsAreDisjoint(parentP, childC))
	assert.True(t, r.ContextsAreDisjoint(childC, parentP))
}

func TestApplyLiftingRulesAlwaysCopies(t *testing.T) {
	g := kg.New()
	r := newTestRegistry(g)
	g.InsertTriple(kg.Triple{Subject: dog, Predicate: isA, Object: mammal, Compartment: parentP})

	r.AddLiftingRule(LiftingRule{From: parentP, To: childC, Cond: Always})
	written := r.ApplyLiftingRules(parentP)

	require.Len(t, written, 1)
	assert.Equal(t, childC, written[0].Compartment)
}

func TestApplyLiftingRulesIfNotOverriddenSkipsExisting(t *testing.T) {
	g := kg.New()
	r := newTestRegistry(g)
	g.InsertTriple(kg.Triple{Subject: dog, Predicate: isA, Object: mammal, Compartment: parentP})
	g.InsertTriple(kg.Triple{Subject: dog, Predicate: isA, Object: pet, Compartment: childC})

	r.AddLiftingRule(LiftingRule{From: parentP, To: childC, Cond: IfNotOverridden})
	written := r.ApplyLiftingRules(parentP)

	assert.Empty(t, written)
}
