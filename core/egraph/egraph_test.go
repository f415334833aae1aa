package egraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddDedupesStructurallyIdenticalTerms(t *testing.T) {
	g := New()
	a := NewLeafSymbol(1)
	b := NewLeafSymbol(2)

	id1 := g.Add(NewOp(OpBind, a, b))
	id2 := g.Add(NewOp(OpBind, NewLeafSymbol(1), NewLeafSymbol(2)))

	assert.Equal(t, id1, id2)
}

func TestSaturateAppliesCommutativity(t *testing.T) {
	g := New()
	a, b := NewLeafSymbol(1), NewLeafSymbol(2)

	ab := g.Add(NewOp(OpBind, a, b))
	ba := g.Add(NewOp(OpBind, b, a))

	require.NotEqual(t, ab, ba)
	g.Saturate()
	assert.Equal(t, g.Find(ab), g.Find(ba))
}

func TestSaturateAppliesBindSelfInverse(t *testing.T) {
	g := New()
	a, b := NewLeafSymbol(1), NewLeafSymbol(2)
	inner := NewOp(OpBind, a, b)
	outer := NewOp(OpBind, inner, b)

	outerClass := g.Add(outer)
	aClass := g.Add(NewLeafSymbol(1))

	g.Saturate()
	assert.Equal(t, g.Find(aClass), g.Find(outerClass))
}

func TestSaturateAppliesDoubleNegation(t *testing.T) {
	g := New()
	a := NewLeafSymbol(1)
	notNot := NewOp(OpNot, NewOp(OpNot, a))

	outer := g.Add(notNot)
	plain := g.Add(NewLeafSymbol(1))

	g.Saturate()
	assert.Equal(t, g.Find(plain), g.Find(outer))
}

func TestExtractPrefersSmallerEquivalentTerm(t *testing.T) {
	g := New()
	a := NewLeafSymbol(1)
	notNot := NewOp(OpNot, NewOp(OpNot, a))

	outer := g.Add(notNot)
	g.Saturate()

	extracted := g.Extract(outer)
	assert.True(t, extracted.IsLeaf())
	assert.Equal(t, int64(0), extracted.Leaf.Int)
	assert.True(t, extracted.Leaf.IsSymbol)
}
