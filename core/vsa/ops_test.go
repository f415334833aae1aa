package vsa

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDim = 1000

func randVec(seed int64) *HyperVec {
	return Random(rand.New(rand.NewSource(seed)), testDim, Bipolar)
}

func TestBindSelfInverse(t *testing.T) {
	a := randVec(1)
	zero := New(testDim, Bipolar)
	bound, err := Bind(a, a)
	require.NoError(t, err)
	assert.True(t, bound.Equal(zero), "bind(a,a) must be the zero vector")
}

func TestBindUnbindRoundtrip(t *testing.T) {
	a := randVec(2)
	b := randVec(3)
	composite, err := Bind(a, b)
	require.NoError(t, err)
	recovered, err := Unbind(composite, a)
	require.NoError(t, err)
	assert.True(t, recovered.Equal(b))
}

func TestSimilarityIdentity(t *testing.T) {
	a := randVec(4)
	sim, err := Similarity(a, a)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-9)
}

func TestSimilarityChance(t *testing.T) {
	a := Random(rand.New(rand.NewSource(5)), DefaultDimension, Bipolar)
	b := Random(rand.New(rand.NewSource(6)), DefaultDimension, Bipolar)
	sim, err := Similarity(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, sim, 0.05)
}

func TestPermuteInvertible(t *testing.T) {
	a := randVec(7)
	p := Permute(a, 37)
	back := Permute(p, -37)
	assert.True(t, back.Equal(a))
}

func TestBundleSimilarToInputs(t *testing.T) {
	inputs := []*HyperVec{randVec(8), randVec(9), randVec(10), randVec(11), randVec(12)}
	bundled, err := Bundle(inputs)
	require.NoError(t, err)
	for i, in := range inputs {
		sim, err := Similarity(bundled, in)
		require.NoError(t, err)
		assert.Greaterf(t, sim, 0.5, "bundle must be more similar than chance to input %d", i)
	}
}

func TestBundleEvenTieBreaksDeterministically(t *testing.T) {
	a := New(4, Bipolar)
	a.SetBit(0, true)
	b := New(4, Bipolar)
	// b has bit 0 clear: exact 1-1 tie on bit 0 across [a,b].
	first, err := Bundle([]*HyperVec{a, b})
	require.NoError(t, err)
	second, err := Bundle([]*HyperVec{a, b})
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
	assert.False(t, first.GetBit(0), "even tie must resolve to bit 0 (off)")
}

func TestDimensionMismatch(t *testing.T) {
	a := New(10, Bipolar)
	b := New(20, Bipolar)
	_, err := Bind(a, b)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = Similarity(a, b)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = Bundle([]*HyperVec{a, b})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestGetSetBit(t *testing.T) {
	hv := New(16, Bipolar)
	assert.False(t, hv.GetBit(0))
	hv.SetBit(0, true)
	assert.True(t, hv.GetBit(0))
	hv.SetBit(8, true)
	assert.True(t, hv.GetBit(8))
	hv.SetBit(0, false)
	assert.False(t, hv.GetBit(0))
}
