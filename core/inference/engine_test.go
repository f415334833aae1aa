package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogpy/hypersynth/core/itemmemory"
	"github.com/cogpy/hypersynth/core/kg"
	"github.com/cogpy/hypersynth/core/symbol"
	"github.com/cogpy/hypersynth/core/vsa"
)

const (
	sun    symbol.Id = 1
	star   symbol.Id = 2
	isA    symbol.Id = 3
	corona symbol.Id = 4
	hasPart symbol.Id = 5
)

func newTestEngine() (*Engine, *kg.Graph) {
	g := kg.New()
	mem := itemmemory.New(vsa.DefaultDimension, vsa.Bipolar, 0)
	return New(g, mem, nil), g
}

func TestSingleHopInference(t *testing.T) {
	eng, g := newTestEngine()
	g.InsertTriple(kg.Triple{Subject: sun, Predicate: isA, Object: star, Confidence: 0.9})

	result, err := eng.Run(Query{Seeds: []symbol.Id{sun}, TopK: 10, MaxDepth: 1, MinConfidence: 0.1, MinSimilarity: 0.6})
	require.NoError(t, err)

	require.Len(t, result.Ranked, 1)
	assert.Equal(t, star, result.Ranked[0].ID)
	assert.GreaterOrEqual(t, result.Ranked[0].Value, 0.9)

	var sawSeed, sawEdge bool
	for _, rec := range result.Provenance {
		if rec.Derived == sun {
			sawSeed = true
		}
		if rec.Derived == star {
			sawEdge = true
		}
	}
	assert.True(t, sawSeed)
	assert.True(t, sawEdge)
}

func TestMultiHopConfidenceDecay(t *testing.T) {
	eng, g := newTestEngine()
	const a, b, c, r symbol.Id = 10, 11, 12, 20
	g.InsertTriple(kg.Triple{Subject: a, Predicate: r, Object: b, Confidence: 0.8})
	g.InsertTriple(kg.Triple{Subject: b, Predicate: r, Object: c, Confidence: 0.5})

	result, err := eng.Run(Query{Seeds: []symbol.Id{a}, TopK: 10, MaxDepth: 2, MinConfidence: 0.01})
	require.NoError(t, err)

	var cActivation float64
	for _, act := range result.Ranked {
		if act.ID == c {
			cActivation = act.Value
		}
	}
	assert.LessOrEqual(t, cActivation, 0.8*0.5+1e-6)
}

func TestPredicateFilterRespected(t *testing.T) {
	eng, g := newTestEngine()
	g.InsertTriple(kg.Triple{Subject: sun, Predicate: isA, Object: star, Confidence: 0.9})
	g.InsertTriple(kg.Triple{Subject: sun, Predicate: hasPart, Object: corona, Confidence: 0.9})

	result, err := eng.Run(Query{
		Seeds: []symbol.Id{sun}, TopK: 10, MaxDepth: 1, MinConfidence: 0.1,
		PredicateFilter: []symbol.Id{isA},
	})
	require.NoError(t, err)

	var ids []symbol.Id
	for _, act := range result.Ranked {
		ids = append(ids, act.ID)
	}
	assert.Contains(t, ids, star)
	assert.NotContains(t, ids, corona)
}

func TestNoSeedsErrors(t *testing.T) {
	eng, _ := newTestEngine()
	_, err := eng.Run(Query{Seeds: nil, TopK: 10, MaxDepth: 1})
	assert.ErrorIs(t, err, ErrNoSeeds)
}
