package ingest

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogpy/hypersynth/core/kg"
	"github.com/cogpy/hypersynth/core/registry"
)

func newResolver() *Resolver {
	return NewResolver(registry.New(), registry.NewAllocator())
}

func TestLabelsIngestsAndDedupesSymbols(t *testing.T) {
	g := kg.New()
	res := newResolver()

	counts, err := Labels(g, res, []LabelTriple{
		{Subject: "Dog", Predicate: "is-a", Object: "Animal", Confidence: 1.0},
		{Subject: "Cat", Predicate: "is-a", Object: "Animal", Confidence: 0.95},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, counts.TriplesIngested)
	assert.Equal(t, 4, counts.SymbolsCreated) // Dog, is-a, Animal, Cat (Animal and is-a reused)

	assert.Equal(t, 2, g.TripleCount())
}

func TestCSVSPOFormatBasic(t *testing.T) {
	g := kg.New()
	res := newResolver()
	csv := "Dog,is-a,Animal\nCat,is-a,Animal,0.95\n"

	result, err := ParseCSV(g, res, csv, SPO, ',')
	require.NoError(t, err)
	assert.Equal(t, 2, result.Counts.TriplesIngested)
	assert.Equal(t, 0, result.Errors)
}

func TestCSVSPOFormatSkipsHeader(t *testing.T) {
	g := kg.New()
	res := newResolver()
	csv := "subject,predicate,object,confidence\nDog,is-a,Animal,1.0\n"

	result, err := ParseCSV(g, res, csv, SPO, ',')
	require.NoError(t, err)
	assert.Equal(t, 1, result.Counts.TriplesIngested)
}

func TestCSVEntityFormat(t *testing.T) {
	g := kg.New()
	res := newResolver()
	csv := "entity,is-a,lives-in\nDog,Animal,House\nCat,Animal,House\n"

	result, err := ParseCSV(g, res, csv, Entity, ',')
	require.NoError(t, err)
	assert.Equal(t, 4, result.Counts.TriplesIngested)
}

func TestCSVEntityFormatMissingCells(t *testing.T) {
	g := kg.New()
	res := newResolver()
	csv := "entity,is-a,color\nDog,Animal,\nCat,Animal,Black\n"

	result, err := ParseCSV(g, res, csv, Entity, ',')
	require.NoError(t, err)
	assert.Equal(t, 3, result.Counts.TriplesIngested)
}

func TestConcurrentIngestNoDuplicateIds(t *testing.T) {
	g := kg.New()
	res := newResolver()

	const n, k = 8, 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < k; j++ {
				_, _ = Labels(g, res, []LabelTriple{{
					Subject:   symbolFor("S", worker, j),
					Predicate: "rel",
					Object:    symbolFor("O", worker, j),
					Confidence: 1.0,
				}})
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, n*k, g.TripleCount())
}

func symbolFor(prefix string, worker, idx int) string {
	return prefix + "-" + string(rune('A'+worker)) + "-" + string(rune('a'+idx))
}
