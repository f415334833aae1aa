package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogpy/hypersynth/core/dispatcher"
	"github.com/cogpy/hypersynth/core/ingest"
	"github.com/cogpy/hypersynth/core/inference"
	"github.com/cogpy/hypersynth/core/kg"
	"github.com/cogpy/hypersynth/core/symbol"
	"github.com/cogpy/hypersynth/core/vsa"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(Config{Dimension: 2048, Encoding: vsa.Bipolar})
	require.NoError(t, err)
	return e
}

func TestNewRejectsZeroDimension(t *testing.T) {
	_, err := New(Config{Dimension: 0})
	require.Error(t, err)

	var engErr *Error
	require.ErrorAs(t, err, &engErr)
	assert.Equal(t, Configuration, engErr.Code)
}

func TestAddTripleMemoryOnlyInsertsIntoGraph(t *testing.T) {
	e := newTestEngine(t)

	sun, _, err := e.ResolveOrCreateEntity("Sun")
	require.NoError(t, err)
	star, _, err := e.ResolveOrCreateEntity("Star")
	require.NoError(t, err)
	isA, _, err := e.ResolveOrCreateRelation("is-a")
	require.NoError(t, err)

	err = e.AddTriple(context.Background(), kg.Triple{
		Subject: sun, Predicate: isA, Object: star, Confidence: 1.0,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, e.Graph().TripleCount())
}

func TestIngestLabelTriplesReturnsCounts(t *testing.T) {
	e := newTestEngine(t)

	counts, err := e.IngestLabelTriples([]ingest.LabelTriple{
		{Subject: "Dog", Predicate: "is-a", Object: "Animal", Confidence: 1.0},
		{Subject: "Cat", Predicate: "is-a", Object: "Animal", Confidence: 0.9},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, counts.TriplesIngested)
	assert.Equal(t, 2, e.Graph().TripleCount())
}

func TestInferSurfacesSeedNeighbors(t *testing.T) {
	e := newTestEngine(t)

	counts, err := e.IngestLabelTriples([]ingest.LabelTriple{
		{Subject: "Sun", Predicate: "is-a", Object: "Star", Confidence: 1.0},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, counts.TriplesIngested)

	sun, ok := e.Registry().Lookup("Sun")
	require.True(t, ok)

	result, err := e.Infer(inference.Query{Seeds: []symbol.Id{sun}, TopK: 5, MaxDepth: 2})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Ranked)
}

func TestDispatchForwardInference(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.IngestLabelTriples([]ingest.LabelTriple{
		{Subject: "Sun", Predicate: "is-a", Object: "Star", Confidence: 1.0},
	})
	require.NoError(t, err)

	sun, ok := e.Registry().Lookup("Sun")
	require.True(t, ok)

	out, trace, err := e.Dispatch(context.Background(), dispatcher.Problem{
		Kind: dispatcher.ForwardInference,
		Payload: dispatcher.ForwardInferencePayload{
			Query: inference.Query{Seeds: []symbol.Id{sun}, TopK: 5, MaxDepth: 2},
		},
	}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "forward_inference", trace.Winner)
	assert.NotNil(t, out)
}

func TestCreateContextRejectsCycleThroughFacade(t *testing.T) {
	e := newTestEngine(t)

	domain, _, err := e.ResolveOrCreateEntity("Domain")
	require.NoError(t, err)
	a, _, err := e.ResolveOrCreateEntity("CtxA")
	require.NoError(t, err)
	b, _, err := e.ResolveOrCreateEntity("CtxB")
	require.NoError(t, err)

	_, err = e.CreateContext(a, domain, nil)
	require.NoError(t, err)
	_, err = e.CreateContext(b, domain, []symbol.Id{a})
	require.NoError(t, err)

	_, err = e.CreateContext(a, domain, []symbol.Id{b})
	require.Error(t, err)

	var engErr *Error
	require.ErrorAs(t, err, &engErr)
	assert.Equal(t, ContextCycle, engErr.Code)
}

func TestQueryDefeasibleGathersCandidatesThroughHierarchy(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	bird, _, err := e.ResolveOrCreateEntity("Bird")
	require.NoError(t, err)
	penguin, _, err := e.ResolveOrCreateEntity("Penguin")
	require.NoError(t, err)
	canFly, _, err := e.ResolveOrCreateRelation("can-fly")
	require.NoError(t, err)
	isA, _, err := e.ResolveOrCreateRelation("is-a")
	require.NoError(t, err)
	tTrue, _, err := e.ResolveOrCreateEntity("True")
	require.NoError(t, err)
	tFalse, _, err := e.ResolveOrCreateEntity("False")
	require.NoError(t, err)

	require.NoError(t, e.AddTriple(ctx, kg.Triple{Subject: bird, Predicate: canFly, Object: tTrue, Confidence: 0.9}))
	require.NoError(t, e.AddTriple(ctx, kg.Triple{Subject: penguin, Predicate: isA, Object: bird, Confidence: 1.0}))
	require.NoError(t, e.AddTriple(ctx, kg.Triple{Subject: penguin, Predicate: canFly, Object: tFalse, Confidence: 0.9}))

	winner, _ := e.QueryDefeasible(penguin, canFly)
	require.NotNil(t, winner)
	assert.Equal(t, tFalse, *winner)
}

func TestPersistIsNoOpInMemoryOnlyMode(t *testing.T) {
	e := newTestEngine(t)
	assert.NoError(t, e.Persist(context.Background()))
}
