package dispatcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReasoner struct {
	name string
	bid  Bid
	fail bool
}

func (f *fakeReasoner) Name() string { return f.name }

func (f *fakeReasoner) CanHandle(p Problem) (Bid, bool) {
	return f.bid, true
}

func (f *fakeReasoner) Solve(ctx context.Context, p Problem, budget time.Duration) (interface{}, error) {
	if f.fail {
		return nil, errors.New("boom")
	}
	return f.name, nil
}

func TestDispatchPicksCheapestHighestConfidenceBid(t *testing.T) {
	d := New(nil)
	d.Register(&fakeReasoner{name: "slow", bid: Bid{EstimatedCost: 100 * time.Millisecond, Confidence: 0.5}})
	d.Register(&fakeReasoner{name: "fast", bid: Bid{EstimatedCost: 1 * time.Millisecond, Confidence: 0.9}})

	out, trace, err := d.Dispatch(context.Background(), Problem{Kind: ForwardInference}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "fast", out)
	assert.Equal(t, "fast", trace.Winner)
}

func TestDispatchFallsBackOnFailure(t *testing.T) {
	d := New(nil)
	d.Register(&fakeReasoner{name: "fast", bid: Bid{EstimatedCost: time.Millisecond, Confidence: 0.9}, fail: true})
	d.Register(&fakeReasoner{name: "slow", bid: Bid{EstimatedCost: 100 * time.Millisecond, Confidence: 0.5}})

	out, trace, err := d.Dispatch(context.Background(), Problem{Kind: ForwardInference}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "slow", out)
	assert.Equal(t, "slow", trace.Winner)
	assert.Contains(t, trace.Attempts, "fast")
}

func TestDispatchNoReasonerAvailable(t *testing.T) {
	d := New(nil)
	_, _, err := d.Dispatch(context.Background(), Problem{Kind: ForwardInference}, time.Second)
	assert.ErrorIs(t, err, ErrNoReasonerAvailable)
}

func TestDispatchAllFailed(t *testing.T) {
	d := New(nil)
	d.Register(&fakeReasoner{name: "a", bid: Bid{EstimatedCost: time.Millisecond, Confidence: 0.9}, fail: true})
	d.Register(&fakeReasoner{name: "b", bid: Bid{EstimatedCost: time.Millisecond, Confidence: 0.9}, fail: true})

	_, _, err := d.Dispatch(context.Background(), Problem{Kind: ForwardInference}, time.Second)
	var allFailed *AllFailedError
	require.ErrorAs(t, err, &allFailed)
	assert.Len(t, allFailed.Tried, 2)
}

func TestDispatchDeterministic(t *testing.T) {
	build := func() *Dispatcher {
		d := New(nil)
		d.Register(&fakeReasoner{name: "a", bid: Bid{EstimatedCost: 10 * time.Millisecond, Confidence: 0.7}})
		d.Register(&fakeReasoner{name: "b", bid: Bid{EstimatedCost: 5 * time.Millisecond, Confidence: 0.9}})
		return d
	}

	_, trace1, err1 := build().Dispatch(context.Background(), Problem{Kind: ForwardInference}, time.Second)
	_, trace2, err2 := build().Dispatch(context.Background(), Problem{Kind: ForwardInference}, time.Second)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, trace1.Winner, trace2.Winner)
}
