package dispatcher

import (
	"context"
	"time"

	"github.com/emirpasic/gods/v2/trees/binaryheap"
	"go.uber.org/zap"
)

// DispatchTrace records how a Dispatch call resolved: every bid collected,
// which reasoner won, and how long the whole Dispatch call took.
type DispatchTrace struct {
	Problem  Problem
	Bids     map[string]Bid
	Winner   string
	Elapsed  time.Duration
	Attempts []string
}

// Dispatcher holds the registered reasoner pool, grounded on the same
// executor-pool shape the teacher's ConcurrentExecutor/TaskDistributor
// used for distributing work across workers, adapted here to distribute a
// single problem across competing solving strategies instead.
type Dispatcher struct {
	reasoners []Reasoner
	log       *zap.Logger
}

// New creates a dispatcher with no reasoners registered yet.
func New(log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{log: log}
}

// Register adds r to the pool of reasoners considered on every Dispatch.
func (d *Dispatcher) Register(r Reasoner) {
	d.reasoners = append(d.reasoners, r)
}

type candidate struct {
	reasoner Reasoner
	bid      Bid
}

// Dispatch collects bids from every registered reasoner, tries them in
// ascending score order (cheapest, most confident first), and returns the
// first one to succeed within its per-reasoner budget.
func (d *Dispatcher) Dispatch(ctx context.Context, p Problem, perReasonerBudget time.Duration) (interface{}, *DispatchTrace, error) {
	start := time.Now()
	trace := &DispatchTrace{Problem: p, Bids: make(map[string]Bid)}

	heap := binaryheap.NewWith(func(a, b candidate) int {
		sa, sb := a.bid.score(), b.bid.score()
		switch {
		case sa < sb:
			return -1
		case sa > sb:
			return 1
		default:
			return 0
		}
	})

	for _, r := range d.reasoners {
		bid, ok := r.CanHandle(p)
		if !ok {
			continue
		}
		trace.Bids[r.Name()] = bid
		heap.Push(candidate{reasoner: r, bid: bid})
	}

	if heap.Size() == 0 {
		return nil, trace, ErrNoReasonerAvailable
	}

	failed := newAllFailed()

	for {
		c, ok := heap.Pop()
		if !ok {
			break
		}

		trace.Attempts = append(trace.Attempts, c.reasoner.Name())
		attemptStart := time.Now()

		runCtx, cancel := context.WithTimeout(ctx, perReasonerBudget)
		out, err := c.reasoner.Solve(runCtx, p, perReasonerBudget)
		cancel()

		elapsed := time.Since(attemptStart)
		if err == nil {
			trace.Winner = c.reasoner.Name()
			trace.Elapsed = time.Since(start)
			return out, trace, nil
		}

		if runCtx.Err() == context.DeadlineExceeded {
			err = ErrTimeout
		}
		d.log.Debug("dispatcher: reasoner failed", zap.String("reasoner", c.reasoner.Name()), zap.Error(err))
		failed.record(c.reasoner.Name(), err, elapsed)
	}

	trace.Elapsed = time.Since(start)
	return nil, trace, failed
}
