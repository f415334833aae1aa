package dispatcher

import (
	"context"
	"time"
)

// Reasoner is one pluggable solving strategy. CanHandle inspects a Problem
// and, if it can contribute, returns a bid; Solve actually runs, bounded
// by budget.
type Reasoner interface {
	Name() string
	CanHandle(p Problem) (Bid, bool)
	Solve(ctx context.Context, p Problem, budget time.Duration) (interface{}, error)
}
