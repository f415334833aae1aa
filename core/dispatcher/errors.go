package dispatcher

import (
	"errors"
	"time"

	"github.com/hashicorp/go-multierror"
)

// ErrNoReasonerAvailable is returned when no registered reasoner bids on a
// Problem.
var ErrNoReasonerAvailable = errors.New("dispatcher: no reasoner available")

// ErrTimeout is returned when a reasoner does not complete within its
// allotted per-reasoner budget.
var ErrTimeout = errors.New("dispatcher: reasoner timed out")

// AllFailedError wraps every reasoner's failure when all bidders were
// tried and none succeeded.
type AllFailedError struct {
	Tried []string
	Err   *multierror.Error
}

func (e *AllFailedError) Error() string {
	return "dispatcher: all reasoners failed: " + e.Err.Error()
}

func (e *AllFailedError) Unwrap() error {
	return e.Err
}

func newAllFailed() *AllFailedError {
	return &AllFailedError{Err: &multierror.Error{}}
}

func (e *AllFailedError) record(name string, err error, elapsed time.Duration) {
	e.Tried = append(e.Tried, name)
	e.Err = multierror.Append(e.Err, &reasonerFailure{name: name, err: err, elapsed: elapsed})
}

type reasonerFailure struct {
	name    string
	err     error
	elapsed time.Duration
}

func (f *reasonerFailure) Error() string {
	return f.name + " (" + f.elapsed.String() + "): " + f.err.Error()
}

func (f *reasonerFailure) Unwrap() error {
	return f.err
}
