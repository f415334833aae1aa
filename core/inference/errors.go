package inference

import "errors"

// ErrNoSeeds is returned by Run when the query's Seeds slice is empty.
var ErrNoSeeds = errors.New("inference: no seeds provided")
