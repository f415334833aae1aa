package microtheory

import "errors"

// ErrCycle is returned by CreateContext when adding the requested parents
// would create a specialization cycle.
var ErrCycle = errors.New("microtheory: specialization would create a cycle")
