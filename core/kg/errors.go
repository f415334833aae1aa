package kg

import "errors"

// ErrTripleNotFound is returned by RemoveTriple when no matching edge exists.
var ErrTripleNotFound = errors.New("kg: triple not found")
