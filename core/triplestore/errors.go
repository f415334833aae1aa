package triplestore

import "errors"

// ErrNotConnected is returned by any Store operation when the underlying
// Dgraph client has not established a connection.
var ErrNotConnected = errors.New("triplestore: not connected to dgraph")

// ErrMalformedQuery is returned when ParseSelect/ParseAsk cannot recognize
// the SPARQL-shaped input.
var ErrMalformedQuery = errors.New("triplestore: malformed query")
