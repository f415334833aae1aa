package provenance

import "errors"

// ErrUnavailable is returned by every read operation when the ledger
// was constructed without a data directory: records are dropped and reads
// are refused rather than silently returning an empty history.
var ErrUnavailable = errors.New("provenance: ledger unavailable (no data directory configured)")
