package engine

import (
	"github.com/cogpy/hypersynth/core/persistence"
	"github.com/cogpy/hypersynth/core/vsa"
)

// Config configures a new Engine. DataDir, if non-empty, switches the
// engine into persistent mode: a meta store for registry/allocator
// snapshots, a provenance ledger, and (when DgraphConfig is also set) a
// Dgraph-backed triple store kept in sync with the in-memory graph.
type Config struct {
	Dimension           uint
	Encoding            vsa.Encoding
	DataDir             string
	DgraphConfig        *persistence.DgraphConfig
	ItemMemoryCacheSize int
}

const defaultItemMemoryCacheSize = 4096

func (c Config) itemMemoryCacheSize() int {
	if c.ItemMemoryCacheSize > 0 {
		return c.ItemMemoryCacheSize
	}
	return defaultItemMemoryCacheSize
}
