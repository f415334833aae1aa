package registry

import (
	"time"

	"github.com/cogpy/hypersynth/core/persistence"
	"github.com/cogpy/hypersynth/core/symbol"
)

// Snapshot captures the registry and allocator state into the persisted
// form the facade writes via core/persistence.MetaStore.
func Snapshot(r *Registry, a *Allocator, equivalences []persistence.Equivalence) persistence.MetaSnapshot {
	all := r.All()
	symbols := make([]persistence.SymbolRecord, 0, len(all))
	for _, meta := range all {
		symbols = append(symbols, persistence.SymbolRecord{
			ID:        uint64(meta.ID),
			Kind:      int(meta.Kind),
			Label:     meta.Label,
			CreatedAt: meta.CreatedAt,
		})
	}
	return persistence.MetaSnapshot{
		NextSymbolID: a.Peek(),
		Symbols:      symbols,
		Equivalences: equivalences,
	}
}

// Restore rebuilds a Registry and Allocator from a persisted snapshot.
func Restore(snapshot persistence.MetaSnapshot) (*Registry, *Allocator) {
	r := New()
	for _, rec := range snapshot.Symbols {
		meta := symbol.Meta{
			ID:        symbol.Id(rec.ID),
			Kind:      symbol.Kind(rec.Kind),
			Label:     rec.Label,
			CreatedAt: rec.CreatedAt,
		}
		if meta.CreatedAt == 0 {
			meta.CreatedAt = time.Now().UnixNano()
		}
		_ = r.Register(meta)
	}
	next := snapshot.NextSymbolID
	if next == 0 {
		next = 1
	}
	return r, NewAllocatorFrom(next)
}
