// Package registry implements the symbol registry and id allocator:
// monotonic id issuance plus a durable, concurrency-safe bidirectional
// label↔id map.
package registry

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/cogpy/hypersynth/core/symbol"
)

// ErrLabelTaken is returned by Register when the label is already bound to
// a different symbol id.
var ErrLabelTaken = errors.New("registry: label already bound to a different id")

// ErrEmptyLabel is returned when a caller attempts to register an empty
// label; labels must be non-empty per §3.
var ErrEmptyLabel = errors.New("registry: label must be non-empty")

// Registry maintains id→SymbolMeta and label(lowercase)→id, enforcing the
// injectivity invariant from §3: (label_lowercase) → id is injective,
// id → label is total.
type Registry struct {
	mu        sync.RWMutex
	byID      map[symbol.Id]symbol.Meta
	byLabel   map[string]symbol.Id
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		byID:    make(map[symbol.Id]symbol.Meta),
		byLabel: make(map[string]symbol.Id),
	}
}

// Register binds meta.ID to meta.Label. It fails with ErrLabelTaken if the
// label is already bound to a different id, and is a no-op (success) if
// the exact same id is already registered under that label.
func (r *Registry) Register(meta symbol.Meta) error {
	if meta.Label == "" {
		return ErrEmptyLabel
	}
	key := strings.ToLower(meta.Label)

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byLabel[key]; ok && existing != meta.ID {
		return fmt.Errorf("%w: %q bound to %d, wanted %d", ErrLabelTaken, meta.Label, existing, meta.ID)
	}

	r.byLabel[key] = meta.ID
	r.byID[meta.ID] = meta
	return nil
}

// Lookup resolves a label (case-insensitive) to its bound id.
func (r *Registry) Lookup(label string) (symbol.Id, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byLabel[strings.ToLower(label)]
	return id, ok
}

// Get returns the metadata registered for id, if any.
func (r *Registry) Get(id symbol.Id) (symbol.Meta, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.byID[id]
	return meta, ok
}

// ResolveLabel returns the label bound to id, or the synthetic "sym:<id>"
// form when id is unknown — resolve_label is total per §4.3.
func (r *Registry) ResolveLabel(id symbol.Id) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if meta, ok := r.byID[id]; ok {
		return meta.Label
	}
	return id.String()
}

// Len returns the number of registered symbols.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// All returns a snapshot slice of every registered SymbolMeta, for
// persistence.
func (r *Registry) All() []symbol.Meta {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]symbol.Meta, 0, len(r.byID))
	for _, meta := range r.byID {
		out = append(out, meta)
	}
	return out
}
