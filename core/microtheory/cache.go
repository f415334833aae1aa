package microtheory

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/cogpy/hypersynth/core/symbol"
)

const ancestorCacheSize = 1024

// ancestorCache memoizes the BFS ancestor ordering per context. It is
// invalidated wholesale whenever a ctx:specializes edge changes — coarse,
// but correct; a per-context invalidation would require tracking
// reverse-dependency sets this package has no other use for.
type ancestorCache struct {
	mu    sync.Mutex
	cache *lru.Cache
}

func newAncestorCache() *ancestorCache {
	c, _ := lru.New(ancestorCacheSize)
	return &ancestorCache{cache: c}
}

func (a *ancestorCache) get(ctx symbol.Id) ([]symbol.Id, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.cache.Get(ctx)
	if !ok {
		return nil, false
	}
	return v.([]symbol.Id), true
}

func (a *ancestorCache) set(ctx symbol.Id, ancestors []symbol.Id) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cache.Add(ctx, ancestors)
}

func (a *ancestorCache) invalidateAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cache.Purge()
}
