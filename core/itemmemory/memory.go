// Package itemmemory maps symbol ids to hypervectors, synthesizing a
// deterministic random vector the first time a symbol is seen and caching
// it thereafter.
package itemmemory

import (
	"math/rand"
	"sync"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"

	"github.com/cogpy/hypersynth/core/symbol"
	"github.com/cogpy/hypersynth/core/vsa"
)

const defaultCacheSize = 4096

// ItemMemory is the authoritative SymbolId -> HyperVec map. Lookups for an
// id never seen before synthesize a new vector deterministically: the same
// id always produces the same vector, even across process restarts,
// because the PRNG seed is derived from the id itself rather than from
// process entropy.
type ItemMemory struct {
	dim      uint
	encoding vsa.Encoding

	store sync.Map // symbol.Id -> *vsa.HyperVec
	cache *lru.Cache
	group singleflight.Group

	mu    sync.RWMutex
	count int
}

// New creates an item memory at the given dimension and encoding, with a
// bounded read-through cache of cacheSize entries (0 uses a sane default).
func New(dim uint, encoding vsa.Encoding, cacheSize int) *ItemMemory {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, _ := lru.New(cacheSize)
	return &ItemMemory{dim: dim, encoding: encoding, cache: cache}
}

func seedFor(id symbol.Id) int64 {
	h := xxhash.New()
	buf := [8]byte{
		byte(id), byte(id >> 8), byte(id >> 16), byte(id >> 24),
		byte(id >> 32), byte(id >> 40), byte(id >> 48), byte(id >> 56),
	}
	h.Write(buf[:])
	return int64(h.Sum64())
}

func synthesize(id symbol.Id, dim uint, encoding vsa.Encoding) *vsa.HyperVec {
	rng := rand.New(rand.NewSource(seedFor(id)))
	return vsa.Random(rng, dim, encoding)
}

// Get returns the vector for id if it has already been created, without
// synthesizing one.
func (m *ItemMemory) Get(id symbol.Id) (*vsa.HyperVec, bool) {
	if v, ok := m.cache.Get(id); ok {
		return v.(*vsa.HyperVec), true
	}
	if v, ok := m.store.Load(id); ok {
		hv := v.(*vsa.HyperVec)
		m.cache.Add(id, hv)
		return hv, true
	}
	return nil, false
}

// GetOrCreate returns the existing vector for id, or deterministically
// synthesizes and stores one. Concurrent callers for the same unseen id
// collapse into a single synthesis via singleflight so the authoritative
// store never holds two different vectors for one id.
func (m *ItemMemory) GetOrCreate(id symbol.Id) *vsa.HyperVec {
	if hv, ok := m.Get(id); ok {
		return hv
	}

	v, _, _ := m.group.Do(id.String(), func() (interface{}, error) {
		if existing, ok := m.store.Load(id); ok {
			return existing.(*vsa.HyperVec), nil
		}
		hv := synthesize(id, m.dim, m.encoding)
		m.store.Store(id, hv)
		m.mu.Lock()
		m.count++
		m.mu.Unlock()
		return hv, nil
	})

	hv := v.(*vsa.HyperVec)
	m.cache.Add(id, hv)
	return hv
}

// Insert stores an explicit vector for id, overwriting any existing one.
func (m *ItemMemory) Insert(id symbol.Id, hv *vsa.HyperVec) {
	_, existed := m.store.Load(id)
	m.store.Store(id, hv)
	m.cache.Add(id, hv)
	if !existed {
		m.mu.Lock()
		m.count++
		m.mu.Unlock()
	}
}

// Contains reports whether id has a vector without synthesizing one.
func (m *ItemMemory) Contains(id symbol.Id) bool {
	_, ok := m.Get(id)
	return ok
}

// Len returns the number of distinct symbols that currently have vectors.
func (m *ItemMemory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.count
}
