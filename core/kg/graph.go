package kg

import (
	"sync"

	"github.com/RoaringBitmap/roaring"

	"github.com/cogpy/hypersynth/core/symbol"
)

// Graph is the in-memory knowledge graph: an edge table plus roaring-bitmap
// indices over subject, object, and predicate so lookups along any of the
// three axes avoid a full scan.
type Graph struct {
	mu sync.RWMutex

	edges      map[uint32]Triple
	nextEdgeID uint32
	byKey      map[tripleKey]uint32

	bySubject     map[symbol.Id]*roaring.Bitmap
	byObject      map[symbol.Id]*roaring.Bitmap
	byPredicate   map[symbol.Id]*roaring.Bitmap
	byCompartment map[symbol.Id]*roaring.Bitmap
}

// New returns an empty knowledge graph.
func New() *Graph {
	return &Graph{
		edges:         make(map[uint32]Triple),
		byKey:         make(map[tripleKey]uint32),
		bySubject:     make(map[symbol.Id]*roaring.Bitmap),
		byObject:      make(map[symbol.Id]*roaring.Bitmap),
		byPredicate:   make(map[symbol.Id]*roaring.Bitmap),
		byCompartment: make(map[symbol.Id]*roaring.Bitmap),
	}
}

func indexAdd(idx map[symbol.Id]*roaring.Bitmap, key symbol.Id, edgeID uint32) {
	bm, ok := idx[key]
	if !ok {
		bm = roaring.New()
		idx[key] = bm
	}
	bm.Add(edgeID)
}

func indexRemove(idx map[symbol.Id]*roaring.Bitmap, key symbol.Id, edgeID uint32) {
	bm, ok := idx[key]
	if !ok {
		return
	}
	bm.Remove(edgeID)
	if bm.IsEmpty() {
		delete(idx, key)
	}
}

// InsertTriple adds t as a new edge and returns its edge id. Re-inserting an
// identical (subject, predicate, object, compartment) tuple overwrites the
// prior edge's metadata in place rather than creating a duplicate edge.
func (g *Graph) InsertTriple(t Triple) uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, ok := g.byKey[t.key()]; ok {
		g.edges[existing] = t
		return existing
	}

	id := g.nextEdgeID
	g.nextEdgeID++

	g.edges[id] = t
	g.byKey[t.key()] = id
	indexAdd(g.bySubject, t.Subject, id)
	indexAdd(g.byObject, t.Object, id)
	indexAdd(g.byPredicate, t.Predicate, id)
	indexAdd(g.byCompartment, t.Compartment, id)

	return id
}

// RemoveTriple deletes the edge matching t exactly, including compartment.
func (g *Graph) RemoveTriple(t Triple) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, ok := g.byKey[t.key()]
	if !ok {
		return ErrTripleNotFound
	}

	delete(g.edges, id)
	delete(g.byKey, t.key())
	indexRemove(g.bySubject, t.Subject, id)
	indexRemove(g.byObject, t.Object, id)
	indexRemove(g.byPredicate, t.Predicate, id)
	indexRemove(g.byCompartment, t.Compartment, id)

	return nil
}

// ObjectsOf returns every object reachable from subject via predicate.
func (g *Graph) ObjectsOf(subject, predicate symbol.Id) []symbol.Id {
	g.mu.RLock()
	defer g.mu.RUnlock()

	subjBm, ok := g.bySubject[subject]
	if !ok {
		return nil
	}
	predBm, ok := g.byPredicate[predicate]
	if !ok {
		return nil
	}

	matched := roaring.And(subjBm, predBm)
	objects := make([]symbol.Id, 0, matched.GetCardinality())
	it := matched.Iterator()
	for it.HasNext() {
		objects = append(objects, g.edges[it.Next()].Object)
	}
	return objects
}

// SubjectsOf returns every subject that reaches object via predicate.
func (g *Graph) SubjectsOf(predicate, object symbol.Id) []symbol.Id {
	g.mu.RLock()
	defer g.mu.RUnlock()

	objBm, ok := g.byObject[object]
	if !ok {
		return nil
	}
	predBm, ok := g.byPredicate[predicate]
	if !ok {
		return nil
	}

	matched := roaring.And(objBm, predBm)
	subjects := make([]symbol.Id, 0, matched.GetCardinality())
	it := matched.Iterator()
	for it.HasNext() {
		subjects = append(subjects, g.edges[it.Next()].Subject)
	}
	return subjects
}

// TriplesFrom returns every edge with subject as its subject.
func (g *Graph) TriplesFrom(subject symbol.Id) []Triple {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.collect(g.bySubject[subject])
}

// TriplesTo returns every edge with object as its object.
func (g *Graph) TriplesTo(object symbol.Id) []Triple {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.collect(g.byObject[object])
}

// TriplesForPredicate returns every edge labeled predicate.
func (g *Graph) TriplesForPredicate(predicate symbol.Id) []Triple {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.collect(g.byPredicate[predicate])
}

func (g *Graph) collect(bm *roaring.Bitmap) []Triple {
	if bm == nil {
		return nil
	}
	out := make([]Triple, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, g.edges[it.Next()])
	}
	return out
}

// TriplesForCompartment returns every edge scoped to compartment.
func (g *Graph) TriplesForCompartment(compartment symbol.Id) []Triple {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.collect(g.byCompartment[compartment])
}

// AllTriples returns every edge currently in the graph. The order is not
// significant.
func (g *Graph) AllTriples() []Triple {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]Triple, 0, len(g.edges))
	for _, t := range g.edges {
		out = append(out, t)
	}
	return out
}

// BulkLoad inserts every triple in ts, returning the assigned edge ids in
// the same order.
func (g *Graph) BulkLoad(ts []Triple) []uint32 {
	ids := make([]uint32, len(ts))
	for i, t := range ts {
		ids[i] = g.InsertTriple(t)
	}
	return ids
}

// TripleCount returns the number of distinct edges in the graph.
func (g *Graph) TripleCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// SymbolCount returns the number of distinct symbols that appear as a
// subject or object of some edge.
func (g *Graph) SymbolCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	seen := make(map[symbol.Id]struct{}, len(g.bySubject)+len(g.byObject))
	for s := range g.bySubject {
		seen[s] = struct{}{}
	}
	for o := range g.byObject {
		seen[o] = struct{}{}
	}
	return len(seen)
}
