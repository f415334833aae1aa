package itemmemory

import (
	"github.com/emirpasic/gods/v2/trees/binaryheap"

	"github.com/cogpy/hypersynth/core/symbol"
	"github.com/cogpy/hypersynth/core/vsa"
)

// searchLinearThreshold is the symbol count below which Search scans every
// entry directly rather than bounding the scan with a heap; at this scale
// the heap's bookkeeping costs more than it saves.
const searchLinearThreshold = 10_000

// Match is one search result: the symbol id and its similarity to the
// query vector.
type Match struct {
	ID         symbol.Id
	Similarity float64
}

// Search returns the topK symbols whose vectors are most similar to query,
// sorted by descending similarity. It is always exhaustive: below
// searchLinearThreshold entries, scan and sort; above it, scan once while
// maintaining a size-bounded min-heap of the best candidates so far.
func (m *ItemMemory) Search(query *vsa.HyperVec, topK int) []Match {
	if topK <= 0 {
		return nil
	}

	if m.Len() < searchLinearThreshold {
		return m.searchLinear(query, topK)
	}
	return m.searchHeapBounded(query, topK)
}

func (m *ItemMemory) searchLinear(query *vsa.HyperVec, topK int) []Match {
	var matches []Match
	m.store.Range(func(key, value interface{}) bool {
		hv := value.(*vsa.HyperVec)
		sim, err := vsa.Similarity(query, hv)
		if err != nil {
			return true
		}
		matches = append(matches, Match{ID: key.(symbol.Id), Similarity: sim})
		return true
	})

	sortMatchesDescending(matches)
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}

func (m *ItemMemory) searchHeapBounded(query *vsa.HyperVec, topK int) []Match {
	heap := binaryheap.NewWith(func(a, b Match) int {
		switch {
		case a.Similarity < b.Similarity:
			return -1
		case a.Similarity > b.Similarity:
			return 1
		default:
			return 0
		}
	})

	m.store.Range(func(key, value interface{}) bool {
		hv := value.(*vsa.HyperVec)
		sim, err := vsa.Similarity(query, hv)
		if err != nil {
			return true
		}
		match := Match{ID: key.(symbol.Id), Similarity: sim}

		if heap.Size() < topK {
			heap.Push(match)
		} else if worst, ok := heap.Peek(); ok && match.Similarity > worst.Similarity {
			heap.Pop()
			heap.Push(match)
		}
		return true
	})

	out := make([]Match, 0, heap.Size())
	for {
		v, ok := heap.Pop()
		if !ok {
			break
		}
		out = append(out, v)
	}
	// heap pops smallest first; reverse for descending order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func sortMatchesDescending(matches []Match) {
	for i := 1; i < len(matches); i++ {
		for j := i; j > 0 && matches[j-1].Similarity < matches[j].Similarity; j-- {
			matches[j-1], matches[j] = matches[j], matches[j-1]
		}
	}
}
