package egraph

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// EClassId identifies an equivalence class of terms.
type EClassId int

// ENode is one representation of a term inside an e-class: an operator
// applied to child e-classes, or a leaf.
type ENode struct {
	Op   Op
	Args []EClassId
	Leaf *Leaf
}

func (n ENode) key() string {
	if n.Leaf != nil {
		if n.Leaf.IsSymbol {
			return "sym:" + strconv.FormatUint(uint64(n.Leaf.Symbol), 10)
		}
		return "int:" + strconv.FormatInt(n.Leaf.Int, 10)
	}
	h := xxhash.New()
	fmt.Fprintf(h, "op:%d", n.Op)
	for _, a := range n.Args {
		fmt.Fprintf(h, ":%d", a)
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

type eclass struct {
	nodes []ENode
}

// EGraph is a classic union-find e-graph over the term language: each
// e-class is a set of equivalent e-nodes, congruence is restored by
// Rebuild, which Saturate calls once per round of Unions.
type EGraph struct {
	parent  []EClassId
	classes map[EClassId]*eclass
	hashcon map[string]EClassId
	nextID  EClassId
}

// New returns an empty e-graph.
func New() *EGraph {
	return &EGraph{
		classes: make(map[EClassId]*eclass),
		hashcon: make(map[string]EClassId),
	}
}

func (g *EGraph) newClass(n ENode) EClassId {
	id := g.nextID
	g.nextID++
	g.parent = append(g.parent, id)
	g.classes[id] = &eclass{nodes: []ENode{n}}
	return id
}

// Find returns the canonical e-class id for id, path-compressing along the
// way.
func (g *EGraph) Find(id EClassId) EClassId {
	for g.parent[id] != id {
		g.parent[id] = g.parent[g.parent[id]]
		id = g.parent[id]
	}
	return id
}

func (g *EGraph) canonicalNode(n ENode) ENode {
	if n.Leaf != nil {
		return n
	}
	args := make([]EClassId, len(n.Args))
	for i, a := range n.Args {
		args[i] = g.Find(a)
	}
	return ENode{Op: n.Op, Args: args, Leaf: nil}
}

// Add inserts term into the e-graph, returning the e-class it belongs to.
// Structurally identical e-nodes (same op, same canonical argument
// e-classes) are deduplicated via the hashcons table.
func (g *EGraph) Add(t *Term) EClassId {
	var n ENode
	if t.IsLeaf() {
		n = ENode{Leaf: t.Leaf}
	} else {
		args := make([]EClassId, len(t.Args))
		for i, a := range t.Args {
			args[i] = g.Add(a)
		}
		n = ENode{Op: t.Op, Args: args}
	}

	n = g.canonicalNode(n)
	key := n.key()
	if id, ok := g.hashcon[key]; ok {
		return g.Find(id)
	}

	id := g.newClass(n)
	g.hashcon[key] = id
	return id
}

// Union merges the e-classes of a and b, if not already merged. Returns
// true if a merge happened.
func (g *EGraph) Union(a, b EClassId) bool {
	ra, rb := g.Find(a), g.Find(b)
	if ra == rb {
		return false
	}

	keep, drop := ra, rb
	if len(g.classes[drop].nodes) > len(g.classes[keep].nodes) {
		keep, drop = drop, keep
	}

	g.classes[keep].nodes = append(g.classes[keep].nodes, g.classes[drop].nodes...)
	delete(g.classes, drop)
	g.parent[drop] = keep
	return true
}

// Rebuild restores the hashcons table's invariant (canonical args, no
// duplicate keys pointing at now-merged classes) after a batch of Unions.
// Equality saturation calls this once per round.
func (g *EGraph) Rebuild() {
	newHashcon := make(map[string]EClassId, len(g.hashcon))
	for id, cls := range g.classes {
		canon := make([]ENode, 0, len(cls.nodes))
		for _, n := range cls.nodes {
			canon = append(canon, g.canonicalNode(n))
		}
		cls.nodes = canon
		for _, n := range canon {
			key := n.key()
			if existing, ok := newHashcon[key]; ok && existing != id {
				g.Union(existing, id)
				id = g.Find(id)
			} else {
				newHashcon[key] = id
			}
		}
	}
	g.hashcon = newHashcon
}

// NodesOf returns every e-node currently recorded in id's e-class.
func (g *EGraph) NodesOf(id EClassId) []ENode {
	return g.classes[g.Find(id)].nodes
}
