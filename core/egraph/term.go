// Package egraph implements a small equality-saturation engine over the
// engine-wide term language used to simplify expressions and to verify
// VSA-derived inference recoveries.
package egraph

import "github.com/cogpy/hypersynth/core/symbol"

// Op is one of the eight operators in the term language.
type Op int

const (
	OpTriple Op = iota
	OpBind
	OpBundle
	OpSimilar
	OpPermute
	OpAnd
	OpOr
	OpNot
)

func (o Op) String() string {
	switch o {
	case OpTriple:
		return "triple"
	case OpBind:
		return "bind"
	case OpBundle:
		return "bundle"
	case OpSimilar:
		return "similar"
	case OpPermute:
		return "permute"
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpNot:
		return "not"
	default:
		return "unknown"
	}
}

// commutative reports whether Op's argument order does not affect meaning.
// The commutativity rewrite rules list their operators explicitly and do
// not call it.
func (o Op) commutative() bool {
	switch o {
	case OpBind, OpBundle, OpSimilar, OpAnd, OpOr:
		return true
	default:
		return false
	}
}

// Leaf is a term language leaf: either an integer literal or a symbol id.
type Leaf struct {
	IsSymbol bool
	Symbol   symbol.Id
	Int      int64
}

// Term is a parsed term-language AST node, the input to Add.
type Term struct {
	Op   Op
	Args []*Term
	Leaf *Leaf
}

// IsLeaf reports whether t is a leaf node.
func (t *Term) IsLeaf() bool {
	return t.Leaf != nil
}

// NewLeafSymbol builds a leaf term wrapping a symbol id.
func NewLeafSymbol(id symbol.Id) *Term {
	return &Term{Leaf: &Leaf{IsSymbol: true, Symbol: id}}
}

// NewLeafInt builds a leaf term wrapping an integer literal.
func NewLeafInt(v int64) *Term {
	return &Term{Leaf: &Leaf{Int: v}}
}

// NewOp builds an interior term node.
func NewOp(op Op, args ...*Term) *Term {
	return &Term{Op: op, Args: args}
}
