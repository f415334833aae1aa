// Package vsa implements the Vector Symbolic Architecture substrate:
// bit-packed hypervectors and the bind/bundle/permute/similarity operations
// that give the engine its hyperdimensional-computing channel.
package vsa

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Encoding identifies the component representation used by a HyperVec.
// Bipolar is the only encoding this package is required to support.
type Encoding int

const (
	// Bipolar represents each component as ±1, packed one bit per component.
	Bipolar Encoding = iota
)

func (e Encoding) String() string {
	switch e {
	case Bipolar:
		return "Bipolar"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

// DefaultDimension is the standard high-capacity hypervector width.
const DefaultDimension = 10_000

// HyperVec is a fixed-width hyperdimensional vector. In Bipolar encoding
// each bit represents a ±1 component: bit set means +1, bit clear means -1.
type HyperVec struct {
	data     *bitset.BitSet
	dim      uint
	encoding Encoding
}

// New allocates a zero HyperVec of the given dimension and encoding.
func New(dim uint, encoding Encoding) *HyperVec {
	return &HyperVec{data: bitset.New(dim), dim: dim, encoding: encoding}
}

// FromBits builds a HyperVec from an explicit bit buffer, taking ownership
// of it. The caller must size it to dim bits.
func FromBits(bits *bitset.BitSet, dim uint, encoding Encoding) *HyperVec {
	return &HyperVec{data: bits, dim: dim, encoding: encoding}
}

// Dim reports the number of components (not bytes or words).
func (h *HyperVec) Dim() uint { return h.dim }

// Encoding reports the component representation.
func (h *HyperVec) Encoding() Encoding { return h.encoding }

// GetBit returns the value of component i (true = +1, false = -1).
func (h *HyperVec) GetBit(i uint) bool { return h.data.Test(i) }

// SetBit sets component i.
func (h *HyperVec) SetBit(i uint, v bool) {
	if v {
		h.data.Set(i)
	} else {
		h.data.Clear(i)
	}
}

// Data exposes the raw word buffer for SIMD-style kernels. Callers must
// not resize it.
func (h *HyperVec) Data() []uint64 { return h.data.Bytes() }

// Clone returns a deep, independent copy.
func (h *HyperVec) Clone() *HyperVec {
	return &HyperVec{data: h.data.Clone(), dim: h.dim, encoding: h.encoding}
}

// Equal reports whether two HyperVecs have identical dimension, encoding,
// and bit content.
func (h *HyperVec) Equal(other *HyperVec) bool {
	if h.dim != other.dim || h.encoding != other.encoding {
		return false
	}
	return h.data.Equal(other.data)
}

// sameShape validates that a and b share dimension and encoding, the
// precondition for every binary VSA operation.
func sameShape(a, b *HyperVec) error {
	if a.dim != b.dim || a.encoding != b.encoding {
		return fmt.Errorf("%w: dims (%d,%s) vs (%d,%s)", ErrDimensionMismatch,
			a.dim, a.encoding, b.dim, b.encoding)
	}
	return nil
}
