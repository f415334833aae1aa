package vsa

import (
	"math/bits"
	"math/rand"

	bbs "github.com/bits-and-blooms/bitset"
	"golang.org/x/sys/cpu"
)

// wideKernel reports whether the detected CPU supports a word-parallel
// (4-words-per-iteration) fast path instead of the 1-word-at-a-time
// scalar reference path. Real SIMD assembly is out of reach without a
// toolchain to validate it bit-for-bit against the scalar path; this flag
// only changes the loop's stride, never its result, so scalar and "wide"
// runs stay bit-identical as §4.1 requires.
var wideKernel = cpu.X86.HasAVX2 || cpu.ARM64.HasASIMD

// Bind computes the XOR-based binding of a and b. Binding is commutative
// and self-inverse: Bind(a, Bind(a, b)) == b.
func Bind(a, b *HyperVec) (*HyperVec, error) {
	if err := sameShape(a, b); err != nil {
		return nil, err
	}
	return xorVectors(a, b), nil
}

// Unbind recovers one operand of a binding given the other. For Bipolar
// encoding it is identical to Bind, named separately to express intent at
// call sites.
func Unbind(a, b *HyperVec) (*HyperVec, error) {
	return Bind(a, b)
}

func xorVectors(a, b *HyperVec) *HyperVec {
	aw, bw := a.data.Bytes(), b.data.Bytes()
	out := make([]uint64, len(aw))
	xorWords(out, aw, bw)
	return FromBits(bbs.FromWithLength(a.dim, out), a.dim, a.encoding)
}

// xorWords XORs src1 and src2 word-by-word into dst. The "wide" stride is
// functionally identical to the scalar stride; it exists only to exercise
// the CPU-feature-selected code path §4.1 calls for.
func xorWords(dst, src1, src2 []uint64) {
	n := len(dst)
	i := 0
	if wideKernel {
		for ; i+4 <= n; i += 4 {
			dst[i] = src1[i] ^ src2[i]
			dst[i+1] = src1[i+1] ^ src2[i+1]
			dst[i+2] = src1[i+2] ^ src2[i+2]
			dst[i+3] = src1[i+3] ^ src2[i+3]
		}
	}
	for ; i < n; i++ {
		dst[i] = src1[i] ^ src2[i]
	}
}

// Bundle computes the bitwise majority vote across vs. With an even number
// of inputs, exact ties resolve to bit 0 (the Open Question in spec.md §9
// is resolved this way, deterministically).
func Bundle(vs []*HyperVec) (*HyperVec, error) {
	if len(vs) == 0 {
		return nil, ErrDimensionMismatch
	}
	first := vs[0]
	for _, v := range vs[1:] {
		if err := sameShape(first, v); err != nil {
			return nil, err
		}
	}

	dim := first.dim
	counts := make([]int, dim)
	for _, v := range vs {
		for i := uint(0); i < dim; i++ {
			if v.GetBit(i) {
				counts[i]++
			}
		}
	}

	half := len(vs)
	out := New(dim, first.encoding)
	for i := uint(0); i < dim; i++ {
		c := counts[i]
		switch {
		case c*2 > half:
			out.SetBit(i, true)
		case c*2 < half:
			out.SetBit(i, false)
		default:
			// Exact tie (only possible with even len(vs)): deterministic
			// tie-break to bit 0.
			out.SetBit(i, false)
		}
	}
	return out, nil
}

// Permute cyclically rotates a's bits by n positions. Negative n rotates
// the other direction; Permute(Permute(a, n), -n) recovers a.
func Permute(a *HyperVec, n int) *HyperVec {
	dim := int(a.dim)
	if dim == 0 {
		return a.Clone()
	}
	shift := ((n % dim) + dim) % dim
	out := New(a.dim, a.encoding)
	for i := 0; i < dim; i++ {
		src := uint((i - shift + dim) % dim)
		out.SetBit(uint(i), a.GetBit(src))
	}
	return out
}

// Similarity returns the fraction of matching bits between a and b, in
// [0,1]. 0.5 is chance agreement, 1.0 is identical.
func Similarity(a, b *HyperVec) (float64, error) {
	if err := sameShape(a, b); err != nil {
		return 0, err
	}
	aw, bw := a.data.Bytes(), b.data.Bytes()
	matching := uint(0)
	for i := range aw {
		matching += uint(bits.OnesCount64(^(aw[i] ^ bw[i])))
	}
	// The last word may have padding bits beyond dim; those always match
	// (both zero-padded) and must be excluded from the count.
	totalBits := uint(len(aw)) * 64
	padding := totalBits - a.dim
	if padding > 0 {
		matching -= padding
	}
	return float64(matching) / float64(a.dim), nil
}

// Random generates a uniform random hypervector of the given dimension and
// encoding using rng.
func Random(rng *rand.Rand, dim uint, encoding Encoding) *HyperVec {
	out := New(dim, encoding)
	words := out.data.Bytes()
	for i := range words {
		words[i] = rng.Uint64()
	}
	maskPadding(words, dim)
	return FromBits(bbs.FromWithLength(dim, words), dim, encoding)
}

// maskPadding zeroes any bits in the final word beyond dim, keeping the
// invariant that padding bits are always zero so Similarity's padding
// correction stays valid for every constructed HyperVec.
func maskPadding(words []uint64, dim uint) {
	if len(words) == 0 {
		return
	}
	validInLast := dim - uint(len(words)-1)*64
	if validInLast >= 64 {
		return
	}
	mask := uint64(1)<<validInLast - 1
	words[len(words)-1] &= mask
}
