// Limb vector: a fixed-width unsigned integer over 64-bit limbs.
// This file defines the Vector container used for every value slot of a
// Valuation (committed bits, candidate, fixed mask, range bounds) and for
// caller-supplied scratch buffers.
package bvsls

import (
	"fmt"
	"math/big"
	"math/bits"
	"strings"
)

// limbBits is the width of one limb. Limbs are uint64; the vector is
// little-endian by limb index (words[0] holds bits 0..63).
const limbBits = 64

// Vector is a fixed-width unsigned integer backed by little-endian 64-bit
// limbs. A Vector is sized once for a declared bit width via NewVector or
// SetWidth and then mutated in place by kernel operations.
//
// Invariant: after any width-aware operation, no bit at position >= Width()
// is set ("no overflow"). The raw limb-level operations (word writes inside
// the kernel) may transiently violate this; they restore it by masking the
// most significant in-use limb before returning.
//
// The backing slice carries one spare limb beyond the in-use count so
// multi-precision addition can spill a carry without reallocating.
//
// Memory usage: (ceil(bw/64) + 1) * 8 bytes.
type Vector struct {
	bw    int      // declared bit width
	nw    int      // limbs in use: ceil(bw / 64)
	mask  uint64   // clears unused high bits of words[nw-1]
	words []uint64 // little-endian limbs, len nw+1 (spare carry limb)
}

// NewVector creates a zero vector with the given declared bit width.
// bw must be >= 1; a zero-width vector is only reachable through the
// release protocol (SetWidth(0)).
func NewVector(bw int) *Vector {
	v := &Vector{}
	v.SetWidth(bw)
	return v
}

// SetWidth reconfigures the vector for a new declared bit width and zeroes
// its content. SetWidth(0) releases the vector: callers must not read from
// it again until it is reconfigured with a positive width. The backing
// slice is retained across release for reuse as scratch storage.
func (v *Vector) SetWidth(bw int) {
	debugAssert(bw >= 0, "negative bit width")
	v.bw = bw
	if bw == 0 {
		v.nw = 0
		v.mask = 0
		return
	}
	v.nw = (bw + limbBits - 1) / limbBits
	if rem := uint(bw % limbBits); rem == 0 {
		v.mask = ^uint64(0)
	} else {
		v.mask = (uint64(1) << rem) - 1
	}
	if cap(v.words) < v.nw+1 {
		v.words = make([]uint64, v.nw+1)
		return
	}
	v.words = v.words[:v.nw+1]
	for i := range v.words {
		v.words[i] = 0
	}
}

// Width returns the declared bit width.
func (v *Vector) Width() int { return v.bw }

// Limbs returns the number of in-use limbs, ceil(Width()/64).
func (v *Vector) Limbs() int { return v.nw }

// Bit returns the bit at position i. O(1).
func (v *Vector) Bit(i int) bool {
	return v.words[i/limbBits]&(uint64(1)<<(uint(i)%limbBits)) != 0
}

// SetBit sets the bit at position i to b. The update is branch-free:
// the target limb is xor-masked with the desired bit pattern. O(1).
func (v *Vector) SetBit(i int, b bool) {
	w := &v.words[i/limbBits]
	m := uint64(1) << (uint(i) % limbBits)
	var x uint64
	if b {
		x = ^uint64(0)
	}
	*w ^= (x ^ *w) & m
}

// Parity returns the position of the lowest set bit, or Width() if the
// vector is zero. Used for power-of-two detection and increment logic.
func (v *Vector) Parity() int {
	debugAssert(v.bw > 0, "parity of released vector")
	for i := 0; i < v.nw; i++ {
		if v.words[i] != 0 {
			return i*limbBits + bits.TrailingZeros64(v.words[i])
		}
	}
	return v.bw
}

// CopyTo copies the low nw limbs of v into dst.
func (v *Vector) CopyTo(nw int, dst *Vector) {
	debugAssert(nw <= len(v.words), "copy count exceeds limb count")
	for i := 0; i < nw; i++ {
		dst.words[i] = v.words[i]
	}
}

// cmp compares v and o over v's in-use limbs, most significant limb first.
// Both operands must already have their top limb masked; the comparison
// itself is width-oblivious.
func (v *Vector) cmp(o *Vector) int {
	debugAssert(v.nw > 0, "compare on released vector")
	for i := v.nw - 1; i >= 0; i-- {
		if v.words[i] != o.words[i] {
			if v.words[i] < o.words[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Equal reports v == o over v's in-use limbs.
func (v *Vector) Equal(o *Vector) bool { return v.cmp(o) == 0 }

// Less reports v < o as unsigned multi-limb integers.
func (v *Vector) Less(o *Vector) bool { return v.cmp(o) < 0 }

// LessEq reports v <= o as unsigned multi-limb integers.
func (v *Vector) LessEq(o *Vector) bool { return v.cmp(o) <= 0 }

// Greater reports v > o as unsigned multi-limb integers.
func (v *Vector) Greater(o *Vector) bool { return v.cmp(o) > 0 }

// GreaterEq reports v >= o as unsigned multi-limb integers.
func (v *Vector) GreaterEq(o *Vector) bool { return v.cmp(o) >= 0 }

// Value returns the arbitrary-precision integer represented by the low nw
// limbs: sum over i of words[i] * 2^(64*i). Intended for reporting and
// diagnostics, not for the per-move hot path.
func (v *Vector) Value(nw int) *big.Int {
	r := new(big.Int)
	w := new(big.Int)
	for i := nw - 1; i >= 0; i-- {
		r.Lsh(r, limbBits)
		r.Or(r, w.SetUint64(v.words[i]))
	}
	return r
}

// clearTopBits masks off the unused high bits of the most significant
// in-use limb and zeroes the spare carry limb, restoring the no-overflow
// invariant.
func (v *Vector) clearTopBits() {
	debugAssert(v.nw > 0, "mask on released vector")
	v.words[v.nw-1] &= v.mask
	v.words[v.nw] = 0
}

// String renders the vector as lowercase hex without leading zeros.
func (v *Vector) String() string {
	var sb strings.Builder
	nz := false
	for i := v.nw - 1; i >= 0; i-- {
		w := v.words[i]
		if i == v.nw-1 {
			w &= v.mask
		}
		switch {
		case nz:
			fmt.Fprintf(&sb, "%016x", w)
		case w != 0:
			fmt.Fprintf(&sb, "%x", w)
			nz = true
		}
	}
	if !nz {
		return "0"
	}
	return sb.String()
}
