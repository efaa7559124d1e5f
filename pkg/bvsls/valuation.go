// Valuation: per-variable search state and the candidate/commit protocol.
// Floor/ceiling search and randomized sampling live in search.go, the
// wrap-around interval logic in range.go and multi-precision arithmetic in
// arith.go.
package bvsls

import (
	"fmt"
	"math/big"
	"strings"
)

// Valuation holds the search state of one fixed-width bit-vector variable:
// the committed value, a candidate value under evaluation, a fixed/free
// bit mask, an optional wrap-around interval constraint and a
// signed-prefix length.
//
// The committed value always satisfies the fixed mask and the current
// range ("well formed"); every exported mutator restores that invariant
// before returning. The candidate slot may transiently violate constraints
// mid-construction, but CommitEval promotes it only when it is admissible.
//
// Fixed and Eval are exported because the owning solver mutates them
// directly: the fixed mask is written by constraint ingestion before
// admissibility queries, and the candidate slot is filled by move
// proposals. The committed bits are only reachable through accessors and
// change only through CommitEval.
//
// A Valuation is exclusively owned by its controlling solver thread; no
// operation blocks or suspends.
type Valuation struct {
	bits         Vector // committed value; in range whenever a range is set
	lo, hi       Vector // half-open wrap-around interval [lo, hi); lo == hi means unconstrained
	signedPrefix int    // top bits forced to agree with the sign bit

	bw   int    // declared bit width
	nw   int    // limbs per value
	mask uint64 // top-limb mask

	// Fixed marks locked bit positions: bit i = 1 means every candidate
	// must agree with the committed value at position i. The unused high
	// bits of the top limb are permanently marked fixed (they are zero).
	Fixed Vector

	// Eval is the candidate slot operated on by the proposal entry points
	// and promoted by CommitEval.
	Eval Vector
}

// New creates a Valuation for the declared bit width. bw must be >= 1.
func New(bw int) *Valuation {
	v := &Valuation{}
	v.SetWidth(bw)
	return v
}

// SetWidth reconfigures the valuation for a new bit width, resetting all
// state (values, fixed mask, range, signed prefix). SetWidth(0) releases
// the instance for later reuse; callers must not invoke any other method
// between release and reconfiguration.
func (v *Valuation) SetWidth(bw int) {
	debugAssert(bw >= 0, "negative bit width")
	v.bw = bw
	v.signedPrefix = 0
	v.bits.SetWidth(bw)
	v.Eval.SetWidth(bw)
	v.Fixed.SetWidth(bw)
	v.lo.SetWidth(bw)
	v.hi.SetWidth(bw)
	if bw == 0 {
		v.nw = 0
		v.mask = 0
		return
	}
	v.nw = v.bits.nw
	v.mask = v.bits.mask
	// Bits beyond the declared width do not exist; mark them fixed at
	// zero so limb-level operations can treat the top limb uniformly.
	v.Fixed.words[v.nw-1] = ^v.mask
}

// Width returns the declared bit width.
func (v *Valuation) Width() int { return v.bw }

// Limbs returns the number of limbs per value slot.
func (v *Valuation) Limbs() int { return v.nw }

// NumBytes returns the number of bytes needed to hold one value.
func (v *Valuation) NumBytes() int { return (v.bw + 7) / 8 }

// SetSigned declares that the prefix most significant bits must agree
// with the sign bit (bit Width()-1), modeling signed extension semantics.
// A prefix of 0 disables sign repair.
func (v *Valuation) SetSigned(prefix int) { v.signedPrefix = prefix }

// Bits returns the committed value. The caller must treat it as read-only;
// it changes only through CommitEval.
func (v *Valuation) Bits() *Vector { return &v.bits }

// GetBit returns bit i of the committed value.
func (v *Valuation) GetBit(i int) bool { return v.bits.Bit(i) }

// Sign returns the committed sign bit (bit Width()-1).
func (v *Valuation) Sign() bool { return v.bits.Bit(v.bw - 1) }

// Value returns the committed value as an arbitrary-precision integer.
func (v *Valuation) Value() *big.Int { return v.bits.Value(v.nw) }

// EvalValue returns the candidate value as an arbitrary-precision integer.
func (v *Valuation) EvalValue() *big.Int { return v.Eval.Value(v.nw) }

// Lo returns the interval lower bound as an arbitrary-precision integer.
func (v *Valuation) Lo() *big.Int { return v.lo.Value(v.nw) }

// Hi returns the interval upper bound as an arbitrary-precision integer.
func (v *Valuation) Hi() *big.Int { return v.hi.Value(v.nw) }

// Get copies the committed value into dst.
func (v *Valuation) Get(dst *Vector) { v.bits.CopyTo(v.nw, dst) }

// SetValue writes the low Width() bits of n into dst.
func (v *Valuation) SetValue(dst *Vector, n *big.Int) {
	for i := 0; i < v.bw; i++ {
		dst.SetBit(i, n.Bit(i) != 0)
	}
	v.clearOverflowBits(dst)
}

// Eq reports whether the committed value equals other's committed value.
func (v *Valuation) Eq(other *Valuation) bool { return v.bits.Equal(&other.bits) }

// EqVec reports whether the committed value equals the given vector.
func (v *Valuation) EqVec(other *Vector) bool { return v.bits.Equal(other) }

// HasOverflow reports whether a has bits set at or above the declared
// width. Such a vector violates the no-overflow invariant.
func (v *Valuation) HasOverflow(a *Vector) bool {
	return a.words[v.nw-1]&^v.mask != 0
}

// clearOverflowBits restores the no-overflow invariant on a.
func (v *Valuation) clearOverflowBits(a *Vector) {
	debugAssert(v.nw > 0, "released valuation")
	a.words[v.nw-1] &= v.mask
	debugAssert(!v.HasOverflow(a), "overflow after masking")
}

// IsZero reports whether a is zero (the top limb is masked before the
// test, so transient overflow bits are ignored).
func (v *Valuation) IsZero(a *Vector) bool {
	for i := 0; i < v.nw-1; i++ {
		if a.words[i] != 0 {
			return false
		}
	}
	return a.words[v.nw-1]&v.mask == 0
}

// IsOne reports whether a equals 1.
func (v *Valuation) IsOne(a *Vector) bool {
	debugAssert(!v.HasOverflow(a), "overflow in source")
	for i := 1; i < v.nw; i++ {
		if a.words[i] != 0 {
			return false
		}
	}
	return a.words[0] == 1
}

// IsOnes reports whether a is the all-ones value 2^Width()-1.
func (v *Valuation) IsOnes(a *Vector) bool {
	debugAssert(!v.HasOverflow(a), "overflow in source")
	for i := 0; i+1 < v.nw; i++ {
		if ^a.words[i] != 0 {
			return false
		}
	}
	return v.mask&^a.words[v.nw-1] == 0
}

// InRange implements the wrap-around interval semantics for a candidate:
// if lo == hi the domain is unconstrained; if lo < hi the candidate must
// satisfy lo <= b < hi; if hi < lo the interval wraps through zero and the
// candidate must satisfy b < hi or b >= lo. O(Limbs()).
func (v *Valuation) InRange(b *Vector) bool {
	debugAssert(!v.HasOverflow(b), "overflow in candidate")
	c := v.lo.cmp(&v.hi)
	if c == 0 {
		return true
	}
	if c < 0 {
		return v.lo.cmp(b) <= 0 && b.cmp(&v.hi) < 0
	}
	return v.lo.cmp(b) <= 0 || b.cmp(&v.hi) < 0
}

// HasRange reports whether a range constraint is active (lo != hi).
func (v *Valuation) HasRange() bool { return !v.lo.Equal(&v.hi) }

// CanSet reports whether newBits agrees with the committed value on every
// fixed bit and lies in the current range, i.e. whether it is admissible
// as a candidate.
func (v *Valuation) CanSet(newBits *Vector) bool {
	debugAssert(!v.HasOverflow(newBits), "overflow in candidate")
	for i := 0; i < v.nw; i++ {
		if (newBits.words[i]^v.bits.words[i])&v.Fixed.words[i] != 0 {
			return false
		}
	}
	return v.InRange(newBits)
}

// TrySet stores src into the candidate slot if it is admissible. On
// failure the candidate slot is left unchanged.
func (v *Valuation) TrySet(src *Vector) bool {
	if !v.CanSet(src) {
		return false
	}
	v.Set(src)
	return true
}

// Set stores src into the candidate slot unconditionally, truncating to
// the declared width.
func (v *Valuation) Set(src *Vector) {
	for i := v.nw - 1; i >= 0; i-- {
		v.Eval.words[i] = src.words[i]
	}
	v.clearOverflowBits(&v.Eval)
}

// TrySetBit flips candidate bit i to b. It fails, leaving the candidate
// unchanged, if position i is fixed to the opposite value or if the
// updated candidate would leave the current range.
func (v *Valuation) TrySetBit(i int, b bool) bool {
	debugAssert(v.InRange(&v.bits), "committed value out of range")
	if v.Fixed.Bit(i) && v.bits.Bit(i) != b {
		return false
	}
	v.Eval.SetBit(i, b)
	if v.InRange(&v.Eval) {
		return true
	}
	v.Eval.SetBit(i, !b)
	return false
}

// SetBitRange sets bits [lo, hi) of dst to b unconditionally.
func (v *Valuation) SetBitRange(dst *Vector, lo, hi int, b bool) {
	for i := lo; i < hi; i++ {
		dst.SetBit(i, b)
	}
}

// TrySetBitRange sets bits [lo, hi) of dst to b if no fixed bit in the
// span disagrees; otherwise dst is left unchanged.
func (v *Valuation) TrySetBitRange(dst *Vector, lo, hi int, b bool) bool {
	for i := lo; i < hi; i++ {
		if v.Fixed.Bit(i) && v.bits.Bit(i) != b {
			return false
		}
	}
	for i := lo; i < hi; i++ {
		dst.SetBit(i, b)
	}
	return true
}

// SetZero zeroes the candidate slot.
func (v *Valuation) SetZero() {
	for i := 0; i < v.nw; i++ {
		v.Eval.words[i] = 0
	}
}

// CommitEval promotes the candidate to the committed value. The promotion
// happens if and only if the candidate agrees with the committed value on
// all fixed bits and lies in the current range; otherwise the committed
// value is untouched and CommitEval reports false. There is no partial
// commit, and this is the only operation that changes the committed value
// outside range tightening.
func (v *Valuation) CommitEval() bool {
	for i := 0; i < v.nw; i++ {
		if v.Fixed.words[i]&(v.bits.words[i]^v.Eval.words[i]) != 0 {
			return false
		}
	}
	if !v.InRange(&v.Eval) {
		return false
	}
	for i := 0; i < v.nw; i++ {
		v.bits.words[i] = v.Eval.words[i]
	}
	debugAssert(v.WellFormed(), "commit broke well-formedness")
	return true
}

// WellFormed reports the class invariant: the committed value has no
// overflow bits and lies in the range whenever a range is set.
func (v *Valuation) WellFormed() bool {
	return !v.HasOverflow(&v.bits) && (!v.HasRange() || v.InRange(&v.bits))
}

// set copies src into dst over the in-use limbs.
func (v *Valuation) set(dst, src *Vector) {
	for i := 0; i < v.nw; i++ {
		dst.words[i] = src.words[i]
	}
}

// setWord writes the single-limb value w into dst.
func (v *Valuation) setWord(dst *Vector, w uint64) {
	dst.words[0] = w
	for i := 1; i < v.nw; i++ {
		dst.words[i] = 0
	}
}

// String renders the committed value, candidate, fixed mask and active
// range for diagnostics.
func (v *Valuation) String() string {
	var sb strings.Builder
	sb.WriteString(v.bits.String())
	sb.WriteString(" ev: ")
	sb.WriteString(v.Eval.String())
	if !v.IsZero(&v.Fixed) {
		sb.WriteString(" fix: ")
		sb.WriteString(v.Fixed.String())
	}
	if v.HasRange() {
		fmt.Fprintf(&sb, " [%s, %s[", v.lo.String(), v.hi.String())
	}
	return sb.String()
}
