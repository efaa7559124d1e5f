// Multi-precision arithmetic over the limb representation, plus small
// bit-level queries used by operator inversion logic.
package bvsls

import "math/bits"

// log2 returns the index of the most significant set bit of w.
// w must be non-zero.
func log2(w uint64) int {
	return bits.Len64(w) - 1
}

// Sub1 decrements out by one modulo 2^Width(), borrowing bit by bit.
// Decrementing zero yields the all-ones value.
func (v *Valuation) Sub1(out *Vector) {
	for i := 0; i < v.bw; i++ {
		if out.Bit(i) {
			out.SetBit(i, false)
			return
		}
		out.SetBit(i, true)
	}
}

// SetSub stores a - b modulo 2^Width() into out.
func (v *Valuation) SetSub(out, a, b *Vector) {
	var borrow uint64
	for i := 0; i < v.nw; i++ {
		out.words[i], borrow = bits.Sub64(a.words[i], b.words[i], borrow)
	}
	v.clearOverflowBits(out)
}

// SetAdd stores a + b modulo 2^Width() into out and reports whether the
// true mathematical sum reached 2^Width(). The overflow report is a
// signal for the caller's scoring logic, not an error; out always holds
// the truncated sum.
func (v *Valuation) SetAdd(out, a, b *Vector) bool {
	var carry uint64
	for i := 0; i < v.nw; i++ {
		out.words[i], carry = bits.Add64(a.words[i], b.words[i], carry)
	}
	ovfl := carry != 0 || v.HasOverflow(out)
	v.clearOverflowBits(out)
	return ovfl
}

// SetMul stores a * b modulo 2^Width() into out. When checkOverflow is
// set it additionally reports whether the true mathematical product
// exceeded the declared width. Schoolbook multiplication over the limbs;
// the double-width intermediate never escapes.
func (v *Valuation) SetMul(out, a, b *Vector, checkOverflow bool) bool {
	prod := make([]uint64, 2*v.nw)
	for i := 0; i < v.nw; i++ {
		if a.words[i] == 0 {
			continue
		}
		var carry uint64
		for j := 0; j < v.nw; j++ {
			hi, lo := bits.Mul64(a.words[i], b.words[j])
			var c uint64
			lo, c = bits.Add64(lo, prod[i+j], 0)
			hi += c
			lo, c = bits.Add64(lo, carry, 0)
			hi += c
			prod[i+j] = lo
			carry = hi
		}
		prod[i+v.nw] = carry
	}

	ovfl := false
	if checkOverflow {
		ovfl = prod[v.nw-1]&^v.mask != 0
		for i := v.nw; i < 2*v.nw; i++ {
			ovfl = ovfl || prod[i] != 0
		}
	}
	for i := 0; i < v.nw; i++ {
		out.words[i] = prod[i]
	}
	v.clearOverflowBits(out)
	return ovfl
}

// ShiftRight writes the committed value shifted right by shift bits into
// out, filling with zeros from the top. shift must be less than Width().
func (v *Valuation) ShiftRight(out *Vector, shift int) {
	debugAssert(shift < v.bw, "shift amount exceeds width")
	for i := 0; i < v.bw; i++ {
		out.SetBit(i, i+shift < v.bw && v.bits.Bit(i+shift))
	}
	debugAssert(v.WellFormed(), "shift broke well-formedness")
}

// MSB returns the index of the most significant set bit of src, or
// Width() if src is zero.
func (v *Valuation) MSB(src *Vector) int {
	debugAssert(!v.HasOverflow(src), "overflow in source")
	for i := v.nw - 1; i >= 0; i-- {
		if src.words[i] != 0 {
			return i*limbBits + log2(src.words[i])
		}
	}
	return v.bw
}

// Parity returns the index of the lowest set bit of src, or Width() if
// src is zero.
func (v *Valuation) Parity(src *Vector) int { return src.Parity() }

// IsPowerOfTwo reports whether exactly one bit of src is set.
func (v *Valuation) IsPowerOfTwo(src *Vector) bool {
	c := 0
	for i := 0; i < v.nw; i++ {
		c += bits.OnesCount64(src.words[i])
	}
	return c == 1
}

// ToNat folds the committed value into a machine integer, saturating at
// max: if the value, or any set bit beyond the reach of max, exceeds max
// the result is max itself. max must be small enough that doubling it
// cannot overflow.
func (v *Valuation) ToNat(max int) int {
	debugAssert(!v.HasOverflow(&v.bits), "overflow in committed value")
	debugAssert(max >= 0 && max < 1<<62, "saturation bound too large")
	p := 1
	value := 0
	for i := 0; i < v.bw; i++ {
		if p >= max {
			for j := i; j < v.bw; j++ {
				if v.bits.Bit(j) {
					return max
				}
			}
			return value
		}
		if v.bits.Bit(i) {
			value += p
		}
		p <<= 1
	}
	return value
}
