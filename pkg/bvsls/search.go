// Constrained floor/ceiling search, randomized admissible sampling and
// directional repair for Valuation.
package bvsls

// GetAtMost computes into dst the largest value that is at most src,
// agrees with the committed value on all fixed bits, and lies in the
// current range.
//
// The search projects src onto the fixed bits, then repairs the most
// significant position where the projection landed on the wrong side of
// src: an undershoot maximizes all free bits below it, an overshoot gives
// up the lowest free one bit above it and maximizes everything below.
// Finally the result is clamped into the range by substituting hi-1 when
// it falls outside. Returns false, with dst undefined, when no value at
// or below src satisfies the constraints.
func (v *Valuation) GetAtMost(src, dst *Vector) bool {
	debugAssert(!v.HasOverflow(src), "overflow in source")
	for i := 0; i < v.nw; i++ {
		dst.words[i] = ^v.Fixed.words[i]&src.words[i] | v.Fixed.words[i]&v.bits.words[i]
	}
	d := v.msbDiff(dst, src)
	if d >= 0 {
		if !dst.Bit(d) {
			// Projection undershot src at d (fixed zero under a one):
			// everything below d is free game, maximize it.
			for j := 0; j < d; j++ {
				if !v.Fixed.Bit(j) {
					dst.SetBit(j, true)
				}
			}
		} else {
			// Projection overshot src at d (fixed one over a zero): drop
			// below src by clearing the lowest free one above d, then
			// maximize everything below that position.
			p := -1
			for j := d + 1; j < v.bw; j++ {
				if !v.Fixed.Bit(j) && dst.Bit(j) {
					p = j
					break
				}
			}
			if p < 0 {
				return false
			}
			dst.SetBit(p, false)
			for j := 0; j < p; j++ {
				if !v.Fixed.Bit(j) {
					dst.SetBit(j, true)
				}
			}
		}
	}
	debugAssert(!v.HasOverflow(dst), "overflow in floor result")
	return v.clampDown(dst)
}

// GetAtLeast computes into dst the smallest value that is at least src,
// agrees with the committed value on all fixed bits, and lies in the
// current range. Mirror image of GetAtMost: an overshoot minimizes the
// free bits below the most significant difference, an undershoot raises
// the lowest free zero above it; the result is clamped by substituting lo
// when it falls outside the range. Returns false, with dst undefined, when
// no value at or above src satisfies the constraints.
func (v *Valuation) GetAtLeast(src, dst *Vector) bool {
	debugAssert(!v.HasOverflow(src), "overflow in source")
	for i := 0; i < v.nw; i++ {
		dst.words[i] = ^v.Fixed.words[i]&src.words[i] | v.Fixed.words[i]&v.bits.words[i]
	}
	d := v.msbDiff(dst, src)
	if d >= 0 {
		if dst.Bit(d) {
			// Projection overshot src at d: minimize the free bits below.
			for j := 0; j < d; j++ {
				if !v.Fixed.Bit(j) {
					dst.SetBit(j, false)
				}
			}
		} else {
			// Projection undershot src at d: climb above src by setting
			// the lowest free zero above d, then minimize below it.
			p := -1
			for j := d + 1; j < v.bw; j++ {
				if !v.Fixed.Bit(j) && !dst.Bit(j) {
					p = j
					break
				}
			}
			if p < 0 {
				return false
			}
			dst.SetBit(p, true)
			for j := 0; j < p; j++ {
				if !v.Fixed.Bit(j) {
					dst.SetBit(j, false)
				}
			}
		}
	}
	debugAssert(!v.HasOverflow(dst), "overflow in ceiling result")
	return v.clampUp(dst)
}

// msbDiff returns the most significant bit position where a and b differ,
// or -1 if they are equal over the declared width.
func (v *Valuation) msbDiff(a, b *Vector) int {
	for i := v.nw - 1; i >= 0; i-- {
		if diff := a.words[i] ^ b.words[i]; diff != 0 {
			return i*limbBits + log2(diff)
		}
	}
	return -1
}

// clampDown pulls dst into the current range from above: if dst overshoots
// the interval it is replaced by hi-1. Fails when the range excludes every
// value at or below dst.
func (v *Valuation) clampDown(dst *Vector) bool {
	if v.lo.Less(&v.hi) {
		if v.lo.Greater(dst) {
			return false
		}
		if dst.GreaterEq(&v.hi) {
			v.set(dst, &v.hi)
			v.Sub1(dst)
		}
	} else if dst.GreaterEq(&v.hi) && v.lo.Greater(dst) {
		v.set(dst, &v.hi)
		v.Sub1(dst)
	}
	debugAssert(!v.HasOverflow(dst), "overflow after clamp")
	return true
}

// clampUp pulls dst into the current range from below: if dst undershoots
// the interval it is replaced by lo. Fails when the range excludes every
// value at or above dst.
func (v *Valuation) clampUp(dst *Vector) bool {
	if v.lo.Less(&v.hi) {
		if dst.GreaterEq(&v.hi) {
			return false
		}
		if v.lo.Greater(dst) {
			v.set(dst, &v.lo)
		}
	} else if dst.GreaterEq(&v.hi) && v.lo.Greater(dst) {
		v.set(dst, &v.lo)
	}
	debugAssert(!v.HasOverflow(dst), "overflow after clamp")
	return true
}

// SetRandomAtMost stores into the candidate slot a randomized admissible
// value at most src, using tmp as scratch. With probability 1/2 the
// deterministic floor is taken directly; otherwise the floor is perturbed
// downward at random and re-validated. A failed perturbation falls back to
// the deterministic floor once rather than retrying: sampling is bounded
// and non-exhaustive by design.
func (v *Valuation) SetRandomAtMost(src, tmp *Vector, r RandomSource) bool {
	if !v.GetAtMost(src, tmp) {
		return false
	}
	if v.IsZero(tmp) || r.Intn(2) == 0 {
		return v.TrySet(tmp)
	}
	v.SetRandomBelow(tmp, r)
	if !v.HasRange() || v.IsZero(&v.lo) || v.lo.LessEq(tmp) {
		return v.TrySet(tmp)
	}
	// Not lucky; settle for the deterministic floor.
	return v.GetAtMost(src, tmp) && v.TrySet(tmp)
}

// SetRandomAtLeast stores into the candidate slot a randomized admissible
// value at least src, using tmp as scratch. Mirror image of
// SetRandomAtMost with the same single-fallback strategy.
func (v *Valuation) SetRandomAtLeast(src, tmp *Vector, r RandomSource) bool {
	if !v.GetAtLeast(src, tmp) {
		return false
	}
	if v.IsOnes(tmp) || r.Intn(2) == 0 {
		return v.TrySet(tmp)
	}
	v.SetRandomAbove(tmp, r)
	if !v.HasRange() || v.IsZero(&v.hi) || v.hi.Greater(tmp) {
		return v.TrySet(tmp)
	}
	// Not lucky; settle for the deterministic ceiling.
	return v.GetAtLeast(src, tmp) && v.TrySet(tmp)
}

// SetRandomInRange stores into the candidate slot a randomized admissible
// value in the inclusive interval [lo, hi], using tmp as scratch. A coin
// flip decides whether the search walks up from lo or down from hi; the
// chosen bound is then randomly perturbed and rounded back into the
// interval, with one deterministic fallback on failure.
func (v *Valuation) SetRandomInRange(lo, hi, tmp *Vector, r RandomSource) bool {
	if r.Intn(2) == 0 {
		if !v.GetAtLeast(lo, tmp) {
			return false
		}
		debugAssert(v.InRange(tmp), "ceiling left the range")
		if hi.Less(tmp) {
			return false
		}
		if v.IsOnes(tmp) || r.Intn(2) == 0 {
			return v.TrySet(tmp)
		}
		v.SetRandomAbove(tmp, r)
		v.RoundDown(tmp, func(t *Vector) bool { return hi.GreaterEq(t) && v.InRange(t) })
		if v.InRange(tmp) && lo.LessEq(tmp) && hi.GreaterEq(tmp) {
			return v.TrySet(tmp)
		}
		return v.GetAtLeast(lo, tmp) && hi.GreaterEq(tmp) && v.TrySet(tmp)
	}
	if !v.GetAtMost(hi, tmp) {
		return false
	}
	debugAssert(v.InRange(tmp), "floor left the range")
	if lo.Greater(tmp) {
		return false
	}
	if v.IsZero(tmp) || r.Intn(2) == 0 {
		return v.TrySet(tmp)
	}
	v.SetRandomBelow(tmp, r)
	v.RoundUp(tmp, func(t *Vector) bool { return lo.LessEq(t) && v.InRange(t) })
	if v.InRange(tmp) && lo.LessEq(tmp) && hi.GreaterEq(tmp) {
		return v.TrySet(tmp)
	}
	return v.GetAtMost(hi, tmp) && lo.LessEq(tmp) && v.TrySet(tmp)
}

// RoundDown monotonically clears free bits of dst from the most
// significant end until isFeasible holds or the free bits are exhausted,
// then repairs the sign prefix. The predicate is supplied by the caller
// and defines the feasible region to pull the candidate back into.
func (v *Valuation) RoundDown(dst *Vector, isFeasible func(*Vector) bool) {
	for i := v.bw - 1; i >= 0 && !isFeasible(dst); i-- {
		if !v.Fixed.Bit(i) && dst.Bit(i) {
			dst.SetBit(i, false)
		}
	}
	v.repairSignBits(dst)
}

// RoundUp monotonically sets free bits of dst from the least significant
// end until isFeasible holds or the free bits are exhausted, then repairs
// the sign prefix.
func (v *Valuation) RoundUp(dst *Vector, isFeasible func(*Vector) bool) {
	for i := 0; i < v.bw && !isFeasible(dst); i++ {
		if !v.Fixed.Bit(i) && !dst.Bit(i) {
			dst.SetBit(i, true)
		}
	}
	v.repairSignBits(dst)
}

// SetRandomAbove ors random values into the free bits of dst, producing a
// value at least as large bitwise, and repairs the sign prefix.
func (v *Valuation) SetRandomAbove(dst *Vector, r RandomSource) {
	for i := 0; i < v.nw; i++ {
		dst.words[i] |= r.Uint64() & ^v.Fixed.words[i]
	}
	v.repairSignBits(dst)
}

// SetRandomBelow replaces dst by a random strictly smaller value that
// agrees with dst on fixed bits: a uniformly chosen free set bit is
// cleared and the free bits below it are randomized. A dst of zero, or one
// with no free set bit, is left unchanged.
func (v *Valuation) SetRandomBelow(dst *Vector, r RandomSource) {
	if v.IsZero(dst) {
		return
	}
	// Reservoir-sample one free set bit.
	n, idx := 0, -1
	for i := 0; i < v.bw; i++ {
		if dst.Bit(i) && !v.Fixed.Bit(i) {
			n++
			if r.Intn(n) == 0 {
				idx = i
			}
		}
	}
	if idx < 0 {
		return
	}
	dst.SetBit(idx, false)
	for i := 0; i < idx; i++ {
		if !v.Fixed.Bit(i) {
			dst.SetBit(i, r.Intn(2) == 0)
		}
	}
	v.repairSignBits(dst)
}

// SetRepair projects dst onto the fixed bits, repairs the sign prefix and,
// if the result still violates the range, walks it toward the range in the
// direction given by tryDown first. On success the repaired value is
// stored in the candidate slot. dst is consumed as scratch; its content
// after return is undefined.
func (v *Valuation) SetRepair(tryDown bool, dst *Vector) bool {
	for i := 0; i < v.nw; i++ {
		dst.words[i] = ^v.Fixed.words[i]&dst.words[i] | v.Fixed.words[i]&v.bits.words[i]
	}
	v.repairSignBits(dst)
	if v.InRange(dst) {
		v.set(&v.Eval, dst)
		return true
	}
	if tryDown {
		v.repairDown(dst)
		v.repairUp(dst)
	} else {
		v.repairUp(dst)
		v.repairDown(dst)
	}
	v.repairSignBits(dst)
	if v.InRange(dst) {
		v.set(&v.Eval, dst)
		return true
	}
	return false
}

// repairDown clears free bits from the most significant end while dst is
// out of range.
func (v *Valuation) repairDown(dst *Vector) {
	for i := v.bw - 1; i >= 0 && !v.InRange(dst); i-- {
		if !v.Fixed.Bit(i) && dst.Bit(i) {
			dst.SetBit(i, false)
		}
	}
}

// repairUp sets free bits from the least significant end while dst is out
// of range.
func (v *Valuation) repairUp(dst *Vector) {
	for i := 0; i < v.bw && !v.InRange(dst); i++ {
		if !v.Fixed.Bit(i) && !dst.Bit(i) {
			dst.SetBit(i, true)
		}
	}
}

// MinFeasible writes into out the globally smallest admissible value: the
// range lower bound when a range is set, otherwise the fixed-consistent
// value with all free bits cleared.
func (v *Valuation) MinFeasible(out *Vector) {
	if v.lo.Less(&v.hi) {
		v.lo.CopyTo(v.nw, out)
	} else {
		for i := 0; i < v.nw; i++ {
			out.words[i] = v.Fixed.words[i] & v.bits.words[i]
		}
	}
	v.repairSignBits(out)
	debugAssert(!v.HasOverflow(out), "overflow in minimum")
}

// MaxFeasible writes into out the globally largest admissible value: one
// below the range upper bound when a range is set, otherwise the
// fixed-consistent value with all free bits set.
func (v *Valuation) MaxFeasible(out *Vector) {
	if v.lo.Less(&v.hi) {
		v.hi.CopyTo(v.nw, out)
		v.Sub1(out)
	} else {
		for i := 0; i < v.nw; i++ {
			out.words[i] = ^v.Fixed.words[i] | v.bits.words[i]
		}
	}
	v.repairSignBits(out)
	debugAssert(!v.HasOverflow(out), "overflow in maximum")
}

// Variant writes into dst a random value agreeing with the committed value
// on all fixed bits, with a repaired sign prefix.
func (v *Valuation) Variant(dst *Vector, r RandomSource) {
	for i := 0; i < v.nw; i++ {
		dst.words[i] = r.Uint64()&^v.Fixed.words[i] | v.Fixed.words[i]&v.bits.words[i]
	}
	v.repairSignBits(dst)
	v.clearOverflowBits(dst)
}

// repairSignBits forces the signedPrefix most significant bits of dst to
// agree with the sign bit. If a disagreeing prefix bit is fixed, the sign
// bit cannot win: the free portion of the prefix is flipped to the fixed
// sign instead.
func (v *Valuation) repairSignBits(dst *Vector) {
	p := v.signedPrefix
	if p == 0 {
		return
	}
	if p > v.bw {
		p = v.bw
	}
	sign := dst.Bit(v.bw - 1)
	lo := v.bw - p
	for i := v.bw - 1; i >= lo; i-- {
		if dst.Bit(i) == sign {
			continue
		}
		if v.Fixed.Bit(i) {
			for j := v.bw - 1; j >= lo; j-- {
				if !v.Fixed.Bit(j) {
					dst.SetBit(j, !sign)
				}
			}
			return
		}
		dst.SetBit(i, sign)
	}
}
