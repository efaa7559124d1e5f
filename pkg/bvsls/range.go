// Wrap-around interval ingestion and two-way range/value tightening.
package bvsls

import "math/big"

// AddRange intersects the current range with the half-open interval
// [lo, hi) taken modulo 2^Width(). The first call (no prior range) adopts
// the interval verbatim; later calls move each boundary inward only when
// the proposed boundary lies strictly inside the current interval, so the
// range can only tighten. An interval with lo == hi after reduction is
// ignored. Ends by synchronizing the committed value and the lower bound
// through TightenRange.
//
// Called by external interval propagation whenever a tighter range is
// derived; the fixed mask must be up to date at that point.
func (v *Valuation) AddRange(lo, hi *big.Int) {
	mod := new(big.Int).Lsh(big.NewInt(1), uint(v.bw))
	l := new(big.Int).Mod(lo, mod)
	h := new(big.Int).Mod(hi, mod)
	if l.Cmp(h) == 0 {
		return
	}

	nl := NewVector(v.bw)
	nh := NewVector(v.bw)
	v.SetValue(nl, l)
	v.SetValue(nh, h)

	if !v.HasRange() {
		v.set(&v.lo, nl)
		v.set(&v.hi, nh)
	} else if v.lo.Less(&v.hi) {
		if v.lo.Less(nl) && nl.Less(&v.hi) {
			v.set(&v.lo, nl)
		}
		if v.lo.Less(nh) && nh.Less(&v.hi) {
			v.set(&v.hi, nh)
		}
	} else {
		// Wrapping interval: a point is inside when it sits above lo or
		// below hi.
		if v.lo.Less(nl) || nl.Less(&v.hi) {
			v.set(&v.lo, nl)
		}
		if v.lo.Less(nh) && nh.Less(&v.hi) {
			v.set(&v.hi, nh)
		} else if v.hi.Less(&v.lo) && (nh.Less(&v.hi) || v.lo.Less(nh)) {
			v.set(&v.hi, nh)
		}
	}

	debugAssert(!v.HasOverflow(&v.lo), "overflow in lower bound")
	debugAssert(!v.HasOverflow(&v.hi), "overflow in upper bound")
	v.TightenRange()
	debugAssert(v.WellFormed(), "range update broke well-formedness")
}

// TightenRange synchronizes the committed value and the range in both
// directions.
//
// First, if the committed value violates the range it is rewritten to the
// value inside the range that keeps the most significant bits compatible
// with the fixed mask: a direct copy of lo when no fixed bit blocks it,
// otherwise lo adjusted at the highest blocking fixed bit with the first
// free disagreement pushed to one.
//
// Second, the lower bound is tightened against the fixed bits: at the most
// significant fixed position where the committed value and lo disagree, lo
// is raised to match the committed value from that bit upward.
//
// Terminates with the valuation well formed.
func (v *Valuation) TightenRange() {
	if !v.HasRange() {
		return
	}

	if !v.InRange(&v.bits) {
		compatible := true
		for i := 0; i < v.nw; i++ {
			if v.Fixed.words[i]&(v.bits.words[i]^v.lo.words[i]) != 0 {
				compatible = false
				break
			}
		}
		if compatible {
			v.set(&v.bits, &v.lo)
		} else {
			tmp := NewVector(v.bw)
			v.set(tmp, &v.lo)
			// Highest fixed bit where the committed value disagrees
			// with lo.
			maxDiff := -1
			for i := 0; i < v.bw; i++ {
				if v.Fixed.Bit(i) && v.bits.Bit(i) != v.lo.Bit(i) {
					maxDiff = i
				}
			}
			debugAssert(maxDiff >= 0, "no fixed disagreement below lo")

			for i := 0; i <= maxDiff; i++ {
				tmp.SetBit(i, v.Fixed.Bit(i) && v.bits.Bit(i))
			}
			found0 := false
			for i := maxDiff + 1; i < v.bw; i++ {
				if found0 || v.lo.Bit(i) || v.Fixed.Bit(i) {
					tmp.SetBit(i, v.lo.Bit(i) && v.Fixed.Bit(i))
				} else {
					tmp.SetBit(i, true)
					found0 = true
				}
			}
			v.set(&v.bits, tmp)
		}
	}

	// Tighten lo from the fixed bits of the committed value.
	for i := v.bw - 1; i >= 0; i-- {
		if !v.Fixed.Bit(i) {
			continue
		}
		if v.bits.Bit(i) == v.lo.Bit(i) {
			continue
		}
		if v.bits.Bit(i) {
			v.lo.SetBit(i, true)
			for j := i - 1; j >= 0; j-- {
				v.lo.SetBit(j, v.Fixed.Bit(j) && v.bits.Bit(j))
			}
		} else {
			for j := v.bw - 1; j >= 0; j-- {
				v.lo.SetBit(j, v.Fixed.Bit(j) && v.bits.Bit(j))
			}
		}
		break
	}

	debugAssert(v.WellFormed(), "tightening broke well-formedness")
}
