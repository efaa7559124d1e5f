// This example walks through the core bvsls primitives: building a
// valuation, constraining it with fixed bits and intervals, and using
// the search helpers to find and sample admissible values.
package main

import (
	"fmt"
	"math/big"
	"math/rand"

	"github.com/gitrdm/bvsls/pkg/bvsls"
)

func main() {
	fmt.Println("=== BVSLS Examples ===")
	fmt.Println()

	basicCommit()
	fixedBits()
	intervalConstraints()
	floorCeilingSearch()
	randomizedSampling()
	arithmeticHelpers()
}

// basicCommit demonstrates the candidate/commit protocol.
func basicCommit() {
	fmt.Println("1. Candidate and Commit:")

	v := bvsls.New(8)
	fmt.Printf("   fresh 8-bit valuation: %s\n", v)

	// Stage a candidate, then promote it to the committed value.
	cand := bvsls.NewVector(8)
	v.SetValue(cand, big.NewInt(0xA5))
	if v.TrySet(cand) && v.CommitEval() {
		fmt.Printf("   committed 0xA5: value = %s\n", v.Value())
	}
	fmt.Println()
}

// fixedBits demonstrates how locked bit positions gate updates.
func fixedBits() {
	fmt.Println("2. Fixed Bits:")

	v := bvsls.New(8)
	cand := bvsls.NewVector(8)
	v.SetValue(cand, big.NewInt(0b0100_0010))
	v.TrySet(cand)
	v.CommitEval()

	// Lock bits 1 and 6 at their committed values.
	v.Fixed.SetBit(1, true)
	v.Fixed.SetBit(6, true)

	agree := bvsls.NewVector(8)
	v.SetValue(agree, big.NewInt(0b0100_0011))
	fmt.Printf("   can set 0b01000011 (agrees on 1, 6)? %v\n", v.CanSet(agree))

	clash := bvsls.NewVector(8)
	v.SetValue(clash, big.NewInt(0b0000_0010))
	fmt.Printf("   can set 0b00000010 (flips bit 6)?  %v\n", v.CanSet(clash))
	fmt.Println()
}

// intervalConstraints demonstrates wrap-around interval intersection.
func intervalConstraints() {
	fmt.Println("3. Interval Constraints:")

	v := bvsls.New(8)
	v.AddRange(big.NewInt(10), big.NewInt(100))
	fmt.Printf("   after [10, 100[: %s\n", v)

	// Intersecting intervals only ever tighten.
	v.AddRange(big.NewInt(20), big.NewInt(50))
	fmt.Printf("   after [20, 50[:  %s\n", v)

	// A wrapped interval passes through zero.
	w := bvsls.New(4)
	w.AddRange(big.NewInt(12), big.NewInt(4))
	probe := bvsls.NewVector(4)
	for _, x := range []int64{0, 3, 7, 13} {
		w.SetValue(probe, big.NewInt(x))
		fmt.Printf("   %2d in [12, 4[ over 4 bits? %v\n", x, w.InRange(probe))
	}
	fmt.Println()
}

// floorCeilingSearch demonstrates the admissible floor/ceiling queries.
func floorCeilingSearch() {
	fmt.Println("4. Floor and Ceiling Search:")

	v := bvsls.New(8)
	cand := bvsls.NewVector(8)
	v.SetValue(cand, big.NewInt(0b0001_0000))
	v.TrySet(cand)
	v.CommitEval()
	v.Fixed.SetBit(4, true) // bit 4 locked at 1

	src := bvsls.NewVector(8)
	dst := bvsls.NewVector(8)

	// Largest admissible value that does not exceed 7: impossible to go
	// below 16 with bit 4 locked high, so the query fails.
	v.SetValue(src, big.NewInt(7))
	fmt.Printf("   floor of 7 with bit 4 locked high: feasible = %v\n",
		v.GetAtMost(src, dst))

	// Smallest admissible value at or above 40.
	v.SetValue(src, big.NewInt(40))
	if v.GetAtLeast(src, dst) {
		fmt.Printf("   ceiling of 40: %s\n", dst)
	}
	fmt.Println()
}

// randomizedSampling demonstrates the randomized admissible-value helpers.
func randomizedSampling() {
	fmt.Println("5. Randomized Sampling:")

	r := rand.New(rand.NewSource(42))
	v := bvsls.New(8)
	v.AddRange(big.NewInt(32), big.NewInt(64))

	lo := bvsls.NewVector(8)
	hi := bvsls.NewVector(8)
	tmp := bvsls.NewVector(8)
	v.SetValue(lo, big.NewInt(40))
	v.SetValue(hi, big.NewInt(50))

	fmt.Print("   five draws from [40, 50]:")
	for i := 0; i < 5; i++ {
		v.SetRandomInRange(lo, hi, tmp, r)
		v.CommitEval()
		fmt.Printf(" %s", v.Value())
	}
	fmt.Println()
	fmt.Println()
}

// arithmeticHelpers demonstrates the width-aware arithmetic kernels.
func arithmeticHelpers() {
	fmt.Println("6. Arithmetic Helpers:")

	v := bvsls.New(8)
	a := bvsls.NewVector(8)
	b := bvsls.NewVector(8)
	out := bvsls.NewVector(8)

	v.SetValue(a, big.NewInt(200))
	v.SetValue(b, big.NewInt(100))

	ovfl := v.SetAdd(out, a, b)
	fmt.Printf("   200 + 100 over 8 bits = %s (overflow: %v)\n", out, ovfl)

	ovfl = v.SetMul(out, a, b, true)
	fmt.Printf("   200 * 100 over 8 bits = %s (overflow: %v)\n", out, ovfl)

	v.SetSub(out, b, a)
	fmt.Printf("   100 - 200 over 8 bits = %s (wrapped)\n", out)
	fmt.Println()
}
