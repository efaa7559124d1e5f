package bvsls

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddRangeAdoptsFirstInterval(t *testing.T) {
	v := New(8)
	require.False(t, v.HasRange())

	v.AddRange(big.NewInt(3), big.NewInt(10))
	require.True(t, v.HasRange())
	require.EqualValues(t, 3, v.Lo().Uint64())
	require.EqualValues(t, 10, v.Hi().Uint64())
	require.True(t, v.WellFormed())
}

func TestAddRangeReducesModulo(t *testing.T) {
	// Bounds are taken modulo 2^bw; 259 mod 256 = 3.
	v := New(8)
	v.AddRange(big.NewInt(259), big.NewInt(522))
	require.EqualValues(t, 3, v.Lo().Uint64())
	require.EqualValues(t, 10, v.Hi().Uint64())
}

func TestAddRangeIgnoresEmptyInterval(t *testing.T) {
	v := New(8)
	v.AddRange(big.NewInt(7), big.NewInt(7))
	require.False(t, v.HasRange(), "lo == hi carries no constraint")

	// 261 mod 256 = 5, so this interval is empty after reduction too.
	v.AddRange(big.NewInt(5), big.NewInt(261))
	require.False(t, v.HasRange())
}

func TestAddRangeTightensInward(t *testing.T) {
	v := New(8)
	v.AddRange(big.NewInt(3), big.NewInt(10))

	// Both boundaries inside the current interval move it inward.
	v.AddRange(big.NewInt(5), big.NewInt(8))
	require.EqualValues(t, 5, v.Lo().Uint64())
	require.EqualValues(t, 8, v.Hi().Uint64())

	// Boundaries outside the current interval cannot widen it back.
	v.AddRange(big.NewInt(0), big.NewInt(9))
	require.EqualValues(t, 5, v.Lo().Uint64())
	require.EqualValues(t, 8, v.Hi().Uint64())
}

func TestAddRangeWrapAround(t *testing.T) {
	// [12, 4) over width 4 wraps through zero.
	v := New(4)
	v.AddRange(big.NewInt(12), big.NewInt(4))
	require.EqualValues(t, 12, v.Lo().Uint64())
	require.EqualValues(t, 4, v.Hi().Uint64())

	// Tighten both sides while staying wrapped.
	v.AddRange(big.NewInt(14), big.NewInt(2))
	require.EqualValues(t, 14, v.Lo().Uint64())
	require.EqualValues(t, 2, v.Hi().Uint64())
	require.True(t, v.WellFormed())
}

func TestTightenMovesCommittedToLo(t *testing.T) {
	// The committed value starts at zero; adopting [10, 20) forces it up
	// to the lower bound (no fixed bits block the copy).
	v := New(8)
	v.AddRange(big.NewInt(10), big.NewInt(20))
	require.EqualValues(t, 10, v.Value().Uint64())
	require.True(t, v.WellFormed())
}

func TestTightenWithBlockingFixedBit(t *testing.T) {
	// Bit 1 is fixed to 1 but lo has it at zero: the rewrite keeps the
	// fixed bit and pushes the first free zero above the disagreement to
	// one, landing on 10; lo is then tightened to 6 from the fixed bit.
	v := New(5)
	commit(t, v, 0b00010)
	fix(v, 1)
	v.AddRange(big.NewInt(4), big.NewInt(16))

	require.EqualValues(t, 10, v.Value().Uint64())
	require.EqualValues(t, 6, v.Lo().Uint64())
	require.True(t, v.WellFormed())
	require.True(t, v.GetBit(1), "fixed bit survived the rewrite")
}

func TestTightenRaisesLoFromFixedBits(t *testing.T) {
	// The committed value 8 has its fixed top bit set while lo = 2 does
	// not; every admissible value therefore has the top bit set and lo
	// can be raised to 8.
	v := New(4)
	commit(t, v, 0b1000)
	fix(v, 3)
	v.AddRange(big.NewInt(2), big.NewInt(15))

	require.EqualValues(t, 8, v.Lo().Uint64())
	require.EqualValues(t, 8, v.Value().Uint64())
	require.True(t, v.WellFormed())
}

func TestTightenNoRangeIsNoOp(t *testing.T) {
	v := New(8)
	commit(t, v, 99)
	v.TightenRange()
	require.EqualValues(t, 99, v.Value().Uint64())
	require.False(t, v.HasRange())
}
