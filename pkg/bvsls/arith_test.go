package bvsls

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetAddOverflowAccuracy(t *testing.T) {
	r := rand.New(rand.NewSource(21))
	for _, bw := range []int{1, 7, 63, 64, 65, 100, 130} {
		v := New(bw)
		mod := new(big.Int).Lsh(big.NewInt(1), uint(bw))
		a, b, out := NewVector(bw), NewVector(bw), NewVector(bw)
		for k := 0; k < 200; k++ {
			na, nb := randValue(r, bw), randValue(r, bw)
			v.SetValue(a, na)
			v.SetValue(b, nb)

			ovfl := v.SetAdd(out, a, b)

			sum := new(big.Int).Add(na, nb)
			require.Equal(t, sum.Cmp(mod) >= 0, ovfl, "bw=%d a=%s b=%s", bw, na, nb)
			sum.Mod(sum, mod)
			require.Zero(t, out.Value(out.Limbs()).Cmp(sum), "bw=%d a=%s b=%s", bw, na, nb)
			require.False(t, v.HasOverflow(out))
		}
	}
}

func TestSetSubWraps(t *testing.T) {
	r := rand.New(rand.NewSource(22))
	for _, bw := range []int{4, 64, 65, 130} {
		v := New(bw)
		mod := new(big.Int).Lsh(big.NewInt(1), uint(bw))
		a, b, out := NewVector(bw), NewVector(bw), NewVector(bw)
		for k := 0; k < 200; k++ {
			na, nb := randValue(r, bw), randValue(r, bw)
			v.SetValue(a, na)
			v.SetValue(b, nb)

			v.SetSub(out, a, b)

			diff := new(big.Int).Sub(na, nb)
			diff.Mod(diff, mod)
			require.Zero(t, out.Value(out.Limbs()).Cmp(diff), "bw=%d a=%s b=%s", bw, na, nb)
			require.False(t, v.HasOverflow(out))
		}
	}
}

func TestSetMulOverflowAccuracy(t *testing.T) {
	r := rand.New(rand.NewSource(23))
	for _, bw := range []int{1, 8, 64, 65, 130} {
		v := New(bw)
		mod := new(big.Int).Lsh(big.NewInt(1), uint(bw))
		a, b, out := NewVector(bw), NewVector(bw), NewVector(bw)
		for k := 0; k < 200; k++ {
			na, nb := randValue(r, bw), randValue(r, bw)
			v.SetValue(a, na)
			v.SetValue(b, nb)

			ovfl := v.SetMul(out, a, b, true)

			prod := new(big.Int).Mul(na, nb)
			require.Equal(t, prod.Cmp(mod) >= 0, ovfl, "bw=%d a=%s b=%s", bw, na, nb)
			prod.Mod(prod, mod)
			require.Zero(t, out.Value(out.Limbs()).Cmp(prod), "bw=%d a=%s b=%s", bw, na, nb)
			require.False(t, v.HasOverflow(out))
		}
	}
}

func TestSetMulSkipsOverflowCheck(t *testing.T) {
	v := New(8)
	out := NewVector(8)
	require.False(t, v.SetMul(out, uvec(v, 200), uvec(v, 3), false),
		"overflow reporting disabled")
	require.EqualValues(t, 600%256, low(v, out), "result still truncated")
}

func TestSub1(t *testing.T) {
	v := New(65)
	u := uvec(v, 1)
	v.Sub1(u)
	require.True(t, v.IsZero(u))

	// Decrementing zero wraps to all ones.
	v.Sub1(u)
	require.True(t, v.IsOnes(u))

	// Borrow across the limb boundary: 2^64 - 1 has bits 0..63 set.
	w := NewVector(65)
	v.SetValue(w, new(big.Int).Lsh(big.NewInt(1), 64))
	v.Sub1(w)
	expect := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 64), big.NewInt(1))
	require.Zero(t, w.Value(w.Limbs()).Cmp(expect))
}

func TestMSB(t *testing.T) {
	v := New(100)
	require.Equal(t, 100, v.MSB(uvec(v, 0)), "zero reports the width")
	require.Equal(t, 0, v.MSB(uvec(v, 1)))
	require.Equal(t, 7, v.MSB(uvec(v, 0x80)))

	u := NewVector(100)
	v.SetValue(u, new(big.Int).Lsh(big.NewInt(1), 99))
	require.Equal(t, 99, v.MSB(u))
}

func TestParityAndPowerOfTwo(t *testing.T) {
	v := New(70)
	require.Equal(t, 70, v.Parity(uvec(v, 0)))
	require.Equal(t, 2, v.Parity(uvec(v, 0b10100)))
	require.False(t, v.IsPowerOfTwo(uvec(v, 0)))
	require.True(t, v.IsPowerOfTwo(uvec(v, 0b1000)))
	require.False(t, v.IsPowerOfTwo(uvec(v, 0b1010)))

	u := NewVector(70)
	v.SetValue(u, new(big.Int).Lsh(big.NewInt(1), 69))
	require.True(t, v.IsPowerOfTwo(u))
	require.Equal(t, 69, v.Parity(u))
}

func TestShiftRight(t *testing.T) {
	v := New(12)
	commit(t, v, 0b1010_0110_0100)
	out := NewVector(12)

	v.ShiftRight(out, 0)
	require.EqualValues(t, 0b1010_0110_0100, low(v, out))

	v.ShiftRight(out, 5)
	require.EqualValues(t, 0b0000_0101_0011, low(v, out))

	v.ShiftRight(out, 11)
	require.EqualValues(t, 1, low(v, out))
}

func TestToNatSaturates(t *testing.T) {
	v := New(64)
	commit(t, v, 1000)
	require.Equal(t, 1000, v.ToNat(100000))
	require.Equal(t, 17, v.ToNat(17), "values past the bound saturate")

	w := New(8)
	commit(t, w, 3)
	require.Equal(t, 3, w.ToNat(1000))
}
