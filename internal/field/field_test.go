package field_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjdev/raid6store/internal/field"
)

func newGF256(t *testing.T) *field.Field {
	t.Helper()
	f, err := field.New(8, 0x11D)
	require.NoError(t, err)
	return f
}

func TestFieldAxioms(t *testing.T) {
	f := newGF256(t)
	q := f.Q()

	t.Run("AddCommutative", func(t *testing.T) {
		for a := 0; a < q; a += 7 {
			for b := 0; b < q; b += 11 {
				assert.Equal(t, f.Add(a, b), f.Add(b, a))
			}
		}
	})

	t.Run("MulCommutative", func(t *testing.T) {
		for a := 0; a < q; a += 7 {
			for b := 0; b < q; b += 11 {
				assert.Equal(t, f.Mul(a, b), f.Mul(b, a))
			}
		}
	})

	t.Run("MulDistributesOverAdd", func(t *testing.T) {
		for a := 1; a < q; a += 13 {
			for b := 0; b < q; b += 17 {
				for c := 0; c < q; c += 19 {
					lhs := f.Mul(a, f.Add(b, c))
					rhs := f.Add(f.Mul(a, b), f.Mul(a, c))
					assert.Equal(t, rhs, lhs)
				}
			}
		}
	})

	t.Run("MulByInverseIsOne", func(t *testing.T) {
		for a := 1; a < q; a++ {
			inv, err := f.Div(1, a)
			require.NoError(t, err)
			assert.Equal(t, 1, f.Mul(a, inv))
		}
	})

	t.Run("PowQMinus1IsOne", func(t *testing.T) {
		for a := 1; a < q; a++ {
			assert.Equal(t, 1, f.Pow(a, q-1), "a=%d", a)
		}
	})
}

func TestMulZero(t *testing.T) {
	f := newGF256(t)
	assert.Equal(t, 0, f.Mul(0, 123))
	assert.Equal(t, 0, f.Mul(123, 0))
}

func TestDivByZero(t *testing.T) {
	f := newGF256(t)
	_, err := f.Div(5, 0)
	assert.True(t, errors.Is(err, field.ErrDivideByZero))
}

func TestDivZeroDividend(t *testing.T) {
	f := newGF256(t)
	v, err := f.Div(0, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}

func TestPowZeroBase(t *testing.T) {
	f := newGF256(t)
	assert.Equal(t, 0, f.Pow(0, 5))
	assert.Equal(t, 1, f.Pow(0, 0))
	assert.Equal(t, 1, f.Pow(7, 0))
}

func TestDot(t *testing.T) {
	f := newGF256(t)
	v, err := f.Dot([]int{1, 2, 3}, []int{4, 5, 6})
	require.NoError(t, err)
	expected := f.Add(f.Add(f.Mul(1, 4), f.Mul(2, 5)), f.Mul(3, 6))
	assert.Equal(t, expected, v)
}

func TestDotDimensionMismatch(t *testing.T) {
	f := newGF256(t)
	_, err := f.Dot([]int{1, 2}, []int{1, 2, 3})
	assert.True(t, errors.Is(err, field.ErrDimensionMismatch))
}

func TestDotBytes(t *testing.T) {
	f := newGF256(t)
	v, err := f.DotBytes([]int{1, 1}, []byte{0xAB, 0xCD})
	require.NoError(t, err)
	assert.Equal(t, byte(0xAB^0xCD), v)
}

func TestNewInvalidWidth(t *testing.T) {
	_, err := field.New(0, 0x11D)
	assert.Error(t, err)
	_, err = field.New(32, 0x11D)
	assert.Error(t, err)
}
