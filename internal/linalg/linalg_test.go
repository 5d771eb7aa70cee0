package linalg_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjdev/raid6store/internal/field"
	"github.com/kjdev/raid6store/internal/linalg"
)

func newGF256(t *testing.T) *field.Field {
	t.Helper()
	f, err := field.New(8, 0x11D)
	require.NoError(t, err)
	return f
}

func TestIdentityAndMatMul(t *testing.T) {
	f := newGF256(t)
	id := linalg.Identity(3)
	a := linalg.Matrix{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}

	out, err := linalg.MatMul(f, a, id)
	require.NoError(t, err)
	assert.Equal(t, a, out)
}

func TestMatMulDimensionMismatch(t *testing.T) {
	f := newGF256(t)
	a := linalg.Matrix{{1, 2}}
	b := linalg.Matrix{{1, 2, 3}}
	_, err := linalg.MatMul(f, a, b)
	assert.True(t, errors.Is(err, linalg.ErrDimensionMismatch))
}

func TestInverseSquareRoundTrip(t *testing.T) {
	f := newGF256(t)
	// Vandermonde-ish square matrix: rows are powers of distinct bases.
	a := linalg.Matrix{
		{1, 1, 1},
		{1, 2, 4},
		{1, 3, 9},
	}
	// Reduce to field powers properly using f.Pow so it is invertible in GF(256).
	for i := range a {
		for j := range a[i] {
			a[i][j] = f.Pow(j+1, i)
		}
	}

	inv, err := linalg.Inverse(f, a)
	require.NoError(t, err)

	prod, err := linalg.MatMul(f, inv, a)
	require.NoError(t, err)
	assert.Equal(t, linalg.Identity(3), prod)
}

func TestInverseSingular(t *testing.T) {
	f := newGF256(t)
	a := linalg.Matrix{
		{1, 1},
		{1, 1},
	}
	_, err := linalg.Inverse(f, a)
	assert.True(t, errors.Is(err, linalg.ErrSingular))
}

func TestInverseTall(t *testing.T) {
	f := newGF256(t)
	// 4x2 Vandermonde-style tall matrix with distinct bases, full column rank.
	a := linalg.Matrix{
		{f.Pow(1, 0), f.Pow(2, 0)},
		{f.Pow(1, 1), f.Pow(2, 1)},
		{f.Pow(1, 2), f.Pow(2, 2)},
		{f.Pow(1, 3), f.Pow(2, 3)},
	}
	left, err := linalg.Inverse(f, a)
	require.NoError(t, err)
	assert.Equal(t, 2, left.Rows())
	assert.Equal(t, 4, left.Cols())

	prod, err := linalg.MatMul(f, left, a)
	require.NoError(t, err)
	assert.Equal(t, linalg.Identity(2), prod)
}

func TestTranspose(t *testing.T) {
	a := linalg.Matrix{{1, 2, 3}, {4, 5, 6}}
	tr := linalg.Transpose(a)
	assert.Equal(t, linalg.Matrix{{1, 4}, {2, 5}, {3, 6}}, tr)
}
