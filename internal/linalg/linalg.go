// Package linalg implements matrix operations over a field.Field: matrix
// multiply and Gauss-Jordan inversion (including the left-inverse of a
// tall matrix), used by codec to build and invert the combined
// (I_N ; F) system during reconstruction.
package linalg

import (
	"errors"
	"fmt"

	"github.com/kjdev/raid6store/internal/field"
)

// ErrDimensionMismatch is returned when matrix shapes are incompatible for
// the requested operation.
var ErrDimensionMismatch = errors.New("linalg: dimension mismatch")

// ErrSingular is returned when Gauss-Jordan elimination finds a column with
// no usable pivot.
var ErrSingular = errors.New("linalg: matrix is singular")

// Matrix is a dense row-major matrix of field elements.
type Matrix [][]int

// Rows reports the number of rows.
func (m Matrix) Rows() int { return len(m) }

// Cols reports the number of columns, or 0 for an empty matrix.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = append([]int(nil), row...)
	}
	return out
}

// Identity returns the n x n identity matrix.
func Identity(n int) Matrix {
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]int, n)
		m[i][i] = 1
	}
	return m
}

// Transpose returns the transpose of m.
func Transpose(m Matrix) Matrix {
	rows, cols := m.Rows(), m.Cols()
	out := make(Matrix, cols)
	for j := 0; j < cols; j++ {
		out[j] = make([]int, rows)
		for i := 0; i < rows; i++ {
			out[j][i] = m[i][j]
		}
	}
	return out
}

// MatMul computes A*B over f, using field.Dot row-by-column.
func MatMul(f *field.Field, a, b Matrix) (Matrix, error) {
	if a.Cols() != b.Rows() {
		return nil, fmt.Errorf("linalg: matmul %dx%d by %dx%d: %w", a.Rows(), a.Cols(), b.Rows(), b.Cols(), ErrDimensionMismatch)
	}
	bt := Transpose(b)
	out := make(Matrix, a.Rows())
	for i := range out {
		out[i] = make([]int, b.Cols())
		for j := 0; j < b.Cols(); j++ {
			v, err := f.Dot(a[i], bt[j])
			if err != nil {
				return nil, err
			}
			out[i][j] = v
		}
	}
	return out, nil
}

// Inverse returns the left inverse of a over f: for a square matrix this is
// the ordinary inverse via Gauss-Jordan elimination on the augmented
// (A | I); for a tall matrix (more rows than columns) it is
// (Aᵀ A)⁻¹ Aᵀ.
func Inverse(f *field.Field, a Matrix) (Matrix, error) {
	rows, cols := a.Rows(), a.Cols()
	if rows == cols {
		return squareInverse(f, a)
	}
	if rows < cols {
		return nil, fmt.Errorf("linalg: inverse of %dx%d matrix: %w", rows, cols, ErrDimensionMismatch)
	}

	at := Transpose(a)
	ata, err := MatMul(f, at, a)
	if err != nil {
		return nil, err
	}
	ataInv, err := squareInverse(f, ata)
	if err != nil {
		return nil, err
	}
	return MatMul(f, ataInv, at)
}

// squareInverse runs Gauss-Jordan elimination on the augmented (A | I)
// matrix and returns the right half once A has been reduced to I.
func squareInverse(f *field.Field, a Matrix) (Matrix, error) {
	n := a.Rows()
	if a.Cols() != n {
		return nil, fmt.Errorf("linalg: square inverse of %dx%d matrix: %w", n, a.Cols(), ErrDimensionMismatch)
	}

	aug := make(Matrix, n)
	for i := 0; i < n; i++ {
		aug[i] = make([]int, 2*n)
		copy(aug[i], a[i])
		aug[i][n+i] = 1
	}

	for i := 0; i < n; i++ {
		if aug[i][i] == 0 {
			pivot := -1
			for k := i + 1; k < n; k++ {
				if aug[k][i] != 0 {
					pivot = k
					break
				}
			}
			if pivot == -1 {
				return nil, fmt.Errorf("linalg: no pivot in column %d: %w", i, ErrSingular)
			}
			for c := 0; c < 2*n; c++ {
				aug[i][c] = f.Add(aug[i][c], aug[pivot][c])
			}
		}

		pivotVal := aug[i][i]
		for c := 0; c < 2*n; c++ {
			v, err := f.Div(aug[i][c], pivotVal)
			if err != nil {
				return nil, err
			}
			aug[i][c] = v
		}

		for j := i + 1; j < n; j++ {
			factor := aug[j][i]
			if factor == 0 {
				continue
			}
			for c := 0; c < 2*n; c++ {
				aug[j][c] = f.Add(aug[j][c], f.Mul(factor, aug[i][c]))
			}
		}
	}

	for i := n - 1; i >= 0; i-- {
		for j := 0; j < i; j++ {
			factor := aug[j][i]
			if factor == 0 {
				continue
			}
			for c := 0; c < 2*n; c++ {
				aug[j][c] = f.Add(aug[j][c], f.Mul(factor, aug[i][c]))
			}
		}
	}

	out := make(Matrix, n)
	for i := 0; i < n; i++ {
		out[i] = append([]int(nil), aug[i][n:2*n]...)
	}
	return out, nil
}
