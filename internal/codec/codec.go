// Package codec implements the Reed-Solomon erasure code: a Vandermonde
// generator matrix F over a field.Field, stripe-wise encoding of data rows
// into parity rows, and reconstruction of up to M erased rows from any N
// surviving rows of the combined (I_N ; F) system.
package codec

import (
	"errors"
	"fmt"

	"github.com/kjdev/raid6store/internal/field"
	"github.com/kjdev/raid6store/internal/linalg"
)

// ErrParamOutOfRange is returned by New when N+M exceeds q-1, the largest
// shard count for which every N-row submatrix of (I_N ; F) is guaranteed
// invertible.
var ErrParamOutOfRange = errors.New("codec: N+M exceeds field capacity")

// ErrTooManyErasures is returned by ReconstructStripe when more than M
// indices are erased.
var ErrTooManyErasures = errors.New("codec: too many erasures")

// Codec is an immutable Reed-Solomon encoder/decoder for a fixed (N, M)
// over a fixed field. Construct with New; safe for concurrent use since it
// never mutates state after construction.
type Codec struct {
	f    *field.Field
	n, m int
	gen  linalg.Matrix // M x N Vandermonde generator, gen[i][j] = (j+1)^i
}

// N returns the number of data rows.
func (c *Codec) N() int { return c.n }

// M returns the number of parity rows.
func (c *Codec) M() int { return c.m }

// Field returns the underlying field.
func (c *Codec) Field() *field.Field { return c.f }

// Generator returns the M x N Vandermonde generator matrix F.
func (c *Codec) Generator() linalg.Matrix { return c.gen.Clone() }

// New builds a Codec for N data rows and M parity rows over f. Requires
// N+M <= q-1 (the field's q-1 nonzero elements) so that every column base
// (j+1) is nonzero and distinct, making every N-row submatrix of (I_N;F)
// invertible.
func New(f *field.Field, n, m int) (*Codec, error) {
	if n < 1 || m < 1 {
		return nil, fmt.Errorf("codec: N and M must be >= 1, got N=%d M=%d: %w", n, m, ErrParamOutOfRange)
	}
	if n+m > f.Q()-1 {
		return nil, fmt.Errorf("codec: N+M=%d exceeds q-1=%d: %w", n+m, f.Q()-1, ErrParamOutOfRange)
	}

	gen := make(linalg.Matrix, m)
	for i := 0; i < m; i++ {
		gen[i] = make([]int, n)
		for j := 0; j < n; j++ {
			gen[i][j] = f.Pow(j+1, i)
		}
	}

	return &Codec{f: f, n: n, m: m, gen: gen}, nil
}

// combined returns A = (I_N ; F), the (N+M) x N matrix whose rows are the
// coefficients used to produce, respectively, the N data rows unchanged and
// the M parity rows.
func (c *Codec) combined() linalg.Matrix {
	a := make(linalg.Matrix, c.n+c.m)
	id := linalg.Identity(c.n)
	copy(a, id)
	copy(a[c.n:], c.gen)
	return a
}

// EncodeStripe computes the M parity rows for one stripe's N data rows.
// Every row must have the same length K (the chunk size); the returned
// parity rows also have length K.
func (c *Codec) EncodeStripe(dataRows [][]byte) ([][]byte, error) {
	if len(dataRows) != c.n {
		return nil, fmt.Errorf("codec: expected %d data rows, got %d", c.n, len(dataRows))
	}
	k := rowLen(dataRows)

	cols := make([][]int, k)
	for kk := 0; kk < k; kk++ {
		col := make([]int, c.n)
		for j := 0; j < c.n; j++ {
			col[j] = int(dataRows[j][kk])
		}
		cols[kk] = col
	}

	parity := make([][]byte, c.m)
	for i := 0; i < c.m; i++ {
		parity[i] = make([]byte, k)
	}
	for kk := 0; kk < k; kk++ {
		for i := 0; i < c.m; i++ {
			v, err := c.f.Dot(c.gen[i], cols[kk])
			if err != nil {
				return nil, err
			}
			parity[i][kk] = byte(v)
		}
	}
	return parity, nil
}

// ReconstructStripe recovers the rows named in erased (indices into
// [0, N+M)) given the remaining rows of the stripe in survivors, keyed by
// their row index. len(erased) must be <= M and survivors must supply
// exactly N rows, none of them in erased; when fewer than M rows are
// erased, any N of the remaining rows will do.
//
// Returns the recovered rows keyed by their original index (both data and
// parity rows named in erased are returned; data rows are recovered first
// via matrix inversion, parity rows are then recomputed from the full data
// row set).
func (c *Codec) ReconstructStripe(survivors map[int][]byte, erased []int) (map[int][]byte, error) {
	if len(erased) > c.m {
		return nil, fmt.Errorf("codec: %d erasures exceeds M=%d: %w", len(erased), c.m, ErrTooManyErasures)
	}
	if len(survivors) != c.n {
		return nil, fmt.Errorf("codec: need exactly %d surviving rows, got %d", c.n, len(survivors))
	}

	erasedSet := make(map[int]bool, len(erased))
	for _, e := range erased {
		erasedSet[e] = true
	}

	a := c.combined()
	survivingIdx := make([]int, 0, c.n)
	for i := 0; i < c.n+c.m; i++ {
		if _, ok := survivors[i]; ok && !erasedSet[i] {
			survivingIdx = append(survivingIdx, i)
		}
	}
	if len(survivingIdx) != c.n {
		return nil, fmt.Errorf("codec: survivors must be %d distinct non-erased rows in [0, %d)", c.n, c.n+c.m)
	}

	aPrime := make(linalg.Matrix, 0, c.n)
	e := make([][]byte, 0, c.n)
	var k int
	for _, idx := range survivingIdx {
		row, ok := survivors[idx]
		if !ok {
			return nil, fmt.Errorf("codec: missing surviving row %d", idx)
		}
		if k == 0 {
			k = len(row)
		} else if len(row) != k {
			return nil, fmt.Errorf("codec: inconsistent row length at %d: expected %d got %d", idx, k, len(row))
		}
		aPrime = append(aPrime, a[idx])
		e = append(e, row)
	}

	aInv, err := linalg.Inverse(c.f, aPrime)
	if err != nil {
		return nil, err
	}

	// D = A'^-1 . E, computed column by column (one column per byte offset).
	dataRows := make([][]byte, c.n)
	for i := range dataRows {
		dataRows[i] = make([]byte, k)
	}
	for kk := 0; kk < k; kk++ {
		col := make([]int, c.n)
		for i := 0; i < c.n; i++ {
			col[i] = int(e[i][kk])
		}
		for i := 0; i < c.n; i++ {
			v, err := c.f.Dot(aInv[i], col)
			if err != nil {
				return nil, err
			}
			dataRows[i][kk] = byte(v)
		}
	}

	parityRows, err := c.EncodeStripe(dataRows)
	if err != nil {
		return nil, err
	}

	out := make(map[int][]byte, len(erased))
	for _, idx := range erased {
		if idx < c.n {
			out[idx] = dataRows[idx]
		} else {
			out[idx] = parityRows[idx-c.n]
		}
	}
	return out, nil
}

func rowLen(rows [][]byte) int {
	if len(rows) == 0 {
		return 0
	}
	return len(rows[0])
}
