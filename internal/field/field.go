// Package field implements arithmetic over GF(2^w), the finite field the
// Reed-Solomon codec is built on. Addition is XOR; multiplication and
// division go through precomputed log/antilog tables so every operation
// except Dot and Pow is O(1).
package field

import (
	"errors"
	"fmt"
)

// ErrDivideByZero is returned by Div when the divisor is 0.
var ErrDivideByZero = errors.New("field: division by zero")

// ErrDimensionMismatch is returned by Dot when the operand vectors differ in length.
var ErrDimensionMismatch = errors.New("field: dimension mismatch")

// Field is an immutable GF(2^w) built from a primitive modulus polynomial.
// Zero value is not usable; construct with New.
type Field struct {
	w       uint
	modulus uint32
	q       int // 2^w
	log     []int // log[b] = k such that alog[k] == b, for b in [1, q)
	alog    []int // alog[k] = alpha^k, for k in [0, q)
}

// New builds the log/antilog tables for GF(2^w) under the given primitive
// modulus polynomial. w must be in [1, 31] so that q-1 fits comfortably in
// an int; the codec layer additionally enforces N+M <= q-1.
func New(w uint, modulus uint32) (*Field, error) {
	if w == 0 || w > 31 {
		return nil, fmt.Errorf("field: width %d out of range", w)
	}
	q := 1 << w
	f := &Field{
		w:       w,
		modulus: modulus,
		q:       q,
		log:     make([]int, q),
		alog:    make([]int, q),
	}

	b := 1
	for k := 0; k < q-1; k++ {
		f.log[b] = k
		f.alog[k] = b
		b <<= 1
		if b&q != 0 {
			b ^= int(modulus)
		}
	}
	// Conventionally alog[q-1] wraps back to 1, matching alog[0].
	f.alog[q-1] = 1

	return f, nil
}

// Q returns the field size 2^w.
func (f *Field) Q() int { return f.q }

// Add returns a XOR b, the field's additive operation.
func (f *Field) Add(a, b int) int { return a ^ b }

// Sub is an alias of Add: subtraction and addition coincide in GF(2^w).
func (f *Field) Sub(a, b int) int { return f.Add(a, b) }

// Mul returns a*b in the field.
func (f *Field) Mul(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	sum := f.log[a] + f.log[b]
	if sum >= f.q-1 {
		sum -= f.q - 1
	}
	return f.alog[sum]
}

// Div returns a/b in the field. Returns ErrDivideByZero if b is 0.
func (f *Field) Div(a, b int) (int, error) {
	if b == 0 {
		return 0, ErrDivideByZero
	}
	if a == 0 {
		return 0, nil
	}
	diff := f.log[a] - f.log[b]
	if diff < 0 {
		diff += f.q - 1
	}
	return f.alog[diff], nil
}

// Pow returns a^n in the field via square-and-multiply, O(log n).
func (f *Field) Pow(a int, n int) int {
	if n == 0 {
		return 1
	}
	if a == 0 {
		return 0
	}
	n %= f.q - 1
	if n < 0 {
		n += f.q - 1
	}
	result := 1
	base := a
	for n > 0 {
		if n&1 == 1 {
			result = f.Mul(result, base)
		}
		base = f.Mul(base, base)
		n >>= 1
	}
	return result
}

// Dot returns the XOR-reduction of the pairwise product of u and v.
// Returns ErrDimensionMismatch if the vectors differ in length.
func (f *Field) Dot(u, v []int) (int, error) {
	if len(u) != len(v) {
		return 0, fmt.Errorf("field: dot of length %d and %d: %w", len(u), len(v), ErrDimensionMismatch)
	}
	res := 0
	for i := range u {
		res = f.Add(res, f.Mul(u[i], v[i]))
	}
	return res, nil
}

// DotBytes is Dot specialized for byte-valued vectors (w=8), the common case
// when dotting a Vandermonde row against a column of chunk bytes.
func (f *Field) DotBytes(u []int, v []byte) (byte, error) {
	if len(u) != len(v) {
		return 0, fmt.Errorf("field: dot of length %d and %d: %w", len(u), len(v), ErrDimensionMismatch)
	}
	res := 0
	for i := range u {
		res = f.Add(res, f.Mul(u[i], int(v[i])))
	}
	return byte(res), nil
}
