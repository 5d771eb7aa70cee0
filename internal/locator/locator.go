// Package locator implements the single-symbol corruption locator for the
// M=2 (P, Q) case: given recomputed vs. stored parity for a stripe, it
// identifies which single column is corrupted without being told where to
// look, unlike codec.ReconstructStripe which requires known erasure
// indices.
package locator

import (
	"errors"
	"fmt"

	"github.com/kjdev/raid6store/internal/field"
)

// ErrUnlocatable is returned when the classification in Locate yields a
// column index outside the valid data range, meaning more than one symbol
// in the stripe is corrupted and locating it from P/Q alone is not possible.
var ErrUnlocatable = errors.New("locator: corruption not locatable from P/Q alone")

// Status is the locator's per-stripe state, following Clean -> Suspect ->
// Located -> Repaired -> Clean, or Suspect -> Unlocatable (terminal).
type Status int

const (
	Clean Status = iota
	Suspect
	Located
	Repaired
	Unlocatable
)

func (s Status) String() string {
	switch s {
	case Clean:
		return "Clean"
	case Suspect:
		return "Suspect"
	case Located:
		return "Located"
	case Repaired:
		return "Repaired"
	case Unlocatable:
		return "Unlocatable"
	default:
		return "Unknown"
	}
}

// Result is the outcome of locating a single stripe's corruption, if any.
type Result struct {
	Status Status
	// Disk is the corrupted disk index (valid only when Status == Located).
	// N is the P-parity disk, N+1 is the Q-parity disk.
	Disk int
}

// Locate compares recomputed parity (pPrime, qPrime) against the stored
// parity (p, q) for one stripe and identifies the single corrupted disk, if
// any. n is the number of data disks, used to validate the recovered column
// index and to name the P/Q parity disks (n and n+1).
func Locate(f *field.Field, p, pPrime, q, qPrime []byte, n int) (Result, error) {
	if len(p) != len(pPrime) || len(q) != len(qPrime) || len(p) != len(q) {
		return Result{}, fmt.Errorf("locator: mismatched chunk lengths p=%d p'=%d q=%d q'=%d", len(p), len(pPrime), len(q), len(qPrime))
	}

	deltaP := xor(p, pPrime)
	deltaQ := xor(q, qPrime)

	kStar := firstNonZero(deltaP)
	if kStar == -1 {
		kStar = firstNonZero(deltaQ)
	}
	if kStar == -1 {
		return Result{Status: Clean}, nil
	}

	pVal := int(deltaP[kStar])
	qVal := int(deltaQ[kStar])

	switch {
	case pVal != 0 && qVal != 0:
		z, err := f.Div(qVal, pVal)
		if err != nil {
			return Result{}, err
		}
		disk := z - 1
		if disk < 0 || disk >= n {
			return Result{Status: Unlocatable}, ErrUnlocatable
		}
		return Result{Status: Located, Disk: disk}, nil
	case pVal != 0:
		return Result{Status: Located, Disk: n}, nil
	case qVal != 0:
		return Result{Status: Located, Disk: n + 1}, nil
	default:
		return Result{Status: Clean}, nil
	}
}

func xor(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}

func firstNonZero(b []byte) int {
	for i, v := range b {
		if v != 0 {
			return i
		}
	}
	return -1
}
