package codec_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjdev/raid6store/internal/codec"
	"github.com/kjdev/raid6store/internal/field"
)

func newGF256(t *testing.T) *field.Field {
	t.Helper()
	f, err := field.New(8, 0x11D)
	require.NoError(t, err)
	return f
}

func sampleStripe(n, k int) [][]byte {
	rows := make([][]byte, n)
	for i := range rows {
		row := make([]byte, k)
		for j := range row {
			row[j] = byte((i*31 + j*17 + 7) % 251)
		}
		rows[i] = row
	}
	return rows
}

func TestNewInvalidParams(t *testing.T) {
	f := newGF256(t)
	_, err := codec.New(f, 0, 2)
	assert.True(t, errors.Is(err, codec.ErrParamOutOfRange))

	_, err = codec.New(f, 6, 0)
	assert.True(t, errors.Is(err, codec.ErrParamOutOfRange))

	_, err = codec.New(f, 200, 100)
	assert.True(t, errors.Is(err, codec.ErrParamOutOfRange))
}

func TestEncodeStripeProducesParityRows(t *testing.T) {
	f := newGF256(t)
	c, err := codec.New(f, 6, 2)
	require.NoError(t, err)

	data := sampleStripe(6, 16)
	parity, err := c.EncodeStripe(data)
	require.NoError(t, err)
	require.Len(t, parity, 2)
	for _, row := range parity {
		assert.Len(t, row, 16)
	}
}

func TestEncodeStripeWrongRowCount(t *testing.T) {
	f := newGF256(t)
	c, err := codec.New(f, 6, 2)
	require.NoError(t, err)

	_, err = c.EncodeStripe(sampleStripe(5, 16))
	assert.Error(t, err)
}

func TestReconstructStripeSingleErasurePerDisk(t *testing.T) {
	f := newGF256(t)
	n, m := 6, 2
	c, err := codec.New(f, n, m)
	require.NoError(t, err)

	data := sampleStripe(n, 16)
	parity, err := c.EncodeStripe(data)
	require.NoError(t, err)

	all := make([][]byte, n+m)
	copy(all, data)
	copy(all[n:], parity)

	for erasedIdx := 0; erasedIdx < n+m; erasedIdx++ {
		survivors := make(map[int][]byte, n)
		for i := 0; i < n+m; i++ {
			if i == erasedIdx {
				continue
			}
			survivors[i] = all[i]
		}
		// Need exactly N survivors: drop one more non-erased row arbitrarily
		// if we still have N+M-1 survivors (M=2 means one more to drop for
		// a single erasure test to exercise full reconstruction capacity is
		// unnecessary; N survivors is already required by ReconstructStripe
		// whenever exactly one disk is erased and M-1 extra survive).
		for len(survivors) > n {
			for k := range survivors {
				if k != erasedIdx {
					delete(survivors, k)
					break
				}
			}
		}

		got, err := c.ReconstructStripe(survivors, []int{erasedIdx})
		require.NoError(t, err, "erasedIdx=%d", erasedIdx)
		assert.Equal(t, all[erasedIdx], got[erasedIdx], "erasedIdx=%d", erasedIdx)
	}
}

func TestReconstructStripeTwoErasures(t *testing.T) {
	f := newGF256(t)
	n, m := 6, 2
	c, err := codec.New(f, n, m)
	require.NoError(t, err)

	data := sampleStripe(n, 16)
	parity, err := c.EncodeStripe(data)
	require.NoError(t, err)

	all := make([][]byte, n+m)
	copy(all, data)
	copy(all[n:], parity)

	erased := []int{1, n} // one data row and the P parity row
	survivors := make(map[int][]byte, n)
	for i := 0; i < n+m; i++ {
		if i == erased[0] || i == erased[1] {
			continue
		}
		survivors[i] = all[i]
	}

	got, err := c.ReconstructStripe(survivors, erased)
	require.NoError(t, err)
	assert.Equal(t, all[erased[0]], got[erased[0]])
	assert.Equal(t, all[erased[1]], got[erased[1]])
}

func TestReconstructStripeTooManyErasures(t *testing.T) {
	f := newGF256(t)
	n, m := 6, 2
	c, err := codec.New(f, n, m)
	require.NoError(t, err)

	data := sampleStripe(n, 16)
	survivors := make(map[int][]byte, n)
	for i := 0; i < n; i++ {
		survivors[i] = data[i]
	}

	_, err = c.ReconstructStripe(survivors, []int{0, 1, n})
	assert.True(t, errors.Is(err, codec.ErrTooManyErasures))
}

func TestGeneratorIsIndependentCopy(t *testing.T) {
	f := newGF256(t)
	c, err := codec.New(f, 4, 2)
	require.NoError(t, err)

	gen := c.Generator()
	gen[0][0] = 255
	gen2 := c.Generator()
	assert.NotEqual(t, gen[0][0], gen2[0][0])
}
