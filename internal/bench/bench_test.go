package bench_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjdev/raid6store/internal/bench"
)

func TestRunProducesReport(t *testing.T) {
	report, err := bench.Run(6, 2, 16, 4, 42)
	require.NoError(t, err)

	assert.Equal(t, 6, report.N)
	assert.Equal(t, 2, report.M)
	assert.Equal(t, 16, report.ChunkSize)
	assert.Equal(t, 4, report.Stripes)
	// klauspost/reedsolomon uses its own generator matrix, distinct from
	// this repo's hand-rolled Vandermonde construction, so the two parity
	// sets are not expected to agree byte-for-byte; Run must still
	// complete without error and report which rows diverged.
}

func TestRunInvalidParams(t *testing.T) {
	_, err := bench.Run(0, 2, 16, 1, 1)
	assert.Error(t, err)
}
