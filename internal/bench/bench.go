// Package bench cross-checks the hand-rolled codec package against
// github.com/klauspost/reedsolomon, the reference Reed-Solomon
// implementation the teacher repo delegates to. It is a verification and
// benchmarking aid, never part of the production encode/reconstruct path:
// the whole point of the codec package is to not depend on a library for
// its arithmetic.
package bench

import (
	"bytes"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/klauspost/reedsolomon"
	"github.com/sirupsen/logrus"

	"github.com/kjdev/raid6store/internal/codec"
	"github.com/kjdev/raid6store/internal/field"
)

// maxGoroutines bounds the worker pool Run uses to encode stripes
// concurrently, mirroring reedsolomon's own codeSomeShardsP goroutine pool
// rather than spawning one goroutine per stripe unbounded.
const maxGoroutines = 8

// Report summarizes one cross-check run.
type Report struct {
	N, M, ChunkSize int
	Stripes         int
	ParityMatches   bool
	OurDuration     time.Duration
	RefDuration     time.Duration
}

// Run encodes numStripes synthetic stripes of n data disks / m parity
// disks / chunkSize bytes with both the in-repo codec (over GF(256), the
// only width klauspost/reedsolomon supports) and klauspost/reedsolomon,
// and reports whether the two parity sets agree along with wall-clock
// timings for each.
func Run(n, m, chunkSize, numStripes int, seed int64) (Report, error) {
	f, err := field.New(8, 0x11D)
	if err != nil {
		return Report{}, err
	}
	c, err := codec.New(f, n, m)
	if err != nil {
		return Report{}, fmt.Errorf("bench: building codec: %w", err)
	}
	ref, err := reedsolomon.New(n, m)
	if err != nil {
		return Report{}, fmt.Errorf("bench: building reference encoder: %w", err)
	}

	rng := rand.New(rand.NewSource(seed))
	report := Report{N: n, M: m, ChunkSize: chunkSize, Stripes: numStripes, ParityMatches: true}

	// Stripes are independent, so the synthetic data is generated upfront
	// (rand.Rand is not safe for concurrent use) and handed to a bounded
	// pool of goroutines, one EncodeStripe call per worker slot.
	ourDataRows := make([][][]byte, numStripes)
	for s := 0; s < numStripes; s++ {
		ourDataRows[s] = randomRows(rng, n, chunkSize)
	}

	ourParities := make([][][]byte, numStripes)
	ourErrs := make([]error, numStripes)

	ourStart := time.Now()
	sem := make(chan struct{}, maxGoroutines)
	var wg sync.WaitGroup
	for s := 0; s < numStripes; s++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(s int) {
			defer wg.Done()
			defer func() { <-sem }()
			parity, err := c.EncodeStripe(ourDataRows[s])
			ourParities[s] = parity
			ourErrs[s] = err
		}(s)
	}
	wg.Wait()
	report.OurDuration = time.Since(ourStart)

	for s, err := range ourErrs {
		if err != nil {
			return Report{}, fmt.Errorf("bench: codec encode stripe %d: %w", s, err)
		}
	}

	refStart := time.Now()
	for s := 0; s < numStripes; s++ {
		shards := make([][]byte, n+m)
		for i := 0; i < n; i++ {
			shards[i] = ourDataRows[s][i]
		}
		for i := 0; i < m; i++ {
			shards[n+i] = make([]byte, chunkSize)
		}
		if err := ref.Encode(shards); err != nil {
			return Report{}, fmt.Errorf("bench: reference encode stripe %d: %w", s, err)
		}
		for i := 0; i < m; i++ {
			if !bytes.Equal(shards[n+i], ourParities[s][i]) {
				report.ParityMatches = false
				logrus.Warnf("bench: stripe %d parity row %d diverges between codec and reedsolomon", s, i)
			}
		}
	}
	report.RefDuration = time.Since(refStart)

	return report, nil
}

func randomRows(rng *rand.Rand, n, chunkSize int) [][]byte {
	rows := make([][]byte, n)
	for i := range rows {
		row := make([]byte, chunkSize)
		rng.Read(row)
		rows[i] = row
	}
	return rows
}
