// Package engine wires striper, codec, locator, and store together into
// the operations a host (CLI, benchmark harness, or another caller) drives
// the erasure-coded store through: Encode, Read, Erase, Scrub, and Repair.
package engine

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/kjdev/raid6store/internal/codec"
	"github.com/kjdev/raid6store/internal/config"
	"github.com/kjdev/raid6store/internal/field"
	"github.com/kjdev/raid6store/internal/locator"
	"github.com/kjdev/raid6store/internal/store"
	"github.com/kjdev/raid6store/internal/striper"
)

const paramsFileName = "raid6.yaml"

// Engine ties a fixed parameter set to a filesystem-backed Store and
// exposes the end-to-end store operations.
type Engine struct {
	params config.CodecParams
	field  *field.Field
	codec  *codec.Codec
	store  *store.FSStore
	root   string
}

// Create initializes a new store rooted at root with the given parameters,
// persisting them as a raid6.yaml sidecar so a later Open can recover them.
func Create(root string, params config.CodecParams) (*Engine, error) {
	f, c, err := params.Build()
	if err != nil {
		return nil, err
	}
	fs, err := store.Open(root, params.N+params.M, params.ChunkSize)
	if err != nil {
		return nil, err
	}
	if err := config.Save(filepath.Join(root, paramsFileName), params); err != nil {
		return nil, err
	}
	return &Engine{params: params, field: f, codec: c, store: fs, root: root}, nil
}

// Open recovers the parameters previously persisted by Create and reopens
// the store rooted at root.
func Open(root string) (*Engine, error) {
	params, err := config.Load(filepath.Join(root, paramsFileName))
	if err != nil {
		return nil, err
	}
	f, c, err := params.Build()
	if err != nil {
		return nil, err
	}
	fs, err := store.Open(root, params.N+params.M, params.ChunkSize)
	if err != nil {
		return nil, err
	}
	return &Engine{params: params, field: f, codec: c, store: fs, root: root}, nil
}

// Params returns the engine's parameter set.
func (e *Engine) Params() config.CodecParams { return e.params }

// ReadLength returns the original byte length recorded by Encode's length
// sidecar.
func (e *Engine) ReadLength() (int, error) {
	return e.store.LoadLength()
}

// Encode stripes data across the N data disks, computes the M parity
// disks, and writes every (disk, stripe) cell to the store, along with a
// length sidecar recording len(data) for later Read calls.
func (e *Engine) Encode(data []byte) error {
	cells, numStripes, err := striper.Pad(data, e.params.N, e.params.ChunkSize)
	if err != nil {
		return err
	}

	for s := 0; s < numStripes; s++ {
		dataRows := make([][]byte, e.params.N)
		for d := 0; d < e.params.N; d++ {
			dataRows[d] = cells[d][s]
		}
		parityRows, err := e.codec.EncodeStripe(dataRows)
		if err != nil {
			return fmt.Errorf("engine: encoding stripe %d: %w", s, err)
		}
		for d := 0; d < e.params.N; d++ {
			if err := e.store.Write(d, s, dataRows[d]); err != nil {
				return err
			}
		}
		for i := 0; i < e.params.M; i++ {
			if err := e.store.Write(e.params.N+i, s, parityRows[i]); err != nil {
				return err
			}
		}
	}
	if err := e.store.SaveLength(len(data)); err != nil {
		return err
	}
	logrus.Infof("engine: encoded %d bytes across %d stripes", len(data), numStripes)
	return nil
}

// Read reconstructs and returns the original byte stream, tolerating up to
// M missing or short cells per stripe by reconstructing them on the fly.
func (e *Engine) Read(length int) ([]byte, error) {
	stripeBytes := e.params.N * e.params.ChunkSize
	numStripes := length / stripeBytes
	if length%stripeBytes != 0 {
		numStripes++
	}

	cells := make([][][]byte, e.params.N)
	for d := range cells {
		cells[d] = make([][]byte, numStripes)
	}

	totalDisks := e.params.N + e.params.M
	for s := 0; s < numStripes; s++ {
		survivors := make(map[int][]byte, totalDisks)
		var erased []int
		for d := 0; d < totalDisks; d++ {
			cell, err := e.store.Read(d, s)
			switch {
			case err == nil:
				survivors[d] = cell
			case errors.Is(err, store.ErrMissing) || errors.Is(err, store.ErrShortRead):
				erased = append(erased, d)
			default:
				return nil, err
			}
		}

		if len(erased) == 0 {
			for d := 0; d < e.params.N; d++ {
				cells[d][s] = survivors[d]
			}
			continue
		}

		recovered, err := e.codec.ReconstructStripe(trimSurvivors(survivors, e.params.N), erased)
		if err != nil {
			return nil, fmt.Errorf("engine: reading stripe %d: %w", s, err)
		}
		for d := 0; d < e.params.N; d++ {
			if cell, ok := recovered[d]; ok {
				cells[d][s] = cell
			} else {
				cells[d][s] = survivors[d]
			}
		}
	}

	return striper.Unpad(cells, length)
}

// Erase removes the named disks from the store, simulating disk loss.
func (e *Engine) Erase(disks ...int) error {
	for _, d := range disks {
		if err := e.store.Erase(d); err != nil {
			return err
		}
	}
	return nil
}

// Corruption names one stripe's located (or unlocatable) corruption.
type Corruption struct {
	Stripe int
	Result locator.Result
}

// Scrub performs one full-stripe pass comparing recomputed parity against
// stored parity, using locator.Locate to identify single-symbol
// corruption per stripe. Requires M == 2 (the P/Q convention locator
// assumes). Only non-Clean results are returned.
func (e *Engine) Scrub(numStripes int) ([]Corruption, error) {
	if e.params.M != 2 {
		return nil, fmt.Errorf("engine: scrub requires M=2 (P/Q), got M=%d", e.params.M)
	}

	var corruptions []Corruption
	for s := 0; s < numStripes; s++ {
		dataRows := make([][]byte, e.params.N)
		for d := 0; d < e.params.N; d++ {
			cell, err := e.store.Read(d, s)
			if err != nil {
				return nil, fmt.Errorf("engine: scrub stripe %d disk %d: %w", s, d, err)
			}
			dataRows[d] = cell
		}
		p, err := e.store.Read(e.params.N, s)
		if err != nil {
			return nil, fmt.Errorf("engine: scrub stripe %d P: %w", s, err)
		}
		q, err := e.store.Read(e.params.N+1, s)
		if err != nil {
			return nil, fmt.Errorf("engine: scrub stripe %d Q: %w", s, err)
		}

		recomputed, err := e.codec.EncodeStripe(dataRows)
		if err != nil {
			return nil, fmt.Errorf("engine: scrub recompute stripe %d: %w", s, err)
		}

		result, err := locator.Locate(e.field, p, recomputed[0], q, recomputed[1], e.params.N)
		if err != nil && !errors.Is(err, locator.ErrUnlocatable) {
			return nil, err
		}
		if result.Status != locator.Clean {
			logrus.Warnf("engine: stripe %d corruption status=%s disk=%d", s, result.Status, result.Disk)
			corruptions = append(corruptions, Corruption{Stripe: s, Result: result})
		}
	}
	return corruptions, nil
}

// Repair reconstructs the named disks' cells for one stripe from the
// surviving rows and rewrites them to the store.
func (e *Engine) Repair(stripe int, disks []int) error {
	totalDisks := e.params.N + e.params.M
	survivors := make(map[int][]byte, totalDisks)
	for d := 0; d < totalDisks; d++ {
		if contains(disks, d) {
			continue
		}
		cell, err := e.store.Read(d, stripe)
		if err != nil {
			return fmt.Errorf("engine: repair stripe %d: reading surviving disk %d: %w", stripe, d, err)
		}
		survivors[d] = cell
	}

	recovered, err := e.codec.ReconstructStripe(trimSurvivors(survivors, e.params.N), disks)
	if err != nil {
		return fmt.Errorf("engine: repair stripe %d: %w", stripe, err)
	}
	for _, d := range disks {
		if err := e.store.Write(d, stripe, recovered[d]); err != nil {
			return err
		}
	}
	logrus.Infof("engine: repaired stripe %d disks %v", stripe, disks)
	return nil
}

// RepairDisks repairs every stripe for the named disks, the whole-disk
// recovery path; the caller names the disks to rebuild.
func (e *Engine) RepairDisks(disks []int, numStripes int) error {
	for s := 0; s < numStripes; s++ {
		if err := e.Repair(s, disks); err != nil {
			return err
		}
	}
	return nil
}

// trimSurvivors returns a copy of survivors holding at most n entries:
// codec.ReconstructStripe requires exactly N surviving rows, but Read and
// Repair may have more on hand (fewer than M disks down). Any N rows of the
// combined (I_N;F) matrix form an invertible submatrix, so which entries
// are dropped doesn't matter; the original map is left untouched so callers
// can still use it for disks that weren't part of the reconstruction.
func trimSurvivors(survivors map[int][]byte, n int) map[int][]byte {
	if len(survivors) <= n {
		return survivors
	}
	keys := make([]int, 0, len(survivors))
	for k := range survivors {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	trimmed := make(map[int][]byte, n)
	for _, k := range keys[:n] {
		trimmed[k] = survivors[k]
	}
	return trimmed
}

func contains(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
