// Package config defines the parameter surface for a raid6store instance
// (N, M, field width, modulus, chunk size) and loads/saves it as YAML so a
// store directory can carry a sidecar recording the parameters it was
// encoded with.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kjdev/raid6store/internal/codec"
	"github.com/kjdev/raid6store/internal/field"
)

// Defaults mirror the conventional RAID6 GF(256) setup: 6 data disks, 2
// parity disks, byte-wide field elements, primitive polynomial x^8+x^4+x^3+x^2+1.
const (
	DefaultN         = 6
	DefaultM         = 2
	DefaultW         = 8
	DefaultModulus   = 0x11D
	DefaultChunkSize = 16
)

// CodecParams is the immutable parameter surface required to build a
// field.Field and codec.Codec pair: N data disks, M parity disks, field
// width w, primitive modulus polynomial, and chunk_size bytes per cell.
type CodecParams struct {
	N         int    `yaml:"n"`
	M         int    `yaml:"m"`
	W         uint   `yaml:"w"`
	Modulus   uint32 `yaml:"modulus"`
	ChunkSize int    `yaml:"chunk_size"`
}

// Default returns the conventional RAID6 defaults (N=6, M=2, w=8, modulus=0x11D, chunk_size=16).
func Default() CodecParams {
	return CodecParams{
		N:         DefaultN,
		M:         DefaultM,
		W:         DefaultW,
		Modulus:   DefaultModulus,
		ChunkSize: DefaultChunkSize,
	}
}

// Validate checks the parameter surface per the ParamOutOfRange error kind:
// chunk_size must be >= 1 and N+M must not exceed q-1.
func (p CodecParams) Validate() error {
	if p.ChunkSize < 1 {
		return fmt.Errorf("config: chunk_size must be >= 1, got %d: %w", p.ChunkSize, codec.ErrParamOutOfRange)
	}
	if p.N < 1 || p.M < 1 {
		return fmt.Errorf("config: N and M must be >= 1, got N=%d M=%d: %w", p.N, p.M, codec.ErrParamOutOfRange)
	}
	q := 1 << p.W
	if p.N+p.M > q-1 {
		return fmt.Errorf("config: N+M=%d exceeds q-1=%d: %w", p.N+p.M, q-1, codec.ErrParamOutOfRange)
	}
	return nil
}

// Build validates p and constructs the field.Field and codec.Codec it
// describes.
func (p CodecParams) Build() (*field.Field, *codec.Codec, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}
	f, err := field.New(p.W, p.Modulus)
	if err != nil {
		return nil, nil, err
	}
	c, err := codec.New(f, p.N, p.M)
	if err != nil {
		return nil, nil, err
	}
	return f, c, nil
}

// Load reads CodecParams from a YAML file at path.
func Load(path string) (CodecParams, error) {
	var p CodecParams
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return p, nil
}

// Save writes p to path as YAML, creating or truncating the file.
func Save(path string, p CodecParams) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("config: marshaling params: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}
