package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"
)

// FSStore is the reference Store implementation: a root directory
// containing one Disk<i> subdirectory per disk, and one chunk_<stripe>
// file per stripe within it. Each write takes an advisory flock on the
// per-disk directory (see lock_unix.go), which serializes concurrent
// writers to the same disk; Read does not take the lock.
type FSStore struct {
	root      string
	numDisks  int
	chunkSize int
}

// Open prepares (creating if necessary) a store rooted at root with
// numDisks Disk<i> subdirectories, each cell chunkSize bytes.
func Open(root string, numDisks, chunkSize int) (*FSStore, error) {
	if numDisks < 1 {
		return nil, fmt.Errorf("store: numDisks must be >= 1, got %d", numDisks)
	}
	if chunkSize < 1 {
		return nil, fmt.Errorf("store: chunkSize must be >= 1, got %d", chunkSize)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("store: creating root %s: %w", root, err)
	}
	s := &FSStore{root: root, numDisks: numDisks, chunkSize: chunkSize}
	for d := 0; d < numDisks; d++ {
		if err := os.MkdirAll(s.diskDir(d), 0o755); err != nil {
			return nil, fmt.Errorf("store: creating disk dir %d: %w", d, err)
		}
	}
	return s, nil
}

func (s *FSStore) diskDir(disk int) string {
	return filepath.Join(s.root, fmt.Sprintf("Disk%d", disk))
}

func (s *FSStore) chunkPath(disk, stripe int) string {
	return filepath.Join(s.diskDir(disk), fmt.Sprintf("chunk_%d", stripe))
}

// Write stores data at (disk, stripe). data must be exactly chunkSize bytes.
func (s *FSStore) Write(disk, stripe int, data []byte) error {
	if len(data) != s.chunkSize {
		return fmt.Errorf("store: write disk %d stripe %d: expected %d bytes, got %d", disk, stripe, s.chunkSize, len(data))
	}
	dir := s.diskDir(disk)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: disk %d directory missing: %w", disk, err)
	}
	unlock, err := lockDir(dir)
	if err != nil {
		return fmt.Errorf("store: locking disk %d: %w", disk, err)
	}
	defer unlock()

	if err := os.WriteFile(s.chunkPath(disk, stripe), data, 0o644); err != nil {
		return fmt.Errorf("store: write disk %d stripe %d: %w", disk, stripe, err)
	}
	return nil
}

// Read returns the chunkSize-byte cell at (disk, stripe).
func (s *FSStore) Read(disk, stripe int) ([]byte, error) {
	data, err := os.ReadFile(s.chunkPath(disk, stripe))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("store: read disk %d stripe %d: %w", disk, stripe, ErrMissing)
		}
		return nil, fmt.Errorf("store: read disk %d stripe %d: %w", disk, stripe, err)
	}
	if len(data) != s.chunkSize {
		return nil, fmt.Errorf("store: read disk %d stripe %d: got %d bytes, expected %d: %w", disk, stripe, len(data), s.chunkSize, ErrShortRead)
	}
	return data, nil
}

// ListPresentDisks returns the indices of disks whose directory still
// exists (has not been Erase'd).
func (s *FSStore) ListPresentDisks() ([]int, error) {
	var present []int
	for d := 0; d < s.numDisks; d++ {
		if _, err := os.Stat(s.diskDir(d)); err == nil {
			present = append(present, d)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("store: stat disk %d: %w", d, err)
		}
	}
	return present, nil
}

// Erase removes disk's directory entirely, simulating a disk loss; a
// subsequent ListPresentDisks will not report it.
func (s *FSStore) Erase(disk int) error {
	if err := os.RemoveAll(s.diskDir(disk)); err != nil {
		return fmt.Errorf("store: erasing disk %d: %w", disk, err)
	}
	logrus.Infof("store: disk %d erased", disk)
	return nil
}

// SaveLength persists the original byte length of the encoded stream in a
// sidecar file, since the core never derives or stores S/L itself.
func (s *FSStore) SaveLength(length int) error {
	path := filepath.Join(s.root, "length.meta")
	if err := os.WriteFile(path, []byte(strconv.Itoa(length)), 0o644); err != nil {
		return fmt.Errorf("store: writing length sidecar: %w", err)
	}
	return nil
}

// LoadLength reads back the sidecar written by SaveLength.
func (s *FSStore) LoadLength() (int, error) {
	path := filepath.Join(s.root, "length.meta")
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("store: reading length sidecar: %w", err)
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return 0, fmt.Errorf("store: parsing length sidecar: %w", err)
	}
	return n, nil
}
