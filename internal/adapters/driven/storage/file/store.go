package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/custodia-labs/webrecall/internal/core/domain"
	"github.com/custodia-labs/webrecall/internal/core/ports/driven"
	"github.com/custodia-labs/webrecall/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.IndexRepository = (*Store)(nil)

const (
	currentFile  = "CURRENT"
	vectorFile   = "index.bin"
	metadataName = "metadata.json"
	genPrefix    = "gen-"
)

// Store is a driven.IndexRepository writing generation directories under dir.
type Store struct {
	mu  sync.Mutex
	dir string
}

// NewStore creates the store directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// ==================== Save ====================

// Save writes snapshot as a new generation and switches CURRENT to it.
func (s *Store) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	if err := snapshot.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	gen, err := s.latestGeneration()
	if err != nil {
		return err
	}
	name := genName(gen + 1)
	genDir := filepath.Join(s.dir, name)

	// A leftover directory from a crashed save is never referenced; start clean.
	if err := os.RemoveAll(genDir); err != nil {
		return err
	}
	if err := os.MkdirAll(genDir, 0700); err != nil {
		return err
	}

	var vec bytes.Buffer
	if err := encodeVectors(&vec, snapshot.Dimension, snapshot.Vectors); err != nil {
		return fmt.Errorf("encode vectors: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(genDir, vectorFile), vec.Bytes()); err != nil {
		return fmt.Errorf("write vectors: %w", err)
	}

	var meta bytes.Buffer
	if err := encodeMetadata(&meta, snapshot.Chunks); err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(genDir, metadataName), meta.Bytes()); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	if err := syncDir(genDir); err != nil {
		return err
	}

	if err := writeFileAtomic(filepath.Join(s.dir, currentFile), []byte(name+"\n")); err != nil {
		return fmt.Errorf("switch current generation: %w", err)
	}
	if err := syncDir(s.dir); err != nil {
		return err
	}

	s.removeStaleGenerations(name)
	logger.Debug("saved index generation %s (%d chunks)", name, snapshot.Len())
	return nil
}

// writeFileAtomic writes data to a temp file, syncs it, and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err = f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err = f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	// Some filesystems do not support directory fsync.
	if err := d.Sync(); err != nil {
		logger.Debug("fsync %s: %v", dir, err)
	}
	return nil
}

func (s *Store) removeStaleGenerations(keep string) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), genPrefix) && e.Name() != keep {
			if err := os.RemoveAll(filepath.Join(s.dir, e.Name())); err != nil {
				logger.Warn("remove stale generation %s: %v", e.Name(), err)
			}
		}
	}
}

// ==================== Load ====================

// Load reads the generation named by CURRENT.
func (s *Store) Load(ctx context.Context) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name, err := s.current()
	if err != nil {
		return nil, err
	}
	genDir := filepath.Join(s.dir, name)

	vf, err := os.Open(filepath.Join(genDir, vectorFile))
	if err != nil {
		return nil, fmt.Errorf("open vectors: %w", err)
	}
	defer vf.Close()
	dim, vectors, err := decodeVectors(vf)
	if err != nil {
		return nil, fmt.Errorf("decode vectors: %w", err)
	}

	mf, err := os.Open(filepath.Join(genDir, metadataName))
	if err != nil {
		return nil, fmt.Errorf("open metadata: %w", err)
	}
	defer mf.Close()
	chunks, err := decodeMetadata(mf)
	if err != nil {
		return nil, err
	}

	snapshot := &domain.Snapshot{Dimension: dim, Vectors: vectors, Chunks: chunks}
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// current returns the generation directory name, or domain.ErrNotFound.
func (s *Store) current() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, currentFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	name := strings.TrimSpace(string(data))
	if _, ok := parseGen(name); !ok {
		return "", fmt.Errorf("invalid CURRENT %q: %w", name, domain.ErrIndexCorrupted)
	}
	return name, nil
}

// ==================== Helpers ====================

// Size returns the bytes used by the current generation.
func (s *Store) Size(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, err := s.current()
	if errors.Is(err, domain.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var total int64
	for _, f := range []string{vectorFile, metadataName} {
		info, err := os.Stat(filepath.Join(s.dir, name, f))
		if err != nil {
			return 0, err
		}
		total += info.Size()
	}
	return total, nil
}

// Close is a no-op; every Save is already durable.
func (s *Store) Close() error {
	return nil
}

// latestGeneration returns the highest generation number on disk, or 0.
func (s *Store) latestGeneration() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}
	gens := make([]int, 0, len(entries))
	for _, e := range entries {
		if n, ok := parseGen(e.Name()); ok && e.IsDir() {
			gens = append(gens, n)
		}
	}
	if len(gens) == 0 {
		return 0, nil
	}
	sort.Ints(gens)
	return gens[len(gens)-1], nil
}

func genName(n int) string {
	return fmt.Sprintf("%s%06d", genPrefix, n)
}

func parseGen(name string) (int, bool) {
	if !strings.HasPrefix(name, genPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(name, genPrefix))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
