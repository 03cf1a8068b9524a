package flat

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/custodia-labs/webrecall/internal/core/domain"
	"github.com/custodia-labs/webrecall/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

var errClosed = errors.New("flat: index is closed")

// Index stores vectors contiguously in slot order.
type Index struct {
	mu        sync.RWMutex
	dimension int
	data      []float32
	count     int
	closed    bool
}

// New creates an empty index of the given dimension.
func New(dimension int) (*Index, error) {
	if dimension <= 0 {
		return nil, errors.New("flat: dimension must be positive")
	}
	return &Index{dimension: dimension}, nil
}

// Add appends vectors. The whole batch is validated before any is stored.
func (idx *Index) Add(ctx context.Context, vectors [][]float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return errClosed
	}

	for _, v := range vectors {
		if len(v) != idx.dimension {
			return &domain.ShapeMismatchError{Expected: idx.dimension, Got: len(v)}
		}
	}

	for _, v := range vectors {
		idx.data = append(idx.data, v...)
	}
	idx.count += len(vectors)
	return nil
}

// Search returns the k nearest vectors by squared L2 distance.
// Equal distances keep slot order.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.closed {
		return nil, errClosed
	}
	if len(query) != idx.dimension {
		return nil, &domain.ShapeMismatchError{Expected: idx.dimension, Got: len(query)}
	}
	if k <= 0 || idx.count == 0 {
		return []driven.VectorHit{}, nil
	}

	hits := make([]driven.VectorHit, idx.count)
	for slot := 0; slot < idx.count; slot++ {
		if slot%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		hits[slot] = driven.VectorHit{
			Slot:     slot,
			Distance: squaredL2(query, idx.data[slot*idx.dimension:(slot+1)*idx.dimension]),
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of stored vectors.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.count
}

// Dimension returns the fixed vector size.
func (idx *Index) Dimension() int {
	return idx.dimension
}

// Vectors returns a copy of every vector in slot order.
func (idx *Index) Vectors() [][]float32 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([][]float32, idx.count)
	for slot := range out {
		v := make([]float32, idx.dimension)
		copy(v, idx.data[slot*idx.dimension:])
		out[slot] = v
	}
	return out
}

// Reset drops every vector. The dimension is kept.
func (idx *Index) Reset() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.data = nil
	idx.count = 0
}

// Truncate drops slots n and later.
func (idx *Index) Truncate(n int) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if n < 0 || n >= idx.count {
		return
	}
	idx.data = idx.data[:n*idx.dimension]
	idx.count = n
}

// Close releases the stored vectors.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.data = nil
	idx.count = 0
	idx.closed = true
	return nil
}

func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
