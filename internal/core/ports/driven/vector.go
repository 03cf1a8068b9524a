package driven

import "context"

// VectorIndex stores dense vectors in append order and answers nearest-neighbour queries.
// Slot i is the i-th vector ever appended since the last Reset.
// Hits name slots rather than keys, so an approximate backend can replace the flat one.
type VectorIndex interface {
	// Add appends vectors in order. All vectors must match Dimension;
	// on a mismatch nothing is appended and a *domain.ShapeMismatchError is returned.
	Add(ctx context.Context, vectors [][]float32) error

	// Search returns up to k hits ordered by ascending distance.
	// k larger than Len returns every entry; k <= 0 returns none.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of stored vectors.
	Len() int

	// Dimension returns the fixed vector size.
	Dimension() int

	// Vectors returns a copy of all vectors in slot order.
	Vectors() [][]float32

	// Reset drops every vector.
	Reset()

	// Truncate drops every slot at or after n. It undoes a partial add;
	// n >= Len is a no-op.
	Truncate(n int)

	// Close releases resources.
	Close() error
}

// VectorHit represents a nearest-neighbour result.
type VectorHit struct {
	// Slot is the position of the matched vector.
	Slot int

	// Distance is the squared Euclidean distance to the query.
	Distance float64
}
