package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		s := Snapshot{
			Dimension: 2,
			Vectors:   [][]float32{{1, 2}, {3, 4}},
			Chunks:    []Chunk{{ID: "a_0"}, {ID: "a_1"}},
		}
		assert.NoError(t, s.Validate())
		assert.Equal(t, 2, s.Len())
	})

	t.Run("count mismatch", func(t *testing.T) {
		s := Snapshot{Dimension: 2, Vectors: [][]float32{{1, 2}}, Chunks: []Chunk{{ID: "a_0"}, {ID: "a_1"}}}
		err := s.Validate()
		assert.True(t, errors.Is(err, ErrIndexCorrupted))
	})

	t.Run("shape mismatch", func(t *testing.T) {
		s := Snapshot{Dimension: 3, Vectors: [][]float32{{1, 2}}, Chunks: []Chunk{{ID: "a_0"}}}
		err := s.Validate()
		assert.True(t, errors.Is(err, ErrShapeMismatch))
	})

	t.Run("empty", func(t *testing.T) {
		s := Snapshot{Dimension: 768}
		assert.NoError(t, s.Validate())
	})
}
