package postprocessors

import (
	"fmt"

	"github.com/custodia-labs/webrecall/internal/core/domain"
	"github.com/custodia-labs/webrecall/internal/core/ports/driven"
	"github.com/custodia-labs/webrecall/internal/postprocessors/chunker"
)

// RegisterDefaults registers all built-in processors with the registry.
func RegisterDefaults(r *Registry) {
	r.Register("chunker", buildChunker)
}

// DefaultPipeline builds the standard chunking pipeline from settings.
func DefaultPipeline(s domain.ChunkingSettings) (*Pipeline, error) {
	r := NewRegistry()
	RegisterDefaults(r)

	return r.BuildPipeline([]string{"chunker"}, map[string]map[string]any{
		"chunker": {
			"chunk_size":    s.Size,
			"overlap_words": s.OverlapWords,
		},
	})
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - chunk_size (int): maximum characters per chunk (default: 1000)
//   - overlap_words (int): trailing words carried into the next chunk (default: 40)
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if size, ok := getIntFromConfig(cfg, "chunk_size"); ok {
		if size < 0 {
			return nil, fmt.Errorf("chunk_size %d: %w", size, domain.ErrInvalidInput)
		}
		opts = append(opts, chunker.WithChunkSize(size))
	}
	if words, ok := getIntFromConfig(cfg, "overlap_words"); ok {
		if words < 0 {
			return nil, fmt.Errorf("overlap_words %d: %w", words, domain.ErrInvalidInput)
		}
		opts = append(opts, chunker.WithOverlapWords(words))
	}

	return chunker.New(opts...), nil
}

// getIntFromConfig extracts an int from a generic config map.
// Handles int, int64 and float64, which TOML and JSON decoding produce.
func getIntFromConfig(cfg map[string]any, key string) (int, bool) {
	val, ok := cfg[key]
	if !ok {
		return 0, false
	}

	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
