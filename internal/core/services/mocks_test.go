package services

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"sync"

	"github.com/custodia-labs/webrecall/internal/core/domain"
	"github.com/custodia-labs/webrecall/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedder hashes words into a bag-of-words vector so texts sharing
// words land close together.
type mockEmbedder struct {
	mu    sync.Mutex
	dim   int
	err   error
	calls int
}

func newMockEmbedder(dim int) *mockEmbedder {
	return &mockEmbedder{dim: dim}
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		v := make([]float32, m.dim)
		for _, w := range strings.Fields(strings.ToLower(text)) {
			w = strings.Trim(w, termTrimSet)
			if w == "" {
				continue
			}
			h := fnv.New32a()
			_, _ = h.Write([]byte(w))
			v[int(h.Sum32())%m.dim]++
		}
		var norm float64
		for _, x := range v {
			norm += float64(x * x)
		}
		if norm > 0 {
			for j := range v {
				v[j] /= float32(math.Sqrt(norm))
			}
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int { return m.dim }
func (m *mockEmbedder) ModelName() string { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return m.err }
func (m *mockEmbedder) Close() error { return nil }
func (m *mockEmbedder) callCount() int { m.mu.Lock(); defer m.mu.Unlock(); return m.calls }
func (m *mockEmbedder) setErr(err error) { m.mu.Lock(); m.err = err; m.mu.Unlock() }

// mockRepository keeps the last saved snapshot in memory.
type mockRepository struct {
	snapshot *domain.Snapshot
	saves    int
	saveErr  error
	loadErr  error
	closed   bool
}

func (m *mockRepository) Save(_ context.Context, s *domain.Snapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	cp := *s
	m.snapshot = &cp
	return nil
}

func (m *mockRepository) Load(_ context.Context) (*domain.Snapshot, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.snapshot == nil {
		return nil, domain.ErrNotFound
	}
	cp := *m.snapshot
	return &cp, nil
}

func (m *mockRepository) Size(_ context.Context) (int64, error) {
	if m.snapshot == nil {
		return 0, nil
	}
	return int64(m.snapshot.Len() * 100), nil
}

func (m *mockRepository) Close() error {
	m.closed = true
	return nil
}

// mockLLM records the last prompt it was given.
type mockLLM struct {
	response string
	err      error
	prompts  []string
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return m.err }
func (m *mockLLM) Close() error { return nil }

// mockPromptStore serves a fixed chat template.
type mockPromptStore struct {
	template string
	err      error
}

func (m *mockPromptStore) Load(_ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.template == "" {
		return "CONTEXT:\n%s\nQUESTION: %s", nil
	}
	return m.template, nil
}

func (m *mockPromptStore) Reload() {}

// mockSearchService returns canned results.
type mockSearchService struct {
	results []domain.SearchResult
	err     error
	opts    domain.SearchOptions
}

func (m *mockSearchService) Search(_ context.Context, _ string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	m.opts = opts
	return m.results, m.err
}

// mockConfigStore is a flat key-value config store.
type mockConfigStore struct {
	values map[string]any
	saved  bool
}

func newMockConfigStore(values map[string]any) *mockConfigStore {
	if values == nil {
		values = make(map[string]any)
	}
	return &mockConfigStore{values: values}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	s, _ := m.values[key].(string)
	return s
}

func (m *mockConfigStore) GetInt(key string) int {
	switch v := m.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func (m *mockConfigStore) GetFloat(key string) float64 {
	switch v := m.values[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func (m *mockConfigStore) GetBool(key string) bool {
	b, _ := m.values[key].(bool)
	return b
}

func (m *mockConfigStore) GetStringSlice(key string) []string {
	s, _ := m.values[key].([]string)
	return s
}

func (m *mockConfigStore) Set(key string, value any) error {
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Save() error { m.saved = true; return nil }
func (m *mockConfigStore) Load() error { return nil }
func (m *mockConfigStore) Path() string { return "mock" }
