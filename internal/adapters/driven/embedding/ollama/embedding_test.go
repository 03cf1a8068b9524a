package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/webrecall/internal/core/domain"
)

// fakeOllama encodes each prompt's length into the first vector component.
func fakeOllama(t *testing.T, dim int, status int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Path {
		case "/api/tags":
			w.WriteHeader(status)
		case "/api/embeddings":
			if status != http.StatusOK {
				http.Error(w, "model not found", status)
				return
			}
			var req embedRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "nomic-embed-text", req.Model)

			vec := make([]float64, dim)
			vec[0] = float64(len(req.Prompt))
			_ = json.NewEncoder(w).Encode(embedResponse{Embedding: vec})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc := NewEmbeddingService(Config{})
	assert.Equal(t, DefaultBaseURL, svc.baseURL)
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultDimensions, svc.Dimensions())
	assert.Equal(t, DefaultConcurrency, svc.concurrency)
	assert.NoError(t, svc.Close())
}

func TestEmbed(t *testing.T) {
	srv, _ := fakeOllama(t, 4, http.StatusOK)
	svc := NewEmbeddingService(Config{BaseURL: srv.URL + "/", Dimensions: 4})

	vec, err := svc.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{5, 0, 0, 0}, vec)
}

func TestEmbed_DimensionMismatch(t *testing.T) {
	srv, _ := fakeOllama(t, 3, http.StatusOK)
	svc := NewEmbeddingService(Config{BaseURL: srv.URL, Dimensions: 4})

	_, err := svc.Embed(context.Background(), "hello")
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)
}

func TestEmbed_ErrorStatus(t *testing.T) {
	srv, _ := fakeOllama(t, 4, http.StatusNotFound)
	svc := NewEmbeddingService(Config{BaseURL: srv.URL, Dimensions: 4})

	_, err := svc.Embed(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.Contains(t, err.Error(), "model not found")
}

func TestEmbedBatch_PreservesOrder(t *testing.T) {
	srv, calls := fakeOllama(t, 2, http.StatusOK)
	svc := NewEmbeddingService(Config{BaseURL: srv.URL, Dimensions: 2, Concurrency: 3})

	texts := make([]string, 25)
	for i := range texts {
		texts[i] = strings.Repeat("x", i+1)
	}

	vecs, err := svc.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vecs, len(texts))
	for i, v := range vecs {
		assert.Equal(t, float32(i+1), v[0])
	}
	assert.Equal(t, int32(len(texts)), calls.Load())
}

func TestEmbedBatch_Empty(t *testing.T) {
	vecs, err := NewEmbeddingService(Config{}).EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vecs)
}

func TestEmbedBatch_Error(t *testing.T) {
	srv, _ := fakeOllama(t, 2, http.StatusInternalServerError)
	svc := NewEmbeddingService(Config{BaseURL: srv.URL, Dimensions: 2})

	_, err := svc.EmbedBatch(context.Background(), []string{"a", "b"})
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	ok, _ := fakeOllama(t, 2, http.StatusOK)
	assert.NoError(t, NewEmbeddingService(Config{BaseURL: ok.URL}).Ping(context.Background()))

	bad, _ := fakeOllama(t, 2, http.StatusServiceUnavailable)
	assert.Error(t, NewEmbeddingService(Config{BaseURL: bad.URL}).Ping(context.Background()))
}
