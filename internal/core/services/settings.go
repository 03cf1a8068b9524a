package services

import (
	"fmt"
	"os"
	"time"

	"github.com/custodia-labs/webrecall/internal/core/domain"
	"github.com/custodia-labs/webrecall/internal/core/ports/driven"
)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyEmbedDims       = "embedding.dimensions"
	keyEmbedTimeout    = "embedding.timeout_seconds"
	keyEmbedRetries    = "embedding.max_retries"
	keyEmbedRate       = "embedding.requests_per_second"
	keyLLMProvider     = "llm.provider"
	keyLLMModel        = "llm.model"
	keyLLMBaseURL      = "llm.base_url"
	keyLLMAPIKey       = "llm.api_key"
	keyChunkSize       = "chunking.size"
	keyChunkOverlap    = "chunking.overlap_words"
	keyStorageBackend  = "storage.backend"
	keyStorageDir      = "storage.dir"
	keyServerAddr      = "server.addr"
	keyServerInbox     = "server.inbox_dir"
	keyPrivacyPatterns = "privacy.blocked_patterns"
)

// LoadSettings assembles settings from the config store on top of the defaults.
// API keys missing from the config fall back to the provider's environment variable.
func LoadSettings(store driven.ConfigStore) (domain.Settings, error) {
	s := domain.DefaultSettings()
	if store == nil {
		return s, nil
	}

	embedProvider, err := providerOr(store, keyEmbedProvider, s.Embedding.Provider)
	if err != nil {
		return s, err
	}
	if !embedProvider.SupportsEmbedding() {
		return s, fmt.Errorf("%s: %s does not provide embeddings: %w", keyEmbedProvider, embedProvider, domain.ErrInvalidInput)
	}
	if embedProvider != s.Embedding.Provider {
		s.Embedding.Model = domain.DefaultEmbeddingModels()[embedProvider]
		s.Embedding.Dimensions = 0
	}
	s.Embedding.Provider = embedProvider
	s.Embedding.Model = stringOr(store, keyEmbedModel, s.Embedding.Model)
	s.Embedding.BaseURL = store.GetString(keyEmbedBaseURL)
	s.Embedding.APIKey = apiKey(store, keyEmbedAPIKey, embedProvider)

	if dims := store.GetInt(keyEmbedDims); dims > 0 {
		s.Embedding.Dimensions = dims
	} else if known, ok := domain.EmbeddingDimensions()[s.Embedding.Model]; ok {
		s.Embedding.Dimensions = known
	}
	if s.Embedding.Dimensions <= 0 {
		return s, fmt.Errorf("%s must be set for model %q: %w", keyEmbedDims, s.Embedding.Model, domain.ErrInvalidInput)
	}
	if secs := store.GetInt(keyEmbedTimeout); secs > 0 {
		s.Embedding.Timeout = time.Duration(secs) * time.Second
	}
	if _, ok := store.Get(keyEmbedRetries); ok {
		s.Embedding.MaxRetries = max(0, store.GetInt(keyEmbedRetries))
	}
	if rps := store.GetFloat(keyEmbedRate); rps > 0 {
		s.Embedding.RequestsPerSecond = rps
	}

	llmProvider, err := providerOr(store, keyLLMProvider, s.LLM.Provider)
	if err != nil {
		return s, err
	}
	if llmProvider != s.LLM.Provider {
		s.LLM.Model = domain.DefaultLLMModels()[llmProvider]
	}
	s.LLM.Provider = llmProvider
	s.LLM.Model = stringOr(store, keyLLMModel, s.LLM.Model)
	s.LLM.BaseURL = store.GetString(keyLLMBaseURL)
	s.LLM.APIKey = apiKey(store, keyLLMAPIKey, llmProvider)

	if size := store.GetInt(keyChunkSize); size > 0 {
		s.Chunking.Size = size
	}
	if _, ok := store.Get(keyChunkOverlap); ok {
		s.Chunking.OverlapWords = max(0, store.GetInt(keyChunkOverlap))
	}

	if backend := store.GetString(keyStorageBackend); backend != "" {
		b := domain.StorageBackend(backend)
		if !b.IsValid() {
			return s, fmt.Errorf("%s: unknown backend %q: %w", keyStorageBackend, backend, domain.ErrInvalidInput)
		}
		s.Storage.Backend = b
	}
	s.Storage.Dir = store.GetString(keyStorageDir)

	s.Server.Addr = stringOr(store, keyServerAddr, s.Server.Addr)
	s.Server.InboxDir = store.GetString(keyServerInbox)

	s.Privacy.BlockedPatterns = store.GetStringSlice(keyPrivacyPatterns)
	return s, nil
}

// SaveSettings writes settings to the config store and persists it.
// API keys are never written; they belong in the environment.
func SaveSettings(store driven.ConfigStore, s domain.Settings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, s.Embedding.Provider.String()},
		{keyEmbedModel, s.Embedding.Model},
		{keyEmbedBaseURL, s.Embedding.BaseURL},
		{keyEmbedDims, s.Embedding.Dimensions},
		{keyEmbedTimeout, int(s.Embedding.Timeout / time.Second)},
		{keyEmbedRetries, s.Embedding.MaxRetries},
		{keyEmbedRate, s.Embedding.RequestsPerSecond},
		{keyLLMProvider, s.LLM.Provider.String()},
		{keyLLMModel, s.LLM.Model},
		{keyLLMBaseURL, s.LLM.BaseURL},
		{keyChunkSize, s.Chunking.Size},
		{keyChunkOverlap, s.Chunking.OverlapWords},
		{keyStorageBackend, string(s.Storage.Backend)},
		{keyStorageDir, s.Storage.Dir},
		{keyServerAddr, s.Server.Addr},
		{keyServerInbox, s.Server.InboxDir},
		{keyPrivacyPatterns, s.Privacy.BlockedPatterns},
	}
	for _, v := range values {
		if err := store.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return store.Save()
}

func providerOr(store driven.ConfigStore, key string, def domain.AIProvider) (domain.AIProvider, error) {
	v := store.GetString(key)
	if v == "" {
		return def, nil
	}
	p := domain.AIProvider(v)
	if !p.IsValid() && p != domain.AIProviderNone {
		return def, fmt.Errorf("%s: unknown provider %q: %w", key, v, domain.ErrInvalidInput)
	}
	return p, nil
}

func stringOr(store driven.ConfigStore, key, def string) string {
	if v := store.GetString(key); v != "" {
		return v
	}
	return def
}

func apiKey(store driven.ConfigStore, key string, provider domain.AIProvider) string {
	if v := store.GetString(key); v != "" {
		return v
	}
	if env := provider.APIKeyEnv(); env != "" {
		return os.Getenv(env)
	}
	return ""
}
