package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderGemini is the Google Gemini API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderAnthropic is the Anthropic cloud API. LLM only.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderNone disables the service.
	AIProviderNone AIProvider = "none"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderGemini, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// SupportsEmbedding returns true if the provider can produce embeddings.
func (p AIProvider) SupportsEmbedding() bool {
	return p == AIProviderOllama || p == AIProviderOpenAI || p == AIProviderGemini
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderGemini || p == AIProviderAnthropic
}

// APIKeyEnv returns the environment variable holding the provider's key.
func (p AIProvider) APIKeyEnv() string {
	switch p {
	case AIProviderOpenAI:
		return "OPENAI_API_KEY"
	case AIProviderGemini:
		return "GEMINI_API_KEY"
	case AIProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderNone:
		return "Disabled"
	default:
		return unknownDescription
	}
}

// StorageBackend selects how the index is persisted.
type StorageBackend string

// Available storage backends.
const (
	// StorageFile writes a vector blob and a metadata JSON file per generation.
	StorageFile StorageBackend = "file"

	// StorageSQLite writes vectors and chunks to one SQLite database.
	StorageSQLite StorageBackend = "sqlite"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	return b == StorageFile || b == StorageSQLite
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	Provider   AIProvider
	Model      string
	BaseURL    string
	APIKey     string
	Dimensions int

	// Timeout bounds a single embedding request.
	Timeout time.Duration

	// MaxRetries is the number of retries after a failed request.
	MaxRetries int

	// RequestsPerSecond limits the request rate. Zero means unlimited.
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.SupportsEmbedding() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	Provider AIProvider
	Model    string
	BaseURL  string
	APIKey   string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ChunkingSettings configures the sentence chunker.
type ChunkingSettings struct {
	// Size is the maximum chunk length in characters.
	Size int

	// OverlapWords is the number of trailing words carried into the next chunk.
	OverlapWords int
}

// StorageSettings configures persistence.
type StorageSettings struct {
	Backend StorageBackend

	// Dir is the data directory. Empty means ~/.webrecall.
	Dir string
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Addr string

	// InboxDir is watched for exported page files. Empty disables watching.
	InboxDir string
}

// PrivacySettings configures the confidentiality filter.
type PrivacySettings struct {
	// BlockedPatterns are extra URL substrings treated as confidential.
	BlockedPatterns []string
}

// Settings holds all application settings.
type Settings struct {
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Chunking  ChunkingSettings
	Storage   StorageSettings
	Server    ServerSettings
	Privacy   PrivacySettings
}

// DefaultSettings returns settings with sensible defaults.
// Embeddings default to a local Ollama instance; chat defaults to Gemini.
func DefaultSettings() Settings {
	return Settings{
		Embedding: EmbeddingSettings{
			Provider:          AIProviderOllama,
			Model:             DefaultEmbeddingModels()[AIProviderOllama],
			Dimensions:        768,
			Timeout:           30 * time.Second,
			MaxRetries:        3,
			RequestsPerSecond: 0,
		},
		LLM: LLMSettings{
			Provider: AIProviderGemini,
			Model:    DefaultLLMModels()[AIProviderGemini],
		},
		Chunking: ChunkingSettings{
			Size:         1000,
			OverlapWords: 40,
		},
		Storage: StorageSettings{
			Backend: StorageFile,
		},
		Server: ServerSettings{
			Addr: "localhost:5000",
		},
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderGemini: "text-embedding-004",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderGemini:    "gemini-2.0-flash",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Gemini models
		"text-embedding-004": 768,
	}
}
