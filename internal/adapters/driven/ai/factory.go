// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	geminiembed "github.com/custodia-labs/webrecall/internal/adapters/driven/embedding/gemini"
	ollamaembed "github.com/custodia-labs/webrecall/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/webrecall/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/webrecall/internal/adapters/driven/embedding/retrying"
	anthropicllm "github.com/custodia-labs/webrecall/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/custodia-labs/webrecall/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/webrecall/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/webrecall/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/webrecall/internal/core/domain"
	"github.com/custodia-labs/webrecall/internal/core/ports/driven"
	"github.com/custodia-labs/webrecall/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// fixHint is appended to configuration errors.
const fixHint = "Run 'webrecall settings set' to fix"

// Services holds the AI adapters built from settings. Either may be nil
// when its provider is disabled or missing credentials.
type Services struct {
	Embedding driven.EmbeddingService
	LLM       driven.LLMService

	// Warnings lists non-fatal problems found while building the services.
	Warnings []string
}

// Close releases every service.
func (s *Services) Close() error {
	var errs []error
	if s.Embedding != nil {
		errs = append(errs, s.Embedding.Close())
	}
	if s.LLM != nil {
		errs = append(errs, s.LLM.Close())
	}
	return errors.Join(errs...)
}

// New builds the embedding and LLM services. A broken embedding
// configuration is an error because nothing can be indexed without it; a
// broken LLM configuration only disables chat and is reported as a warning.
func New(ctx context.Context, settings domain.Settings) (*Services, error) {
	embedding, err := CreateEmbeddingService(ctx, &settings.Embedding)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. %s", domain.ErrEmbeddingUnavailable, err, fixHint)
	}

	out := &Services{Embedding: embedding}
	if embedding == nil {
		out.Warnings = append(out.Warnings,
			fmt.Sprintf("embedding provider %s is not configured, indexing and search are disabled", settings.Embedding.Provider))
	}

	llm, err := CreateLLMService(ctx, &settings.LLM)
	switch {
	case err != nil:
		out.Warnings = append(out.Warnings, fmt.Sprintf("chat disabled: %v", err))
	case llm == nil && settings.LLM.Provider != domain.AIProviderNone:
		out.Warnings = append(out.Warnings,
			fmt.Sprintf("LLM provider %s is not configured, chat is disabled", settings.LLM.Provider))
	}
	out.LLM = llm

	for _, w := range out.Warnings {
		logger.Warn("%s", w)
	}
	return out, nil
}

// ValidateEmbeddingConfig creates the configured embedding service and pings it.
func ValidateEmbeddingConfig(ctx context.Context, settings *domain.EmbeddingSettings) error {
	svc, err := CreateEmbeddingService(ctx, settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return fmt.Errorf("%w: provider not configured", domain.ErrEmbeddingUnavailable)
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable (%w). %s", domain.ErrEmbeddingUnavailable, err, fixHint)
	}
	return nil
}

// ValidateLLMConfig creates the configured LLM service and pings it.
func ValidateLLMConfig(ctx context.Context, settings *domain.LLMSettings) error {
	svc, err := CreateLLMService(ctx, settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return fmt.Errorf("%w: provider not configured", domain.ErrLLMUnavailable)
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable (%w). %s", domain.ErrLLMUnavailable, err, fixHint)
	}
	return nil
}

// CreateEmbeddingService creates the embedding service for settings,
// wrapped with timeouts, retries and rate limiting.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	var (
		inner driven.EmbeddingService
		err   error
	)
	switch settings.Provider {
	case domain.AIProviderOllama:
		inner = ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})
	case domain.AIProviderOpenAI:
		inner, err = openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})
	case domain.AIProviderGemini:
		inner, err = geminiembed.NewEmbeddingService(ctx, geminiembed.Config{
			APIKey:     settings.APIKey,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})
	default:
		return nil, fmt.Errorf("%s does not support embeddings: %w", settings.Provider, domain.ErrUnsupportedType)
	}
	if err != nil {
		return nil, err
	}

	return retrying.Wrap(inner, retrying.Config{
		Timeout:           settings.Timeout,
		MaxRetries:        settings.MaxRetries,
		RequestsPerSecond: settings.RequestsPerSecond,
	}), nil
}

// CreateLLMService creates the LLM service for settings.
// Returns nil if the provider is not configured.
func CreateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	var (
		svc driven.LLMService
		err error
	)
	switch settings.Provider {
	case domain.AIProviderOllama:
		svc = ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
	case domain.AIProviderOpenAI:
		svc, err = openaillm.NewLLMService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
	case domain.AIProviderAnthropic:
		svc, err = anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
	case domain.AIProviderGemini:
		svc, err = geminillm.NewLLMService(ctx, geminillm.Config{
			APIKey: settings.APIKey,
			Model:  settings.Model,
		})
	default:
		return nil, fmt.Errorf("unsupported LLM provider %s: %w", settings.Provider, domain.ErrUnsupportedType)
	}
	if err != nil {
		return nil, err
	}
	return svc, nil
}
