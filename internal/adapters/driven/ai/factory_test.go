package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/custodia-labs/webrecall/internal/adapters/driven/embedding/retrying"
	"github.com/custodia-labs/webrecall/internal/core/domain"
)

func TestServices_Close(t *testing.T) {
	t.Run("close with nil services", func(t *testing.T) {
		s := &Services{}
		if err := s.Close(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.EmbeddingSettings
		wantNil  bool
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantNil:  true,
		},
		{
			name:     "unconfigured settings returns nil",
			settings: &domain.EmbeddingSettings{},
			wantNil:  true,
		},
		{
			name: "ollama provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider:   domain.AIProviderOllama,
				BaseURL:    "http://localhost:11434",
				Model:      "nomic-embed-text",
				Dimensions: 768,
			},
		},
		{
			name: "openai provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider:   domain.AIProviderOpenAI,
				APIKey:     "test-key",
				Model:      "text-embedding-3-small",
				Dimensions: 1536,
			},
		},
		{
			name: "gemini provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider:   domain.AIProviderGemini,
				APIKey:     "test-key",
				Model:      "text-embedding-004",
				Dimensions: 768,
			},
		},
		{
			name: "openai without key returns nil",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
			},
			wantNil: true,
		},
		{
			name: "anthropic has no embeddings",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderAnthropic,
				APIKey:   "test-key",
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(context.Background(), tt.settings)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil {
				if svc != nil {
					t.Error("expected nil service, got non-nil")
					svc.Close()
				}
				return
			}
			if svc == nil {
				t.Fatal("expected non-nil service, got nil")
			}
			defer svc.Close()

			if _, ok := svc.(*retrying.EmbeddingService); !ok {
				t.Errorf("expected retrying wrapper, got %T", svc)
			}
			if svc.Dimensions() != tt.settings.Dimensions {
				t.Errorf("dimensions = %d, want %d", svc.Dimensions(), tt.settings.Dimensions)
			}
			if svc.ModelName() != tt.settings.Model {
				t.Errorf("model = %q, want %q", svc.ModelName(), tt.settings.Model)
			}
		})
	}
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name      string
		settings  *domain.LLMSettings
		wantNil   bool
		wantModel string
	}{
		{
			name:    "nil settings returns nil",
			wantNil: true,
		},
		{
			name:     "disabled returns nil",
			settings: &domain.LLMSettings{Provider: domain.AIProviderNone},
			wantNil:  true,
		},
		{
			name:      "ollama provider creates service",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderOllama, Model: "llama3.2"},
			wantModel: "llama3.2",
		},
		{
			name:      "openai provider creates service",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "k", Model: "gpt-4o-mini"},
			wantModel: "gpt-4o-mini",
		},
		{
			name:      "anthropic provider creates service",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderAnthropic, APIKey: "k"},
			wantModel: "claude-3-5-sonnet-latest",
		},
		{
			name:      "gemini provider creates service",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderGemini, APIKey: "k"},
			wantModel: "gemini-2.0-flash",
		},
		{
			name:     "gemini without key returns nil",
			settings: &domain.LLMSettings{Provider: domain.AIProviderGemini},
			wantNil:  true,
		},
		{
			name:     "unknown provider returns nil (not configured)",
			settings: &domain.LLMSettings{Provider: "unknown", APIKey: "k"},
			wantNil:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(context.Background(), tt.settings)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil {
				if svc != nil {
					t.Error("expected nil service, got non-nil")
					svc.Close()
				}
				return
			}
			if svc == nil {
				t.Fatal("expected non-nil service, got nil")
			}
			defer svc.Close()
			if svc.ModelName() != tt.wantModel {
				t.Errorf("model = %q, want %q", svc.ModelName(), tt.wantModel)
			}
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("defaults without gemini key", func(t *testing.T) {
		settings := domain.DefaultSettings()
		settings.LLM.APIKey = ""

		svcs, err := New(context.Background(), settings)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer svcs.Close()

		if svcs.Embedding == nil {
			t.Error("expected ollama embedding service")
		}
		if svcs.LLM != nil {
			t.Error("expected chat to be disabled")
		}
		if len(svcs.Warnings) != 1 || !strings.Contains(svcs.Warnings[0], "chat is disabled") {
			t.Errorf("unexpected warnings: %v", svcs.Warnings)
		}
	})

	t.Run("llm disabled on purpose", func(t *testing.T) {
		settings := domain.DefaultSettings()
		settings.LLM.Provider = domain.AIProviderNone

		svcs, err := New(context.Background(), settings)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer svcs.Close()
		if len(svcs.Warnings) != 0 {
			t.Errorf("unexpected warnings: %v", svcs.Warnings)
		}
	})

	t.Run("unconfigured embedding warns", func(t *testing.T) {
		settings := domain.DefaultSettings()
		settings.Embedding.Provider = domain.AIProviderOpenAI
		settings.LLM.Provider = domain.AIProviderNone

		svcs, err := New(context.Background(), settings)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if svcs.Embedding != nil {
			t.Error("expected no embedding service without an API key")
		}
		if len(svcs.Warnings) != 1 {
			t.Errorf("unexpected warnings: %v", svcs.Warnings)
		}
	})
}

func TestValidateEmbeddingConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	ok := &domain.EmbeddingSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL, Dimensions: 768}
	if err := ValidateEmbeddingConfig(context.Background(), ok); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := ValidateEmbeddingConfig(context.Background(), &domain.EmbeddingSettings{})
	if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
		t.Errorf("expected ErrEmbeddingUnavailable, got %v", err)
	}

	srv.Close()
	err = ValidateEmbeddingConfig(context.Background(), ok)
	if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
		t.Errorf("expected ErrEmbeddingUnavailable for unreachable server, got %v", err)
	}
}

func TestValidateLLMConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := ValidateLLMConfig(context.Background(), &domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL})
	if !errors.Is(err, domain.ErrLLMUnavailable) {
		t.Errorf("expected ErrLLMUnavailable, got %v", err)
	}

	err = ValidateLLMConfig(context.Background(), nil)
	if !errors.Is(err, domain.ErrLLMUnavailable) {
		t.Errorf("expected ErrLLMUnavailable for nil settings, got %v", err)
	}
}
