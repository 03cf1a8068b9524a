// Package app wires the core services to their driven adapters.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/webrecall/internal/adapters/driven/ai"
	"github.com/custodia-labs/webrecall/internal/adapters/driven/config/file"
	filestore "github.com/custodia-labs/webrecall/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/webrecall/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/webrecall/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/webrecall/internal/adapters/driven/vector/flat"
	"github.com/custodia-labs/webrecall/internal/core/domain"
	"github.com/custodia-labs/webrecall/internal/core/ports/driven"
	"github.com/custodia-labs/webrecall/internal/core/services"
	"github.com/custodia-labs/webrecall/internal/logger"
	"github.com/custodia-labs/webrecall/internal/normalisers"
	"github.com/custodia-labs/webrecall/internal/normalisers/html"
	"github.com/custodia-labs/webrecall/internal/normalisers/pdf"
	"github.com/custodia-labs/webrecall/internal/normalisers/plaintext"
	"github.com/custodia-labs/webrecall/internal/postprocessors"
)

// Directory names under the data directory.
const (
	IndexDir   = "index"
	PromptsDir = "prompts"
	InboxDir   = "inbox"
)

// App holds the opened index and the services built on it.
type App struct {
	DataDir  string
	Settings domain.Settings
	Config   *file.ConfigStore
	Warnings []string

	Index  *services.IndexService
	Search *services.SearchService
	Chat   *services.ChatService
	Ingest *services.IngestService

	ai *ai.Services
}

// ResolveDataDir returns dataDir, or ~/.webrecall when it is empty.
func ResolveDataDir(dataDir string) (string, error) {
	if dataDir != "" {
		return dataDir, nil
	}
	return file.DefaultDir()
}

// LoadConfig opens the config store in dataDir and assembles settings.
func LoadConfig(dataDir string) (*file.ConfigStore, domain.Settings, error) {
	dir, err := ResolveDataDir(dataDir)
	if err != nil {
		return nil, domain.Settings{}, fmt.Errorf("resolving data directory: %w", err)
	}
	store, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, domain.Settings{}, fmt.Errorf("opening config: %w", err)
	}
	settings, err := services.LoadSettings(store)
	if err != nil {
		return nil, domain.Settings{}, fmt.Errorf("loading settings: %w", err)
	}
	return store, settings, nil
}

// New builds every service from the configuration in dataDir and opens the index.
// The caller must Close the returned App.
func New(ctx context.Context, dataDir string) (*App, error) {
	dir, err := ResolveDataDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	store, settings, err := LoadConfig(dir)
	if err != nil {
		return nil, err
	}

	logger.Section("Bootstrap")
	logger.Debug("Data directory: %s", dir)
	logger.Debug("Embedding: %s/%s (%d dims)", settings.Embedding.Provider, settings.Embedding.Model, settings.Embedding.Dimensions)
	logger.Debug("LLM: %s/%s", settings.LLM.Provider, settings.LLM.Model)
	logger.Debug("Storage: %s", settings.Storage.Backend)

	aiServices, err := ai.New(ctx, settings)
	if err != nil {
		return nil, err
	}

	repo, err := openRepository(dir, settings.Storage)
	if err != nil {
		_ = aiServices.Close()
		return nil, err
	}

	vectors, err := flat.New(settings.Embedding.Dimensions)
	if err != nil {
		_ = repo.Close()
		_ = aiServices.Close()
		return nil, fmt.Errorf("creating vector index: %w", err)
	}

	index := services.NewIndexService(vectors, memory.NewMetadataStore(), repo, aiServices.Embedding)
	if err := index.Open(ctx); err != nil {
		_ = repo.Close()
		_ = aiServices.Close()
		return nil, fmt.Errorf("opening index: %w", err)
	}

	pipeline, err := postprocessors.DefaultPipeline(settings.Chunking)
	if err != nil {
		_ = index.Close(ctx)
		_ = aiServices.Close()
		return nil, fmt.Errorf("building chunk pipeline: %w", err)
	}

	prompts, err := file.NewPromptStore(filepath.Join(dir, PromptsDir))
	if err != nil {
		_ = index.Close(ctx)
		_ = aiServices.Close()
		return nil, fmt.Errorf("opening prompts: %w", err)
	}

	search := services.NewSearchService(index)
	filter := services.NewConfidentialityFilter(settings.Privacy.BlockedPatterns...)

	return &App{
		DataDir:  dir,
		Settings: settings,
		Config:   store,
		Warnings: aiServices.Warnings,
		Index:    index,
		Search:   search,
		Chat:     services.NewChatService(search, aiServices.LLM, prompts),
		Ingest:   services.NewIngestService(filter, NewNormaliserRegistry(), pipeline, index),
		ai:       aiServices,
	}, nil
}

// NewNormaliserRegistry registers the html, plaintext and pdf normalisers.
func NewNormaliserRegistry() *normalisers.Registry {
	r := normalisers.NewRegistry()
	r.Register(plaintext.New())
	r.Register(html.New())
	r.Register(pdf.New())
	return r
}

// InboxPath returns the directory watched for page files.
func (a *App) InboxPath() string {
	if a.Settings.Server.InboxDir != "" {
		return a.Settings.Server.InboxDir
	}
	return filepath.Join(a.DataDir, InboxDir)
}

// Close closes the index, which owns the repository, and the AI clients.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Index != nil {
		errs = append(errs, a.Index.Close(ctx))
	}
	if a.ai != nil {
		errs = append(errs, a.ai.Close())
	}
	return errors.Join(errs...)
}

// openRepository selects the persistence backend.
func openRepository(dataDir string, s domain.StorageSettings) (driven.IndexRepository, error) {
	dir := s.Dir
	if dir == "" {
		dir = dataDir
	}

	switch s.Backend {
	case domain.StorageSQLite:
		store, err := sqlite.NewStore(dir)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return store, nil
	case domain.StorageFile, "":
		store, err := filestore.NewStore(filepath.Join(dir, IndexDir))
		if err != nil {
			return nil, fmt.Errorf("opening file store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("storage backend %q: %w", s.Backend, domain.ErrUnsupportedType)
	}
}
