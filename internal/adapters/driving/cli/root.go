// Package cli provides the webrecall command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/webrecall/internal/core/domain"
	"github.com/custodia-labs/webrecall/internal/core/ports/driven"
	"github.com/custodia-labs/webrecall/internal/core/ports/driving"
	"github.com/custodia-labs/webrecall/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

var (
	verbose bool
	dataDir string
)

// Services is everything a command may need. Chat may answer with
// domain.ErrLLMUnavailable when no language model is configured.
type Services struct {
	Settings domain.Settings
	Config   driven.ConfigStore

	Index  driving.IndexService
	Search driving.SearchService
	Chat   driving.ChatService
	Ingest driving.IngestService

	// InboxDir is the default directory for watch and serve --inbox.
	InboxDir string

	// Close releases the services. Optional.
	Close func(ctx context.Context) error
}

// Bootstrapper builds the services from the data directory.
type Bootstrapper func(ctx context.Context, dataDir string) (*Services, error)

// ConfigOpener opens only the configuration, for commands that never touch the index.
type ConfigOpener func(dataDir string) (driven.ConfigStore, domain.Settings, error)

var (
	bootstrap  Bootstrapper
	openConfig ConfigOpener
	services   *Services
)

// SetBootstrapper installs the function that builds services.
func SetBootstrapper(b Bootstrapper) {
	bootstrap = b
}

// SetConfigOpener installs the function that opens the configuration.
func SetConfigOpener(o ConfigOpener) {
	openConfig = o
}

var rootCmd = &cobra.Command{
	Use:   "webrecall",
	Short: "Search and chat over your browsing history",
	Long: `webrecall indexes the pages you visit and lets you search them by meaning
and keywords, or ask questions answered from your own history.

Pages arrive from the browser extension through 'webrecall serve', from
exported files through 'webrecall watch', or directly with 'webrecall index'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.webrecall)")
}

// Execute runs the root command and releases any services it opened.
func Execute(ctx context.Context) error {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	// cobra prints to stderr unless an output is set.
	rootCmd.SetOut(os.Stdout)

	defer func() {
		if err := closeServices(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("closing services: %v", err)
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

// loadServices bootstraps services once per process.
func loadServices(cmd *cobra.Command) (*Services, error) {
	if services != nil {
		return services, nil
	}
	if bootstrap == nil {
		return nil, errors.New("services not configured")
	}
	s, err := bootstrap(cmd.Context(), dataDir)
	if err != nil {
		return nil, err
	}
	services = s
	return s, nil
}

func closeServices(ctx context.Context) error {
	if services == nil || services.Close == nil {
		services = nil
		return nil
	}
	err := services.Close(ctx)
	services = nil
	return err
}

// loadConfig opens the configuration without building services.
func loadConfig() (driven.ConfigStore, domain.Settings, error) {
	if openConfig == nil {
		return nil, domain.Settings{}, errors.New("config not configured")
	}
	store, settings, err := openConfig(dataDir)
	if err != nil {
		return nil, domain.Settings{}, fmt.Errorf("loading config: %w", err)
	}
	return store, settings, nil
}
