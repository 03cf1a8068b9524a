// Command webrecall indexes and searches your browsing history.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/webrecall/internal/adapters/driving/cli"
	"github.com/custodia-labs/webrecall/internal/app"
	"github.com/custodia-labs/webrecall/internal/core/domain"
	"github.com/custodia-labs/webrecall/internal/core/ports/driven"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetConfigOpener(func(dataDir string) (driven.ConfigStore, domain.Settings, error) {
		return app.LoadConfig(dataDir)
	})
	cli.SetBootstrapper(bootstrap)

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func bootstrap(ctx context.Context, dataDir string) (*cli.Services, error) {
	a, err := app.New(ctx, dataDir)
	if err != nil {
		return nil, err
	}
	return &cli.Services{
		Settings: a.Settings,
		Config:   a.Config,
		Index:    a.Index,
		Search:   a.Search,
		Chat:     a.Chat,
		Ingest:   a.Ingest,
		InboxDir: a.InboxPath(),
		Close:    a.Close,
	}, nil
}
