package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/webrecall/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/webrecall/internal/adapters/driving/inbox"
	"github.com/custodia-labs/webrecall/internal/logger"
)

var (
	serveAddr    string
	serveInbox   bool
	serveInboxAt string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for the browser extension",
	Long: `Serves the HTTP API the browser extension sends pages to:

  GET  /health       liveness
  POST /index        index a page {url, title, content}
  POST /index/pdf    index an uploaded PDF
  GET  /search?q=    reranked search
  POST /chat         ask a question {query}
  GET  /stats        index statistics
  POST /clear        delete everything

With --inbox the exported-page directory is watched at the same time.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default server.addr, localhost:5000)")
	serveCmd.Flags().BoolVar(&serveInbox, "inbox", false, "also watch the inbox directory")
	serveCmd.Flags().StringVar(&serveInboxAt, "inbox-dir", "", "inbox directory (implies --inbox)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger.EnableAtLeast(slog.LevelInfo)
	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	svc, err := loadServices(cmd)
	if err != nil {
		return err
	}

	server, err := httpapi.NewServer(&httpapi.Ports{
		Index:  svc.Index,
		Search: svc.Search,
		Chat:   svc.Chat,
		Ingest: svc.Ingest,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	addr := serveAddr
	if addr == "" {
		addr = svc.Settings.Server.Addr
	}

	var watcher *inbox.Watcher
	if serveInbox || serveInboxAt != "" {
		dir := serveInboxAt
		if dir == "" {
			dir = svc.InboxDir
		}
		if watcher, err = newInboxWatcher(cmd, dir, svc); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return server.Run(ctx, addr)
	})
	if watcher != nil {
		g.Go(func() error {
			return watcher.Run(ctx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
