package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/webrecall/internal/adapters/driving/inbox"
	"github.com/custodia-labs/webrecall/internal/core/domain"
	"github.com/custodia-labs/webrecall/internal/logger"
)

var watchOnce bool

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Index page files dropped into a directory",
	Long: `Watches a directory for *.json page files, as exported by the browser
extension, and indexes each one as it arrives. Indexed files move to
processed/ and files that fail move to failed/.

The directory defaults to the inbox under the data directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchOnce, "once", false, "process waiting files and exit")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger.EnableAtLeast(slog.LevelInfo)

	svc, err := loadServices(cmd)
	if err != nil {
		return err
	}

	dir := svc.InboxDir
	if len(args) == 1 {
		dir = args[0]
	}

	w, err := newInboxWatcher(cmd, dir, svc)
	if err != nil {
		return err
	}

	if watchOnce {
		n, err := w.Scan(cmd.Context())
		if err != nil {
			return err
		}
		cmd.Printf("Processed %d files from %s\n", n, w.Dir())
		return nil
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", w.Dir())
	return w.Run(cmd.Context())
}

// newInboxWatcher creates a watcher that reports each file on the command output.
func newInboxWatcher(cmd *cobra.Command, dir string, svc *Services) (*inbox.Watcher, error) {
	w, err := inbox.New(dir, svc.Ingest)
	if err != nil {
		return nil, fmt.Errorf("inbox: %w", err)
	}
	w.OnOutcome = func(o inbox.Outcome) {
		name := filepath.Base(o.Path)
		switch {
		case o.Err != nil:
			cmd.PrintErrf("failed  %s: %v\n", name, o.Err)
		case o.Result != nil && o.Result.Status == domain.IngestIndexed:
			cmd.Printf("indexed %s (%d chunks)\n", name, o.Result.Chunks)
		case o.Result != nil:
			cmd.Printf("skipped %s: %s\n", name, o.Result.Message)
		}
	}
	return w, nil
}
