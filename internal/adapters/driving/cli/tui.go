package cli

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/webrecall/internal/adapters/driving/tui"
)

var tuiLimit int

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui [query]",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal interface for searching your history,
reading matched pages and asking questions.

Controls:
  ↑/k, ↓/j - Navigate results
  Enter    - Search / Open
  n, /     - New query
  Esc      - Back
  Ctrl+C   - Quit`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().IntVarP(&tuiLimit, "limit", "n", 10, "maximum number of results per search")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	svc, err := loadServices(cmd)
	if err != nil {
		return err
	}

	app, err := tui.NewApp(tui.NewPorts(svc.Search, svc.Chat, svc.Index))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	app.WithContext(cmd.Context()).
		WithLimit(tuiLimit).
		WithInitialQuery(strings.Join(args, " "))

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
