package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var clearForce bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every indexed page",
	Long: `Removes all vectors and page metadata, in memory and on disk.
This cannot be undone. Without --force you are asked to confirm.`,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "clear without asking")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	svc, err := loadServices(cmd)
	if err != nil {
		return err
	}

	if !clearForce {
		if !stdinIsTerminal() {
			return errors.New("refusing to clear without --force")
		}
		stats, err := svc.Index.Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}
		cmd.Printf("Delete %d chunks from %d pages? [y/N]: ", stats.TotalChunks, stats.TotalDocuments)
		if !confirmed(readLine(bufio.NewReader(os.Stdin))) {
			cmd.Println("Cancelled.")
			return nil
		}
	}

	if err := svc.Index.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}
	cmd.Println("Index cleared.")
	return nil
}

func confirmed(answer string) bool {
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func readLine(reader *bufio.Reader) string {
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
