package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	svc, err := loadServices(cmd)
	if err != nil {
		return err
	}

	stats, err := svc.Index.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}

	if statsJSON {
		return writeJSON(cmd.OutOrStdout(), stats)
	}

	model := stats.Model
	if model == "" {
		model = "(not configured)"
	}

	cmd.Println("Index Statistics")
	cmd.Println("================")
	cmd.Printf("  Pages:     %s\n", humanize.Comma(int64(stats.TotalDocuments)))
	cmd.Printf("  Chunks:    %s\n", humanize.Comma(int64(stats.TotalChunks)))
	cmd.Printf("  Dimension: %d\n", stats.Dimension)
	cmd.Printf("  Model:     %s\n", model)
	cmd.Printf("  Size:      %s\n", humanize.Bytes(uint64(max(stats.IndexSizeBytes, 0))))
	return nil
}
