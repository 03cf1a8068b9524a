package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/webrecall/internal/core/domain"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your browsing history",
	Long: `Answers a question using the most relevant pages you have visited.
The answer cites its sources, which are listed below it.

Requires an LLM provider; see 'webrecall settings show'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	svc, err := loadServices(cmd)
	if err != nil {
		return err
	}

	resp, err := svc.Chat.Ask(cmd.Context(), question)
	if errors.Is(err, domain.ErrLLMUnavailable) {
		return fmt.Errorf("%w: set llm.provider with 'webrecall settings set'", err)
	}
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return writeJSON(cmd.OutOrStdout(), resp)
	}

	p := newPrinter(cmd)
	p.println(resp.Text)
	if len(resp.Sources) == 0 {
		return nil
	}

	p.println()
	p.println(p.style(titleStyle, "Sources"))
	for i, src := range resp.Sources {
		p.printf("  [%d] %s\n", i+1, displayTitle(src.Title, src.URL))
		p.printf("      %s\n", p.style(urlStyle, src.URL))
	}
	return nil
}
