package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/webrecall/internal/core/domain"
	coreservices "github.com/custodia-labs/webrecall/internal/core/services"
)

var (
	matchStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B"))
	titleStyle = lipgloss.NewStyle().Bold(true)
	urlStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5EA4F7"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7A8699"))
)

// printer writes command output, styled only when it goes to a terminal.
type printer struct {
	w      io.Writer
	styled bool
}

func newPrinter(cmd *cobra.Command) *printer {
	w := cmd.OutOrStdout()
	return &printer{w: w, styled: isTerminal(w)}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// stdinIsTerminal reports whether the user can answer a prompt.
func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func (p *printer) style(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

func (p *printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *printer) println(args ...any) {
	fmt.Fprintln(p.w, args...)
}

// highlight marks every query term occurrence in text.
func (p *printer) highlight(query, text string) string {
	if !p.styled {
		return text
	}
	spans := coreservices.Highlights(coreservices.QueryTerms(query), text)
	if len(spans) == 0 {
		return text
	}

	runes := []rune(text)
	var b strings.Builder
	pos := 0
	for _, h := range spans {
		if h.Start < pos || h.End > len(runes) {
			continue
		}
		b.WriteString(string(runes[pos:h.Start]))
		b.WriteString(matchStyle.Render(string(runes[h.Start:h.End])))
		pos = h.End
	}
	b.WriteString(string(runes[pos:]))
	return b.String()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

func displayTitle(title, url string) string {
	if strings.TrimSpace(title) != "" {
		return title
	}
	if url != "" {
		return url
	}
	return "(Untitled)"
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	if n <= 3 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

// printResults renders search results as a numbered list.
func (p *printer) printResults(query string, results []domain.SearchResult) {
	if len(results) == 0 {
		p.println("No results found.")
		return
	}

	for i := range results {
		r := &results[i]
		p.printf("[%d] %s %s\n", i+1,
			p.style(titleStyle, displayTitle(r.Title, r.URL)),
			p.style(mutedStyle, fmt.Sprintf("(%.2f)", r.Score)))
		p.printf("    %s\n", p.style(urlStyle, r.URL))
		snippet := r.Snippet
		if snippet == "" {
			snippet = truncate(r.Content, 200)
		}
		if snippet = oneLine(snippet); snippet != "" {
			p.printf("    %s\n", p.highlight(query, snippet))
		}
		p.println()
	}
}
