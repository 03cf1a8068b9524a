// Package stats provides the index statistics view for the TUI.
package stats

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/custodia-labs/webrecall/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/webrecall/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/webrecall/internal/core/domain"
	"github.com/custodia-labs/webrecall/internal/core/ports/driving"
)

// View is the index statistics view.
type View struct {
	styles       *styles.Styles
	indexService driving.IndexService
	ctx          context.Context

	stats   *domain.IndexStats
	width   int
	height  int
	ready   bool
	loading bool
	err     error
}

// NewView creates a new stats view. The index service may be nil.
func NewView(s *styles.Styles, indexService driving.IndexService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:       s,
		indexService: indexService,
		ctx:          context.Background(),
		width:        80,
		height:       24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Load returns a command that fetches fresh statistics.
func (v *View) Load() tea.Cmd {
	v.loading = true
	ctx, svc := v.ctx, v.indexService
	return func() tea.Msg {
		if svc == nil {
			return messages.StatsLoaded{Err: ErrNoIndexService}
		}
		stats, err := svc.Stats(ctx)
		return messages.StatsLoaded{Stats: stats, Err: err}
	}
}

// Update handles messages for the stats view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return v, v.Load()
		case "esc", "q":
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
		return v, nil

	case messages.StatsLoaded:
		v.loading = false
		v.stats = msg.Stats
		v.err = msg.Err
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// buildContent builds the label and value lines for display.
func (v *View) buildContent() []string {
	if v.stats == nil {
		return nil
	}

	model := v.stats.Model
	if model == "" {
		model = "(not configured)"
	}
	return []string{
		formatField("Pages", humanize.Comma(int64(v.stats.TotalDocuments))),
		formatField("Chunks", humanize.Comma(int64(v.stats.TotalChunks))),
		formatField("Dimension", fmt.Sprintf("%d", v.stats.Dimension)),
		formatField("Model", model),
		formatField("Size", humanize.Bytes(uint64(max(v.stats.IndexSizeBytes, 0)))),
	}
}

func formatField(label, value string) string {
	return fmt.Sprintf("%-12s %s", label+":", value)
}

// View renders the stats view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Index Statistics"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", max(min(v.width-4, 60), 0)))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading statistics..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case v.stats == nil:
		b.WriteString(v.styles.Muted.Render("No statistics loaded"))
	case v.stats.TotalChunks == 0:
		b.WriteString(v.styles.Muted.Render("The index is empty. Visit pages with the extension to fill it."))
	default:
		for _, line := range v.buildContent() {
			label, value, _ := strings.Cut(line, ":")
			b.WriteString(v.styles.Subtitle.Render(label + ":"))
			b.WriteString(v.styles.Normal.Render(value))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[r] refresh  [esc] back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Stats returns the last loaded statistics.
func (v *View) Stats() *domain.IndexStats {
	return v.stats
}

// Loading reports whether a load is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
