// Package preview provides the full-text view of one search result.
package preview

import (
	"fmt"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/webrecall/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/webrecall/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/webrecall/internal/core/domain"
)

// span is a rune range of the result content.
type span struct {
	start, end int
}

// View shows a result's title, URL and chunk text with query terms marked.
type View struct {
	styles *styles.Styles

	result       *domain.SearchResult
	content      []rune
	lines        []span
	scrollOffset int
	width        int
	height       int
	ready        bool
}

// NewView creates a new preview view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		width:  80,
		height: 24,
	}
}

// SetResult replaces the displayed result and scrolls to the top.
func (v *View) SetResult(result domain.SearchResult) {
	v.result = &result
	v.content = []rune(result.Content)
	v.scrollOffset = 0
	v.wrapContent()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the preview view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "pgup", "ctrl+u":
		v.scrollOffset -= v.visibleLines()
		if v.scrollOffset < 0 {
			v.scrollOffset = 0
		}
	case "pgdown", "ctrl+d":
		v.scrollOffset += v.visibleLines()
		if v.scrollOffset > v.maxScrollOffset() {
			v.scrollOffset = v.maxScrollOffset()
		}
	case "home", "g":
		v.scrollOffset = 0
	case "end", "G":
		v.scrollOffset = v.maxScrollOffset()
	case "esc", "q":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSearch}
		}
	}

	return v, nil
}

// wrapContent splits the content into lines no wider than the view,
// breaking at the last space when one exists. Lines keep their rune offsets
// so highlights can be drawn without recomputing them.
func (v *View) wrapContent() {
	v.lines = nil
	if len(v.content) == 0 {
		return
	}

	width := v.width - 4
	if width < 20 {
		width = 20
	}

	start := 0
	for start < len(v.content) {
		end := start
		lastSpace := -1
		for end < len(v.content) && end-start < width && v.content[end] != '\n' {
			if unicode.IsSpace(v.content[end]) {
				lastSpace = end
			}
			end++
		}

		switch {
		case end < len(v.content) && v.content[end] == '\n':
			v.lines = append(v.lines, span{start, end})
			start = end + 1
		case end < len(v.content) && lastSpace > start:
			v.lines = append(v.lines, span{start, lastSpace})
			start = lastSpace + 1
		default:
			v.lines = append(v.lines, span{start, end})
			start = end
		}
	}
}

// lineHighlights returns the highlights inside line, rebased to its start.
func (v *View) lineHighlights(line span) []domain.Highlight {
	if v.result == nil {
		return nil
	}
	var out []domain.Highlight
	for _, h := range v.result.Highlights {
		start, end := h.Start, h.End
		if end <= line.start || start >= line.end {
			continue
		}
		if start < line.start {
			start = line.start
		}
		if end > line.end {
			end = line.end
		}
		out = append(out, domain.Highlight{Start: start - line.start, End: end - line.start, Term: h.Term})
	}
	return out
}

// visibleLines returns the number of content lines that fit.
func (v *View) visibleLines() int {
	// title, URL, score, separator, help and padding
	available := v.height - 8
	if available < 1 {
		available = 1
	}
	return available
}

// maxScrollOffset returns the maximum scroll offset.
func (v *View) maxScrollOffset() int {
	maxOffset := len(v.lines) - v.visibleLines()
	if maxOffset < 0 {
		maxOffset = 0
	}
	return maxOffset
}

// View renders the preview.
func (v *View) View() string {
	var b strings.Builder

	if v.result == nil {
		b.WriteString(v.styles.Title.Render("Preview"))
		b.WriteString("\n\n")
		b.WriteString(v.styles.Muted.Render("No result selected"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	title := v.result.Title
	if title == "" {
		title = "(Untitled)"
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(v.styles.URL.Render(v.result.URL))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("score %.2f  vector %.2f  lexical %.2f",
		v.result.Score, v.result.VectorScore, v.result.LexicalScore)))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", max(min(v.width-4, 60), 0)))
	b.WriteString("\n\n")

	if len(v.lines) == 0 {
		b.WriteString(v.styles.Muted.Render("(No content)"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	visible := v.visibleLines()
	for i := v.scrollOffset; i < len(v.lines) && i < v.scrollOffset+visible; i++ {
		line := v.lines[i]
		b.WriteString(v.styles.Highlighted(string(v.content[line.start:line.end]), v.lineHighlights(line)))
		b.WriteString("\n")
	}

	if len(v.lines) > visible {
		b.WriteString("\n")
		percentage := 0
		if v.maxScrollOffset() > 0 {
			percentage = v.scrollOffset * 100 / v.maxScrollOffset()
		}
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d%%] Line %d-%d of %d",
			percentage,
			v.scrollOffset+1,
			min(v.scrollOffset+visible, len(v.lines)),
			len(v.lines))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [g/G] top/bottom  [esc] back")
}

// SetDimensions sets the view dimensions and rewraps the content.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.wrapContent()
}

// Result returns the displayed result, or nil.
func (v *View) Result() *domain.SearchResult {
	return v.result
}

// LineCount returns the number of wrapped content lines.
func (v *View) LineCount() int {
	return len(v.lines)
}

// ScrollOffset returns the first visible line.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}
