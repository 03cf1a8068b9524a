// Package menu is the landing screen listing what the TUI can do.
package menu

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/webrecall/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/webrecall/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/webrecall/internal/adapters/driving/tui/styles"
)

// Item is one menu entry. Quit entries exit instead of switching view.
type Item struct {
	Label string
	Hint  string
	View  messages.ViewType
	Quit  bool
}

var defaultItems = []Item{
	{Label: "Search history", Hint: "find pages by meaning and keywords", View: messages.ViewSearch},
	{Label: "Ask a question", Hint: "answers cite the pages they came from", View: messages.ViewAsk},
	{Label: "Index stats", Hint: "pages, chunks and disk usage", View: messages.ViewStats},
	{Label: "Quit", Quit: true},
}

// View is the menu screen.
type View struct {
	styles   *styles.Styles
	keys     *keymap.KeyMap
	items    []Item
	selected int
	width    int
	height   int
	ready    bool
}

// NewView returns the menu with the cursor on the first entry.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		keys:   keymap.DefaultKeyMap(),
		items:  defaultItems,
		width:  80,
		height: 24,
	}
}

// Init implements tea.Model.
func (v *View) Init() tea.Cmd { return nil }

// Update moves the cursor and selects entries. Digits jump straight to an entry.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Up):
			v.selected = max(0, v.selected-1)
		case key.Matches(msg, v.keys.Down):
			v.selected = min(len(v.items)-1, v.selected+1)
		case key.Matches(msg, v.keys.Submit):
			return v, v.choose(v.selected)
		case msg.String() == "q":
			return v, tea.Quit
		default:
			if n, ok := digit(msg); ok && n <= len(v.items) {
				v.selected = n - 1
				return v, v.choose(v.selected)
			}
		}
	}
	return v, nil
}

func (v *View) choose(i int) tea.Cmd {
	item := v.items[i]
	if item.Quit {
		return tea.Quit
	}
	return func() tea.Msg { return messages.ViewChanged{View: item.View} }
}

func digit(msg tea.KeyMsg) (int, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if r < '1' || r > '9' {
		return 0, false
	}
	return int(r - '0'), true
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("webrecall") + "\n\n")
	b.WriteString(v.styles.Muted.Render("Browsing History Search") + "\n\n")

	for i, item := range v.items {
		label := fmt.Sprintf("%d. %s", i+1, item.Label)
		if i == v.selected {
			b.WriteString("> " + v.styles.Subtitle.Render(label))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(label))
		}
		if item.Hint != "" {
			b.WriteString("  " + v.styles.Muted.Render(item.Hint))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + v.styles.Help.Render("[j/k] Navigate  [1-4] Jump  [Enter] Select  [q] Quit"))
	return b.String()
}

// SetDimensions records the terminal size and marks the view ready.
func (v *View) SetDimensions(width, height int) {
	v.width, v.height, v.ready = width, height, true
}

// Selected returns the cursor position.
func (v *View) Selected() int { return v.selected }

// Items returns the menu entries.
func (v *View) Items() []Item { return v.items }
