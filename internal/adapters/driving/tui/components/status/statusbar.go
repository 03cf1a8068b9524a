// Package status renders the one-line footer shared by the search and ask views.
package status

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/webrecall/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/webrecall/internal/adapters/driving/tui/styles"
)

// State is what the footer reports on its left side.
type State string

// Footer states.
const (
	StateReady     State = "ready"
	StateSearching State = "searching"
	StateAsking    State = "asking"
	StateLoading   State = "loading"
	StateError     State = "error"
	StateResults   State = "results"
	StateAnswered  State = "answered"
)

// pending states show a fixed muted label while a request is in flight.
var pending = map[State]string{
	StateSearching: "Searching...",
	StateAsking:    "Thinking...",
	StateLoading:   "Loading...",
}

const defaultWidth = 80

// Bar is a passive footer. Views push state into it through the setters.
type Bar struct {
	styles *styles.Styles
	keys   *keymap.KeyMap

	state   State
	message string
	count   int
	width   int
}

// NewBar returns a footer in the ready state. Nil arguments fall back to defaults.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{styles: s, keys: km, state: StateReady, width: defaultWidth}
}

// Init implements tea.Model.
func (s *Bar) Init() tea.Cmd { return nil }

// Update ignores messages.
func (s *Bar) Update(tea.Msg) (*Bar, tea.Cmd) { return s, nil }

// View renders the status on the left and key hints on the right.
func (s *Bar) View() string {
	left, right := s.status(), s.hints()
	gap := max(1, s.width-lipgloss.Width(left)-lipgloss.Width(right))
	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (s *Bar) status() string {
	if label, ok := pending[s.state]; ok {
		return s.styles.Muted.Render(label)
	}

	switch s.state {
	case StateError:
		if s.message == "" {
			return s.styles.Error.Render("Error")
		}
		return s.styles.Error.Render("Error: " + s.message)
	case StateAnswered:
		return s.styles.Normal.Render(plural(s.count, "source"))
	case StateResults:
		if s.message == "" {
			return s.styles.Normal.Render(plural(s.count, "result"))
		}
	}

	if s.message != "" {
		return s.styles.Normal.Render(s.message)
	}
	return s.styles.Muted.Render("Ready")
}

func (s *Bar) hints() string {
	bindings := s.keys.ShortHelp()
	if s.state == StateResults && s.count > 0 {
		bindings = s.keys.ResultsHelp()
	}

	parts := make([]string, len(bindings))
	for i, b := range bindings {
		parts[i] = b.Help().Key + ": " + b.Help().Desc
	}
	return s.styles.Muted.Render(strings.Join(parts, " | "))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// SetState sets the reported state.
func (s *Bar) SetState(state State) { s.state = state }

// State returns the reported state.
func (s *Bar) State() State { return s.state }

// SetMessage overrides the default label for ready, results and error states.
func (s *Bar) SetMessage(message string) { s.message = message }

// Message returns the override label.
func (s *Bar) Message() string { return s.message }

// SetResultCount sets how many results or sources are on screen.
func (s *Bar) SetResultCount(count int) { s.count = count }

// ResultCount returns the on-screen count.
func (s *Bar) ResultCount() int { return s.count }

// SetWidth sets the rendered width.
func (s *Bar) SetWidth(width int) { s.width = width }

// Width returns the rendered width.
func (s *Bar) Width() int { return s.width }

// Clear returns the bar to the ready state.
func (s *Bar) Clear() {
	s.state, s.message, s.count = StateReady, "", 0
}
