// Package ask provides the question and answer view for the TUI.
package ask

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/webrecall/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/webrecall/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/webrecall/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/webrecall/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/webrecall/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/webrecall/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/webrecall/internal/core/domain"
	"github.com/custodia-labs/webrecall/internal/core/ports/driving"
)

// ErrNoChatService indicates no language model is configured.
var ErrNoChatService = errors.New("chat is not configured, set an llm provider with 'webrecall settings set'")

// View asks questions of the indexed history and shows cited answers.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.Field
	statusbar *status.Bar

	chatService driving.ChatService
	ctx         context.Context

	question   string
	response   *domain.ChatResponse
	err        error
	width      int
	height     int
	ready      bool
	focusInput bool
}

// NewView creates a new ask view. The chat service may be nil.
func NewView(s *styles.Styles, km *keymap.KeyMap, chatService driving.ChatService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:      s,
		keymap:      km,
		input:       input.NewQuestionInput(s),
		statusbar:   status.NewBar(s, km),
		chatService: chatService,
		ctx:         context.Background(),
		width:       80,
		height:      24,
		focusInput:  true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerCompleted:
		v.handleAnswer(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	if v.focusInput {
		v.input, cmd = v.input.Update(msg)
	}
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if !v.focusInput {
		if keymap.Matches(msg.String(), v.keymap.NewQuery) {
			v.focusInput = true
			v.input.SetValue("")
			return v, v.input.Focus()
		}
		return v, nil
	}

	if msg.Type == tea.KeyEnter {
		question := strings.TrimSpace(v.input.Value())
		if question == "" {
			return v, nil
		}
		v.question = question
		v.err = nil
		v.statusbar.SetState(status.StateAsking)
		return v, v.ask(question)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) ask(question string) tea.Cmd {
	ctx, svc := v.ctx, v.chatService
	return func() tea.Msg {
		if svc == nil {
			return messages.AnswerCompleted{Question: question, Err: ErrNoChatService}
		}
		resp, err := svc.Ask(ctx, question)
		return messages.AnswerCompleted{Question: question, Response: resp, Err: err}
	}
}

func (v *View) handleAnswer(msg messages.AnswerCompleted) {
	if msg.Err != nil {
		v.response = nil
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.question = msg.Question
	v.response = msg.Response
	count := 0
	if msg.Response != nil {
		count = len(msg.Response.Sources)
	}
	v.statusbar.SetState(status.StateAnswered)
	v.statusbar.SetResultCount(count)
	v.focusInput = false
	v.input.Blur()
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{v.styles.Title.Render("webrecall"), "", v.input.View(), ""}

	switch {
	case v.err != nil:
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()))
	case v.response != nil:
		sections = append(sections, v.renderAnswer()...)
	default:
		sections = append(sections, v.styles.Muted.Render("Answers cite the pages they came from."))
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderAnswer() []string {
	width := max(v.width-4, 20)
	out := []string{
		v.styles.Subtitle.Render(list.Truncate(v.question, width)),
		"",
		v.styles.Normal.Width(width).Render(v.response.Text),
	}

	if len(v.response.Sources) == 0 {
		return append(out, "", v.styles.Muted.Render("No sources"))
	}

	out = append(out, "", v.styles.Subtitle.Render("Sources"))
	for i, src := range v.response.Sources {
		title := src.Title
		if title == "" {
			title = "(Untitled)"
		}
		out = append(out,
			v.styles.Normal.Render(fmt.Sprintf("[%d] %s", i+1, list.Truncate(title, width-5))),
			"    "+v.styles.URL.Render(list.Truncate(src.URL, width-4)))
	}
	return out
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Question returns the last submitted question.
func (v *View) Question() string {
	return v.question
}

// SetQuestion sets the input text.
func (v *View) SetQuestion(q string) {
	v.input.SetValue(q)
}

// Response returns the last answer, or nil.
func (v *View) Response() *domain.ChatResponse {
	return v.response
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
