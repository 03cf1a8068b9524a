package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/webrecall/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/webrecall/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.ResultCount())
	assert.Equal(t, 80, bar.Width())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keys)
	assert.Nil(t, bar.Init())
}

func TestBar_Update(t *testing.T) {
	bar := NewBar(nil, nil)

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestBar_Setters(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetState(StateSearching)
	bar.SetMessage("hello")
	bar.SetResultCount(4)
	bar.SetWidth(120)

	assert.Equal(t, StateSearching, bar.State())
	assert.Equal(t, "hello", bar.Message())
	assert.Equal(t, 4, bar.ResultCount())
	assert.Equal(t, 120, bar.Width())
}

func TestBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("boom")
	bar.SetResultCount(3)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.ResultCount())
}

func TestBar_View(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		message string
		count   int
		want    string
	}{
		{"ready", StateReady, "", 0, "Ready"},
		{"ready with message", StateReady, "Copied", 0, "Copied"},
		{"searching", StateSearching, "", 0, "Searching..."},
		{"asking", StateAsking, "", 0, "Thinking..."},
		{"loading", StateLoading, "", 0, "Loading..."},
		{"error", StateError, "", 0, "Error"},
		{"error with message", StateError, "index closed", 0, "Error: index closed"},
		{"one result", StateResults, "", 1, "1 result"},
		{"results", StateResults, "", 7, "7 results"},
		{"no results", StateResults, "", 0, "0 results"},
		{"answered", StateAnswered, "", 3, "3 sources"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetState(tt.state)
			bar.SetMessage(tt.message)
			bar.SetResultCount(tt.count)

			assert.Contains(t, bar.View(), tt.want)
		})
	}
}

func TestBar_View_Keybindings(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(200)

	assert.Contains(t, bar.View(), "enter: submit")

	bar.SetState(StateResults)
	bar.SetResultCount(2)

	view := bar.View()
	assert.Contains(t, view, "enter: open")
	assert.Contains(t, view, "n: new query")
}

func TestState_Constants(t *testing.T) {
	states := []State{StateReady, StateSearching, StateAsking, StateLoading, StateError, StateResults, StateAnswered}

	seen := map[State]bool{}
	for _, s := range states {
		assert.NotEmpty(t, string(s))
		assert.False(t, seen[s])
		seen[s] = true
	}
}
