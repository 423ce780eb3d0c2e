package model

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/miosa/joi-tui/msg"
	"github.com/miosa/joi-tui/style"
)

// Commands understood by the chat input.
const (
	CmdLogout = "/logout"
	CmdQuit   = "/quit"
	CmdExit   = "/exit"
)

// Commands lists the slash commands offered by Tab completion.
var Commands = []string{CmdLogout, CmdQuit, CmdExit}

const maxHistory = 100

// InputKeys are the bindings the chat input reacts to.
type InputKeys struct {
	Submit      key.Binding
	HistoryPrev key.Binding
	HistoryNext key.Binding
	Complete    key.Binding
}

// DefaultInputKeys returns enter to send, up/down for history and tab for
// command completion.
func DefaultInputKeys() InputKeys {
	return InputKeys{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		HistoryPrev: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "previous"),
		),
		HistoryNext: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "next"),
		),
		Complete: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "complete command"),
		),
	}
}

// InputModel is the chat input bar. Enter emits msg.SubmitInput, the history
// keys recall earlier messages and the completion key cycles slash commands.
type InputModel struct {
	ti   textinput.Model
	keys InputKeys

	// history holds sent messages, oldest first. cursor == len(history)
	// means the user is editing draft rather than a recalled entry.
	history []string
	cursor  int
	draft   string

	comp completion
}

// completion is the Tab state: the candidates for the text the user typed
// and which one is currently shown.
type completion struct {
	matches []string
	idx     int
}

func (c completion) active() bool { return len(c.matches) > 0 }

func NewInput(keys InputKeys) InputModel {
	ti := textinput.New()
	ti.Placeholder = "Type a message…"
	ti.CharLimit = 4096
	ti.Prompt = ""
	return InputModel{ti: ti, keys: keys}
}

func (m *InputModel) Focus() tea.Cmd { return m.ti.Focus() }
func (m *InputModel) Blur()          { m.ti.Blur() }
func (m InputModel) Value() string   { return m.ti.Value() }

// SetValue replaces the buffer and moves the cursor to its end.
func (m *InputModel) SetValue(s string) {
	m.comp = completion{}
	m.setText(s)
}

func (m *InputModel) setText(s string) {
	m.ti.SetValue(s)
	m.ti.CursorEnd()
}

func (m *InputModel) SetWidth(w int) {
	// room for the prompt glyph
	if w > 4 {
		m.ti.Width = w - 4
	}
}

// Reset empties the field and leaves history navigation.
func (m *InputModel) Reset() {
	m.cursor = len(m.history)
	m.draft = ""
	m.comp = completion{}
	m.ti.SetValue("")
}

// Submit records text in history (skipping an immediate repeat) and clears
// the field.
func (m *InputModel) Submit(text string) {
	if text != "" && (len(m.history) == 0 || m.history[len(m.history)-1] != text) {
		m.history = append(m.history, text)
		if len(m.history) > maxHistory {
			m.history = m.history[len(m.history)-maxHistory:]
		}
	}
	m.Reset()
}

func (m InputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m InputModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := message.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, m.keys.Submit):
			text := m.ti.Value()
			return m, func() tea.Msg { return msg.SubmitInput{Text: text} }
		case key.Matches(k, m.keys.HistoryPrev):
			m.recall(-1)
			return m, nil
		case key.Matches(k, m.keys.HistoryNext):
			m.recall(1)
			return m, nil
		case key.Matches(k, m.keys.Complete):
			m.complete()
			return m, nil
		}
		m.comp = completion{}
	}

	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(message)
	return m, cmd
}

func (m InputModel) View() string {
	return style.PromptChar.Render("❯ ") + m.ti.View()
}

// recall moves through history; leaving the newest entry restores the text
// that was being typed before navigation started.
func (m *InputModel) recall(delta int) {
	if len(m.history) == 0 {
		return
	}
	if m.cursor == len(m.history) {
		m.draft = m.ti.Value()
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.history))
	if m.cursor == len(m.history) {
		m.setText(m.draft)
		return
	}
	m.setText(m.history[m.cursor])
}

// complete shows the next slash command matching what was typed. Plain text
// is left alone.
func (m *InputModel) complete() {
	if !m.comp.active() {
		typed := m.ti.Value()
		if !strings.HasPrefix(typed, "/") {
			return
		}
		for _, c := range Commands {
			if strings.HasPrefix(c, typed) {
				m.comp.matches = append(m.comp.matches, c)
			}
		}
		if !m.comp.active() {
			return
		}
	} else {
		m.comp.idx = (m.comp.idx + 1) % len(m.comp.matches)
	}
	m.setText(m.comp.matches[m.comp.idx])
}
