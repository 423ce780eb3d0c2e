package model

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/miosa/joi-tui/dispatch"
	"github.com/miosa/joi-tui/markdown"
	"github.com/miosa/joi-tui/protocol"
	"github.com/miosa/joi-tui/style"
	"github.com/miosa/joi-tui/transcript"
)

// AssistantName labels assistant turns.
const AssistantName = "Joi"

// ChatModel is a scrollable viewport that displays the transcript and the
// typing indicator. It implements dispatch.Target.
type ChatModel struct {
	vp     viewport.Model
	tr     *transcript.Transcript
	typing bool
	width  int
	height int

	// rendered markdown of sealed assistant turns, by index
	cache map[int]renderedTurn
}

type renderedTurn struct {
	text  string
	width int
	out   string
}

// NewChat constructs a ChatModel sized to width x height.
func NewChat(width, height int) ChatModel {
	vp := viewport.New(width, height)
	m := ChatModel{
		vp:     vp,
		tr:     &transcript.Transcript{},
		cache:  map[int]renderedTurn{},
		width:  width,
		height: height,
	}
	m.refresh()
	return m
}

// Transcript returns the backing transcript.
func (m *ChatModel) Transcript() *transcript.Transcript {
	return m.tr
}

// SetTyping shows or hides the typing indicator.
func (m *ChatModel) SetTyping(on bool) {
	m.typing = on
}

// Typing reports whether the typing indicator is shown.
func (m ChatModel) Typing() bool {
	return m.typing
}

// Apply feeds one inbound envelope through the dispatcher and re-renders.
func (m *ChatModel) Apply(env protocol.Envelope) bool {
	ok := dispatch.Apply(m, env)
	if ok {
		m.refresh()
	}
	return ok
}

// AddUserMessage appends a user turn and scrolls to the bottom.
func (m *ChatModel) AddUserMessage(text string) {
	m.tr.AppendUser(text)
	m.refresh()
}

// Clear empties the transcript and hides the typing indicator.
func (m *ChatModel) Clear() {
	m.tr.Clear()
	m.typing = false
	clear(m.cache)
	m.refresh()
}

// SetSize resizes the underlying viewport.
func (m *ChatModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.vp.Width = width
	m.vp.Height = height
	m.refresh()
}

// Init satisfies tea.Model.
func (m ChatModel) Init() tea.Cmd {
	return nil
}

// Update forwards keyboard and mouse events to the viewport.
func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// View returns the rendered viewport content.
func (m ChatModel) View() string {
	return m.vp.View()
}

// refresh re-renders the transcript into the viewport and scrolls to the bottom.
func (m *ChatModel) refresh() {
	m.vp.SetContent(m.renderAll())
	m.vp.GotoBottom()
}

func (m *ChatModel) renderAll() string {
	turns := m.tr.Turns()
	if len(turns) == 0 && !m.typing {
		return style.Faint.Render("  No messages yet. Say hello below.")
	}

	var sb strings.Builder
	for i, t := range turns {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(m.renderTurn(i, t))
	}
	if m.typing {
		if len(turns) > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(style.Typing.Render(AssistantName + " is typing…"))
	}
	return sb.String()
}

// renderTurn renders one turn. The open turn is shown raw with a cursor;
// sealed assistant turns go through glamour.
func (m *ChatModel) renderTurn(i int, t transcript.Turn) string {
	if t.Role == transcript.RoleUser {
		return style.UserTurn.Render(style.UserLabel.Render("You") + "\n" + t.Text)
	}
	var body string
	if m.tr.IsOpen(transcript.TurnHandle(i)) {
		body = t.Text + "▌"
	} else {
		body = m.sealedBody(i, t.Text)
	}
	return style.AssistantTurn.Render(style.AssistantLabel.Render(AssistantName) + "\n" + body)
}

func (m *ChatModel) sealedBody(i int, text string) string {
	width := m.width - 2
	if c, ok := m.cache[i]; ok && c.text == text && c.width == width {
		return c.out
	}
	out := markdown.RenderWidth(text, width)
	m.cache[i] = renderedTurn{text: text, width: width, out: out}
	return out
}
