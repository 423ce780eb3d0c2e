package model

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/miosa/joi-tui/msg"
	"github.com/miosa/joi-tui/style"
)

// WakeHint is shown while a connection attempt is in flight.
const WakeHint = "Free servers may take up to 60 seconds to wake up"

type loginMode int

const (
	loginForm       loginMode = iota // name field enabled
	loginSubmitting                  // name submitted, field disabled
	loginOverlay                     // connecting without the form (restore / reconnect)
)

// LoginModel is the login view: a display-name form, or a connecting
// overlay while an attempt started without the form is in flight.
type LoginModel struct {
	ti      textinput.Model
	spinner spinner.Model
	mode    loginMode
	visible bool
	status  string
	err     string
	width   int
	height  int
}

// NewLogin returns a visible, enabled login form.
func NewLogin() LoginModel {
	ti := textinput.New()
	ti.Placeholder = "Your name"
	ti.CharLimit = 64
	ti.Width = 30
	ti.Prompt = ""
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = style.SpinnerStyle

	return LoginModel{ti: ti, spinner: sp, visible: true}
}

// Show reveals the form with its input enabled and focused. A pending error
// stays visible until the next submission.
func (m *LoginModel) Show() tea.Cmd {
	m.visible = true
	m.mode = loginForm
	m.status = ""
	return m.ti.Focus()
}

// Hide hides the view and clears the form.
func (m *LoginModel) Hide() {
	m.visible = false
	m.mode = loginForm
	m.status = ""
	m.err = ""
	m.ti.SetValue("")
	m.ti.Blur()
}

// Connecting shows the overlay with status instead of the form. It is used
// for restored sessions and reconnects, and to update the overlay text.
func (m *LoginModel) Connecting(status string) tea.Cmd {
	wasSpinning := m.spinning()
	m.visible = true
	if m.mode != loginSubmitting {
		m.mode = loginOverlay
	}
	m.status = status
	m.ti.Blur()
	if wasSpinning {
		return nil
	}
	return m.spinner.Tick
}

// SetError shows err above the form.
func (m *LoginModel) SetError(err string) {
	m.err = err
}

// SetSize records the terminal size for centering.
func (m *LoginModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Visible reports whether the login view is shown.
func (m LoginModel) Visible() bool { return m.visible }

// Disabled reports whether the name field refuses input.
func (m LoginModel) Disabled() bool { return m.mode != loginForm }

// Status returns the overlay text.
func (m LoginModel) Status() string { return m.status }

// Err returns the error text, if any.
func (m LoginModel) Err() string { return m.err }

// Value returns the raw name field.
func (m LoginModel) Value() string { return m.ti.Value() }

func (m LoginModel) spinning() bool {
	return m.visible && m.mode != loginForm
}

// Init satisfies tea.Model.
func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles typing and Enter in the form and drives the spinner. Enter
// with a non-blank name disables the form and emits msg.SubmitLogin.
func (m LoginModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch v := message.(type) {
	case spinner.TickMsg:
		if !m.spinning() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(v)
		return m, cmd

	case tea.KeyMsg:
		if !m.visible || m.Disabled() {
			return m, nil
		}
		if v.Type == tea.KeyEnter {
			name := strings.TrimSpace(m.ti.Value())
			if name == "" {
				return m, nil
			}
			m.mode = loginSubmitting
			m.status = "Connecting..."
			m.err = ""
			m.ti.Blur()
			submit := func() tea.Msg { return msg.SubmitLogin{Name: name} }
			return m, tea.Batch(submit, m.spinner.Tick)
		}
	}

	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(message)
	return m, cmd
}

// View renders the centered login box.
func (m LoginModel) View() string {
	if !m.visible {
		return ""
	}
	var lines []string
	lines = append(lines, style.LoginTitle.Render("Joi"), "")

	if m.err != "" {
		lines = append(lines, style.ErrorText.Render(m.err), "")
	}

	switch m.mode {
	case loginOverlay:
		lines = append(lines, m.spinner.View()+" "+m.status)
		lines = append(lines, "", style.Hint.Render(WakeHint))
	case loginSubmitting:
		lines = append(lines, style.LoginLabel.Render("Display name"))
		lines = append(lines, style.Faint.Render(m.ti.Value()))
		lines = append(lines, "", m.spinner.View()+" "+m.status)
		lines = append(lines, "", style.Hint.Render(WakeHint))
	default:
		lines = append(lines, style.LoginLabel.Render("Display name"))
		lines = append(lines, style.PromptChar.Render("❯ ")+m.ti.View())
		lines = append(lines, "", style.Hint.Render("enter to join · ctrl+c to quit"))
	}

	box := style.LoginBox.Render(strings.Join(lines, "\n"))
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
