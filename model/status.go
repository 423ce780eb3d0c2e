package model

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/miosa/joi-tui/style"
)

// StatusModel renders the bottom status line:
//
//	● online · ana
//	○ offline · ana · reconnecting
type StatusModel struct {
	online bool
	name   string
	detail string
}

// NewStatus returns an offline StatusModel.
func NewStatus() StatusModel {
	return StatusModel{}
}

// SetOnline marks the channel as open (true) or not (false).
func (m *StatusModel) SetOnline(online bool) {
	m.online = online
}

// SetName sets the display name shown after the indicator.
func (m *StatusModel) SetName(name string) {
	m.name = name
}

// SetDetail sets trailing text such as "reconnecting"; empty hides it.
func (m *StatusModel) SetDetail(detail string) {
	m.detail = detail
}

// Online reports the indicator state.
func (m StatusModel) Online() bool { return m.online }

// Init satisfies tea.Model.
func (m StatusModel) Init() tea.Cmd {
	return nil
}

// Update satisfies tea.Model. StatusModel is driven entirely by setters.
func (m StatusModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the status line.
func (m StatusModel) View() string {
	var line string
	if m.online {
		line = style.StatusOnline.Render("● online")
	} else {
		line = style.StatusOffline.Render("○ offline")
	}
	sep := style.Faint.Render(" · ")
	if m.name != "" {
		line += sep + style.Faint.Render(m.name)
	}
	if m.detail != "" {
		line += sep + style.Hint.Render(m.detail)
	}
	return style.StatusBar.Render(line)
}
