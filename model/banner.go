package model

import (
	"net/url"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/miosa/joi-tui/style"
)

// BannerModel renders the one-line header above the transcript:
//
//	Joi dev · joi.example.com
//
// It is static; Update handles no messages.
type BannerModel struct {
	version string
	backend string
	width   int
}

// NewBanner returns a BannerModel for the given build version.
func NewBanner(version string) BannerModel {
	if version == "" {
		version = "dev"
	}
	return BannerModel{version: version}
}

// SetBackend records the channel URL; only its host is shown.
func (m *BannerModel) SetBackend(rawURL string) {
	m.backend = rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		m.backend = u.Host
	}
}

// SetWidth sets the width used for the separator line.
func (m *BannerModel) SetWidth(w int) {
	m.width = w
}

// Init satisfies tea.Model.
func (m BannerModel) Init() tea.Cmd {
	return nil
}

// Update satisfies tea.Model.
func (m BannerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the header line and a separator.
func (m BannerModel) View() string {
	line := style.HeaderTitle.Render("Joi") + " " + style.HeaderDetail.Render(m.version)
	if m.backend != "" {
		line += lipgloss.NewStyle().Foreground(style.Muted).Render(" · ") + style.HeaderDetail.Render(m.backend)
	}
	w := m.width
	if w <= 0 {
		w = lipgloss.Width(line)
	}
	sep := lipgloss.NewStyle().Foreground(style.Dim).Render(repeatRune('─', w))
	return line + "\n" + sep
}

func repeatRune(r rune, n int) string {
	out := make([]rune, n)
	for i := range out {
		out[i] = r
	}
	return string(out)
}
