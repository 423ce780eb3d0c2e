package style

import "github.com/charmbracelet/lipgloss"

// Colors. SetTheme replaces them; the defaults are the dark theme.
var (
	Primary   lipgloss.TerminalColor = darkTheme.Primary
	Secondary lipgloss.TerminalColor = darkTheme.Secondary
	Success   lipgloss.TerminalColor = darkTheme.Success
	Warning   lipgloss.TerminalColor = darkTheme.Warning
	Error     lipgloss.TerminalColor = darkTheme.Error
	Muted     lipgloss.TerminalColor = darkTheme.Muted
	Dim       lipgloss.TerminalColor = darkTheme.Dim
	Border    lipgloss.TerminalColor = darkTheme.Border

	// Left-border colors of transcript turns.
	TurnUser      lipgloss.TerminalColor = darkTheme.TurnUser
	TurnAssistant lipgloss.TerminalColor = darkTheme.TurnAssistant
)

// Styles. Rebuilt by SetTheme.
var (
	Bold      lipgloss.Style
	Faint     lipgloss.Style
	ErrorText lipgloss.Style
	Hint      lipgloss.Style

	// Header
	HeaderTitle  lipgloss.Style
	HeaderDetail lipgloss.Style

	// Prompt
	PromptChar lipgloss.Style

	// Transcript
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	UserTurn       lipgloss.Style
	AssistantTurn  lipgloss.Style
	Typing         lipgloss.Style

	// Login overlay
	LoginBox     lipgloss.Style
	LoginTitle   lipgloss.Style
	LoginLabel   lipgloss.Style
	SpinnerStyle lipgloss.Style

	// Status bar
	StatusBar     lipgloss.Style
	StatusOnline  lipgloss.Style
	StatusOffline lipgloss.Style
)

func init() {
	build()
}

func build() {
	Bold = lipgloss.NewStyle().Bold(true)
	Faint = lipgloss.NewStyle().Foreground(Muted)
	ErrorText = lipgloss.NewStyle().Foreground(Error).Bold(true)
	Hint = lipgloss.NewStyle().Foreground(Dim)

	HeaderTitle = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)
	HeaderDetail = lipgloss.NewStyle().
		Foreground(Muted)

	PromptChar = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	UserLabel = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)
	AssistantLabel = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)
	UserTurn = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(TurnUser).
		PaddingLeft(1)
	AssistantTurn = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(TurnAssistant).
		PaddingLeft(1)
	Typing = lipgloss.NewStyle().
		Foreground(Muted).
		Italic(true)

	LoginBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 3)
	LoginTitle = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)
	LoginLabel = lipgloss.NewStyle().
		Foreground(Muted)
	SpinnerStyle = lipgloss.NewStyle().
		Foreground(Primary)

	StatusBar = lipgloss.NewStyle().
		Foreground(Muted).
		PaddingLeft(1)
	StatusOnline = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)
	StatusOffline = lipgloss.NewStyle().
		Foreground(Warning).
		Bold(true)
}
