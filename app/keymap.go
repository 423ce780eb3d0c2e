package app

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/miosa/joi-tui/model"
)

// KeyMap defines all global keybindings.
type KeyMap struct {
	Submit      key.Binding
	Cancel      key.Binding
	QuitEOF     key.Binding
	Logout      key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	HistoryPrev key.Binding
	HistoryNext key.Binding
	Tab         key.Binding
	Escape      key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	in := model.DefaultInputKeys()
	return KeyMap{
		Submit:      in.Submit,
		HistoryPrev: in.HistoryPrev,
		HistoryNext: in.HistoryNext,
		Tab:         in.Complete,
		Cancel: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "clear/quit"),
		),
		QuitEOF: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "quit"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "logout"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear input"),
		),
	}
}

// Input returns the bindings handed to the chat input.
func (k KeyMap) Input() model.InputKeys {
	return model.InputKeys{
		Submit:      k.Submit,
		HistoryPrev: k.HistoryPrev,
		HistoryNext: k.HistoryNext,
		Complete:    k.Tab,
	}
}

// ShortHelp lists the bindings shown under the chat input.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Tab, k.PageUp, k.Logout, k.QuitEOF}
}
