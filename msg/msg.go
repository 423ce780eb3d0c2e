// Package msg defines the UI tea.Msg types dispatched within the joi TUI.
// It has no upstream imports (client, model, app) to avoid import cycles.
// Connection events live in package client.
package msg

// -- User input --

// SubmitLogin when the login form is submitted with a non-blank name.
type SubmitLogin struct {
	Name string
}

// SubmitInput when the user presses Enter in the chat input.
type SubmitInput struct {
	Text string
}

// -- Timers --
//
// Timers carry the Seq of the connection attempt that armed them; a timer
// whose Seq no longer matches is stale and ignored.

// ReconnectTimer fires when a scheduled reconnect is due.
type ReconnectTimer struct {
	Seq uint64
}

// WakeTimer fires when the next /health poll is due.
type WakeTimer struct {
	Seq     uint64
	Attempt int
}

// SlowConnect fires when a connection attempt has been pending long enough
// to tell the user the backend is still waking up.
type SlowConnect struct {
	Seq uint64
}

// TickMsg for periodic timer updates (toast expiry).
type TickMsg struct{}
