package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/miosa/joi-tui/endpoint"
	"github.com/miosa/joi-tui/lifecycle"
)

// Overlay and status texts for the connection states.
const (
	textConnecting   = "Connecting..."
	textStillWaking  = "Server is waking up, please wait..."
	textNotConnected = "Not connected to server. Please wait."
	textBadFrame     = "Ignored a malformed message from the server"
)

// statusDetail is the trailing status-bar text for s.
func statusDetail(s lifecycle.State) string {
	switch s {
	case lifecycle.StateConnecting:
		return "connecting"
	case lifecycle.StateReconnecting:
		return "reconnecting"
	default:
		return ""
	}
}

func waitingText(elapsed time.Duration) string {
	return fmt.Sprintf("Waiting for server... (%ds)", int(elapsed.Round(time.Second).Seconds()))
}

func reconnectText(delay time.Duration, attempt int) string {
	if attempt <= 1 {
		return fmt.Sprintf("Connection lost. Reconnecting in %s...", delay)
	}
	return fmt.Sprintf("Reconnecting in %s (attempt %d)...", delay, attempt)
}

// errorText is the login-view message for a failed attempt.
func errorText(err error) string {
	if errors.Is(err, endpoint.ErrNotConfigured) {
		return "No backend configured. Set backend_url in config.toml or JOI_BACKEND_URL."
	}
	return fmt.Sprintf("Connection failed: %v", err)
}
