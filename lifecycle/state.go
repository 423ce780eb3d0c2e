// Package lifecycle is the connection manager's state machine.
//
// It is pure: Transition takes the current Machine and one Event and returns
// the next Machine plus the Effects the caller must run (open a channel,
// persist the session, arm a timer ...). No I/O happens here, so every
// connect / authenticate / stream / disconnect / reconnect path can be tested
// without a network.
package lifecycle

import "time"

// State represents the connection state.
type State int

const (
	StateLoggedOut    State = iota // No remembered name; login view shown
	StateConnecting                // Channel being established
	StateOpen                      // Channel open and login sent
	StateReconnecting              // Waiting for the reconnect timer
)

func (s State) String() string {
	switch s {
	case StateLoggedOut:
		return "logged_out"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}

// Default reconnect timing.
const (
	DefaultReconnectDelay    = 3 * time.Second
	DefaultMaxReconnectDelay = 30 * time.Second
)

// Policy is bounded exponential backoff with no attempt cap.
type Policy struct {
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// DefaultPolicy starts at 3s and caps at 30s.
func DefaultPolicy() Policy {
	return Policy{BaseDelay: DefaultReconnectDelay, MaxDelay: DefaultMaxReconnectDelay}
}

// Delay returns the wait before reconnect attempt n (1-based).
func (p Policy) Delay(n int) time.Duration {
	base := p.BaseDelay
	if base <= 0 {
		base = DefaultReconnectDelay
	}
	max := p.MaxDelay
	if max < base {
		max = base
	}
	if n < 1 {
		n = 1
	}
	shift := n - 1
	if shift > 16 {
		shift = 16
	}
	d := base << uint(shift)
	if d > max || d <= 0 {
		d = max
	}
	return d
}
