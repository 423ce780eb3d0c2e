package lifecycle

import (
	"strings"
	"time"
)

// Machine is the connection manager's state. The zero value is logged out
// with the default policy applied lazily by Policy.Delay.
type Machine struct {
	State State
	// Name is the display name the current attempt uses; empty when logged out.
	Name string
	// Seq identifies the current attempt. Events carrying another Seq belong
	// to a superseded channel or timer and are ignored.
	Seq uint64
	// Failures counts consecutive closures since the last successful open.
	Failures int
	Policy   Policy
}

// New returns a logged-out machine.
func New(p Policy) Machine {
	return Machine{State: StateLoggedOut, Policy: p}
}

// -- Events --

// Event is an input to Transition.
type Event interface{ isEvent() }

// LoginSubmitted is a display name entered in the login view.
type LoginSubmitted struct{ Name string }

// SessionRestored is a name loaded from the session store at start-up.
type SessionRestored struct{ Name string }

// ConfigFailed reports that no endpoint could be resolved for attempt Seq.
type ConfigFailed struct {
	Seq uint64
	Err error
}

// ChannelOpened reports that the channel of attempt Seq is open.
type ChannelOpened struct{ Seq uint64 }

// ChannelClosed reports that the channel of attempt Seq closed or could not
// be established. Remembered is whether the session store still holds a
// name at the time of closure.
type ChannelClosed struct {
	Seq        uint64
	Err        error
	Remembered bool
}

// ChannelErrored reports a channel error. It never changes state; the
// closure that follows does.
type ChannelErrored struct {
	Seq uint64
	Err error
}

// ReconnectDue is the reconnect timer of attempt Seq firing.
type ReconnectDue struct{ Seq uint64 }

// LogoutRequested is an explicit logout.
type LogoutRequested struct{}

func (LoginSubmitted) isEvent()  {}
func (SessionRestored) isEvent() {}
func (ConfigFailed) isEvent()    {}
func (ChannelOpened) isEvent()   {}
func (ChannelClosed) isEvent()   {}
func (ChannelErrored) isEvent()  {}
func (ReconnectDue) isEvent()    {}
func (LogoutRequested) isEvent() {}

// -- Effects --

// Effect is an instruction for the caller.
type Effect interface{ isEffect() }

// SaveSession persists Name.
type SaveSession struct{ Name string }

// ClearSession forgets the persisted name.
type ClearSession struct{}

// OpenChannel resolves the endpoint and opens a new channel for attempt Seq.
// Any previous channel must be closed first.
type OpenChannel struct {
	Seq  uint64
	Name string
}

// SendLogin sends the login envelope on the channel of attempt Seq.
type SendLogin struct {
	Seq  uint64
	Name string
}

// CloseChannel closes the live channel, if any.
type CloseChannel struct{}

// ScheduleReconnect arms a one-shot timer that delivers ReconnectDue{Seq}.
type ScheduleReconnect struct {
	Seq     uint64
	Delay   time.Duration
	Attempt int
	Name    string
}

// ShowLogin reveals the login view with its inputs enabled.
type ShowLogin struct{}

// HideLogin hides the login view.
type HideLogin struct{}

// ClearTranscript empties the transcript.
type ClearTranscript struct{}

// ShowError shows a blocking error message.
type ShowError struct{ Err error }

func (SaveSession) isEffect()       {}
func (ClearSession) isEffect()      {}
func (OpenChannel) isEffect()       {}
func (SendLogin) isEffect()         {}
func (CloseChannel) isEffect()      {}
func (ScheduleReconnect) isEffect() {}
func (ShowLogin) isEffect()         {}
func (HideLogin) isEffect()         {}
func (ClearTranscript) isEffect()   {}
func (ShowError) isEffect()         {}

// -- Transition --

// Transition applies ev to m.
func Transition(m Machine, ev Event) (Machine, []Effect) {
	switch e := ev.(type) {
	case LoginSubmitted:
		name := strings.TrimSpace(e.Name)
		if name == "" || m.State != StateLoggedOut {
			return m, nil
		}
		m = m.begin(name)
		return m, []Effect{SaveSession{Name: name}, OpenChannel{Seq: m.Seq, Name: name}}

	case SessionRestored:
		name := strings.TrimSpace(e.Name)
		if name == "" || m.State != StateLoggedOut {
			return m, nil
		}
		m = m.begin(name)
		return m, []Effect{OpenChannel{Seq: m.Seq, Name: name}}

	case ConfigFailed:
		if e.Seq != m.Seq || m.State != StateConnecting {
			return m, nil
		}
		m = m.loggedOut()
		return m, []Effect{ClearSession{}, ShowError{Err: e.Err}, ShowLogin{}}

	case ChannelOpened:
		if e.Seq != m.Seq || m.State != StateConnecting {
			return m, nil
		}
		m.State = StateOpen
		m.Failures = 0
		return m, []Effect{SendLogin{Seq: m.Seq, Name: m.Name}, HideLogin{}}

	case ChannelClosed:
		if e.Seq != m.Seq || (m.State != StateConnecting && m.State != StateOpen) {
			return m, nil
		}
		if !e.Remembered {
			m = m.loggedOut()
			return m, []Effect{ShowLogin{}}
		}
		m.Failures++
		m.Seq++
		m.State = StateReconnecting
		return m, []Effect{ScheduleReconnect{
			Seq:     m.Seq,
			Delay:   m.Policy.Delay(m.Failures),
			Attempt: m.Failures,
			Name:    m.Name,
		}}

	case ChannelErrored:
		return m, nil

	case ReconnectDue:
		if e.Seq != m.Seq || m.State != StateReconnecting {
			return m, nil
		}
		m.State = StateConnecting
		return m, []Effect{OpenChannel{Seq: m.Seq, Name: m.Name}}

	case LogoutRequested:
		m = m.loggedOut()
		return m, []Effect{ClearSession{}, CloseChannel{}, ClearTranscript{}, ShowLogin{}}
	}
	return m, nil
}

func (m Machine) begin(name string) Machine {
	m.Name = name
	m.Seq++
	m.Failures = 0
	m.State = StateConnecting
	return m
}

// loggedOut bumps Seq so pending timers and channel events become stale.
func (m Machine) loggedOut() Machine {
	m.Name = ""
	m.Seq++
	m.Failures = 0
	m.State = StateLoggedOut
	return m
}
