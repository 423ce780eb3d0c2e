// Package transcript holds the ordered chat turns shown to the user.
//
// Turns are append-only. At most one assistant turn is open at a time; it
// accumulates streamed fragments until it is sealed. All other turns are
// immutable once appended.
package transcript

// Role attributes a turn to one side of the conversation.
type Role int

const (
	RoleUser Role = iota
	RoleAssistant
)

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAssistant:
		return "assistant"
	default:
		return "unknown"
	}
}

// Turn is one contiguous block of text from the user or the assistant.
type Turn struct {
	Role Role
	Text string
}

// TurnHandle identifies a turn by position.
type TurnHandle int

// Transcript is the ordered list of turns plus the optional open turn.
// The zero value is an empty transcript.
type Transcript struct {
	turns   []Turn
	current TurnHandle
	open    bool
}

// Turns returns a copy of all turns, the open one included.
func (t *Transcript) Turns() []Turn {
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Len returns the number of turns.
func (t *Transcript) Len() int { return len(t.turns) }

// Current returns the open turn, if any.
func (t *Transcript) Current() (TurnHandle, bool) {
	return t.current, t.open
}

// IsOpen reports whether h is the open turn.
func (t *Transcript) IsOpen(h TurnHandle) bool {
	return t.open && t.current == h
}

// Replace discards every turn, including an open one, and installs turns.
func (t *Transcript) Replace(turns []Turn) {
	t.turns = append(t.turns[:0:0], turns...)
	t.open = false
	t.current = 0
}

// AppendUser appends a sealed user turn.
func (t *Transcript) AppendUser(text string) TurnHandle {
	t.turns = append(t.turns, Turn{Role: RoleUser, Text: text})
	return TurnHandle(len(t.turns) - 1)
}

// AppendAssistant appends a sealed assistant turn.
func (t *Transcript) AppendAssistant(text string) TurnHandle {
	t.turns = append(t.turns, Turn{Role: RoleAssistant, Text: text})
	return TurnHandle(len(t.turns) - 1)
}

// Open appends an empty assistant turn and makes it the open turn. A turn
// that was still open stays in the transcript as it is.
func (t *Transcript) Open() TurnHandle {
	h := t.AppendAssistant("")
	t.current = h
	t.open = true
	return h
}

// Append adds fragment to the open turn. Without an open turn it does
// nothing and returns false.
func (t *Transcript) Append(fragment string) bool {
	h, ok := t.Current()
	if !ok {
		return false
	}
	t.turns[h].Text += fragment
	return true
}

// Seal closes the open turn. The turn itself remains in the transcript.
func (t *Transcript) Seal() bool {
	if !t.open {
		return false
	}
	t.open = false
	t.current = 0
	return true
}

// Clear removes every turn.
func (t *Transcript) Clear() {
	t.Replace(nil)
}
