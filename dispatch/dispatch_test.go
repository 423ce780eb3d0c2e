package dispatch

import (
	"strings"
	"testing"

	"github.com/miosa/joi-tui/protocol"
	"github.com/miosa/joi-tui/transcript"
)

type fakeTarget struct {
	tr     transcript.Transcript
	typing bool
}

func (f *fakeTarget) Transcript() *transcript.Transcript { return &f.tr }
func (f *fakeTarget) SetTyping(on bool)                  { f.typing = on }

func TestStreamProducesOneTurn(t *testing.T) {
	f := &fakeTarget{}
	frags := []string{"I", "'m", " ", "here", "."}
	Apply(f, protocol.Envelope{Type: protocol.TypeMessageStart})
	for _, c := range frags {
		Apply(f, protocol.Envelope{Type: protocol.TypeChar, Content: c})
	}
	Apply(f, protocol.Envelope{Type: protocol.TypeMessageEnd})

	turns := f.tr.Turns()
	if len(turns) != 1 {
		t.Fatalf("want exactly 1 turn, got %d", len(turns))
	}
	want := strings.Join(frags, "")
	if turns[0].Role != transcript.RoleAssistant || turns[0].Text != want {
		t.Errorf("want assistant %q, got %s %q", want, turns[0].Role, turns[0].Text)
	}
	if _, open := f.tr.Current(); open {
		t.Error("turn should be sealed after message_end")
	}
}

func TestCharWithoutStartIsNoop(t *testing.T) {
	f := &fakeTarget{}
	f.tr.AppendUser("hello")

	if !Apply(f, protocol.Envelope{Type: protocol.TypeChar, Content: "x"}) {
		t.Error("char is a known type even when dropped")
	}
	turns := f.tr.Turns()
	if len(turns) != 1 || turns[0].Text != "hello" {
		t.Errorf("transcript mutated: %+v", turns)
	}

	// After a completed stream, stray chars are dropped too.
	Apply(f, protocol.Envelope{Type: protocol.TypeMessageStart})
	Apply(f, protocol.Envelope{Type: protocol.TypeMessageEnd})
	Apply(f, protocol.Envelope{Type: protocol.TypeChar, Content: "late"})
	if got := f.tr.Turns()[1].Text; got != "" {
		t.Errorf("sealed turn received fragment: %q", got)
	}
}

func TestHistoryReplacesTranscript(t *testing.T) {
	f := &fakeTarget{}
	f.tr.AppendUser("stale")
	f.tr.Open()
	f.tr.Append("partial")

	msgs := []protocol.HistoryMessage{
		{Role: "user", Content: "one"},
		{Role: "assistant", Content: "two"},
		{Role: "system", Content: "three"},
		{Role: "User", Content: "four"},
	}
	Apply(f, protocol.Envelope{Type: protocol.TypeChatHistory, Messages: msgs})

	turns := f.tr.Turns()
	if len(turns) != len(msgs) {
		t.Fatalf("want %d turns, got %d", len(msgs), len(turns))
	}
	wantRoles := []transcript.Role{transcript.RoleUser, transcript.RoleAssistant, transcript.RoleAssistant, transcript.RoleAssistant}
	for i, turn := range turns {
		if turn.Role != wantRoles[i] {
			t.Errorf("turn %d: want %s, got %s", i, wantRoles[i], turn.Role)
		}
		if turn.Text != msgs[i].Content {
			t.Errorf("turn %d: want %q, got %q", i, msgs[i].Content, turn.Text)
		}
	}
	if _, open := f.tr.Current(); open {
		t.Error("history must not leave an open turn")
	}
}

func TestEmptyHistory(t *testing.T) {
	f := &fakeTarget{}
	f.tr.AppendUser("x")
	Apply(f, protocol.Envelope{Type: protocol.TypeChatHistory})
	if f.tr.Len() != 0 {
		t.Errorf("want empty transcript, got %d", f.tr.Len())
	}
}

func TestTypingDoesNotTouchTranscript(t *testing.T) {
	f := &fakeTarget{}
	Apply(f, protocol.Envelope{Type: protocol.TypeTyping, Status: true})
	if !f.typing {
		t.Error("want typing indicator on")
	}
	Apply(f, protocol.Envelope{Type: protocol.TypeTyping, Status: false})
	if f.typing {
		t.Error("want typing indicator off")
	}
	if f.tr.Len() != 0 {
		t.Error("typing must not add turns")
	}
}

func TestUnknownTypeIgnored(t *testing.T) {
	f := &fakeTarget{}
	if Apply(f, protocol.Envelope{Type: "reaction", Content: "x"}) {
		t.Error("unknown type should report false")
	}
	if f.tr.Len() != 0 || f.typing {
		t.Error("unknown type must not change state")
	}
}
