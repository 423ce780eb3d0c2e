// Package dispatch applies inbound envelopes to the visible conversation.
package dispatch

import (
	"github.com/miosa/joi-tui/protocol"
	"github.com/miosa/joi-tui/transcript"
)

// Target is the state an envelope can mutate: the transcript and the
// typing indicator. model.ChatModel implements it.
type Target interface {
	Transcript() *transcript.Transcript
	SetTyping(on bool)
}

// Apply performs the single transition env calls for. It reports false for
// unknown envelope types, which are ignored.
func Apply(t Target, env protocol.Envelope) bool {
	switch env.Type {
	case protocol.TypeChatHistory:
		t.Transcript().Replace(HistoryTurns(env.Messages))
	case protocol.TypeTyping:
		t.SetTyping(env.Status)
	case protocol.TypeMessageStart:
		t.Transcript().Open()
	case protocol.TypeChar:
		// No open turn: dropped.
		t.Transcript().Append(env.Content)
	case protocol.TypeMessageEnd:
		t.Transcript().Seal()
	default:
		return false
	}
	return true
}

// HistoryTurns maps backend history entries to turns. Only the "user" role
// maps to a user turn.
func HistoryTurns(msgs []protocol.HistoryMessage) []transcript.Turn {
	turns := make([]transcript.Turn, 0, len(msgs))
	for _, m := range msgs {
		role := transcript.RoleAssistant
		if m.Role == protocol.RoleUser {
			role = transcript.RoleUser
		}
		turns = append(turns, transcript.Turn{Role: role, Text: m.Content})
	}
	return turns
}
