package protocol

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Envelope
	}{
		{
			name: "history",
			in:   `{"type":"chat_history","messages":[{"role":"user","content":"hi"},{"role":"assistant","content":"hey"}]}`,
			want: Envelope{Type: TypeChatHistory, Messages: []HistoryMessage{{Role: "user", Content: "hi"}, {Role: "assistant", Content: "hey"}}},
		},
		{name: "typing on", in: `{"type":"typing","status":true}`, want: Envelope{Type: TypeTyping, Status: true}},
		{name: "char", in: `{"type":"char","content":"a"}`, want: Envelope{Type: TypeChar, Content: "a"}},
		{name: "start", in: `{"type":"message_start"}`, want: Envelope{Type: TypeMessageStart}},
		{name: "unknown type is not an error", in: `{"type":"presence","who":"x"}`, want: Envelope{Type: "presence"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.in))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got.Type != tt.want.Type || got.Status != tt.want.Status || got.Content != tt.want.Content {
				t.Errorf("want %+v, got %+v", tt.want, got)
			}
			if len(got.Messages) != len(tt.want.Messages) {
				t.Fatalf("want %d messages, got %d", len(tt.want.Messages), len(got.Messages))
			}
			for i := range got.Messages {
				if got.Messages[i] != tt.want.Messages[i] {
					t.Errorf("message %d: want %+v, got %+v", i, tt.want.Messages[i], got.Messages[i])
				}
			}
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	if _, err := Decode([]byte(`{"type":`)); err == nil {
		t.Error("want error for truncated json")
	}
	if _, err := Decode([]byte(`{"content":"x"}`)); !errors.Is(err, ErrMissingType) {
		t.Errorf("want ErrMissingType, got %v", err)
	}
}

func TestOutboundShapes(t *testing.T) {
	b, _ := json.Marshal(NewLogin("ana"))
	if string(b) != `{"type":"login","user_id":"ana"}` {
		t.Errorf("login: got %s", b)
	}
	b, _ = json.Marshal(Chat{Message: "hello"})
	if string(b) != `{"message":"hello"}` {
		t.Errorf("chat: got %s", b)
	}
}
