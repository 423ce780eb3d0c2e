// Package protocol defines the JSON envelopes exchanged with the chat backend
// over the WebSocket channel.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Inbound envelope types.
const (
	TypeChatHistory  = "chat_history"
	TypeTyping       = "typing"
	TypeMessageStart = "message_start"
	TypeChar         = "char"
	TypeMessageEnd   = "message_end"
)

// TypeLogin is the only outbound envelope that carries a type field.
const TypeLogin = "login"

// RoleUser is the history role mapped to a user turn. Any other role is
// rendered as the assistant.
const RoleUser = "user"

// ErrMissingType is returned when an inbound frame has no type discriminator.
var ErrMissingType = errors.New("envelope has no type")

// HistoryMessage is one entry of a chat_history envelope.
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Envelope is one inbound message. Only the fields relevant to Type are set.
type Envelope struct {
	Type     string           `json:"type"`
	Messages []HistoryMessage `json:"messages,omitempty"`
	Status   bool             `json:"status,omitempty"`
	Content  string           `json:"content,omitempty"`
}

// Login is sent exactly once per channel, right after it opens.
type Login struct {
	Type   string `json:"type"`
	UserID string `json:"user_id"`
}

// NewLogin builds the login envelope for displayName.
func NewLogin(displayName string) Login {
	return Login{Type: TypeLogin, UserID: displayName}
}

// Chat is a user submission.
type Chat struct {
	Message string `json:"message"`
}

// Decode parses one inbound frame. Unknown types decode successfully; callers
// decide whether to act on them.
func Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, ErrMissingType
	}
	return env, nil
}
