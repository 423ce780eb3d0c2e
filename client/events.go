package client

import (
	"context"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/miosa/joi-tui/endpoint"
	"github.com/miosa/joi-tui/protocol"
)

// -- Channel events (client-internal; the app feeds them to lifecycle) --------
//
// Every event carries the Seq of the connection attempt that produced it so
// the app can drop events from a channel it has already abandoned.

// ChannelOpenedEvent is dispatched when a dial succeeds.
type ChannelOpenedEvent struct {
	Seq     uint64
	Channel *Channel
}

// ChannelClosedEvent is dispatched when a dial fails or an open channel
// stops delivering frames. Err is nil for a local Close.
type ChannelClosedEvent struct {
	Seq  uint64
	Err  error
	Code int
}

// ChannelErrorEvent is dispatched when a write fails.
type ChannelErrorEvent struct {
	Seq uint64
	Err error
}

// EnvelopeEvent carries one decoded inbound frame.
type EnvelopeEvent struct {
	Seq      uint64
	Envelope protocol.Envelope
}

// ParseWarningEvent is dispatched for a frame that is not a valid envelope.
// The channel stays up.
type ParseWarningEvent struct {
	Seq uint64
	Err error
	Raw string
}

// HealthEvent is the result of one liveness probe.
type HealthEvent struct {
	Seq     uint64
	Attempt int
	Err     error
}

// -- Commands ------------------------------------------------------------------

// DialCmd opens a channel to url.
func DialCmd(ctx context.Context, d Dialer, url string, seq uint64) tea.Cmd {
	return func() tea.Msg {
		ch, err := d.Dial(ctx, url, seq)
		if err != nil {
			return ChannelClosedEvent{Seq: seq, Err: err}
		}
		return ChannelOpenedEvent{Seq: seq, Channel: ch}
	}
}

// HealthCmd probes ep once. Attempt 0 is the initial wake-up request.
func HealthCmd(ctx context.Context, c *Client, ep endpoint.Endpoint, seq uint64, attempt int) tea.Cmd {
	return func() tea.Msg {
		_, err := c.Health(ctx, ep)
		return HealthEvent{Seq: seq, Attempt: attempt, Err: err}
	}
}

// ReadCmd reads exactly one frame. The app issues it again after handling
// the result, which keeps frames in arrival order.
func (c *Channel) ReadCmd() tea.Cmd {
	return func() tea.Msg {
		data, err := c.Read()
		if err != nil {
			if c.IsClosed() {
				return ChannelClosedEvent{Seq: c.Seq}
			}
			return ChannelClosedEvent{Seq: c.Seq, Err: err, Code: CloseCode(err)}
		}
		env, err := protocol.Decode(data)
		if err != nil {
			return ParseWarningEvent{Seq: c.Seq, Err: err, Raw: truncate(string(data), 120)}
		}
		return EnvelopeEvent{Seq: c.Seq, Envelope: env}
	}
}

// LoginCmd queues the login envelope. The frame takes its place in the
// outbound queue when LoginCmd is called, not when the command runs.
func (c *Channel) LoginCmd(displayName string) tea.Cmd {
	return c.sendCmd(protocol.NewLogin(displayName))
}

// ChatCmd queues one user message, ordered like LoginCmd.
func (c *Channel) ChatCmd(text string) tea.Cmd {
	return c.sendCmd(protocol.Chat{Message: text})
}

func (c *Channel) sendCmd(v any) tea.Cmd {
	result := c.enqueue(v)
	return func() tea.Msg {
		if err := c.await(result); err != nil {
			return ChannelErrorEvent{Seq: c.Seq, Err: err}
		}
		return nil
	}
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "…"
}
