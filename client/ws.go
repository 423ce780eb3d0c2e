package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ErrClosed is the write result for a frame queued on a closed channel.
var ErrClosed = errors.New("channel closed")

const (
	writeWait = 10 * time.Second
	// outboxSize bounds frames queued behind a slow write.
	outboxSize = 32
)

// Dialer opens channels. WSDialer is the production implementation.
type Dialer interface {
	Dial(ctx context.Context, url string, seq uint64) (*Channel, error)
}

// WSDialer dials WebSocket channels.
type WSDialer struct {
	// HandshakeTimeout bounds the opening handshake. Cold-starting backends
	// can take close to a minute.
	HandshakeTimeout time.Duration
}

// NewDialer returns a dialer with a 60s handshake timeout.
func NewDialer() *WSDialer {
	return &WSDialer{HandshakeTimeout: 60 * time.Second}
}

// Dial opens a channel to url for connection attempt seq.
func (d *WSDialer) Dial(ctx context.Context, url string, seq uint64) (*Channel, error) {
	wd := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: d.HandshakeTimeout,
	}
	conn, resp, err := wd.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (HTTP %d)", url, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return newChannel(conn, url, seq), nil
}

// Channel is one open WebSocket connection. It is never reused: every
// (re)connect dials a new one.
//
// Outbound frames go through a single writer goroutine in the order they
// were enqueued, so frames queued from the event loop reach the backend in
// the order the user sent them.
type Channel struct {
	ID  string
	Seq uint64
	URL string

	conn      *websocket.Conn
	outbox    chan outgoing
	writeMu   sync.Mutex // guards conn writes between the writer and Close
	closeOnce sync.Once
	done      chan struct{}
}

type outgoing struct {
	v      any
	result chan error
}

func newChannel(conn *websocket.Conn, url string, seq uint64) *Channel {
	c := &Channel{
		ID:     uuid.NewString(),
		Seq:    seq,
		URL:    url,
		conn:   conn,
		outbox: make(chan outgoing, outboxSize),
		done:   make(chan struct{}),
	}
	go c.writeLoop()
	return c
}

// enqueue places v behind every frame enqueued before it and returns where
// the write result will be delivered.
func (c *Channel) enqueue(v any) <-chan error {
	result := make(chan error, 1)
	if c.IsClosed() {
		result <- ErrClosed
		return result
	}
	select {
	case c.outbox <- outgoing{v: v, result: result}:
	case <-c.done:
		result <- ErrClosed
	}
	return result
}

// await blocks until the queued frame is written or the channel closes.
func (c *Channel) await(result <-chan error) error {
	select {
	case err := <-result:
		return err
	case <-c.done:
		select {
		case err := <-result:
			return err
		default:
			return ErrClosed
		}
	}
}

func (c *Channel) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case o := <-c.outbox:
			o.result <- c.write(o.v)
		}
	}
}

func (c *Channel) write(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.IsClosed() {
		return ErrClosed
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(v); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Read blocks for the next text frame.
func (c *Channel) Read() ([]byte, error) {
	for {
		typ, data, err := c.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if typ == websocket.TextMessage || typ == websocket.BinaryMessage {
			return data, nil
		}
	}
}

// Close sends a normal-closure frame, best effort, and closes the
// connection. It is safe to call more than once.
func (c *Channel) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "logout"),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}

// IsClosed reports whether Close has been called.
func (c *Channel) IsClosed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// CloseCode extracts the WebSocket close code from a read error, or 0.
func CloseCode(err error) int {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return 0
}
