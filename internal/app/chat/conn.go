/*
Package chat contains the core logic for real-time message routing between connected users.

This file defines the Conn struct, representing an active WebSocket connection. It owns the
connection's outbound queue and the two message loops (readPump and writePump) that move frames
between the transport and the rest of the package.
*/
package chat

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"chatrelay/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxMessageSize = 8192

	// MaxContentBytes is the maximum allowed size (in bytes) for text message content.
	MaxContentBytes = 5000

	// DefaultQueueSize is the number of outbound frames buffered per connection.
	DefaultQueueSize = 256
)

var (
	errConnClosed = errors.New("chat: connection closed")
	errQueueFull  = errors.New("chat: outbound queue full")
)

// Conn represents one admitted transport connection and its owning identity.
type Conn struct {
	id        uuid.UUID
	identity  string
	target    Target
	transport Transport

	// a buffered channel used to queue frames waiting to be written to the transport.
	send chan []byte

	// mu guards closed and the send channel close.
	mu     sync.Mutex
	closed bool

	releaseOnce sync.Once

	// inbound rate limiter for frames read from this connection.
	limiter *rate.Limiter

	logger zerolog.Logger
}

func newConn(identity string, target Target, transport Transport, opts Options) *Conn {
	id := uuid.New()

	return &Conn{
		id:        id,
		identity:  identity,
		target:    target,
		transport: transport,
		send:      make(chan []byte, opts.QueueSize),
		limiter:   rate.NewLimiter(opts.InboundRate, opts.InboundBurst),
		logger: logx.Component("conn").With().
			Str("conn_id", id.String()).
			Str("user_id", identity).
			Str("target", target.String()).
			Logger(),
	}
}

// ID returns the unique handle of the connection.
func (c *Conn) ID() uuid.UUID { return c.id }

// Identity returns the user identity that owns the connection.
func (c *Conn) Identity() string { return c.identity }

// Target returns the conversation the connection was admitted for.
func (c *Conn) Target() Target { return c.target }

// Deliver enqueues frame for writing without blocking.
// It fails when the connection is closed or its queue is full.
func (c *Conn) Deliver(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errConnClosed
	}

	select {
	case c.send <- frame:
		return nil
	default:
		return errQueueFull
	}
}

// Closed reports whether the connection has been released.
func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

// shutdown marks the connection closed and closes the outbound queue so the write pump drains and exits.
func (c *Conn) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	close(c.send)
}

// readPump reads frames from the transport and passes each to handle, one at a time.
// It returns when the transport fails or is closed.
func (c *Conn) readPump(handle func([]byte)) {
	c.transport.SetReadLimit(maxMessageSize)

	if err := c.transport.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.transport.SetPongHandler(func(string) error {
		return c.transport.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.transport.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (Client close/going away)")
			}
			return
		}

		handle(frame)
	}
}

// writePump writes queued frames to the transport in FIFO order and keeps the connection alive with pings.
// It returns when the queue is closed or a write fails.
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case frame, ok := <-c.send:
			if !ok {
				return
			}

			if err := c.transport.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline")
				return
			}

			if err := c.transport.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Warn().Err(err).Msg("Error writing message")
				return
			}

		case <-ticker.C:
			if err := c.transport.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
				return
			}

			if err := c.transport.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Warn().Err(err).Msg("Error writing ping")
				return
			}
		}
	}
}

// closeTransport sends a close control frame carrying code and reason, then closes the transport.
func (c *Conn) closeTransport(code int, reason string) {
	closeTransport(c.transport, code, reason, c.logger)
}

func closeTransport(t Transport, code int, reason string, logger zerolog.Logger) {
	msg := websocket.FormatCloseMessage(code, reason)
	if err := t.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil &&
		!errors.Is(err, websocket.ErrCloseSent) {
		logger.Debug().Err(err).Int("close_code", code).Msg("Failed to send close frame")
	}

	if err := t.Close(); err != nil {
		logger.Debug().Err(err).Msg("Transport close error")
	}
}
