package chat

import (
	"context"
	"errors"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/logx"
)

const (
	// CloseUnauthenticated is sent when the identity token was missing or rejected.
	CloseUnauthenticated = 4401

	// CloseInvalidTarget is sent when the peer does not exist or the caller is not a group member.
	CloseInvalidTarget = 4403

	// CloseSlowConsumer is sent to a recipient evicted because its outbound queue was full.
	CloseSlowConsumer = websocket.CloseTryAgainLater
)

// ErrShuttingDown is returned by Admit once Shutdown has begun.
var ErrShuttingDown = errors.New("chat: server is shutting down")

// Lifecycle admits connections, runs them, and tears them down.
type Lifecycle struct {
	verifier Verifier
	store    Store
	registry *Registry
	router   *Router
	opts     Options

	// base context for routing, canceled by Shutdown.
	ctx    context.Context
	cancel context.CancelFunc

	// mu guards closing and wg.Add.
	mu      sync.Mutex
	closing bool
	wg      sync.WaitGroup

	logger zerolog.Logger
}

// NewLifecycle constructs a Lifecycle with its own Registry and Router.
func NewLifecycle(verifier Verifier, store Store, opts Options) *Lifecycle {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	l := &Lifecycle{
		verifier: verifier,
		store:    store,
		registry: NewRegistry(),
		opts:     opts,
		ctx:      ctx,
		cancel:   cancel,
		logger:   logx.Component("Lifecycle"),
	}
	l.router = NewRouter(store, l.registry, l, opts)

	return l
}

// Registry exposes the connection registry.
func (l *Lifecycle) Registry() *Registry { return l.registry }

// Router exposes the message router.
func (l *Lifecycle) Router() *Router { return l.router }

// Admit authenticates token, checks that target is reachable for the caller and registers a new
// connection over transport. Nothing is registered when it fails.
func (l *Lifecycle) Admit(ctx context.Context, token string, target Target, transport Transport) (*Conn, error) {
	l.mu.Lock()
	closing := l.closing
	l.mu.Unlock()
	if closing {
		return nil, ErrShuttingDown
	}

	if token == "" {
		return nil, errs.NewError(errs.ErrUnauthorized)
	}

	identity, err := l.verifier.Verify(ctx, token)
	switch {
	case err == nil && identity != "":
	case err == nil || errs.CodeOf(err) == errs.ErrUnauthorized:
		l.logger.Info().Err(err).Str("target", target.String()).Msg("Admission rejected: invalid credential")
		return nil, errs.NewError(errs.ErrUnauthorized)
	default:
		l.logger.Error().Err(err).Str("target", target.String()).Msg("Admission failed: credential verification error")
		return nil, errs.Wrap(errs.ErrUnknown, err)
	}

	ok, err := l.targetReachable(ctx, identity, target)
	if err != nil {
		l.logger.Error().Err(err).Str("user_id", identity).Str("target", target.String()).Msg("Admission failed: target lookup error")
		return nil, errs.Wrap(errs.ErrUnknown, err)
	}
	if !ok {
		l.logger.Info().Str("user_id", identity).Str("target", target.String()).Msg("Admission rejected: invalid target")
		return nil, errs.NewError(errs.ErrInvalidTarget)
	}

	conn := newConn(identity, target, transport, l.opts)
	l.registry.Register(identity, conn)

	conn.logger.Info().Int("live_connections", l.registry.Len()).Msg("Connection admitted")
	return conn, nil
}

func (l *Lifecycle) targetReachable(ctx context.Context, identity string, target Target) (bool, error) {
	if !target.wellFormed() {
		return false, nil
	}

	if target.Mode == ModeGroup {
		return l.store.IsMember(ctx, target.GroupID, identity)
	}

	return l.store.UserExists(ctx, target.Peer)
}

// Serve runs conn until its transport fails or it is released. The write pump runs in its own
// goroutine and the read pump runs on the caller's goroutine. Every exit path releases conn.
func (l *Lifecycle) Serve(conn *Conn) {
	l.mu.Lock()
	if l.closing {
		l.mu.Unlock()
		l.release(conn, websocket.CloseGoingAway, "server shutting down")
		return
	}
	l.wg.Add(2)
	l.mu.Unlock()

	go func() {
		defer l.wg.Done()
		conn.writePump()
		l.Release(conn)
	}()

	defer l.wg.Done()
	defer l.Release(conn)

	conn.readPump(func(frame []byte) {
		l.handleInbound(conn, frame)
	})
}

func (l *Lifecycle) handleInbound(conn *Conn, frame []byte) {
	// every frame counts against the limit, malformed ones included
	if !conn.limiter.Allow() {
		l.sendError(conn, errs.NewError(errs.ErrRateLimitExceeded))
		return
	}

	payload, err := DecodeInbound(frame)
	if err != nil {
		conn.logger.Warn().Err(err).Msg("Client sent invalid frame")
		l.sendError(conn, err)
		return
	}

	outcome, err := l.router.Route(l.ctx, conn, payload)
	if err != nil {
		l.sendError(conn, err)
		return
	}

	ack, err := encodeAckFrame(payload.TempID, outcome)
	if err != nil {
		conn.logger.Error().Err(err).Msg("Failed to build ACK frame")
		return
	}
	if err := conn.Deliver(ack); err != nil {
		conn.logger.Warn().Err(err).Msg("Failed to queue ACK frame")
	}
}

func (l *Lifecycle) sendError(conn *Conn, err error) {
	frame, encErr := encodeErrorFrame(err)
	if encErr != nil {
		conn.logger.Error().Err(encErr).Msg("Failed to build error frame")
		return
	}

	if err := conn.Deliver(frame); err != nil {
		conn.logger.Warn().Err(err).Msg("Failed to queue error frame")
	}
}

// Release unregisters conn, closes its queue and transport. It is safe to call more than once.
func (l *Lifecycle) Release(conn *Conn) {
	l.release(conn, websocket.CloseNormalClosure, "")
}

func (l *Lifecycle) release(conn *Conn, code int, reason string) {
	conn.releaseOnce.Do(func() {
		l.registry.Unregister(conn)
		conn.shutdown()
		conn.closeTransport(code, reason)

		conn.logger.Info().Int("close_code", code).Int("live_connections", l.registry.Len()).Msg("Connection released")
	})
}

// Evict drops a recipient whose queue could not take a frame. The connection is unregistered and its
// queue closed before Evict returns; the close frame is written from another goroutine so a stalled
// peer cannot hold up the sender that triggered the eviction.
func (l *Lifecycle) Evict(conn *Conn) {
	conn.releaseOnce.Do(func() {
		l.registry.Unregister(conn)
		conn.shutdown()

		conn.logger.Warn().Int("close_code", CloseSlowConsumer).Int("live_connections", l.registry.Len()).Msg("Connection evicted")

		l.mu.Lock()
		closing := l.closing
		if !closing {
			l.wg.Add(1)
		}
		l.mu.Unlock()

		if closing {
			conn.closeTransport(CloseSlowConsumer, "outbound queue full")
			return
		}

		go func() {
			defer l.wg.Done()
			conn.closeTransport(CloseSlowConsumer, "outbound queue full")
		}()
	})
}

// Reject closes a transport whose admission failed, with a close code derived from err.
func (l *Lifecycle) Reject(transport Transport, err error) {
	code := CloseCodeFor(err)
	closeTransport(transport, code, rejectReason(err), l.logger)
}

// CloseCodeFor maps an admission error to a WebSocket close code.
func CloseCodeFor(err error) int {
	if errors.Is(err, ErrShuttingDown) {
		return websocket.CloseGoingAway
	}

	switch errs.CodeOf(err) {
	case errs.ErrUnauthorized:
		return CloseUnauthenticated
	case errs.ErrInvalidTarget:
		return CloseInvalidTarget
	default:
		return websocket.CloseInternalServerErr
	}
}

// close frame payloads are limited to 125 bytes, two of which hold the code.
const maxCloseReason = 123

func rejectReason(err error) string {
	reason := err.Error()

	var customErr *errs.CustomError
	if errors.As(err, &customErr) {
		reason = customErr.Message
	}

	if len(reason) > maxCloseReason {
		reason = reason[:maxCloseReason]
	}
	return reason
}

// Shutdown releases every live connection and waits until all served connections have returned
// or ctx expires.
func (l *Lifecycle) Shutdown(ctx context.Context) error {
	l.mu.Lock()
	l.closing = true
	l.mu.Unlock()

	l.cancel()

	conns := l.registry.Snapshot()
	l.logger.Info().Int("connections", len(conns)).Msg("Shutting down, releasing connections")

	for _, c := range conns {
		l.release(c, websocket.CloseGoingAway, "server shutting down")
	}

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		l.logger.Info().Msg("Lifecycle shutdown complete.")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
