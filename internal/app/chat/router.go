package chat

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/logx"
)

const (
	// DefaultPersistTimeout bounds how long a message may take to persist.
	DefaultPersistTimeout = 5 * time.Second

	// DefaultInboundRate and DefaultInboundBurst limit frames read from a single connection.
	DefaultInboundRate  = rate.Limit(5)
	DefaultInboundBurst = 10
)

// Options tunes the chat core. Zero values fall back to the package defaults.
type Options struct {
	PersistTimeout time.Duration
	QueueSize      int
	InboundRate    rate.Limit
	InboundBurst   int

	// Clock stamps each routed message. Defaults to time.Now.
	Clock func() time.Time
}

func (o Options) withDefaults() Options {
	if o.PersistTimeout <= 0 {
		o.PersistTimeout = DefaultPersistTimeout
	}
	if o.QueueSize <= 0 {
		o.QueueSize = DefaultQueueSize
	}
	if o.InboundRate <= 0 {
		o.InboundRate = DefaultInboundRate
	}
	if o.InboundBurst <= 0 {
		o.InboundBurst = DefaultInboundBurst
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

// Evicter drops a recipient that can no longer be written to. Evict runs on the routing goroutine,
// so it must unregister conn and close its queue before returning and must not wait on the transport.
type Evicter interface {
	Evict(conn *Conn)
}

// RouteOutcome describes a routed message.
type RouteOutcome struct {
	MessageID int64
	Delivered int
	SentAt    time.Time
}

// Router fans inbound messages out to live recipients and persists them.
type Router struct {
	store          Store
	registry       *Registry
	evicter        Evicter
	persistTimeout time.Duration
	now            func() time.Time
	logger         zerolog.Logger
}

// NewRouter constructs a Router.
func NewRouter(store Store, registry *Registry, evicter Evicter, opts Options) *Router {
	opts = opts.withDefaults()

	return &Router{
		store:          store,
		registry:       registry,
		evicter:        evicter,
		persistTimeout: opts.PersistTimeout,
		now:            opts.Clock,
		logger:         logx.Component("Router"),
	}
}

type persistResult struct {
	id  int64
	err error
}

// Route delivers p from sender to every live recipient of the sender's target and persists it.
// Persistence runs concurrently with delivery and is bounded by the persist timeout. Delivery to
// an unreachable recipient is not an error; a recipient whose queue cannot accept the frame is
// evicted without affecting the others. A persistence failure is returned as ErrMessagePersistFailed
// after delivery has been attempted.
func (r *Router) Route(ctx context.Context, sender *Conn, p Payload) (RouteOutcome, error) {
	target := sender.Target()

	msg := StoredMessage{
		Sender:    sender.Identity(),
		Content:   p.Content,
		MediaURL:  p.MediaURL,
		MediaType: p.MediaType,
		SentAt:    r.now().UTC(),
	}
	if target.Mode == ModeGroup {
		msg.GroupID = target.GroupID
	} else {
		msg.Receiver = target.Peer
	}

	outcome := RouteOutcome{SentAt: msg.SentAt}

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.persistTimeout)
	defer cancel()

	done := make(chan persistResult, 1)
	go func() {
		id, err := r.store.InsertMessage(pctx, msg)
		done <- persistResult{id: id, err: err}
	}()

	frame, err := encodeMessageFrame(msg)
	if err != nil {
		sender.logger.Error().Err(err).Msg("Failed to encode message frame")
	} else {
		outcome.Delivered = r.deliver(ctx, sender, frame)
	}

	var res persistResult
	select {
	case res = <-done:
	case <-pctx.Done():
		res.err = pctx.Err()
	}

	if res.err != nil {
		event := sender.logger.Error().Err(res.err)
		if errors.Is(res.err, context.DeadlineExceeded) {
			event = event.Dur("timeout", r.persistTimeout)
		}
		event.Int("delivered", outcome.Delivered).Msg("Failed to persist message")

		return outcome, errs.Wrap(errs.ErrMessagePersistFailed, res.err)
	}

	outcome.MessageID = res.id
	return outcome, nil
}

func (r *Router) recipients(ctx context.Context, sender *Conn) []*Conn {
	target := sender.Target()

	if target.Mode == ModeGroup {
		conns, err := r.registry.ConnectionsForGroup(ctx, target.GroupID, sender, r.store)
		if err != nil {
			sender.logger.Error().Err(err).Msg("Failed to resolve group members, message not delivered")
			return nil
		}
		return conns
	}

	conns := r.registry.ConnectionsFor(target.Peer)
	out := conns[:0]
	for _, c := range conns {
		if c != sender {
			out = append(out, c)
		}
	}
	return out
}

func (r *Router) deliver(ctx context.Context, sender *Conn, frame []byte) int {
	delivered := 0

	for _, c := range r.recipients(ctx, sender) {
		err := c.Deliver(frame)
		switch {
		case err == nil:
			delivered++
		case errors.Is(err, errConnClosed):
			// released concurrently
		default:
			c.logger.Warn().Err(err).Str("sender", sender.Identity()).Msg("Delivery failed, evicting recipient")
			r.evicter.Evict(c)
		}
	}

	return delivered
}
