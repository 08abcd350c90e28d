package bus

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tutorcore/internal/session"
)

// Bus dispatches events to subscribers synchronously on the session's
// goroutine. Within a type, handlers run in registration order; a publish
// issued from inside a handler is processed depth-first to completion
// before the outer publish returns.
type Bus struct {
	ctx  *session.Context
	log  *zap.Logger
	subs map[string][]Handler

	// inErrorDispatch guards against recursion: a failure inside an error
	// handler is swallowed instead of producing another error event.
	inErrorDispatch bool
}

// New creates a bus bound to a session context and stamps the session id
// into the event log slot.
func New(ctx *session.Context, log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	slot := ctx.EventLog()
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	return &Bus{
		ctx:  ctx,
		log:  log.Named("bus"),
		subs: make(map[string][]Handler),
	}
}

// Context returns the session context the bus is bound to.
func (b *Bus) Context() *session.Context { return b.ctx }

// SessionID returns the stable per-session bus id.
func (b *Bus) SessionID() string { return b.ctx.EventLog().ID }

// Subscribe registers a handler for an event type. Dispatch order is
// registration order, stable across calls.
func (b *Bus) Subscribe(eventType string, h Handler) {
	b.subs[eventType] = append(b.subs[eventType], h)
}

// Publish logs the event and invokes every handler registered for its
// type. A panicking handler does not stop the remaining handlers; the bus
// reports it as an error event instead.
func (b *Bus) Publish(ev Event) {
	if ev.TS.IsZero() {
		ev.TS = time.Now()
	}
	b.appendLog(ev)
	b.log.Debug("dispatch",
		zap.String("type", ev.Type),
		zap.String("source", ev.Source),
		zap.Strings("payload_keys", payloadKeys(ev.Payload)))

	for _, h := range b.subs[ev.Type] {
		b.dispatch(ev, h)
	}
}

// dispatch runs one handler with panic isolation.
func (b *Bus) dispatch(ev Event, h Handler) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		reason := fmt.Sprintf("%v", r)
		b.log.Warn("handler failed",
			zap.String("during", ev.Type),
			zap.String("reason", reason))
		if b.inErrorDispatch || ev.Type == TypeError {
			// No recursion: a broken error handler is dropped silently.
			return
		}
		b.inErrorDispatch = true
		b.Publish(Event{
			Type:   TypeError,
			Source: "eventbus",
			Payload: map[string]any{
				"reason": reason,
				"during": ev.Type,
			},
		})
		b.inErrorDispatch = false
	}()
	h(ev)
}

// Warn publishes a warning event. Validation problems inside components
// route through here so the originating operation stays a no-op.
func (b *Bus) Warn(source, msg string) {
	b.Publish(Event{
		Type:    TypeWarning,
		Source:  source,
		Payload: map[string]any{"msg": msg},
	})
}

func (b *Bus) appendLog(ev Event) {
	b.ctx.EventLog().Append(session.LogRecord{
		TS:          ev.TS,
		Type:        ev.Type,
		Source:      ev.Source,
		PayloadKeys: payloadKeys(ev.Payload),
	})
}

// payloadKeys returns the sorted payload key set. Keys only: values may
// hold student text and never reach the log.
func payloadKeys(p map[string]any) []string {
	if len(p) == 0 {
		return nil
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
