package audit

import (
	"context"
	"log/slog"
	"time"
)

// Store is the persistence sink the worker drains events into.
type Store interface {
	Append(ctx context.Context, event Event) error
	List(ctx context.Context) ([]Event, error)
}

// Publisher accepts audit events from domain logic. Implementations must
// never block the calling operation: auditing is best-effort and a full or
// broken sink drops events with a log line rather than failing the action.
type Publisher interface {
	Emit(ctx context.Context, event Event)
}

// ChannelPublisher feeds a buffered channel drained by a Worker. Emission is
// non-blocking; when the buffer is full the event is dropped and counted by
// the caller's metrics.
type ChannelPublisher struct {
	inbox  chan Event
	logger *slog.Logger
}

func NewChannelPublisher(buffer int, logger *slog.Logger) *ChannelPublisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &ChannelPublisher{
		inbox:  make(chan Event, buffer),
		logger: logger,
	}
}

// Inbox exposes the receive side for the worker.
func (p *ChannelPublisher) Inbox() <-chan Event {
	return p.inbox
}

func (p *ChannelPublisher) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.inbox <- event:
	default:
		p.logger.WarnContext(ctx, "audit inbox full, dropping event",
			"action", event.Action,
			"subject", event.Subject,
		)
	}
}

// NopPublisher discards all events. Used in tests and when auditing is not
// configured.
type NopPublisher struct{}

func (NopPublisher) Emit(context.Context, Event) {}
