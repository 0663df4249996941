// Package worker drains published audit events into a store. It keeps
// background processing testable without wiring queue implementations into
// domain logic.
package worker

import (
	"context"
	"log/slog"

	"motorlane/pkg/platform/audit"
)

type Worker struct {
	store  audit.Store
	inbox  <-chan audit.Event
	logger *slog.Logger
}

func New(store audit.Store, inbox <-chan audit.Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run consumes until ctx is cancelled. Persistence failures are logged and
// skipped; the audit trail is best-effort and must never stall the service.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "failed to persist audit event",
					"action", event.Action,
					"error", err,
				)
			}
		}
	}
}
