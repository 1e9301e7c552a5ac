package audit

import (
	"context"
	"log/slog"
)

// Worker consumes audit events from the inbox and persists them. Persistence
// failures are logged and the worker keeps draining; audit is fail-open and
// must never wedge the awarding path behind a slow store.
type Worker struct {
	store  Store
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.Error("audit append failed",
					"operation", event.Operation,
					"submission_id", event.SubmissionID.String(),
					"error", err)
			}
		}
	}
}
