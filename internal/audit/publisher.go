package audit

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Publisher hands events to the worker through a buffered inbox. Auditing is
// fail-open: a full inbox drops the event and bumps a counter rather than
// blocking or failing the awarding operation.
type Publisher struct {
	inbox   chan<- Event
	logger  *slog.Logger
	dropped prometheus.Counter
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithLogger sets a logger for drop reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithDroppedCounter sets the counter incremented on dropped events.
func WithDroppedCounter(c prometheus.Counter) Option {
	return func(p *Publisher) {
		p.dropped = c
	}
}

// NewPublisher creates a publisher writing to inbox.
func NewPublisher(inbox chan<- Event, opts ...Option) *Publisher {
	p := &Publisher{inbox: inbox}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Record enqueues an event, stamping the time when unset.
func (p *Publisher) Record(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.inbox <- event:
	default:
		if p.dropped != nil {
			p.dropped.Inc()
		}
		if p.logger != nil {
			p.logger.Warn("audit inbox full, event dropped",
				"operation", event.Operation,
				"submission_id", event.SubmissionID.String())
		}
	}
}
