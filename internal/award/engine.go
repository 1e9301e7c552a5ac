// Package award implements the points awarding engine: crediting approved
// submissions, reversing revoked ones, and reconciling formula-derived
// amounts when the underlying valuation changes. All mutations of the
// ledger and of submission status funnel through the Engine.
package award

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"kudos/internal/audit"
	"kudos/internal/award/metrics"
	"kudos/internal/ledger"
	"kudos/internal/platform/middleware"
	"kudos/internal/submission"
	id "kudos/pkg/domain"
	dErrors "kudos/pkg/domainerrors"
	"kudos/pkg/platform/sentinel"
)

// Outcome is the discriminated result of an engine operation. Expected
// business results are values, never errors; only storage faults propagate
// as errors.
type Outcome string

const (
	// OutcomeApplied: a ledger entry was written.
	OutcomeApplied Outcome = "applied"
	// OutcomeAlreadyApplied: an outstanding contribution already exists,
	// nothing was written.
	OutcomeAlreadyApplied Outcome = "already_applied"
	// OutcomeAdjusted: an adjust entry moved the contribution to its new value.
	OutcomeAdjusted Outcome = "adjusted"
	// OutcomeNoOp: the operation had nothing to do in the ledger.
	OutcomeNoOp Outcome = "noop"
)

// TriggerKind is an event-source trigger. Both kinds are safe to deliver
// any number of times; the outstanding-contribution check makes redelivery
// converge instead of double-crediting.
type TriggerKind string

const (
	// TriggerFinalized: the submission entered the approved or rejected state.
	TriggerFinalized TriggerKind = "finalized"
	// TriggerValuationSettled: the valuation field was persisted, possibly
	// after finalization.
	TriggerValuationSettled TriggerKind = "valuation_settled"
)

// ParseTriggerKind validates a trigger kind string.
func ParseTriggerKind(s string) (TriggerKind, error) {
	switch TriggerKind(s) {
	case TriggerFinalized, TriggerValuationSettled:
		return TriggerKind(s), nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown trigger kind: %s", s))
}

// Auditor records engine actions on the audit trail.
type Auditor interface {
	Record(event audit.Event)
}

// Invalidator drops cached balance summaries after a ledger mutation.
type Invalidator interface {
	Invalidate(ctx context.Context, userID id.UserID)
}

// TxRunner scopes fn to one storage transaction. Postgres wiring passes
// tx.Runner(db); the memory stores have no transactions, so their wiring
// passes SerialTxRunner instead.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// SerialTxRunner runs one engine write at a time. The memory stores
// cannot isolate concurrent read-check-write sequences the way a real
// transaction does, so the engine serializes them itself.
func SerialTxRunner() TxRunner {
	var mu sync.Mutex
	return func(ctx context.Context, fn func(ctx context.Context) error) error {
		mu.Lock()
		defer mu.Unlock()
		return fn(ctx)
	}
}

// Engine enforces the single invariant that matters: a submission's net
// ledger contribution always equals its current approved point value, no
// matter how many times or in what order triggers arrive.
type Engine struct {
	ledger      ledger.Store
	submissions submission.Store
	calculators *Registry

	logger      *slog.Logger
	metrics     *metrics.Metrics
	auditor     Auditor
	invalidator Invalidator
	runInTx     TxRunner
	tracer      trace.Tracer
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithMetrics sets the awarding metrics collector.
func WithMetrics(m *metrics.Metrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// WithAuditor sets the audit sink.
func WithAuditor(a Auditor) EngineOption {
	return func(e *Engine) { e.auditor = a }
}

// WithInvalidator sets the balance cache invalidator.
func WithInvalidator(inv Invalidator) EngineOption {
	return func(e *Engine) { e.invalidator = inv }
}

// WithTxRunner sets the transaction scope for multi-store writes.
func WithTxRunner(run TxRunner) EngineOption {
	return func(e *Engine) { e.runInTx = run }
}

// NewEngine constructs the awarding engine.
func NewEngine(ledgerStore ledger.Store, submissions submission.Store, calculators *Registry, logger *slog.Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		ledger:      ledgerStore,
		submissions: submissions,
		calculators: calculators,
		logger:      logger,
		runInTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
		tracer: otel.Tracer("kudos/award"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Award credits points to the user for the submission, exactly once. A
// second call (or a concurrent duplicate) observes the outstanding
// contribution and returns OutcomeAlreadyApplied without writing.
func (e *Engine) Award(ctx context.Context, submissionID id.SubmissionID, userID id.UserID, points int64) (Outcome, error) {
	ctx, span := e.tracer.Start(ctx, "award.Award", trace.WithAttributes(
		attribute.String("submission_id", submissionID.String()),
		attribute.Int64("points", points)))
	defer span.End()

	if points <= 0 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "points must be positive")
	}

	outcome, domain, err := e.creditOnce(ctx, submissionID, userID, points)
	if err != nil {
		return "", err
	}

	e.metrics.RecordOutcome("award", string(outcome))
	e.finish(ctx, audit.Event{
		UserID:       userID,
		SubmissionID: submissionID,
		Domain:       domain,
		Operation:    "award",
		Outcome:      string(outcome),
		Amount:       points,
	})
	return outcome, nil
}

// creditOnce is the shared check-and-write: one award entry iff nothing is
// outstanding, then status approved and computed points. One retry on a
// lost race, after which the duplicate is treated as already applied.
//
// The version is read before the outstanding sum. At read committed each
// statement sees everything committed before it, so a concurrent credit
// either shows up in the sum or collides on the version; reading the sum
// first would leave a window where it does neither.
func (e *Engine) creditOnce(ctx context.Context, submissionID id.SubmissionID, userID id.UserID, points int64) (Outcome, id.RewardDomain, error) {
	var domain id.RewardDomain
	for attempt := 0; attempt < 2; attempt++ {
		var conflict bool
		err := e.runInTx(ctx, func(ctx context.Context) error {
			sub, err := e.submissions.FindByID(ctx, submissionID)
			if err != nil {
				return fmt.Errorf("find submission: %w", err)
			}
			domain = sub.Domain
			version, err := e.ledger.NextLogicalVersion(ctx, submissionID)
			if err != nil {
				return fmt.Errorf("next logical version: %w", err)
			}
			outstanding, err := e.ledger.SumForSubmission(ctx, submissionID)
			if err != nil {
				return fmt.Errorf("read outstanding contribution: %w", err)
			}
			if outstanding > 0 {
				conflict = true
				return nil
			}
			if _, err := e.ledger.Append(ctx, ledger.Entry{
				UserID:         userID,
				SubmissionID:   submissionID,
				Domain:         sub.Domain,
				Amount:         points,
				Kind:           ledger.KindAward,
				LogicalVersion: version,
			}); err != nil {
				return err
			}
			if err := e.submissions.SetStatus(ctx, submissionID, submission.StatusApproved, ""); err != nil {
				return fmt.Errorf("set status approved: %w", err)
			}
			if err := e.submissions.SetComputedPoints(ctx, submissionID, points); err != nil {
				return fmt.Errorf("set computed points: %w", err)
			}
			return nil
		})
		if errors.Is(err, sentinel.ErrConflict) {
			e.metrics.RecordConflict()
			e.logger.Info("ledger write conflict, re-checking outstanding contribution",
				"submission_id", submissionID.String(), "attempt", attempt+1)
			continue
		}
		if err != nil {
			return "", domain, err
		}
		if conflict {
			return OutcomeAlreadyApplied, domain, nil
		}
		return OutcomeApplied, domain, nil
	}
	// Two lost races mean a concurrent writer landed the credit.
	return OutcomeAlreadyApplied, domain, nil
}

// Revoke reverses the submission's outstanding contribution and marks it
// rejected with the given reason. OutcomeNoOp when nothing is outstanding;
// the status and reason are still recorded so the rejection sticks.
func (e *Engine) Revoke(ctx context.Context, submissionID id.SubmissionID, userID id.UserID, reason string) (Outcome, error) {
	ctx, span := e.tracer.Start(ctx, "award.Revoke", trace.WithAttributes(
		attribute.String("submission_id", submissionID.String())))
	defer span.End()

	var (
		outcome Outcome
		amount  int64
		domain  id.RewardDomain
	)
	for attempt := 0; attempt < 2; attempt++ {
		err := e.runInTx(ctx, func(ctx context.Context) error {
			sub, err := e.submissions.FindByID(ctx, submissionID)
			if err != nil {
				return fmt.Errorf("find submission: %w", err)
			}
			domain = sub.Domain
			// Version before sum, same ordering as creditOnce.
			version, err := e.ledger.NextLogicalVersion(ctx, submissionID)
			if err != nil {
				return fmt.Errorf("next logical version: %w", err)
			}
			outstanding, err := e.ledger.SumForSubmission(ctx, submissionID)
			if err != nil {
				return fmt.Errorf("read outstanding contribution: %w", err)
			}
			if outstanding == 0 {
				outcome = OutcomeNoOp
				return e.submissions.SetStatus(ctx, submissionID, submission.StatusRejected, reason)
			}
			if _, err := e.ledger.Append(ctx, ledger.Entry{
				UserID:         userID,
				SubmissionID:   submissionID,
				Domain:         sub.Domain,
				Amount:         -outstanding,
				Kind:           ledger.KindRevoke,
				LogicalVersion: version,
			}); err != nil {
				return err
			}
			amount = -outstanding
			outcome = OutcomeApplied
			return e.submissions.SetStatus(ctx, submissionID, submission.StatusRejected, reason)
		})
		if errors.Is(err, sentinel.ErrConflict) {
			e.metrics.RecordConflict()
			e.logger.Info("ledger write conflict during revoke, re-checking",
				"submission_id", submissionID.String(), "attempt", attempt+1)
			continue
		}
		if err != nil {
			return "", err
		}
		e.metrics.RecordOutcome("revoke", string(outcome))
		e.finish(ctx, audit.Event{
			UserID:       userID,
			SubmissionID: submissionID,
			Domain:       domain,
			Operation:    "revoke",
			Outcome:      string(outcome),
			Amount:       amount,
			Reason:       reason,
		})
		return outcome, nil
	}
	return OutcomeNoOp, nil
}

// ReconcileValuationChange moves an approved submission's contribution to
// newPoints with a single adjust entry. For pending or rejected submissions
// only the computed value is updated; the ledger stays untouched until the
// next approval. Zero-delta adjustments are suppressed.
func (e *Engine) ReconcileValuationChange(ctx context.Context, submissionID id.SubmissionID, userID id.UserID, newPoints int64) (Outcome, error) {
	ctx, span := e.tracer.Start(ctx, "award.ReconcileValuationChange", trace.WithAttributes(
		attribute.String("submission_id", submissionID.String()),
		attribute.Int64("new_points", newPoints)))
	defer span.End()

	if newPoints < 0 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "points must not be negative")
	}

	var (
		outcome Outcome
		delta   int64
		domain  id.RewardDomain
	)
	for attempt := 0; attempt < 2; attempt++ {
		err := e.runInTx(ctx, func(ctx context.Context) error {
			sub, err := e.submissions.FindByID(ctx, submissionID)
			if err != nil {
				return fmt.Errorf("find submission: %w", err)
			}
			domain = sub.Domain
			if sub.Status != submission.StatusApproved {
				outcome = OutcomeNoOp
				return e.submissions.SetComputedPoints(ctx, submissionID, newPoints)
			}
			// Version before sum, same ordering as creditOnce.
			version, err := e.ledger.NextLogicalVersion(ctx, submissionID)
			if err != nil {
				return fmt.Errorf("next logical version: %w", err)
			}
			outstanding, err := e.ledger.SumForSubmission(ctx, submissionID)
			if err != nil {
				return fmt.Errorf("read outstanding contribution: %w", err)
			}
			delta = newPoints - outstanding
			if delta == 0 {
				outcome = OutcomeNoOp
				return nil
			}
			if _, err := e.ledger.Append(ctx, ledger.Entry{
				UserID:         userID,
				SubmissionID:   submissionID,
				Domain:         sub.Domain,
				Amount:         delta,
				Kind:           ledger.KindAdjust,
				LogicalVersion: version,
			}); err != nil {
				return err
			}
			outcome = OutcomeAdjusted
			return e.submissions.SetComputedPoints(ctx, submissionID, newPoints)
		})
		if errors.Is(err, sentinel.ErrConflict) {
			e.metrics.RecordConflict()
			e.logger.Info("ledger write conflict during reconcile, re-checking",
				"submission_id", submissionID.String(), "attempt", attempt+1)
			continue
		}
		if err != nil {
			return "", err
		}
		e.metrics.RecordOutcome("reconcile", string(outcome))
		e.finish(ctx, audit.Event{
			UserID:       userID,
			SubmissionID: submissionID,
			Domain:       domain,
			Operation:    "reconcile",
			Outcome:      string(outcome),
			Amount:       delta,
		})
		return outcome, nil
	}
	return OutcomeNoOp, nil
}

// HandleTrigger is the single entry point for both event sources. It reads
// the submission's current state, derives the point value from the domain
// calculator, and dispatches. Safe to call any number of times for the same
// underlying change.
func (e *Engine) HandleTrigger(ctx context.Context, kind TriggerKind, submissionID id.SubmissionID) (Outcome, error) {
	ctx, span := e.tracer.Start(ctx, "award.HandleTrigger", trace.WithAttributes(
		attribute.String("kind", string(kind)),
		attribute.String("submission_id", submissionID.String())))
	defer span.End()

	e.metrics.RecordTrigger(string(kind))

	sub, err := e.submissions.FindByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.Wrap(dErrors.CodeNotFound, "submission not found", err)
		}
		return "", fmt.Errorf("find submission: %w", err)
	}
	points := e.calculators.Compute(sub)

	switch kind {
	case TriggerFinalized:
		switch sub.Status {
		case submission.StatusApproved:
			if points <= 0 {
				// Formula domain whose valuation has not settled yet; the
				// valuation_settled trigger will reconcile.
				e.logger.Info("finalized trigger with zero computed points, waiting for valuation",
					"submission_id", submissionID.String(), "domain", sub.Domain.String())
				return OutcomeNoOp, nil
			}
			return e.Award(ctx, submissionID, sub.OwnerID, points)
		case submission.StatusRejected:
			return e.Revoke(ctx, submissionID, sub.OwnerID, sub.RejectionReason)
		default:
			return OutcomeNoOp, nil
		}
	case TriggerValuationSettled:
		return e.ReconcileValuationChange(ctx, submissionID, sub.OwnerID, points)
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown trigger kind: %s", kind))
	}
}

// finish emits audit and cache invalidation after a completed operation.
// Invalidation runs even for no-ops, since a no-op can still change
// submission state (status and computed points feed the pending figure).
// The actor is the authenticated operator when the call came through the
// admin surface; trigger-sourced operations carry no actor.
func (e *Engine) finish(ctx context.Context, event audit.Event) {
	if e.auditor != nil {
		event.Actor = middleware.GetAdminSubject(ctx)
		e.auditor.Record(event)
	}
	if e.invalidator != nil {
		e.invalidator.Invalidate(ctx, event.UserID)
	}
}
