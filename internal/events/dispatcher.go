// Package events routes trigger events from their sources into the awarding
// engine. The subscription list is a typed, startup-built replacement for
// scattering hook registrations across modules: each domain declares which
// event kinds it reacts to, and everything else is dropped on the floor.
package events

import (
	"context"
	"log/slog"

	"kudos/internal/award"
	id "kudos/pkg/domain"
)

// Trigger is one event from a source: a submission was finalized, or its
// valuation field settled.
type Trigger struct {
	Kind         award.TriggerKind `json:"kind"`
	SubmissionID string            `json:"submission_id"`
	Domain       string            `json:"domain"`
}

// Subscription declares that a domain reacts to an event kind.
type Subscription struct {
	Domain id.RewardDomain
	Kind   award.TriggerKind
}

// Engine is the part of the awarding engine the dispatcher needs.
type Engine interface {
	HandleTrigger(ctx context.Context, kind award.TriggerKind, submissionID id.SubmissionID) (award.Outcome, error)
}

// Dispatcher filters triggers through the subscription list and hands the
// survivors to the engine. Both event sources (HTTP and Kafka) go through
// here so trigger handling has exactly one code path.
type Dispatcher struct {
	engine        Engine
	subscriptions map[Subscription]struct{}
	logger        *slog.Logger
}

func NewDispatcher(engine Engine, subs []Subscription, logger *slog.Logger) *Dispatcher {
	set := make(map[Subscription]struct{}, len(subs))
	for _, sub := range subs {
		set[sub] = struct{}{}
	}
	return &Dispatcher{engine: engine, subscriptions: set, logger: logger}
}

// DefaultSubscriptions wires the built-in domains. Projects award on
// finalization alone; invoices additionally react when the invoice amount
// settles, which can happen after the approval event.
func DefaultSubscriptions() []Subscription {
	return []Subscription{
		{Domain: id.DomainProject, Kind: award.TriggerFinalized},
		{Domain: id.DomainInvoice, Kind: award.TriggerFinalized},
		{Domain: id.DomainInvoice, Kind: award.TriggerValuationSettled},
	}
}

// Dispatch validates the trigger and invokes the engine. Unsubscribed
// (domain, kind) pairs are ignored: sources may fan out broadly, the list
// decides what matters.
func (d *Dispatcher) Dispatch(ctx context.Context, trigger Trigger) (award.Outcome, error) {
	submissionID, err := id.ParseSubmissionID(trigger.SubmissionID)
	if err != nil {
		return "", err
	}
	domain, err := id.ParseRewardDomain(trigger.Domain)
	if err != nil {
		d.logger.Warn("trigger for unknown domain ignored",
			"domain", trigger.Domain, "submission_id", trigger.SubmissionID)
		return award.OutcomeNoOp, nil
	}
	if _, ok := d.subscriptions[Subscription{Domain: domain, Kind: trigger.Kind}]; !ok {
		d.logger.Debug("trigger not subscribed, ignored",
			"domain", trigger.Domain, "kind", string(trigger.Kind))
		return award.OutcomeNoOp, nil
	}
	return d.engine.HandleTrigger(ctx, trigger.Kind, submissionID)
}
