// Package balance derives the balance summary and affordability checks from
// the ledger, live submission state, and the external reservation hold.
// Nothing here is stored; the ledger is the source of truth.
package balance

import (
	"context"
	"fmt"
	"log/slog"

	"kudos/internal/ledger"
	"kudos/internal/platform/metrics"
	"kudos/internal/reservation"
	"kudos/internal/submission"
	id "kudos/pkg/domain"
	dErrors "kudos/pkg/domainerrors"
)

// Cache holds computed summaries between ledger writes. A nil-safe no-op
// implementation backs deployments without redis.
type Cache interface {
	Get(ctx context.Context, userID id.UserID) (Summary, bool)
	Set(ctx context.Context, userID id.UserID, summary Summary)
	Invalidate(ctx context.Context, userID id.UserID)
}

// Service computes balance summaries and affordability decisions.
type Service struct {
	ledger       ledger.Store
	submissions  submission.Store
	reservations reservation.Calculator
	cache        Cache
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

func NewService(
	ledgerStore ledger.Store,
	submissions submission.Store,
	reservations reservation.Calculator,
	cache Cache,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	if reservations == nil {
		reservations = reservation.None
	}
	return &Service{
		ledger:       ledgerStore,
		submissions:  submissions,
		reservations: reservations,
		cache:        cache,
		logger:       logger,
		metrics:      m,
	}
}

// Summary returns the user's balance: total earned, pending review,
// reserved against in-progress purchases, and available to spend.
func (s *Service) Summary(ctx context.Context, userID id.UserID) (Summary, error) {
	if s.metrics != nil {
		s.metrics.BalanceQueries.Inc()
	}
	if cached, ok := s.cache.Get(ctx, userID); ok {
		if s.metrics != nil {
			s.metrics.BalanceCacheHits.Inc()
		}
		return cached, nil
	}
	if s.metrics != nil {
		s.metrics.BalanceCacheMiss.Inc()
	}

	summary, err := s.compute(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	s.cache.Set(ctx, userID, summary)
	return summary, nil
}

func (s *Service) compute(ctx context.Context, userID id.UserID) (Summary, error) {
	total, err := s.ledger.SumForUser(ctx, userID)
	if err != nil {
		return Summary{}, fmt.Errorf("sum ledger: %w", err)
	}

	subs, err := s.submissions.ListByOwner(ctx, userID)
	if err != nil {
		return Summary{}, fmt.Errorf("list submissions: %w", err)
	}
	var pending int64
	for _, sub := range subs {
		if sub.Status == submission.StatusPendingReview {
			pending += sub.ComputedPoints
		}
	}

	reserved, err := s.reservations.ReservedAmount(ctx, userID)
	if err != nil {
		return Summary{}, fmt.Errorf("reserved amount: %w", err)
	}

	return Summary{
		Total:     total,
		Pending:   pending,
		Reserved:  reserved,
		Available: total - reserved,
	}, nil
}

// CanAfford applies the context-dependent affordability policy. Catalog
// compares the cost against available. Cart compares the reserved cart
// total, which already includes the candidate item, against total; checking
// against available there would subtract the item twice.
func (s *Service) CanAfford(ctx context.Context, userID id.UserID, cost int64, affordCtx AffordContext) (bool, error) {
	if cost < 0 {
		return false, dErrors.New(dErrors.CodeInvalidInput, "cost must not be negative")
	}
	summary, err := s.Summary(ctx, userID)
	if err != nil {
		return false, err
	}
	switch affordCtx {
	case ContextCatalog:
		return cost <= summary.Available, nil
	case ContextCart:
		return summary.Reserved <= summary.Total, nil
	default:
		return false, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown afford context: %s", affordCtx))
	}
}

// Invalidate drops the user's cached summary; called by the awarding engine
// after every ledger mutation.
func (s *Service) Invalidate(ctx context.Context, userID id.UserID) {
	s.cache.Invalidate(ctx, userID)
}
