package award

import (
	"log/slog"

	"kudos/internal/submission"
	id "kudos/pkg/domain"
)

// Calculator maps a submission to its point value. Implementations must be
// pure functions of the submission's current fields: recomputing with an
// unchanged valuation yields the same points, which is what keeps
// reconciliation idempotent.
type Calculator interface {
	Compute(sub submission.Submission) int64
}

// Fixed awards a constant value regardless of submission content.
type Fixed int64

func (f Fixed) Compute(submission.Submission) int64 {
	if f < 0 {
		return 0
	}
	return int64(f)
}

// Formula derives points from the raw valuation field. An unsettled (nil)
// valuation computes to zero; the valuation-settled trigger reconciles later.
func Formula(fn func(raw int64) int64) Calculator {
	return formulaCalculator{fn: fn}
}

type formulaCalculator struct {
	fn func(raw int64) int64
}

func (c formulaCalculator) Compute(sub submission.Submission) int64 {
	if sub.RawValuation == nil {
		return 0
	}
	points := c.fn(*sub.RawValuation)
	if points < 0 {
		return 0
	}
	return points
}

// Registry holds one calculator per reward domain, built at startup. A
// domain without a calculator is a configuration fault: it computes to zero
// and warns on every use rather than failing the trigger.
type Registry struct {
	calculators map[id.RewardDomain]Calculator
	logger      *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		calculators: make(map[id.RewardDomain]Calculator),
		logger:      logger,
	}
}

// Register binds a calculator to a domain. Later registrations win; domain
// config is read once at startup so this never races.
func (r *Registry) Register(domain id.RewardDomain, calc Calculator) {
	r.calculators[domain] = calc
}

// Compute resolves the domain's calculator and applies it.
func (r *Registry) Compute(sub submission.Submission) int64 {
	calc, ok := r.calculators[sub.Domain]
	if !ok {
		r.logger.Warn("no calculator configured for domain, awarding zero points",
			"domain", sub.Domain.String(),
			"submission_id", sub.ID.String())
		return 0
	}
	return calc.Compute(sub)
}

// DefaultRegistry wires the built-in domains: projects award a fixed value,
// invoices a tenth of the invoice amount rounded down.
func DefaultRegistry(logger *slog.Logger) *Registry {
	r := NewRegistry(logger)
	r.Register(id.DomainProject, Fixed(50))
	r.Register(id.DomainInvoice, Formula(func(raw int64) int64 {
		return raw / 10
	}))
	return r
}
