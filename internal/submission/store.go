package submission

import (
	"context"

	id "kudos/pkg/domain"
)

// Store is the submission persistence contract. It doubles as the field
// accessor for the valuation and rejection-reason fields so the engine has
// one seam per storage backend.
type Store interface {
	FindByID(ctx context.Context, submissionID id.SubmissionID) (Submission, error)
	ListByOwner(ctx context.Context, ownerID id.UserID) ([]Submission, error)

	// SetStatus records a state transition; reason is stored only when the
	// new status is rejected.
	SetStatus(ctx context.Context, submissionID id.SubmissionID, status Status, reason string) error

	// SetComputedPoints updates the engine-maintained point value.
	SetComputedPoints(ctx context.Context, submissionID id.SubmissionID, points int64) error

	// SetRawValuation persists the settled valuation field. Called by the
	// authoring side glue; the engine itself only reads it.
	SetRawValuation(ctx context.Context, submissionID id.SubmissionID, valuation int64) error

	// Create exists for the authoring collaborator and tests; the engine
	// never creates submissions.
	Create(ctx context.Context, sub Submission) error
}
