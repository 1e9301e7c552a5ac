package submission

import (
	"time"

	id "kudos/pkg/domain"
)

// Status of a submission. All three states are revisitable: a rejected
// submission can be re-approved and an approved one revoked.
type Status string

const (
	StatusPendingReview Status = "pending_review"
	StatusApproved      Status = "approved"
	StatusRejected      Status = "rejected"
)

// Submission is a user-authored work item subject to approval. The authoring
// system owns creation and content; the awarding engine writes only Status,
// ComputedPoints, and RejectionReason.
type Submission struct {
	ID      id.SubmissionID
	Domain  id.RewardDomain
	OwnerID id.UserID
	Status  Status

	// RawValuation is the mutable numeric field formula domains derive
	// points from (e.g. an invoice amount). Nil until it settles.
	RawValuation *int64

	// ComputedPoints is the engine's last computed point value for this
	// submission, maintained for every status so pending balances can be
	// shown before approval.
	ComputedPoints int64

	RejectionReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}
