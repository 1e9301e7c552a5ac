package ledger

import (
	"time"

	id "kudos/pkg/domain"
)

// Kind is the business reason for a ledger entry.
type Kind string

const (
	// KindAward credits a submission's point value on approval.
	KindAward Kind = "award"
	// KindRevoke negates a submission's outstanding contribution.
	KindRevoke Kind = "revoke"
	// KindAdjust moves an approved submission's contribution to a new value.
	KindAdjust Kind = "adjust"
)

// Entry is one immutable, signed point transaction. Entries are never
// mutated or deleted; corrections are new entries.
type Entry struct {
	ID           int64
	UserID       id.UserID
	SubmissionID id.SubmissionID
	Domain       id.RewardDomain
	Amount       int64
	Kind         Kind

	// LogicalVersion orders a submission's entries. The unique constraint on
	// (submission_id, logical_version) is the serialization point that makes
	// concurrent check-and-write attempts collapse to a single winner.
	LogicalVersion int64

	CreatedAt time.Time
}
