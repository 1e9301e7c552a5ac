package ledger

import (
	"context"

	id "kudos/pkg/domain"
)

// Store is the append-only transaction log. Uniqueness on
// (submission_id, logical_version) is enforced by every implementation;
// Append returns sentinel.ErrConflict when a concurrent writer got there
// first. The outstanding-contribution check itself lives in the awarding
// engine, the store only guarantees that exactly one of two racing
// check-and-write sequences lands.
type Store interface {
	// Append inserts one entry and returns its id. sentinel.ErrConflict
	// signals that (submission_id, logical_version) already exists.
	Append(ctx context.Context, entry Entry) (int64, error)

	// SumForUser returns the user's total: Σ amount over all entries.
	SumForUser(ctx context.Context, userID id.UserID) (int64, error)

	// SumForSubmission returns the submission's net outstanding contribution.
	SumForSubmission(ctx context.Context, submissionID id.SubmissionID) (int64, error)

	// NextLogicalVersion returns max(logical_version)+1 for the submission,
	// 1 when it has no entries.
	NextLogicalVersion(ctx context.Context, submissionID id.SubmissionID) (int64, error)

	// ListByUser returns the user's entries in append order; audit surface.
	ListByUser(ctx context.Context, userID id.UserID) ([]Entry, error)
}
