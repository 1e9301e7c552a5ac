// Package domain holds shared domain primitives: typed identifiers and the
// reward domain enumeration. Typed IDs prevent cross-type assignment at
// compile time (a UserID can never be passed where a SubmissionID is wanted).
package domain

import (
	"github.com/google/uuid"

	dErrors "kudos/pkg/domainerrors"
)

// UserID identifies the owner of submissions and ledger entries.
type UserID uuid.UUID

// SubmissionID identifies a user-authored work item subject to approval.
type SubmissionID uuid.UUID

// ParseUserID validates and returns a UserID. Empty strings, malformed
// UUIDs, and the nil UUID are all rejected; this is a trust boundary.
func ParseUserID(s string) (UserID, error) {
	parsed, err := parseID(s)
	if err != nil {
		return UserID{}, err
	}
	return UserID(parsed), nil
}

// ParseSubmissionID validates and returns a SubmissionID.
func ParseSubmissionID(s string) (SubmissionID, error) {
	parsed, err := parseID(s)
	if err != nil {
		return SubmissionID{}, err
	}
	return SubmissionID(parsed), nil
}

func parseID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return parsed, nil
}

// NewUserID returns a random UserID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewSubmissionID returns a random SubmissionID.
func NewSubmissionID() SubmissionID { return SubmissionID(uuid.New()) }

func (id UserID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero value.
func (id UserID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id SubmissionID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero value.
func (id SubmissionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
