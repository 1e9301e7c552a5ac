package audit

import (
	"time"

	id "kudos/pkg/domain"
)

// Event records one awarding-engine action for the audit trail. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp    time.Time
	UserID       id.UserID
	SubmissionID id.SubmissionID
	Domain       id.RewardDomain
	Operation    string
	Outcome      string
	Amount       int64
	Actor        string
	Reason       string
}
