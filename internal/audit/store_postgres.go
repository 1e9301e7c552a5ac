package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "kudos/pkg/domain"
	"kudos/pkg/platform/tx"
)

// PostgresStore persists audit events in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed audit store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	query := `
		INSERT INTO audit_events (occurred_at, user_id, submission_id, domain, operation, outcome, amount, actor, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := tx.Resolve(ctx, s.db).ExecContext(ctx, query,
		event.Timestamp,
		uuid.UUID(event.UserID),
		uuid.UUID(event.SubmissionID),
		event.Domain.String(),
		event.Operation,
		event.Outcome,
		event.Amount,
		event.Actor,
		event.Reason,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID) ([]Event, error) {
	query := `
		SELECT occurred_at, user_id, submission_id, domain, operation, outcome, amount, actor, reason
		FROM audit_events
		WHERE user_id = $1
		ORDER BY occurred_at
	`
	rows, err := tx.Resolve(ctx, s.db).QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			e            Event
			userUUID     uuid.UUID
			submissionID uuid.UUID
			domainName   string
		)
		if err := rows.Scan(&e.Timestamp, &userUUID, &submissionID, &domainName, &e.Operation, &e.Outcome, &e.Amount, &e.Actor, &e.Reason); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.UserID = id.UserID(userUUID)
		e.SubmissionID = id.SubmissionID(submissionID)
		e.Domain = id.RewardDomain(domainName)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return out, nil
}
