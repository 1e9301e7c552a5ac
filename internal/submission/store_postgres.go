package submission

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	id "kudos/pkg/domain"
	"kudos/pkg/platform/sentinel"
	"kudos/pkg/platform/tx"
)

// PostgresStore persists submissions in PostgreSQL. Pure I/O; state machine
// rules live in the awarding engine.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed submission store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, sub Submission) error {
	query := `
		INSERT INTO submissions (id, domain, owner_id, status, raw_valuation, computed_points, rejection_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	var valuation sql.NullInt64
	if sub.RawValuation != nil {
		valuation = sql.NullInt64{Int64: *sub.RawValuation, Valid: true}
	}
	_, err := tx.Resolve(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(sub.ID),
		sub.Domain.String(),
		uuid.UUID(sub.OwnerID),
		string(sub.Status),
		valuation,
		sub.ComputedPoints,
		sub.RejectionReason,
	)
	if err != nil {
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, submissionID id.SubmissionID) (Submission, error) {
	query := `
		SELECT id, domain, owner_id, status, raw_valuation, computed_points, rejection_reason, created_at, updated_at
		FROM submissions
		WHERE id = $1
	`
	sub, err := scanSubmission(tx.Resolve(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(submissionID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Submission{}, sentinel.ErrNotFound
		}
		return Submission{}, fmt.Errorf("find submission by id: %w", err)
	}
	return sub, nil
}

func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID id.UserID) ([]Submission, error) {
	query := `
		SELECT id, domain, owner_id, status, raw_valuation, computed_points, rejection_reason, created_at, updated_at
		FROM submissions
		WHERE owner_id = $1
		ORDER BY created_at
	`
	rows, err := tx.Resolve(ctx, s.db).QueryContext(ctx, query, uuid.UUID(ownerID))
	if err != nil {
		return nil, fmt.Errorf("list submissions by owner: %w", err)
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list submissions by owner: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) SetStatus(ctx context.Context, submissionID id.SubmissionID, status Status, reason string) error {
	if status != StatusRejected {
		reason = ""
	}
	query := `
		UPDATE submissions
		SET status = $2, rejection_reason = $3, updated_at = NOW()
		WHERE id = $1
	`
	return s.exec(ctx, query, "set submission status", uuid.UUID(submissionID), string(status), reason)
}

func (s *PostgresStore) SetComputedPoints(ctx context.Context, submissionID id.SubmissionID, points int64) error {
	query := `
		UPDATE submissions
		SET computed_points = $2, updated_at = NOW()
		WHERE id = $1
	`
	return s.exec(ctx, query, "set computed points", uuid.UUID(submissionID), points)
}

func (s *PostgresStore) SetRawValuation(ctx context.Context, submissionID id.SubmissionID, valuation int64) error {
	query := `
		UPDATE submissions
		SET raw_valuation = $2, updated_at = NOW()
		WHERE id = $1
	`
	return s.exec(ctx, query, "set raw valuation", uuid.UUID(submissionID), valuation)
}

func (s *PostgresStore) exec(ctx context.Context, query, op string, args ...any) error {
	result, err := tx.Resolve(ctx, s.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type submissionRow interface {
	Scan(dest ...any) error
}

func scanSubmission(row submissionRow) (Submission, error) {
	var (
		sub        Submission
		subID      uuid.UUID
		domainName string
		ownerID    uuid.UUID
		status     string
		valuation  sql.NullInt64
	)
	if err := row.Scan(&subID, &domainName, &ownerID, &status, &valuation, &sub.ComputedPoints, &sub.RejectionReason, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
		return Submission{}, err
	}
	sub.ID = id.SubmissionID(subID)
	sub.Domain = id.RewardDomain(domainName)
	sub.OwnerID = id.UserID(ownerID)
	sub.Status = Status(status)
	if valuation.Valid {
		v := valuation.Int64
		sub.RawValuation = &v
	}
	return sub, nil
}
