package ledger

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

// PostgresStore persists ledger entries in PostgreSQL. The table carries
// UNIQUE (submission_id, logical_version); Append surfaces a violation as
// sentinel.ErrConflict so the engine can converge instead of erroring.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed ledger store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, entry Entry) (int64, error) {
	query := `
		INSERT INTO ledger_entries (user_id, submission_id, domain, amount, kind, logical_version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (submission_id, logical_version) DO NOTHING
		RETURNING id
	`
	var entryID int64
	err := tx.Resolve(ctx, s.db).QueryRowContext(ctx, query,
		uuid.UUID(entry.UserID),
		uuid.UUID(entry.SubmissionID),
		entry.Domain.String(),
		entry.Amount,
		string(entry.Kind),
		entry.LogicalVersion,
	).Scan(&entryID)
	if err != nil {
		// DO NOTHING yields no row on conflict; the losing writer sees
		// ErrNoRows here, not a constraint error.
		if errors.Is(err, sql.ErrNoRows) {
			return 0, sentinel.ErrConflict
		}
		return 0, fmt.Errorf("append ledger entry: %w", err)
	}
	return entryID, nil
}

func (s *PostgresStore) SumForUser(ctx context.Context, userID id.UserID) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM ledger_entries WHERE user_id = $1`
	var total int64
	if err := tx.Resolve(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(userID)).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum ledger for user: %w", err)
	}
	return total, nil
}

func (s *PostgresStore) SumForSubmission(ctx context.Context, submissionID id.SubmissionID) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM ledger_entries WHERE submission_id = $1`
	var total int64
	if err := tx.Resolve(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(submissionID)).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum ledger for submission: %w", err)
	}
	return total, nil
}

func (s *PostgresStore) NextLogicalVersion(ctx context.Context, submissionID id.SubmissionID) (int64, error) {
	query := `SELECT COALESCE(MAX(logical_version), 0) + 1 FROM ledger_entries WHERE submission_id = $1`
	var next int64
	if err := tx.Resolve(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(submissionID)).Scan(&next); err != nil {
		return 0, fmt.Errorf("next logical version: %w", err)
	}
	return next, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID) ([]Entry, error) {
	query := `
		SELECT id, user_id, submission_id, domain, amount, kind, logical_version, created_at
		FROM ledger_entries
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := tx.Resolve(ctx, s.db).QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list ledger for user: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e            Entry
			userUUID     uuid.UUID
			submissionID uuid.UUID
			domainName   string
			kind         string
		)
		if err := rows.Scan(&e.ID, &userUUID, &submissionID, &domainName, &e.Amount, &kind, &e.LogicalVersion, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		e.UserID = id.UserID(userUUID)
		e.SubmissionID = id.SubmissionID(submissionID)
		e.Domain = id.RewardDomain(domainName)
		e.Kind = Kind(kind)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list ledger for user: %w", err)
	}
	return out, nil
}
