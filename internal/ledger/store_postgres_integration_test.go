//go:build integration

package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kudos/internal/ledger"
	id "kudos/pkg/domain"
	"kudos/pkg/platform/sentinel"
	"kudos/pkg/testutil/containers"
)

func TestPostgresStore_Integration(t *testing.T) {
	pc := containers.NewPostgresContainer(t, "../../migrations")
	store := ledger.NewPostgres(pc.DB)
	ctx := context.Background()

	userID := id.NewUserID()
	submissionID := id.NewSubmissionID()

	t.Run("append and sum", func(t *testing.T) {
		entryID, err := store.Append(ctx, ledger.Entry{
			UserID:         userID,
			SubmissionID:   submissionID,
			Domain:         id.DomainProject,
			Amount:         50,
			Kind:           ledger.KindAward,
			LogicalVersion: 1,
		})
		require.NoError(t, err)
		assert.NotZero(t, entryID)

		net, err := store.SumForSubmission(ctx, submissionID)
		require.NoError(t, err)
		assert.Equal(t, int64(50), net)

		total, err := store.SumForUser(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, int64(50), total)
	})

	t.Run("version reuse conflicts", func(t *testing.T) {
		_, err := store.Append(ctx, ledger.Entry{
			UserID:         userID,
			SubmissionID:   submissionID,
			Domain:         id.DomainProject,
			Amount:         50,
			Kind:           ledger.KindAward,
			LogicalVersion: 1,
		})
		assert.ErrorIs(t, err, sentinel.ErrConflict)

		net, err := store.SumForSubmission(ctx, submissionID)
		require.NoError(t, err)
		assert.Equal(t, int64(50), net, "losing write must not change the sum")
	})

	t.Run("next logical version", func(t *testing.T) {
		v, err := store.NextLogicalVersion(ctx, submissionID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), v)

		_, err = store.Append(ctx, ledger.Entry{
			UserID:         userID,
			SubmissionID:   submissionID,
			Domain:         id.DomainProject,
			Amount:         -50,
			Kind:           ledger.KindRevoke,
			LogicalVersion: v,
		})
		require.NoError(t, err)

		net, err := store.SumForSubmission(ctx, submissionID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), net)
	})

	t.Run("list by user", func(t *testing.T) {
		entries, err := store.ListByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, ledger.KindAward, entries[0].Kind)
		assert.Equal(t, ledger.KindRevoke, entries[1].Kind)
	})

	t.Run("unknown user sums to zero", func(t *testing.T) {
		total, err := store.SumForUser(ctx, id.NewUserID())
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}
