//go:build integration

package award_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kudos/internal/award"
	"kudos/internal/ledger"
	"kudos/internal/platform/logger"
	"kudos/internal/submission"
	id "kudos/pkg/domain"
	"kudos/pkg/platform/tx"
	"kudos/pkg/testutil/containers"
)

func TestEngine_PostgresIntegration(t *testing.T) {
	pc := containers.NewPostgresContainer(t, "../../migrations")
	ctx := context.Background()
	log := logger.Discard()

	ledgerStore := ledger.NewPostgres(pc.DB)
	submissionStore := submission.NewPostgres(pc.DB)
	engine := award.NewEngine(ledgerStore, submissionStore, award.DefaultRegistry(log), log,
		award.WithTxRunner(tx.Runner(pc.DB)))

	seed := func(t *testing.T, sub submission.Submission) submission.Submission {
		t.Helper()
		sub.ID = id.NewSubmissionID()
		sub.OwnerID = id.NewUserID()
		if sub.Status == "" {
			sub.Status = submission.StatusPendingReview
		}
		require.NoError(t, submissionStore.Create(ctx, sub))
		return sub
	}

	t.Run("award is idempotent across the real schema", func(t *testing.T) {
		sub := seed(t, submission.Submission{Domain: id.DomainProject})

		outcome, err := engine.Award(ctx, sub.ID, sub.OwnerID, 50)
		require.NoError(t, err)
		assert.Equal(t, award.OutcomeApplied, outcome)

		outcome, err = engine.Award(ctx, sub.ID, sub.OwnerID, 50)
		require.NoError(t, err)
		assert.Equal(t, award.OutcomeAlreadyApplied, outcome)

		net, err := ledgerStore.SumForSubmission(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(50), net)

		got, err := submissionStore.FindByID(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, submission.StatusApproved, got.Status)
		assert.Equal(t, int64(50), got.ComputedPoints)
	})

	t.Run("concurrent awards land one entry", func(t *testing.T) {
		sub := seed(t, submission.Submission{Domain: id.DomainProject})

		const racers = 8
		var wg sync.WaitGroup
		errs := make([]error, racers)
		wg.Add(racers)
		for i := 0; i < racers; i++ {
			go func(i int) {
				defer wg.Done()
				_, errs[i] = engine.Award(ctx, sub.ID, sub.OwnerID, 50)
			}(i)
		}
		wg.Wait()
		for i := range errs {
			require.NoError(t, errs[i])
		}

		net, err := ledgerStore.SumForSubmission(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(50), net)

		entries, err := ledgerStore.ListByUser(ctx, sub.OwnerID)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("revoke and reconcile round trip", func(t *testing.T) {
		valuation := int64(1000)
		sub := seed(t, submission.Submission{
			Domain:       id.DomainInvoice,
			RawValuation: &valuation,
			Status:       submission.StatusApproved,
		})

		_, err := engine.HandleTrigger(ctx, award.TriggerFinalized, sub.ID)
		require.NoError(t, err)

		require.NoError(t, submissionStore.SetRawValuation(ctx, sub.ID, 2000))
		outcome, err := engine.HandleTrigger(ctx, award.TriggerValuationSettled, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, award.OutcomeAdjusted, outcome)

		net, err := ledgerStore.SumForSubmission(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(200), net)

		_, err = engine.Revoke(ctx, sub.ID, sub.OwnerID, "invoice voided")
		require.NoError(t, err)

		net, err = ledgerStore.SumForSubmission(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), net)
	})
}
