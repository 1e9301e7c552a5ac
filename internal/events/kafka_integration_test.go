//go:build integration

package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"kudos/internal/award"
	"kudos/internal/events"
	"kudos/internal/ledger"
	"kudos/internal/platform/config"
	"kudos/internal/platform/logger"
	"kudos/internal/submission"
	id "kudos/pkg/domain"
	"kudos/pkg/testutil/containers"
)

func TestKafkaSource_Integration(t *testing.T) {
	rp := containers.NewRedpandaContainer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	log := logger.Discard()
	ledgerStore := ledger.NewInMemoryStore()
	submissionStore := submission.NewInMemoryStore()
	engine := award.NewEngine(ledgerStore, submissionStore, award.DefaultRegistry(log), log,
		award.WithTxRunner(award.SerialTxRunner()))
	dispatcher := events.NewDispatcher(engine, events.DefaultSubscriptions(), log)

	sub := submission.Submission{
		ID:      id.NewSubmissionID(),
		Domain:  id.DomainProject,
		OwnerID: id.NewUserID(),
		Status:  submission.StatusApproved,
	}
	require.NoError(t, submissionStore.Create(ctx, sub))

	cfg := config.KafkaConfig{
		Brokers: []string{rp.Broker},
		Topic:   "kudos.triggers.test",
		Group:   "kudos-award-engine-test",
	}
	source, err := events.NewKafkaSource(cfg, dispatcher, log)
	require.NoError(t, err)

	runDone := make(chan error, 1)
	runCtx, stop := context.WithCancel(ctx)
	go func() { runDone <- source.Run(runCtx) }()

	producer, err := kgo.NewClient(kgo.SeedBrokers(rp.Broker))
	require.NoError(t, err)
	defer producer.Close()

	payload, err := json.Marshal(events.Trigger{
		Kind:         award.TriggerFinalized,
		SubmissionID: sub.ID.String(),
		Domain:       sub.Domain.String(),
	})
	require.NoError(t, err)
	// Duplicate delivery on purpose; the engine must converge to one credit.
	for i := 0; i < 3; i++ {
		require.NoError(t, producer.ProduceSync(ctx, &kgo.Record{
			Topic: cfg.Topic,
			Value: payload,
		}).FirstErr())
	}

	require.Eventually(t, func() bool {
		net, err := ledgerStore.SumForSubmission(ctx, sub.ID)
		return err == nil && net == 50
	}, time.Minute, 100*time.Millisecond)

	// Give the duplicates time to land, then confirm nothing double-credited.
	time.Sleep(2 * time.Second)
	net, err := ledgerStore.SumForSubmission(ctx, sub.ID)
	require.NoError(t, err)
	require.Equal(t, int64(50), net)

	entries, err := ledgerStore.ListByUser(ctx, sub.OwnerID)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	stop()
	select {
	case <-runDone:
	case <-time.After(10 * time.Second):
		t.Fatal("kafka source did not stop")
	}
}
