package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"kudos/internal/award"
	"kudos/internal/platform/config"
)

// KafkaSource consumes trigger events from a topic and feeds the
// dispatcher. Offsets commit after dispatch, so a crash redelivers; the
// engine's idempotency makes redelivery safe, which is why the consumer
// needs no dedup state of its own.
type KafkaSource struct {
	client     *kgo.Client
	dispatcher *Dispatcher
	logger     *slog.Logger
	topic      string
}

// NewKafkaSource connects the consumer group and ensures the topic exists.
func NewKafkaSource(cfg config.KafkaConfig, dispatcher *Dispatcher, logger *slog.Logger) (*KafkaSource, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.ConsumerGroup(cfg.Group),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}

	admin := kadm.NewClient(client)
	resp, err := admin.CreateTopic(context.Background(), 1, 1, nil, cfg.Topic)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("ensure topic %s: %w", cfg.Topic, err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		client.Close()
		return nil, fmt.Errorf("ensure topic %s: %w", cfg.Topic, resp.Err)
	}

	return &KafkaSource{
		client:     client,
		dispatcher: dispatcher,
		logger:     logger,
		topic:      cfg.Topic,
	}, nil
}

// Run polls until the context is done.
func (s *KafkaSource) Run(ctx context.Context) error {
	defer s.client.Close()
	for {
		fetches := s.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			s.logger.Error("kafka fetch error", "topic", topic, "partition", partition, "error", err)
		})

		fetches.EachRecord(func(record *kgo.Record) {
			s.handle(ctx, record)
		})

		if err := s.client.CommitUncommittedOffsets(ctx); err != nil {
			s.logger.Error("kafka commit failed", "error", err)
		}
	}
}

func (s *KafkaSource) handle(ctx context.Context, record *kgo.Record) {
	var trigger Trigger
	if err := json.Unmarshal(record.Value, &trigger); err != nil {
		s.logger.Warn("malformed trigger event dropped",
			"topic", record.Topic, "offset", record.Offset, "error", err)
		return
	}
	if _, err := award.ParseTriggerKind(string(trigger.Kind)); err != nil {
		s.logger.Warn("trigger with unknown kind dropped",
			"kind", string(trigger.Kind), "offset", record.Offset)
		return
	}
	outcome, err := s.dispatcher.Dispatch(ctx, trigger)
	if err != nil {
		// Storage fault. The batch still commits; recovery is an operator
		// replay, which the idempotent engine absorbs.
		s.logger.Error("trigger dispatch failed",
			"submission_id", trigger.SubmissionID, "kind", string(trigger.Kind), "error", err)
		return
	}
	s.logger.Info("trigger dispatched",
		"submission_id", trigger.SubmissionID,
		"kind", string(trigger.Kind),
		"outcome", string(outcome))
}
