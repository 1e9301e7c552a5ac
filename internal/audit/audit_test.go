package audit

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kudos/internal/platform/logger"
	id "kudos/pkg/domain"
)

func TestPublisher_StampsTimestamp(t *testing.T) {
	inbox := make(chan Event, 1)
	p := NewPublisher(inbox)

	p.Record(Event{Operation: "award"})

	got := <-inbox
	assert.False(t, got.Timestamp.IsZero())
}

func TestPublisher_DropsWhenInboxFull(t *testing.T) {
	inbox := make(chan Event, 1)
	p := NewPublisher(inbox, WithLogger(logger.Discard()))

	p.Record(Event{Operation: "award"})
	// Inbox is full; the second record must not block.
	done := make(chan struct{})
	go func() {
		p.Record(Event{Operation: "revoke"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full inbox")
	}

	got := <-inbox
	assert.Equal(t, "award", got.Operation)
	select {
	case extra := <-inbox:
		t.Fatalf("dropped event was delivered: %+v", extra)
	default:
	}
}

func TestWorker_PersistsEvents(t *testing.T) {
	store := NewInMemoryStore()
	inbox := make(chan Event, 8)
	worker := NewWorker(store, inbox, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = worker.Run(ctx)
		close(done)
	}()

	userID := id.NewUserID()
	inbox <- Event{UserID: userID, Operation: "award", Amount: 50}
	inbox <- Event{UserID: userID, Operation: "revoke", Amount: -50}

	require.Eventually(t, func() bool {
		events, err := store.ListByUser(context.Background(), userID)
		return err == nil && len(events) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

type failingStore struct {
	calls atomic.Int32
}

func (s *failingStore) Append(context.Context, Event) error {
	s.calls.Add(1)
	return errors.New("disk on fire")
}

func (s *failingStore) ListByUser(context.Context, id.UserID) ([]Event, error) {
	return nil, nil
}

func TestWorker_KeepsDrainingAfterAppendFailure(t *testing.T) {
	store := &failingStore{}
	inbox := make(chan Event, 8)
	worker := NewWorker(store, inbox, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = worker.Run(ctx)
		close(done)
	}()

	inbox <- Event{Operation: "award"}
	inbox <- Event{Operation: "revoke"}

	require.Eventually(t, func() bool {
		return len(inbox) == 0 && store.calls.Load() >= 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
