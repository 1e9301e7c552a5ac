package submission

import (
	"context"
	"sync"
	"time"

	id "kudos/pkg/domain"
	"kudos/pkg/platform/sentinel"
)

// InMemoryStore keeps submissions in a map; used by tests and local runs.
type InMemoryStore struct {
	mu   sync.RWMutex
	subs map[id.SubmissionID]Submission
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{subs: make(map[id.SubmissionID]Submission)}
}

func (s *InMemoryStore) Create(_ context.Context, sub Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.subs[sub.ID]; exists {
		return sentinel.ErrConflict
	}
	now := time.Now()
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = now
	}
	sub.UpdatedAt = now
	s.subs[sub.ID] = sub
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, submissionID id.SubmissionID) (Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subs[submissionID]
	if !ok {
		return Submission{}, sentinel.ErrNotFound
	}
	return sub, nil
}

func (s *InMemoryStore) ListByOwner(_ context.Context, ownerID id.UserID) ([]Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Submission
	for _, sub := range s.subs {
		if sub.OwnerID == ownerID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *InMemoryStore) SetStatus(_ context.Context, submissionID id.SubmissionID, status Status, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[submissionID]
	if !ok {
		return sentinel.ErrNotFound
	}
	sub.Status = status
	if status == StatusRejected {
		sub.RejectionReason = reason
	} else {
		sub.RejectionReason = ""
	}
	sub.UpdatedAt = time.Now()
	s.subs[submissionID] = sub
	return nil
}

func (s *InMemoryStore) SetComputedPoints(_ context.Context, submissionID id.SubmissionID, points int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[submissionID]
	if !ok {
		return sentinel.ErrNotFound
	}
	sub.ComputedPoints = points
	sub.UpdatedAt = time.Now()
	s.subs[submissionID] = sub
	return nil
}

func (s *InMemoryStore) SetRawValuation(_ context.Context, submissionID id.SubmissionID, valuation int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[submissionID]
	if !ok {
		return sentinel.ErrNotFound
	}
	v := valuation
	sub.RawValuation = &v
	sub.UpdatedAt = time.Now()
	s.subs[submissionID] = sub
	return nil
}
