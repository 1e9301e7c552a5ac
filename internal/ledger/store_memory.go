package ledger

import (
	"context"
	"sync"
	"time"

	id "kudos/pkg/domain"
	"kudos/pkg/platform/sentinel"
)

// InMemoryStore replicates the postgres conflict semantics under a mutex so
// engine tests exercise the same races the database would arbitrate.
type InMemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	entries []Entry
	// versions mirrors the (submission_id, logical_version) unique index.
	versions map[id.SubmissionID]map[int64]struct{}
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		nextID:   1,
		versions: make(map[id.SubmissionID]map[int64]struct{}),
	}
}

func (s *InMemoryStore) Append(_ context.Context, entry Entry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	taken := s.versions[entry.SubmissionID]
	if taken == nil {
		taken = make(map[int64]struct{})
		s.versions[entry.SubmissionID] = taken
	}
	if _, exists := taken[entry.LogicalVersion]; exists {
		return 0, sentinel.ErrConflict
	}
	taken[entry.LogicalVersion] = struct{}{}

	entry.ID = s.nextID
	s.nextID++
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	s.entries = append(s.entries, entry)
	return entry.ID, nil
}

func (s *InMemoryStore) SumForUser(_ context.Context, userID id.UserID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, e := range s.entries {
		if e.UserID == userID {
			total += e.Amount
		}
	}
	return total, nil
}

func (s *InMemoryStore) SumForSubmission(_ context.Context, submissionID id.SubmissionID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, e := range s.entries {
		if e.SubmissionID == submissionID {
			total += e.Amount
		}
	}
	return total, nil
}

func (s *InMemoryStore) NextLogicalVersion(_ context.Context, submissionID id.SubmissionID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var max int64
	for v := range s.versions[submissionID] {
		if v > max {
			max = v
		}
	}
	return max + 1, nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Entry
	for _, e := range s.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}
