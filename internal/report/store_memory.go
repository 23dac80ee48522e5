package report

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryStore backs tests and local development.
type InMemoryStore struct {
	mu      sync.RWMutex
	reports map[string]Report // keyed by userID + "/" + tourLegID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{reports: make(map[string]Report)}
}

func (s *InMemoryStore) Upsert(_ context.Context, r Report) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := r.UserID + "/" + r.TourLegID
	if existing, ok := s.reports[key]; ok {
		r.ID = existing.ID
	} else if r.ID == "" {
		r.ID = uuid.NewString()
	}
	s.reports[key] = r
	return r, nil
}

func (s *InMemoryStore) Update(_ context.Context, r Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, existing := range s.reports {
		if existing.ID == r.ID {
			s.reports[key] = r
			return nil
		}
	}
	return ErrNotFound
}

func (s *InMemoryStore) Find(_ context.Context, userID, tourLegID string) (*Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[userID+"/"+tourLegID]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *InMemoryStore) ByID(_ context.Context, id string) (*Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.reports {
		if r.ID == id {
			copied := r
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryStore) ListByUserAndLegs(_ context.Context, userID string, legIDs []string) ([]Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Report
	for _, legID := range legIDs {
		if r, ok := s.reports[userID+"/"+legID]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// Len reports the number of stored rows; used by idempotency tests.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}
