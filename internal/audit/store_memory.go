package audit

import (
	"context"
	"sync"
)

// InMemoryStore backs tests and local development. It implements
// OutboxStore so the worker can be exercised without a database.
type InMemoryStore struct {
	mu        sync.RWMutex
	events    []Event
	published map[string]bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{published: make(map[string]bool)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) ListByReport(_ context.Context, reportID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if e.ReportID == reportID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *InMemoryStore) NextBatch(_ context.Context, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if s.published[e.ID] {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *InMemoryStore) MarkPublished(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.published[id] = true
	}
	return nil
}

// All returns every appended event; used by tests.
func (s *InMemoryStore) All() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events...)
}
