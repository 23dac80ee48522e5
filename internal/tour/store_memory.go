package tour

import (
	"context"
	"sort"
	"sync"
)

// InMemoryStore backs tests and local development.
type InMemoryStore struct {
	mu    sync.RWMutex
	tours map[string]Tour // keyed by ID
}

func NewInMemoryStore(tours ...Tour) *InMemoryStore {
	s := &InMemoryStore{tours: make(map[string]Tour)}
	for _, t := range tours {
		s.tours[t.ID] = t
	}
	return s
}

func (s *InMemoryStore) Put(t Tour) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tours[t.ID] = t
}

func (s *InMemoryStore) List(_ context.Context) ([]Tour, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Tour, 0, len(s.tours))
	for _, t := range s.tours {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (s *InMemoryStore) BySlug(_ context.Context, slug string) (*Tour, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tours {
		if t.Slug == slug {
			copied := t
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryStore) ByID(_ context.Context, id string) (*Tour, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tours[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := t
	return &copied, nil
}

func (s *InMemoryStore) LegByID(_ context.Context, legID string) (*Leg, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tours {
		for _, leg := range t.Legs {
			if leg.ID == legID {
				copied := leg
				return &copied, nil
			}
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryStore) LegByNumber(_ context.Context, tourID string, number int) (*Leg, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tours[tourID]
	if !ok {
		return nil, ErrNotFound
	}
	for _, leg := range t.Legs {
		if leg.Number == number {
			copied := leg
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

// InMemoryEnrollmentStore backs tests and local development.
type InMemoryEnrollmentStore struct {
	mu          sync.RWMutex
	enrollments map[string]Enrollment // keyed by userID + "/" + tourID
}

func NewInMemoryEnrollmentStore() *InMemoryEnrollmentStore {
	return &InMemoryEnrollmentStore{enrollments: make(map[string]Enrollment)}
}

func (s *InMemoryEnrollmentStore) Upsert(_ context.Context, e Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := e.UserID + "/" + e.TourID
	if _, exists := s.enrollments[key]; exists {
		return nil
	}
	s.enrollments[key] = e
	return nil
}

func (s *InMemoryEnrollmentStore) Find(_ context.Context, userID, tourID string) (*Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.enrollments[userID+"/"+tourID]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (s *InMemoryEnrollmentStore) ListByUser(_ context.Context, userID string) ([]Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Enrollment
	for _, e := range s.enrollments {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TourID < out[j].TourID })
	return out, nil
}
