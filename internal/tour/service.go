package tour

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"vatour/internal/platform/metrics"
	"vatour/pkg/domerr"
)

// Service exposes the member-facing tour surface: browsing tours and joining
// them. Tour authoring is staff tooling outside this service.
type Service struct {
	tours       Store
	enrollments EnrollmentStore
	logger      *slog.Logger
	metrics     *metrics.Metrics
	now         func() time.Time
}

func NewService(tours Store, enrollments EnrollmentStore, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		tours:       tours,
		enrollments: enrollments,
		logger:      logger,
		metrics:     m,
		now:         time.Now,
	}
}

func (s *Service) List(ctx context.Context) ([]Tour, error) {
	return s.tours.List(ctx)
}

// Get returns a tour with its legs. Rules are parsed on demand by callers
// that need them; handlers use PublicRules for member display.
func (s *Service) Get(ctx context.Context, slug string) (*Tour, error) {
	t, err := s.tours.BySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, domerr.New(domerr.CodeNotFound, "tour not found")
		}
		return nil, err
	}
	return t, nil
}

// Join enrolls the member in the tour. Joining an already-joined tour is a
// no-op, never a duplicate row.
func (s *Service) Join(ctx context.Context, userID, slug string) (*Enrollment, error) {
	t, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}

	e := Enrollment{
		UserID:   userID,
		TourID:   t.ID,
		Status:   EnrollmentActive,
		JoinedAt: s.now(),
	}
	if err := s.enrollments.Upsert(ctx, e); err != nil {
		return nil, domerr.Wrap(domerr.CodeInternal, "failed to join tour", err)
	}

	s.metrics.IncrementTourJoins()
	s.logger.InfoContext(ctx, "tour joined", "user_id", userID, "tour", slug)

	existing, err := s.enrollments.Find(ctx, userID, t.ID)
	if err != nil {
		return &e, nil
	}
	return existing, nil
}

// Enrollment returns the member's enrollment for a tour, or CodeForbidden
// when they never joined.
func (s *Service) Enrollment(ctx context.Context, userID, tourID string) (*Enrollment, error) {
	e, err := s.enrollments.Find(ctx, userID, tourID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, domerr.New(domerr.CodeForbidden, "not enrolled in this tour")
		}
		return nil, err
	}
	return e, nil
}
