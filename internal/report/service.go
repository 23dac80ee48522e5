package report

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"vatour/internal/audit"
	reportmetrics "vatour/internal/report/metrics"
	"vatour/internal/tour"
	"vatour/pkg/domerr"
)

// Service drives the compliance pipeline: it resolves the leg and
// enrollment, runs the matcher and evaluator, derives the verdict, and
// persists the report with an audit entry. Staff review bypasses the
// pipeline and writes the store directly.
type Service struct {
	tours       tour.Store
	enrollments tour.EnrollmentStore
	reports     Store
	matcher     *Matcher
	auditor     *audit.Publisher
	logger      *slog.Logger
	metrics     *reportmetrics.Metrics
	now         func() time.Time
}

func NewService(
	tours tour.Store,
	enrollments tour.EnrollmentStore,
	reports Store,
	matcher *Matcher,
	auditor *audit.Publisher,
	logger *slog.Logger,
	m *reportmetrics.Metrics,
) *Service {
	return &Service{
		tours:       tours,
		enrollments: enrollments,
		reports:     reports,
		matcher:     matcher,
		auditor:     auditor,
		logger:      logger,
		metrics:     m,
		now:         time.Now,
	}
}

// Submit processes one self-report. Only missing identity, an unknown leg,
// or a missing enrollment abort with an error; every other outcome -
// precondition failures, no match, rule violations - resolves to a persisted
// report whose review note explains the verdict. Resubmission for the same
// leg overwrites the prior report in place.
func (s *Service) Submit(ctx context.Context, userID, vid string, sub Submission) (*Report, error) {
	if userID == "" {
		return nil, domerr.New(domerr.CodeUnauthorized, "authentication required")
	}

	leg, err := s.tours.LegByID(ctx, sub.LegID)
	if err != nil {
		if errors.Is(err, tour.ErrNotFound) {
			return nil, domerr.New(domerr.CodeNotFound, "tour leg not found")
		}
		return nil, err
	}

	t, err := s.tours.ByID(ctx, leg.TourID)
	if err != nil {
		if errors.Is(err, tour.ErrNotFound) {
			return nil, domerr.New(domerr.CodeNotFound, "tour not found")
		}
		return nil, err
	}

	if _, err := s.enrollments.Find(ctx, userID, t.ID); err != nil {
		if errors.Is(err, tour.ErrNotFound) {
			return nil, domerr.New(domerr.CodeForbidden, "not enrolled in this tour")
		}
		return nil, err
	}

	match := s.matcher.Match(ctx, sub, vid, *leg)

	var violations []string
	if match.Matched() {
		violations = Evaluate(EvalInput{
			Rules:            tour.ParseRules(t.ValidationRules),
			Plan:             match.FlightPlan,
			Session:          match.Session,
			Callsign:         sub.Callsign,
			AllowAnyAircraft: t.AllowAnyAircraft,
		})
	}

	verdict := Derive(match, violations, s.now())

	before, err := s.reports.Find(ctx, userID, sub.LegID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	stored, err := s.reports.Upsert(ctx, Report{
		UserID:      userID,
		TourLegID:   sub.LegID,
		Status:      verdict.Status,
		SubmittedAt: s.now(),
		ReviewedAt:  verdict.ReviewedAt,
		ReviewNote:  verdict.ReviewNote,
		FlightDate:  sub.FlightDate,
		Callsign:    sub.Callsign,
		Aircraft:    sub.Aircraft,
		Route:       sub.Route,
		Online:      sub.Online,
		EvidenceURL: sub.EvidenceURL,
	})
	if err != nil {
		return nil, domerr.Wrap(domerr.CodeInternal, "failed to save report", err)
	}

	event := audit.Event{
		Action:   audit.ActionReportSubmit,
		ActorID:  userID,
		ReportID: stored.ID,
		Reason:   verdict.ReviewNote,
		After:    audit.Snapshot(stored),
	}
	if before != nil {
		event.Before = audit.Snapshot(before)
	}
	s.audit(ctx, event)

	s.metrics.IncrementSubmissions(string(stored.Status))
	s.logger.InfoContext(ctx, "report processed",
		"user_id", userID,
		"leg_id", sub.LegID,
		"status", stored.Status,
		"source", match.Source,
		"note", stored.ReviewNote,
	)
	return &stored, nil
}

// Review is the staff override: it rewrites status and note directly without
// re-running matching or evaluation. This is the only path that can produce
// REJECTED or reverse an automated decision.
func (s *Service) Review(ctx context.Context, actorID, reportID string, status Status, note string) (*Report, error) {
	if !status.Valid() {
		return nil, domerr.New(domerr.CodeBadRequest, "invalid report status")
	}

	existing, err := s.reports.ByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, domerr.New(domerr.CodeNotFound, "report not found")
		}
		return nil, err
	}

	updated := *existing
	now := s.now()
	updated.Status = status
	updated.ReviewNote = note
	updated.ReviewedAt = &now

	if err := s.reports.Update(ctx, updated); err != nil {
		return nil, domerr.Wrap(domerr.CodeInternal, "failed to update report", err)
	}

	s.audit(ctx, audit.Event{
		Action:   audit.ActionReportReview,
		ActorID:  actorID,
		ReportID: reportID,
		Reason:   note,
		Before:   audit.Snapshot(existing),
		After:    audit.Snapshot(updated),
	})

	s.logger.InfoContext(ctx, "report reviewed",
		"actor_id", actorID,
		"report_id", reportID,
		"status", status,
	)
	return &updated, nil
}

// ListForTour returns the member's reports across a tour's legs.
func (s *Service) ListForTour(ctx context.Context, userID, tourSlug string) ([]Report, error) {
	t, err := s.tours.BySlug(ctx, tourSlug)
	if err != nil {
		if errors.Is(err, tour.ErrNotFound) {
			return nil, domerr.New(domerr.CodeNotFound, "tour not found")
		}
		return nil, err
	}
	legIDs := make([]string, 0, len(t.Legs))
	for _, leg := range t.Legs {
		legIDs = append(legIDs, leg.ID)
	}
	return s.reports.ListByUserAndLegs(ctx, userID, legIDs)
}

// audit emits best-effort: failures are logged, never propagated. The report
// write has already succeeded by the time this runs.
func (s *Service) audit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "audit emission failed",
			"action", event.Action,
			"report_id", event.ReportID,
			"error", err,
		)
	}
}
