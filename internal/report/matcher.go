package report

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"vatour/internal/directory"
	reportmetrics "vatour/internal/report/metrics"
	"vatour/internal/tour"
)

// MatchSource identifies which strategy corroborated a report.
type MatchSource string

const (
	MatchSessions MatchSource = "sessions"
	MatchLive     MatchSource = "live"
	MatchNone     MatchSource = ""
)

// Precondition failure texts. These surface verbatim as review notes.
const (
	noteCallsignRequired = "callsign is required"
	noteVIDUnavailable   = "user VID unavailable"
	noteDateRequired     = "flight date is required"
	noteDateInvalid      = "flight date is invalid"
	noteOnlineRequired   = "flight must be marked online"
)

// MatchResult is the matcher's verdict. PreconditionFailure is set when the
// submission never qualified for a directory lookup; Source is MatchNone
// when every strategy came up empty.
type MatchResult struct {
	Source     MatchSource
	Session    *directory.Session
	FlightPlan *directory.FlightPlan

	PreconditionFailure string
}

// Matched reports whether any strategy corroborated the flight.
func (r MatchResult) Matched() bool { return r.Source != MatchNone }

// Directory is the slice of the flight-activity directory the matcher
// consumes.
type Directory interface {
	SessionFlightPlans(ctx context.Context, sessionID string) ([]directory.FlightPlan, error)
	Sessions(ctx context.Context, filter directory.SessionFilter) ([]directory.Session, error)
	LiveFlights(ctx context.Context) ([]directory.LiveFlight, error)
}

const sessionSearchPageSize = 25

// Matcher reconciles a self-report against the directory. Strategies run in
// strict priority order - direct session reference, historical search, live
// snapshot - and the first success wins. Every directory call is fault
// isolated: a failure in one strategy falls through to the next instead of
// aborting the pipeline.
type Matcher struct {
	dir     Directory
	logger  *slog.Logger
	metrics *reportmetrics.Metrics
	tracer  trace.Tracer
}

func NewMatcher(dir Directory, logger *slog.Logger, m *reportmetrics.Metrics) *Matcher {
	return &Matcher{
		dir:     dir,
		logger:  logger,
		metrics: m,
		tracer:  otel.Tracer("vatour/matcher"),
	}
}

// Match checks preconditions, then tries each strategy in order. vid is the
// member's directory identity token; empty means no linked account.
func (m *Matcher) Match(ctx context.Context, sub Submission, vid string, leg tour.Leg) MatchResult {
	ctx, span := m.tracer.Start(ctx, "matcher.Match",
		trace.WithAttributes(attribute.String("callsign", sub.Callsign)))
	defer span.End()

	// Preconditions, checked in order before any network call. The first
	// failure is the one reported.
	if strings.TrimSpace(sub.Callsign) == "" {
		return MatchResult{PreconditionFailure: noteCallsignRequired}
	}
	if vid == "" {
		return MatchResult{PreconditionFailure: noteVIDUnavailable}
	}
	if strings.TrimSpace(sub.FlightDate) == "" {
		return MatchResult{PreconditionFailure: noteDateRequired}
	}
	flightDate, ok := parseFlightDate(sub.FlightDate)
	if !ok {
		return MatchResult{PreconditionFailure: noteDateInvalid}
	}
	if !sub.Online {
		return MatchResult{PreconditionFailure: noteOnlineRequired}
	}

	if result, ok := m.matchDirectSession(ctx, sub, leg); ok {
		span.SetAttributes(attribute.String("source", string(result.Source)))
		m.metrics.IncrementMatches(string(result.Source))
		return result
	}
	if result, ok := m.matchHistorical(ctx, sub, vid, flightDate, leg); ok {
		span.SetAttributes(attribute.String("source", string(result.Source)))
		m.metrics.IncrementMatches(string(result.Source))
		return result
	}
	if result, ok := m.matchLive(ctx, sub, vid, leg); ok {
		span.SetAttributes(attribute.String("source", string(result.Source)))
		m.metrics.IncrementMatches(string(result.Source))
		return result
	}

	m.metrics.IncrementMatches("none")
	return MatchResult{Source: MatchNone}
}

// matchDirectSession resolves an explicit session reference carried on the
// submission.
func (m *Matcher) matchDirectSession(ctx context.Context, sub Submission, leg tour.Leg) (MatchResult, bool) {
	if sub.SessionID == "" {
		return MatchResult{}, false
	}

	plans, err := m.dir.SessionFlightPlans(ctx, sub.SessionID)
	if err != nil {
		m.logger.WarnContext(ctx, "direct session lookup failed, trying next strategy",
			"session_id", sub.SessionID,
			"error", err,
		)
		return MatchResult{}, false
	}

	for i := range plans {
		if planMatchesLeg(plans[i], leg) {
			return MatchResult{
				Source:     MatchSessions,
				Session:    &directory.Session{ID: sub.SessionID, Callsign: sub.Callsign},
				FlightPlan: &plans[i],
			}, true
		}
	}
	return MatchResult{}, false
}

// matchHistorical searches recent sessions for the member's callsign and
// checks the submitted flight date against each session's time window.
func (m *Matcher) matchHistorical(ctx context.Context, sub Submission, vid string, flightDate time.Time, leg tour.Leg) (MatchResult, bool) {
	sessions, err := m.dir.Sessions(ctx, directory.SessionFilter{
		VID:            vid,
		Callsign:       sub.Callsign,
		ConnectionType: "PILOT",
		Page:           1,
		PerPage:        sessionSearchPageSize,
	})
	if err != nil {
		m.logger.WarnContext(ctx, "historical session search failed, trying next strategy",
			"vid", vid,
			"error", err,
		)
		return MatchResult{}, false
	}

	for i := range sessions {
		session := sessions[i]
		if !strings.EqualFold(session.Callsign, sub.Callsign) || session.VID != vid {
			continue
		}
		if session.CreatedAt != nil && session.CompletedAt != nil &&
			!dateWithin(flightDate, *session.CreatedAt, *session.CompletedAt) {
			continue
		}

		plans := session.FlightPlans
		if len(plans) == 0 {
			fetched, err := m.dir.SessionFlightPlans(ctx, session.ID)
			if err != nil {
				m.logger.WarnContext(ctx, "session flight plan fetch failed, skipping candidate",
					"session_id", session.ID,
					"error", err,
				)
				continue
			}
			plans = fetched
		}

		for j := range plans {
			if planMatchesLeg(plans[j], leg) {
				return MatchResult{
					Source:     MatchSessions,
					Session:    &session,
					FlightPlan: &plans[j],
				}, true
			}
		}
	}
	return MatchResult{}, false
}

// matchLive scans the current-activity snapshot. A live match carries no
// flight plan, so plan-derived rules evaluate as unknown.
func (m *Matcher) matchLive(ctx context.Context, sub Submission, vid string, leg tour.Leg) (MatchResult, bool) {
	flights, err := m.dir.LiveFlights(ctx)
	if err != nil {
		m.logger.WarnContext(ctx, "live snapshot fetch failed",
			"error", err,
		)
		return MatchResult{}, false
	}

	for _, lf := range flights {
		if strings.EqualFold(lf.Callsign, sub.Callsign) &&
			lf.VID == vid &&
			strings.EqualFold(lf.DepartureID, leg.DepartureID) &&
			strings.EqualFold(lf.ArrivalID, leg.ArrivalID) {
			return MatchResult{Source: MatchLive}, true
		}
	}
	return MatchResult{}, false
}

func planMatchesLeg(plan directory.FlightPlan, leg tour.Leg) bool {
	return strings.EqualFold(plan.DepartureID, leg.DepartureID) &&
		strings.EqualFold(plan.ArrivalID, leg.ArrivalID)
}

var flightDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02.01.2006",
	time.RFC3339,
}

func parseFlightDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range flightDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// dateWithin compares at day granularity: the reported date may fall on the
// session's start or end day even when the timestamps carry time of day.
func dateWithin(date, from, to time.Time) bool {
	day := date.Truncate(24 * time.Hour)
	fromDay := from.UTC().Truncate(24 * time.Hour)
	toDay := to.UTC().Truncate(24 * time.Hour)
	return !day.Before(fromDay) && !day.After(toDay)
}
