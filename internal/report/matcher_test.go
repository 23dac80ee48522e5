package report

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vatour/internal/directory"
	"vatour/internal/tour"
)

type fakeDirectory struct {
	plansBySession map[string][]directory.FlightPlan
	plansErr       error
	sessions       []directory.Session
	sessionsErr    error
	live           []directory.LiveFlight
	liveErr        error

	calls []string
}

func (f *fakeDirectory) SessionFlightPlans(_ context.Context, sessionID string) ([]directory.FlightPlan, error) {
	f.calls = append(f.calls, "plans:"+sessionID)
	if f.plansErr != nil {
		return nil, f.plansErr
	}
	return f.plansBySession[sessionID], nil
}

func (f *fakeDirectory) Sessions(_ context.Context, _ directory.SessionFilter) ([]directory.Session, error) {
	f.calls = append(f.calls, "sessions")
	if f.sessionsErr != nil {
		return nil, f.sessionsErr
	}
	return f.sessions, nil
}

func (f *fakeDirectory) LiveFlights(_ context.Context) ([]directory.LiveFlight, error) {
	f.calls = append(f.calls, "live")
	if f.liveErr != nil {
		return nil, f.liveErr
	}
	return f.live, nil
}

func newTestMatcher(dir Directory) *Matcher {
	return NewMatcher(dir, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
}

var testLeg = tour.Leg{ID: "leg-1", TourID: "tour-1", Number: 1, DepartureID: "LPPT", ArrivalID: "LPPR"}

func onlineSubmission() Submission {
	return Submission{
		LegID:      "leg-1",
		FlightDate: "2026-08-15",
		Callsign:   "RZO123",
		Online:     true,
	}
}

func TestMatchPreconditionOrdering(t *testing.T) {
	m := newTestMatcher(&fakeDirectory{})

	// Callsign check precedes every other precondition, including online.
	res := m.Match(context.Background(), Submission{Callsign: "", Online: false}, "", testLeg)
	assert.Equal(t, "callsign is required", res.PreconditionFailure)

	res = m.Match(context.Background(), Submission{Callsign: "RZO123", Online: false}, "", testLeg)
	assert.Equal(t, "user VID unavailable", res.PreconditionFailure)

	res = m.Match(context.Background(), Submission{Callsign: "RZO123", Online: false}, "123456", testLeg)
	assert.Equal(t, "flight date is required", res.PreconditionFailure)

	res = m.Match(context.Background(), Submission{Callsign: "RZO123", FlightDate: "not a date", Online: false}, "123456", testLeg)
	assert.Equal(t, "flight date is invalid", res.PreconditionFailure)

	res = m.Match(context.Background(), Submission{Callsign: "RZO123", FlightDate: "2026-08-15", Online: false}, "123456", testLeg)
	assert.Equal(t, "flight must be marked online", res.PreconditionFailure)
}

func TestMatchPreconditionsSkipNetwork(t *testing.T) {
	dir := &fakeDirectory{}
	m := newTestMatcher(dir)
	m.Match(context.Background(), Submission{}, "", testLeg)
	assert.Empty(t, dir.calls, "no directory call before preconditions pass")
}

func TestMatchDirectSessionWinsOverLive(t *testing.T) {
	dir := &fakeDirectory{
		plansBySession: map[string][]directory.FlightPlan{
			"sess-9": {{DepartureID: "lppt", ArrivalID: "LPPR", AircraftType: "A320"}},
		},
		// A live flight with different leg data also exists; direct
		// reference must win.
		live: []directory.LiveFlight{{Callsign: "RZO123", VID: "123456", DepartureID: "LPMA", ArrivalID: "LPPS"}},
	}
	m := newTestMatcher(dir)

	sub := onlineSubmission()
	sub.SessionID = "sess-9"
	res := m.Match(context.Background(), sub, "123456", testLeg)

	assert.Equal(t, MatchSessions, res.Source)
	require.NotNil(t, res.FlightPlan)
	assert.Equal(t, "A320", res.FlightPlan.AircraftType)
	assert.NotContains(t, dir.calls, "live")
}

func TestMatchHistoricalWindow(t *testing.T) {
	created := time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC)
	completed := time.Date(2026, 8, 15, 12, 30, 0, 0, time.UTC)
	dir := &fakeDirectory{
		sessions: []directory.Session{{
			ID:          "sess-1",
			Callsign:    "RZO123",
			VID:         "123456",
			CreatedAt:   &created,
			CompletedAt: &completed,
			FlightPlans: []directory.FlightPlan{{DepartureID: "LPPT", ArrivalID: "LPPR"}},
		}},
	}
	m := newTestMatcher(dir)

	res := m.Match(context.Background(), onlineSubmission(), "123456", testLeg)
	assert.Equal(t, MatchSessions, res.Source)
	require.NotNil(t, res.Session)
	assert.Equal(t, "sess-1", res.Session.ID)

	// Same session, report dated outside the window: skipped.
	sub := onlineSubmission()
	sub.FlightDate = "2026-08-20"
	res = m.Match(context.Background(), sub, "123456", testLeg)
	assert.Equal(t, MatchNone, res.Source)
}

func TestMatchHistoricalFetchesPlansWhenNotEmbedded(t *testing.T) {
	dir := &fakeDirectory{
		sessions: []directory.Session{{ID: "sess-2", Callsign: "RZO123", VID: "123456"}},
		plansBySession: map[string][]directory.FlightPlan{
			"sess-2": {{DepartureID: "LPPT", ArrivalID: "LPPR", CruisingSpeed: "N0450"}},
		},
	}
	m := newTestMatcher(dir)

	res := m.Match(context.Background(), onlineSubmission(), "123456", testLeg)
	assert.Equal(t, MatchSessions, res.Source)
	require.NotNil(t, res.FlightPlan)
	assert.Equal(t, "N0450", res.FlightPlan.CruisingSpeed)
	assert.Contains(t, dir.calls, "plans:sess-2")
}

func TestMatchWrongArrivalFallsThroughToLive(t *testing.T) {
	// Historical session flies LPPT->LPFR; the leg wants LPPT->LPPR.
	dir := &fakeDirectory{
		sessions: []directory.Session{{
			ID:          "sess-3",
			Callsign:    "RZO123",
			VID:         "123456",
			FlightPlans: []directory.FlightPlan{{DepartureID: "LPPT", ArrivalID: "LPFR"}},
		}},
	}
	m := newTestMatcher(dir)

	res := m.Match(context.Background(), onlineSubmission(), "123456", testLeg)
	assert.Equal(t, MatchNone, res.Source)
	assert.Empty(t, res.PreconditionFailure)
	assert.Contains(t, dir.calls, "live")
}

func TestMatchLiveFallback(t *testing.T) {
	dir := &fakeDirectory{
		sessionsErr: errors.New("directory down"),
		live:        []directory.LiveFlight{{Callsign: "rzo123", VID: "123456", DepartureID: "LPPT", ArrivalID: "LPPR"}},
	}
	m := newTestMatcher(dir)

	res := m.Match(context.Background(), onlineSubmission(), "123456", testLeg)
	assert.Equal(t, MatchLive, res.Source)
	assert.Nil(t, res.FlightPlan, "live matches carry no flight plan")
}

func TestMatchLiveRequiresAllFieldsEqual(t *testing.T) {
	dir := &fakeDirectory{
		live: []directory.LiveFlight{{Callsign: "RZO123", VID: "999999", DepartureID: "LPPT", ArrivalID: "LPPR"}},
	}
	m := newTestMatcher(dir)

	res := m.Match(context.Background(), onlineSubmission(), "123456", testLeg)
	assert.Equal(t, MatchNone, res.Source)
}

func TestMatchEveryStrategyFailureIsIsolated(t *testing.T) {
	dir := &fakeDirectory{
		plansErr:    errors.New("boom"),
		sessionsErr: errors.New("boom"),
		liveErr:     errors.New("boom"),
	}
	m := newTestMatcher(dir)

	sub := onlineSubmission()
	sub.SessionID = "sess-9"
	res := m.Match(context.Background(), sub, "123456", testLeg)

	assert.Equal(t, MatchNone, res.Source)
	// All three strategies were attempted despite each failing.
	assert.Equal(t, []string{"plans:sess-9", "sessions", "live"}, dir.calls)
}
