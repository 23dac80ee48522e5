package directory

import "time"

// Session is a recorded historical connection in the flight-activity
// directory, bounded by creation/completion timestamps. CompletedAt is nil
// while the session is still open.
type Session struct {
	ID          string
	Callsign    string
	VID         string
	CreatedAt   *time.Time
	CompletedAt *time.Time

	// FlightPlans is populated when the directory embeds plans on the
	// session payload. Empty does not mean "no plans filed" - the sessions
	// endpoint omits them on some deployments and they must be fetched
	// separately.
	FlightPlans []FlightPlan
}

// FlightPlan is the filed route/aircraft/altitude/speed/rules document
// associated with a session. Speed and level keep their wire encodings
// ("N0450", "FL350", "F350", bare numbers); interpretation is the
// evaluator's concern.
type FlightPlan struct {
	DepartureID   string
	ArrivalID     string
	AircraftType  string
	CruisingSpeed string
	CruisingLevel string
	Remarks       string
	FlightRules   string
	Military      bool
}

// LiveFlight is an entry in the directory's current-activity snapshot. It
// carries no historical time bounds and no flight plan attributes.
type LiveFlight struct {
	Callsign    string
	VID         string
	DepartureID string
	ArrivalID   string
}

// SessionFilter narrows the historical sessions query.
type SessionFilter struct {
	VID            string
	Callsign       string
	ConnectionType string
	Page           int
	PerPage        int
}
