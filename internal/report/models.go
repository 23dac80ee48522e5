package report

import "time"

// Status is the report lifecycle state. REJECTED is reachable only through
// staff review; the automated pipeline produces PENDING or APPROVED.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Valid reports whether s is one of the three lifecycle states.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Report is the unit under evaluation: one row per (user, leg) pair.
// Resubmission overwrites in place; the core never deletes reports.
type Report struct {
	ID        string
	UserID    string
	TourLegID string

	Status      Status
	SubmittedAt time.Time
	ReviewedAt  *time.Time
	ReviewNote  string

	// Self-reported flight details, kept as submitted.
	FlightDate  string
	Callsign    string
	Aircraft    string
	Route       string
	Online      bool
	EvidenceURL string
}

// Submission carries the member's self-report form fields. Everything is
// free text except the online flag.
type Submission struct {
	LegID       string
	SessionID   string // optional direct session reference
	FlightDate  string
	Callsign    string
	Aircraft    string
	Route       string
	Online      bool
	EvidenceURL string
}
