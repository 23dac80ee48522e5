package tour

import "time"

// Tour is a scripted multi-leg campaign members fly and self-report against.
// Staff create and edit tours; members only read them.
type Tour struct {
	ID   string
	Slug string
	Name string

	// AllowAnyAircraft disables aircraft allow-list rules for the whole
	// tour regardless of what the rule list says.
	AllowAnyAircraft bool

	// ValidationRules holds the stored rule list verbatim (JSON array of
	// {key, value, public, publicLabel} objects). Parse with ParseRules;
	// the raw form must stay bit-compatible with existing data.
	ValidationRules string

	Legs []Leg

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Leg is one scripted departure-arrival segment. Number is unique within the
// tour and defines sequence.
type Leg struct {
	ID          string
	TourID      string
	Number      int
	DepartureID string
	ArrivalID   string
}

// EnrollmentStatus tracks a member's participation in a tour.
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "ACTIVE"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentWithdrawn EnrollmentStatus = "WITHDRAWN"
)

// Enrollment records a member's acceptance of a tour. One row per
// (user, tour) pair; joining twice is an upsert no-op.
type Enrollment struct {
	UserID   string
	TourID   string
	Status   EnrollmentStatus
	JoinedAt time.Time
}
