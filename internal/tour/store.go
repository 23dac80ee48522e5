package tour

import (
	"context"

	"vatour/pkg/domerr"
)

// ErrNotFound keeps store-level 404s consistent across the in-memory and
// Postgres implementations.
var ErrNotFound = domerr.New(domerr.CodeNotFound, "record not found")

// Store persists tours and their legs. Tours are written by staff tooling
// outside this service, so the engine only reads them.
type Store interface {
	List(ctx context.Context) ([]Tour, error)
	BySlug(ctx context.Context, slug string) (*Tour, error)
	ByID(ctx context.Context, id string) (*Tour, error)
	LegByID(ctx context.Context, legID string) (*Leg, error)
	LegByNumber(ctx context.Context, tourID string, number int) (*Leg, error)
}

// EnrollmentStore persists member enrollments keyed on (userID, tourID).
type EnrollmentStore interface {
	// Upsert creates the enrollment on first join and leaves an existing
	// row untouched.
	Upsert(ctx context.Context, e Enrollment) error
	Find(ctx context.Context, userID, tourID string) (*Enrollment, error)
	ListByUser(ctx context.Context, userID string) ([]Enrollment, error)
}
