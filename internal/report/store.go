package report

import (
	"context"

	"vatour/pkg/domerr"
)

// ErrNotFound keeps store-level 404s consistent across implementations.
var ErrNotFound = domerr.New(domerr.CodeNotFound, "report not found")

// Store persists leg reports. The (userID, tourLegID) pair is the identity:
// Upsert overwrites any prior report for the pair in place, which is what
// makes resubmission idempotent.
type Store interface {
	// Upsert writes the report keyed on (UserID, TourLegID) and returns
	// the stored row, preserving the original ID on overwrite.
	Upsert(ctx context.Context, r Report) (Report, error)

	// Update rewrites an existing report by ID (the staff review path).
	Update(ctx context.Context, r Report) error

	Find(ctx context.Context, userID, tourLegID string) (*Report, error)
	ByID(ctx context.Context, id string) (*Report, error)
	ListByUserAndLegs(ctx context.Context, userID string, legIDs []string) ([]Report, error)
}
