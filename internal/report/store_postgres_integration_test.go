//go:build integration

package report_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"vatour/internal/report"
	"vatour/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *report.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.Require().NoError(s.postgres.Apply(context.Background(), report.Schema))
	s.store = report.NewPostgresStore(s.postgres.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "tour_leg_reports"))
}

func newTestReport(userID, legID string) report.Report {
	return report.Report{
		UserID:      userID,
		TourLegID:   legID,
		Status:      report.StatusPending,
		SubmittedAt: time.Now().UTC().Truncate(time.Microsecond),
		FlightDate:  "2024-06-01",
		Callsign:    "RZO123",
		Online:      true,
	}
}

func (s *PostgresStoreSuite) TestUpsertAssignsIDAndRoundTrips() {
	ctx := context.Background()

	stored, err := s.store.Upsert(ctx, newTestReport("user-1", "leg-1"))
	s.Require().NoError(err)
	s.NotEmpty(stored.ID)
	s.Equal(report.StatusPending, stored.Status)

	found, err := s.store.Find(ctx, "user-1", "leg-1")
	s.Require().NoError(err)
	s.Equal(stored.ID, found.ID)
	s.Equal("RZO123", found.Callsign)
}

func (s *PostgresStoreSuite) TestResubmissionKeepsOneRowPerLeg() {
	ctx := context.Background()

	first, err := s.store.Upsert(ctx, newTestReport("user-1", "leg-1"))
	s.Require().NoError(err)

	second := newTestReport("user-1", "leg-1")
	second.Status = report.StatusApproved
	second.Callsign = "RZO999"
	stored, err := s.store.Upsert(ctx, second)
	s.Require().NoError(err)

	s.Equal(first.ID, stored.ID, "resubmission replaces the row, keeping its identity")
	s.Equal(report.StatusApproved, stored.Status)
	s.Equal("RZO999", stored.Callsign)

	reports, err := s.store.ListByUserAndLegs(ctx, "user-1", []string{"leg-1"})
	s.Require().NoError(err)
	s.Len(reports, 1)
}

func (s *PostgresStoreSuite) TestConcurrentResubmissionLastWriteWins() {
	ctx := context.Background()
	const goroutines = 30

	var wg sync.WaitGroup
	var failures atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.store.Upsert(ctx, newTestReport("user-1", "leg-1")); err != nil {
				failures.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(0), failures.Load(), "every resubmission should succeed")

	reports, err := s.store.ListByUserAndLegs(ctx, "user-1", []string{"leg-1"})
	s.Require().NoError(err)
	s.Len(reports, 1, "concurrent resubmissions collapse to a single row")
}

func (s *PostgresStoreSuite) TestUpdateReviewFields() {
	ctx := context.Background()

	stored, err := s.store.Upsert(ctx, newTestReport("user-1", "leg-1"))
	s.Require().NoError(err)

	reviewedAt := time.Now().UTC().Truncate(time.Microsecond)
	stored.Status = report.StatusRejected
	stored.ReviewedAt = &reviewedAt
	stored.ReviewNote = "wrong aircraft"
	s.Require().NoError(s.store.Update(ctx, stored))

	found, err := s.store.ByID(ctx, stored.ID)
	s.Require().NoError(err)
	s.Equal(report.StatusRejected, found.Status)
	s.Require().NotNil(found.ReviewedAt)
	s.Equal("wrong aircraft", found.ReviewNote)
}

func (s *PostgresStoreSuite) TestNotFound() {
	ctx := context.Background()

	_, err := s.store.Find(ctx, "nobody", "leg-1")
	s.ErrorIs(err, report.ErrNotFound)

	_, err = s.store.ByID(ctx, uuid.NewString())
	s.ErrorIs(err, report.ErrNotFound)

	ghost := newTestReport("user-1", "leg-1")
	ghost.ID = uuid.NewString()
	s.ErrorIs(s.store.Update(ctx, ghost), report.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListSpansLegs() {
	ctx := context.Background()

	for _, legID := range []string{"leg-1", "leg-2", "leg-3"} {
		_, err := s.store.Upsert(ctx, newTestReport("user-1", legID))
		s.Require().NoError(err)
	}
	_, err := s.store.Upsert(ctx, newTestReport("user-2", "leg-1"))
	s.Require().NoError(err)

	reports, err := s.store.ListByUserAndLegs(ctx, "user-1", []string{"leg-1", "leg-3"})
	s.Require().NoError(err)
	s.Len(reports, 2, "only the requested user's reports on the requested legs")
}
