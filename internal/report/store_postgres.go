package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists leg reports in PostgreSQL. The unique constraint on
// (user_id, tour_leg_id) enforces the one-report-per-leg invariant at the
// storage layer; concurrent resubmissions resolve last-write-wins.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Schema is the DDL the store expects. Applied by migrations in deployment
// and by integration tests directly.
const Schema = `
CREATE TABLE IF NOT EXISTS tour_leg_reports (
	id            UUID PRIMARY KEY,
	user_id       TEXT NOT NULL,
	tour_leg_id   TEXT NOT NULL,
	status        TEXT NOT NULL,
	submitted_at  TIMESTAMPTZ NOT NULL,
	reviewed_at   TIMESTAMPTZ,
	review_note   TEXT NOT NULL DEFAULT '',
	flight_date   TEXT NOT NULL DEFAULT '',
	callsign      TEXT NOT NULL DEFAULT '',
	aircraft      TEXT NOT NULL DEFAULT '',
	route         TEXT NOT NULL DEFAULT '',
	online        BOOLEAN NOT NULL DEFAULT FALSE,
	evidence_url  TEXT NOT NULL DEFAULT '',
	UNIQUE (user_id, tour_leg_id)
);
`

const reportColumns = `id, user_id, tour_leg_id, status, submitted_at, reviewed_at, review_note,
	flight_date, callsign, aircraft, route, online, evidence_url`

func (s *PostgresStore) Upsert(ctx context.Context, r Report) (Report, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO tour_leg_reports (`+reportColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user_id, tour_leg_id) DO UPDATE SET
			status = EXCLUDED.status,
			submitted_at = EXCLUDED.submitted_at,
			reviewed_at = EXCLUDED.reviewed_at,
			review_note = EXCLUDED.review_note,
			flight_date = EXCLUDED.flight_date,
			callsign = EXCLUDED.callsign,
			aircraft = EXCLUDED.aircraft,
			route = EXCLUDED.route,
			online = EXCLUDED.online,
			evidence_url = EXCLUDED.evidence_url
		RETURNING `+reportColumns,
		r.ID, r.UserID, r.TourLegID, r.Status, r.SubmittedAt, r.ReviewedAt, r.ReviewNote,
		r.FlightDate, r.Callsign, r.Aircraft, r.Route, r.Online, r.EvidenceURL,
	)
	stored, err := scanReport(row)
	if err != nil {
		return Report{}, fmt.Errorf("upsert report: %w", err)
	}
	return *stored, nil
}

func (s *PostgresStore) Update(ctx context.Context, r Report) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE tour_leg_reports SET
			status = $2,
			reviewed_at = $3,
			review_note = $4
		WHERE id = $1
	`, r.ID, r.Status, r.ReviewedAt, r.ReviewNote)
	if err != nil {
		return fmt.Errorf("update report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, userID, tourLegID string) (*Report, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+reportColumns+`
		FROM tour_leg_reports
		WHERE user_id = $1 AND tour_leg_id = $2
	`, userID, tourLegID)
	r, err := scanReport(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find report: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) ByID(ctx context.Context, id string) (*Report, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+reportColumns+`
		FROM tour_leg_reports
		WHERE id = $1
	`, id)
	r, err := scanReport(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find report by id: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) ListByUserAndLegs(ctx context.Context, userID string, legIDs []string) ([]Report, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+reportColumns+`
		FROM tour_leg_reports
		WHERE user_id = $1 AND tour_leg_id = ANY($2)
		ORDER BY submitted_at
	`, userID, legIDs)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*Report, error) {
	var r Report
	err := row.Scan(
		&r.ID, &r.UserID, &r.TourLegID, &r.Status, &r.SubmittedAt, &r.ReviewedAt, &r.ReviewNote,
		&r.FlightDate, &r.Callsign, &r.Aircraft, &r.Route, &r.Online, &r.EvidenceURL,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
