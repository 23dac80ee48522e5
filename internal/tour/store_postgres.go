package tour

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore reads tours and legs from PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) List(ctx context.Context) ([]Tour, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, slug, name, allow_any_aircraft, validation_rules, created_at, updated_at
		FROM tours
		ORDER BY slug
	`)
	if err != nil {
		return nil, fmt.Errorf("list tours: %w", err)
	}
	defer rows.Close()

	var tours []Tour
	for rows.Next() {
		var t Tour
		if err := rows.Scan(&t.ID, &t.Slug, &t.Name, &t.AllowAnyAircraft, &t.ValidationRules, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan tour: %w", err)
		}
		tours = append(tours, t)
	}
	return tours, rows.Err()
}

func (s *PostgresStore) BySlug(ctx context.Context, slug string) (*Tour, error) {
	var t Tour
	err := s.pool.QueryRow(ctx, `
		SELECT id, slug, name, allow_any_aircraft, validation_rules, created_at, updated_at
		FROM tours
		WHERE slug = $1
	`, slug).Scan(&t.ID, &t.Slug, &t.Name, &t.AllowAnyAircraft, &t.ValidationRules, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find tour by slug: %w", err)
	}

	legs, err := s.legsByTour(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	t.Legs = legs
	return &t, nil
}

func (s *PostgresStore) ByID(ctx context.Context, id string) (*Tour, error) {
	var t Tour
	err := s.pool.QueryRow(ctx, `
		SELECT id, slug, name, allow_any_aircraft, validation_rules, created_at, updated_at
		FROM tours
		WHERE id = $1
	`, id).Scan(&t.ID, &t.Slug, &t.Name, &t.AllowAnyAircraft, &t.ValidationRules, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find tour: %w", err)
	}

	legs, err := s.legsByTour(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	t.Legs = legs
	return &t, nil
}

func (s *PostgresStore) legsByTour(ctx context.Context, tourID string) ([]Leg, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, tour_id, leg_number, departure_id, arrival_id
		FROM tour_legs
		WHERE tour_id = $1
		ORDER BY leg_number
	`, tourID)
	if err != nil {
		return nil, fmt.Errorf("list tour legs: %w", err)
	}
	defer rows.Close()

	var legs []Leg
	for rows.Next() {
		var l Leg
		if err := rows.Scan(&l.ID, &l.TourID, &l.Number, &l.DepartureID, &l.ArrivalID); err != nil {
			return nil, fmt.Errorf("scan tour leg: %w", err)
		}
		legs = append(legs, l)
	}
	return legs, rows.Err()
}

func (s *PostgresStore) LegByID(ctx context.Context, legID string) (*Leg, error) {
	var l Leg
	err := s.pool.QueryRow(ctx, `
		SELECT id, tour_id, leg_number, departure_id, arrival_id
		FROM tour_legs
		WHERE id = $1
	`, legID).Scan(&l.ID, &l.TourID, &l.Number, &l.DepartureID, &l.ArrivalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find leg: %w", err)
	}
	return &l, nil
}

func (s *PostgresStore) LegByNumber(ctx context.Context, tourID string, number int) (*Leg, error) {
	var l Leg
	err := s.pool.QueryRow(ctx, `
		SELECT id, tour_id, leg_number, departure_id, arrival_id
		FROM tour_legs
		WHERE tour_id = $1 AND leg_number = $2
	`, tourID, number).Scan(&l.ID, &l.TourID, &l.Number, &l.DepartureID, &l.ArrivalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find leg by number: %w", err)
	}
	return &l, nil
}

// PostgresEnrollmentStore persists enrollments in PostgreSQL.
type PostgresEnrollmentStore struct {
	pool *pgxpool.Pool
}

func NewPostgresEnrollmentStore(pool *pgxpool.Pool) *PostgresEnrollmentStore {
	return &PostgresEnrollmentStore{pool: pool}
}

func (s *PostgresEnrollmentStore) Upsert(ctx context.Context, e Enrollment) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tour_enrollments (user_id, tour_id, status, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, tour_id) DO NOTHING
	`, e.UserID, e.TourID, e.Status, e.JoinedAt)
	if err != nil {
		return fmt.Errorf("upsert enrollment: %w", err)
	}
	return nil
}

func (s *PostgresEnrollmentStore) Find(ctx context.Context, userID, tourID string) (*Enrollment, error) {
	var e Enrollment
	err := s.pool.QueryRow(ctx, `
		SELECT user_id, tour_id, status, joined_at
		FROM tour_enrollments
		WHERE user_id = $1 AND tour_id = $2
	`, userID, tourID).Scan(&e.UserID, &e.TourID, &e.Status, &e.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	return &e, nil
}

func (s *PostgresEnrollmentStore) ListByUser(ctx context.Context, userID string) ([]Enrollment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT user_id, tour_id, status, joined_at
		FROM tour_enrollments
		WHERE user_id = $1
		ORDER BY joined_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()

	var out []Enrollment
	for rows.Next() {
		var e Enrollment
		if err := rows.Scan(&e.UserID, &e.TourID, &e.Status, &e.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
