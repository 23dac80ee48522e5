package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// PostgresStore implements OutboxStore using the transactional outbox
// pattern: events land in the outbox table on the hot path and the worker
// publishes them to Kafka afterwards.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema is the DDL the store expects.
const Schema = `
CREATE TABLE IF NOT EXISTS report_audit_outbox (
	id           UUID PRIMARY KEY,
	action       TEXT NOT NULL,
	actor_id     TEXT NOT NULL,
	report_id    TEXT NOT NULL,
	reason       TEXT NOT NULL DEFAULT '',
	before_state JSONB,
	after_state  JSONB,
	created_at   TIMESTAMPTZ NOT NULL,
	published_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS report_audit_outbox_report_idx ON report_audit_outbox (report_id);
CREATE INDEX IF NOT EXISTS report_audit_outbox_unpublished_idx ON report_audit_outbox (created_at) WHERE published_at IS NULL;
`

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO report_audit_outbox (id, action, actor_id, report_id, reason, before_state, after_state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, event.ID, event.Action, event.ActorID, event.ReportID, event.Reason,
		nullableJSON(event.Before), nullableJSON(event.After), event.Timestamp)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByReport(ctx context.Context, reportID string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, action, actor_id, report_id, reason, before_state, after_state, created_at
		FROM report_audit_outbox
		WHERE report_id = $1
		ORDER BY created_at
	`, reportID)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (s *PostgresStore) NextBatch(ctx context.Context, limit int) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, action, actor_id, report_id, reason, before_state, after_state, created_at
		FROM report_audit_outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch outbox batch: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (s *PostgresStore) MarkPublished(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE report_audit_outbox
		SET published_at = NOW()
		WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("mark outbox published: %w", err)
	}
	return nil
}

func scanEvents(rows *sql.Rows) ([]Event, error) {
	var out []Event
	for rows.Next() {
		var e Event
		var before, after sql.Null[[]byte]
		if err := rows.Scan(&e.ID, &e.Action, &e.ActorID, &e.ReportID, &e.Reason, &before, &after, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		if before.Valid {
			e.Before = before.V
		}
		if after.Valid {
			e.After = after.V
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
