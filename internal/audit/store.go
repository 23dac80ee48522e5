package audit

import "context"

// Store is an append-only audit sink. Append must be cheap; fan-out to
// external systems happens asynchronously in the outbox worker.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByReport(ctx context.Context, reportID string) ([]Event, error)
}

// OutboxStore extends Store with the batch operations the Kafka worker
// drains.
type OutboxStore interface {
	Store
	NextBatch(ctx context.Context, limit int) ([]Event, error)
	MarkPublished(ctx context.Context, ids []string) error
}
