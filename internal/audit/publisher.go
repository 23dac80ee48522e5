package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily. Callers
// treat Emit as best-effort: a failed audit write is logged by the caller
// and never rolls back the report write it accompanies.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return p.store.Append(ctx, event)
}

func (p *Publisher) List(ctx context.Context, reportID string) ([]Event, error) {
	return p.store.ListByReport(ctx, reportID)
}
