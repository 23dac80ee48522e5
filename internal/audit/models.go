package audit

import (
	"encoding/json"
	"time"
)

// Action names the mutation that produced an audit event.
const (
	ActionReportSubmit = "report.submit"
	ActionReportReview = "report.review"
)

// Event captures one report mutation with its before/after snapshots. Before
// is nil on first creation. Keep it transport-agnostic so stores and sinks
// can fan out.
type Event struct {
	ID        string
	Timestamp time.Time
	Action    string
	ActorID   string
	ReportID  string
	Reason    string

	Before json.RawMessage
	After  json.RawMessage
}

// Snapshot marshals v for a before/after field. Marshal failures degrade to
// nil rather than blocking the audit write.
func Snapshot(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}
