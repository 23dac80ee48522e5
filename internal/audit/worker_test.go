package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducer struct {
	produced [][]byte
	keys     []string
	failAt   int // fail the nth call (1-based); 0 means never fail
	calls    int
}

func (p *fakeProducer) Produce(_ context.Context, key, value []byte) error {
	p.calls++
	if p.failAt > 0 && p.calls >= p.failAt {
		return errors.New("broker unavailable")
	}
	p.keys = append(p.keys, string(key))
	p.produced = append(p.produced, value)
	return nil
}

func (p *fakeProducer) Close() {}

func testWorker(store OutboxStore, producer Producer) *Worker {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return NewWorker(store, producer, logger)
}

func appendEvent(t *testing.T, store *InMemoryStore, id, reportID string) {
	t.Helper()
	require.NoError(t, store.Append(context.Background(), Event{
		ID:        id,
		Timestamp: time.Now().UTC(),
		Action:    ActionReportSubmit,
		ActorID:   "user-1",
		ReportID:  reportID,
	}))
}

func TestDrainPublishesAndMarks(t *testing.T) {
	store := NewInMemoryStore()
	appendEvent(t, store, "evt-1", "rep-1")
	appendEvent(t, store, "evt-2", "rep-2")

	producer := &fakeProducer{}
	w := testWorker(store, producer)

	require.NoError(t, w.drain(context.Background()))

	require.Len(t, producer.produced, 2)
	assert.Equal(t, []string{"rep-1", "rep-2"}, producer.keys, "events are keyed by report so a report's trail stays ordered")

	var decoded Event
	require.NoError(t, json.Unmarshal(producer.produced[0], &decoded))
	assert.Equal(t, "evt-1", decoded.ID)
	assert.Equal(t, ActionReportSubmit, decoded.Action)

	remaining, err := store.NextBatch(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, remaining, "published events leave the outbox")
}

func TestDrainStopsAtFirstBrokerFailure(t *testing.T) {
	store := NewInMemoryStore()
	appendEvent(t, store, "evt-1", "rep-1")
	appendEvent(t, store, "evt-2", "rep-2")
	appendEvent(t, store, "evt-3", "rep-3")

	producer := &fakeProducer{failAt: 2}
	w := testWorker(store, producer)

	require.NoError(t, w.drain(context.Background()))

	assert.Len(t, producer.produced, 1, "only the event before the failure went out")

	remaining, err := store.NextBatch(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, remaining, 2, "unpublished events stay for the next tick")
	assert.Equal(t, "evt-2", remaining[0].ID)
	assert.Equal(t, "evt-3", remaining[1].ID)
}

func TestDrainRetriesOnNextPass(t *testing.T) {
	store := NewInMemoryStore()
	appendEvent(t, store, "evt-1", "rep-1")

	failing := &fakeProducer{failAt: 1}
	w := testWorker(store, failing)
	require.NoError(t, w.drain(context.Background()))
	assert.Empty(t, failing.produced)

	// Broker recovers.
	w.producer = &fakeProducer{}
	require.NoError(t, w.drain(context.Background()))

	remaining, err := store.NextBatch(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestDrainEmptyOutboxIsNoop(t *testing.T) {
	store := NewInMemoryStore()
	producer := &fakeProducer{}
	w := testWorker(store, producer)

	require.NoError(t, w.drain(context.Background()))
	assert.Empty(t, producer.produced)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	store := NewInMemoryStore()
	w := testWorker(store, &fakeProducer{})
	w.interval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
