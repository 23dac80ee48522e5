package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer is the worker's seam to the message broker so tests can swap a
// fake in for Kafka.
type Producer interface {
	Produce(ctx context.Context, key, value []byte) error
	Close()
}

// KafkaProducer publishes audit events to a Kafka topic via franz-go.
type KafkaProducer struct {
	client *kgo.Client
	topic  string
}

func NewKafkaProducer(brokers []string, topic string) (*KafkaProducer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaProducer{client: client, topic: topic}, nil
}

func (p *KafkaProducer) Produce(ctx context.Context, key, value []byte) error {
	record := &kgo.Record{Topic: p.topic, Key: key, Value: value}
	return p.client.ProduceSync(ctx, record).FirstErr()
}

func (p *KafkaProducer) Close() {
	p.client.Close()
}

// Worker drains the audit outbox to the broker. It is deliberately decoupled
// from the report write path: a stalled broker grows the outbox but never
// blocks or fails a report submission.
type Worker struct {
	store    OutboxStore
	producer Producer
	logger   *slog.Logger

	interval  time.Duration
	batchSize int
}

func NewWorker(store OutboxStore, producer Producer, logger *slog.Logger) *Worker {
	return &Worker{
		store:     store,
		producer:  producer,
		logger:    logger,
		interval:  5 * time.Second,
		batchSize: 100,
	}
}

func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.drain(ctx); err != nil {
				w.logger.WarnContext(ctx, "audit outbox drain failed", "error", err)
			}
		}
	}
}

func (w *Worker) drain(ctx context.Context) error {
	events, err := w.store.NextBatch(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("fetch batch: %w", err)
	}

	published := make([]string, 0, len(events))
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			w.logger.ErrorContext(ctx, "audit event marshal failed, skipping",
				"event_id", event.ID,
				"error", err,
			)
			// Mark it published anyway; an unmarshalable event would
			// wedge the outbox forever.
			published = append(published, event.ID)
			continue
		}
		if err := w.producer.Produce(ctx, []byte(event.ReportID), payload); err != nil {
			// Stop at the first broker failure; the batch retries on
			// the next tick.
			break
		}
		published = append(published, event.ID)
	}

	if err := w.store.MarkPublished(ctx, published); err != nil {
		return fmt.Errorf("mark published: %w", err)
	}
	return nil
}
