// Package outbox delivers and purges rows of the outbox_events table.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/THXNXKXT/qr-studios-sub001/internal/pkg/clock"
)

// Event is a pending outbox row.
type Event struct {
	EventID     string
	EventType   string
	AggregateID string
	Payload     json.RawMessage
	RetryCount  int64
	CreatedAt   time.Time
}

// Source reads pending events and records delivery outcomes.
type Source interface {
	Pending(ctx context.Context, limit int64) ([]*Event, error)
	MarkProcessed(ctx context.Context, eventID string, at time.Time) error
	MarkFailed(ctx context.Context, eventID string, retryCount int64, reason string) error
}

// Publisher hands an event to its consumers.
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
}

// Relay moves pending events from a Source to a Publisher.
type Relay struct {
	source    Source
	publisher Publisher
	clock     clock.Clock
	logger    *slog.Logger
	batchSize int64
}

// NewRelay creates a Relay. batchSize <= 0 means 100.
func NewRelay(source Source, publisher Publisher, clk clock.Clock, logger *slog.Logger, batchSize int64) *Relay {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Relay{
		source:    source,
		publisher: publisher,
		clock:     clk,
		logger:    logger.With("component", "outbox_relay"),
		batchSize: batchSize,
	}
}

// Stats counts the outcomes of one batch.
type Stats struct {
	Published int
	Failed    int
}

// RunOnce delivers one batch of pending events in creation order. A publish
// failure marks that event failed and moves on to the next one.
func (r *Relay) RunOnce(ctx context.Context) (Stats, error) {
	var stats Stats

	events, err := r.source.Pending(ctx, r.batchSize)
	if err != nil {
		return stats, fmt.Errorf("failed to load pending events: %w", err)
	}

	for _, event := range events {
		if err := r.publisher.Publish(ctx, event); err != nil {
			r.logger.Warn("event delivery failed",
				"event_id", event.EventID,
				"event_type", event.EventType,
				"error", err,
			)
			if err := r.source.MarkFailed(ctx, event.EventID, event.RetryCount+1, err.Error()); err != nil {
				return stats, fmt.Errorf("failed to mark event %s failed: %w", event.EventID, err)
			}
			stats.Failed++
			continue
		}
		if err := r.source.MarkProcessed(ctx, event.EventID, r.clock.Now()); err != nil {
			return stats, fmt.Errorf("failed to mark event %s processed: %w", event.EventID, err)
		}
		stats.Published++
	}
	return stats, nil
}

// Run calls RunOnce every interval until ctx is cancelled.
func (r *Relay) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		stats, err := r.RunOnce(ctx)
		if err != nil {
			r.logger.Error("relay batch failed", "error", err)
		} else if stats.Published+stats.Failed > 0 {
			r.logger.Info("relay batch done", "published", stats.Published, "failed", stats.Failed)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// LogPublisher writes each event as a structured log record.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

// Publish implements Publisher.
func (p *LogPublisher) Publish(ctx context.Context, event *Event) error {
	if len(event.Payload) > 0 && !json.Valid(event.Payload) {
		return fmt.Errorf("event %s has a malformed payload", event.EventID)
	}
	p.logger.InfoContext(ctx, "event published",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"aggregate_id", event.AggregateID,
		"payload", event.Payload,
	)
	return nil
}
