package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_outbox"
	"github.com/THXNXKXT/qr-studios-sub001/internal/pkg/query"
)

// SpannerSource reads and updates outbox_events in Spanner.
type SpannerSource struct {
	client *spanner.Client
	model  *m_outbox.Model
}

// NewSpannerSource creates a SpannerSource.
func NewSpannerSource(client *spanner.Client) *SpannerSource {
	return &SpannerSource{client: client, model: m_outbox.NewModel()}
}

var _ Source = (*SpannerSource)(nil)

// PendingQuery selects the oldest pending events.
func PendingQuery(limit int64) spanner.Statement {
	return query.From(m_outbox.TableName).
		Select(m_outbox.EventID, m_outbox.EventType, m_outbox.AggregateID, m_outbox.Payload, m_outbox.RetryCount, m_outbox.CreatedAt).
		Where(query.Eq(m_outbox.Status, m_outbox.StatusPending)).
		OrderBy(m_outbox.CreatedAt, query.Asc).
		Limit(limit).
		Build()
}

// Pending implements Source.
func (s *SpannerSource) Pending(ctx context.Context, limit int64) ([]*Event, error) {
	iter := s.client.Single().Query(ctx, PendingQuery(limit))
	defer iter.Stop()

	var events []*Event
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		event, err := RowToEvent(row)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

// RowToEvent decodes a row selected by PendingQuery.
func RowToEvent(row *spanner.Row) (*Event, error) {
	var (
		event   Event
		payload spanner.NullJSON
	)
	if err := row.Columns(&event.EventID, &event.EventType, &event.AggregateID, &payload, &event.RetryCount, &event.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse outbox row: %w", err)
	}
	if payload.Valid {
		raw, err := json.Marshal(payload.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode payload of %s: %w", event.EventID, err)
		}
		event.Payload = raw
	}
	return &event, nil
}

// MarkProcessed implements Source.
func (s *SpannerSource) MarkProcessed(ctx context.Context, eventID string, at time.Time) error {
	_, err := s.client.Apply(ctx, []*spanner.Mutation{s.model.MarkProcessedMut(eventID, at)})
	return err
}

// MarkFailed implements Source.
func (s *SpannerSource) MarkFailed(ctx context.Context, eventID string, retryCount int64, reason string) error {
	_, err := s.client.Apply(ctx, []*spanner.Mutation{s.model.MarkFailedMut(eventID, retryCount, reason)})
	return err
}

// purgeWhere matches completed and failed events processed before their cutoffs.
const purgeWhere = `WHERE (` + m_outbox.Status + ` = @completed AND ` + m_outbox.ProcessedAt + ` < @completedCutoff)
   OR (` + m_outbox.Status + ` = @failed AND ` + m_outbox.ProcessedAt + ` < @failedCutoff)`

func purgeParams(completedCutoff, failedCutoff time.Time) map[string]interface{} {
	return map[string]interface{}{
		"completed":       m_outbox.StatusCompleted,
		"failed":          m_outbox.StatusFailed,
		"completedCutoff": completedCutoff,
		"failedCutoff":    failedCutoff,
	}
}

// CountPurgeable reports, per status, how many events Purge would delete.
func (s *SpannerSource) CountPurgeable(ctx context.Context, completedCutoff, failedCutoff time.Time) (map[string]int64, error) {
	stmt := spanner.Statement{
		SQL:    "SELECT " + m_outbox.Status + ", COUNT(*) FROM " + m_outbox.TableName + " " + purgeWhere + " GROUP BY " + m_outbox.Status,
		Params: purgeParams(completedCutoff, failedCutoff),
	}

	iter := s.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	counts := make(map[string]int64)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			return counts, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to count events: %w", err)
		}
		var (
			status string
			count  int64
		)
		if err := row.Columns(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to parse row: %w", err)
		}
		counts[status] = count
	}
}

// Purge deletes completed and failed events older than their cutoffs.
func (s *SpannerSource) Purge(ctx context.Context, completedCutoff, failedCutoff time.Time) (int64, error) {
	stmt := spanner.Statement{
		SQL:    "DELETE FROM " + m_outbox.TableName + " " + purgeWhere,
		Params: purgeParams(completedCutoff, failedCutoff),
	}
	return s.client.PartitionedUpdate(ctx, stmt)
}
