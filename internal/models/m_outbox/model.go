package m_outbox

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the outbox_events table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting an outbox event.
// created_at is the commit timestamp of the enclosing transaction.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		[]string{
			EventID,
			EventType,
			AggregateID,
			Payload,
			Status,
			CreatedAt,
			RetryCount,
		},
		[]interface{}{
			data.EventID,
			data.EventType,
			data.AggregateID,
			data.Payload,
			data.Status,
			spanner.CommitTimestamp,
			data.RetryCount,
		},
	)
}

// MarkProcessedMut marks an event as completed at processedAt.
func (m *Model) MarkProcessedMut(eventID string, processedAt time.Time) *spanner.Mutation {
	return spanner.Update(
		TableName,
		[]string{EventID, Status, ProcessedAt},
		[]interface{}{eventID, StatusCompleted, processedAt},
	)
}

// MarkFailedMut records a delivery failure and bumps the retry count.
func (m *Model) MarkFailedMut(eventID string, retryCount int64, reason string) *spanner.Mutation {
	return spanner.Update(
		TableName,
		[]string{EventID, Status, RetryCount, ErrorMessage},
		[]interface{}{eventID, StatusFailed, retryCount, reason},
	)
}
