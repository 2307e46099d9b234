package m_outbox

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the outbox_events table.
type Data struct {
	EventID      string             `spanner:"event_id"`
	EventType    string             `spanner:"event_type"`
	AggregateID  string             `spanner:"aggregate_id"`
	Payload      spanner.NullJSON   `spanner:"payload"`
	Status       string             `spanner:"status"`
	CreatedAt    time.Time          `spanner:"created_at"`
	ProcessedAt  spanner.NullTime   `spanner:"processed_at"`
	RetryCount   int64              `spanner:"retry_count"`
	ErrorMessage spanner.NullString `spanner:"error_message"`
}

// NewData builds a pending row. payload must be a JSON document; an empty
// payload is stored as NULL.
func NewData(eventID, eventType, aggregateID, payload string) *Data {
	return &Data{
		EventID:     eventID,
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     spanner.NullJSON{Value: jsonValue(payload), Valid: payload != ""},
		Status:      StatusPending,
	}
}

// jsonValue wraps the raw document so the client sends it unchanged
// instead of re-encoding it as a JSON string.
func jsonValue(payload string) interface{} {
	if payload == "" {
		return nil
	}
	return rawJSON(payload)
}

type rawJSON string

func (r rawJSON) MarshalJSON() ([]byte, error) {
	return []byte(r), nil
}
