package contracts

import (
	"encoding/json"
	"fmt"

	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/domain"
)

// Outbox statuses
const (
	OutboxPending   = "pending"
	OutboxCompleted = "completed"
	OutboxFailed    = "failed"
)

// OutboxEvent represents an enriched domain event ready for persistence.
type OutboxEvent struct {
	EventID     string
	EventType   string
	AggregateID string
	Payload     string // JSON
	Status      string
}

// EnrichEvent serializes a domain event into a pending outbox row.
func EnrichEvent(eventID string, event domain.DomainEvent) (*OutboxEvent, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s event: %w", event.EventType(), err)
	}
	return &OutboxEvent{
		EventID:     eventID,
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		Payload:     string(data),
		Status:      OutboxPending,
	}, nil
}
