package domain

import "time"

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	EventType() string
	AggregateID() string
}

// ReviewSubmittedEvent is emitted when a verified purchaser reviews a product.
type ReviewSubmittedEvent struct {
	ReviewID    string    `json:"review_id"`
	ProductID   string    `json:"product_id"`
	UserID      string    `json:"user_id"`
	Rating      int64     `json:"rating"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func (e *ReviewSubmittedEvent) EventType() string {
	return "review.submitted"
}

func (e *ReviewSubmittedEvent) AggregateID() string {
	return e.ReviewID
}

// ReviewUpdatedEvent is emitted when an owner edits their review.
type ReviewUpdatedEvent struct {
	ReviewID  string    `json:"review_id"`
	ProductID string    `json:"product_id"`
	Fields    []string  `json:"fields"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *ReviewUpdatedEvent) EventType() string {
	return "review.updated"
}

func (e *ReviewUpdatedEvent) AggregateID() string {
	return e.ReviewID
}

// ReviewDeletedEvent is emitted when a review is removed.
type ReviewDeletedEvent struct {
	ReviewID  string    `json:"review_id"`
	ProductID string    `json:"product_id"`
	DeletedBy string    `json:"deleted_by"`
	ByAdmin   bool      `json:"by_admin"`
	DeletedAt time.Time `json:"deleted_at"`
}

func (e *ReviewDeletedEvent) EventType() string {
	return "review.deleted"
}

func (e *ReviewDeletedEvent) AggregateID() string {
	return e.ReviewID
}
