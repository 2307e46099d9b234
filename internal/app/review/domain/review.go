package domain

import (
	"strings"
	"time"
)

// Field names for change tracking
const (
	FieldRating    = "rating"
	FieldComment   = "comment"
	FieldUpdatedAt = "updated_at"
)

const (
	MinRating int64 = 1
	MaxRating int64 = 5
)

// Review is a verified-purchase product review. At most one exists per
// (product, user) pair.
type Review struct {
	id         string
	productID  string
	userID     string
	rating     int64
	comment    string
	isVerified bool
	createdAt  time.Time
	updatedAt  time.Time

	changes *ChangeTracker
	events  []DomainEvent
}

// NewReview creates a review for a purchaser. Purchase has already been
// confirmed by the caller, so the review is always verified.
func NewReview(id, productID, userID string, rating int64, comment string, now time.Time) (*Review, error) {
	if id == "" || productID == "" || userID == "" {
		return nil, ErrMissingID
	}
	if err := ValidateRating(rating); err != nil {
		return nil, err
	}
	comment, err := NormalizeComment(comment)
	if err != nil {
		return nil, err
	}

	r := &Review{
		id:         id,
		productID:  productID,
		userID:     userID,
		rating:     rating,
		comment:    comment,
		isVerified: true,
		createdAt:  now,
		updatedAt:  now,
		changes:    NewChangeTracker(),
	}

	r.recordEvent(&ReviewSubmittedEvent{
		ReviewID:    r.id,
		ProductID:   r.productID,
		UserID:      r.userID,
		Rating:      r.rating,
		SubmittedAt: now,
	})

	return r, nil
}

// ReconstructReview reconstitutes a Review loaded from storage.
func ReconstructReview(
	id, productID, userID string,
	rating int64,
	comment string,
	isVerified bool,
	createdAt, updatedAt time.Time,
) *Review {
	return &Review{
		id:         id,
		productID:  productID,
		userID:     userID,
		rating:     rating,
		comment:    comment,
		isVerified: isVerified,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
		changes:    NewChangeTracker(),
	}
}

// Getters
func (r *Review) ID() string              { return r.id }
func (r *Review) ProductID() string       { return r.productID }
func (r *Review) UserID() string          { return r.userID }
func (r *Review) Rating() int64           { return r.rating }
func (r *Review) Comment() string         { return r.comment }
func (r *Review) IsVerified() bool        { return r.isVerified }
func (r *Review) CreatedAt() time.Time    { return r.createdAt }
func (r *Review) UpdatedAt() time.Time    { return r.updatedAt }
func (r *Review) Changes() *ChangeTracker { return r.changes }

// DomainEvents returns the events recorded since the review was built or loaded.
func (r *Review) DomainEvents() []DomainEvent { return r.events }

// IsOwnedBy reports whether userID wrote the review.
func (r *Review) IsOwnedBy(userID string) bool {
	return r.userID == userID
}

// CanBeDeletedBy reports whether the caller may delete the review.
func (r *Review) CanBeDeletedBy(userID string, isAdmin bool) bool {
	return isAdmin || r.IsOwnedBy(userID)
}

// Patch holds optional new values for a review.
type Patch struct {
	Rating  *int64
	Comment *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Rating == nil && p.Comment == nil
}

// ApplyPatch applies the owner's partial update. Fields left nil are kept.
func (r *Review) ApplyPatch(userID string, patch Patch, now time.Time) error {
	if !r.IsOwnedBy(userID) {
		return ErrNotReviewOwner
	}
	if patch.IsEmpty() {
		return ErrEmptyPatch
	}

	// validate everything before touching state
	var comment string
	if patch.Rating != nil {
		if err := ValidateRating(*patch.Rating); err != nil {
			return err
		}
	}
	if patch.Comment != nil {
		c, err := NormalizeComment(*patch.Comment)
		if err != nil {
			return err
		}
		comment = c
	}

	fields := make([]string, 0, 2)
	if patch.Rating != nil {
		r.rating = *patch.Rating
		r.changes.MarkDirty(FieldRating)
		fields = append(fields, FieldRating)
	}
	if patch.Comment != nil {
		r.comment = comment
		r.changes.MarkDirty(FieldComment)
		fields = append(fields, FieldComment)
	}
	r.updatedAt = now
	r.changes.MarkDirty(FieldUpdatedAt)

	r.recordEvent(&ReviewUpdatedEvent{
		ReviewID:  r.id,
		ProductID: r.productID,
		Fields:    fields,
		UpdatedAt: now,
	})
	return nil
}

// MarkDeleted records the deletion event. The row itself is removed by the store.
func (r *Review) MarkDeleted(userID string, isAdmin bool, now time.Time) error {
	if !r.CanBeDeletedBy(userID, isAdmin) {
		return ErrNotReviewOwner
	}
	r.recordEvent(&ReviewDeletedEvent{
		ReviewID:  r.id,
		ProductID: r.productID,
		DeletedBy: userID,
		ByAdmin:   isAdmin && !r.IsOwnedBy(userID),
		DeletedAt: now,
	})
	return nil
}

func (r *Review) recordEvent(event DomainEvent) {
	r.events = append(r.events, event)
}

// ValidateRating checks the 1..5 range.
func ValidateRating(rating int64) error {
	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}
	return nil
}

// NormalizeComment trims the comment and rejects blank text.
func NormalizeComment(comment string) (string, error) {
	trimmed := strings.TrimSpace(comment)
	if trimmed == "" {
		return "", ErrEmptyComment
	}
	return trimmed, nil
}

// UserPublic is the reviewer profile shown next to a review.
type UserPublic struct {
	ID       string
	Username string
	Avatar   *string
}

// Eligibility is the review state of a (user, product) pair.
type Eligibility string

const (
	NotPurchased      Eligibility = "NOT_PURCHASED"
	PurchasedNoReview Eligibility = "PURCHASED_NO_REVIEW"
	Reviewed          Eligibility = "REVIEWED"
)

// ResolveEligibility derives the pair's state. An existing review wins over
// purchase history.
func ResolveEligibility(hasReview, hasCompletedPurchase bool) Eligibility {
	switch {
	case hasReview:
		return Reviewed
	case hasCompletedPurchase:
		return PurchasedNoReview
	default:
		return NotPurchased
	}
}

// CanSubmit reports whether a review may be submitted from this state.
func (e Eligibility) CanSubmit() bool {
	return e == PurchasedNoReview
}
