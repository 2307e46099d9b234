package contracts

import (
	"context"
	"time"

	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/domain"
)

// ReviewWithUser is a review merged with its author's public profile.
type ReviewWithUser struct {
	ReviewID   string
	ProductID  string
	UserID     string
	Rating     int64
	Comment    string
	IsVerified bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
	User       domain.UserPublic
}

// NewReviewWithUser merges a review and its author. A missing profile
// falls back to the bare user ID.
func NewReviewWithUser(r *domain.Review, user *domain.UserPublic) *ReviewWithUser {
	out := &ReviewWithUser{
		ReviewID:   r.ID(),
		ProductID:  r.ProductID(),
		UserID:     r.UserID(),
		Rating:     r.Rating(),
		Comment:    r.Comment(),
		IsVerified: r.IsVerified(),
		CreatedAt:  r.CreatedAt(),
		UpdatedAt:  r.UpdatedAt(),
		User:       domain.UserPublic{ID: r.UserID()},
	}
	if user != nil {
		out.User = *user
	}
	return out
}

// ListFilter selects reviews for one product.
type ListFilter struct {
	ProductID string
	Limit     int64
}

// ListResult holds a page of reviews and the product's aggregate rating.
type ListResult struct {
	Reviews       []*ReviewWithUser
	AverageRating float64
	TotalCount    int64
}

// ReadModel serves review queries outside the write transaction.
type ReadModel interface {
	ProductExists(ctx context.Context, productID string) (bool, error)
	ReviewExists(ctx context.Context, productID, userID string) (bool, error)
	HasCompletedPurchase(ctx context.Context, userID, productID string) (bool, error)

	// ListReviews returns reviews newest first, with the average and count
	// computed over all of the product's reviews.
	ListReviews(ctx context.Context, filter *ListFilter) (*ListResult, error)
}
