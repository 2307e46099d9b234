package contracts

import (
	"context"
	"errors"

	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/domain"
)

var (
	// ErrNotFound is returned by store lookups when the row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateReview is returned when a write violates the unique
	// (product_id, user_id) constraint on reviews, at insert or at commit.
	ErrDuplicateReview = errors.New("duplicate review for product and user")
)

// ProductSummary is the part of a product the review workflow reads.
type ProductSummary struct {
	ProductID string
	Name      string
}

// ReviewTx is the set of operations available inside one store transaction.
// Reads observe the transaction's snapshot; writes become visible on commit.
type ReviewTx interface {
	FindProduct(ctx context.Context, productID string) (*ProductSummary, error)

	// FindReview looks a review up by its (product, user) pair.
	FindReview(ctx context.Context, productID, userID string) (*domain.Review, error)

	// FindCompletedOrderWithItem returns the ID of a COMPLETED order owned by
	// userID that contains productID.
	FindCompletedOrderWithItem(ctx context.Context, userID, productID string) (string, error)

	InsertReview(ctx context.Context, review *domain.Review) error
	FindUserPublic(ctx context.Context, userID string) (*domain.UserPublic, error)
	FindReviewByID(ctx context.Context, reviewID string) (*domain.Review, error)

	// UpdateReview persists the fields marked dirty on the review.
	UpdateReview(ctx context.Context, review *domain.Review) error
	DeleteReview(ctx context.Context, reviewID string) error

	InsertOutboxEvent(ctx context.Context, event *OutboxEvent) error
}

// ReviewStore runs review transactions. fn may be invoked more than once if
// the backend retries aborted transactions; errors returned by fn are passed
// back unchanged.
type ReviewStore interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx ReviewTx) error) error
}
