package list_reviews

import (
	"context"
	"fmt"

	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/contracts"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/domain"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Request selects a product's reviews.
type Request struct {
	ProductID string
	Limit     int64
}

// Query lists a product's reviews, newest first.
type Query struct {
	readModel contracts.ReadModel
}

// NewQuery creates a new list reviews query.
func NewQuery(readModel contracts.ReadModel) *Query {
	return &Query{readModel: readModel}
}

// Execute returns up to Limit reviews (default 20, max 100) with the
// product's average rating and review count.
func (q *Query) Execute(ctx context.Context, req *Request) (*contracts.ListResult, error) {
	exists, err := q.readModel.ProductExists(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if !exists {
		return nil, domain.ErrProductNotFound
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return q.readModel.ListReviews(ctx, &contracts.ListFilter{
		ProductID: req.ProductID,
		Limit:     limit,
	})
}
