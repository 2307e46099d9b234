package review_eligibility

import (
	"context"
	"fmt"

	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/contracts"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/domain"
)

// Request identifies the (user, product) pair.
type Request struct {
	ProductID string
	UserID    string
}

// Result reports the pair's review state.
type Result struct {
	State     domain.Eligibility
	CanSubmit bool
}

// Query reports whether a user may review a product, without mutating anything.
type Query struct {
	readModel contracts.ReadModel
}

// NewQuery creates a new review eligibility query.
func NewQuery(readModel contracts.ReadModel) *Query {
	return &Query{readModel: readModel}
}

// Execute resolves NOT_PURCHASED, PURCHASED_NO_REVIEW or REVIEWED.
func (q *Query) Execute(ctx context.Context, req *Request) (*Result, error) {
	exists, err := q.readModel.ProductExists(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if !exists {
		return nil, domain.ErrProductNotFound
	}

	reviewed, err := q.readModel.ReviewExists(ctx, req.ProductID, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}

	purchased := false
	if !reviewed {
		purchased, err = q.readModel.HasCompletedPurchase(ctx, req.UserID, req.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to check purchase history: %w", err)
		}
	}

	state := domain.ResolveEligibility(reviewed, purchased)
	return &Result{State: state, CanSubmit: state.CanSubmit()}, nil
}
