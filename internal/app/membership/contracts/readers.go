package contracts

import (
	"context"
	"errors"

	"github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/domain"
)

// ErrProductNotFound is returned by CatalogReader for unknown product IDs.
var ErrProductNotFound = errors.New("product not found")

// SpendReader aggregates a user's lifetime spend.
type SpendReader interface {
	// CompletedSpend returns the sum of totals over the user's COMPLETED orders.
	// A user with no orders has zero spend.
	CompletedSpend(ctx context.Context, userID string) (*domain.Money, error)
}

// ProductPricing is the slice of a product the checkout quote needs.
type ProductPricing struct {
	ProductID string
	Price     *domain.Money
	Points    *int64
}

func (p *ProductPricing) RewardPoints() *int64 {
	return p.Points
}

// CatalogReader loads prices and reward points for products.
type CatalogReader interface {
	ProductPricing(ctx context.Context, productID string) (*ProductPricing, error)
}
