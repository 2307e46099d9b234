package quote_checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/contracts"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/domain"
)

// ErrEmptyCart is returned when a quote is requested with no lines.
var ErrEmptyCart = errors.New("cart is empty")

// Line is one cart entry.
type Line struct {
	ProductID string
	Quantity  int64
}

// Request contains the cart to price.
type Request struct {
	UserID       string
	Lines        []Line
	PromoPercent int64
}

// Result is the priced cart.
type Result struct {
	*domain.Quote
	RewardPoints int64
}

// Query prices a cart for a user, applying promo and membership discounts.
type Query struct {
	spend      contracts.SpendReader
	catalog    contracts.CatalogReader
	calculator *domain.PricingCalculator
}

// NewQuery creates a new quote checkout query.
func NewQuery(spend contracts.SpendReader, catalog contracts.CatalogReader) *Query {
	return &Query{
		spend:      spend,
		catalog:    catalog,
		calculator: domain.NewPricingCalculator(),
	}
}

// Execute computes the subtotal from catalog prices, then the quote and cart points.
func (q *Query) Execute(ctx context.Context, req *Request) (*Result, error) {
	if len(req.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	subtotal := domain.Zero()
	cart := make([]domain.CartLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		pricing, err := q.catalog.ProductPricing(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to load product %s: %w", line.ProductID, err)
		}
		subtotal = subtotal.Add(pricing.Price.MultiplyByInt(line.Quantity))
		cart = append(cart, domain.CartLine{Product: pricing, Quantity: line.Quantity})
	}

	total, err := q.spend.CompletedSpend(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed spend: %w", err)
	}

	quote, err := q.calculator.Quote(subtotal, req.PromoPercent, total)
	if err != nil {
		return nil, err
	}

	points, err := domain.CartPoints(cart)
	if err != nil {
		return nil, err
	}

	return &Result{Quote: quote, RewardPoints: points}, nil
}
