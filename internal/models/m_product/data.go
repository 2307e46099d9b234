package m_product

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the products table.
// Price is stored as an exact fraction.
type Data struct {
	ProductID        string            `spanner:"product_id"`
	Name             string            `spanner:"name"`
	PriceNumerator   int64             `spanner:"price_numerator"`
	PriceDenominator int64             `spanner:"price_denominator"`
	RewardPoints     spanner.NullInt64 `spanner:"reward_points"`
	CreatedAt        time.Time         `spanner:"created_at"`
	UpdatedAt        time.Time         `spanner:"updated_at"`
}
