package m_product

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the products table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// Columns lists the columns read by the review and membership stores.
func (m *Model) Columns() []string {
	return []string{ProductID, Name, PriceNumerator, PriceDenominator, RewardPoints}
}

// InsertMut creates a Spanner mutation for upserting a catalog product.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		[]string{
			ProductID,
			Name,
			PriceNumerator,
			PriceDenominator,
			RewardPoints,
			CreatedAt,
			UpdatedAt,
		},
		[]interface{}{
			data.ProductID,
			data.Name,
			data.PriceNumerator,
			data.PriceDenominator,
			data.RewardPoints,
			spanner.CommitTimestamp,
			spanner.CommitTimestamp,
		},
	)
}
