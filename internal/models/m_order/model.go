package m_order

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the orders table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting an order.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		[]string{OrderID, UserID, Status, TotalNumerator, TotalDenominator, CreatedAt},
		[]interface{}{
			data.OrderID,
			data.UserID,
			data.Status,
			data.TotalNumerator,
			data.TotalDenominator,
			spanner.CommitTimestamp,
		},
	)
}
