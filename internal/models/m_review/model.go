package m_review

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the reviews table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// Columns lists every column in Data order.
func (m *Model) Columns() []string {
	return []string{ReviewID, ProductID, UserID, Rating, Comment, IsVerified, CreatedAt, UpdatedAt}
}

// InsertMut creates a Spanner mutation for inserting a review.
// Timestamps come from the domain clock so the response matches the row.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		m.Columns(),
		[]interface{}{
			data.ReviewID,
			data.ProductID,
			data.UserID,
			data.Rating,
			data.Comment,
			data.IsVerified,
			data.CreatedAt,
			data.UpdatedAt,
		},
	)
}

// UpdateMut creates a Spanner mutation for updating specific review fields.
func (m *Model) UpdateMut(reviewID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	columns := make([]string, 0, len(updates)+1)
	values := make([]interface{}, 0, len(updates)+1)

	columns = append(columns, ReviewID)
	values = append(values, reviewID)

	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}

	return spanner.Update(TableName, columns, values)
}

// DeleteMut creates a Spanner mutation for deleting a review (hard delete).
func (m *Model) DeleteMut(reviewID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{reviewID})
}
