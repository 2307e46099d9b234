package m_user

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the users table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// PublicColumns are the profile columns shown next to a review.
func (m *Model) PublicColumns() []string {
	return []string{UserID, Username, Avatar}
}

// InsertMut creates a Spanner mutation for upserting a user.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	role := data.Role
	if role == "" {
		role = RoleUser
	}
	return spanner.InsertOrUpdate(
		TableName,
		[]string{UserID, Username, Avatar, Role, CreatedAt},
		[]interface{}{data.UserID, data.Username, data.Avatar, role, spanner.CommitTimestamp},
	)
}
