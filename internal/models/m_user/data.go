package m_user

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the users table.
type Data struct {
	UserID    string             `spanner:"user_id"`
	Username  string             `spanner:"username"`
	Avatar    spanner.NullString `spanner:"avatar"`
	Role      string             `spanner:"role"`
	CreatedAt time.Time          `spanner:"created_at"`
}
