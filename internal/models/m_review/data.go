package m_review

import "time"

// Data represents the database model for the reviews table.
type Data struct {
	ReviewID   string    `spanner:"review_id"`
	ProductID  string    `spanner:"product_id"`
	UserID     string    `spanner:"user_id"`
	Rating     int64     `spanner:"rating"`
	Comment    string    `spanner:"comment"`
	IsVerified bool      `spanner:"is_verified"`
	CreatedAt  time.Time `spanner:"created_at"`
	UpdatedAt  time.Time `spanner:"updated_at"`
}
