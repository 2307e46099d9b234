package m_review

// Field name constants for the reviews table.
const (
	TableName = "reviews"

	// UniquePairIndex enforces one review per (product_id, user_id).
	UniquePairIndex = "reviews_product_user_idx"

	ReviewID   = "review_id"
	ProductID  = "product_id"
	UserID     = "user_id"
	Rating     = "rating"
	Comment    = "comment"
	IsVerified = "is_verified"
	CreatedAt  = "created_at"
	UpdatedAt  = "updated_at"
)
