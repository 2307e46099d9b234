package m_order

// Field name constants for the orders table.
const (
	TableName = "orders"

	OrderID          = "order_id"
	UserID           = "user_id"
	Status           = "status"
	TotalNumerator   = "total_numerator"
	TotalDenominator = "total_denominator"
	CreatedAt        = "created_at"
)

// Order status constants. Only completed orders count toward spend and
// review eligibility.
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
	StatusRefunded  = "REFUNDED"
)
