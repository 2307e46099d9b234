package m_product

// Field name constants for the products table.
const (
	TableName = "products"

	ProductID        = "product_id"
	Name             = "name"
	PriceNumerator   = "price_numerator"
	PriceDenominator = "price_denominator"
	RewardPoints     = "reward_points"
	CreatedAt        = "created_at"
	UpdatedAt        = "updated_at"
)
