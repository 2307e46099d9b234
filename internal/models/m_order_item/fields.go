package m_order_item

// Field name constants for the order_items table, interleaved in orders.
const (
	TableName = "order_items"

	OrderID              = "order_id"
	ProductID            = "product_id"
	Quantity             = "quantity"
	UnitPriceNumerator   = "unit_price_numerator"
	UnitPriceDenominator = "unit_price_denominator"
)
