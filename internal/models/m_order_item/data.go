package m_order_item

// Data represents one line of an order.
type Data struct {
	OrderID              string `spanner:"order_id"`
	ProductID            string `spanner:"product_id"`
	Quantity             int64  `spanner:"quantity"`
	UnitPriceNumerator   int64  `spanner:"unit_price_numerator"`
	UnitPriceDenominator int64  `spanner:"unit_price_denominator"`
}
