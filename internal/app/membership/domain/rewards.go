package domain

import "math"

// RewardPointsSource is anything that carries a per-unit reward point payout.
// A nil result means the product awards no points.
type RewardPointsSource interface {
	RewardPoints() *int64
}

// ExpectedPoints returns the product's reward points when strictly positive,
// otherwise 0. The value is per unit and never scaled by price or quantity.
func ExpectedPoints(p RewardPointsSource) int64 {
	if p == nil {
		return 0
	}
	points := p.RewardPoints()
	if points == nil || *points <= 0 {
		return 0
	}
	return *points
}

// CartLine is one cart entry for point aggregation.
type CartLine struct {
	Product  RewardPointsSource
	Quantity int64
}

// CartPoints sums ExpectedPoints times quantity across lines. A total that
// does not fit in an int64 is rejected with ErrPointsOverflow.
func CartPoints(lines []CartLine) (int64, error) {
	var total int64
	for _, line := range lines {
		if line.Quantity <= 0 {
			return 0, ErrInvalidQuantity
		}
		points := ExpectedPoints(line.Product)
		if points > math.MaxInt64/line.Quantity {
			return 0, ErrPointsOverflow
		}
		linePoints := points * line.Quantity
		if total > math.MaxInt64-linePoints {
			return 0, ErrPointsOverflow
		}
		total += linePoints
	}
	return total, nil
}

// StaticPoints adapts a plain nullable value to RewardPointsSource.
type StaticPoints struct {
	Points *int64
}

func (s StaticPoints) RewardPoints() *int64 {
	return s.Points
}
