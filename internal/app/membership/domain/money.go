package domain

import (
	"fmt"
	"math/big"
)

// Money represents a monetary value with precise decimal arithmetic using big.Rat.
// Amounts are in whole currency units; fractional parts are kept exactly.
type Money struct {
	rat *big.Rat
}

// NewMoney creates a new Money instance from numerator and denominator.
// Example: NewMoney(249900, 100) represents 2499.00
func NewMoney(numerator, denominator int64) (*Money, error) {
	if denominator <= 0 {
		return nil, ErrInvalidDenominator
	}
	return &Money{rat: big.NewRat(numerator, denominator)}, nil
}

// Units creates a Money value of n whole currency units.
func Units(n int64) *Money {
	return &Money{rat: new(big.Rat).SetInt64(n)}
}

// Zero returns a zero Money value.
func Zero() *Money {
	return &Money{rat: new(big.Rat)}
}

// NewMoneyFromRat creates a new Money instance from a big.Rat.
func NewMoneyFromRat(rat *big.Rat) *Money {
	if rat == nil {
		return Zero()
	}
	return &Money{rat: new(big.Rat).Set(rat)}
}

// ParseMoney parses a decimal string such as "19.99" or a fraction such as "1999/100".
func ParseMoney(s string) (*Money, error) {
	rat, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return &Money{rat: rat}, nil
}

// MoneyFromFloat converts a float to Money. NaN and infinities are rejected.
func MoneyFromFloat(f float64) (*Money, error) {
	rat := new(big.Rat)
	if rat.SetFloat64(f) == nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, f)
	}
	return &Money{rat: rat}, nil
}

// Rat returns a copy of the underlying rational.
func (m *Money) Rat() *big.Rat {
	return new(big.Rat).Set(m.rat)
}

// Numerator returns the numerator of the normalized rational and whether it fits in int64.
func (m *Money) Numerator() (int64, bool) {
	n := m.rat.Num()
	return n.Int64(), n.IsInt64()
}

// Denominator returns the denominator of the normalized rational and whether it fits in int64.
func (m *Money) Denominator() (int64, bool) {
	d := m.rat.Denom()
	return d.Int64(), d.IsInt64()
}

// Add adds two Money values and returns a new Money instance.
func (m *Money) Add(other *Money) *Money {
	return &Money{rat: new(big.Rat).Add(m.rat, other.rat)}
}

// Subtract subtracts another Money value from this one and returns a new Money instance.
func (m *Money) Subtract(other *Money) *Money {
	return &Money{rat: new(big.Rat).Sub(m.rat, other.rat)}
}

// MultiplyByInt multiplies by an integer factor such as a line quantity.
func (m *Money) MultiplyByInt(n int64) *Money {
	return &Money{rat: new(big.Rat).Mul(m.rat, new(big.Rat).SetInt64(n))}
}

// MultiplyByRat multiplies this Money value by a rational number and returns a new Money instance.
func (m *Money) MultiplyByRat(rat *big.Rat) *Money {
	return &Money{rat: new(big.Rat).Mul(m.rat, rat)}
}

// Percent returns m * percent / 100, unrounded.
func (m *Money) Percent(percent int64) *Money {
	return m.MultiplyByRat(big.NewRat(percent, 100))
}

// RoundHalfUp rounds to the nearest whole unit; exact halves round toward
// positive infinity. Computed as floor(m + 1/2).
func (m *Money) RoundHalfUp() *Money {
	num := m.rat.Num()
	den := m.rat.Denom()

	// floor((2*num + den) / (2*den)); big.Int.Div is Euclidean, which is floor for den > 0.
	twoNum := new(big.Int).Lsh(num, 1)
	twoNum.Add(twoNum, den)
	twoDen := new(big.Int).Lsh(den, 1)
	q := new(big.Int).Div(twoNum, twoDen)

	return &Money{rat: new(big.Rat).SetInt(q)}
}

// Max returns the greater of m and other.
func (m *Money) Max(other *Money) *Money {
	if m.rat.Cmp(other.rat) >= 0 {
		return m.Copy()
	}
	return other.Copy()
}

// Cmp compares m and other and returns -1, 0 or +1.
func (m *Money) Cmp(other *Money) int {
	return m.rat.Cmp(other.rat)
}

// IsZero returns true if the money value is zero.
func (m *Money) IsZero() bool {
	return m.rat.Sign() == 0
}

// IsNegative returns true if the money value is negative.
func (m *Money) IsNegative() bool {
	return m.rat.Sign() < 0
}

// IsPositive returns true if the money value is positive.
func (m *Money) IsPositive() bool {
	return m.rat.Sign() > 0
}

// LessThan returns true if this Money value is less than another.
func (m *Money) LessThan(other *Money) bool {
	return m.rat.Cmp(other.rat) < 0
}

// GreaterThan returns true if this Money value is greater than another.
func (m *Money) GreaterThan(other *Money) bool {
	return m.rat.Cmp(other.rat) > 0
}

// Equals returns true if this Money value equals another.
func (m *Money) Equals(other *Money) bool {
	return m.rat.Cmp(other.rat) == 0
}

// Float64 returns an approximate float64 representation (for display only, not calculations).
func (m *Money) Float64() float64 {
	f, _ := m.rat.Float64()
	return f
}

// String returns the value with two decimal places.
func (m *Money) String() string {
	return m.rat.FloatString(2)
}

// Copy creates a deep copy of this Money instance.
func (m *Money) Copy() *Money {
	return &Money{rat: new(big.Rat).Set(m.rat)}
}

// Sum adds up amounts; nil entries are skipped.
func Sum(amounts ...*Money) *Money {
	total := new(big.Rat)
	for _, a := range amounts {
		if a != nil {
			total.Add(total, a.rat)
		}
	}
	return &Money{rat: total}
}
