package domain

// PricingCalculator combines promo and membership discounts into a checkout total.
type PricingCalculator struct{}

// NewPricingCalculator creates a new PricingCalculator instance.
func NewPricingCalculator() *PricingCalculator {
	return &PricingCalculator{}
}

// Quote is the breakdown of a checkout total.
type Quote struct {
	Subtotal            *Money
	PromoPercent        int64
	PromoDiscount       *Money
	Tier                MemberTier
	TierDiscountPercent int64
	TierDiscount        *Money
	Total               *Money
}

// Quote computes total = max(0, subtotal - promoDiscount - tierDiscount).
// Both discounts are taken from the subtotal and rounded half-up to whole units.
func (pc *PricingCalculator) Quote(subtotal *Money, promoPercent int64, totalSpent *Money) (*Quote, error) {
	if subtotal == nil || subtotal.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if promoPercent < 0 || promoPercent > 100 {
		return nil, ErrInvalidPercent
	}

	tier := ResolveTier(totalSpent)
	promo := subtotal.Percent(promoPercent).RoundHalfUp()
	tierDiscount := ComputeTierDiscountAmount(subtotal, totalSpent)

	total := subtotal.Subtract(promo).Subtract(tierDiscount).Max(Zero())

	return &Quote{
		Subtotal:            subtotal.Copy(),
		PromoPercent:        promoPercent,
		PromoDiscount:       promo,
		Tier:                tier,
		TierDiscountPercent: DiscountForTier(tier),
		TierDiscount:        tierDiscount,
		Total:               total,
	}, nil
}
