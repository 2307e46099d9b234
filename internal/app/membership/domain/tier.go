package domain

import (
	"math"
	"math/big"
)

// MemberTier identifies a membership bracket.
type MemberTier string

const (
	TierBronze   MemberTier = "BRONZE"
	TierSilver   MemberTier = "SILVER"
	TierGold     MemberTier = "GOLD"
	TierPlatinum MemberTier = "PLATINUM"
	TierDiamond  MemberTier = "DIAMOND"
	TierElite    MemberTier = "ELITE"
	TierRoyal    MemberTier = "ROYAL"
	TierLegend   MemberTier = "LEGEND"
)

// TierInfo holds the static attributes of a tier.
type TierInfo struct {
	Tier            MemberTier
	Name            string
	MinSpent        int64
	DiscountPercent int64
}

// tierTable is ordered by ascending MinSpent. Resolution scans it from the end.
var tierTable = [...]TierInfo{
	{Tier: TierBronze, Name: "Bronze", MinSpent: 0, DiscountPercent: 0},
	{Tier: TierSilver, Name: "Silver", MinSpent: 1000, DiscountPercent: 2},
	{Tier: TierGold, Name: "Gold", MinSpent: 3000, DiscountPercent: 4},
	{Tier: TierPlatinum, Name: "Platinum", MinSpent: 7000, DiscountPercent: 6},
	{Tier: TierDiamond, Name: "Diamond", MinSpent: 15000, DiscountPercent: 8},
	{Tier: TierElite, Name: "Elite", MinSpent: 30000, DiscountPercent: 10},
	{Tier: TierRoyal, Name: "Royal", MinSpent: 60000, DiscountPercent: 12},
	{Tier: TierLegend, Name: "Legend", MinSpent: 100000, DiscountPercent: 15},
}

// Tiers returns a copy of the tier table in ascending order.
func Tiers() []TierInfo {
	out := make([]TierInfo, len(tierTable))
	copy(out, tierTable[:])
	return out
}

// LookupTier returns the static attributes for tier.
func LookupTier(tier MemberTier) (TierInfo, bool) {
	for _, info := range tierTable {
		if info.Tier == tier {
			return info, true
		}
	}
	return TierInfo{}, false
}

// ParseTier converts a tier name to a MemberTier.
func ParseTier(s string) (MemberTier, error) {
	if _, ok := LookupTier(MemberTier(s)); !ok {
		return "", ErrUnknownTier
	}
	return MemberTier(s), nil
}

// ResolveTier returns the highest tier whose threshold does not exceed
// totalSpent. Thresholds are inclusive. Nil or negative spend resolves to BRONZE.
func ResolveTier(totalSpent *Money) MemberTier {
	if totalSpent == nil || totalSpent.IsNegative() {
		return TierBronze
	}
	for i := len(tierTable) - 1; i >= 0; i-- {
		if totalSpent.rat.Cmp(new(big.Rat).SetInt64(tierTable[i].MinSpent)) >= 0 {
			return tierTable[i].Tier
		}
	}
	return TierBronze
}

// ResolveTierFromFloat is ResolveTier for callers holding a float spend.
// NaN and infinities resolve to BRONZE.
func ResolveTierFromFloat(totalSpent float64) MemberTier {
	if math.IsNaN(totalSpent) || math.IsInf(totalSpent, 0) {
		return TierBronze
	}
	m, err := MoneyFromFloat(totalSpent)
	if err != nil {
		return TierBronze
	}
	return ResolveTier(m)
}

// DiscountForTier returns the tier's discount percent, or 0 for an unknown tier.
func DiscountForTier(tier MemberTier) int64 {
	info, ok := LookupTier(tier)
	if !ok {
		return 0
	}
	return info.DiscountPercent
}

// ComputeTierDiscountAmount returns subtotal * percent / 100 for the tier
// resolved from totalSpent, rounded half-up to whole currency units.
// A nil or negative subtotal earns no discount.
func ComputeTierDiscountAmount(subtotal, totalSpent *Money) *Money {
	if subtotal == nil || subtotal.IsNegative() {
		return Zero()
	}
	percent := DiscountForTier(ResolveTier(totalSpent))
	return subtotal.Percent(percent).RoundHalfUp()
}

// NextTier returns the tier directly above tier. ok is false at the top.
func NextTier(tier MemberTier) (next MemberTier, ok bool) {
	for i, info := range tierTable {
		if info.Tier == tier && i+1 < len(tierTable) {
			return tierTable[i+1].Tier, true
		}
	}
	return "", false
}

// TierProgress describes how far a member is from the next tier.
type TierProgress struct {
	Current   TierInfo
	Next      *TierInfo
	Remaining *Money
	// Percent is progress through the current bracket, 0..100.
	Percent int64
}

// ProgressToNextTier reports the current tier, the next one and how much
// more spend unlocks it. At the top tier Next is nil and Percent is 100.
func ProgressToNextTier(totalSpent *Money) TierProgress {
	if totalSpent == nil || totalSpent.IsNegative() {
		totalSpent = Zero()
	}
	current, _ := LookupTier(ResolveTier(totalSpent))

	nextTier, ok := NextTier(current.Tier)
	if !ok {
		return TierProgress{Current: current, Remaining: Zero(), Percent: 100}
	}
	next, _ := LookupTier(nextTier)

	threshold := Units(next.MinSpent)
	remaining := threshold.Subtract(totalSpent)

	span := big.NewRat(next.MinSpent-current.MinSpent, 1)
	done := new(big.Rat).Sub(totalSpent.rat, big.NewRat(current.MinSpent, 1))
	pct := new(big.Rat).Quo(done, span)
	pct.Mul(pct, big.NewRat(100, 1))
	// floored; 100 is reserved for the top tier
	floor := new(big.Int).Div(pct.Num(), pct.Denom())

	return TierProgress{
		Current:   current,
		Next:      &next,
		Remaining: remaining,
		Percent:   floor.Int64(),
	}
}
