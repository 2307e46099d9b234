// Package presenter shapes use case results into plain maps shared by the
// gRPC and HTTP transports, and classifies errors for both.
package presenter

import (
	"time"

	mdomain "github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/domain"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/queries/get_membership"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/queries/quote_checkout"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/contracts"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/queries/review_eligibility"
)

// Object is a JSON-compatible document. Numbers are int64 or float64,
// money is a two-decimal string and times are RFC 3339.
type Object = map[string]interface{}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func money(m *mdomain.Money) interface{} {
	if m == nil {
		return nil
	}
	return m.String()
}

// Review renders a review with its author.
func Review(r *contracts.ReviewWithUser) Object {
	var avatar interface{}
	if r.User.Avatar != nil {
		avatar = *r.User.Avatar
	}
	return Object{
		"review_id":   r.ReviewID,
		"product_id":  r.ProductID,
		"user_id":     r.UserID,
		"rating":      r.Rating,
		"comment":     r.Comment,
		"is_verified": r.IsVerified,
		"created_at":  timestamp(r.CreatedAt),
		"updated_at":  timestamp(r.UpdatedAt),
		"user": Object{
			"id":       r.User.ID,
			"username": r.User.Username,
			"avatar":   avatar,
		},
	}
}

// ReviewList renders a page of reviews with the product's rating summary.
func ReviewList(res *contracts.ListResult) Object {
	reviews := make([]interface{}, 0, len(res.Reviews))
	for _, r := range res.Reviews {
		reviews = append(reviews, Review(r))
	}
	return Object{
		"reviews":        reviews,
		"average_rating": res.AverageRating,
		"total_count":    res.TotalCount,
	}
}

// Eligibility renders a review eligibility check.
func Eligibility(productID, userID string, res *review_eligibility.Result) Object {
	return Object{
		"product_id": productID,
		"user_id":    userID,
		"state":      string(res.State),
		"can_submit": res.CanSubmit,
	}
}

func tierInfo(info mdomain.TierInfo) Object {
	return Object{
		"tier":             string(info.Tier),
		"name":             info.Name,
		"min_spent":        info.MinSpent,
		"discount_percent": info.DiscountPercent,
	}
}

// Tiers renders the static tier table.
func Tiers() Object {
	tiers := make([]interface{}, 0)
	for _, info := range mdomain.Tiers() {
		tiers = append(tiers, tierInfo(info))
	}
	return Object{"tiers": tiers}
}

// Membership renders a member's tier and progress.
func Membership(res *get_membership.Result) Object {
	var next interface{}
	if res.NextTier != nil {
		next = tierInfo(*res.NextTier)
	}
	return Object{
		"user_id":          res.UserID,
		"total_spent":      money(res.TotalSpent),
		"tier":             string(res.Tier),
		"tier_name":        res.TierName,
		"discount_percent": res.DiscountPercent,
		"next_tier":        next,
		"remaining_spend":  money(res.RemainingSpend),
		"progress_percent": res.ProgressPercent,
	}
}

// Quote renders a priced cart.
func Quote(res *quote_checkout.Result) Object {
	return Object{
		"subtotal":              money(res.Subtotal),
		"promo_percent":         res.PromoPercent,
		"promo_discount":        money(res.PromoDiscount),
		"tier":                  string(res.Tier),
		"tier_discount_percent": res.TierDiscountPercent,
		"tier_discount":         money(res.TierDiscount),
		"total":                 money(res.Total),
		"reward_points":         res.RewardPoints,
	}
}
