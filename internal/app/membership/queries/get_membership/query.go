package get_membership

import (
	"context"
	"fmt"

	"github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/contracts"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/domain"
)

// Request contains the member to report on.
type Request struct {
	UserID string
}

// Result is the membership panel for one user.
type Result struct {
	UserID          string
	TotalSpent      *domain.Money
	Tier            domain.MemberTier
	TierName        string
	DiscountPercent int64
	NextTier        *domain.TierInfo
	RemainingSpend  *domain.Money
	ProgressPercent int64
}

// Query resolves a user's current tier from completed spend.
type Query struct {
	spend contracts.SpendReader
}

// NewQuery creates a new get membership query.
func NewQuery(spend contracts.SpendReader) *Query {
	return &Query{spend: spend}
}

// Execute derives the tier on every call; nothing is persisted.
func (q *Query) Execute(ctx context.Context, req *Request) (*Result, error) {
	total, err := q.spend.CompletedSpend(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed spend: %w", err)
	}

	progress := domain.ProgressToNextTier(total)

	return &Result{
		UserID:          req.UserID,
		TotalSpent:      total,
		Tier:            progress.Current.Tier,
		TierName:        progress.Current.Name,
		DiscountPercent: progress.Current.DiscountPercent,
		NextTier:        progress.Next,
		RemainingSpend:  progress.Remaining,
		ProgressPercent: progress.Percent,
	}, nil
}
