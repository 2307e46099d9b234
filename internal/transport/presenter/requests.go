package presenter

import (
	"strings"

	"github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/queries/quote_checkout"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/domain"
)

// SubmitReviewBody is the payload of a review submission.
type SubmitReviewBody struct {
	ProductID string `json:"product_id"`
	Rating    int64  `json:"rating"`
	Comment   string `json:"comment"`
}

// Validate rejects malformed submissions before any store access.
func (b *SubmitReviewBody) Validate() error {
	if strings.TrimSpace(b.ProductID) == "" {
		return domain.ErrMissingID
	}
	if err := domain.ValidateRating(b.Rating); err != nil {
		return err
	}
	_, err := domain.NormalizeComment(b.Comment)
	return err
}

// UpdateReviewBody is a partial review update. Absent fields are kept.
type UpdateReviewBody struct {
	ReviewID string  `json:"review_id"`
	Rating   *int64  `json:"rating,omitempty"`
	Comment  *string `json:"comment,omitempty"`
}

// Validate rejects empty or malformed patches.
func (b *UpdateReviewBody) Validate() error {
	if strings.TrimSpace(b.ReviewID) == "" {
		return domain.ErrMissingID
	}
	if b.Rating == nil && b.Comment == nil {
		return domain.ErrEmptyPatch
	}
	if b.Rating != nil {
		if err := domain.ValidateRating(*b.Rating); err != nil {
			return err
		}
	}
	if b.Comment != nil {
		if _, err := domain.NormalizeComment(*b.Comment); err != nil {
			return err
		}
	}
	return nil
}

// QuoteLine is one cart entry in a quote request.
type QuoteLine struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// QuoteBody is the payload of a checkout quote.
type QuoteBody struct {
	Lines        []QuoteLine `json:"lines"`
	PromoPercent int64       `json:"promo_percent"`
}

// QueryLines converts the body to query lines.
func (b *QuoteBody) QueryLines() []quote_checkout.Line {
	lines := make([]quote_checkout.Line, 0, len(b.Lines))
	for _, l := range b.Lines {
		lines = append(lines, quote_checkout.Line{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return lines
}
