package storefront

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/queries/get_membership"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/queries/quote_checkout"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/queries/list_reviews"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/queries/review_eligibility"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/usecases/delete_review"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/usecases/submit_review"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/usecases/update_review"
	"github.com/THXNXKXT/qr-studios-sub001/internal/pkg/auth"
	"github.com/THXNXKXT/qr-studios-sub001/internal/transport/presenter"
)

// Handler implements StorefrontServer.
// It's a thin coordinator that delegates to use cases and queries.
type Handler struct {
	// Commands
	submitReview *submit_review.Interactor
	updateReview *update_review.Interactor
	deleteReview *delete_review.Interactor

	// Queries
	listReviews       *list_reviews.Query
	reviewEligibility *review_eligibility.Query
	getMembership     *get_membership.Query
	quoteCheckout     *quote_checkout.Query
}

// NewHandler creates a new gRPC storefront handler.
func NewHandler(
	submitReview *submit_review.Interactor,
	updateReview *update_review.Interactor,
	deleteReview *delete_review.Interactor,
	listReviews *list_reviews.Query,
	reviewEligibility *review_eligibility.Query,
	getMembership *get_membership.Query,
	quoteCheckout *quote_checkout.Query,
) *Handler {
	return &Handler{
		submitReview:      submitReview,
		updateReview:      updateReview,
		deleteReview:      deleteReview,
		listReviews:       listReviews,
		reviewEligibility: reviewEligibility,
		getMembership:     getMembership,
		quoteCheckout:     quoteCheckout,
	}
}

var _ StorefrontServer = (*Handler)(nil)

// SubmitReview creates a verified review for the caller.
func (h *Handler) SubmitReview(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, mapErrorToGRPC(err)
	}

	var body presenter.SubmitReviewBody
	if err := decode(in, &body); err != nil {
		return nil, mapErrorToGRPC(err)
	}
	if err := body.Validate(); err != nil {
		return nil, mapErrorToGRPC(err)
	}

	review, err := h.submitReview.Execute(ctx, &submit_review.Request{
		ProductID: body.ProductID,
		UserID:    caller.UserID,
		Rating:    body.Rating,
		Comment:   body.Comment,
	})
	if err != nil {
		return nil, mapErrorToGRPC(err)
	}
	return encode(presenter.Review(review))
}

// UpdateReview applies the owner's partial update.
func (h *Handler) UpdateReview(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, mapErrorToGRPC(err)
	}

	var body presenter.UpdateReviewBody
	if err := decode(in, &body); err != nil {
		return nil, mapErrorToGRPC(err)
	}
	if err := body.Validate(); err != nil {
		return nil, mapErrorToGRPC(err)
	}

	review, err := h.updateReview.Execute(ctx, &update_review.Request{
		ReviewID: body.ReviewID,
		UserID:   caller.UserID,
		Rating:   body.Rating,
		Comment:  body.Comment,
	})
	if err != nil {
		return nil, mapErrorToGRPC(err)
	}
	return encode(presenter.Review(review))
}

// DeleteReview removes a review. Admins may delete any review.
func (h *Handler) DeleteReview(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, mapErrorToGRPC(err)
	}

	var body struct {
		ReviewID string `json:"review_id"`
	}
	if err := decode(in, &body); err != nil {
		return nil, mapErrorToGRPC(err)
	}

	if err := h.deleteReview.Execute(ctx, &delete_review.Request{
		ReviewID: body.ReviewID,
		UserID:   caller.UserID,
		IsAdmin:  caller.IsAdmin,
	}); err != nil {
		return nil, mapErrorToGRPC(err)
	}
	return encode(presenter.Object{"deleted": true})
}

// ListReviews returns a product's reviews, newest first. No caller required.
func (h *Handler) ListReviews(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var body struct {
		ProductID string `json:"product_id"`
		Limit     int64  `json:"limit"`
	}
	if err := decode(in, &body); err != nil {
		return nil, mapErrorToGRPC(err)
	}

	res, err := h.listReviews.Execute(ctx, &list_reviews.Request{ProductID: body.ProductID, Limit: body.Limit})
	if err != nil {
		return nil, mapErrorToGRPC(err)
	}
	return encode(presenter.ReviewList(res))
}

// GetReviewEligibility reports whether the caller may review a product.
func (h *Handler) GetReviewEligibility(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, mapErrorToGRPC(err)
	}

	var body struct {
		ProductID string `json:"product_id"`
	}
	if err := decode(in, &body); err != nil {
		return nil, mapErrorToGRPC(err)
	}

	res, err := h.reviewEligibility.Execute(ctx, &review_eligibility.Request{ProductID: body.ProductID, UserID: caller.UserID})
	if err != nil {
		return nil, mapErrorToGRPC(err)
	}
	return encode(presenter.Eligibility(body.ProductID, caller.UserID, res))
}

// GetMembership reports the caller's tier and progress.
func (h *Handler) GetMembership(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, mapErrorToGRPC(err)
	}

	res, err := h.getMembership.Execute(ctx, &get_membership.Request{UserID: caller.UserID})
	if err != nil {
		return nil, mapErrorToGRPC(err)
	}
	return encode(presenter.Membership(res))
}

// ListTiers returns the static tier table.
func (h *Handler) ListTiers(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return encode(presenter.Tiers())
}

// QuoteCheckout prices the caller's cart.
func (h *Handler) QuoteCheckout(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, mapErrorToGRPC(err)
	}

	var body presenter.QuoteBody
	if err := decode(in, &body); err != nil {
		return nil, mapErrorToGRPC(err)
	}

	res, err := h.quoteCheckout.Execute(ctx, &quote_checkout.Request{
		UserID:       caller.UserID,
		Lines:        body.QueryLines(),
		PromoPercent: body.PromoPercent,
	})
	if err != nil {
		return nil, mapErrorToGRPC(err)
	}
	return encode(presenter.Quote(res))
}

func callerFrom(ctx context.Context) (*auth.Principal, error) {
	p, ok := auth.FromContext(ctx)
	if !ok {
		return nil, presenter.ErrUnauthenticated
	}
	return p, nil
}

// decode maps a Struct onto a JSON-tagged request body.
func decode(in *structpb.Struct, dst interface{}) error {
	if in == nil {
		in = &structpb.Struct{}
	}
	raw, err := protojson.Marshal(in)
	if err != nil {
		return fmt.Errorf("%w: %v", presenter.ErrInvalidBody, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", presenter.ErrInvalidBody, err)
	}
	return nil
}

func encode(obj presenter.Object) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(obj)
	if err != nil {
		return nil, mapErrorToGRPC(fmt.Errorf("failed to encode reply: %w", err))
	}
	return out, nil
}
