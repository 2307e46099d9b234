package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/queries/get_membership"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/queries/quote_checkout"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/queries/list_reviews"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/queries/review_eligibility"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/usecases/delete_review"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/usecases/submit_review"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/usecases/update_review"
	"github.com/THXNXKXT/qr-studios-sub001/internal/transport/presenter"
)

func (rt *Router) handleListTiers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, presenter.Tiers())
}

func (rt *Router) handleListReviews(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	res, err := rt.listReviews.Execute(r.Context(), &list_reviews.Request{
		ProductID: chi.URLParam(r, "productID"),
		Limit:     limit,
	})
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presenter.ReviewList(res))
}

func (rt *Router) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	var body presenter.SubmitReviewBody
	if err := decodeJSON(r, &body); err != nil {
		rt.writeError(w, r, err)
		return
	}
	body.ProductID = chi.URLParam(r, "productID")
	if err := body.Validate(); err != nil {
		rt.writeError(w, r, err)
		return
	}

	review, err := rt.submitReview.Execute(r.Context(), &submit_review.Request{
		ProductID: body.ProductID,
		UserID:    caller(r).UserID,
		Rating:    body.Rating,
		Comment:   body.Comment,
	})
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, presenter.Review(review))
}

func (rt *Router) handleReviewEligibility(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	userID := caller(r).UserID

	res, err := rt.reviewEligibility.Execute(r.Context(), &review_eligibility.Request{ProductID: productID, UserID: userID})
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presenter.Eligibility(productID, userID, res))
}

func (rt *Router) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	var body presenter.UpdateReviewBody
	if err := decodeJSON(r, &body); err != nil {
		rt.writeError(w, r, err)
		return
	}
	body.ReviewID = chi.URLParam(r, "reviewID")
	if err := body.Validate(); err != nil {
		rt.writeError(w, r, err)
		return
	}

	review, err := rt.updateReview.Execute(r.Context(), &update_review.Request{
		ReviewID: body.ReviewID,
		UserID:   caller(r).UserID,
		Rating:   body.Rating,
		Comment:  body.Comment,
	})
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presenter.Review(review))
}

func (rt *Router) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	p := caller(r)
	err := rt.deleteReview.Execute(r.Context(), &delete_review.Request{
		ReviewID: chi.URLParam(r, "reviewID"),
		UserID:   p.UserID,
		IsAdmin:  p.IsAdmin,
	})
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) handleGetMembership(w http.ResponseWriter, r *http.Request) {
	res, err := rt.getMembership.Execute(r.Context(), &get_membership.Request{UserID: caller(r).UserID})
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presenter.Membership(res))
}

func (rt *Router) handleQuoteCheckout(w http.ResponseWriter, r *http.Request) {
	var body presenter.QuoteBody
	if err := decodeJSON(r, &body); err != nil {
		rt.writeError(w, r, err)
		return
	}

	res, err := rt.quoteCheckout.Execute(r.Context(), &quote_checkout.Request{
		UserID:       caller(r).UserID,
		Lines:        body.QueryLines(),
		PromoPercent: body.PromoPercent,
	})
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presenter.Quote(res))
}
