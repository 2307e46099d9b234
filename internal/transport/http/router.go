package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

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

// Router serves the storefront REST API.
type Router struct {
	submitReview      *submit_review.Interactor
	updateReview      *update_review.Interactor
	deleteReview      *delete_review.Interactor
	listReviews       *list_reviews.Query
	reviewEligibility *review_eligibility.Query
	getMembership     *get_membership.Query
	quoteCheckout     *quote_checkout.Query

	verifier *auth.Verifier
	logger   *slog.Logger
}

// NewRouter creates a new Router. A nil verifier rejects every bearer token.
func NewRouter(
	submitReview *submit_review.Interactor,
	updateReview *update_review.Interactor,
	deleteReview *delete_review.Interactor,
	listReviews *list_reviews.Query,
	reviewEligibility *review_eligibility.Query,
	getMembership *get_membership.Query,
	quoteCheckout *quote_checkout.Query,
	verifier *auth.Verifier,
	logger *slog.Logger,
) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		submitReview:      submitReview,
		updateReview:      updateReview,
		deleteReview:      deleteReview,
		listReviews:       listReviews,
		reviewEligibility: reviewEligibility,
		getMembership:     getMembership,
		quoteCheckout:     quoteCheckout,
		verifier:          verifier,
		logger:            logger,
	}
}

// Handler builds the chi mux.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(rt.logRequests)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, presenter.Object{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.authenticate)

		r.Get("/tiers", rt.handleListTiers)
		r.Get("/products/{productID}/reviews", rt.handleListReviews)

		r.Group(func(r chi.Router) {
			r.Use(requireCaller)

			r.Post("/products/{productID}/reviews", rt.handleSubmitReview)
			r.Get("/products/{productID}/review-eligibility", rt.handleReviewEligibility)
			r.Patch("/reviews/{reviewID}", rt.handleUpdateReview)
			r.Delete("/reviews/{reviewID}", rt.handleDeleteReview)
			r.Get("/membership", rt.handleGetMembership)
			r.Post("/checkout/quote", rt.handleQuoteCheckout)
		})
	})
	return r
}

// authenticate attaches the bearer token's principal when one is sent.
func (rt *Router) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		if rt.verifier == nil {
			rt.writeError(w, r, auth.ErrInvalidToken)
			return
		}
		p, err := rt.verifier.Authenticate(header)
		if err != nil {
			rt.writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
	})
}

func requireCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.FromContext(r.Context()); !ok {
			writeJSON(w, http.StatusUnauthorized, presenter.Object{"error": presenter.ErrUnauthenticated.Error()})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rt *Router) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		rt.logger.InfoContext(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

func caller(r *http.Request) *auth.Principal {
	p, _ := auth.FromContext(r.Context())
	return p
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps err to a status code and a {"error": msg} body.
func (rt *Router) writeError(w http.ResponseWriter, r *http.Request, err error) {
	class, msg := presenter.Classify(err)
	status := http.StatusInternalServerError
	switch class {
	case presenter.ClassNotFound:
		status = http.StatusNotFound
	case presenter.ClassBadRequest:
		status = http.StatusBadRequest
	case presenter.ClassForbidden:
		status = http.StatusForbidden
	case presenter.ClassUnauthenticated:
		status = http.StatusUnauthorized
	default:
		rt.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeJSON(w, status, presenter.Object{"error": msg})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", presenter.ErrInvalidBody, err)
	}
	return nil
}

func queryInt(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", presenter.ErrInvalidBody, name)
	}
	return v, nil
}

