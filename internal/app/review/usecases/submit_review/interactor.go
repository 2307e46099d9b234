package submit_review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/contracts"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/domain"
	"github.com/THXNXKXT/qr-studios-sub001/internal/pkg/clock"
	"github.com/THXNXKXT/qr-studios-sub001/internal/pkg/telemetry"
)

// Request contains the data needed to submit a review.
type Request struct {
	ProductID string
	UserID    string
	Rating    int64
	Comment   string
}

// Interactor handles the submit review use case.
type Interactor struct {
	store     contracts.ReviewStore
	clock     clock.Clock
	logger    *slog.Logger
	telemetry *telemetry.Provider
}

// NewInteractor creates a new submit review interactor.
func NewInteractor(
	store contracts.ReviewStore,
	clock clock.Clock,
	logger *slog.Logger,
	tel *telemetry.Provider,
) *Interactor {
	if logger == nil {
		logger = slog.Default()
	}
	if tel == nil {
		tel = telemetry.Disabled()
	}
	return &Interactor{
		store:     store,
		clock:     clock,
		logger:    logger.With("usecase", "submit_review"),
		telemetry: tel,
	}
}

// Execute creates a verified review for a purchaser. The existence checks,
// the insert and the outbox write share one transaction; a unique-constraint
// conflict from a concurrent submit is reported as ErrAlreadyReviewed.
func (i *Interactor) Execute(ctx context.Context, req *Request) (result *contracts.ReviewWithUser, err error) {
	ctx, done := i.telemetry.TrackOperation(ctx, "review.submit",
		attribute.String("product_id", req.ProductID),
	)
	defer func() { done(err, domain.KindOf(err).String()) }()

	review, err := domain.NewReview(uuid.NewString(), req.ProductID, req.UserID, req.Rating, req.Comment, i.clock.Now())
	if err != nil {
		return nil, err
	}

	err = i.store.RunInTx(ctx, func(ctx context.Context, tx contracts.ReviewTx) error {
		// 1. Product must exist
		if _, err := tx.FindProduct(ctx, req.ProductID); err != nil {
			if errors.Is(err, contracts.ErrNotFound) {
				return domain.ErrProductNotFound
			}
			return fmt.Errorf("failed to load product: %w", err)
		}

		// 2. One review per (product, user)
		_, err := tx.FindReview(ctx, req.ProductID, req.UserID)
		if err == nil {
			return domain.ErrAlreadyReviewed
		}
		if !errors.Is(err, contracts.ErrNotFound) {
			return fmt.Errorf("failed to check existing review: %w", err)
		}

		// 3. Completed purchase of the product
		if _, err := tx.FindCompletedOrderWithItem(ctx, req.UserID, req.ProductID); err != nil {
			if errors.Is(err, contracts.ErrNotFound) {
				return domain.ErrPurchaseRequired
			}
			return fmt.Errorf("failed to check purchase history: %w", err)
		}

		// 4. Insert review and outbox events
		if err := tx.InsertReview(ctx, review); err != nil {
			return fmt.Errorf("failed to insert review: %w", err)
		}
		for _, event := range review.DomainEvents() {
			outboxEvent, err := contracts.EnrichEvent(uuid.NewString(), event)
			if err != nil {
				return err
			}
			if err := tx.InsertOutboxEvent(ctx, outboxEvent); err != nil {
				return fmt.Errorf("failed to insert outbox event: %w", err)
			}
		}

		user, err := tx.FindUserPublic(ctx, req.UserID)
		if err != nil && !errors.Is(err, contracts.ErrNotFound) {
			return fmt.Errorf("failed to load reviewer profile: %w", err)
		}
		result = contracts.NewReviewWithUser(review, user)
		return nil
	})
	if err != nil {
		if errors.Is(err, contracts.ErrDuplicateReview) {
			i.logger.InfoContext(ctx, "concurrent submission rejected by unique constraint",
				"product_id", req.ProductID,
				"user_id", req.UserID,
			)
			return nil, domain.ErrAlreadyReviewed
		}
		if domain.KindOf(err) != domain.KindInternal {
			return nil, err
		}
		i.logger.ErrorContext(ctx, "review submission failed",
			"product_id", req.ProductID,
			"user_id", req.UserID,
			"error", err,
		)
		return nil, fmt.Errorf("failed to submit review: %w", err)
	}

	i.logger.InfoContext(ctx, "review submitted",
		"review_id", result.ReviewID,
		"product_id", result.ProductID,
		"user_id", result.UserID,
		"rating", result.Rating,
	)
	return result, nil
}
