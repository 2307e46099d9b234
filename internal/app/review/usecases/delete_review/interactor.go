package delete_review

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

// Request identifies the review and the caller.
type Request struct {
	ReviewID string
	UserID   string
	IsAdmin  bool
}

// Interactor handles the delete review use case.
type Interactor struct {
	store     contracts.ReviewStore
	clock     clock.Clock
	logger    *slog.Logger
	telemetry *telemetry.Provider
}

// NewInteractor creates a new delete review interactor.
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
		logger:    logger.With("usecase", "delete_review"),
		telemetry: tel,
	}
}

// Execute hard-deletes the review if the caller owns it or is an admin.
func (i *Interactor) Execute(ctx context.Context, req *Request) (err error) {
	ctx, done := i.telemetry.TrackOperation(ctx, "review.delete",
		attribute.String("review_id", req.ReviewID),
		attribute.Bool("admin", req.IsAdmin),
	)
	defer func() { done(err, domain.KindOf(err).String()) }()

	err = i.store.RunInTx(ctx, func(ctx context.Context, tx contracts.ReviewTx) error {
		review, err := tx.FindReviewByID(ctx, req.ReviewID)
		if err != nil {
			if errors.Is(err, contracts.ErrNotFound) {
				return domain.ErrReviewNotFound
			}
			return fmt.Errorf("failed to load review: %w", err)
		}

		if err := review.MarkDeleted(req.UserID, req.IsAdmin, i.clock.Now()); err != nil {
			return err
		}

		if err := tx.DeleteReview(ctx, review.ID()); err != nil {
			return fmt.Errorf("failed to delete review: %w", err)
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
		return nil
	})
	if errors.Is(err, contracts.ErrNotFound) {
		// deleted by another request after it was loaded
		err = domain.ErrReviewNotFound
	}
	if err != nil {
		if domain.KindOf(err) != domain.KindInternal {
			return err
		}
		i.logger.ErrorContext(ctx, "review delete failed", "review_id", req.ReviewID, "error", err)
		return err
	}

	i.logger.InfoContext(ctx, "review deleted",
		"review_id", req.ReviewID,
		"user_id", req.UserID,
		"admin", req.IsAdmin,
	)
	return nil
}
