package update_review

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

// Request contains a partial update. Nil fields are left unchanged.
type Request struct {
	ReviewID string
	UserID   string
	Rating   *int64
	Comment  *string
}

// Interactor handles the update review use case.
type Interactor struct {
	store     contracts.ReviewStore
	clock     clock.Clock
	logger    *slog.Logger
	telemetry *telemetry.Provider
}

// NewInteractor creates a new update review interactor.
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
		logger:    logger.With("usecase", "update_review"),
		telemetry: tel,
	}
}

// Execute applies the owner's patch. Admins get no override here.
func (i *Interactor) Execute(ctx context.Context, req *Request) (result *contracts.ReviewWithUser, err error) {
	ctx, done := i.telemetry.TrackOperation(ctx, "review.update",
		attribute.String("review_id", req.ReviewID),
	)
	defer func() { done(err, domain.KindOf(err).String()) }()

	patch := domain.Patch{Rating: req.Rating, Comment: req.Comment}

	err = i.store.RunInTx(ctx, func(ctx context.Context, tx contracts.ReviewTx) error {
		review, err := tx.FindReviewByID(ctx, req.ReviewID)
		if err != nil {
			if errors.Is(err, contracts.ErrNotFound) {
				return domain.ErrReviewNotFound
			}
			return fmt.Errorf("failed to load review: %w", err)
		}

		if err := review.ApplyPatch(req.UserID, patch, i.clock.Now()); err != nil {
			return err
		}

		if err := tx.UpdateReview(ctx, review); err != nil {
			return fmt.Errorf("failed to update review: %w", err)
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

		user, err := tx.FindUserPublic(ctx, review.UserID())
		if err != nil && !errors.Is(err, contracts.ErrNotFound) {
			return fmt.Errorf("failed to load reviewer profile: %w", err)
		}
		result = contracts.NewReviewWithUser(review, user)
		return nil
	})
	if errors.Is(err, contracts.ErrNotFound) {
		// deleted by another request after it was loaded
		err = domain.ErrReviewNotFound
	}
	if err != nil {
		if domain.KindOf(err) != domain.KindInternal {
			return nil, err
		}
		i.logger.ErrorContext(ctx, "review update failed", "review_id", req.ReviewID, "error", err)
		return nil, err
	}

	i.logger.InfoContext(ctx, "review updated", "review_id", req.ReviewID)
	return result, nil
}
