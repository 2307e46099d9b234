package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/contracts"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/domain"
	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_order"
)

type sqlTx struct {
	store *Store
	tx    *sql.Tx
}

var _ contracts.ReviewTx = (*sqlTx)(nil)

func (t *sqlTx) queryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return t.tx.QueryRowContext(ctx, t.store.q(query), args...)
}

func (t *sqlTx) exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return t.tx.ExecContext(ctx, t.store.q(query), args...)
}

func (t *sqlTx) FindProduct(ctx context.Context, productID string) (*contracts.ProductSummary, error) {
	var p contracts.ProductSummary
	err := t.queryRow(ctx, "SELECT product_id, name FROM products WHERE product_id = ?", productID).
		Scan(&p.ProductID, &p.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, contracts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read product: %w", err)
	}
	return &p, nil
}

func (t *sqlTx) FindReview(ctx context.Context, productID, userID string) (*domain.Review, error) {
	return t.findReview(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE product_id = ? AND user_id = ?",
		productID, userID,
	)
}

func (t *sqlTx) FindReviewByID(ctx context.Context, reviewID string) (*domain.Review, error) {
	return t.findReview(ctx, "SELECT "+reviewColumns+" FROM reviews WHERE review_id = ?", reviewID)
}

func (t *sqlTx) findReview(ctx context.Context, query string, args ...interface{}) (*domain.Review, error) {
	var r reviewRecord
	err := t.queryRow(ctx, query, args...).Scan(r.dest()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, contracts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read review: %w", err)
	}
	return r.toDomain(), nil
}

func (t *sqlTx) FindCompletedOrderWithItem(ctx context.Context, userID, productID string) (string, error) {
	var orderID string
	err := t.queryRow(ctx, completedOrderWithItemSQL, userID, m_order.StatusCompleted, productID).Scan(&orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", contracts.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query orders: %w", err)
	}
	return orderID, nil
}

func (t *sqlTx) InsertReview(ctx context.Context, review *domain.Review) error {
	_, err := t.exec(ctx,
		"INSERT INTO reviews ("+reviewColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		review.ID(), review.ProductID(), review.UserID(), review.Rating(), review.Comment(),
		review.IsVerified(), review.CreatedAt(), review.UpdatedAt(),
	)
	if err != nil {
		return t.store.classify(err)
	}
	return nil
}

func (t *sqlTx) FindUserPublic(ctx context.Context, userID string) (*domain.UserPublic, error) {
	var (
		u      domain.UserPublic
		avatar sql.NullString
	)
	err := t.queryRow(ctx, "SELECT user_id, username, avatar FROM users WHERE user_id = ?", userID).
		Scan(&u.ID, &u.Username, &avatar)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, contracts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user: %w", err)
	}
	u.Avatar = nullableString(avatar)
	return &u, nil
}

func (t *sqlTx) UpdateReview(ctx context.Context, review *domain.Review) error {
	changes := review.Changes()
	if !changes.HasChanges() {
		return nil
	}
	res, err := t.exec(ctx,
		"UPDATE reviews SET rating = ?, comment = ?, updated_at = ? WHERE review_id = ?",
		review.Rating(), review.Comment(), review.UpdatedAt(), review.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	return requireOneRow(res)
}

func (t *sqlTx) DeleteReview(ctx context.Context, reviewID string) error {
	res, err := t.exec(ctx, "DELETE FROM reviews WHERE review_id = ?", reviewID)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return requireOneRow(res)
}

func (t *sqlTx) InsertOutboxEvent(ctx context.Context, event *contracts.OutboxEvent) error {
	_, err := t.exec(ctx,
		"INSERT INTO outbox_events (event_id, event_type, aggregate_id, payload, status, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		event.EventID, event.EventType, event.AggregateID, event.Payload, event.Status, t.store.clock.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}
	return nil
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return contracts.ErrNotFound
	}
	return nil
}
