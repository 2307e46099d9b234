package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/big"

	mcontracts "github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/contracts"
	mdomain "github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/domain"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/contracts"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/domain"
	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_order"
	"github.com/THXNXKXT/qr-studios-sub001/internal/pkg/clock"
)

const (
	reviewColumns = "review_id, product_id, user_id, rating, comment, is_verified, created_at, updated_at"

	completedOrderWithItemSQL = "SELECT o.order_id FROM orders o JOIN order_items i ON i.order_id = o.order_id " +
		"WHERE o.user_id = ? AND o.status = ? AND i.product_id = ? ORDER BY o.order_id LIMIT 1"
)

// Store implements the review store, the review read model and the
// membership readers on a SQL database.
type Store struct {
	db      *sql.DB
	dialect Dialect
	clock   clock.Clock
}

// New creates a Store. The schema is not touched; call Migrate for that.
func New(db *sql.DB, dialect Dialect, clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &Store{db: db, dialect: dialect, clock: clk}
}

var (
	_ contracts.ReviewStore    = (*Store)(nil)
	_ contracts.ReadModel      = (*Store)(nil)
	_ mcontracts.SpendReader   = (*Store)(nil)
	_ mcontracts.CatalogReader = (*Store)(nil)
)

func (s *Store) q(query string) string {
	return s.dialect.rebind(query)
}

// RunInTx implements contracts.ReviewStore. fn's error rolls the
// transaction back; a unique violation at commit becomes ErrDuplicateReview.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx contracts.ReviewTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(ctx, &sqlTx{store: s, tx: tx}); err != nil {
		_ = tx.Rollback()
		return s.classify(err)
	}
	if err := tx.Commit(); err != nil {
		return s.classify(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

func (s *Store) classify(err error) error {
	if errors.Is(err, contracts.ErrDuplicateReview) {
		return err
	}
	if s.dialect.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %v", contracts.ErrDuplicateReview, err)
	}
	return err
}

// ProductExists implements contracts.ReadModel.
func (s *Store) ProductExists(ctx context.Context, productID string) (bool, error) {
	return s.exists(ctx, "SELECT 1 FROM products WHERE product_id = ?", productID)
}

// ReviewExists implements contracts.ReadModel.
func (s *Store) ReviewExists(ctx context.Context, productID, userID string) (bool, error) {
	return s.exists(ctx, "SELECT 1 FROM reviews WHERE product_id = ? AND user_id = ?", productID, userID)
}

// HasCompletedPurchase implements contracts.ReadModel.
func (s *Store) HasCompletedPurchase(ctx context.Context, userID, productID string) (bool, error) {
	return s.exists(ctx, completedOrderWithItemSQL, userID, m_order.StatusCompleted, productID)
}

func (s *Store) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var one interface{}
	err := s.db.QueryRowContext(ctx, s.q(query), args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query: %w", err)
	}
	return true, nil
}

// ListReviews implements contracts.ReadModel.
func (s *Store) ListReviews(ctx context.Context, filter *contracts.ListFilter) (*contracts.ListResult, error) {
	result := &contracts.ListResult{}

	var avg sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		s.q("SELECT COUNT(*), AVG(rating) FROM reviews WHERE product_id = ?"),
		filter.ProductID,
	).Scan(&result.TotalCount, &avg)
	if err != nil {
		return nil, fmt.Errorf("failed to load review stats: %w", err)
	}
	if avg.Valid {
		result.AverageRating = avg.Float64
	}

	query := "SELECT r.review_id, r.product_id, r.user_id, r.rating, r.comment, r.is_verified, r.created_at, r.updated_at, u.username, u.avatar " +
		"FROM reviews r LEFT JOIN users u ON u.user_id = r.user_id " +
		"WHERE r.product_id = ? ORDER BY r.created_at DESC, r.review_id DESC"
	args := []interface{}{filter.ProductID}
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result.Reviews = make([]*contracts.ReviewWithUser, 0)
	for rows.Next() {
		var (
			r        reviewRecord
			username sql.NullString
			avatar   sql.NullString
		)
		if err := rows.Scan(r.dest(&username, &avatar)...); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		var user *domain.UserPublic
		if username.Valid {
			user = &domain.UserPublic{ID: r.userID, Username: username.String, Avatar: nullableString(avatar)}
		}
		result.Reviews = append(result.Reviews, contracts.NewReviewWithUser(r.toDomain(), user))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reviews: %w", err)
	}
	return result, nil
}

// CompletedSpend implements the membership SpendReader.
func (s *Store) CompletedSpend(ctx context.Context, userID string) (*mdomain.Money, error) {
	rows, err := s.db.QueryContext(ctx,
		s.q("SELECT total_numerator, total_denominator FROM orders WHERE user_id = ? AND status = ?"),
		userID, m_order.StatusCompleted,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	total := new(big.Rat)
	for rows.Next() {
		var num, den int64
		if err := rows.Scan(&num, &den); err != nil {
			return nil, fmt.Errorf("failed to scan order total: %w", err)
		}
		if den <= 0 {
			return nil, fmt.Errorf("order total has denominator %d: %w", den, mdomain.ErrInvalidDenominator)
		}
		total.Add(total, big.NewRat(num, den))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}
	return mdomain.NewMoneyFromRat(total), nil
}

// ProductPricing implements the membership CatalogReader.
func (s *Store) ProductPricing(ctx context.Context, productID string) (*mcontracts.ProductPricing, error) {
	var (
		num, den int64
		points   sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		s.q("SELECT price_numerator, price_denominator, reward_points FROM products WHERE product_id = ?"),
		productID,
	).Scan(&num, &den, &points)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, mcontracts.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	price, err := mdomain.NewMoney(num, den)
	if err != nil {
		return nil, fmt.Errorf("invalid price for product %s: %w", productID, err)
	}
	p := &mcontracts.ProductPricing{ProductID: productID, Price: price}
	if points.Valid {
		v := points.Int64
		p.Points = &v
	}
	return p, nil
}

type reviewRecord struct {
	id         string
	productID  string
	userID     string
	rating     int64
	comment    string
	isVerified bool
	createdAt  sql.NullTime
	updatedAt  sql.NullTime
}

// dest returns scan targets in reviewColumns order, followed by extra.
func (r *reviewRecord) dest(extra ...interface{}) []interface{} {
	d := []interface{}{&r.id, &r.productID, &r.userID, &r.rating, &r.comment, &r.isVerified, &r.createdAt, &r.updatedAt}
	return append(d, extra...)
}

func (r *reviewRecord) toDomain() *domain.Review {
	return domain.ReconstructReview(
		r.id, r.productID, r.userID, r.rating, r.comment, r.isVerified,
		r.createdAt.Time.UTC(), r.updatedAt.Time.UTC(),
	)
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
