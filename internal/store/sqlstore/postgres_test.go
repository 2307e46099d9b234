package sqlstore

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcontracts "github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/contracts"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/contracts"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/domain"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/usecases/submit_review"
	"github.com/THXNXKXT/qr-studios-sub001/internal/pkg/clock"
)

var testTime = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db, Postgres, clock.NewMockClock(testTime)), mock
}

func newSubmit(store contracts.ReviewStore) *submit_review.Interactor {
	return submit_review.NewInteractor(store, clock.NewMockClock(testTime), slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
}

// expectSubmitChecks queues the reads a successful submit performs before its insert.
func expectSubmitChecks(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT product_id, name FROM products WHERE product_id = $1")).
		WithArgs("prod-1").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "name"}).AddRow("prod-1", "Inventory UI Kit"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM reviews WHERE product_id = $1 AND user_id = $2")).
		WithArgs("prod-1", "buyer").
		WillReturnRows(sqlmock.NewRows([]string{"review_id"}))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE o.user_id = $1 AND o.status = $2 AND i.product_id = $3 ORDER BY o.order_id LIMIT 1")).
		WithArgs("buyer", "COMPLETED", "prod-1").
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow("order-1"))
}

func pairViolation() error {
	return &pq.Error{Code: "23505", Constraint: "reviews_product_user_idx", Message: "duplicate key value violates unique constraint"}
}

func TestRebindDollar(t *testing.T) {
	assert.Equal(t, "a = $1 AND b = $2 LIMIT $3", rebindDollar("a = ? AND b = ? LIMIT ?"))
	assert.Equal(t, "SELECT 1", rebindDollar("SELECT 1"))
}

func TestPostgresUniqueViolation(t *testing.T) {
	assert.True(t, Postgres.IsUniqueViolation(pairViolation()))
	assert.False(t, Postgres.IsUniqueViolation(&pq.Error{Code: "23505", Constraint: "reviews_pkey"}))
	assert.False(t, Postgres.IsUniqueViolation(&pq.Error{Code: "23503", Constraint: "reviews_product_user_idx"}))
	assert.False(t, Postgres.IsUniqueViolation(nil))
}

func TestPostgresSubmit_Success(t *testing.T) {
	store, mock := newMockStore(t)

	expectSubmitChecks(mock)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reviews (review_id, product_id, user_id, rating, comment, is_verified, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)")).
		WithArgs(sqlmock.AnyArg(), "prod-1", "buyer", int64(5), "solid kit", true, testTime, testTime).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO outbox_events")).
		WithArgs(sqlmock.AnyArg(), "review.submitted", sqlmock.AnyArg(), sqlmock.AnyArg(), "pending", testTime).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, username, avatar FROM users WHERE user_id = $1")).
		WithArgs("buyer").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "avatar"}).AddRow("buyer", "buyer01", nil))
	mock.ExpectCommit()

	got, err := newSubmit(store).Execute(context.Background(), &submit_review.Request{
		ProductID: "prod-1", UserID: "buyer", Rating: 5, Comment: "solid kit",
	})
	require.NoError(t, err)
	assert.True(t, got.IsVerified)
	assert.Equal(t, "buyer01", got.User.Username)
	assert.Nil(t, got.User.Avatar)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSubmit_InsertConflict(t *testing.T) {
	store, mock := newMockStore(t)

	expectSubmitChecks(mock)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reviews")).WillReturnError(pairViolation())
	mock.ExpectRollback()

	_, err := newSubmit(store).Execute(context.Background(), &submit_review.Request{
		ProductID: "prod-1", UserID: "buyer", Rating: 5, Comment: "solid kit",
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyReviewed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSubmit_CommitConflict(t *testing.T) {
	store, mock := newMockStore(t)

	expectSubmitChecks(mock)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reviews")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO outbox_events")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "avatar"}))
	mock.ExpectCommit().WillReturnError(pairViolation())

	_, err := newSubmit(store).Execute(context.Background(), &submit_review.Request{
		ProductID: "prod-1", UserID: "buyer", Rating: 4, Comment: "ok",
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyReviewed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSubmit_OtherConstraintIsInternal(t *testing.T) {
	store, mock := newMockStore(t)

	expectSubmitChecks(mock)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reviews")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "reviews_pkey"})
	mock.ExpectRollback()

	_, err := newSubmit(store).Execute(context.Background(), &submit_review.Request{
		ProductID: "prod-1", UserID: "buyer", Rating: 4, Comment: "ok",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrAlreadyReviewed)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSubmit_PurchaseRequired(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM products")).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "name"}).AddRow("prod-1", "Inventory UI Kit"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM reviews")).
		WillReturnRows(sqlmock.NewRows([]string{"review_id"}))
	mock.ExpectQuery(regexp.QuoteMeta("FROM orders o")).
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}))
	mock.ExpectRollback()

	_, err := newSubmit(store).Execute(context.Background(), &submit_review.Request{
		ProductID: "prod-1", UserID: "buyer", Rating: 4, Comment: "ok",
	})
	assert.ErrorIs(t, err, domain.ErrPurchaseRequired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCompletedSpend(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT total_numerator, total_denominator FROM orders WHERE user_id = $1 AND status = $2")).
		WithArgs("buyer", "COMPLETED").
		WillReturnRows(sqlmock.NewRows([]string{"total_numerator", "total_denominator"}).
			AddRow(49999, 100).
			AddRow(500, 1))

	spent, err := store.CompletedSpend(context.Background(), "buyer")
	require.NoError(t, err)
	assert.Equal(t, "999.99", spent.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListReviews(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*), AVG(rating) FROM reviews WHERE product_id = $1")).
		WithArgs("prod-1").
		WillReturnRows(sqlmock.NewRows([]string{"count", "avg"}).AddRow(2, "4.5000000000000000"))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE r.product_id = $1 ORDER BY r.created_at DESC, r.review_id DESC LIMIT $2")).
		WithArgs("prod-1", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"review_id", "product_id", "user_id", "rating", "comment", "is_verified", "created_at", "updated_at", "username", "avatar",
		}).AddRow("rev-2", "prod-1", "ghost", 5, "great", true, testTime, testTime, nil, nil))

	got, err := store.ListReviews(context.Background(), &contracts.ListFilter{ProductID: "prod-1", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.TotalCount)
	assert.InDelta(t, 4.5, got.AverageRating, 1e-9)
	require.Len(t, got.Reviews, 1)
	assert.Equal(t, "ghost", got.Reviews[0].User.ID)
	assert.Empty(t, got.Reviews[0].User.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProductPricing_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM products WHERE product_id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"price_numerator", "price_denominator", "reward_points"}))

	_, err := store.ProductPricing(context.Background(), "missing")
	assert.ErrorIs(t, err, mcontracts.ErrProductNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
