package repo

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/contracts"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/domain"
	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_review"
)

func TestCompletedOrderWithItemQuery(t *testing.T) {
	stmt := CompletedOrderWithItemQuery("user-1", "prod-1")

	assert.Equal(t,
		"SELECT o.order_id FROM orders o JOIN order_items i ON i.order_id = o.order_id "+
			"WHERE o.user_id = @p0 AND o.status = @p1 AND i.product_id = @p2 LIMIT @limit",
		stmt.SQL)
	assert.Equal(t, "COMPLETED", stmt.Params["p1"])
	assert.Equal(t, "prod-1", stmt.Params["p2"])
}

func TestReviewUpdates(t *testing.T) {
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	r := domain.ReconstructReview("rev-1", "prod-1", "user-1", 3, "ok", true, now, now)

	assert.Empty(t, ReviewUpdates(r))

	rating := int64(5)
	require.NoError(t, r.ApplyPatch("user-1", domain.Patch{Rating: &rating}, now.Add(time.Minute)))

	updates := ReviewUpdates(r)
	assert.Equal(t, map[string]interface{}{
		m_review.Rating:    int64(5),
		m_review.UpdatedAt: now.Add(time.Minute),
	}, updates)
}

func TestClassifyTxError(t *testing.T) {
	t.Run("already exists becomes duplicate review", func(t *testing.T) {
		commitErr := fmt.Errorf("transaction failed: %w", status.Error(codes.AlreadyExists, "Unique index violation on index reviews_product_user_idx"))
		err := classifyTxError(commitErr)
		assert.ErrorIs(t, err, contracts.ErrDuplicateReview)
		assert.True(t, IsUniqueViolation(commitErr))
	})

	t.Run("not found at commit becomes not found", func(t *testing.T) {
		commitErr := fmt.Errorf("transaction failed: %w", status.Error(codes.NotFound, "Row [rev-1] in table reviews is missing. Row cannot be updated."))
		err := classifyTxError(commitErr)
		assert.ErrorIs(t, err, contracts.ErrNotFound)
		assert.NotErrorIs(t, err, contracts.ErrDuplicateReview)
	})

	t.Run("business errors pass through", func(t *testing.T) {
		assert.Equal(t, domain.ErrPurchaseRequired, classifyTxError(domain.ErrPurchaseRequired))
	})

	t.Run("other failures stay internal", func(t *testing.T) {
		unavailable := status.Error(codes.Unavailable, "backend unavailable")
		err := classifyTxError(unavailable)
		assert.NotErrorIs(t, err, contracts.ErrDuplicateReview)
		assert.False(t, IsUniqueViolation(errors.New("plain")))
	})

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, classifyTxError(nil))
	})
}

func TestRowToReview(t *testing.T) {
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	row, err := spanner.NewRow(
		m_review.NewModel().Columns(),
		[]interface{}{"rev-1", "prod-1", "user-1", int64(4), "fine", true, now, now},
	)
	require.NoError(t, err)

	r, err := rowToReview(row)
	require.NoError(t, err)
	assert.Equal(t, "rev-1", r.ID())
	assert.Equal(t, int64(4), r.Rating())
	assert.True(t, r.IsVerified())
	assert.False(t, r.Changes().HasChanges())
}

func TestRowToUserPublic(t *testing.T) {
	row, err := spanner.NewRow(
		[]string{"user_id", "username", "avatar"},
		[]interface{}{"user-1", "racer", spanner.NullString{StringVal: "a.png", Valid: true}},
	)
	require.NoError(t, err)

	u, err := rowToUserPublic(row)
	require.NoError(t, err)
	assert.Equal(t, "racer", u.Username)
	require.NotNil(t, u.Avatar)
	assert.Equal(t, "a.png", *u.Avatar)
}
