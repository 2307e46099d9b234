package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcontracts "github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/contracts"
	mdomain "github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/domain"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/contracts"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/domain"
	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_order"
)

var now = time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC)

func newReview(t *testing.T, id, productID, userID string) *domain.Review {
	t.Helper()
	r, err := domain.NewReview(id, productID, userID, 4, "nice", now)
	require.NoError(t, err)
	return r
}

func TestStore_CompletedSpend(t *testing.T) {
	s := New()
	s.PutOrder(Order{ID: "o1", UserID: "u1", Status: m_order.StatusCompleted, Total: mdomain.Units(600)})
	s.PutOrder(Order{ID: "o2", UserID: "u1", Status: m_order.StatusCompleted, Total: mdomain.Units(450)})
	s.PutOrder(Order{ID: "o3", UserID: "u1", Status: m_order.StatusPending, Total: mdomain.Units(9000)})
	s.PutOrder(Order{ID: "o4", UserID: "u1", Status: m_order.StatusRefunded, Total: mdomain.Units(9000)})
	s.PutOrder(Order{ID: "o5", UserID: "u2", Status: m_order.StatusCompleted, Total: mdomain.Units(50000)})

	total, err := s.CompletedSpend(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, total.Equals(mdomain.Units(1050)))
	assert.Equal(t, mdomain.TierSilver, mdomain.ResolveTier(total))

	total, err = s.CompletedSpend(context.Background(), "nobody")
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestStore_ProductPricing(t *testing.T) {
	s := New()
	pts := int64(30)
	s.PutProduct(Product{ID: "p1", Name: "Kit", Price: mdomain.Units(120), RewardPoints: &pts})

	got, err := s.ProductPricing(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, got.Price.Equals(mdomain.Units(120)))
	assert.Equal(t, int64(30), mdomain.ExpectedPoints(got))

	_, err = s.ProductPricing(context.Background(), "p2")
	assert.ErrorIs(t, err, mcontracts.ErrProductNotFound)
}

func TestStore_RunInTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.RunInTx(ctx, func(ctx context.Context, tx contracts.ReviewTx) error {
		require.NoError(t, tx.InsertReview(ctx, newReview(t, "r1", "p1", "u1")))
		require.NoError(t, tx.InsertOutboxEvent(ctx, &contracts.OutboxEvent{EventID: "e1"}))
		return domain.ErrPurchaseRequired
	})
	assert.ErrorIs(t, err, domain.ErrPurchaseRequired)
	assert.Equal(t, 0, s.ReviewCount("p1", "u1"))
	assert.Empty(t, s.OutboxEvents())
}

func TestStore_RunInTx_ReadsOwnWrites(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.RunInTx(ctx, func(ctx context.Context, tx contracts.ReviewTx) error {
		require.NoError(t, tx.InsertReview(ctx, newReview(t, "r1", "p1", "u1")))

		got, err := tx.FindReview(ctx, "p1", "u1")
		require.NoError(t, err)
		assert.Equal(t, "r1", got.ID())

		assert.ErrorIs(t, tx.InsertReview(ctx, newReview(t, "r2", "p1", "u1")), contracts.ErrDuplicateReview)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, s.ReviewCount("p1", "u1"))
}

func TestStore_CommitDetectsDuplicate(t *testing.T) {
	ctx := context.Background()
	s := New()

	// the outer transaction buffers its insert, then a second one commits first
	err := s.RunInTx(ctx, func(ctx context.Context, tx contracts.ReviewTx) error {
		require.NoError(t, tx.InsertReview(ctx, newReview(t, "r1", "p1", "u1")))

		inner := s.RunInTx(ctx, func(ctx context.Context, tx contracts.ReviewTx) error {
			return tx.InsertReview(ctx, newReview(t, "r2", "p1", "u1"))
		})
		require.NoError(t, inner)
		return nil
	})
	assert.ErrorIs(t, err, contracts.ErrDuplicateReview)
	assert.Equal(t, 1, s.ReviewCount("p1", "u1"))
}

func TestStore_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.RunInTx(ctx, func(ctx context.Context, tx contracts.ReviewTx) error {
		return tx.InsertReview(ctx, newReview(t, "r1", "p1", "u1"))
	}))

	require.NoError(t, s.RunInTx(ctx, func(ctx context.Context, tx contracts.ReviewTx) error {
		r, err := tx.FindReviewByID(ctx, "r1")
		require.NoError(t, err)
		rating := int64(1)
		require.NoError(t, r.ApplyPatch("u1", domain.Patch{Rating: &rating}, now.Add(time.Hour)))
		return tx.UpdateReview(ctx, r)
	}))

	exists, err := s.ReviewExists(ctx, "p1", "u1")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, s.RunInTx(ctx, func(ctx context.Context, tx contracts.ReviewTx) error {
		r, err := tx.FindReviewByID(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), r.Rating())
		require.NoError(t, tx.DeleteReview(ctx, "r1"))

		_, err = tx.FindReviewByID(ctx, "r1")
		assert.ErrorIs(t, err, contracts.ErrNotFound)
		_, err = tx.FindReview(ctx, "p1", "u1")
		assert.ErrorIs(t, err, contracts.ErrNotFound)
		return nil
	}))

	exists, err = s.ReviewExists(ctx, "p1", "u1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStore_CommitDetectsConcurrentDelete(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.RunInTx(ctx, func(ctx context.Context, tx contracts.ReviewTx) error {
		return tx.InsertReview(ctx, newReview(t, "r1", "p1", "u1"))
	}))

	deleteR1 := func(ctx context.Context, tx contracts.ReviewTx) error {
		return tx.DeleteReview(ctx, "r1")
	}

	t.Run("update", func(t *testing.T) {
		err := s.RunInTx(ctx, func(ctx context.Context, tx contracts.ReviewTx) error {
			r, err := tx.FindReviewByID(ctx, "r1")
			require.NoError(t, err)
			rating := int64(2)
			require.NoError(t, r.ApplyPatch("u1", domain.Patch{Rating: &rating}, now.Add(time.Hour)))
			require.NoError(t, tx.UpdateReview(ctx, r))

			require.NoError(t, s.RunInTx(ctx, deleteR1))
			return nil
		})
		assert.ErrorIs(t, err, contracts.ErrNotFound)
		assert.Equal(t, 0, s.ReviewCount("p1", "u1"))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.RunInTx(ctx, func(ctx context.Context, tx contracts.ReviewTx) error {
			return tx.InsertReview(ctx, newReview(t, "r1", "p1", "u1"))
		}))

		err := s.RunInTx(ctx, func(ctx context.Context, tx contracts.ReviewTx) error {
			require.NoError(t, tx.DeleteReview(ctx, "r1"))
			require.NoError(t, s.RunInTx(ctx, deleteR1))
			require.NoError(t, tx.InsertOutboxEvent(ctx, &contracts.OutboxEvent{EventID: "e1"}))
			return nil
		})
		assert.ErrorIs(t, err, contracts.ErrNotFound)
		assert.Empty(t, s.OutboxEvents())
	})
}

func TestStore_HasCompletedPurchase(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.PutOrder(Order{ID: "o1", UserID: "u1", Status: m_order.StatusCompleted, Items: []OrderItem{{ProductID: "p1", Quantity: 2}}})
	s.PutOrder(Order{ID: "o2", UserID: "u1", Status: m_order.StatusCancelled, Items: []OrderItem{{ProductID: "p2", Quantity: 1}}})

	ok, err := s.HasCompletedPurchase(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.HasCompletedPurchase(ctx, "u1", "p2")
	require.NoError(t, err)
	assert.False(t, ok)
}
