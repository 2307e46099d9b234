package list_reviews

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mdomain "github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/domain"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/domain"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/usecases/submit_review"
	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_order"
	"github.com/THXNXKXT/qr-studios-sub001/internal/pkg/clock"
	"github.com/THXNXKXT/qr-studios-sub001/internal/store/memory"
)

func seed(t *testing.T, ratings ...int64) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	store.PutProduct(memory.Product{ID: "prod-1", Name: "Vehicle Pack", Price: mdomain.Units(700)})
	store.PutProduct(memory.Product{ID: "prod-2", Name: "Empty", Price: mdomain.Units(10)})

	clk := clock.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	submit := submit_review.NewInteractor(store, clk, nil, nil)

	for i, rating := range ratings {
		userID := fmt.Sprintf("user-%d", i)
		store.PutUser(memory.User{ID: userID, Username: fmt.Sprintf("player%d", i)})
		store.PutOrder(memory.Order{
			ID:     fmt.Sprintf("order-%d", i),
			UserID: userID,
			Status: m_order.StatusCompleted,
			Total:  mdomain.Units(700),
			Items:  []memory.OrderItem{{ProductID: "prod-1", Quantity: 1}},
		})
		_, err := submit.Execute(ctx, &submit_review.Request{
			ProductID: "prod-1",
			UserID:    userID,
			Rating:    rating,
			Comment:   fmt.Sprintf("review %d", i),
		})
		require.NoError(t, err)
		clk.Advance(time.Minute)
	}
	return store
}

func TestListReviews_NewestFirstWithStats(t *testing.T) {
	store := seed(t, 5, 4, 3, 4)

	got, err := NewQuery(store).Execute(context.Background(), &Request{ProductID: "prod-1", Limit: 2})
	require.NoError(t, err)

	assert.Equal(t, int64(4), got.TotalCount)
	assert.InDelta(t, 4.0, got.AverageRating, 1e-9)
	require.Len(t, got.Reviews, 2)
	assert.Equal(t, "review 3", got.Reviews[0].Comment)
	assert.Equal(t, "review 2", got.Reviews[1].Comment)
	assert.Equal(t, "player3", got.Reviews[0].User.Username)
}

func TestListReviews_DefaultLimitAndEmpty(t *testing.T) {
	store := seed(t, 5)

	got, err := NewQuery(store).Execute(context.Background(), &Request{ProductID: "prod-2"})
	require.NoError(t, err)
	assert.Zero(t, got.TotalCount)
	assert.Zero(t, got.AverageRating)
	assert.Empty(t, got.Reviews)
}

func TestListReviews_UnknownProduct(t *testing.T) {
	_, err := NewQuery(memory.New()).Execute(context.Background(), &Request{ProductID: "missing"})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
