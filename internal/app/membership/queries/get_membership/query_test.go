package get_membership

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/domain"
)

type stubSpend struct {
	total *domain.Money
	err   error
}

func (s *stubSpend) CompletedSpend(ctx context.Context, userID string) (*domain.Money, error) {
	return s.total, s.err
}

func TestGetMembership(t *testing.T) {
	t.Run("gold member halfway to platinum", func(t *testing.T) {
		got, err := NewQuery(&stubSpend{total: domain.Units(5000)}).Execute(context.Background(), &Request{UserID: "user-1"})
		require.NoError(t, err)

		assert.Equal(t, domain.TierGold, got.Tier)
		assert.Equal(t, "Gold", got.TierName)
		assert.Equal(t, int64(4), got.DiscountPercent)
		require.NotNil(t, got.NextTier)
		assert.Equal(t, domain.TierPlatinum, got.NextTier.Tier)
		assert.True(t, got.RemainingSpend.Equals(domain.Units(2000)))
		assert.Equal(t, int64(50), got.ProgressPercent)
	})

	t.Run("new user is bronze", func(t *testing.T) {
		got, err := NewQuery(&stubSpend{total: domain.Zero()}).Execute(context.Background(), &Request{UserID: "user-2"})
		require.NoError(t, err)
		assert.Equal(t, domain.TierBronze, got.Tier)
		assert.Equal(t, int64(0), got.DiscountPercent)
	})

	t.Run("reader failure propagates", func(t *testing.T) {
		boom := errors.New("db down")
		_, err := NewQuery(&stubSpend{err: boom}).Execute(context.Background(), &Request{UserID: "user-3"})
		assert.ErrorIs(t, err, boom)
	})
}
