package storefront

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	mdomain "github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/domain"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/queries/get_membership"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/queries/quote_checkout"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/queries/list_reviews"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/queries/review_eligibility"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/usecases/delete_review"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/usecases/submit_review"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/usecases/update_review"
	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_order"
	"github.com/THXNXKXT/qr-studios-sub001/internal/pkg/auth"
	"github.com/THXNXKXT/qr-studios-sub001/internal/pkg/clock"
	"github.com/THXNXKXT/qr-studios-sub001/internal/store/memory"
)

var testTime = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	client   *Client
	verifier *auth.Verifier
	store    *memory.Store
}

func setupServer(t *testing.T) *testEnv {
	t.Helper()

	store := memory.New()
	points := int64(40)
	store.PutProduct(memory.Product{ID: "prod-1", Name: "Inventory UI Kit", Price: mdomain.Units(1000), RewardPoints: &points})
	store.PutProduct(memory.Product{ID: "prod-2", Name: "Garage Script", Price: mdomain.Units(250)})
	store.PutUser(memory.User{ID: "buyer", Username: "buyer01"})
	store.PutUser(memory.User{ID: "other", Username: "other01"})
	store.PutOrder(memory.Order{
		ID: "order-1", UserID: "buyer", Status: m_order.StatusCompleted, Total: mdomain.Units(5000),
		Items: []memory.OrderItem{{ProductID: "prod-1", Quantity: 1}},
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := clock.NewMockClock(testTime)
	verifier := auth.NewVerifier([]byte("test-secret"), nil)

	handler := NewHandler(
		submit_review.NewInteractor(store, clk, logger, nil),
		update_review.NewInteractor(store, clk, logger, nil),
		delete_review.NewInteractor(store, clk, logger, nil),
		list_reviews.NewQuery(store),
		review_eligibility.NewQuery(store),
		get_membership.NewQuery(store),
		quote_checkout.NewQuery(store, store),
	)

	lis := bufconn.Listen(1 << 20)
	server := grpc.NewServer(grpc.ChainUnaryInterceptor(
		LoggingInterceptor(logger),
		AuthInterceptor(verifier),
	))
	Register(server, handler)
	go func() { _ = server.Serve(lis) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &testEnv{client: NewClient(conn), verifier: verifier, store: store}
}

func (e *testEnv) as(t *testing.T, userID, role string) context.Context {
	t.Helper()
	token, err := e.verifier.Issue(userID, role, time.Hour)
	require.NoError(t, err)
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+token)
}

func TestGRPC_ListTiersIsPublic(t *testing.T) {
	env := setupServer(t)

	out, err := env.client.Call(context.Background(), "ListTiers", nil)
	require.NoError(t, err)
	tiers := out.Fields["tiers"].GetListValue().GetValues()
	require.Len(t, tiers, 8)
	assert.Equal(t, "BRONZE", tiers[0].GetStructValue().Fields["tier"].GetStringValue())
}

func TestGRPC_SubmitReview(t *testing.T) {
	env := setupServer(t)
	req := map[string]interface{}{"product_id": "prod-1", "rating": 5, "comment": "great"}

	t.Run("requires a caller", func(t *testing.T) {
		_, err := env.client.Call(context.Background(), "SubmitReview", req)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("rejects a bad token", func(t *testing.T) {
		ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer nope")
		_, err := env.client.Call(ctx, "SubmitReview", req)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("non purchaser is forbidden", func(t *testing.T) {
		_, err := env.client.Call(env.as(t, "other", "USER"), "SubmitReview", req)
		assert.Equal(t, codes.PermissionDenied, status.Code(err))
		assert.Equal(t, "must purchase before reviewing", status.Convert(err).Message())
	})

	t.Run("fractional rating is invalid", func(t *testing.T) {
		bad := map[string]interface{}{"product_id": "prod-1", "rating": 4.5, "comment": "great"}
		_, err := env.client.Call(env.as(t, "buyer", "USER"), "SubmitReview", bad)
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("purchaser succeeds once", func(t *testing.T) {
		ctx := env.as(t, "buyer", "USER")
		out, err := env.client.Call(ctx, "SubmitReview", req)
		require.NoError(t, err)
		assert.True(t, out.Fields["is_verified"].GetBoolValue())
		assert.Equal(t, float64(5), out.Fields["rating"].GetNumberValue())
		assert.Equal(t, "buyer01", out.Fields["user"].GetStructValue().Fields["username"].GetStringValue())

		_, err = env.client.Call(ctx, "SubmitReview", req)
		assert.Equal(t, codes.FailedPrecondition, status.Code(err))
		assert.Equal(t, "already reviewed", status.Convert(err).Message())
		assert.Equal(t, 1, env.store.ReviewCount("prod-1", "buyer"))
	})

	t.Run("unknown product", func(t *testing.T) {
		missing := map[string]interface{}{"product_id": "nope", "rating": 5, "comment": "great"}
		_, err := env.client.Call(env.as(t, "buyer", "USER"), "SubmitReview", missing)
		assert.Equal(t, codes.NotFound, status.Code(err))
	})
}

func TestGRPC_UpdateAndDeleteReview(t *testing.T) {
	env := setupServer(t)
	buyer := env.as(t, "buyer", "USER")

	out, err := env.client.Call(buyer, "SubmitReview", map[string]interface{}{"product_id": "prod-1", "rating": 3, "comment": "ok"})
	require.NoError(t, err)
	reviewID := out.Fields["review_id"].GetStringValue()

	_, err = env.client.Call(env.as(t, "other", "USER"), "UpdateReview", map[string]interface{}{"review_id": reviewID, "rating": 1})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = env.client.Call(buyer, "UpdateReview", map[string]interface{}{"review_id": reviewID})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	out, err = env.client.Call(buyer, "UpdateReview", map[string]interface{}{"review_id": reviewID, "comment": "better"})
	require.NoError(t, err)
	assert.Equal(t, "better", out.Fields["comment"].GetStringValue())
	assert.Equal(t, float64(3), out.Fields["rating"].GetNumberValue())

	_, err = env.client.Call(env.as(t, "other", "USER"), "DeleteReview", map[string]interface{}{"review_id": reviewID})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = env.client.Call(env.as(t, "admin", "ADMIN"), "DeleteReview", map[string]interface{}{"review_id": reviewID})
	require.NoError(t, err)
	assert.Equal(t, 0, env.store.ReviewCount("prod-1", "buyer"))

	_, err = env.client.Call(buyer, "DeleteReview", map[string]interface{}{"review_id": reviewID})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestGRPC_EligibilityAndList(t *testing.T) {
	env := setupServer(t)
	buyer := env.as(t, "buyer", "USER")

	out, err := env.client.Call(buyer, "GetReviewEligibility", map[string]interface{}{"product_id": "prod-1"})
	require.NoError(t, err)
	assert.Equal(t, "PURCHASED_NO_REVIEW", out.Fields["state"].GetStringValue())
	assert.True(t, out.Fields["can_submit"].GetBoolValue())

	_, err = env.client.Call(buyer, "SubmitReview", map[string]interface{}{"product_id": "prod-1", "rating": 4, "comment": "solid"})
	require.NoError(t, err)

	out, err = env.client.Call(context.Background(), "ListReviews", map[string]interface{}{"product_id": "prod-1"})
	require.NoError(t, err)
	assert.Equal(t, float64(1), out.Fields["total_count"].GetNumberValue())
	assert.Equal(t, float64(4), out.Fields["average_rating"].GetNumberValue())
}

func TestGRPC_MembershipAndQuote(t *testing.T) {
	env := setupServer(t)
	buyer := env.as(t, "buyer", "USER")

	out, err := env.client.Call(buyer, "GetMembership", nil)
	require.NoError(t, err)
	assert.Equal(t, "GOLD", out.Fields["tier"].GetStringValue())
	assert.Equal(t, "5000.00", out.Fields["total_spent"].GetStringValue())

	out, err = env.client.Call(buyer, "QuoteCheckout", map[string]interface{}{
		"lines": []interface{}{
			map[string]interface{}{"product_id": "prod-1", "quantity": 1},
		},
		"promo_percent": 10,
	})
	require.NoError(t, err)
	// 1000 - 100 promo - 40 gold discount
	assert.Equal(t, "860.00", out.Fields["total"].GetStringValue())
	assert.Equal(t, "40.00", out.Fields["tier_discount"].GetStringValue())
	assert.Equal(t, float64(40), out.Fields["reward_points"].GetNumberValue())

	_, err = env.client.Call(buyer, "QuoteCheckout", map[string]interface{}{"lines": []interface{}{}})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = env.client.Call(buyer, "QuoteCheckout", map[string]interface{}{
		"lines": []interface{}{map[string]interface{}{"product_id": "missing", "quantity": 1}},
	})
	assert.Equal(t, codes.NotFound, status.Code(err))
}
