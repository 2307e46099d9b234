package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/contracts"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/domain"
	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_product"
	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_review"
	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_user"
	"github.com/THXNXKXT/qr-studios-sub001/internal/pkg/query"
)

// ReadModelImpl implements contracts.ReadModel for Spanner using
// single-use read-only transactions.
type ReadModelImpl struct {
	client  *spanner.Client
	reviews *m_review.Model
	users   *m_user.Model
}

// NewReadModel creates a new ReadModel implementation.
func NewReadModel(client *spanner.Client) *ReadModelImpl {
	return &ReadModelImpl{
		client:  client,
		reviews: m_review.NewModel(),
		users:   m_user.NewModel(),
	}
}

var _ contracts.ReadModel = (*ReadModelImpl)(nil)

// ProductExists implements contracts.ReadModel.
func (rm *ReadModelImpl) ProductExists(ctx context.Context, productID string) (bool, error) {
	_, err := rm.client.Single().ReadRow(ctx, m_product.TableName, spanner.Key{productID}, []string{m_product.ProductID})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read product: %w", err)
	}
	return true, nil
}

// ReviewExists implements contracts.ReadModel.
func (rm *ReadModelImpl) ReviewExists(ctx context.Context, productID, userID string) (bool, error) {
	stmt := query.From(m_review.TableName).
		Where(query.Eq(m_review.ProductID, productID)).
		Where(query.Eq(m_review.UserID, userID)).
		Count().
		Build()

	count, err := rm.count(ctx, stmt)
	if err != nil {
		return false, fmt.Errorf("failed to count reviews: %w", err)
	}
	return count > 0, nil
}

// HasCompletedPurchase implements contracts.ReadModel.
func (rm *ReadModelImpl) HasCompletedPurchase(ctx context.Context, userID, productID string) (bool, error) {
	iter := rm.client.Single().Query(ctx, CompletedOrderWithItemQuery(userID, productID))
	defer iter.Stop()

	_, err := iter.Next()
	if err == iterator.Done {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query orders: %w", err)
	}
	return true, nil
}

// ListReviews implements contracts.ReadModel. Reviews and stats are read
// in one read-only transaction so the count matches the page.
func (rm *ReadModelImpl) ListReviews(ctx context.Context, filter *contracts.ListFilter) (*contracts.ListResult, error) {
	ro := rm.client.ReadOnlyTransaction()
	defer ro.Close()

	base := query.From(m_review.TableName).Where(query.Eq(m_review.ProductID, filter.ProductID))

	statsStmt := base.Select("COUNT(*)", "COALESCE(AVG(CAST("+m_review.Rating+" AS FLOAT64)), 0)").Build()
	statsIter := ro.Query(ctx, statsStmt)
	statsRow, err := statsIter.Next()
	if err != nil {
		statsIter.Stop()
		return nil, fmt.Errorf("failed to query review stats: %w", err)
	}
	result := &contracts.ListResult{}
	if err := statsRow.Columns(&result.TotalCount, &result.AverageRating); err != nil {
		statsIter.Stop()
		return nil, fmt.Errorf("failed to parse review stats: %w", err)
	}
	statsIter.Stop()

	stmt := base.
		Select(rm.reviews.Columns()...).
		OrderBy(m_review.CreatedAt, query.Desc).
		Limit(filter.Limit).
		Build()

	iter := ro.Query(ctx, stmt)
	defer iter.Stop()

	reviews := make([]*domain.Review, 0, filter.Limit)
	userIDs := make([]string, 0, filter.Limit)
	seen := make(map[string]bool)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate reviews: %w", err)
		}
		review, err := rowToReview(row)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
		if !seen[review.UserID()] {
			seen[review.UserID()] = true
			userIDs = append(userIDs, review.UserID())
		}
	}

	users, err := rm.usersByID(ctx, ro, userIDs)
	if err != nil {
		return nil, err
	}

	result.Reviews = make([]*contracts.ReviewWithUser, 0, len(reviews))
	for _, r := range reviews {
		result.Reviews = append(result.Reviews, contracts.NewReviewWithUser(r, users[r.UserID()]))
	}
	return result, nil
}

func (rm *ReadModelImpl) usersByID(ctx context.Context, ro *spanner.ReadOnlyTransaction, ids []string) (map[string]*domain.UserPublic, error) {
	users := make(map[string]*domain.UserPublic, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	stmt := query.From(m_user.TableName).
		Select(rm.users.PublicColumns()...).
		Where(query.In(m_user.UserID, ids)).
		Build()

	iter := ro.Query(ctx, stmt)
	defer iter.Stop()

	for {
		row, err := iter.Next()
		if err == iterator.Done {
			return users, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate users: %w", err)
		}
		u, err := rowToUserPublic(row)
		if err != nil {
			return nil, err
		}
		users[u.ID] = u
	}
}

func (rm *ReadModelImpl) count(ctx context.Context, stmt spanner.Statement) (int64, error) {
	iter := rm.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, err
	}
	var n int64
	if err := row.Columns(&n); err != nil {
		return 0, err
	}
	return n, nil
}
