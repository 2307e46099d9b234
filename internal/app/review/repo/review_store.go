package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/contracts"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/domain"
	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_order"
	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_order_item"
	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_outbox"
	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_product"
	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_review"
	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_user"
	"github.com/THXNXKXT/qr-studios-sub001/internal/pkg/committer"
	"github.com/THXNXKXT/qr-studios-sub001/internal/pkg/query"
)

// ReviewStore implements contracts.ReviewStore on Cloud Spanner.
// Reads go through the read-write transaction; writes are buffered into a
// CommitPlan and applied at commit.
type ReviewStore struct {
	committer *committer.Committer
	reviews   *m_review.Model
	products  *m_product.Model
	users     *m_user.Model
	outbox    *m_outbox.Model
}

// NewReviewStore creates a new ReviewStore.
func NewReviewStore(comm *committer.Committer) *ReviewStore {
	return &ReviewStore{
		committer: comm,
		reviews:   m_review.NewModel(),
		products:  m_product.NewModel(),
		users:     m_user.NewModel(),
		outbox:    m_outbox.NewModel(),
	}
}

var _ contracts.ReviewStore = (*ReviewStore)(nil)

// RunInTx implements contracts.ReviewStore.
func (s *ReviewStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx contracts.ReviewTx) error) error {
	err := s.committer.ReadWrite(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction, plan *committer.CommitPlan) error {
		return fn(ctx, &spannerTx{store: s, txn: txn, plan: plan})
	})
	return classifyTxError(err)
}

type spannerTx struct {
	store *ReviewStore
	txn   *spanner.ReadWriteTransaction
	plan  *committer.CommitPlan
}

func (t *spannerTx) FindProduct(ctx context.Context, productID string) (*contracts.ProductSummary, error) {
	row, err := t.txn.ReadRow(ctx, m_product.TableName, spanner.Key{productID}, []string{m_product.ProductID, m_product.Name})
	if err != nil {
		if isNotFound(err) {
			return nil, contracts.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read product: %w", err)
	}

	var summary contracts.ProductSummary
	if err := row.Columns(&summary.ProductID, &summary.Name); err != nil {
		return nil, fmt.Errorf("failed to parse product: %w", err)
	}
	return &summary, nil
}

func (t *spannerTx) FindReview(ctx context.Context, productID, userID string) (*domain.Review, error) {
	stmt := query.From(m_review.TableName).
		Select(t.store.reviews.Columns()...).
		Where(query.Eq(m_review.ProductID, productID)).
		Where(query.Eq(m_review.UserID, userID)).
		Limit(1).
		Build()

	iter := t.txn.Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err == iterator.Done {
		return nil, contracts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query review: %w", err)
	}
	return rowToReview(row)
}

func (t *spannerTx) FindCompletedOrderWithItem(ctx context.Context, userID, productID string) (string, error) {
	stmt := CompletedOrderWithItemQuery(userID, productID)

	iter := t.txn.Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err == iterator.Done {
		return "", contracts.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query orders: %w", err)
	}

	var orderID string
	if err := row.Columns(&orderID); err != nil {
		return "", fmt.Errorf("failed to parse order: %w", err)
	}
	return orderID, nil
}

func (t *spannerTx) InsertReview(ctx context.Context, review *domain.Review) error {
	t.plan.Add(t.store.reviews.InsertMut(reviewToData(review)))
	return nil
}

func (t *spannerTx) FindUserPublic(ctx context.Context, userID string) (*domain.UserPublic, error) {
	row, err := t.txn.ReadRow(ctx, m_user.TableName, spanner.Key{userID}, t.store.users.PublicColumns())
	if err != nil {
		if isNotFound(err) {
			return nil, contracts.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read user: %w", err)
	}
	return rowToUserPublic(row)
}

func (t *spannerTx) FindReviewByID(ctx context.Context, reviewID string) (*domain.Review, error) {
	row, err := t.txn.ReadRow(ctx, m_review.TableName, spanner.Key{reviewID}, t.store.reviews.Columns())
	if err != nil {
		if isNotFound(err) {
			return nil, contracts.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read review: %w", err)
	}
	return rowToReview(row)
}

func (t *spannerTx) UpdateReview(ctx context.Context, review *domain.Review) error {
	t.plan.Add(t.store.reviews.UpdateMut(review.ID(), ReviewUpdates(review)))
	return nil
}

func (t *spannerTx) DeleteReview(ctx context.Context, reviewID string) error {
	t.plan.Add(t.store.reviews.DeleteMut(reviewID))
	return nil
}

func (t *spannerTx) InsertOutboxEvent(ctx context.Context, event *contracts.OutboxEvent) error {
	data := m_outbox.NewData(event.EventID, event.EventType, event.AggregateID, event.Payload)
	t.plan.Add(t.store.outbox.InsertMut(data))
	return nil
}

// CompletedOrderWithItemQuery finds one COMPLETED order of userID that
// contains productID.
func CompletedOrderWithItemQuery(userID, productID string) spanner.Statement {
	return query.From(m_order.TableName+" o").
		Select("o."+m_order.OrderID).
		Join(m_order_item.TableName+" i", "i."+m_order_item.OrderID+" = o."+m_order.OrderID).
		Where(query.Eq("o."+m_order.UserID, userID)).
		Where(query.Eq("o."+m_order.Status, m_order.StatusCompleted)).
		Where(query.Eq("i."+m_order_item.ProductID, productID)).
		Limit(1).
		Build()
}

// ReviewUpdates returns the column updates for the review's dirty fields.
func ReviewUpdates(review *domain.Review) map[string]interface{} {
	changes := review.Changes()
	updates := make(map[string]interface{})
	if changes.Dirty(domain.FieldRating) {
		updates[m_review.Rating] = review.Rating()
	}
	if changes.Dirty(domain.FieldComment) {
		updates[m_review.Comment] = review.Comment()
	}
	if changes.Dirty(domain.FieldUpdatedAt) {
		updates[m_review.UpdatedAt] = review.UpdatedAt()
	}
	return updates
}

func reviewToData(r *domain.Review) *m_review.Data {
	return &m_review.Data{
		ReviewID:   r.ID(),
		ProductID:  r.ProductID(),
		UserID:     r.UserID(),
		Rating:     r.Rating(),
		Comment:    r.Comment(),
		IsVerified: r.IsVerified(),
		CreatedAt:  r.CreatedAt(),
		UpdatedAt:  r.UpdatedAt(),
	}
}

func dataToReview(d *m_review.Data) *domain.Review {
	return domain.ReconstructReview(d.ReviewID, d.ProductID, d.UserID, d.Rating, d.Comment, d.IsVerified, d.CreatedAt, d.UpdatedAt)
}

func rowToReview(row *spanner.Row) (*domain.Review, error) {
	var data m_review.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse review: %w", err)
	}
	return dataToReview(&data), nil
}

func rowToUserPublic(row *spanner.Row) (*domain.UserPublic, error) {
	var (
		id, username string
		avatar       spanner.NullString
	)
	if err := row.Columns(&id, &username, &avatar); err != nil {
		return nil, fmt.Errorf("failed to parse user: %w", err)
	}
	u := &domain.UserPublic{ID: id, Username: username}
	if avatar.Valid {
		u.Avatar = &avatar.StringVal
	}
	return u, nil
}
