package memory

import (
	"context"

	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/contracts"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/domain"
)

// tx buffers writes until commit.
type tx struct {
	store *Store

	inserts map[string]reviewRow
	updates map[string]reviewRow
	deletes map[string]bool
	outbox  []contracts.OutboxEvent
}

var _ contracts.ReviewTx = (*tx)(nil)

func (t *tx) FindProduct(ctx context.Context, productID string) (*contracts.ProductSummary, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	p, ok := t.store.products[productID]
	if !ok {
		return nil, contracts.ErrNotFound
	}
	return &contracts.ProductSummary{ProductID: p.ID, Name: p.Name}, nil
}

func (t *tx) FindReview(ctx context.Context, productID, userID string) (*domain.Review, error) {
	for _, row := range t.inserts {
		if row.productID == productID && row.userID == userID {
			return row.toDomain(), nil
		}
	}

	t.store.mu.RLock()
	id, ok := t.store.byPair[pairKey{productID, userID}]
	t.store.mu.RUnlock()
	if !ok {
		return nil, contracts.ErrNotFound
	}
	return t.FindReviewByID(ctx, id)
}

func (t *tx) FindCompletedOrderWithItem(ctx context.Context, userID, productID string) (string, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	id, ok := t.store.completedOrderWithItem(userID, productID)
	if !ok {
		return "", contracts.ErrNotFound
	}
	return id, nil
}

func (t *tx) InsertReview(ctx context.Context, review *domain.Review) error {
	row := rowFrom(review)

	t.store.mu.RLock()
	_, taken := t.store.byPair[pairKey{row.productID, row.userID}]
	t.store.mu.RUnlock()
	if taken {
		return contracts.ErrDuplicateReview
	}
	for _, pending := range t.inserts {
		if pending.productID == row.productID && pending.userID == row.userID {
			return contracts.ErrDuplicateReview
		}
	}

	t.inserts[row.id] = row
	return nil
}

func (t *tx) FindUserPublic(ctx context.Context, userID string) (*domain.UserPublic, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	u := t.store.userPublic(userID)
	if u == nil {
		return nil, contracts.ErrNotFound
	}
	return u, nil
}

func (t *tx) FindReviewByID(ctx context.Context, reviewID string) (*domain.Review, error) {
	if t.deletes[reviewID] {
		return nil, contracts.ErrNotFound
	}
	if row, ok := t.updates[reviewID]; ok {
		return row.toDomain(), nil
	}
	if row, ok := t.inserts[reviewID]; ok {
		return row.toDomain(), nil
	}

	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	row, ok := t.store.reviews[reviewID]
	if !ok {
		return nil, contracts.ErrNotFound
	}
	return row.toDomain(), nil
}

func (t *tx) UpdateReview(ctx context.Context, review *domain.Review) error {
	if !review.Changes().HasChanges() {
		return nil
	}
	row := rowFrom(review)
	if _, ok := t.inserts[row.id]; ok {
		t.inserts[row.id] = row
		return nil
	}
	t.updates[row.id] = row
	return nil
}

func (t *tx) DeleteReview(ctx context.Context, reviewID string) error {
	if _, ok := t.inserts[reviewID]; ok {
		delete(t.inserts, reviewID)
		return nil
	}
	delete(t.updates, reviewID)
	t.deletes[reviewID] = true
	return nil
}

func (t *tx) InsertOutboxEvent(ctx context.Context, event *contracts.OutboxEvent) error {
	t.outbox = append(t.outbox, *event)
	return nil
}

// commit validates every buffered write before applying any of them.
func (t *tx) commit() error {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range t.inserts {
		if _, taken := s.byPair[pairKey{row.productID, row.userID}]; taken {
			return contracts.ErrDuplicateReview
		}
	}
	for id := range t.updates {
		if _, ok := s.reviews[id]; !ok {
			return contracts.ErrNotFound
		}
	}
	for id := range t.deletes {
		if _, ok := s.reviews[id]; !ok {
			return contracts.ErrNotFound
		}
	}

	for id, row := range t.inserts {
		s.reviews[id] = row
		s.byPair[pairKey{row.productID, row.userID}] = id
	}
	for id, row := range t.updates {
		s.reviews[id] = row
	}
	for id := range t.deletes {
		row := s.reviews[id]
		delete(s.byPair, pairKey{row.productID, row.userID})
		delete(s.reviews, id)
	}
	s.outbox = append(s.outbox, t.outbox...)
	return nil
}
