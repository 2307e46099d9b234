// Package memory is an in-process store for local runs and tests.
//
// Transactions buffer their writes and apply them under the store lock at
// commit. Reads inside a transaction see committed state plus the
// transaction's own writes, so two transactions can both pass an existence
// check; the (product, user) uniqueness check at insert and again at commit
// decides which one wins.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	mcontracts "github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/contracts"
	mdomain "github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/domain"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/contracts"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/domain"
	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_order"
)

// Product is a catalog entry.
type Product struct {
	ID           string
	Name         string
	Price        *mdomain.Money
	RewardPoints *int64
}

// User is an account with its public profile.
type User struct {
	ID       string
	Username string
	Avatar   *string
}

// OrderItem is one order line.
type OrderItem struct {
	ProductID string
	Quantity  int64
}

// Order is a placed order.
type Order struct {
	ID     string
	UserID string
	Status string
	Total  *mdomain.Money
	Items  []OrderItem
}

type pairKey struct {
	productID string
	userID    string
}

type reviewRow struct {
	id         string
	productID  string
	userID     string
	rating     int64
	comment    string
	isVerified bool
	createdAt  time.Time
	updatedAt  time.Time
}

func rowFrom(r *domain.Review) reviewRow {
	return reviewRow{
		id:         r.ID(),
		productID:  r.ProductID(),
		userID:     r.UserID(),
		rating:     r.Rating(),
		comment:    r.Comment(),
		isVerified: r.IsVerified(),
		createdAt:  r.CreatedAt(),
		updatedAt:  r.UpdatedAt(),
	}
}

func (row reviewRow) toDomain() *domain.Review {
	return domain.ReconstructReview(row.id, row.productID, row.userID, row.rating, row.comment, row.isVerified, row.createdAt, row.updatedAt)
}

// Store holds all state in memory. Safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	products map[string]Product
	users    map[string]User
	orders   map[string]Order
	reviews  map[string]reviewRow
	byPair   map[pairKey]string
	outbox   []contracts.OutboxEvent
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		products: make(map[string]Product),
		users:    make(map[string]User),
		orders:   make(map[string]Order),
		reviews:  make(map[string]reviewRow),
		byPair:   make(map[pairKey]string),
	}
}

// PutProduct inserts or replaces a product.
func (s *Store) PutProduct(p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

// PutUser inserts or replaces a user.
func (s *Store) PutUser(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// PutOrder inserts or replaces an order.
func (s *Store) PutOrder(o Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]OrderItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	s.orders[o.ID] = o
}

// ReviewCount returns the number of reviews stored for a pair.
func (s *Store) ReviewCount(productID, userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, row := range s.reviews {
		if row.productID == productID && row.userID == userID {
			n++
		}
	}
	return n
}

// OutboxEvents returns a copy of every committed outbox event in commit order.
func (s *Store) OutboxEvents() []contracts.OutboxEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]contracts.OutboxEvent, len(s.outbox))
	copy(out, s.outbox)
	return out
}

// RunInTx runs fn against a buffered transaction and commits on success.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx contracts.ReviewTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &tx{
		store:   s,
		inserts: make(map[string]reviewRow),
		updates: make(map[string]reviewRow),
		deletes: make(map[string]bool),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.commit()
}

// ProductExists implements contracts.ReadModel.
func (s *Store) ProductExists(ctx context.Context, productID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.products[productID]
	return ok, nil
}

// ReviewExists implements contracts.ReadModel.
func (s *Store) ReviewExists(ctx context.Context, productID, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byPair[pairKey{productID, userID}]
	return ok, nil
}

// HasCompletedPurchase implements contracts.ReadModel.
func (s *Store) HasCompletedPurchase(ctx context.Context, userID, productID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.completedOrderWithItem(userID, productID)
	return ok, nil
}

// ListReviews implements contracts.ReadModel.
func (s *Store) ListReviews(ctx context.Context, filter *contracts.ListFilter) (*contracts.ListResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]reviewRow, 0)
	var sum int64
	for _, row := range s.reviews {
		if row.productID == filter.ProductID {
			rows = append(rows, row)
			sum += row.rating
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].createdAt.Equal(rows[j].createdAt) {
			return rows[i].createdAt.After(rows[j].createdAt)
		}
		return rows[i].id > rows[j].id
	})

	result := &contracts.ListResult{TotalCount: int64(len(rows))}
	if len(rows) > 0 {
		result.AverageRating = float64(sum) / float64(len(rows))
	}
	if filter.Limit > 0 && int64(len(rows)) > filter.Limit {
		rows = rows[:filter.Limit]
	}
	result.Reviews = make([]*contracts.ReviewWithUser, 0, len(rows))
	for _, row := range rows {
		result.Reviews = append(result.Reviews, contracts.NewReviewWithUser(row.toDomain(), s.userPublic(row.userID)))
	}
	return result, nil
}

// CompletedSpend implements the membership SpendReader.
func (s *Store) CompletedSpend(ctx context.Context, userID string) (*mdomain.Money, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := mdomain.Zero()
	for _, o := range s.orders {
		if o.UserID == userID && o.Status == m_order.StatusCompleted && o.Total != nil {
			total = total.Add(o.Total)
		}
	}
	return total, nil
}

// ProductPricing implements the membership CatalogReader.
func (s *Store) ProductPricing(ctx context.Context, productID string) (*mcontracts.ProductPricing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[productID]
	if !ok {
		return nil, mcontracts.ErrProductNotFound
	}
	price := mdomain.Zero()
	if p.Price != nil {
		price = p.Price.Copy()
	}
	return &mcontracts.ProductPricing{ProductID: p.ID, Price: price, Points: p.RewardPoints}, nil
}

// caller holds s.mu
func (s *Store) completedOrderWithItem(userID, productID string) (string, bool) {
	ids := make([]string, 0, len(s.orders))
	for id := range s.orders {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		o := s.orders[id]
		if o.UserID != userID || o.Status != m_order.StatusCompleted {
			continue
		}
		for _, item := range o.Items {
			if item.ProductID == productID {
				return o.ID, true
			}
		}
	}
	return "", false
}

// caller holds s.mu
func (s *Store) userPublic(userID string) *domain.UserPublic {
	u, ok := s.users[userID]
	if !ok {
		return nil
	}
	return &domain.UserPublic{ID: u.ID, Username: u.Username, Avatar: u.Avatar}
}
