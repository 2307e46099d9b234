package seed

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"

	mdomain "github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/domain"
	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_order"
	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_order_item"
	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_product"
	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_user"
	"github.com/THXNXKXT/qr-studios-sub001/internal/pkg/committer"
	"github.com/THXNXKXT/qr-studios-sub001/internal/store/memory"
	"github.com/THXNXKXT/qr-studios-sub001/internal/store/sqlstore"
)

// Mutations returns the Spanner writes for rows, parents before children.
func (r *Rows) Mutations() []*spanner.Mutation {
	products := m_product.NewModel()
	users := m_user.NewModel()
	orders := m_order.NewModel()
	items := m_order_item.NewModel()

	muts := make([]*spanner.Mutation, 0, len(r.Products)+len(r.Users)+len(r.Orders)+len(r.Items))
	for _, p := range r.Products {
		muts = append(muts, products.InsertMut(p))
	}
	for _, u := range r.Users {
		muts = append(muts, users.InsertMut(u))
	}
	for _, o := range r.Orders {
		muts = append(muts, orders.InsertMut(o))
	}
	for _, i := range r.Items {
		muts = append(muts, items.InsertMut(i))
	}
	return muts
}

// ApplySpanner writes rows in one commit and returns the number of
// mutations applied.
func ApplySpanner(ctx context.Context, client *spanner.Client, rows *Rows) (int, error) {
	plan := committer.NewPlan()
	plan.AddMultiple(rows.Mutations())
	if err := committer.NewCommitter(client).Apply(ctx, plan); err != nil {
		return 0, fmt.Errorf("failed to apply fixture: %w", err)
	}
	return plan.Count(), nil
}

// ApplySQL writes rows to a SQL store.
func ApplySQL(ctx context.Context, store *sqlstore.Store, rows *Rows) error {
	return store.Seed(ctx, rows.Products, rows.Users, rows.Orders, rows.Items)
}

// ApplyMemory loads rows into a memory store.
func ApplyMemory(store *memory.Store, rows *Rows) {
	for _, p := range rows.Products {
		price, _ := mdomain.NewMoney(p.PriceNumerator, p.PriceDenominator)
		product := memory.Product{ID: p.ProductID, Name: p.Name, Price: price}
		if p.RewardPoints.Valid {
			points := p.RewardPoints.Int64
			product.RewardPoints = &points
		}
		store.PutProduct(product)
	}
	for _, u := range rows.Users {
		user := memory.User{ID: u.UserID, Username: u.Username}
		if u.Avatar.Valid {
			avatar := u.Avatar.StringVal
			user.Avatar = &avatar
		}
		store.PutUser(user)
	}

	lines := make(map[string][]memory.OrderItem)
	for _, i := range rows.Items {
		lines[i.OrderID] = append(lines[i.OrderID], memory.OrderItem{ProductID: i.ProductID, Quantity: i.Quantity})
	}
	for _, o := range rows.Orders {
		total, _ := mdomain.NewMoney(o.TotalNumerator, o.TotalDenominator)
		store.PutOrder(memory.Order{ID: o.OrderID, UserID: o.UserID, Status: o.Status, Total: total, Items: lines[o.OrderID]})
	}
}
