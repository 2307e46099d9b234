package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_order"
	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_order_item"
	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_product"
	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_user"
)

const (
	upsertProductSQL = `INSERT INTO products (product_id, name, price_numerator, price_denominator, reward_points)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (product_id) DO UPDATE SET name = excluded.name, price_numerator = excluded.price_numerator,
price_denominator = excluded.price_denominator, reward_points = excluded.reward_points, updated_at = CURRENT_TIMESTAMP`

	upsertUserSQL = `INSERT INTO users (user_id, username, avatar, role) VALUES (?, ?, ?, ?)
ON CONFLICT (user_id) DO UPDATE SET username = excluded.username, avatar = excluded.avatar, role = excluded.role`

	insertOrderSQL = `INSERT INTO orders (order_id, user_id, status, total_numerator, total_denominator) VALUES (?, ?, ?, ?, ?)
ON CONFLICT (order_id) DO NOTHING`

	insertOrderItemSQL = `INSERT INTO order_items (order_id, product_id, quantity, unit_price_numerator, unit_price_denominator)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (order_id, product_id) DO NOTHING`
)

// Seed upserts catalog and account rows and inserts orders that do not
// exist yet, all in one transaction.
func (s *Store) Seed(ctx context.Context, products []*m_product.Data, users []*m_user.Data, orders []*m_order.Data, items []*m_order_item.Data) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	exec := func(query string, args ...interface{}) error {
		_, err := tx.ExecContext(ctx, s.q(query), args...)
		return err
	}

	for _, p := range products {
		points := sql.NullInt64{Int64: p.RewardPoints.Int64, Valid: p.RewardPoints.Valid}
		if err := exec(upsertProductSQL, p.ProductID, p.Name, p.PriceNumerator, p.PriceDenominator, points); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to seed product %s: %w", p.ProductID, err)
		}
	}
	for _, u := range users {
		avatar := sql.NullString{String: u.Avatar.StringVal, Valid: u.Avatar.Valid}
		if err := exec(upsertUserSQL, u.UserID, u.Username, avatar, u.Role); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to seed user %s: %w", u.UserID, err)
		}
	}
	for _, o := range orders {
		if err := exec(insertOrderSQL, o.OrderID, o.UserID, o.Status, o.TotalNumerator, o.TotalDenominator); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to seed order %s: %w", o.OrderID, err)
		}
	}
	for _, i := range items {
		if err := exec(insertOrderItemSQL, i.OrderID, i.ProductID, i.Quantity, i.UnitPriceNumerator, i.UnitPriceDenominator); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to seed order line %s/%s: %w", i.OrderID, i.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	return nil
}
