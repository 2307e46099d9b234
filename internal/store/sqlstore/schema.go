package sqlstore

import (
	"context"
	"fmt"
)

// buildSchema returns the DDL statements, using ts as the timestamp type.
func buildSchema(ts string) []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS products (
			product_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			price_numerator BIGINT NOT NULL,
			price_denominator BIGINT NOT NULL,
			reward_points BIGINT,
			created_at ` + ts + ` NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at ` + ts + ` NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			user_id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			avatar TEXT,
			role TEXT NOT NULL DEFAULT 'USER',
			created_at ` + ts + ` NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			order_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			status TEXT NOT NULL,
			total_numerator BIGINT NOT NULL,
			total_denominator BIGINT NOT NULL,
			created_at ` + ts + ` NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS orders_user_status_idx ON orders (user_id, status)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			order_id TEXT NOT NULL REFERENCES orders (order_id) ON DELETE CASCADE,
			product_id TEXT NOT NULL,
			quantity BIGINT NOT NULL,
			unit_price_numerator BIGINT NOT NULL,
			unit_price_denominator BIGINT NOT NULL,
			PRIMARY KEY (order_id, product_id)
		)`,
		`CREATE TABLE IF NOT EXISTS reviews (
			review_id TEXT PRIMARY KEY,
			product_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			rating BIGINT NOT NULL CHECK (rating BETWEEN 1 AND 5),
			comment TEXT NOT NULL,
			is_verified BOOLEAN NOT NULL,
			created_at ` + ts + ` NOT NULL,
			updated_at ` + ts + ` NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS reviews_product_user_idx ON reviews (product_id, user_id)`,
		`CREATE TABLE IF NOT EXISTS outbox_events (
			event_id TEXT PRIMARY KEY,
			event_type TEXT NOT NULL,
			aggregate_id TEXT NOT NULL,
			payload TEXT,
			status TEXT NOT NULL,
			created_at ` + ts + ` NOT NULL,
			processed_at ` + ts + `,
			retry_count BIGINT NOT NULL DEFAULT 0,
			error_message TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS outbox_status_created_idx ON outbox_events (status, created_at)`,
	}
}

// Migrate creates any missing tables and indexes.
func (s *Store) Migrate(ctx context.Context) error {
	for i, stmt := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
