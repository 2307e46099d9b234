package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"cloud.google.com/go/spanner"

	"github.com/THXNXKXT/qr-studios-sub001/internal/config"
	"github.com/THXNXKXT/qr-studios-sub001/internal/seed"
	"github.com/THXNXKXT/qr-studios-sub001/internal/store/sqlstore"
)

func main() {
	fixturePath := flag.String("fixture", "fixtures/dev.yaml", "YAML fixture to load")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	fixture, err := seed.LoadFile(*fixturePath)
	if err != nil {
		log.Fatalf("Failed to load fixture: %v", err)
	}
	rows, err := fixture.Rows()
	if err != nil {
		log.Fatalf("Failed to validate fixture: %v", err)
	}

	if err := apply(ctx, cfg, rows); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d products, %d users, %d orders", len(rows.Products), len(rows.Users), len(rows.Orders))
}

func apply(ctx context.Context, cfg config.Config, rows *seed.Rows) error {
	switch cfg.StoreDriver {
	case config.DriverSpanner:
		client, err := spanner.NewClient(ctx, cfg.SpannerDB)
		if err != nil {
			return fmt.Errorf("failed to create Spanner client: %w", err)
		}
		defer client.Close()
		n, err := seed.ApplySpanner(ctx, client, rows)
		if err != nil {
			return err
		}
		log.Printf("Applied %d mutations", n)
		return nil

	case config.DriverPostgres, config.DriverSQLite:
		dialect, dsn := sqlstore.Postgres, cfg.DatabaseURL
		if cfg.StoreDriver == config.DriverSQLite {
			dialect, dsn = sqlstore.SQLite, cfg.SQLitePath
		}
		db, err := sqlstore.Open(ctx, dialect, dsn)
		if err != nil {
			return err
		}
		defer db.Close()
		store := sqlstore.New(db, dialect, nil)
		if err := store.Migrate(ctx); err != nil {
			return err
		}
		return seed.ApplySQL(ctx, store, rows)

	default:
		return fmt.Errorf("store driver %q cannot be seeded from the command line; set SEED_FILE instead", cfg.StoreDriver)
	}
}
