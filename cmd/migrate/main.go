package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/THXNXKXT/qr-studios-sub001/internal/config"
	"github.com/THXNXKXT/qr-studios-sub001/internal/services"
)

var (
	driver     = flag.String("driver", "", "Store driver to migrate (spanner, postgres, sqlite); defaults to STORE_DRIVER")
	migrateDir = flag.String("migrations", "migrations", "Directory containing Spanner migration SQL files")
)

func main() {
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *driver != "" {
		cfg.StoreDriver = *driver
	}

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations completed successfully!")
}

func run(ctx context.Context, cfg config.Config) error {
	switch cfg.StoreDriver {
	case config.DriverSpanner:
		if host := os.Getenv("SPANNER_EMULATOR_HOST"); host != "" {
			log.Printf("Using Spanner emulator at %s", host)
		}
		target, err := parseDatabasePath(cfg.SpannerDB)
		if err != nil {
			return err
		}
		return migrateSpanner(ctx, target, *migrateDir)

	case config.DriverPostgres, config.DriverSQLite:
		// Opening a SQL store applies its embedded schema.
		log.Printf("Applying %s schema...", cfg.StoreDriver)
		stores, err := services.OpenStores(ctx, cfg, nil)
		if err != nil {
			return err
		}
		return stores.Close()

	case config.DriverMemory:
		log.Println("Memory store has no schema")
		return nil

	default:
		return fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
