package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/THXNXKXT/qr-studios-sub001/internal/config"
	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_outbox"
	"github.com/THXNXKXT/qr-studios-sub001/internal/outbox"
)

// Options for the outbox cleanup job
type Options struct {
	SpannerDB              string
	CompletedRetentionDays int
	FailedRetentionDays    int
	DryRun                 bool
}

func main() {
	opts := Options{}
	flag.StringVar(&opts.SpannerDB, "database", "", "Spanner database (format: projects/PROJECT/instances/INSTANCE/databases/DATABASE); defaults to SPANNER_DATABASE")
	flag.IntVar(&opts.CompletedRetentionDays, "completed-retention", 30, "Retention days for completed events")
	flag.IntVar(&opts.FailedRetentionDays, "failed-retention", 90, "Retention days for failed events")
	flag.BoolVar(&opts.DryRun, "dry-run", false, "Show what would be deleted without actually deleting")
	flag.Parse()

	if opts.SpannerDB == "" {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		opts.SpannerDB = cfg.SpannerDB
	}

	if err := cleanupOutbox(context.Background(), opts, time.Now().UTC()); err != nil {
		log.Fatalf("Cleanup failed: %v", err)
	}

	log.Println("Cleanup completed successfully")
}

func cutoffs(opts Options, now time.Time) (completed, failed time.Time) {
	return now.AddDate(0, 0, -opts.CompletedRetentionDays), now.AddDate(0, 0, -opts.FailedRetentionDays)
}

func cleanupOutbox(ctx context.Context, opts Options, now time.Time) error {
	if opts.CompletedRetentionDays < 0 || opts.FailedRetentionDays < 0 {
		return fmt.Errorf("retention days must not be negative")
	}

	client, err := spanner.NewClient(ctx, opts.SpannerDB)
	if err != nil {
		return fmt.Errorf("failed to create Spanner client: %w", err)
	}
	defer client.Close()

	completedCutoff, failedCutoff := cutoffs(opts, now)

	log.Printf("Starting outbox cleanup...")
	log.Printf("  Completed events cutoff: %s (retention: %d days)", completedCutoff.Format(time.RFC3339), opts.CompletedRetentionDays)
	log.Printf("  Failed events cutoff: %s (retention: %d days)", failedCutoff.Format(time.RFC3339), opts.FailedRetentionDays)

	source := outbox.NewSpannerSource(client)

	if opts.DryRun {
		counts, err := source.CountPurgeable(ctx, completedCutoff, failedCutoff)
		if err != nil {
			return err
		}
		total := int64(0)
		for _, status := range []string{m_outbox.StatusCompleted, m_outbox.StatusFailed} {
			log.Printf("  Would delete %d %s events", counts[status], status)
			total += counts[status]
		}
		log.Printf("DRY RUN: Would delete %d total events", total)
		log.Println("Run without --dry-run to actually delete events")
		return nil
	}

	deleted, err := source.Purge(ctx, completedCutoff, failedCutoff)
	if err != nil {
		return fmt.Errorf("failed to delete events: %w", err)
	}
	log.Printf("Successfully deleted %d events", deleted)
	return nil
}
