package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/THXNXKXT/qr-studios-sub001/internal/config"
	"github.com/THXNXKXT/qr-studios-sub001/internal/outbox"
)

func main() {
	var (
		interval  time.Duration
		batchSize int64
		once      bool
	)
	flag.DurationVar(&interval, "interval", 5*time.Second, "Polling interval")
	flag.Int64Var(&batchSize, "batch", 100, "Events per batch")
	flag.BoolVar(&once, "once", false, "Deliver a single batch and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.StoreDriver != config.DriverSpanner {
		log.Fatalf("Outbox relay requires the spanner store driver, got %q", cfg.StoreDriver)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := spanner.NewClient(ctx, cfg.SpannerDB)
	if err != nil {
		log.Fatalf("Failed to create Spanner client: %v", err)
	}
	defer client.Close()

	relay := outbox.NewRelay(outbox.NewSpannerSource(client), outbox.NewLogPublisher(logger), nil, logger, batchSize)

	if once {
		stats, err := relay.RunOnce(ctx)
		if err != nil {
			log.Fatalf("Relay failed: %v", err)
		}
		log.Printf("Published %d events, %d failed", stats.Published, stats.Failed)
		return
	}

	log.Printf("Relaying outbox events every %s", interval)
	if err := relay.Run(ctx, interval); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Relay stopped: %v", err)
	}
}
