package services

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/spanner"

	mcontracts "github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/contracts"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/queries/get_membership"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/queries/quote_checkout"
	mrepo "github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/repo"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/contracts"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/queries/list_reviews"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/queries/review_eligibility"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/repo"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/usecases/delete_review"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/usecases/submit_review"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/review/usecases/update_review"
	"github.com/THXNXKXT/qr-studios-sub001/internal/config"
	"github.com/THXNXKXT/qr-studios-sub001/internal/pkg/auth"
	"github.com/THXNXKXT/qr-studios-sub001/internal/pkg/clock"
	"github.com/THXNXKXT/qr-studios-sub001/internal/pkg/committer"
	"github.com/THXNXKXT/qr-studios-sub001/internal/pkg/telemetry"
	"github.com/THXNXKXT/qr-studios-sub001/internal/seed"
	"github.com/THXNXKXT/qr-studios-sub001/internal/store/memory"
	"github.com/THXNXKXT/qr-studios-sub001/internal/store/sqlstore"
	"github.com/THXNXKXT/qr-studios-sub001/internal/transport/grpc/storefront"
	httptransport "github.com/THXNXKXT/qr-studios-sub001/internal/transport/http"
)

// Stores groups the persistence ports for one backend.
type Stores struct {
	Reviews   contracts.ReviewStore
	ReadModel contracts.ReadModel
	Spend     mcontracts.SpendReader
	Catalog   mcontracts.CatalogReader

	close func() error
}

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	Stores    *Stores
	Telemetry *telemetry.Provider
	Verifier  *auth.Verifier

	GRPCHandler *storefront.Handler
	HTTPRouter  *httptransport.Router
}

// NewServiceOptions creates and wires up all application dependencies.
func NewServiceOptions(ctx context.Context, cfg config.Config, logger *slog.Logger) (*ServiceOptions, error) {
	// 1. Create infrastructure components
	clk := clock.NewRealClock()

	tel, err := telemetry.New(ctx, telemetry.Config{
		ServiceName:  cfg.ServiceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		Insecure:     cfg.OTLPInsecure,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	// 2. Open the configured store
	stores, err := OpenStores(ctx, cfg, clk)
	if err != nil {
		_ = tel.Shutdown(ctx)
		return nil, err
	}

	var verifier *auth.Verifier
	if cfg.JWTSecret != "" {
		verifier = auth.NewVerifier([]byte(cfg.JWTSecret), clk)
	} else {
		logger.Warn("JWT_SECRET is not set; authenticated endpoints will reject every caller")
	}

	// 3. Create command use cases (write operations)
	submitReview := submit_review.NewInteractor(stores.Reviews, clk, logger, tel)
	updateReview := update_review.NewInteractor(stores.Reviews, clk, logger, tel)
	deleteReview := delete_review.NewInteractor(stores.Reviews, clk, logger, tel)

	// 4. Create query use cases (read operations)
	listReviews := list_reviews.NewQuery(stores.ReadModel)
	reviewEligibility := review_eligibility.NewQuery(stores.ReadModel)
	getMembership := get_membership.NewQuery(stores.Spend)
	quoteCheckout := quote_checkout.NewQuery(stores.Spend, stores.Catalog)

	// 5. Create transports
	grpcHandler := storefront.NewHandler(
		submitReview, updateReview, deleteReview,
		listReviews, reviewEligibility, getMembership, quoteCheckout,
	)
	httpRouter := httptransport.NewRouter(
		submitReview, updateReview, deleteReview,
		listReviews, reviewEligibility, getMembership, quoteCheckout,
		verifier, logger,
	)

	return &ServiceOptions{
		Stores:      stores,
		Telemetry:   tel,
		Verifier:    verifier,
		GRPCHandler: grpcHandler,
		HTTPRouter:  httpRouter,
	}, nil
}

// OpenStores opens the backend selected by cfg.StoreDriver.
func OpenStores(ctx context.Context, cfg config.Config, clk clock.Clock) (*Stores, error) {
	switch cfg.StoreDriver {
	case config.DriverSpanner:
		client, err := spanner.NewClient(ctx, cfg.SpannerDB)
		if err != nil {
			return nil, fmt.Errorf("failed to create Spanner client: %w", err)
		}
		reader := mrepo.NewSpannerReader(client)
		return &Stores{
			Reviews:   repo.NewReviewStore(committer.NewCommitter(client)),
			ReadModel: repo.NewReadModel(client),
			Spend:     reader,
			Catalog:   reader,
			close: func() error {
				client.Close()
				return nil
			},
		}, nil

	case config.DriverPostgres, config.DriverSQLite:
		dialect, dsn := sqlstore.Postgres, cfg.DatabaseURL
		if cfg.StoreDriver == config.DriverSQLite {
			dialect, dsn = sqlstore.SQLite, cfg.SQLitePath
		}
		db, err := sqlstore.Open(ctx, dialect, dsn)
		if err != nil {
			return nil, err
		}
		store := sqlstore.New(db, dialect, clk)
		if err := store.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &Stores{Reviews: store, ReadModel: store, Spend: store, Catalog: store, close: db.Close}, nil

	case config.DriverMemory:
		store := memory.New()
		if cfg.SeedFile != "" {
			fixture, err := seed.LoadFile(cfg.SeedFile)
			if err != nil {
				return nil, err
			}
			rows, err := fixture.Rows()
			if err != nil {
				return nil, err
			}
			seed.ApplyMemory(store, rows)
		}
		return &Stores{Reviews: store, ReadModel: store, Spend: store, Catalog: store}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// Close releases the store's connections.
func (s *Stores) Close() error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close()
}

// Close closes all resources.
func (s *ServiceOptions) Close(ctx context.Context) error {
	storeErr := s.Stores.Close()
	if err := s.Telemetry.Shutdown(ctx); err != nil {
		return err
	}
	return storeErr
}
