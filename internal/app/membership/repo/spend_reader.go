package repo

import (
	"context"
	"fmt"
	"math/big"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/contracts"
	"github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/domain"
	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_order"
	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_product"
	"github.com/THXNXKXT/qr-studios-sub001/internal/pkg/query"
)

// SpannerReader implements SpendReader and CatalogReader on Cloud Spanner.
type SpannerReader struct {
	client   *spanner.Client
	products *m_product.Model
}

// NewSpannerReader creates a new SpannerReader.
func NewSpannerReader(client *spanner.Client) *SpannerReader {
	return &SpannerReader{client: client, products: m_product.NewModel()}
}

var (
	_ contracts.SpendReader   = (*SpannerReader)(nil)
	_ contracts.CatalogReader = (*SpannerReader)(nil)
)

// CompletedSpendQuery selects the totals of a user's COMPLETED orders.
// Totals are summed in Go as exact fractions.
func CompletedSpendQuery(userID string) spanner.Statement {
	return query.From(m_order.TableName).
		Select(m_order.TotalNumerator, m_order.TotalDenominator).
		Where(query.Eq(m_order.UserID, userID)).
		Where(query.Eq(m_order.Status, m_order.StatusCompleted)).
		Build()
}

// CompletedSpend implements contracts.SpendReader.
func (r *SpannerReader) CompletedSpend(ctx context.Context, userID string) (*domain.Money, error) {
	iter := r.client.Single().Query(ctx, CompletedSpendQuery(userID))
	defer iter.Stop()

	total := new(big.Rat)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			return domain.NewMoneyFromRat(total), nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate orders: %w", err)
		}

		var num, den int64
		if err := row.Columns(&num, &den); err != nil {
			return nil, fmt.Errorf("failed to parse order total: %w", err)
		}
		if den <= 0 {
			return nil, fmt.Errorf("order total has denominator %d: %w", den, domain.ErrInvalidDenominator)
		}
		total.Add(total, big.NewRat(num, den))
	}
}

// ProductPricing implements contracts.CatalogReader.
func (r *SpannerReader) ProductPricing(ctx context.Context, productID string) (*contracts.ProductPricing, error) {
	row, err := r.client.Single().ReadRow(ctx, m_product.TableName, spanner.Key{productID}, r.products.Columns())
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, contracts.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to read product: %w", err)
	}
	return RowToPricing(row)
}

// RowToPricing converts a products row read with Model.Columns.
func RowToPricing(row *spanner.Row) (*contracts.ProductPricing, error) {
	var (
		id, name string
		num, den int64
		points   spanner.NullInt64
	)
	if err := row.Columns(&id, &name, &num, &den, &points); err != nil {
		return nil, fmt.Errorf("failed to parse product: %w", err)
	}
	price, err := domain.NewMoney(num, den)
	if err != nil {
		return nil, fmt.Errorf("invalid price for product %s: %w", id, err)
	}

	p := &contracts.ProductPricing{ProductID: id, Price: price}
	if points.Valid {
		v := points.Int64
		p.Points = &v
	}
	return p, nil
}
