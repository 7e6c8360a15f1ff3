package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

type cartRepository struct {
	q      *db.Queries
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewCart(pool *pgxpool.Pool, logger *zap.Logger) (port.CartSnapshotRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &cartRepository{
		q:      db.New(pool),
		pool:   pool,
		logger: logger,
	}, nil
}

func NewCartWithTx(tx pgx.Tx, logger *zap.Logger) port.CartSnapshotRepository {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &cartRepository{
		q:      db.New(tx),
		pool:   nil, // use provided transaction instead
		logger: logger,
	}
}

func (r *cartRepository) LoadCart(ctx context.Context, sessionID string) ([]domain.CartLine, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("sessionID is empty")
	}

	rows, err := r.q.GetCart(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("q.GetCart: %w", err)
	}

	return r.mapGetCartRowsToDomain(sessionID, rows), nil
}

// SaveCart replaces the session's rows in one transaction.
func (r *cartRepository) SaveCart(ctx context.Context, sessionID string, lines []domain.CartLine) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is empty")
	}

	if err := r.replaceSnapshot(ctx, sessionID, lines); err != nil {
		return fmt.Errorf("replaceSnapshot: %w", err)
	}

	return nil
}

func (r *cartRepository) DeleteCart(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is empty")
	}

	if _, err := r.q.DeleteCart(ctx, sessionID); err != nil {
		return fmt.Errorf("q.DeleteCart: %w", err)
	}

	return nil
}

func mapDomainToInsertLineParams(sessionID string, position int, line domain.CartLine) db.InsertLineParams {
	createdAt := line.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	return db.InsertLineParams{
		SessionID:     sessionID,
		Position:      int32(position),
		ProductID:     line.ProductID,
		VariantID:     line.VariantID,
		PriceAmount:   line.UnitPrice.Amount.String(),
		PriceCurrency: line.UnitPrice.Currency.String(),
		Quantity:      int32(line.Quantity),
		CreatedAt:     createdAt,
	}
}

func mapGetCartRowToDomain(row db.GetCartRow) (domain.CartLine, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	amount, err := decimal.NewFromString(row.PriceAmount)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("amount[%s] is not valid: %w", row.PriceAmount, err)
	}

	return domain.CartLine{
		ProductID: row.ProductID,
		VariantID: row.VariantID,
		UnitPrice: domain.Money{Amount: amount, Currency: parsedCurrency},
		Quantity:  int(row.Quantity),
		CreatedAt: row.CreatedAt,
	}, nil
}

// mapGetCartRowsToDomain skips rows that cannot be mapped; the cart store
// validates the rest.
func (r *cartRepository) mapGetCartRowsToDomain(sessionID string, rows []db.GetCartRow) []domain.CartLine {
	var lines []domain.CartLine

	for _, row := range rows {
		line, err := mapGetCartRowToDomain(row)
		if err != nil {
			r.logger.Warn("skipping unreadable cart row",
				zap.String("session_id", sessionID),
				zap.String("product_id", row.ProductID),
				zap.Error(err))
			continue
		}

		lines = append(lines, line)
	}

	return lines
}
