package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

const cartKeyPrefix = "cart:session:"

// cartLineRecord is the persisted form of one cart line.
type cartLineRecord struct {
	ProductID string          `json:"productId"`
	VariantID string          `json:"variantId"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Currency  string          `json:"currency"`
	Quantity  int             `json:"quantity"`
	CreatedAt time.Time       `json:"createdAt"`
}

type redisCartRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCart stores each session's snapshot as a JSON array under one key.
// A zero ttl keeps snapshots until they are deleted.
func NewRedisCart(client *redis.Client, ttl time.Duration, logger *zap.Logger) (port.CartSnapshotRepository, error) {
	if client == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if ttl < 0 {
		return nil, fmt.Errorf("ttl[%s] is negative", ttl)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &redisCartRepository{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

func (r *redisCartRepository) LoadCart(ctx context.Context, sessionID string) ([]domain.CartLine, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("sessionID is empty")
	}

	payload, err := r.client.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("client.Get: %w", err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		r.logger.Warn("discarding unreadable cart snapshot",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return nil, nil
	}

	var lines []domain.CartLine
	for i, msg := range raw {
		line, err := mapRecordToDomain(msg)
		if err != nil {
			r.logger.Warn("skipping unreadable cart record",
				zap.String("session_id", sessionID),
				zap.Int("index", i),
				zap.Error(err))
			continue
		}

		lines = append(lines, line)
	}

	return lines, nil
}

func (r *redisCartRepository) SaveCart(ctx context.Context, sessionID string, lines []domain.CartLine) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is empty")
	}

	if len(lines) == 0 {
		return r.DeleteCart(ctx, sessionID)
	}

	records := make([]cartLineRecord, 0, len(lines))
	for _, line := range lines {
		records = append(records, mapDomainToRecord(line))
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := r.client.Set(ctx, cartKey(sessionID), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("client.Set: %w", err)
	}

	return nil
}

func (r *redisCartRepository) DeleteCart(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is empty")
	}

	if err := r.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("client.Del: %w", err)
	}

	return nil
}

func cartKey(sessionID string) string {
	return cartKeyPrefix + sessionID
}

func mapDomainToRecord(line domain.CartLine) cartLineRecord {
	return cartLineRecord{
		ProductID: line.ProductID,
		VariantID: line.VariantID,
		UnitPrice: line.UnitPrice.Amount,
		Currency:  line.UnitPrice.Currency.String(),
		Quantity:  line.Quantity,
		CreatedAt: line.CreatedAt,
	}
}

func mapRecordToDomain(msg json.RawMessage) (domain.CartLine, error) {
	var rec cartLineRecord
	if err := json.Unmarshal(msg, &rec); err != nil {
		return domain.CartLine{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	parsedCurrency, err := currency.ParseISO(rec.Currency)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("currency[%s] is not valid: %w", rec.Currency, err)
	}

	return domain.CartLine{
		ProductID: rec.ProductID,
		VariantID: rec.VariantID,
		UnitPrice: domain.Money{Amount: rec.UnitPrice, Currency: parsedCurrency},
		Quantity:  rec.Quantity,
		CreatedAt: rec.CreatedAt,
	}, nil
}
