// Package cart holds the shopping cart of one session.
package cart

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

// Store is the cart of a single session. Lines keep the order of their first add
// and are unique per (product, variant). Every public method is atomic: readers
// never observe a half-applied mutation.
//
// When a repository is configured, each mutation is written through before it
// becomes visible; a failed write leaves the cart unchanged.
type Store struct {
	mu    sync.RWMutex
	lines []domain.CartLine

	sessionID string
	currency  currency.Unit
	repo      port.CartSnapshotRepository
	logger    *zap.Logger
	now       func() time.Time
}

type Option func(*Store)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithRepository(repo port.CartSnapshotRepository) Option {
	return func(s *Store) {
		s.repo = repo
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New returns an empty cart priced in cur.
func New(sessionID string, cur currency.Unit, opts ...Option) *Store {
	s := &Store{
		sessionID: sessionID,
		currency:  cur,
		logger:    zap.NewNop(),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Open restores a session's cart from repo. The snapshot is read once; corrupt
// records are dropped or merged and the cleaned snapshot is written back.
func Open(ctx context.Context, sessionID string, cur currency.Unit, repo port.CartSnapshotRepository, opts ...Option) (*Store, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("sessionID is empty")
	}
	if repo == nil {
		return nil, fmt.Errorf("repo is nil")
	}

	s := New(sessionID, cur, append(opts, WithRepository(repo))...)

	persisted, err := repo.LoadCart(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("repo.LoadCart: %w", err)
	}

	lines, dropped := sanitize(persisted, cur)
	if dropped > 0 {
		s.logger.Warn("dropped corrupt cart records",
			zap.String("session_id", sessionID),
			zap.Int("dropped", dropped),
			zap.Int("kept", len(lines)))

		if err := repo.SaveCart(ctx, sessionID, lines); err != nil {
			return nil, fmt.Errorf("repo.SaveCart: %w", err)
		}
	}

	s.lines = lines

	return s, nil
}

func (s *Store) SessionID() string {
	return s.sessionID
}

func (s *Store) Currency() currency.Unit {
	return s.currency
}

// AddLine appends a line or, when the (product, variant) line exists, increases
// its quantity. A merge keeps the unit price recorded by the first add. A merge
// that would push the line past MaxLineQuantity is rejected.
func (s *Store) AddLine(ctx context.Context, productID, variantID string, unitPrice domain.Money, quantity int) error {
	if err := validateKey(productID, variantID); err != nil {
		return err
	}
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	if err := s.validatePrice(unitPrice); err != nil {
		return err
	}

	key := domain.LineKey{ProductID: productID, VariantID: variantID}

	return s.mutate(ctx, "add", func(lines []domain.CartLine) ([]domain.CartLine, bool, error) {
		if i := indexOf(lines, key); i >= 0 {
			if lines[i].Quantity > domain.MaxLineQuantity-quantity {
				return nil, false, fmt.Errorf("%w: %d + %d exceeds %d",
					domain.ErrInvalidQuantity, lines[i].Quantity, quantity, domain.MaxLineQuantity)
			}
			lines[i].Quantity += quantity
			return lines, true, nil
		}

		return append(lines, domain.CartLine{
			ProductID: productID,
			VariantID: variantID,
			UnitPrice: unitPrice,
			Quantity:  quantity,
			CreatedAt: s.now().UTC(),
		}), true, nil
	})
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
// A missing line is ignored.
func (s *Store) UpdateQuantity(ctx context.Context, productID, variantID string, quantity int) error {
	if quantity > domain.MaxLineQuantity {
		return fmt.Errorf("%w: %d exceeds %d", domain.ErrInvalidQuantity, quantity, domain.MaxLineQuantity)
	}

	key := domain.LineKey{ProductID: productID, VariantID: variantID}

	return s.mutate(ctx, "update", func(lines []domain.CartLine) ([]domain.CartLine, bool, error) {
		i := indexOf(lines, key)
		if i < 0 {
			return lines, false, nil
		}

		if quantity <= 0 {
			return slices.Delete(lines, i, i+1), true, nil
		}

		if lines[i].Quantity == quantity {
			return lines, false, nil
		}
		lines[i].Quantity = quantity

		return lines, true, nil
	})
}

func (s *Store) RemoveLine(ctx context.Context, productID, variantID string) error {
	return s.UpdateQuantity(ctx, productID, variantID, 0)
}

// RefreshPrice replaces the unit price frozen at first add. A missing line is ignored.
func (s *Store) RefreshPrice(ctx context.Context, productID, variantID string, unitPrice domain.Money) error {
	if err := s.validatePrice(unitPrice); err != nil {
		return err
	}

	key := domain.LineKey{ProductID: productID, VariantID: variantID}

	return s.mutate(ctx, "refresh_price", func(lines []domain.CartLine) ([]domain.CartLine, bool, error) {
		i := indexOf(lines, key)
		if i < 0 || lines[i].UnitPrice.Amount.Equal(unitPrice.Amount) {
			return lines, false, nil
		}
		lines[i].UnitPrice = unitPrice

		return lines, true, nil
	})
}

func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(ctx, "clear", func(lines []domain.CartLine) ([]domain.CartLine, bool, error) {
		return nil, len(lines) > 0, nil
	})
}

// TotalItems is the sum of all line quantities.
func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, l := range s.lines {
		total += l.Quantity
	}

	return total
}

// TotalAmount sums unit price times quantity as exact integer minor units, so
// neither rounding drift nor int64 overflow can creep in.
func (s *Store) TotalAmount() domain.Money {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, l := range s.lines {
		// prices are validated on the way in
		units, _ := l.UnitPrice.MinorUnits()
		total = total.Add(decimal.NewFromInt(units).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	return domain.MoneyFromMinorTotal(total, s.currency)
}

// Lines returns a copy of the lines in insertion order.
func (s *Store) Lines() []domain.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.lines)
}

func (s *Store) Snapshot() domain.Cart {
	return domain.Cart{
		SessionID: s.sessionID,
		Lines:     s.Lines(),
	}
}

// mutate applies fn to a copy of the lines, persists the result and only then
// publishes it. fn reports whether anything changed; an error from fn leaves the
// cart untouched.
func (s *Store) mutate(ctx context.Context, op string, fn func([]domain.CartLine) ([]domain.CartLine, bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed, err := fn(slices.Clone(s.lines))
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if s.repo != nil {
		if err := s.repo.SaveCart(ctx, s.sessionID, next); err != nil {
			return fmt.Errorf("repo.SaveCart: %w", err)
		}
	}

	s.lines = next

	s.logger.Debug("cart updated",
		zap.String("op", op),
		zap.String("session_id", s.sessionID),
		zap.Int("lines", len(next)))

	return nil
}

func (s *Store) validatePrice(price domain.Money) error {
	if price.Currency != s.currency {
		return fmt.Errorf("%w: cart is in %s, price is in %s", domain.ErrCurrencyMismatch, s.currency, price.Currency)
	}

	return validateAmount(price)
}

func validateAmount(price domain.Money) error {
	if price.IsNegative() {
		return fmt.Errorf("%w: %s is negative", domain.ErrInvalidPrice, price.Amount.String())
	}
	if _, err := price.MinorUnits(); err != nil {
		return err
	}

	return nil
}

func validateQuantity(quantity int) error {
	if quantity < 1 || quantity > domain.MaxLineQuantity {
		return fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, quantity)
	}

	return nil
}

func validateKey(productID, variantID string) error {
	if productID == "" {
		return fmt.Errorf("productID is empty")
	}
	if variantID == "" {
		return fmt.Errorf("variantID is empty")
	}

	return nil
}

func indexOf(lines []domain.CartLine, key domain.LineKey) int {
	return slices.IndexFunc(lines, func(l domain.CartLine) bool {
		return l.Key() == key
	})
}
