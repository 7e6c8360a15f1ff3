package port

import (
	"context"

	"github.com/nikolayk812/storefront/internal/domain"
)

// CartSnapshotRepository persists the ordered line sequence of one session's cart.
type CartSnapshotRepository interface {
	// LoadCart returns the persisted lines in order, or none when nothing was saved.
	// Implementations may return unsanitized records; callers must validate them.
	LoadCart(ctx context.Context, sessionID string) ([]domain.CartLine, error)

	// SaveCart replaces the persisted snapshot with lines.
	SaveCart(ctx context.Context, sessionID string, lines []domain.CartLine) error

	DeleteCart(ctx context.Context, sessionID string) error
}
