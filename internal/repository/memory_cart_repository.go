package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

type memoryCartRepository struct {
	mu    sync.RWMutex
	carts map[string][]domain.CartLine
}

// NewMemoryCart keeps snapshots in process memory; they do not survive a restart.
func NewMemoryCart() port.CartSnapshotRepository {
	return &memoryCartRepository{
		carts: make(map[string][]domain.CartLine),
	}
}

func (r *memoryCartRepository) LoadCart(_ context.Context, sessionID string) ([]domain.CartLine, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("sessionID is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.carts[sessionID]), nil
}

func (r *memoryCartRepository) SaveCart(_ context.Context, sessionID string, lines []domain.CartLine) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(lines) == 0 {
		delete(r.carts, sessionID)
		return nil
	}
	r.carts[sessionID] = slices.Clone(lines)

	return nil
}

func (r *memoryCartRepository) DeleteCart(_ context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, sessionID)

	return nil
}
