package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/domain"
	"go.uber.org/zap"
)

// replaceSnapshot swaps the session's rows for lines atomically. A repository
// built on a caller-owned transaction runs the statements inside it; otherwise
// the replace gets a transaction of its own.
func (r *cartRepository) replaceSnapshot(ctx context.Context, sessionID string, lines []domain.CartLine) (txErr error) {
	if err := checkQuantities(lines); err != nil {
		return err
	}

	if r.pool == nil {
		return writeSnapshot(ctx, r.q, sessionID, lines)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pool.Begin: %w", err)
	}

	defer func() {
		if txErr == nil {
			return
		}
		rollbackErr := tx.Rollback(ctx)
		if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			r.logger.Warn("cart snapshot rollback failed",
				zap.String("session_id", sessionID),
				zap.Error(rollbackErr))
			txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rollbackErr))
		}
	}()

	if err := writeSnapshot(ctx, r.q.WithTx(tx), sessionID, lines); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("tx.Commit: %w", err)
	}

	return nil
}

func writeSnapshot(ctx context.Context, q *db.Queries, sessionID string, lines []domain.CartLine) error {
	if err := q.LockSession(ctx, sessionID); err != nil {
		return fmt.Errorf("q.LockSession: %w", err)
	}

	if _, err := q.DeleteCart(ctx, sessionID); err != nil {
		return fmt.Errorf("q.DeleteCart: %w", err)
	}

	for i, line := range lines {
		if err := q.InsertLine(ctx, mapDomainToInsertLineParams(sessionID, i, line)); err != nil {
			return fmt.Errorf("q.InsertLine: %w", err)
		}
	}

	return nil
}

// checkQuantities rejects lines whose quantity would be narrowed by the INTEGER column.
func checkQuantities(lines []domain.CartLine) error {
	for _, line := range lines {
		if line.Quantity > domain.MaxLineQuantity || line.Quantity < math.MinInt32 {
			return fmt.Errorf("line[%s/%s] quantity[%d] does not fit INTEGER",
				line.ProductID, line.VariantID, line.Quantity)
		}
	}

	return nil
}
