package db

import (
	"context"
	"time"
)

const getCart = `-- name: GetCart :many
SELECT product_id, variant_id, price_amount::TEXT AS price_amount, price_currency, quantity, created_at
FROM cart_lines
WHERE session_id = $1
ORDER BY position
`

type GetCartRow struct {
	ProductID     string
	VariantID     string
	PriceAmount   string
	PriceCurrency string
	Quantity      int32
	CreatedAt     time.Time
}

func (q *Queries) GetCart(ctx context.Context, sessionID string) ([]GetCartRow, error) {
	rows, err := q.db.Query(ctx, getCart, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetCartRow
	for rows.Next() {
		var i GetCartRow
		if err := rows.Scan(
			&i.ProductID,
			&i.VariantID,
			&i.PriceAmount,
			&i.PriceCurrency,
			&i.Quantity,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertLine = `-- name: InsertLine :exec
INSERT INTO cart_lines (session_id, position, product_id, variant_id, price_amount, price_currency, quantity, created_at)
VALUES ($1, $2, $3, $4, $5::NUMERIC, $6, $7, $8)
`

type InsertLineParams struct {
	SessionID     string
	Position      int32
	ProductID     string
	VariantID     string
	PriceAmount   string
	PriceCurrency string
	Quantity      int32
	CreatedAt     time.Time
}

func (q *Queries) InsertLine(ctx context.Context, arg InsertLineParams) error {
	_, err := q.db.Exec(ctx, insertLine,
		arg.SessionID,
		arg.Position,
		arg.ProductID,
		arg.VariantID,
		arg.PriceAmount,
		arg.PriceCurrency,
		arg.Quantity,
		arg.CreatedAt,
	)
	return err
}

const deleteCart = `-- name: DeleteCart :execrows
DELETE FROM cart_lines
WHERE session_id = $1
`

func (q *Queries) DeleteCart(ctx context.Context, sessionID string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteCart, sessionID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const lockSession = `-- name: LockSession :exec
SELECT pg_advisory_xact_lock(hashtext($1))
`

// LockSession serializes writers of one session until the transaction ends.
func (q *Queries) LockSession(ctx context.Context, sessionID string) error {
	_, err := q.db.Exec(ctx, lockSession, sessionID)
	return err
}
