// internal/adapters/out/db/order_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"encoding/json"

	orderdom "boutique/internal/domain/order"
)

// OrderRepositoryPG is a PostgreSQL implementation of order.Repository.
//
// Table:
//
//	CREATE TABLE orders (
//	  id         TEXT PRIMARY KEY,
//	  session_id TEXT NOT NULL,
//	  lines      JSONB NOT NULL,
//	  total      NUMERIC(18,2) NOT NULL,
//	  created_at TIMESTAMPTZ NOT NULL
//	)
//
// Lines are stored as a JSONB snapshot; orders are append-only and
// never joined back to the live catalog.
type OrderRepositoryPG struct {
	DB *sql.DB
}

func NewOrderRepositoryPG(db *sql.DB) *OrderRepositoryPG {
	return &OrderRepositoryPG{DB: db}
}

func (r *OrderRepositoryPG) Add(ctx context.Context, o *orderdom.Order) error {
	lines, err := json.Marshal(o.Lines)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO orders (id, session_id, lines, total, created_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err = r.DB.ExecContext(ctx, q, o.ID, o.SessionID, lines, o.Total.String(), o.CreatedAt)
	return err
}
