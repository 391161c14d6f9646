// internal/adapters/out/db/product_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	productdom "boutique/internal/domain/product"
)

// ProductRepositoryPG is a PostgreSQL implementation of
// product.Repository.
//
// Table:
//
//	CREATE TABLE products (
//	  id          BIGSERIAL PRIMARY KEY,
//	  name        TEXT NOT NULL,
//	  description TEXT NOT NULL DEFAULT '',
//	  details     TEXT NOT NULL DEFAULT '',
//	  price       NUMERIC(18,2) NOT NULL,
//	  quantity    INTEGER NOT NULL
//	)
type ProductRepositoryPG struct {
	DB *sql.DB
}

func NewProductRepositoryPG(db *sql.DB) *ProductRepositoryPG {
	return &ProductRepositoryPG{DB: db}
}

// ========================
// RepositoryPort impl
// ========================

func (r *ProductRepositoryPG) Add(ctx context.Context, p *productdom.Product) (*productdom.Product, error) {
	const q = `
INSERT INTO products (name, description, details, price, quantity)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`
	row := r.DB.QueryRowContext(ctx, q, p.Name, p.Description, p.Details, p.Price.String(), p.Quantity)
	if err := row.Scan(&p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProductRepositoryPG) Update(ctx context.Context, p *productdom.Product) error {
	const q = `
UPDATE products
SET name = $2, description = $3, details = $4, price = $5, quantity = $6
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, q, p.ID, p.Name, p.Description, p.Details, p.Price.String(), p.Quantity)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return productdom.ErrNotFound
	}
	return nil
}

// Delete is idempotent: a missing id is not an error.
func (r *ProductRepositoryPG) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM products WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, q, id)
	return err
}

func (r *ProductRepositoryPG) GetByID(ctx context.Context, id int64) (*productdom.Product, error) {
	const q = `
SELECT id, name, description, details, price, quantity
FROM products
WHERE id = $1`
	row := r.DB.QueryRowContext(ctx, q, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, productdom.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *ProductRepositoryPG) GetAll(ctx context.Context) ([]productdom.Product, error) {
	const q = `
SELECT id, name, description, details, price, quantity
FROM products
ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []productdom.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ========================
// scan helpers
// ========================

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*productdom.Product, error) {
	var (
		p        productdom.Product
		priceRaw string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Details, &priceRaw, &p.Quantity); err != nil {
		return nil, err
	}
	price, err := decimal.NewFromString(priceRaw)
	if err != nil {
		return nil, err
	}
	p.Price = price
	return &p, nil
}
