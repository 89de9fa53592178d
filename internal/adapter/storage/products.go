package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.ProductsStorage = (*ProductsRepository)(nil)

const productColumns = `
	id, name, price, available, image, description, color, size`

// A ProductsRepository keeps the catalog. Writes are serialized.
type ProductsRepository struct {
	sqldb sqldb
	mu    *sync.Mutex
}

func NewProductsRepository(sqldb sqldb) ProductsRepository {
	return ProductsRepository{sqldb, new(sync.Mutex)}
}

func (r ProductsRepository) StoreProduct(
	ctx context.Context, p domain.Product,
) (int64, error) {
	const op = "ProductsRepository.StoreProduct"

	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		INSERT INTO products (
			name, price, available, image, description, color, size
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;`

	var id int64
	err := r.sqldb.QueryRowContext(ctx, query,
		p.Name, p.Price, p.Available, p.Image,
		nullString(p.Description), nullString(p.Color), nullString(p.Size),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ReadProducts scans the whole table in id order and keeps the matches.
func (r ProductsRepository) ReadProducts(
	ctx context.Context, f domain.ProductFilter,
) ([]domain.Product, error) {
	const op = "ProductsRepository.ReadProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT` + productColumns + ` FROM products ORDER BY id ASC;`

	rows, err := r.sqldb.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	ps := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if f.Match(p) {
			ps = append(ps, p)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (r ProductsRepository) ReadProduct(
	ctx context.Context, id int64,
) (domain.Product, error) {
	const op = "ProductsRepository.ReadProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT` + productColumns + ` FROM products WHERE id = $1;`

	p, err := scanProduct(r.sqldb.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// UpdateProduct sets only the fields present in u.
func (r ProductsRepository) UpdateProduct(
	ctx context.Context, id int64, u domain.ProductUpdate,
) error {
	const op = "ProductsRepository.UpdateProduct"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if u.Empty() {
		return r.exists(ctx, op, id)
	}

	var (
		sets []string
		args []any
	)
	set := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if u.Name != nil {
		set("name", *u.Name)
	}
	if u.Price != nil {
		set("price", *u.Price)
	}
	if u.Available != nil {
		set("available", *u.Available)
	}
	if u.Image != nil {
		set("image", *u.Image)
	}
	if u.Description != nil {
		set("description", nullString(*u.Description))
	}
	if u.Color != nil {
		set("color", nullString(*u.Color))
	}
	if u.Size != nil {
		set("size", nullString(*u.Size))
	}

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE products SET %s WHERE id = $%d;",
		strings.Join(sets, ", "), len(args),
	)

	res, err := r.sqldb.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return affectedOne(op, res)
}

func (r ProductsRepository) DeleteProduct(ctx context.Context, id int64) error {
	const op = "ProductsRepository.DeleteProduct"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.sqldb.ExecContext(ctx, `DELETE FROM products WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return affectedOne(op, res)
}

func (r ProductsRepository) exists(ctx context.Context, op string, id int64) error {
	var one int
	err := r.sqldb.QueryRowContext(
		ctx, `SELECT 1 FROM products WHERE id = $1;`, id,
	).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (domain.Product, error) {
	var (
		p                         domain.Product
		description, color, size sql.NullString
	)
	err := s.Scan(
		&p.ID, &p.Name, &p.Price, &p.Available, &p.Image,
		&description, &color, &size,
	)
	if err != nil {
		return domain.Product{}, err
	}
	p.Description = description.String
	p.Color = color.String
	p.Size = size.String
	return p, nil
}

func affectedOne(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}
