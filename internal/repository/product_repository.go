package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Lixing-Zhang/restaurant-pos/internal/models"
)

const productColumns = "id, name, price, quantity, category"

// ListProducts returns all products ordered by category and name
func (s *SQLStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products ORDER BY category, name, id")
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("list products: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetProduct returns a product by its ID
func (s *SQLStore) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	row := s.db.QueryRowContext(ctx,
		s.dialect.rebind("SELECT "+productColumns+" FROM products WHERE id = ?"), id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &p, nil
}

// CreateProduct inserts a product and sets its ID
func (s *SQLStore) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	err := s.db.QueryRowContext(ctx, s.dialect.rebind(`
		INSERT INTO products (name, price, quantity, category)
		VALUES (?, ?, ?, ?)
		RETURNING id`),
		product.Name, product.Price.StringFixed(2), product.Quantity, string(product.Category),
	).Scan(&product.ID)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// UpdateProduct overwrites a catalog entry. Existing orders keep their snapshot.
func (s *SQLStore) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, s.dialect.rebind(`
		UPDATE products SET name = ?, price = ?, quantity = ?, category = ?
		WHERE id = ?`),
		product.Name, product.Price.StringFixed(2), product.Quantity, string(product.Category), product.ID,
	)
	if err != nil {
		return fmt.Errorf("update product %d: %w", product.ID, err)
	}
	return expectAffected(res, "update product")
}

// DeleteProduct removes a product. The schema nulls product_id on order
// lines and accompaniments that referenced it.
func (s *SQLStore) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.dialect.rebind("DELETE FROM products WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return expectAffected(res, "delete product")
}

// productsByID resolves a set of product ids in one query
func productsByID(ctx context.Context, q querier, d dialect, ids []int64) (map[int64]models.Product, error) {
	found := make(map[int64]models.Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := q.QueryContext(ctx, d.rebind(
		"SELECT "+productColumns+" FROM products WHERE id IN ("+placeholders(len(ids))+")"), args...)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("resolve products: %w", err)
		}
		found[p.ID] = p
	}
	return found, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (models.Product, error) {
	var (
		p        models.Product
		category string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Quantity, &category); err != nil {
		return models.Product{}, err
	}
	p.Category = models.Category(category)
	return p, nil
}

// expectAffected maps a zero row count to ErrNotFound
func expectAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
