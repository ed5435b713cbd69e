package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Lixing-Zhang/restaurant-pos/internal/models"
)

const orderColumns = "id, table_number, created_at, total_price"

func insertOrder(ctx context.Context, q querier, d dialect, order *models.Order) error {
	err := q.QueryRowContext(ctx, d.rebind(`
		INSERT INTO orders (table_number, created_at, total_price)
		VALUES (?, ?, ?)
		RETURNING id`),
		order.TableNumber, formatTime(order.CreatedAt), order.Total.StringFixed(2),
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func insertOrderItem(ctx context.Context, q querier, d dialect, item *models.OrderItem) error {
	err := q.QueryRowContext(ctx, d.rebind(`
		INSERT INTO order_items (order_id, product_id, name, price, quantity)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`),
		item.OrderID, nullInt(item.ProductID), item.Name, item.Price.StringFixed(2), item.Quantity,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

func insertAccompaniment(ctx context.Context, q querier, d dialect, acc *models.AccompanimentItem) error {
	err := q.QueryRowContext(ctx, d.rebind(`
		INSERT INTO accompaniment_items (order_item_id, product_id, name, price, quantity)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`),
		acc.OrderItemID, nullInt(acc.ProductID), acc.Name, acc.Price.StringFixed(2), acc.Quantity,
	).Scan(&acc.ID)
	if err != nil {
		return fmt.Errorf("insert accompaniment: %w", err)
	}
	return nil
}

// OrdersByTable returns every order of a table with items and accompaniments
func (s *SQLStore) OrdersByTable(ctx context.Context, tableNumber int) ([]models.Order, error) {
	orders, err := s.queryOrders(ctx, s.dialect.rebind(
		"SELECT "+orderColumns+" FROM orders WHERE table_number = ? ORDER BY created_at DESC, id DESC"),
		tableNumber)
	if err != nil {
		return nil, fmt.Errorf("orders for table %d: %w", tableNumber, err)
	}

	if err := s.loadItems(ctx, orders); err != nil {
		return nil, fmt.Errorf("orders for table %d: %w", tableNumber, err)
	}
	return orders, nil
}

// ListOrders returns all order headers, newest first
func (s *SQLStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := s.queryOrders(ctx,
		"SELECT "+orderColumns+" FROM orders ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// GetOrder returns one order aggregate
func (s *SQLStore) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	orders, err := s.queryOrders(ctx, s.dialect.rebind(
		"SELECT "+orderColumns+" FROM orders WHERE id = ?"), id)
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	if len(orders) == 0 {
		return nil, ErrNotFound
	}

	if err := s.loadItems(ctx, orders); err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return &orders[0], nil
}

// DeleteOrder removes an order; items and accompaniments cascade
func (s *SQLStore) DeleteOrder(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.dialect.rebind("DELETE FROM orders WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	return expectAffected(res, "delete order")
}

func (s *SQLStore) queryOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]models.Order, 0)
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.TableNumber, timestamp{t: &o.CreatedAt}, &o.Total); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// loadItems attaches items and accompaniments to orders in two queries
func (s *SQLStore) loadItems(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	orderIdx := make(map[int64]int, len(orders))
	args := make([]any, len(orders))
	for i, o := range orders {
		orderIdx[o.ID] = i
		args[i] = o.ID
	}
	in := placeholders(len(orders))

	items, err := s.queryItems(ctx, s.dialect.rebind(`
		SELECT id, order_id, product_id, name, price, quantity
		FROM order_items
		WHERE order_id IN (`+in+`)
		ORDER BY id`), args...)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}

	accs, err := s.queryAccompaniments(ctx, s.dialect.rebind(`
		SELECT a.id, a.order_item_id, a.product_id, a.name, a.price, a.quantity
		FROM accompaniment_items a
		JOIN order_items i ON i.id = a.order_item_id
		WHERE i.order_id IN (`+in+`)
		ORDER BY a.id`), args...)
	if err != nil {
		return fmt.Errorf("load accompaniments: %w", err)
	}

	accsByItem := make(map[int64][]models.AccompanimentItem)
	for _, acc := range accs {
		accsByItem[acc.OrderItemID] = append(accsByItem[acc.OrderItemID], acc)
	}

	for _, item := range items {
		item.Accompaniments = accsByItem[item.ID]
		if item.Accompaniments == nil {
			item.Accompaniments = []models.AccompanimentItem{}
		}
		i := orderIdx[item.OrderID]
		orders[i].Items = append(orders[i].Items, item)
	}
	for i := range orders {
		if orders[i].Items == nil {
			orders[i].Items = []models.OrderItem{}
		}
	}
	return nil
}

func (s *SQLStore) queryItems(ctx context.Context, query string, args ...any) ([]models.OrderItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var (
			item      models.OrderItem
			productID sql.NullInt64
		)
		if err := rows.Scan(&item.ID, &item.OrderID, &productID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, err
		}
		item.ProductID = nullableID(productID)
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *SQLStore) queryAccompaniments(ctx context.Context, query string, args ...any) ([]models.AccompanimentItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accs []models.AccompanimentItem
	for rows.Next() {
		var (
			acc       models.AccompanimentItem
			productID sql.NullInt64
		)
		if err := rows.Scan(&acc.ID, &acc.OrderItemID, &productID, &acc.Name, &acc.Price, &acc.Quantity); err != nil {
			return nil, err
		}
		acc.ProductID = nullableID(productID)
		accs = append(accs, acc)
	}
	return accs, rows.Err()
}

// isNoRows reports a missing row from QueryRow
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
