package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopgraph/graph-etl/internal/domain"
)

const dateLayout = "2006-01-02"

// Extractor reads the six storefront tables as ordered, typed record
// slices. It is a direct read-only projection: no filtering, no business
// transformation. Dates and timestamps are normalized to text here so the
// loader never touches native time encodings.
type Extractor struct {
	db *sql.DB
}

func NewExtractor(db *sql.DB) *Extractor {
	return &Extractor{db: db}
}

func (e *Extractor) Categories(ctx context.Context) ([]domain.Category, error) {
	rows, err := e.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (e *Extractor) Products(ctx context.Context) ([]domain.Product, error) {
	rows, err := e.db.QueryContext(ctx, `SELECT id, name, price, category_id FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.CategoryID); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (e *Extractor) Customers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := e.db.QueryContext(ctx, `SELECT id, name, join_date FROM customers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var out []domain.Customer
	for rows.Next() {
		var c domain.Customer
		var joined time.Time
		if err := rows.Scan(&c.ID, &c.Name, &joined); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		c.JoinDate = joined.Format(dateLayout)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (e *Extractor) Orders(ctx context.Context) ([]domain.Order, error) {
	rows, err := e.db.QueryContext(ctx, `SELECT id, customer_id, ts FROM orders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		var ts time.Time
		if err := rows.Scan(&o.ID, &o.CustomerID, &ts); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Timestamp = ts.UTC().Format(time.RFC3339)
		out = append(out, o)
	}
	return out, rows.Err()
}

func (e *Extractor) OrderItems(ctx context.Context) ([]domain.OrderItem, error) {
	rows, err := e.db.QueryContext(ctx, `SELECT order_id, product_id, quantity FROM order_items ORDER BY order_id, product_id`)
	if err != nil {
		return nil, fmt.Errorf("query order_items: %w", err)
	}
	defer rows.Close()

	var out []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.OrderID, &it.ProductID, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan order_item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (e *Extractor) Events(ctx context.Context) ([]domain.Event, error) {
	rows, err := e.db.QueryContext(ctx, `SELECT id, customer_id, product_id, event_type, ts FROM events ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []domain.Event
	for rows.Next() {
		var ev domain.Event
		var kind string
		var ts time.Time
		if err := rows.Scan(&ev.ID, &ev.CustomerID, &ev.ProductID, &kind, &ts); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Type = domain.EventType(kind)
		ev.Timestamp = ts.UTC().Format(time.RFC3339)
		out = append(out, ev)
	}
	return out, rows.Err()
}
