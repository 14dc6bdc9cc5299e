package graph

import (
	"context"
	"fmt"

	"github.com/shopgraph/graph-etl/internal/domain"
)

// Runner is the slice of Client the loader needs.
type Runner interface {
	Run(ctx context.Context, cypher string, params map[string]any) error
	RunAffected(ctx context.Context, cypher string, params map[string]any) (int64, error)
}

// Loader applies one chunk of records per request. Every operation is
// re-runnable: applying the same chunk twice leaves the graph unchanged.
type Loader struct {
	runner Runner
}

func NewLoader(r Runner) *Loader {
	return &Loader{runner: r}
}

func (l *Loader) LoadCategories(ctx context.Context, chunk []domain.Category) error {
	if len(chunk) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(chunk))
	for _, c := range chunk {
		rows = append(rows, map[string]any{"id": c.ID, "name": c.Name})
	}
	return l.runner.Run(ctx, upsertCategories, map[string]any{"rows": rows})
}

func (l *Loader) LoadProducts(ctx context.Context, chunk []domain.Product) error {
	if len(chunk) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(chunk))
	for _, p := range chunk {
		rows = append(rows, map[string]any{
			"id":          p.ID,
			"name":        p.Name,
			"price":       p.Price,
			"category_id": p.CategoryID,
		})
	}
	return l.applyCounted(ctx, "IN_CATEGORY", upsertProducts, rows)
}

func (l *Loader) LoadCustomers(ctx context.Context, chunk []domain.Customer) error {
	if len(chunk) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(chunk))
	for _, c := range chunk {
		rows = append(rows, map[string]any{"id": c.ID, "name": c.Name, "join_date": c.JoinDate})
	}
	return l.runner.Run(ctx, upsertCustomers, map[string]any{"rows": rows})
}

func (l *Loader) LoadOrders(ctx context.Context, chunk []domain.Order) error {
	if len(chunk) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(chunk))
	for _, o := range chunk {
		rows = append(rows, map[string]any{"id": o.ID, "customer_id": o.CustomerID, "ts": o.Timestamp})
	}
	return l.applyCounted(ctx, "PLACED", upsertOrders, rows)
}

func (l *Loader) LoadOrderItems(ctx context.Context, chunk []domain.OrderItem) error {
	if len(chunk) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(chunk))
	for _, it := range chunk {
		rows = append(rows, map[string]any{
			"order_id":   it.OrderID,
			"product_id": it.ProductID,
			"quantity":   it.Quantity,
		})
	}
	return l.applyCounted(ctx, "CONTAINS", upsertOrderItems, rows)
}

func (l *Loader) LoadEvents(ctx context.Context, kind domain.EventType, chunk []domain.Event) error {
	if len(chunk) == 0 {
		return nil
	}
	relType, ok := kind.RelType()
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownEventType, kind)
	}
	rows := make([]map[string]any, 0, len(chunk))
	for _, ev := range chunk {
		rows = append(rows, map[string]any{
			"id":          ev.ID,
			"customer_id": ev.CustomerID,
			"product_id":  ev.ProductID,
			"ts":          ev.Timestamp,
		})
	}
	return l.applyCounted(ctx, relType, fmt.Sprintf(upsertEvents, relType), rows)
}

// applyCounted runs a MATCH-backed merge and fails the chunk when fewer
// relationships were touched than records sent: some record referenced an
// endpoint that does not exist, and it must not be dropped silently.
func (l *Loader) applyCounted(ctx context.Context, relType, cypher string, rows []map[string]any) error {
	affected, err := l.runner.RunAffected(ctx, cypher, map[string]any{"rows": rows})
	if err != nil {
		return err
	}
	if want := int64(len(rows)); affected < want {
		return fmt.Errorf("%w: %d of %d %s relationships matched", domain.ErrMissingEndpoint, affected, want, relType)
	}
	return nil
}
