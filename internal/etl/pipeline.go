package etl

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopgraph/graph-etl/internal/domain"
)

// Source produces the six ordered record sequences from the relational
// store.
type Source interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	Products(ctx context.Context) ([]domain.Product, error)
	Customers(ctx context.Context) ([]domain.Customer, error)
	Orders(ctx context.Context) ([]domain.Order, error)
	OrderItems(ctx context.Context) ([]domain.OrderItem, error)
	Events(ctx context.Context) ([]domain.Event, error)
}

// GraphLoader applies one chunk per call against the graph store.
type GraphLoader interface {
	LoadCategories(ctx context.Context, chunk []domain.Category) error
	LoadProducts(ctx context.Context, chunk []domain.Product) error
	LoadCustomers(ctx context.Context, chunk []domain.Customer) error
	LoadOrders(ctx context.Context, chunk []domain.Order) error
	LoadOrderItems(ctx context.Context, chunk []domain.OrderItem) error
	LoadEvents(ctx context.Context, kind domain.EventType, chunk []domain.Event) error
}

// Pipeline runs one idempotent migration: schema, extraction, then loading
// in strict entity dependency order (Category → Product → Customer →
// Order → OrderItem → Event). A failure anywhere halts the run; re-running
// the whole pipeline is the recovery path.
type Pipeline struct {
	source     Source
	loader     GraphLoader
	schema     StatementRunner
	schemaText string
	batchSize  int
}

func NewPipeline(source Source, loader GraphLoader, schema StatementRunner, schemaText string, batchSize int) *Pipeline {
	return &Pipeline{
		source:     source,
		loader:     loader,
		schema:     schema,
		schemaText: schemaText,
		batchSize:  batchSize,
	}
}

func (p *Pipeline) Run(ctx context.Context) error {
	runID := uuid.New().String()

	log.Printf("[info] run_id=%s stage=schema", runID)
	if err := ApplyStatements(ctx, p.schema, p.schemaText); err != nil {
		return fmt.Errorf("schema: %w", err)
	}

	log.Printf("[info] run_id=%s stage=extract", runID)
	categories, err := p.source.Categories(ctx)
	if err != nil {
		return fmt.Errorf("extract categories: %w", err)
	}
	products, err := p.source.Products(ctx)
	if err != nil {
		return fmt.Errorf("extract products: %w", err)
	}
	customers, err := p.source.Customers(ctx)
	if err != nil {
		return fmt.Errorf("extract customers: %w", err)
	}
	orders, err := p.source.Orders(ctx)
	if err != nil {
		return fmt.Errorf("extract orders: %w", err)
	}
	items, err := p.source.OrderItems(ctx)
	if err != nil {
		return fmt.Errorf("extract order_items: %w", err)
	}
	events, err := p.source.Events(ctx)
	if err != nil {
		return fmt.Errorf("extract events: %w", err)
	}

	parts, err := PartitionEvents(events)
	if err != nil {
		return fmt.Errorf("partition events: %w", err)
	}

	if err := loadChunks(ctx, runID, "load_categories", categories, p.batchSize, p.loader.LoadCategories); err != nil {
		return err
	}
	if err := loadChunks(ctx, runID, "load_products", products, p.batchSize, p.loader.LoadProducts); err != nil {
		return err
	}
	if err := loadChunks(ctx, runID, "load_customers", customers, p.batchSize, p.loader.LoadCustomers); err != nil {
		return err
	}
	if err := loadChunks(ctx, runID, "load_orders", orders, p.batchSize, p.loader.LoadOrders); err != nil {
		return err
	}
	if err := loadChunks(ctx, runID, "load_order_items", items, p.batchSize, p.loader.LoadOrderItems); err != nil {
		return err
	}

	eventKinds := []struct {
		kind domain.EventType
		recs []domain.Event
	}{
		{domain.EventView, parts.Views},
		{domain.EventClick, parts.Clicks},
		{domain.EventAddToCart, parts.AddToCarts},
	}
	for _, ek := range eventKinds {
		kind := ek.kind
		apply := func(ctx context.Context, chunk []domain.Event) error {
			return p.loader.LoadEvents(ctx, kind, chunk)
		}
		stage := "load_events_" + string(kind)
		if err := loadChunks(ctx, runID, stage, ek.recs, p.batchSize, apply); err != nil {
			return err
		}
	}

	log.Printf("[info] run_id=%s stage=done categories=%d products=%d customers=%d orders=%d order_items=%d events=%d",
		runID, len(categories), len(products), len(customers), len(orders), len(items), len(events))
	return nil
}

// loadChunks batches recs and applies them in order; errors carry the
// stage name and the failing batch index.
func loadChunks[T any](ctx context.Context, runID, stage string, recs []T, size int, apply func(ctx context.Context, chunk []T) error) error {
	chunks, err := Chunk(recs, size)
	if err != nil {
		return fmt.Errorf("%s: %w", stage, err)
	}
	for i, chunk := range chunks {
		log.Printf("[info] run_id=%s stage=%s batch=%d size=%d", runID, stage, i, len(chunk))
		if err := apply(ctx, chunk); err != nil {
			return fmt.Errorf("%s: batch %d: %w", stage, i, err)
		}
	}
	return nil
}
