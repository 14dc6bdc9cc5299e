package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/shopgraph/graph-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	cypher   string
	params   map[string]any
	calls    int
	affected int64
	err      error
}

func (f *fakeRunner) Run(ctx context.Context, cypher string, params map[string]any) error {
	f.calls++
	f.cypher = cypher
	f.params = params
	return f.err
}

func (f *fakeRunner) RunAffected(ctx context.Context, cypher string, params map[string]any) (int64, error) {
	f.calls++
	f.cypher = cypher
	f.params = params
	return f.affected, f.err
}

func (f *fakeRunner) rows(t *testing.T) []map[string]any {
	t.Helper()
	rows, ok := f.params["rows"].([]map[string]any)
	require.True(t, ok, "params carry a rows list")
	return rows
}

func TestLoaderCategories(t *testing.T) {
	runner := &fakeRunner{}
	loader := NewLoader(runner)

	err := loader.LoadCategories(context.Background(), []domain.Category{
		{ID: 1, Name: "Books"},
		{ID: 2, Name: "Games"},
	})
	require.NoError(t, err)

	assert.Contains(t, runner.cypher, "MERGE (c:Category {id: row.id})")
	rows := runner.rows(t)
	require.Len(t, rows, 2)
	assert.Equal(t, map[string]any{"id": int64(1), "name": "Books"}, rows[0])
	assert.Equal(t, map[string]any{"id": int64(2), "name": "Games"}, rows[1])
}

func TestLoaderProducts(t *testing.T) {
	t.Run("merges nodes and attaches categories", func(t *testing.T) {
		runner := &fakeRunner{affected: 1}
		loader := NewLoader(runner)

		err := loader.LoadProducts(context.Background(), []domain.Product{
			{ID: 1, Name: "Atlas", Price: 9.99, CategoryID: 1},
		})
		require.NoError(t, err)

		assert.Contains(t, runner.cypher, "MERGE (p:Product {id: row.id})")
		assert.Contains(t, runner.cypher, "MATCH (c:Category {id: row.category_id})")
		assert.Contains(t, runner.cypher, "IN_CATEGORY")
		rows := runner.rows(t)
		require.Len(t, rows, 1)
		assert.Equal(t, 9.99, rows[0]["price"])
	})

	t.Run("missing category surfaces as a shortfall", func(t *testing.T) {
		runner := &fakeRunner{affected: 1}
		loader := NewLoader(runner)

		err := loader.LoadProducts(context.Background(), []domain.Product{
			{ID: 1, CategoryID: 1},
			{ID: 2, CategoryID: 99},
		})
		require.ErrorIs(t, err, domain.ErrMissingEndpoint)
		assert.Contains(t, err.Error(), "IN_CATEGORY")
		assert.Contains(t, err.Error(), "1 of 2")
	})
}

func TestLoaderCustomers(t *testing.T) {
	runner := &fakeRunner{}
	loader := NewLoader(runner)

	err := loader.LoadCustomers(context.Background(), []domain.Customer{
		{ID: 1, Name: "Ada", JoinDate: "2020-01-01"},
	})
	require.NoError(t, err)

	assert.Contains(t, runner.cypher, "MERGE (c:Customer {id: row.id})")
	rows := runner.rows(t)
	assert.Equal(t, "2020-01-01", rows[0]["join_date"])
}

func TestLoaderOrders(t *testing.T) {
	runner := &fakeRunner{affected: 1}
	loader := NewLoader(runner)

	err := loader.LoadOrders(context.Background(), []domain.Order{
		{ID: 1, CustomerID: 1, Timestamp: "2021-01-01T00:00:00Z"},
	})
	require.NoError(t, err)

	assert.Contains(t, runner.cypher, "MERGE (o:Order {id: row.id})")
	assert.Contains(t, runner.cypher, "MATCH (c:Customer {id: row.customer_id})")
	assert.Contains(t, runner.cypher, "PLACED")
}

func TestLoaderOrdersMissingCustomer(t *testing.T) {
	// Orders referencing an absent customer must fail the batch, not
	// conjure a Customer node.
	runner := &fakeRunner{affected: 0}
	loader := NewLoader(runner)

	err := loader.LoadOrders(context.Background(), []domain.Order{
		{ID: 1, CustomerID: 404},
	})
	require.ErrorIs(t, err, domain.ErrMissingEndpoint)
	assert.NotContains(t, runner.cypher, "MERGE (c:Customer")
}

func TestLoaderOrderItems(t *testing.T) {
	t.Run("matches both endpoints, never creates them", func(t *testing.T) {
		runner := &fakeRunner{affected: 1}
		loader := NewLoader(runner)

		err := loader.LoadOrderItems(context.Background(), []domain.OrderItem{
			{OrderID: 1, ProductID: 1, Quantity: 2},
		})
		require.NoError(t, err)

		assert.Contains(t, runner.cypher, "MATCH (o:Order {id: row.order_id})")
		assert.Contains(t, runner.cypher, "MATCH (p:Product {id: row.product_id})")
		assert.Contains(t, runner.cypher, "CONTAINS")
		assert.NotContains(t, runner.cypher, "MERGE (o:Order")
		assert.NotContains(t, runner.cypher, "MERGE (p:Product")
		rows := runner.rows(t)
		assert.Equal(t, 2, rows[0]["quantity"])
	})

	t.Run("shortfall fails the chunk", func(t *testing.T) {
		runner := &fakeRunner{affected: 0}
		loader := NewLoader(runner)

		err := loader.LoadOrderItems(context.Background(), []domain.OrderItem{
			{OrderID: 1, ProductID: 99},
		})
		require.ErrorIs(t, err, domain.ErrMissingEndpoint)
	})
}

func TestLoaderEvents(t *testing.T) {
	t.Run("each event type loads as its own relationship kind", func(t *testing.T) {
		cases := map[domain.EventType]string{
			domain.EventView:      "VIEWED",
			domain.EventClick:     "CLICKED",
			domain.EventAddToCart: "ADDED_TO_CART",
		}
		for kind, relType := range cases {
			runner := &fakeRunner{affected: 1}
			loader := NewLoader(runner)

			err := loader.LoadEvents(context.Background(), kind, []domain.Event{
				{ID: 1, CustomerID: 1, ProductID: 1, Timestamp: "2021-01-02T00:00:00Z"},
			})
			require.NoError(t, err, "kind %s", kind)
			assert.Contains(t, runner.cypher, "[r:"+relType+" {id: row.id}]")
		}
	})

	t.Run("relationship keys on the event id", func(t *testing.T) {
		runner := &fakeRunner{affected: 1}
		loader := NewLoader(runner)

		err := loader.LoadEvents(context.Background(), domain.EventView, []domain.Event{
			{ID: 7, CustomerID: 1, ProductID: 1},
		})
		require.NoError(t, err)
		rows := runner.rows(t)
		assert.Equal(t, int64(7), rows[0]["id"])
	})

	t.Run("unknown kind is rejected before any request", func(t *testing.T) {
		runner := &fakeRunner{}
		loader := NewLoader(runner)

		err := loader.LoadEvents(context.Background(), "purchase", []domain.Event{{ID: 1}})
		require.ErrorIs(t, err, domain.ErrUnknownEventType)
		assert.Zero(t, runner.calls)
	})
}

func TestLoaderEmptyChunks(t *testing.T) {
	runner := &fakeRunner{}
	loader := NewLoader(runner)

	require.NoError(t, loader.LoadCategories(context.Background(), nil))
	require.NoError(t, loader.LoadOrderItems(context.Background(), nil))
	require.NoError(t, loader.LoadEvents(context.Background(), domain.EventView, nil))
	assert.Zero(t, runner.calls)
}

func TestLoaderPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("bolt connection lost")
	runner := &fakeRunner{err: boom}
	loader := NewLoader(runner)

	err := loader.LoadCategories(context.Background(), []domain.Category{{ID: 1}})
	require.ErrorIs(t, err, boom)

	err = loader.LoadOrderItems(context.Background(), []domain.OrderItem{{OrderID: 1, ProductID: 1}})
	require.ErrorIs(t, err, boom)
}
