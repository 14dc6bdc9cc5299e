// seed loads storefront CSV files into the relational source so the
// pipeline has something to migrate in local and CI environments. Inserts
// are upserts, so re-seeding is as safe as re-running the pipeline.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopgraph/graph-etl/config"
	"github.com/shopgraph/graph-etl/internal/storage/postgres"
)

const defaultBatchSize = 500

var ddl = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		price NUMERIC(10,2) NOT NULL,
		category_id BIGINT NOT NULL REFERENCES categories(id)
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		join_date DATE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGINT PRIMARY KEY,
		customer_id BIGINT NOT NULL REFERENCES customers(id),
		ts TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_id BIGINT NOT NULL REFERENCES orders(id),
		product_id BIGINT NOT NULL REFERENCES products(id),
		quantity INT NOT NULL,
		PRIMARY KEY (order_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id BIGINT PRIMARY KEY,
		customer_id BIGINT NOT NULL REFERENCES customers(id),
		product_id BIGINT NOT NULL REFERENCES products(id),
		event_type TEXT NOT NULL,
		ts TIMESTAMPTZ NOT NULL
	)`,
}

// tableSpec maps one CSV file onto one table upsert. Tables are seeded in
// the same foreign-key order the pipeline loads them in.
type tableSpec struct {
	file     string
	table    string
	columns  []string
	conflict string
	updates  []string
}

var tables = []tableSpec{
	{
		file:     "categories.csv",
		table:    "categories",
		columns:  []string{"id", "name"},
		conflict: "(id)",
		updates:  []string{"name = EXCLUDED.name"},
	},
	{
		file:     "products.csv",
		table:    "products",
		columns:  []string{"id", "name", "price", "category_id"},
		conflict: "(id)",
		updates: []string{
			"name = EXCLUDED.name",
			"price = EXCLUDED.price",
			"category_id = EXCLUDED.category_id",
		},
	},
	{
		file:     "customers.csv",
		table:    "customers",
		columns:  []string{"id", "name", "join_date"},
		conflict: "(id)",
		updates: []string{
			"name = EXCLUDED.name",
			"join_date = EXCLUDED.join_date",
		},
	},
	{
		file:     "orders.csv",
		table:    "orders",
		columns:  []string{"id", "customer_id", "ts"},
		conflict: "(id)",
		updates: []string{
			"customer_id = EXCLUDED.customer_id",
			"ts = EXCLUDED.ts",
		},
	},
	{
		file:     "order_items.csv",
		table:    "order_items",
		columns:  []string{"order_id", "product_id", "quantity"},
		conflict: "(order_id, product_id)",
		updates:  []string{"quantity = EXCLUDED.quantity"},
	},
	{
		file:     "events.csv",
		table:    "events",
		columns:  []string{"id", "customer_id", "product_id", "event_type", "ts"},
		conflict: "(id)",
		updates: []string{
			"customer_id = EXCLUDED.customer_id",
			"product_id = EXCLUDED.product_id",
			"event_type = EXCLUDED.event_type",
			"ts = EXCLUDED.ts",
		},
	},
}

func main() {
	dir := flag.String("dir", "data", "directory containing the storefront CSV files")
	batch := flag.Int("batch", defaultBatchSize, "batch size for inserts")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = postgres.URL(&cfg.Postgres)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	for _, stmt := range ddl {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			log.Fatalf("create table failed: %v", err)
		}
	}

	for _, spec := range tables {
		path := filepath.Join(*dir, spec.file)
		if _, err := os.Stat(path); err != nil {
			log.Printf("%s not found (skipping)", path)
			continue
		}
		log.Printf("Importing %s", path)
		if err := importCSV(ctx, pool, spec, path, *batch); err != nil {
			log.Fatalf("%s import failed: %v", spec.table, err)
		}
	}

	log.Println("All imports finished successfully.")
}

func importCSV(ctx context.Context, pool *pgxpool.Pool, spec tableSpec, path string, batchSize int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	idx, err := mapHeaderIndices(header, spec.columns)
	if err != nil {
		return err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	count := 0
	batch := make([][]any, 0, batchSize)
	for {
		rec, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("csv read error: %w", err)
		}

		row := make([]any, 0, len(spec.columns))
		for _, col := range spec.columns {
			row = append(row, strings.TrimSpace(rec[idx[col]]))
		}
		batch = append(batch, row)
		count++
		if len(batch) >= batchSize {
			if err := flushBatch(ctx, tx, spec, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := flushBatch(ctx, tx, spec, batch); err != nil {
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	log.Printf("%s import complete, %d rows processed", spec.table, count)
	return nil
}

func flushBatch(ctx context.Context, tx pgx.Tx, spec tableSpec, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	valuePlaceholders := make([]string, 0, len(rows))
	args := make([]any, 0, len(rows)*len(spec.columns))
	argPos := 1
	for _, row := range rows {
		ph := make([]string, 0, len(spec.columns))
		for i := range spec.columns {
			ph = append(ph, fmt.Sprintf("$%d", argPos))
			args = append(args, row[i])
			argPos++
		}
		valuePlaceholders = append(valuePlaceholders, fmt.Sprintf("(%s)", strings.Join(ph, ",")))
	}

	sql := fmt.Sprintf(`
INSERT INTO %s (%s)
VALUES %s
ON CONFLICT %s DO UPDATE
  SET %s;
`, spec.table, strings.Join(spec.columns, ","), strings.Join(valuePlaceholders, ","), spec.conflict, strings.Join(spec.updates, ",\n      "))

	_, err := tx.Exec(ctx, sql, args...)
	return err
}

func mapHeaderIndices(header []string, want []string) (map[string]int, error) {
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, w := range want {
		if _, ok := idx[strings.ToLower(w)]; !ok {
			return nil, fmt.Errorf("expected header %q not found, available: %v", w, header)
		}
	}
	return idx, nil
}
