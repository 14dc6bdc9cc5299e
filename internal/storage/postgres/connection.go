package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopgraph/graph-etl/config"
	_ "github.com/lib/pq"
)

func NewConnection(cfg *config.PostgresConfig) (*sql.DB, error) {
	dsn := DSN(cfg)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

// Probe returns a readiness probe that opens a connection, pings it and
// closes it again. No connection is retained between attempts.
func Probe(cfg *config.PostgresConfig) func(ctx context.Context) error {
	dsn := DSN(cfg)
	return func(ctx context.Context) error {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		return db.PingContext(ctx)
	}
}
