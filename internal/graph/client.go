package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/shopgraph/graph-etl/config"
)

// Client wraps a Bolt driver. Each write acquires its own session, so the
// scope of a connection is one logical unit of work.
type Client struct {
	driver neo4j.DriverWithContext
}

func NewClient(cfg *config.Neo4jConfig) (*Client, error) {
	auth := neo4j.BasicAuth(cfg.User, cfg.Password, "")
	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth, func(c *neo4j.Config) {
		c.MaxConnectionPoolSize = 50
		c.SocketConnectTimeout = 5 * time.Second
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	return &Client{driver: driver}, nil
}

// VerifyConnectivity is the readiness probe for the graph store.
func (c *Client) VerifyConnectivity(ctx context.Context) error {
	return c.driver.VerifyConnectivity(ctx)
}

func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// Run executes a single write statement, discarding any records.
func (c *Client) Run(ctx context.Context, cypher string, params map[string]any) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		_, err = res.Consume(ctx)
		return nil, err
	})
	return err
}

// RunAffected executes a write statement that returns a single row with an
// `affected` aggregate and reports its value.
func (c *Client) RunAffected(ctx context.Context, cypher string, params map[string]any) (int64, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	affected, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		v, ok := rec.Get("affected")
		if !ok {
			return nil, fmt.Errorf("statement returned no affected column")
		}
		n, ok := v.(int64)
		if !ok {
			return nil, fmt.Errorf("affected column is %T, want int64", v)
		}
		return n, nil
	})
	if err != nil {
		return 0, err
	}
	return affected.(int64), nil
}
