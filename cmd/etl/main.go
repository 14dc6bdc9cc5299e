package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/robfig/cron/v3"
	"github.com/shopgraph/graph-etl/config"
	"github.com/shopgraph/graph-etl/internal/etl"
	"github.com/shopgraph/graph-etl/internal/graph"
	"github.com/shopgraph/graph-etl/internal/storage/postgres"
)

func main() {
	schedule := flag.String("schedule", "", "cron expression; when set, re-run the pipeline on this schedule instead of exiting")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	if *schedule == "" {
		if err := runOnce(ctx, cfg); err != nil {
			log.Fatalf("etl failed: %v", err)
		}
		log.Println("etl finished successfully")
		return
	}

	// Re-running the full pipeline on a schedule is safe: every load
	// operation is idempotent.
	c := cron.New()
	_, err = c.AddFunc(*schedule, func() {
		if err := runOnce(ctx, cfg); err != nil {
			log.Printf("[error] scheduled run failed: %v", err)
			return
		}
		log.Println("[info] scheduled run finished")
	})
	if err != nil {
		log.Fatalf("invalid schedule %q: %v", *schedule, err)
	}
	log.Printf("[info] scheduler started schedule=%q", *schedule)
	c.Run()
}

func runOnce(ctx context.Context, cfg *config.Config) error {
	schemaText, err := os.ReadFile(cfg.Load.SchemaFile)
	if err != nil {
		return err
	}

	client, err := graph.NewClient(&cfg.Neo4j)
	if err != nil {
		return err
	}
	defer client.Close(ctx)

	if err := etl.WaitForReady(ctx, "postgres", postgres.Probe(&cfg.Postgres), cfg.Load.ReadyTimeout, cfg.Load.PollInterval); err != nil {
		return err
	}
	if err := etl.WaitForReady(ctx, "neo4j", client.VerifyConnectivity, cfg.Load.ReadyTimeout, cfg.Load.PollInterval); err != nil {
		return err
	}

	db, err := postgres.NewConnection(&cfg.Postgres)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline := etl.NewPipeline(
		postgres.NewExtractor(db),
		graph.NewLoader(client),
		client,
		string(schemaText),
		cfg.Load.BatchSize,
	)
	return pipeline.Run(ctx)
}
