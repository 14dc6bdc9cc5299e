package etl

import (
	"context"
	"fmt"
	"strings"
)

// StatementRunner executes a single graph statement.
type StatementRunner interface {
	Run(ctx context.Context, cypher string, params map[string]any) error
}

// ApplyStatements splits text on `;`, trims blanks and runs each statement
// in order. Statements are expected to be idempotent themselves (CREATE
// CONSTRAINT ... IF NOT EXISTS); the first failure aborts the rest.
func ApplyStatements(ctx context.Context, runner StatementRunner, text string) error {
	for i, stmt := range strings.Split(text, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if err := runner.Run(ctx, stmt, nil); err != nil {
			return fmt.Errorf("statement %d %q: %w", i, firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
