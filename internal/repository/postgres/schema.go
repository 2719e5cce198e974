package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"techevents/internal/database"
)

//go:embed schema.sql
var schemaSQL string

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// EnsureSchema creates the tables and indexes if they do not exist yet.
func EnsureSchema(ctx context.Context, conn database.Provider) error {
	db, err := conn.Acquire(ctx)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// pgError returns the Postgres error code and constraint name of err, if any.
func pgError(err error) (code, constraint string) {
	var perr *pq.Error
	if errors.As(err, &perr) {
		return string(perr.Code), perr.Constraint
	}
	return "", ""
}
