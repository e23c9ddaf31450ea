package checkers

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var errSchemaMissing = errors.New("resumes table missing, migrations not applied")

// PostgresChecker pings the pool and confirms the schema is in place.
type PostgresChecker struct {
	pool *pgxpool.Pool
}

func NewPostgresChecker(pool *pgxpool.Pool) *PostgresChecker {
	return &PostgresChecker{pool: pool}
}

func (c *PostgresChecker) Name() string { return "postgres" }

func (c *PostgresChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	var present bool
	if err := c.pool.QueryRow(ctx, `SELECT to_regclass('public.resumes') IS NOT NULL`).Scan(&present); err != nil {
		return err
	}
	if !present {
		return errSchemaMissing
	}
	return nil
}
