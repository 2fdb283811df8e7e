package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
)

func New(url string) (*sql.DB, error) {
	return sql.Open("postgres", url)
}

func NewPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	return pgxpool.New(ctx, url)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS product_snapshot (
		id         UUID PRIMARY KEY,
		run_id     UUID NOT NULL,
		link       TEXT NOT NULL UNIQUE,
		brand      TEXT NOT NULL,
		product    TEXT NOT NULL,
		price      TEXT NOT NULL,
		list_price TEXT NOT NULL,
		specs      JSONB NOT NULL,
		crawled_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS crawl_run (
		id             UUID PRIMARY KEY,
		started_at     TIMESTAMPTZ NOT NULL,
		finished_at    TIMESTAMPTZ NOT NULL,
		links_listed   INTEGER NOT NULL,
		links_skipped  INTEGER NOT NULL,
		extracted      INTEGER NOT NULL,
		failed         INTEGER NOT NULL,
		total_brands   INTEGER NOT NULL,
		total_products INTEGER NOT NULL
	)`,
}

// Migrate creates the archive tables when they do not exist yet.
func Migrate(ctx context.Context, conn *sql.DB) error {
	for _, stmt := range schema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
