package repository

import (
	"context"
	"database/sql"
	"time"
)

// CrawlRun is the audit record of one pipeline run.
type CrawlRun struct {
	ID            string
	StartedAt     time.Time
	FinishedAt    time.Time
	LinksListed   int
	LinksSkipped  int
	Extracted     int
	Failed        int
	TotalBrands   int
	TotalProducts int
}

type RunRepository struct {
	DB *sql.DB
}

func (r *RunRepository) Save(ctx context.Context, run CrawlRun) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO crawl_run
		(id, started_at, finished_at, links_listed, links_skipped, extracted, failed, total_brands, total_products)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, run.ID, run.StartedAt, run.FinishedAt, run.LinksListed, run.LinksSkipped,
		run.Extracted, run.Failed, run.TotalBrands, run.TotalProducts)
	return err
}

// List returns the most recent runs first.
func (r *RunRepository) List(ctx context.Context, limit int) ([]CrawlRun, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, started_at, finished_at, links_listed, links_skipped, extracted, failed, total_brands, total_products
		FROM crawl_run
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []CrawlRun
	for rows.Next() {
		var c CrawlRun
		if err := rows.Scan(&c.ID, &c.StartedAt, &c.FinishedAt, &c.LinksListed, &c.LinksSkipped,
			&c.Extracted, &c.Failed, &c.TotalBrands, &c.TotalProducts); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
