package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"vnbcrawler/internal/aggregate"
	"vnbcrawler/internal/config"
	"vnbcrawler/internal/db"
	"vnbcrawler/internal/model"
	"vnbcrawler/internal/repository"
	"vnbcrawler/internal/storage"
)

const archivedHeader = "Archived"

// go run ./cmd/summary
// go run ./cmd/summary --archive --runs 5
func main() {
	cfg := config.Load()
	var archive bool
	var runs int

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Prints the product count per brand of a crawled workbook.",
		Run: func(cmd *cobra.Command, args []string) {
			if err := run(cmd.Context(), cfg, archive, runs); err != nil {
				fmt.Fprintln(os.Stderr, err.Error())
				os.Exit(1)
			}
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&cfg.OutputPath, "output", cfg.OutputPath, "workbook to summarize")
	flags.BoolVar(&archive, "archive", false, "add the archived product count per brand (needs DATABASE_URL)")
	flags.IntVar(&runs, "runs", 0, "also list the most recent runs (needs DATABASE_URL)")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, archive bool, runs int) error {
	store, err := storage.ReadWorkbook(cfg.OutputPath)
	if err != nil {
		return err
	}
	_, summary := aggregate.Finalize(store)

	if !archive && runs <= 0 {
		render(os.Stdout, summary, nil)
		return nil
	}
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set")
	}

	var archived map[string]int
	if archive {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to create connection pool: %w", err)
		}
		defer pool.Close()
		snapshots := &repository.SnapshotRepository{DB: pool}
		if archived, err = snapshots.CountByBrand(ctx); err != nil {
			return fmt.Errorf("failed to count archived products: %w", err)
		}
	}
	render(os.Stdout, summary, archived)

	if runs > 0 {
		sqlDB, err := db.New(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer sqlDB.Close()
		runRepo := &repository.RunRepository{DB: sqlDB}
		list, err := runRepo.List(ctx, runs)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
		renderRuns(os.Stdout, list)
	}
	return nil
}

// render prints the summary rows. When archived is not nil a column with the
// archived count of each brand is added; the total rows sum it up.
func render(w io.Writer, summary []model.SummaryRow, archived map[string]int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := table.Row{aggregate.SummaryHeader[0], aggregate.SummaryHeader[1]}
	if archived != nil {
		header = append(header, archivedHeader)
	}
	t.AppendHeader(header)

	brands := summary
	if len(brands) >= 2 {
		brands = summary[:len(summary)-2]
	}
	archivedTotal := 0
	for _, s := range brands {
		row := table.Row{s.Brand, s.Count}
		if archived != nil {
			row = append(row, archived[s.Brand])
			archivedTotal += archived[s.Brand]
		}
		t.AppendRow(row)
	}
	if len(summary) >= 2 {
		for _, s := range summary[len(summary)-2:] {
			row := table.Row{s.Brand, s.Count}
			if archived != nil {
				if s.Brand == aggregate.TotalProductLabel {
					row = append(row, archivedTotal)
				} else {
					row = append(row, "")
				}
			}
			t.AppendFooter(row)
		}
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func renderRuns(w io.Writer, runs []repository.CrawlRun) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Run", "Started", "Duration", "Listed", "Skipped", "Extracted", "Failed", "Brands", "Products"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.ID,
			r.StartedAt.Format(time.DateTime),
			r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond),
			r.LinksListed,
			r.LinksSkipped,
			r.Extracted,
			r.Failed,
			r.TotalBrands,
			r.TotalProducts,
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
