package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"vnbcrawler/internal/config"
	"vnbcrawler/internal/crawler"
	"vnbcrawler/internal/db"
	"vnbcrawler/internal/observability"
	"vnbcrawler/internal/pipeline"
	"vnbcrawler/internal/repository"
	"vnbcrawler/internal/runlock"
)

// go run ./cmd/crawler
// go run ./cmd/crawler --pages 5 --output ./file-local/merged_data.xlsx
func main() {
	cfg := config.Load()

	root := &cobra.Command{
		Use:           "crawler",
		Short:         "Crawls the catalog and merges new products into the brand workbook.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg)
		},
	}

	flags := root.Flags()
	flags.StringVar(&cfg.CatalogURL, "url", cfg.CatalogURL, "catalog listing page")
	flags.IntVar(&cfg.PageCount, "pages", cfg.PageCount, "number of listing pages to crawl")
	flags.DurationVar(&cfg.FetchTimeout, "timeout", cfg.FetchTimeout, "timeout of each request")
	flags.StringVar(&cfg.OutputPath, "output", cfg.OutputPath, "workbook holding the brand sheets")
	flags.StringVar(&cfg.JSONPath, "json", cfg.JSONPath, "JSON mirror of the workbook (empty to disable)")
	flags.StringVar(&cfg.LogLevel, "loglevel", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := root.Execute(); err != nil {
		log.WithError(err).Fatal("crawler failed")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	observability.SetupLogging(cfg.LogLevel)
	observability.Start(cfg.MetricsPort)

	runner := &pipeline.Runner{
		CatalogURL: cfg.CatalogURL,
		PageCount:  cfg.PageCount,
		OutputPath: cfg.OutputPath,
		JSONPath:   cfg.JSONPath,
		Fetcher:    crawler.NewClient(cfg.FetchTimeout),
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		defer client.Close()
		runner.Lock = runlock.New(client, cfg.OutputPath, cfg.LockTTL)
	}

	if cfg.DatabaseURL != "" {
		sqlDB, err := db.New(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer sqlDB.Close()
		if err := db.Migrate(ctx, sqlDB); err != nil {
			log.WithError(err).Error("archive disabled")
		} else {
			pool, err := db.NewPool(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to create connection pool: %w", err)
			}
			defer pool.Close()
			runner.Snapshots = &repository.SnapshotRepository{DB: pool}
			runner.Runs = &repository.RunRepository{DB: sqlDB}
		}
	}

	res, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	for _, s := range res.Summary {
		log.WithFields(log.Fields{"brand": s.Brand, "count": s.Count}).Info("summary")
	}
	if res.Mirror != nil {
		// Run never waits for the mirror; only keep the process alive until
		// it lands. Failures are logged by the mirror itself.
		_ = res.Mirror.Wait()
	}
	return nil
}
