package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"vnbcrawler/internal/aggregate"
	"vnbcrawler/internal/crawler"
	"vnbcrawler/internal/model"
	"vnbcrawler/internal/observability"
	"vnbcrawler/internal/repository"
	"vnbcrawler/internal/storage"
)

// Locker guards the store against concurrent runs.
type Locker interface {
	Acquire(ctx context.Context) error
	Release(ctx context.Context) error
}

// SnapshotStore archives the records extracted by a run.
type SnapshotStore interface {
	SaveAll(ctx context.Context, runID string, records []*model.ProductRecord) error
}

// RunStore keeps the audit trail of runs.
type RunStore interface {
	Save(ctx context.Context, run repository.CrawlRun) error
}

// Runner executes one crawl: read the store, list and filter links, extract
// products, merge and write the store back. Lock, Snapshots and Runs are
// optional.
type Runner struct {
	CatalogURL string
	PageCount  int
	OutputPath string
	JSONPath   string

	Fetcher   crawler.Fetcher
	Lock      Locker
	Snapshots SnapshotStore
	Runs      RunStore
}

// Result describes a finished run.
type Result struct {
	RunID     string
	Listed    int
	Skipped   int
	Extracted int
	Failed    int
	Summary   []model.SummaryRow

	// Mirror tracks the JSON mirror write; nil when no JSON path is set.
	Mirror *storage.Task
}

func (r *Runner) Run(ctx context.Context) (*Result, error) {
	started := time.Now()
	res := &Result{RunID: uuid.NewString()}
	logger := log.WithField("run", res.RunID)

	base, err := url.Parse(r.CatalogURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog url %s: %w", r.CatalogURL, err)
	}

	if r.Lock != nil {
		if err := r.Lock.Acquire(ctx); err != nil {
			return nil, err
		}
		defer func() {
			if err := r.Lock.Release(context.WithoutCancel(ctx)); err != nil {
				logger.WithError(err).Warn("failed to release lock")
			}
		}()
	}

	existing, err := storage.ReadWorkbook(r.OutputPath)
	if err != nil {
		return nil, err
	}
	seen := existing.SeenLinks(crawler.LinkNormalizer(base))
	logger.WithFields(log.Fields{"brands": existing.Len(), "links": len(seen)}).Info("loaded existing store")

	lister := &crawler.Lister{Fetcher: r.Fetcher}
	candidates, err := lister.ListPages(ctx, r.CatalogURL, r.PageCount)
	if err != nil {
		return nil, err
	}
	links := crawler.FilterLinks(candidates, seen)
	res.Listed = len(candidates)
	res.Skipped = len(candidates) - len(links)
	logger.WithFields(log.Fields{"listed": res.Listed, "new": len(links)}).Info("collected product links")

	records := r.extractAll(ctx, links)
	res.Extracted = len(records)
	res.Failed = len(links) - len(records)

	merged := aggregate.Merge(existing, records)
	store, summary := aggregate.Finalize(merged)
	if err := storage.WriteWorkbook(r.OutputPath, store, summary); err != nil {
		return nil, err
	}
	res.Summary = summary
	recordTotals(summary)

	if r.JSONPath != "" {
		res.Mirror = storage.MirrorJSON(r.JSONPath, store)
	}

	r.archive(ctx, logger, res, records, started)

	logger.WithFields(log.Fields{
		"extracted": res.Extracted,
		"failed":    res.Failed,
		"skipped":   res.Skipped,
	}).Info("crawl finished")
	return res, nil
}

// extractAll fetches every link at once. Records come back in link order;
// links that failed are left out.
func (r *Runner) extractAll(ctx context.Context, links []string) []*model.ProductRecord {
	extractor := &crawler.Extractor{Fetcher: r.Fetcher}
	slots := make([]*model.ProductRecord, len(links))

	var g errgroup.Group
	for i, link := range links {
		g.Go(func() error {
			rec, err := extractor.Extract(ctx, link)
			if err == nil {
				slots[i] = rec
			}
			return nil
		})
	}
	_ = g.Wait()

	records := make([]*model.ProductRecord, 0, len(slots))
	for _, rec := range slots {
		if rec != nil {
			records = append(records, rec)
		}
	}
	return records
}

func (r *Runner) archive(ctx context.Context, logger *log.Entry, res *Result, records []*model.ProductRecord, started time.Time) {
	if r.Snapshots != nil {
		if err := r.Snapshots.SaveAll(ctx, res.RunID, records); err != nil {
			logger.WithError(err).Error("failed to archive snapshots")
		}
	}
	if r.Runs != nil {
		brands, products := totals(res.Summary)
		run := repository.CrawlRun{
			ID:            res.RunID,
			StartedAt:     started,
			FinishedAt:    time.Now(),
			LinksListed:   res.Listed,
			LinksSkipped:  res.Skipped,
			Extracted:     res.Extracted,
			Failed:        res.Failed,
			TotalBrands:   brands,
			TotalProducts: products,
		}
		if err := r.Runs.Save(ctx, run); err != nil {
			logger.WithError(err).Error("failed to record run")
		}
	}
}

func totals(summary []model.SummaryRow) (brands, products int) {
	for _, s := range summary {
		switch s.Brand {
		case aggregate.TotalBrandLabel:
			brands = s.Count
		case aggregate.TotalProductLabel:
			products = s.Count
		}
	}
	return brands, products
}

func recordTotals(summary []model.SummaryRow) {
	brands, products := totals(summary)
	observability.StoreBrands.Set(float64(brands))
	observability.StoreProducts.Set(float64(products))
}
