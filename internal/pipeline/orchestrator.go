package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/ecoulson/perdue/internal/college"
	"github.com/ecoulson/perdue/internal/ctxutil"
	domerrors "github.com/ecoulson/perdue/internal/errors"
	"github.com/ecoulson/perdue/internal/logger"
	"github.com/ecoulson/perdue/internal/metrics"
)

// Store is the persistence surface the pipeline writes through.
type Store interface {
	// StorePage upserts the successes of one page-bag and logs-and-skips its
	// failures. Offices are written once and never overwritten.
	StorePage(ctx context.Context, results []college.ScrapeResult) error
}

// SalaryPhase joins the compensation dataset against the stored students
// once every site has drained.
type SalaryPhase interface {
	Run(ctx context.Context) error
}

// Orchestrator spawns one ScrapeCollege run per site in parallel, feeding
// each run's pages to the store as the run completes. Sites fail
// independently; a site error never aborts its siblings.
type Orchestrator struct {
	sites    []Site
	store    Store
	salaries SalaryPhase
	log      *logger.Logger
	metrics  *metrics.Metrics
}

// NewOrchestrator builds an orchestrator over the given sites.
func NewOrchestrator(sites []Site, store Store, salaries SalaryPhase, log *logger.Logger, m *metrics.Metrics) *Orchestrator {
	return &Orchestrator{
		sites:    sites,
		store:    store,
		salaries: salaries,
		log:      log.WithModule("pipeline"),
		metrics:  m,
	}
}

// Run executes one full pipeline run. Errors are reported per site and per
// row; Run itself only fails when the salary phase does.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.log.InfoContext(ctx, "Pipeline start")

	var wg sync.WaitGroup
	for _, site := range o.sites {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.runSite(ctx, site)
		}()
	}
	wg.Wait()

	o.log.InfoContext(ctx, "Done processing students")

	if o.salaries != nil {
		o.log.InfoContext(ctx, "Processing salaries")
		if err := o.salaries.Run(ctx); err != nil {
			o.log.WithError(err).ErrorContext(ctx, "Salary phase failed")
			return err
		}
		o.log.InfoContext(ctx, "Done processing salaries")
	}

	o.log.InfoContext(ctx, "Pipeline done")
	return nil
}

func (o *Orchestrator) runSite(ctx context.Context, site Site) {
	ctx = ctxutil.WithCollege(ctx, site.College.Name)
	o.log.InfoContext(ctx, "Scraping college")

	start := time.Now()
	pages, err := site.Scrape(ctx)
	o.metrics.ScrapeDuration.WithLabelValues(site.College.Name).Observe(time.Since(start).Seconds())

	if err != nil {
		o.metrics.ScrapeRequestsTotal.WithLabelValues(site.College.Name, "error").Inc()
		o.log.WithError(err).ErrorContext(ctx, "College scrape failed")
		return
	}
	o.metrics.ScrapeRequestsTotal.WithLabelValues(site.College.Name, "success").Inc()

	for _, page := range pages {
		o.countRows(site.College.Name, page)
		if err := o.store.StorePage(ctx, page); err != nil {
			o.log.WithError(err).ErrorContext(ctx, "Failed to store page")
			continue
		}
		o.metrics.PagesScrapedTotal.WithLabelValues(site.College.Name).Inc()
		o.log.InfoContext(ctx, "Stored page", "rows", len(page))
	}
}

func (o *Orchestrator) countRows(collegeName string, page []college.ScrapeResult) {
	for _, result := range page {
		outcome := "success"
		if !result.OK() {
			switch domerrors.KindOf(result.Err) {
			case domerrors.KindNotFound:
				outcome = "not_found"
			case domerrors.KindInvalidArgument:
				outcome = "invalid_argument"
			default:
				outcome = "internal"
			}
		}
		o.metrics.RowsEmittedTotal.WithLabelValues(collegeName, outcome).Inc()
	}
}
