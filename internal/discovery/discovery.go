// Package discovery orchestrates a full run across every configured source
// category and snapshots the combined results.
package discovery

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ctsc/internship-tracker/internal/ats"
	"github.com/ctsc/internship-tracker/internal/config"
	"github.com/ctsc/internship-tracker/internal/fetch"
	"github.com/ctsc/internship-tracker/internal/listing"
	"github.com/ctsc/internship-tracker/internal/metrics"
	"github.com/ctsc/internship-tracker/internal/monitor"
	"github.com/ctsc/internship-tracker/internal/ratelimit"
	"github.com/ctsc/internship-tracker/internal/robots"
	"github.com/ctsc/internship-tracker/internal/scrape"
	"github.com/ctsc/internship-tracker/internal/snapshot"
)

// CareerScraper is the career-page adapter consumed by the engine.
type CareerScraper interface {
	Scrape(ctx context.Context, src config.ScrapeSource) []listing.RawListing
}

// RepoMonitor is the repository-diff adapter consumed by the engine.
type RepoMonitor interface {
	Check(ctx context.Context, mon config.GitHubMonitor) []listing.RawListing
}

// SnapshotWriter persists one run's combined output.
type SnapshotWriter interface {
	Write(runID string, listings []listing.RawListing) (string, error)
}

// Engine fans a discovery run out across every configured source. Failures
// are isolated at both the source and the category level: one bad board, a
// panicking adapter, or an entire dead category never aborts the run.
type Engine struct {
	cfg        config.Config
	greenhouse ats.Client
	lever      ats.Client
	ashby      ats.Client
	scraper    CareerScraper
	monitor    RepoMonitor
	snapshots  SnapshotWriter
	logger     *zap.Logger
}

// NewEngine assembles an engine from already-constructed adapters.
func NewEngine(
	cfg config.Config,
	greenhouse, lever, ashby ats.Client,
	scraper CareerScraper,
	repoMonitor RepoMonitor,
	snapshots SnapshotWriter,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		cfg:        cfg,
		greenhouse: greenhouse,
		lever:      lever,
		ashby:      ashby,
		scraper:    scraper,
		monitor:    repoMonitor,
		snapshots:  snapshots,
		logger:     logger,
	}
}

// Build wires the full adapter stack from configuration.
func Build(cfg config.Config, logger *zap.Logger) *Engine {
	limiter := ratelimit.New(cfg.RateLimit.RequestsPerSecond)
	fetcher := fetch.New(limiter, fetch.Config{
		UserAgent:   cfg.UserAgent,
		Timeout:     cfg.HTTP.Timeout(),
		MaxAttempts: cfg.HTTP.MaxAttempts,
		BackoffBase: cfg.HTTP.BackoffInitial(),
		BackoffMax:  cfg.HTTP.BackoffMax(),
	}, logger)
	checker := robots.NewChecker(limiter, robots.Config{
		UserAgent: cfg.UserAgent,
		AgentName: cfg.AgentName,
		Timeout:   cfg.HTTP.RobotsTimeout(),
	}, logger)

	return NewEngine(
		cfg,
		ats.NewGreenhouseClient(fetcher, cfg.Filters),
		ats.NewLeverClient(fetcher, cfg.Filters),
		ats.NewAshbyClient(fetcher, cfg.Filters),
		scrape.New(fetcher, checker, cfg.Filters, logger),
		monitor.New(fetcher, monitor.NewStateStore(cfg.MonitorStatePath(), logger), logger),
		snapshot.NewWriter(cfg.DataDir, logger),
		logger,
	)
}

// Fixed category order. Results are always concatenated in this order, and
// within a category in configuration order, so identical inputs produce
// identically ordered output regardless of goroutine scheduling.
const (
	categoryGreenhouse = "greenhouse"
	categoryLever      = "lever"
	categoryAshby      = "ashby"
	categoryScrape     = "scrape"
	categoryMonitor    = "github_monitor"
)

// DiscoverAll runs every configured source concurrently and returns the
// combined listings. When anything was found, the run is persisted as a
// snapshot; a snapshot write failure is logged, never propagated.
func (e *Engine) DiscoverAll(ctx context.Context) []listing.RawListing {
	e.logger.Info("starting discovery run", zap.Int("sources", e.cfg.TotalSources()))

	categories := []struct {
		name string
		run  func(context.Context) []listing.RawListing
	}{
		{categoryGreenhouse, func(ctx context.Context) []listing.RawListing {
			return e.runBoards(ctx, categoryGreenhouse, e.cfg.GreenhouseBoards, e.greenhouse)
		}},
		{categoryLever, func(ctx context.Context) []listing.RawListing {
			return e.runBoards(ctx, categoryLever, e.cfg.LeverBoards, e.lever)
		}},
		{categoryAshby, func(ctx context.Context) []listing.RawListing {
			return e.runBoards(ctx, categoryAshby, e.cfg.AshbyBoards, e.ashby)
		}},
		{categoryScrape, e.runScrapes},
		{categoryMonitor, e.runMonitors},
	}

	results := make([][]listing.RawListing, len(categories))
	var wg sync.WaitGroup
	for i, cat := range categories {
		i, cat := i, cat
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					e.logger.Error("source category panicked",
						zap.String("category", cat.name),
						zap.Any("panic", r))
					results[i] = nil
				}
			}()
			results[i] = cat.run(ctx)
		}()
	}
	wg.Wait()

	var all []listing.RawListing
	for _, r := range results {
		all = append(all, r...)
	}
	e.logger.Info("discovery run complete", zap.Int("listings", len(all)))

	if len(all) > 0 {
		runID := uuid.NewString()
		if _, err := e.snapshots.Write(runID, all); err != nil {
			e.logger.Error("snapshot write failed", zap.String("run_id", runID), zap.Error(err))
		}
	}
	return all
}

// itemResult tags one source's outcome so results can be recombined by
// configuration position.
type itemResult struct {
	listings []listing.RawListing
	err      error
}

// fanOut runs fn for every item concurrently, slotting each outcome at the
// item's original index. A panicking item becomes an error in its slot.
func fanOut[T any](ctx context.Context, items []T, fn func(context.Context, T) ([]listing.RawListing, error)) []itemResult {
	results := make([]itemResult, len(items))
	var wg sync.WaitGroup
	for i, item := range items {
		i, item := i, item
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[i] = itemResult{err: fmt.Errorf("source panicked: %v", r)}
				}
			}()
			found, err := fn(ctx, item)
			results[i] = itemResult{listings: found, err: err}
		}()
	}
	wg.Wait()
	return results
}

// collect flattens slotted results in order, counting outcomes per category.
func (e *Engine) collect(category string, results []itemResult) []listing.RawListing {
	var out []listing.RawListing
	for _, r := range results {
		if r.err != nil {
			metrics.SourcesFailed.WithLabelValues(category).Inc()
			e.logger.Error("source failed",
				zap.String("category", category),
				zap.Error(r.err))
			continue
		}
		metrics.SourcesSucceeded.WithLabelValues(category).Inc()
		out = append(out, r.listings...)
	}
	metrics.ListingsDiscovered.WithLabelValues(category).Add(float64(len(out)))
	e.logger.Info("category finished",
		zap.String("category", category),
		zap.Int("sources", len(results)),
		zap.Int("listings", len(out)))
	return out
}

func (e *Engine) runBoards(ctx context.Context, category string, boards []config.Board, client ats.Client) []listing.RawListing {
	return e.collect(category, fanOut(ctx, boards, client.FetchListings))
}

func (e *Engine) runScrapes(ctx context.Context) []listing.RawListing {
	results := fanOut(ctx, e.cfg.ScrapeSources,
		func(ctx context.Context, src config.ScrapeSource) ([]listing.RawListing, error) {
			return e.scraper.Scrape(ctx, src), nil
		})
	return e.collect(categoryScrape, results)
}

func (e *Engine) runMonitors(ctx context.Context) []listing.RawListing {
	results := fanOut(ctx, e.cfg.GitHubMonitors,
		func(ctx context.Context, mon config.GitHubMonitor) ([]listing.RawListing, error) {
			return e.monitor.Check(ctx, mon), nil
		})
	return e.collect(categoryMonitor, results)
}
