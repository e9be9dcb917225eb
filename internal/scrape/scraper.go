// Package scrape extracts internship candidates from arbitrary career pages
// using link- and container-based heuristics.
package scrape

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/ctsc/internship-tracker/internal/config"
	"github.com/ctsc/internship-tracker/internal/fetch"
	"github.com/ctsc/internship-tracker/internal/listing"
	"github.com/ctsc/internship-tracker/internal/robots"
)

// Scraper composes robots checking, resilient fetching, and the HTML
// extraction heuristics into a per-source scrape pass.
type Scraper struct {
	fetcher *fetch.Fetcher
	robots  *robots.Checker
	filters config.Filters
	rules   ExtractRules
	jitter  func() time.Duration
	logger  *zap.Logger
}

// New builds a Scraper with the default heuristic rules.
func New(fetcher *fetch.Fetcher, checker *robots.Checker, filters config.Filters, logger *zap.Logger) *Scraper {
	return &Scraper{
		fetcher: fetcher,
		robots:  checker,
		filters: filters,
		rules:   DefaultRules(),
		jitter:  courtesyJitter,
		logger:  logger,
	}
}

// courtesyJitter returns a randomized 1-3s pause inserted before parsing to
// further reduce load beyond strict rate limiting.
func courtesyJitter() time.Duration {
	return time.Second + time.Duration(rand.Int63n(int64(2*time.Second)))
}

// Scrape fetches and parses one career page. It never returns an error:
// every failure path yields an empty result with the cause logged.
func (s *Scraper) Scrape(ctx context.Context, src config.ScrapeSource) []listing.RawListing {
	log := s.logger.With(zap.String("company", src.Company), zap.String("url", src.URL))
	log.Info("scraping career page")

	if !s.robots.Allowed(ctx, src.URL) {
		log.Warn("blocked by robots.txt, skipping")
		return nil
	}

	body, err := s.fetcher.Fetch(ctx, src.URL)
	if err != nil {
		log.Error("career page fetch failed", zap.Error(err))
		return nil
	}
	if strings.TrimSpace(body) == "" {
		log.Warn("empty response from career page")
		return nil
	}

	if err := pause(ctx, s.jitter()); err != nil {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		log.Error("career page parse failed", zap.Error(err))
		return nil
	}

	found := extract(doc, src, s.filters, s.rules)
	log.Info("career page scraped", zap.Int("listings", len(found)))
	return found
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
