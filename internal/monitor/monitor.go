// Package monitor tracks listing tables in external repositories and emits
// only entries that were not present on a prior check.
package monitor

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ctsc/internship-tracker/internal/config"
	"github.com/ctsc/internship-tracker/internal/fetch"
	"github.com/ctsc/internship-tracker/internal/listing"
)

const defaultRawBase = "https://raw.githubusercontent.com"

// Monitor fetches a tracked raw document, parses its listing table, and
// diffs the extracted URL set against the persisted state.
type Monitor struct {
	fetcher *fetch.Fetcher
	state   *StateStore
	rawBase string
	logger  *zap.Logger
}

// New builds a Monitor over the shared fetcher and state store.
func New(fetcher *fetch.Fetcher, state *StateStore, logger *zap.Logger) *Monitor {
	return &Monitor{
		fetcher: fetcher,
		state:   state,
		rawBase: defaultRawBase,
		logger:  logger,
	}
}

// Check fetches the monitored document and returns only newly-appeared
// entries. It never returns an error: fetch and parse failures yield an
// empty result with the cause logged, and the persisted state is left
// untouched on failure.
func (m *Monitor) Check(ctx context.Context, mon config.GitHubMonitor) []listing.RawListing {
	log := m.logger.With(
		zap.String("repo", mon.Repo),
		zap.String("branch", mon.Branch),
		zap.String("file", mon.File),
	)
	log.Info("checking monitored repository")

	rawURL := fmt.Sprintf("%s/%s/%s/%s", m.rawBase, mon.Repo, mon.Branch, mon.File)
	content, err := m.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		log.Error("monitored document fetch failed", zap.String("url", rawURL), zap.Error(err))
		return nil
	}

	entries := parseListingTable(content)
	current := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		current[e.URL] = struct{}{}
	}

	previous := m.state.Seen(mon.Repo)

	var fresh []listing.RawListing
	for _, e := range entries {
		if _, known := previous[e.URL]; known {
			continue
		}
		fresh = append(fresh, listing.RawListing{
			Company:     e.Company,
			CompanySlug: listing.Slugify(e.Company),
			Title:       e.Role,
			Location:    e.Location,
			URL:         e.URL,
			Source:      listing.SourceGitHubMonitor,
			IsFaangPlus: false,
			RawData: map[string]any{
				"source_repo": mon.Repo,
				"branch":      mon.Branch,
			},
		})
	}

	if err := m.state.Record(mon.Repo, current); err != nil {
		log.Error("persist monitor state failed", zap.Error(err))
	}

	log.Info("monitored repository checked",
		zap.Int("entries", len(entries)), zap.Int("new", len(fresh)))
	return fresh
}
