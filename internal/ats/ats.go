// Package ats implements typed clients for the public job-board APIs of the
// supported applicant tracking systems.
package ats

import (
	"context"

	"github.com/ctsc/internship-tracker/internal/config"
	"github.com/ctsc/internship-tracker/internal/listing"
)

// Client fetches listings from one ATS family's public job-board API. A
// client may return an error on transport or API-shape problems; the
// orchestrator isolates those per board.
type Client interface {
	FetchListings(ctx context.Context, board config.Board) ([]listing.RawListing, error)
}

// keepTitle applies the shared keyword policy to a job title.
func keepTitle(filters config.Filters, title string) bool {
	return filters.MatchesInclude(title) && !filters.MatchesExclude(title)
}
