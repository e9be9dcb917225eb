// Package listing defines the raw candidate records emitted by discovery sources.
package listing

import (
	"regexp"
	"strings"
)

// Source tags identifying which adapter produced a listing.
const (
	SourceGreenhouse    = "greenhouse"
	SourceLever         = "lever"
	SourceAshby         = "ashby"
	SourceScrape        = "scrape"
	SourceGitHubMonitor = "github_monitor"
)

// RawListing is an unvalidated candidate record produced by one adapter
// call. It is immutable after creation; downstream validation and
// deduplication happen outside this engine. URL and Company are never empty
// for an emitted listing.
type RawListing struct {
	Company     string         `json:"company"`
	CompanySlug string         `json:"company_slug"`
	Title       string         `json:"title"`
	Location    string         `json:"location"`
	URL         string         `json:"url"`
	Source      string         `json:"source"`
	IsFaangPlus bool           `json:"is_faang_plus"`
	RawData     map[string]any `json:"raw_data,omitempty"`
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL/path-safe identifier from a company display name.
func Slugify(name string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
