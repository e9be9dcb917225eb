package ats

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/ctsc/internship-tracker/internal/config"
	"github.com/ctsc/internship-tracker/internal/fetch"
	"github.com/ctsc/internship-tracker/internal/listing"
)

const defaultGreenhouseBase = "https://boards-api.greenhouse.io/v1/boards"

type greenhouseJob struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	AbsoluteURL string `json:"absolute_url"`
	UpdatedAt   string `json:"updated_at"`
	Location    struct {
		Name string `json:"name"`
	} `json:"location"`
}

// GreenhouseClient reads a company's Greenhouse job board.
type GreenhouseClient struct {
	fetcher *fetch.Fetcher
	filters config.Filters
	base    string
}

// NewGreenhouseClient builds a client over the shared fetcher.
func NewGreenhouseClient(fetcher *fetch.Fetcher, filters config.Filters) *GreenhouseClient {
	return &GreenhouseClient{fetcher: fetcher, filters: filters, base: defaultGreenhouseBase}
}

// FetchListings returns the board's intern-matching jobs.
func (c *GreenhouseClient) FetchListings(ctx context.Context, board config.Board) ([]listing.RawListing, error) {
	apiURL := fmt.Sprintf("%s/%s/jobs?content=true", c.base, url.PathEscape(board.Token))
	body, err := c.fetcher.Fetch(ctx, apiURL)
	if err != nil {
		return nil, fmt.Errorf("greenhouse %s: %w", board.Company, err)
	}

	var payload struct {
		Jobs []greenhouseJob `json:"jobs"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, fmt.Errorf("greenhouse %s: decode: %w", board.Company, err)
	}

	slug := listing.Slugify(board.Company)
	var results []listing.RawListing
	for _, job := range payload.Jobs {
		if job.AbsoluteURL == "" || !keepTitle(c.filters, job.Title) {
			continue
		}
		location := job.Location.Name
		if location == "" {
			location = "Unknown"
		}
		results = append(results, listing.RawListing{
			Company:     board.Company,
			CompanySlug: slug,
			Title:       job.Title,
			Location:    location,
			URL:         job.AbsoluteURL,
			Source:      listing.SourceGreenhouse,
			IsFaangPlus: board.IsFaangPlus,
			RawData: map[string]any{
				"job_id":     job.ID,
				"updated_at": job.UpdatedAt,
			},
		})
	}
	return results, nil
}
