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

const defaultAshbyBase = "https://api.ashbyhq.com/posting-api/job-board"

type ashbyJob struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Location       string `json:"location"`
	JobURL         string `json:"jobUrl"`
	ApplyURL       string `json:"applyUrl"`
	EmploymentType string `json:"employmentType"`
	DepartmentName string `json:"departmentName"`
}

// AshbyClient reads a company's Ashby posting-api job board.
type AshbyClient struct {
	fetcher *fetch.Fetcher
	filters config.Filters
	base    string
}

// NewAshbyClient builds a client over the shared fetcher.
func NewAshbyClient(fetcher *fetch.Fetcher, filters config.Filters) *AshbyClient {
	return &AshbyClient{fetcher: fetcher, filters: filters, base: defaultAshbyBase}
}

// FetchListings returns the board's intern-matching jobs.
func (c *AshbyClient) FetchListings(ctx context.Context, board config.Board) ([]listing.RawListing, error) {
	apiURL := fmt.Sprintf("%s/%s", c.base, url.PathEscape(board.Token))
	body, err := c.fetcher.Fetch(ctx, apiURL)
	if err != nil {
		return nil, fmt.Errorf("ashby %s: %w", board.Company, err)
	}

	var payload struct {
		Jobs []ashbyJob `json:"jobs"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, fmt.Errorf("ashby %s: decode: %w", board.Company, err)
	}

	slug := listing.Slugify(board.Company)
	var results []listing.RawListing
	for _, job := range payload.Jobs {
		applyURL := job.ApplyURL
		if applyURL == "" {
			applyURL = job.JobURL
		}
		if applyURL == "" || !keepTitle(c.filters, job.Title) {
			continue
		}
		location := job.Location
		if location == "" {
			location = "Unknown"
		}
		results = append(results, listing.RawListing{
			Company:     board.Company,
			CompanySlug: slug,
			Title:       job.Title,
			Location:    location,
			URL:         applyURL,
			Source:      listing.SourceAshby,
			IsFaangPlus: board.IsFaangPlus,
			RawData: map[string]any{
				"posting_id":      job.ID,
				"employment_type": job.EmploymentType,
				"department":      job.DepartmentName,
			},
		})
	}
	return results, nil
}
