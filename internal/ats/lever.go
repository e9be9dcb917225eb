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

const defaultLeverBase = "https://api.lever.co/v0/postings"

type leverPosting struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	HostedURL  string `json:"hostedUrl"`
	CreatedAt  int64  `json:"createdAt"`
	Categories struct {
		Team     string `json:"team"`
		Location string `json:"location"`
	} `json:"categories"`
}

// LeverClient reads a company's Lever postings feed.
type LeverClient struct {
	fetcher *fetch.Fetcher
	filters config.Filters
	base    string
}

// NewLeverClient builds a client over the shared fetcher.
func NewLeverClient(fetcher *fetch.Fetcher, filters config.Filters) *LeverClient {
	return &LeverClient{fetcher: fetcher, filters: filters, base: defaultLeverBase}
}

// FetchListings returns the board's intern-matching postings.
func (c *LeverClient) FetchListings(ctx context.Context, board config.Board) ([]listing.RawListing, error) {
	apiURL := fmt.Sprintf("%s/%s?mode=json", c.base, url.PathEscape(board.Token))
	body, err := c.fetcher.Fetch(ctx, apiURL)
	if err != nil {
		return nil, fmt.Errorf("lever %s: %w", board.Company, err)
	}

	var postings []leverPosting
	if err := json.Unmarshal([]byte(body), &postings); err != nil {
		return nil, fmt.Errorf("lever %s: decode: %w", board.Company, err)
	}

	slug := listing.Slugify(board.Company)
	var results []listing.RawListing
	for _, p := range postings {
		if p.HostedURL == "" || !keepTitle(c.filters, p.Text) {
			continue
		}
		location := p.Categories.Location
		if location == "" {
			location = "Unknown"
		}
		results = append(results, listing.RawListing{
			Company:     board.Company,
			CompanySlug: slug,
			Title:       p.Text,
			Location:    location,
			URL:         p.HostedURL,
			Source:      listing.SourceLever,
			IsFaangPlus: board.IsFaangPlus,
			RawData: map[string]any{
				"posting_id": p.ID,
				"team":       p.Categories.Team,
				"created_at": p.CreatedAt,
			},
		})
	}
	return results, nil
}
