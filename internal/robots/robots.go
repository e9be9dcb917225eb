// Package robots implements the coarse robots.txt compliance check applied
// before scraping a site.
package robots

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ctsc/internship-tracker/internal/ratelimit"
)

const maxRobotsBytes = 1 << 20

// Config controls the Checker.
type Config struct {
	// UserAgent is sent as the request header when fetching robots.txt.
	UserAgent string
	// AgentName is the lowercase token matched against User-agent lines.
	AgentName string
	// Timeout bounds the robots.txt fetch (default 10s).
	Timeout time.Duration
}

// Checker decides whether this tool may scrape a site at all.
//
// The parser is deliberately coarse: it matches agent names by
// case-insensitive substring, lets the most recently matched applicable
// block win (an agent-specific block suppresses a later wildcard only until
// another named agent appears), and honors only full-site Disallow rules
// ("/" or "/*"). Anything it cannot interpret, including a missing or
// unreachable robots.txt, defaults to allowed. There is no crawl-delay or
// path-prefix handling; the rest of the system was built against exactly
// these semantics.
type Checker struct {
	client  *http.Client
	limiter *ratelimit.Limiter
	cfg     Config
	logger  *zap.Logger
}

// NewChecker builds a Checker sharing the run's domain rate limiter.
func NewChecker(limiter *ratelimit.Limiter, cfg Config, logger *zap.Logger) *Checker {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.AgentName == "" {
		cfg.AgentName = "internshiptracker"
	}
	cfg.AgentName = strings.ToLower(cfg.AgentName)
	return &Checker{
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		cfg:     cfg,
		logger:  logger,
	}
}

// Allowed reports whether scraping baseURL's domain is permitted.
func (c *Checker) Allowed(ctx context.Context, baseURL string) bool {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		c.logger.Debug("unparseable base url, assuming allowed", zap.String("url", baseURL))
		return true
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host)
	if err := c.limiter.Wait(ctx, u.Hostname()); err != nil {
		return true
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return true
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		// Unreachable policy is not a block.
		c.logger.Debug("could not fetch robots.txt, assuming allowed",
			zap.String("domain", u.Host), zap.Error(err))
		return true
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return true
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBytes))
	if err != nil {
		return true
	}
	return allowedByPolicy(string(body), c.cfg.AgentName)
}

// allowedByPolicy scans rule blocks in document order. A block applies to
// us when its agent name contains agentName, or when it is the wildcard and
// no block for us has been seen; while a block applies, a Disallow of "/"
// or "/*" blocks the whole site.
func allowedByPolicy(content, agentName string) bool {
	appliesToUs := false
	appliesToAll := false

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lower := strings.ToLower(line)

		switch {
		case strings.HasPrefix(lower, "user-agent:"):
			agent := strings.TrimSpace(strings.TrimPrefix(lower, "user-agent:"))
			switch {
			case strings.Contains(agent, agentName):
				appliesToUs = true
				appliesToAll = false
			case agent == "*":
				if !appliesToUs {
					appliesToAll = true
				}
			default:
				appliesToUs = false
				appliesToAll = false
			}
		case (appliesToUs || appliesToAll) && strings.HasPrefix(lower, "disallow:"):
			path := strings.TrimSpace(line[len("disallow:"):])
			if path == "/" || path == "/*" {
				return false
			}
		}
	}
	return true
}
