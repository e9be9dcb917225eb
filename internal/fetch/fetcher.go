// Package fetch provides the retrying HTTP fetcher used by every discovery
// source.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/ctsc/internship-tracker/internal/metrics"
	"github.com/ctsc/internship-tracker/internal/ratelimit"
)

// maxBodyBytes bounds how much of any response we are willing to read.
const maxBodyBytes = 5 << 20

// StatusError reports a completed round-trip that returned a non-2xx
// status. The fetcher never retries these; interpretation is the caller's
// concern.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d fetching %s", e.StatusCode, e.URL)
}

// Config controls Fetcher behavior. Zero values fall back to the polite
// defaults used for scraping.
type Config struct {
	UserAgent   string
	Timeout     time.Duration // per attempt
	MaxAttempts int
	BackoffBase time.Duration
	BackoffMax  time.Duration
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = 2 * time.Second
	}
	if c.BackoffMax <= 0 {
		c.BackoffMax = 10 * time.Second
	}
	return c
}

// Fetcher issues rate-limited HTTP GETs with retry on transport failures.
type Fetcher struct {
	client  *http.Client
	limiter *ratelimit.Limiter
	cfg     Config
	logger  *zap.Logger
}

// New builds a Fetcher sharing the run's domain rate limiter.
func New(limiter *ratelimit.Limiter, cfg Config, logger *zap.Logger) *Fetcher {
	cfg = cfg.withDefaults()
	return &Fetcher{
		client:  &http.Client{},
		limiter: limiter,
		cfg:     cfg,
		logger:  logger,
	}
}

// Fetch GETs rawURL and returns the response body. Transport-level failures
// (connection errors, timeouts) are retried with exponential backoff up to
// the configured attempt budget; the domain is rate-limited before each
// attempt. A completed response with a non-2xx status returns a
// *StatusError immediately.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", rawURL, err)
	}

	var lastErr error
	for attempt := 1; attempt <= f.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			metrics.FetchRetries.Inc()
			if err := pause(ctx, f.backoff(attempt-1)); err != nil {
				return "", err
			}
		}
		if err := f.limiter.Wait(ctx, u.Hostname()); err != nil {
			return "", err
		}

		body, err := f.do(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return "", err
		}
		lastErr = err
		f.logger.Warn("fetch attempt failed",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", f.cfg.MaxAttempts),
			zap.Error(err),
		)
	}
	return "", fmt.Errorf("fetch %s after %d attempts: %w", rawURL, f.cfg.MaxAttempts, lastErr)
}

func (f *Fetcher) do(ctx context.Context, rawURL string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			f.logger.Debug("close response body", zap.Error(cerr))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return "", &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}

// backoff returns the delay before the given retry (1-based): base, 2*base,
// 4*base, ... capped at the configured maximum.
func (f *Fetcher) backoff(retry int) time.Duration {
	d := f.cfg.BackoffBase << (retry - 1)
	if d > f.cfg.BackoffMax {
		d = f.cfg.BackoffMax
	}
	return d
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
