// Package config loads and validates tracker configuration via Viper.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultInternKeywords is the built-in include set used when the
// configuration declares no keywords of its own.
var DefaultInternKeywords = []string{"intern", "internship", "co-op", "coop"}

// Config captures everything a discovery run consumes. It is loaded once
// per run and treated as immutable afterwards.
type Config struct {
	UserAgent string        `mapstructure:"user_agent"`
	AgentName string        `mapstructure:"agent_name"`
	DataDir   string        `mapstructure:"data_dir"`
	RateLimit RateLimit     `mapstructure:"rate_limit"`
	HTTP      HTTPConfig    `mapstructure:"http"`
	Filters   Filters       `mapstructure:"filters"`
	Logging   LoggingConfig `mapstructure:"logging"`

	GreenhouseBoards []Board         `mapstructure:"greenhouse_boards"`
	LeverBoards      []Board         `mapstructure:"lever_boards"`
	AshbyBoards      []Board         `mapstructure:"ashby_boards"`
	ScrapeSources    []ScrapeSource  `mapstructure:"scrape_sources"`
	GitHubMonitors   []GitHubMonitor `mapstructure:"github_monitors"`
}

// RateLimit governs the per-domain politeness throttle.
type RateLimit struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
}

// HTTPConfig controls fetch timeouts and retry backoff.
type HTTPConfig struct {
	TimeoutSeconds        int `mapstructure:"timeout_seconds"`
	RobotsTimeoutSeconds  int `mapstructure:"robots_timeout_seconds"`
	MaxAttempts           int `mapstructure:"max_attempts"`
	BackoffInitialSeconds int `mapstructure:"backoff_initial_seconds"`
	BackoffMaxSeconds     int `mapstructure:"backoff_max_seconds"`
}

// Timeout returns the per-attempt fetch timeout.
func (h HTTPConfig) Timeout() time.Duration {
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// RobotsTimeout returns the timeout for lightweight robots.txt checks.
func (h HTTPConfig) RobotsTimeout() time.Duration {
	return time.Duration(h.RobotsTimeoutSeconds) * time.Second
}

// BackoffInitial returns the first retry delay.
func (h HTTPConfig) BackoffInitial() time.Duration {
	return time.Duration(h.BackoffInitialSeconds) * time.Second
}

// BackoffMax returns the cap applied to retry delays.
func (h HTTPConfig) BackoffMax() time.Duration {
	return time.Duration(h.BackoffMaxSeconds) * time.Second
}

// Filters is the include/exclude keyword policy shared by every adapter.
// Matching is case-insensitive substring containment.
type Filters struct {
	Include []string `mapstructure:"keywords_include"`
	Exclude []string `mapstructure:"keywords_exclude"`
}

// MatchesInclude reports whether text contains any include keyword,
// falling back to the built-in intern keyword set when none are configured.
func (f Filters) MatchesInclude(text string) bool {
	include := f.Include
	if len(include) == 0 {
		include = DefaultInternKeywords
	}
	return containsAny(text, include)
}

// MatchesExclude reports whether text contains any exclude keyword.
func (f Filters) MatchesExclude(text string) bool {
	return containsAny(text, f.Exclude)
}

func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Board identifies one company board on a structured ATS API. Token is the
// board's API identifier (Greenhouse board token, Lever site slug, Ashby
// job board name).
type Board struct {
	Company     string `mapstructure:"company"`
	Token       string `mapstructure:"token"`
	IsFaangPlus bool   `mapstructure:"is_faang_plus"`
}

// ScrapeSource identifies one career page scraped with the HTML heuristics.
type ScrapeSource struct {
	Company     string `mapstructure:"company"`
	URL         string `mapstructure:"url"`
	IsFaangPlus bool   `mapstructure:"is_faang_plus"`
}

// GitHubMonitor identifies one tracked document in an external repository.
type GitHubMonitor struct {
	Repo   string `mapstructure:"repo"`
	Branch string `mapstructure:"branch"`
	File   string `mapstructure:"file"`
}

// MonitorStatePath is where the repository monitor persists its diff state.
func (c Config) MonitorStatePath() string {
	return filepath.Join(c.DataDir, "monitor_state.json")
}

// TotalSources counts every configured board, page, and repository.
func (c Config) TotalSources() int {
	return len(c.GreenhouseBoards) + len(c.LeverBoards) + len(c.AshbyBoards) +
		len(c.ScrapeSources) + len(c.GitHubMonitors)
}

// Load builds a Config from an optional config file and the environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	for i := range cfg.GitHubMonitors {
		if cfg.GitHubMonitors[i].Branch == "" {
			cfg.GitHubMonitors[i].Branch = "main"
		}
		if cfg.GitHubMonitors[i].File == "" {
			cfg.GitHubMonitors[i].File = "README.md"
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("user_agent", "InternshipTracker/1.0 (+https://github.com/ctsc/internship-tracker)")
	v.SetDefault("agent_name", "internshiptracker")
	v.SetDefault("data_dir", "data")
	v.SetDefault("rate_limit.requests_per_second", 2.0)
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("http.robots_timeout_seconds", 10)
	v.SetDefault("http.max_attempts", 3)
	v.SetDefault("http.backoff_initial_seconds", 2)
	v.SetDefault("http.backoff_max_seconds", 10)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if strings.TrimSpace(c.UserAgent) == "" {
		return fmt.Errorf("user_agent must not be empty")
	}
	if strings.TrimSpace(c.AgentName) == "" {
		return fmt.Errorf("agent_name must not be empty")
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate_limit.requests_per_second must be > 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.HTTP.MaxAttempts <= 0 {
		return fmt.Errorf("http.max_attempts must be > 0")
	}
	for _, kind := range []struct {
		name   string
		boards []Board
	}{
		{"greenhouse_boards", c.GreenhouseBoards},
		{"lever_boards", c.LeverBoards},
		{"ashby_boards", c.AshbyBoards},
	} {
		for i, b := range kind.boards {
			if strings.TrimSpace(b.Company) == "" || strings.TrimSpace(b.Token) == "" {
				return fmt.Errorf("%s[%d]: company and token are required", kind.name, i)
			}
		}
	}
	for i, s := range c.ScrapeSources {
		if strings.TrimSpace(s.Company) == "" || strings.TrimSpace(s.URL) == "" {
			return fmt.Errorf("scrape_sources[%d]: company and url are required", i)
		}
	}
	for i, m := range c.GitHubMonitors {
		if strings.TrimSpace(m.Repo) == "" {
			return fmt.Errorf("github_monitors[%d]: repo is required", i)
		}
	}
	return nil
}
