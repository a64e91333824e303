// Package config defines process configuration for the scouting pipeline.
package config

import "time"

// Config contains everything the pipeline binaries need. Values are
// layered: defaults, then an optional YAML file, then environment
// variables.
type Config struct {
	// Season is the season being scraped, e.g. "2023-2024".
	Season string `koanf:"season"`

	// LeaguesFile lists the standings pages to scrape with their league
	// context columns.
	LeaguesFile string `koanf:"leagues_file"`

	// ReferenceFile is the reference team mapping, the source of truth
	// for team identity.
	ReferenceFile string `koanf:"reference_file"`

	// OutputDir receives the scraped, matched, stats, follow-up, and
	// per-cohort CSV files.
	OutputDir string `koanf:"output_dir"`

	// LocalStatsDir holds hand-collected stats files that replace the
	// stats scrape for specific teams. Empty disables the override.
	LocalStatsDir string `koanf:"local_stats_dir"`

	// RedisURL enables the HTML page cache when set, e.g.
	// "redis://localhost:6379/0". Empty means no cache.
	RedisURL string `koanf:"redis_url"`

	// EPLoginURL, EPEmail, and EPPassword configure the profile-site
	// login. All empty means scrape anonymously.
	EPLoginURL string `koanf:"ep_login_url"`
	EPEmail    string `koanf:"ep_email"`
	EPPassword string `koanf:"ep_password"`

	// RestartEvery bounds how many teams one browser session serves.
	RestartEvery int `koanf:"restart_every"`

	// Retries and RetryDelaySeconds govern per-page fetch attempts.
	Retries           int `koanf:"retries"`
	RetryDelaySeconds int `koanf:"retry_delay_seconds"`

	// PageCacheTTLHours bounds how long cached pages are reused.
	PageCacheTTLHours int `koanf:"page_cache_ttl_hours"`
}

// New creates a Config with the standard defaults.
func New() *Config {
	return &Config{
		Season:            "2023-2024",
		LeaguesFile:       "data/leagues.csv",
		ReferenceFile:     "data/reference_teams.csv",
		OutputDir:         "output",
		RestartEvery:      30,
		Retries:           3,
		RetryDelaySeconds: 5,
		PageCacheTTLHours: 12,
	}
}

// RetryDelay returns the fetch retry delay as a duration.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySeconds) * time.Second
}

// PageCacheTTL returns the page cache TTL as a duration.
func (c *Config) PageCacheTTL() time.Duration {
	return time.Duration(c.PageCacheTTLHours) * time.Hour
}
