// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Crawler   CrawlerConfig   `mapstructure:"crawler"`
	Recency   RecencyConfig   `mapstructure:"recency"`
	Sources   SourcesConfig   `mapstructure:"sources"`
	Publisher PublisherConfig `mapstructure:"publisher"`
	Profile   ProfileConfig   `mapstructure:"profile"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// CrawlerConfig governs the aggregation pipeline.
type CrawlerConfig struct {
	Schedule         string `mapstructure:"schedule"`
	RateLimitDelayMs int    `mapstructure:"rate_limit_delay_ms"`
	MaxJobsPerSource int    `mapstructure:"max_jobs_per_source"`
	RespectRobots    bool   `mapstructure:"respect_robots"`
	MinScore         int    `mapstructure:"min_score"`
	UserAgent        string `mapstructure:"user_agent"`
	BrowserUserAgent string `mapstructure:"browser_user_agent"`
	TimeoutSeconds   int    `mapstructure:"timeout_seconds"`
}

// RecencyConfig sets the posting-age windows for the two output contracts.
type RecencyConfig struct {
	CrawlDays   int `mapstructure:"crawl_days"`
	SuggestDays int `mapstructure:"suggest_days"`
}

// SourcesConfig holds per-provider credentials. Presence of a credential is
// what enables its adapter.
type SourcesConfig struct {
	Adzuna  AdzunaConfig  `mapstructure:"adzuna"`
	Reed    ReedConfig    `mapstructure:"reed"`
	SerpAPI SerpAPIConfig `mapstructure:"serpapi"`
}

// AdzunaConfig holds Adzuna API credentials.
type AdzunaConfig struct {
	AppID  string `mapstructure:"app_id"`
	AppKey string `mapstructure:"app_key"`
}

// ReedConfig holds the Reed API key.
type ReedConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// SerpAPIConfig holds the SerpAPI key used by the proxy-aggregator adapters.
type SerpAPIConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// PublisherConfig selects the run-completion event publisher.
type PublisherConfig struct {
	Provider  string `mapstructure:"provider"`
	ProjectID string `mapstructure:"project_id"`
	Topic     string `mapstructure:"topic"`
}

// ProfileConfig points at an optional on-disk profile JSON file.
type ProfileConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("JOBRADAR")
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

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("crawler.schedule", "0 9 * * *")
	v.SetDefault("crawler.rate_limit_delay_ms", 2000)
	v.SetDefault("crawler.max_jobs_per_source", 50)
	v.SetDefault("crawler.respect_robots", true)
	v.SetDefault("crawler.min_score", 20)
	v.SetDefault("crawler.user_agent", "jobradar-bot/0.1")
	v.SetDefault("crawler.browser_user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	v.SetDefault("crawler.timeout_seconds", 10)
	v.SetDefault("recency.crawl_days", 14)
	v.SetDefault("recency.suggest_days", 28)
	v.SetDefault("publisher.provider", "memory")
	v.SetDefault("publisher.topic", "jobradar-runs")
	v.SetDefault("logging.development", true)

	// Credential and optional keys default to empty so viper binds their
	// env vars; AutomaticEnv only consults keys it already knows about.
	v.SetDefault("sources.adzuna.app_id", "")
	v.SetDefault("sources.adzuna.app_key", "")
	v.SetDefault("sources.reed.api_key", "")
	v.SetDefault("sources.serpapi.api_key", "")
	v.SetDefault("publisher.project_id", "")
	v.SetDefault("profile.path", "")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Crawler.RateLimitDelayMs < 0 {
		return fmt.Errorf("crawler.rate_limit_delay_ms must be >= 0")
	}
	if c.Crawler.MaxJobsPerSource <= 0 {
		return fmt.Errorf("crawler.max_jobs_per_source must be > 0")
	}
	if c.Crawler.TimeoutSeconds <= 0 {
		return fmt.Errorf("crawler.timeout_seconds must be > 0")
	}
	if c.Recency.CrawlDays <= 0 || c.Recency.SuggestDays <= 0 {
		return fmt.Errorf("recency windows must be > 0")
	}
	if c.Publisher.Provider == "pubsub" && (c.Publisher.ProjectID == "" || c.Publisher.Topic == "") {
		return fmt.Errorf("publisher.project_id and publisher.topic must be set for pubsub")
	}
	return nil
}

// RateLimitDelay converts the configured delay into a duration.
func (c Config) RateLimitDelay() time.Duration {
	return time.Duration(c.Crawler.RateLimitDelayMs) * time.Millisecond
}

// HTTPTimeout converts the configured request timeout into a duration.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.Crawler.TimeoutSeconds) * time.Second
}

// CrawlWindow is the recency window on the primary crawl path.
func (c Config) CrawlWindow() time.Duration {
	return time.Duration(c.Recency.CrawlDays) * 24 * time.Hour
}

// SuggestWindow is the recency window on the suggestion-refresh path.
func (c Config) SuggestWindow() time.Duration {
	return time.Duration(c.Recency.SuggestDays) * 24 * time.Hour
}
