package model

import "time"

// Config holds the full tool configuration. Defaults are overridable via
// ~/.njhousing/config.yaml, NJHOUSING_* environment variables, or CLI flags.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Crawl       CrawlConfig       `yaml:"crawl" mapstructure:"crawl"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Database    DatabaseConfig    `yaml:"database" mapstructure:"database"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
}

// HTTPConfig controls the page fetcher.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	ProxyURL     string        `yaml:"proxy_url" mapstructure:"proxy_url"`
}

// CrawlConfig controls link discovery and politeness.
type CrawlConfig struct {
	MaxPagesPerSite   int           `yaml:"max_pages_per_site" mapstructure:"max_pages_per_site"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	RequestDelay      time.Duration `yaml:"request_delay" mapstructure:"request_delay"`
	RespectRobots     bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// CacheConfig controls the fetched-page cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ConcurrencyConfig sizes the batch worker pool.
type ConcurrencyConfig struct {
	ScrapeWorkers int `yaml:"scrape_workers" mapstructure:"scrape_workers"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// LLMConfig configures the optional run-summary generator. It never affects
// extraction.
type LLMConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Model   string `yaml:"model" mapstructure:"model"`
	APIKey  string `yaml:"-" mapstructure:"-"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      15 * time.Second,
			UserAgent:    "njhousing/1.0 (+https://github.com/abwagner/nj-affordable-housing)",
			MaxBodyBytes: 2_000_000,
		},
		Crawl: CrawlConfig{
			MaxPagesPerSite:   10,
			RequestsPerSecond: 0.67,
			Burst:             1,
			RequestDelay:      1500 * time.Millisecond,
			RespectRobots:     true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "",
			TTL:     24 * time.Hour,
		},
		Database: DatabaseConfig{
			Path: "nj_housing.db",
		},
		Concurrency: ConcurrencyConfig{
			ScrapeWorkers: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		LLM: LLMConfig{
			Enabled: false,
			Model:   "gpt-4o-mini",
		},
	}
}
