package model

import "time"

// Config is the complete argmap configuration.
// Field tags serve both yaml.v3 (config show/init) and viper (mapstructure).
type Config struct {
	Parser       ParserConfig       `yaml:"parser" mapstructure:"parser"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// ParserConfig controls block parsing
type ParserConfig struct {
	TabWidth int  `yaml:"tab_width" mapstructure:"tab_width"` // Columns per tab when measuring map indentation
	Strict   bool `yaml:"strict" mapstructure:"strict"`       // Fail the document on the first rejected block
}

// CacheConfig controls the cache of fetched remote documents
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`               // Empty means ~/.argmap/cache
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// HTTPConfig controls fetching of remote documents
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	MaxRedirects  int           `yaml:"max_redirects" mapstructure:"max_redirects"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	Proxies       []string      `yaml:"proxies,omitempty" mapstructure:"proxies"` // Rotated round-robin when set
}

// RateLimitingConfig bounds per-host request rates
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// ConcurrencyConfig sizes the batch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls export rendering
type OutputConfig struct {
	Format  string `yaml:"format" mapstructure:"format"` // json or yaml
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() Config {
	return Config{
		Parser: ParserConfig{
			TabWidth: 4,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "argmap/0.1 (+https://github.com/ppiankov/argmap)",
			MaxBodyBytes:  5 << 20,
			MaxRedirects:  3,
			RespectRobots: true,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			Burst:             5,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 5,
		},
		Output: OutputConfig{
			Format: "json",
		},
	}
}
