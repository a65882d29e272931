package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the per-request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent overrides the rotating browser User-Agent list when set.
	UserAgent string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`

	// ContactEmail is sent as the From header so site operators can reach
	// whoever runs the crawler.
	ContactEmail string `json:"contact_email,omitempty" yaml:"contact_email,omitempty"`
}

// DiscoveryConfig holds settings for the discovery stage.
type DiscoveryConfig struct {
	HTTPConfig `yaml:",inline"`

	// Concurrency bounds simultaneous discovery requests (default 8).
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// SearchEndpoint is the general web search front end
	// (default https://html.duckduckgo.com/html/).
	SearchEndpoint string `json:"search_endpoint" yaml:"search_endpoint"`

	// OfficialDomains replaces the built-in official domain list when non-empty.
	// Entries are bare hosts or base URLs.
	OfficialDomains []string `json:"official_domains,omitempty" yaml:"official_domains,omitempty"`

	// ProbePaths replaces the built-in probe path list when non-empty.
	ProbePaths []string `json:"probe_paths,omitempty" yaml:"probe_paths,omitempty"`

	// DisableWebSearch turns off the general search strategy.
	DisableWebSearch bool `json:"disable_web_search" yaml:"disable_web_search"`
}

// ExtractionConfig holds settings for the content extraction stage.
type ExtractionConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxRetries is the number of retries after the first attempt (default 3).
	// Zero disables retries; a negative value selects the default.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// BatchSize is the number of concurrent extractions per batch (default 3).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// BatchDelay is the pause between batches (default 1s).
	BatchDelay time.Duration `json:"batch_delay" yaml:"batch_delay"`

	// MaxBodyBytes caps the size of a fetched document (default 20 MiB).
	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes"`
}

// StoreConfig holds settings for the schema store.
type StoreConfig struct {
	// DataDir is the directory holding schemas.db and exports.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`

	// Mode is the gin mode: debug, release, or test.
	Mode string `json:"mode" yaml:"mode"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level       string   `json:"level" yaml:"level"`
	Development bool     `json:"development" yaml:"development"`
	OutputPaths []string `json:"output_paths,omitempty" yaml:"output_paths,omitempty"`
}

// EngineConfig groups all stage configurations.
type EngineConfig struct {
	Discovery  DiscoveryConfig  `json:"discovery" yaml:"discovery"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Store      StoreConfig      `json:"store" yaml:"store"`
	Server     ServerConfig     `json:"server" yaml:"server"`
	Logging    LoggingConfig    `json:"logging" yaml:"logging"`
}

// DefaultEngineConfig returns the configuration used when nothing is set.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Discovery: DiscoveryConfig{
			HTTPConfig:     HTTPConfig{Timeout: 15 * time.Second},
			Concurrency:    8,
			SearchEndpoint: "https://html.duckduckgo.com/html/",
		},
		Extraction: ExtractionConfig{
			HTTPConfig:   HTTPConfig{Timeout: DefaultTimeout},
			MaxRetries:   3,
			BatchSize:    3,
			BatchDelay:   time.Second,
			MaxBodyBytes: 20 << 20,
		},
		Store:   StoreConfig{DataDir: "data"},
		Server:  ServerConfig{Addr: ":3001", Mode: "release"},
		Logging: LoggingConfig{Level: "info"},
	}
}
