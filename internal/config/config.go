package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// AppConfig holds the complete application configuration
type AppConfig struct {
	Scraper    ScraperConfig    `yaml:"scraper"`
	IO         IOConfig         `yaml:"io"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Proxies    ProxyConfig      `yaml:"proxies"`
	Browser    BrowserConfig    `yaml:"browser"`
	Logging    LogConfig        `yaml:"logging"`
}

// ScraperConfig holds the page processing configuration
type ScraperConfig struct {
	Workers    int           `yaml:"workers" envconfig:"SCRAPER_WORKERS"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"SCRAPER_TIMEOUT"`
	UserAgents []string      `yaml:"user_agents,omitempty" envconfig:"SCRAPER_USER_AGENTS"`
}

// IOConfig holds the input/output configuration
type IOConfig struct {
	ConfigDir     string `yaml:"config_dir" envconfig:"SCRAPER_CONFIG_DIR"`
	ConfigPattern string `yaml:"config_pattern" envconfig:"SCRAPER_CONFIG_PATTERN"`
	OutputFile    string `yaml:"output_file" envconfig:"SCRAPER_OUTPUT_FILE"`
	OutputFormat  string `yaml:"output_format" envconfig:"SCRAPER_OUTPUT_FORMAT"`
	MetricsFile   string `yaml:"metrics_file" envconfig:"SCRAPER_METRICS_FILE"`
}

// ExtractionConfig holds the selector configuration
type ExtractionConfig struct {
	SelectorSyntax string `yaml:"selector_syntax" envconfig:"SCRAPER_SELECTOR_SYNTAX"`
}

// ProxyConfig holds the proxy configuration
type ProxyConfig struct {
	Enabled bool     `yaml:"enabled" envconfig:"SCRAPER_PROXY_ENABLED"`
	Rotate  bool     `yaml:"rotate" envconfig:"SCRAPER_PROXY_ROTATE"`
	List    []string `yaml:"list" envconfig:"SCRAPER_PROXY_LIST"`
	Auth    struct {
		Username string `yaml:"username" envconfig:"SCRAPER_PROXY_USERNAME"`
		Password string `yaml:"password" envconfig:"SCRAPER_PROXY_PASSWORD"`
	} `yaml:"auth"`
}

// BrowserConfig holds the browser configuration for JavaScript rendering
type BrowserConfig struct {
	Enabled   bool          `yaml:"enabled" envconfig:"SCRAPER_BROWSER"`
	Headless  bool          `yaml:"headless" envconfig:"SCRAPER_BROWSER_HEADLESS"`
	UserAgent string        `yaml:"user_agent" envconfig:"SCRAPER_BROWSER_USER_AGENT"`
	WaitTime  time.Duration `yaml:"wait_time" envconfig:"SCRAPER_BROWSER_WAIT"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level       string `yaml:"level" envconfig:"SCRAPER_LOG_LEVEL"`
	Development bool   `yaml:"development" envconfig:"SCRAPER_LOG_DEV"`
}

// Load reads a YAML settings file on top of the defaults
func Load(filename string) (*AppConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", filename, err)
	}

	// Set default user agents if none provided
	if len(config.Scraper.UserAgents) == 0 {
		config.Scraper.UserAgents = DefaultUserAgents
	}

	return config, nil
}

// ApplyEnv overrides settings from SCRAPER_* environment variables
func (c *AppConfig) ApplyEnv() error {
	if err := envconfig.Process("", c); err != nil {
		return fmt.Errorf("environment overrides: %w", err)
	}
	return nil
}

// Validate checks settings that would otherwise fail late
func (c *AppConfig) Validate() error {
	if c.Scraper.Workers < 1 {
		return fmt.Errorf("scraper.workers must be at least 1, got %d", c.Scraper.Workers)
	}
	if c.Scraper.Timeout <= 0 {
		return fmt.Errorf("scraper.timeout must be positive, got %s", c.Scraper.Timeout)
	}
	switch c.IO.OutputFormat {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("unsupported output format: %s", c.IO.OutputFormat)
	}
	if c.IO.ConfigDir == "" {
		return fmt.Errorf("io.config_dir is required")
	}
	return nil
}

// Default creates the default configuration
func Default() *AppConfig {
	return &AppConfig{
		Scraper: ScraperConfig{
			Workers:    3,
			Timeout:    30 * time.Second,
			UserAgents: DefaultUserAgents,
		},
		IO: IOConfig{
			ConfigDir:     DefaultConfigDir,
			ConfigPattern: DefaultConfigPattern,
			OutputFormat:  FormatText,
		},
		Extraction: ExtractionConfig{
			SelectorSyntax: "css",
		},
		Proxies: ProxyConfig{
			Enabled: false,
			Rotate:  true,
			List:    []string{},
		},
		Browser: BrowserConfig{
			Enabled:   false,
			Headless:  true,
			UserAgent: DefaultUserAgents[0],
		},
		Logging: LogConfig{
			Level: "info",
		},
	}
}
