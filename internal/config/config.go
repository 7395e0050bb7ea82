// Package config loads and validates dashboard configuration via Viper.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Data    DataConfig    `mapstructure:"data"`
	Scrape  ScrapeConfig  `mapstructure:"scrape"`
	Layout  LayoutConfig  `mapstructure:"layout"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// DataConfig locates the book records the dashboard renders.
type DataConfig struct {
	CSVPath string `mapstructure:"csv_path"`
}

// ScrapeConfig governs the fixed-target fetch of books.toscrape.com.
type ScrapeConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	MaxPages       int    `mapstructure:"max_pages"`
	DelayMs        int    `mapstructure:"delay_ms"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
	Output         string `mapstructure:"output"`
	FetchDetails   bool   `mapstructure:"fetch_details"`
}

// LayoutConfig sets the fallback screen geometry used for responsive
// sizing when the browser has not reported its resolution yet.
type LayoutConfig struct {
	FallbackWidth  int `mapstructure:"fallback_width"`
	FallbackHeight int `mapstructure:"fallback_height"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BOOKDASH")
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
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout_seconds", 30)
	v.SetDefault("data.csv_path", "books_data.csv")
	v.SetDefault("scrape.base_url", "https://books.toscrape.com")
	v.SetDefault("scrape.max_pages", 50)
	v.SetDefault("scrape.delay_ms", 1000)
	v.SetDefault("scrape.timeout_seconds", 10)
	v.SetDefault("scrape.user_agent", "bookdash/1.0")
	v.SetDefault("scrape.output", "books_data.csv")
	v.SetDefault("scrape.fetch_details", true)
	v.SetDefault("layout.fallback_width", 1366)
	v.SetDefault("layout.fallback_height", 768)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Server.TimeoutSeconds <= 0 {
		return fmt.Errorf("server.timeout_seconds must be > 0")
	}
	if c.Data.CSVPath == "" {
		return fmt.Errorf("data.csv_path must be set")
	}
	if c.Scrape.BaseURL == "" {
		return fmt.Errorf("scrape.base_url must be set")
	}
	u, err := url.Parse(c.Scrape.BaseURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("scrape.base_url must be a valid URL with a host")
	}
	if c.Scrape.MaxPages <= 0 {
		return fmt.Errorf("scrape.max_pages must be > 0")
	}
	if c.Scrape.DelayMs < 0 {
		return fmt.Errorf("scrape.delay_ms cannot be negative")
	}
	if c.Scrape.TimeoutSeconds <= 0 {
		return fmt.Errorf("scrape.timeout_seconds must be > 0")
	}
	if c.Scrape.Output == "" {
		return fmt.Errorf("scrape.output must be set")
	}
	if c.Layout.FallbackWidth <= 0 || c.Layout.FallbackHeight <= 0 {
		return fmt.Errorf("layout fallback dimensions must be > 0")
	}
	return nil
}

// RequestTimeout converts the server timeout config into a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// Delay converts the per-request delay config into a duration.
func (s ScrapeConfig) Delay() time.Duration {
	return time.Duration(s.DelayMs) * time.Millisecond
}

// Timeout converts the request timeout config into a duration.
func (s ScrapeConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}
