package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/showradar/showradar/pkg/score"
)

// Config is the root configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Sources  SourcesConfig  `yaml:"sources"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Alerts   AlertsConfig   `yaml:"alerts"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig configures SQLite storage.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ScheduleConfig configures the daemon refresh interval.
type ScheduleConfig struct {
	RefreshInterval string `yaml:"refresh_interval"`
}

// ParseRefreshInterval returns the refresh interval as time.Duration.
func (s ScheduleConfig) ParseRefreshInterval() time.Duration {
	d, err := time.ParseDuration(s.RefreshInterval)
	if err != nil {
		return 30 * time.Minute
	}
	return d
}

// SourcesConfig holds configuration for all data sources.
type SourcesConfig struct {
	Kalshi    KalshiConfig    `yaml:"kalshi"`
	YouTube   YouTubeConfig   `yaml:"youtube"`
	News      NewsConfig      `yaml:"news"`
	TMDB      TMDBConfig      `yaml:"tmdb"`
	Wikipedia WikipediaConfig `yaml:"wikipedia"`
}

// KalshiConfig for the prediction-market source. Always enabled; it
// decides the cohort.
type KalshiConfig struct {
	BaseURL     string `yaml:"base_url"`
	EventTicker string `yaml:"event_ticker"`
}

// YouTubeConfig for the trailer-engagement source.
type YouTubeConfig struct {
	Enabled    bool   `yaml:"enabled"`
	APIKey     string `yaml:"api_key"`
	MaxResults int    `yaml:"max_results"`
}

// NewsConfig for the news source. Without an API key the collector falls
// back to the public Google News RSS feed.
type NewsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	APIKey     string `yaml:"api_key"`
	MaxResults int    `yaml:"max_results"`
}

// TMDBConfig for the media-metadata source.
type TMDBConfig struct {
	Enabled bool   `yaml:"enabled"`
	APIKey  string `yaml:"api_key"`
}

// WikipediaConfig for the page-view source.
type WikipediaConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Project   string `yaml:"project"`
	UserAgent string `yaml:"user_agent"`
}

// ScoringConfig configures the engine's policy constants.
type ScoringConfig struct {
	Weights score.Weights `yaml:"weights"`
	Margin  float64       `yaml:"margin"`
	TopN    int           `yaml:"top_n"`
}

// AlertsConfig configures trade-signal alert destinations.
type AlertsConfig struct {
	MinEdge float64       `yaml:"min_edge"`
	Slack   SlackConfig   `yaml:"slack"`
	Discord DiscordConfig `yaml:"discord"`
	Webhook WebhookConfig `yaml:"webhook"`
}

// SlackConfig for Slack webhook alerts.
type SlackConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// DiscordConfig for Discord webhook alerts.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// WebhookConfig for generic webhook alerts.
type WebhookConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Secret  string `yaml:"secret"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "./showradar.db"},
		Schedule: ScheduleConfig{RefreshInterval: "30m"},
		Sources: SourcesConfig{
			Kalshi: KalshiConfig{
				BaseURL:     "https://demo-api.kalshi.co/trade-api/v2",
				EventTicker: "KXNETFLIXRANK",
			},
			YouTube:   YouTubeConfig{Enabled: false, MaxResults: 5},
			News:      NewsConfig{Enabled: true, MaxResults: 50},
			TMDB:      TMDBConfig{Enabled: false},
			Wikipedia: WikipediaConfig{Enabled: true, Project: "en.wikipedia"},
		},
		Scoring: ScoringConfig{
			Weights: score.DefaultWeights(),
			Margin:  score.DefaultMargin,
			TopN:    5,
		},
		Alerts:  AlertsConfig{MinEdge: 5},
		Server:  ServerConfig{Port: 8080},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load reads configuration from a YAML file and applies env var overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values the engine and fetchers depend on. Upstream
// credential problems fail here, before any fetch or scoring runs.
func (c *Config) Validate() error {
	if c.Sources.Kalshi.BaseURL == "" {
		return fmt.Errorf("sources.kalshi.base_url is required")
	}
	if c.Sources.Kalshi.EventTicker == "" {
		return fmt.Errorf("sources.kalshi.event_ticker is required")
	}
	if c.Sources.YouTube.Enabled && c.Sources.YouTube.APIKey == "" {
		return fmt.Errorf("sources.youtube.api_key is required when youtube is enabled")
	}
	if c.Sources.TMDB.Enabled && c.Sources.TMDB.APIKey == "" {
		return fmt.Errorf("sources.tmdb.api_key is required when tmdb is enabled")
	}
	if sum := c.Scoring.Weights.Sum(); math.Abs(sum-1.0) > 0.001 {
		return fmt.Errorf("scoring.weights must sum to 1.0, got %.3f", sum)
	}
	if c.Scoring.Margin <= 0 {
		return fmt.Errorf("scoring.margin must be positive")
	}
	if c.Scoring.TopN < 1 {
		return fmt.Errorf("scoring.top_n must be at least 1")
	}
	return nil
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SHOWRADAR_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("KALSHI_BASE_URL"); v != "" {
		cfg.Sources.Kalshi.BaseURL = v
	}
	if v := os.Getenv("KALSHI_EVENT_TICKER"); v != "" {
		cfg.Sources.Kalshi.EventTicker = v
	}
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		cfg.Sources.YouTube.APIKey = v
		cfg.Sources.YouTube.Enabled = true
	}
	if v := os.Getenv("GNEWS_API_KEY"); v != "" {
		cfg.Sources.News.APIKey = v
		cfg.Sources.News.Enabled = true
	}
	if v := os.Getenv("TMDB_API_KEY"); v != "" {
		cfg.Sources.TMDB.APIKey = v
		cfg.Sources.TMDB.Enabled = true
	}
	if v := os.Getenv("WIKIPEDIA_USER_AGENT"); v != "" {
		cfg.Sources.Wikipedia.UserAgent = v
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Slack.WebhookURL = v
		cfg.Alerts.Slack.Enabled = true
	}
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Discord.WebhookURL = v
		cfg.Alerts.Discord.Enabled = true
	}
}
