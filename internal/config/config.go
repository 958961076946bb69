package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	YouTube YouTubeConfig `yaml:"youtube"`
	Peers   PeersConfig   `yaml:"peers"`
	History HistoryConfig `yaml:"history"`
	Alerts  AlertsConfig  `yaml:"alerts"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// YouTubeConfig configures the Data API provider.
type YouTubeConfig struct {
	APIKey string `yaml:"api_key"`
}

// Peer sources.
const (
	PeerSourceYouTube = "youtube"
	PeerSourceFeeds   = "feeds"
)

// PeersConfig configures the trending peer set used for comparison.
type PeersConfig struct {
	Source          string   `yaml:"source"`
	Channels        []string `yaml:"channels"`
	Window          string   `yaml:"window"`
	Language        string   `yaml:"language"`
	Limit           int      `yaml:"limit"`
	Keywords        []string `yaml:"keywords"`
	Exclude         []string `yaml:"exclude"`
	RefreshSchedule string   `yaml:"refresh_schedule"`
}

// ParseWindow returns the recency window as time.Duration.
func (p PeersConfig) ParseWindow() time.Duration {
	d, err := time.ParseDuration(p.Window)
	if err != nil || d <= 0 {
		return 14 * 24 * time.Hour
	}
	return d
}

// HistoryConfig configures the recent-analyses store.
type HistoryConfig struct {
	Backend string `yaml:"backend"`
	Size    int    `yaml:"size"`
}

// AlertsConfig configures alert destinations.
type AlertsConfig struct {
	MinScore float64       `yaml:"min_score"`
	Slack    SlackConfig   `yaml:"slack"`
	Discord  DiscordConfig `yaml:"discord"`
	Webhook  WebhookConfig `yaml:"webhook"`
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
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Peers: PeersConfig{
			Source:          PeerSourceYouTube,
			Window:          "336h",
			Language:        "en",
			Limit:           10,
			RefreshSchedule: "@every 30m",
		},
		History: HistoryConfig{Backend: "memory", Size: 5},
		Alerts:  AlertsConfig{MinScore: 0.7},
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"*"},
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load reads an optional .env file and YAML configuration, then applies env
// var overrides.
func Load(path string) (*Config, error) {
	// A missing .env is fine.
	_ = godotenv.Load()

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

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		cfg.YouTube.APIKey = v
	}
	if v := os.Getenv("SHORTSRADAR_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Slack.WebhookURL = v
		cfg.Alerts.Slack.Enabled = true
	}
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Discord.WebhookURL = v
		cfg.Alerts.Discord.Enabled = true
	}
	if v := os.Getenv("SHORTSRADAR_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Webhook.URL = v
		cfg.Alerts.Webhook.Enabled = true
	}
	if v := os.Getenv("SHORTSRADAR_WEBHOOK_SECRET"); v != "" {
		cfg.Alerts.Webhook.Secret = v
	}
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error

	switch c.Peers.Source {
	case PeerSourceYouTube:
	case PeerSourceFeeds:
		if len(c.Peers.Channels) == 0 {
			errs = append(errs, errors.New("peers.channels: required when peers.source is feeds"))
		}
	default:
		errs = append(errs, fmt.Errorf("peers.source: unknown source %q", c.Peers.Source))
	}
	if c.Peers.Limit < 1 || c.Peers.Limit > 50 {
		errs = append(errs, fmt.Errorf("peers.limit: %d out of range [1, 50]", c.Peers.Limit))
	}
	if c.Peers.Window != "" {
		if _, err := time.ParseDuration(c.Peers.Window); err != nil {
			errs = append(errs, fmt.Errorf("peers.window: %w", err))
		}
	}
	if c.Peers.RefreshSchedule != "" {
		if _, err := cron.ParseStandard(c.Peers.RefreshSchedule); err != nil {
			errs = append(errs, fmt.Errorf("peers.refresh_schedule: %w", err))
		}
	}

	switch strings.ToLower(c.History.Backend) {
	case "", "memory", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("history.backend: unknown backend %q", c.History.Backend))
	}
	if c.History.Size < 1 {
		errs = append(errs, fmt.Errorf("history.size: must be positive, got %d", c.History.Size))
	}

	if c.Alerts.MinScore < 0 || c.Alerts.MinScore > 1 {
		errs = append(errs, fmt.Errorf("alerts.min_score: %.2f out of range [0, 1]", c.Alerts.MinScore))
	}
	if c.Alerts.Slack.Enabled && c.Alerts.Slack.WebhookURL == "" {
		errs = append(errs, errors.New("alerts.slack.webhook_url: required when enabled"))
	}
	if c.Alerts.Discord.Enabled && c.Alerts.Discord.WebhookURL == "" {
		errs = append(errs, errors.New("alerts.discord.webhook_url: required when enabled"))
	}
	if c.Alerts.Webhook.Enabled && c.Alerts.Webhook.URL == "" {
		errs = append(errs, errors.New("alerts.webhook.url: required when enabled"))
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port: %d out of range", c.Server.Port))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
