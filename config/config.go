// Package config loads the watcher configuration: a small YAML file for the
// search query, filter criteria and state storage, plus environment variables
// for the notification secrets.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when the config file is absent or leaves a field
// empty.
const (
	DefaultSourceType = "page"
	DefaultTimeout    = "30s"
	DefaultStateType  = "file"
	DefaultStatePath  = "seen_ads.json"
)

// SourceConfig selects the acquisition strategy and its query URL.
type SourceConfig struct {
	// Type is "page" (scrape the results markup) or "feed" (read the results
	// RSS feed).
	Type string `yaml:"type"`
	// URL of the results page or feed, filters included in the query string.
	URL string `yaml:"url"`
	// Timeout for the source request, as a duration string.
	Timeout string `yaml:"timeout"`
}

// CriteriaConfig holds the static listing filter.
type CriteriaConfig struct {
	Brand   string `yaml:"brand"`
	Model   string `yaml:"model"`
	YearMin int    `yaml:"year_min"`
	YearMax int    `yaml:"year_max"`
}

// StateConfig selects where the seen-set is persisted.
type StateConfig struct {
	// Type is "file" (JSON list) or "sqlite".
	Type string `yaml:"type"`
	Path string `yaml:"path"`
}

// Config is the full configuration tree.
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Criteria CriteriaConfig `yaml:"criteria"`
	State    StateConfig    `yaml:"state"`
}

// Load reads the config file at path. A missing file is not an error: the
// defaults apply and the source URL can still arrive via the environment. A
// file that exists but cannot be read or parsed is an error — a broken
// config deserves a loud log line before the cycle is skipped.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Source: SourceConfig{Type: DefaultSourceType, Timeout: DefaultTimeout},
		State:  StateConfig{Type: DefaultStateType, Path: DefaultStatePath},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, cfg.validate()
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg, cfg.validate()
}

func (c *Config) applyDefaults() {
	if c.Source.Type == "" {
		c.Source.Type = DefaultSourceType
	}
	if c.Source.Timeout == "" {
		c.Source.Timeout = DefaultTimeout
	}
	if c.State.Type == "" {
		c.State.Type = DefaultStateType
	}
	if c.State.Path == "" {
		c.State.Path = DefaultStatePath
	}
}

func (c *Config) applyEnv() {
	if url := os.Getenv("AVTOWATCH_SOURCE_URL"); url != "" {
		c.Source.URL = url
	}
}

func (c *Config) validate() error {
	switch c.Source.Type {
	case "page", "feed":
	default:
		return fmt.Errorf("unknown source type %q (want page or feed)", c.Source.Type)
	}

	switch c.State.Type {
	case "file", "sqlite":
	default:
		return fmt.Errorf("unknown state type %q (want file or sqlite)", c.State.Type)
	}

	if _, err := time.ParseDuration(c.Source.Timeout); err != nil {
		return fmt.Errorf("invalid source timeout %q: %w", c.Source.Timeout, err)
	}

	min, max := c.Criteria.YearMin, c.Criteria.YearMax
	if min > 0 && max > 0 && min > max {
		return fmt.Errorf("year_min %d exceeds year_max %d", min, max)
	}

	return nil
}

// FetchTimeout returns the parsed source timeout. Load validated the string,
// so this cannot fail after a successful Load.
func (c *Config) FetchTimeout() time.Duration {
	d, err := time.ParseDuration(c.Source.Timeout)
	if err != nil {
		d, _ = time.ParseDuration(DefaultTimeout)
	}
	return d
}

// TelegramCredentials reads the notifier secrets from the environment. Both
// must be present for Telegram delivery; otherwise the console fallback is
// used.
func TelegramCredentials() (token, chatID string, ok bool) {
	token = os.Getenv("TELEGRAM_BOT_TOKEN")
	chatID = os.Getenv("TELEGRAM_CHAT_ID")
	return token, chatID, token != "" && chatID != ""
}
