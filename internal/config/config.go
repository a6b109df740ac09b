// Package config provides YAML-based configuration loading for Todoki.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported database dialects.
const (
	DialectSQLite   = "sqlite"
	DialectMySQL    = "mysql"
	DialectPostgres = "postgres"
)

// Config is the top-level Todoki configuration, loaded from todoki.yaml.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Auth     AuthConfig     `yaml:"auth"`
	Database DatabaseConfig `yaml:"database"`
	Timezone string         `yaml:"timezone"`
	Digest   DigestConfig   `yaml:"digest"`
	GitHub   GitHubConfig   `yaml:"github"`
}

// ServerConfig holds the HTTP listen address.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// AuthConfig holds the static API bearer token.
type AuthConfig struct {
	Token string `yaml:"token"`
}

// DatabaseConfig holds connection settings for the task store.
type DatabaseConfig struct {
	Dialect  string `yaml:"dialect"`
	Path     string `yaml:"path"` // sqlite only
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// DigestConfig controls the scheduled activity digest.
type DigestConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Schedule string        `yaml:"schedule"`
	Slack    SlackConfig   `yaml:"slack"`
	Discord  DiscordConfig `yaml:"discord"`
}

// SlackConfig holds Slack notifier credentials: either a bot token with a
// channel, or an incoming webhook URL.
type SlackConfig struct {
	Token      string `yaml:"token"`
	WebhookURL string `yaml:"webhook_url"`
	Channel    string `yaml:"channel"`
}

// DiscordConfig holds Discord notifier credentials.
type DiscordConfig struct {
	Token     string `yaml:"token"`
	ChannelID string `yaml:"channel_id"`
}

// GitHubConfig holds the token used by the issue importer.
type GitHubConfig struct {
	Token string `yaml:"token"`
}

// Load reads a YAML config file from path and returns a validated Config.
// A missing file yields the defaults; every field has a workable default
// except the auth token, which only serving requires.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Parse(nil)
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Location resolves the configured timezone. validate has already checked
// the name, so a failure here means the tz database changed underneath us.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Dialect == "" {
		c.Database.Dialect = DialectSQLite
	}
	if c.Database.Path == "" {
		c.Database.Path = "todoki.db"
	}
	if c.Database.Host == "" {
		c.Database.Host = "127.0.0.1"
	}
	if c.Database.Port == 0 {
		switch c.Database.Dialect {
		case DialectPostgres:
			c.Database.Port = 5432
		default:
			c.Database.Port = 3306
		}
	}
	if c.Database.User == "" {
		c.Database.User = "todoki"
	}
	if c.Database.Name == "" {
		c.Database.Name = "todoki"
	}
	if c.Timezone == "" {
		c.Timezone = "Asia/Hong_Kong"
	}
	if c.Digest.Schedule == "" {
		c.Digest.Schedule = "0 21 * * *"
	}
}

// applyEnv lets the environment override secrets so they can stay out of
// the config file.
func (c *Config) applyEnv() {
	if v := os.Getenv("TODOKI_TOKEN"); v != "" {
		c.Auth.Token = v
	}
	if v := os.Getenv("TODOKI_DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("TODOKI_GITHUB_TOKEN"); v != "" {
		c.GitHub.Token = v
	}
}

// validate checks that all present fields are consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.Database.Dialect {
	case DialectSQLite, DialectMySQL, DialectPostgres:
	default:
		errs = append(errs, fmt.Sprintf("database.dialect %q is not one of sqlite, mysql, postgres", c.Database.Dialect))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("timezone %q is not a valid IANA name", c.Timezone))
	}
	if c.Digest.Enabled {
		hasSlack := c.Digest.Slack.WebhookURL != "" || (c.Digest.Slack.Token != "" && c.Digest.Slack.Channel != "")
		hasDiscord := c.Digest.Discord.Token != "" && c.Digest.Discord.ChannelID != ""
		if !hasSlack && !hasDiscord {
			errs = append(errs, "digest.enabled requires slack or discord credentials")
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
