package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Live      LiveConfig      `yaml:"live"`
	Transport TransportConfig `yaml:"transport"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	URL      string `yaml:"url"`
	HTTPBase string `yaml:"http_base"`
}

type LiveConfig struct {
	HistoryCapacity int           `yaml:"history_capacity"`
	StaleAfter      time.Duration `yaml:"stale_after"`
	SweepInterval   time.Duration `yaml:"sweep_interval"`
}

type TransportConfig struct {
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	FilePath   string `yaml:"file_path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL: "ws://127.0.0.1:8080/ws",
		},
		Live: LiveConfig{
			HistoryCapacity: 200,
			StaleAfter:      45 * time.Second,
			SweepInterval:   time.Second,
		},
		Transport: TransportConfig{
			ReconnectDelay: 3 * time.Second,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error; the defaults are returned as they are.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the dashboard cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.URL)
	if err != nil {
		return fmt.Errorf("server.url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("server.url: scheme must be ws or wss, got %q", u.Scheme)
	}
	if c.Live.HistoryCapacity <= 0 {
		return fmt.Errorf("live.history_capacity must be positive, got %d", c.Live.HistoryCapacity)
	}
	if c.Live.StaleAfter <= 0 {
		return fmt.Errorf("live.stale_after must be positive, got %v", c.Live.StaleAfter)
	}
	if c.Live.SweepInterval <= 0 {
		return fmt.Errorf("live.sweep_interval must be positive, got %v", c.Live.SweepInterval)
	}
	if c.Transport.ReconnectDelay <= 0 {
		return fmt.Errorf("transport.reconnect_delay must be positive, got %v", c.Transport.ReconnectDelay)
	}
	return nil
}

// HTTPBaseURL returns server.http_base, or derives it from the WebSocket URL
// (ws://host:port/ws → http://host:port).
func (c *Config) HTTPBaseURL() string {
	if c.Server.HTTPBase != "" {
		return strings.TrimRight(c.Server.HTTPBase, "/")
	}
	u, err := url.Parse(c.Server.URL)
	if err != nil || u.Host == "" {
		return "http://127.0.0.1:8080"
	}
	scheme := "http"
	if strings.HasPrefix(u.Scheme, "wss") {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, u.Host)
}
