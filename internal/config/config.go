package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Paths       PathsConfig       `yaml:"paths"`
	Database    DatabaseConfig    `yaml:"database"`
	Fetch       FetchConfig       `yaml:"fetch"`
	Checker     CheckerConfig     `yaml:"checker"`
	SystemProxy SystemProxyConfig `yaml:"system_proxy"`
	Collectors  []CollectorConfig `yaml:"collectors"`
	Publishers  []PublisherConfig `yaml:"publishers"`
}

type PathsConfig struct {
	// Newline-delimited list of subscription URLs; # lines are comments.
	SubscriptionFile string `yaml:"subscription_file"`
	OutputDir        string `yaml:"output_dir"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
	// Records not seen for this long are eligible for pruning.
	MaxAge time.Duration `yaml:"max_age"`
}

type FetchConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"user_agent"`
	MaxConcurrent int           `yaml:"max_concurrent"`
}

type CheckerConfig struct {
	ProbeURL         string        `yaml:"probe_url"`
	Timeout          time.Duration `yaml:"timeout"`
	WorkerCount      int           `yaml:"worker_count"`
	GeoIPCountryPath string        `yaml:"geoip_country_path"`
}

type SystemProxyConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Fallback string `yaml:"fallback"`
}

type CollectorConfig struct {
	Name   string                 `yaml:"name"`
	Type   string                 `yaml:"type"`
	Params map[string]interface{} `yaml:"params"`
}

type PublisherConfig struct {
	Name   string                 `yaml:"name"`
	Type   string                 `yaml:"type"`
	Params map[string]interface{} `yaml:"params"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config yaml: %w", err)
	}

	if cfg.Fetch.MaxConcurrent <= 0 {
		cfg.Fetch.MaxConcurrent = 10
	}
	if cfg.Checker.WorkerCount <= 0 {
		cfg.Checker.WorkerCount = 20
	}

	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Paths.SubscriptionFile = "data/subscriptions.txt"
	cfg.Paths.OutputDir = "data/configs"
	cfg.Database.Path = "data/confcollect.db"
	cfg.Database.MaxAge = 7 * 24 * time.Hour
	cfg.Fetch.Timeout = 30 * time.Second
	cfg.Fetch.UserAgent = "ConfigCollector/2.0"
	cfg.Fetch.MaxConcurrent = 10
	cfg.Checker.ProbeURL = "https://www.gstatic.com/generate_204"
	cfg.Checker.Timeout = 8 * time.Second
	cfg.Checker.WorkerCount = 20
	cfg.Checker.GeoIPCountryPath = "GeoLite2-Country.mmdb"
	return cfg
}

func (c *Config) FilterCollectors(names []string) {
	if len(names) == 0 {
		return
	}
	whitelist := make(map[string]bool)
	for _, n := range names {
		whitelist[n] = true
	}
	var filtered []CollectorConfig
	for _, item := range c.Collectors {
		if whitelist[item.Name] {
			filtered = append(filtered, item)
		}
	}
	c.Collectors = filtered
}

func (c *Config) FilterPublishers(names []string) {
	if len(names) == 0 {
		return
	}
	whitelist := make(map[string]bool)
	for _, n := range names {
		whitelist[n] = true
	}
	var filtered []PublisherConfig
	for _, item := range c.Publishers {
		if whitelist[item.Name] {
			filtered = append(filtered, item)
		}
	}
	c.Publishers = filtered
}
