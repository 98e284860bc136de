package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Feed struct {
		Capacity int           `yaml:"capacity"`
		Interval time.Duration `yaml:"interval"`
		PriceMin float64       `yaml:"price_min"`
		PriceMax float64       `yaml:"price_max"`
		Seed     int64         `yaml:"seed"`
	} `yaml:"feed"`
	Render struct {
		Width       int  `yaml:"width"`
		Height      int  `yaml:"height"`
		ClearScreen bool `yaml:"clear_screen"`
	} `yaml:"render"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the built-in configuration. Load starts from it, so keys
// missing from the file and environment keep these values.
func Default() *Config {
	cfg := &Config{}
	cfg.Feed.Capacity = 30
	cfg.Feed.Interval = 5 * time.Second
	cfg.Feed.PriceMin = 100
	cfg.Feed.PriceMax = 300
	cfg.Render.Width = 60
	cfg.Render.Height = 12
	cfg.Log.Level = "info"
	return cfg
}

// Load reads config from a YAML file over the defaults, then applies
// environment variable overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("FEED_CAPACITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FEED_CAPACITY: %w", err)
		}
		c.Feed.Capacity = n
	}
	if v := os.Getenv("FEED_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("FEED_INTERVAL: %w", err)
		}
		c.Feed.Interval = d
	}
	if v := os.Getenv("PRICE_MIN"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("PRICE_MIN: %w", err)
		}
		c.Feed.PriceMin = f
	}
	if v := os.Getenv("PRICE_MAX"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("PRICE_MAX: %w", err)
		}
		c.Feed.PriceMax = f
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks that all values are usable.
func (c *Config) Validate() error {
	if c.Feed.Capacity <= 0 {
		return fmt.Errorf("feed.capacity must be positive")
	}
	if c.Feed.Interval < time.Second {
		return fmt.Errorf("feed.interval must be at least 1s")
	}
	if c.Feed.PriceMin < 0 {
		return fmt.Errorf("feed.price_min must not be negative")
	}
	if c.Feed.PriceMin > c.Feed.PriceMax {
		return fmt.Errorf("feed.price_min must not exceed feed.price_max")
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render.width and render.height must be positive")
	}
	return nil
}
