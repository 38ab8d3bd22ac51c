package config

import (
	"fmt"
	"time"
)

type Config struct {
	Feed          FeedConfig          `yaml:"feed"`
	Browser       BrowserConfig       `yaml:"browser"`
	Fetch         FetchConfig         `yaml:"fetch"`
	Storage       StorageConfig       `yaml:"storage"`
	SelectorsFile string              `yaml:"selectors_file"`
	Normalize     NormalizeConfig     `yaml:"normalize"`
	Observability ObservabilityConfig `yaml:"observability"`
}

type FeedConfig struct {
	URL               string `yaml:"url"`
	Until             string `yaml:"until"`
	ItemWaitS         int    `yaml:"item_wait_s"`
	ConsentWaitS      int    `yaml:"consent_wait_s"`
	LoadMoreWaitS     int    `yaml:"load_more_wait_s"`
	LoadMoreSettleMS  int    `yaml:"load_more_settle_ms"`
	MinFetchSpacingMS int    `yaml:"min_fetch_spacing_ms"`
}

type BrowserConfig struct {
	Headless     bool   `yaml:"headless"`
	ChromePath   string `yaml:"chrome_path"`
	WindowWidth  int    `yaml:"window_width"`
	WindowHeight int    `yaml:"window_height"`
	Lang         string `yaml:"lang"`
}

type FetchConfig struct {
	MaxAttempts   int `yaml:"max_attempts"`
	ReadyTimeoutS int `yaml:"ready_timeout_s"`
	RetryDelayS   int `yaml:"retry_delay_s"`
}

type StorageConfig struct {
	Driver           string `yaml:"driver"`
	CSVPath          string `yaml:"csv_path"`
	DSN              string `yaml:"dsn"`
	CommandTimeoutMS int    `yaml:"command_timeout_ms"`
}

type NormalizeConfig struct {
	DayFirst       bool `yaml:"day_first"`
	TrimNBSP       bool `yaml:"trim_nbsp"`
	CollapseSpaces bool `yaml:"collapse_spaces"`
}

type ObservabilityConfig struct {
	LogPath    string `yaml:"log_path"`
	LogLevel   string `yaml:"log_level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Validation
func (c *Config) Validate() error {
	if c.Feed.URL == "" {
		return fmt.Errorf("feed.url is required")
	}
	if c.Feed.Until == "" {
		return fmt.Errorf("feed.until is required")
	}
	if c.Feed.ItemWaitS <= 0 {
		return fmt.Errorf("feed.item_wait_s must be > 0")
	}
	if c.Feed.ConsentWaitS <= 0 {
		return fmt.Errorf("feed.consent_wait_s must be > 0")
	}
	if c.Feed.LoadMoreWaitS <= 0 {
		return fmt.Errorf("feed.load_more_wait_s must be > 0")
	}
	if c.Feed.LoadMoreSettleMS < 0 {
		return fmt.Errorf("feed.load_more_settle_ms must be >= 0")
	}
	if c.Feed.MinFetchSpacingMS < 0 {
		return fmt.Errorf("feed.min_fetch_spacing_ms must be >= 0")
	}
	if c.Browser.WindowWidth <= 0 || c.Browser.WindowHeight <= 0 {
		return fmt.Errorf("browser.window_width and browser.window_height must be > 0")
	}
	if c.Fetch.MaxAttempts <= 0 {
		return fmt.Errorf("fetch.max_attempts must be > 0")
	}
	if c.Fetch.ReadyTimeoutS <= 0 {
		return fmt.Errorf("fetch.ready_timeout_s must be > 0")
	}
	if c.Fetch.RetryDelayS < 0 {
		return fmt.Errorf("fetch.retry_delay_s must be >= 0")
	}
	if c.Storage.Driver != "csv" && c.Storage.Driver != "mssql" {
		return fmt.Errorf("storage.driver must be 'csv' or 'mssql'")
	}
	if c.Storage.Driver == "csv" && c.Storage.CSVPath == "" {
		return fmt.Errorf("storage.csv_path is required when driver is 'csv'")
	}
	if c.Storage.Driver == "mssql" {
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required when driver is 'mssql'")
		}
		if c.Storage.CommandTimeoutMS <= 0 {
			return fmt.Errorf("storage.command_timeout_ms must be > 0")
		}
	}
	if c.SelectorsFile == "" {
		return fmt.Errorf("selectors_file is required")
	}
	if c.Observability.LogPath == "" {
		return fmt.Errorf("observability.log_path is required")
	}
	if c.Observability.LogLevel == "" {
		return fmt.Errorf("observability.log_level is required")
	}
	return nil
}

// Getters
func (c *Config) GetItemWait() time.Duration {
	return time.Duration(c.Feed.ItemWaitS) * time.Second
}

func (c *Config) GetConsentWait() time.Duration {
	return time.Duration(c.Feed.ConsentWaitS) * time.Second
}

func (c *Config) GetLoadMoreWait() time.Duration {
	return time.Duration(c.Feed.LoadMoreWaitS) * time.Second
}

func (c *Config) GetLoadMoreSettle() time.Duration {
	return time.Duration(c.Feed.LoadMoreSettleMS) * time.Millisecond
}

func (c *Config) GetFetchSpacing() time.Duration {
	return time.Duration(c.Feed.MinFetchSpacingMS) * time.Millisecond
}

func (c *Config) GetReadyTimeout() time.Duration {
	return time.Duration(c.Fetch.ReadyTimeoutS) * time.Second
}

func (c *Config) GetRetryDelay() time.Duration {
	return time.Duration(c.Fetch.RetryDelayS) * time.Second
}

func (c *Config) GetCommandTimeout() time.Duration {
	return time.Duration(c.Storage.CommandTimeoutMS) * time.Millisecond
}
