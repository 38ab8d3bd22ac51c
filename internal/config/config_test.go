package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Feed: FeedConfig{
			URL:           "https://www.aljadeed.tv/pushed-notifications",
			Until:         "2025-11-17 00:00",
			ItemWaitS:     10,
			ConsentWaitS:  1,
			LoadMoreWaitS: 10,
		},
		Browser: BrowserConfig{
			Headless:     true,
			WindowWidth:  1920,
			WindowHeight: 1080,
		},
		Fetch: FetchConfig{
			MaxAttempts:   3,
			ReadyTimeoutS: 10,
			RetryDelayS:   2,
		},
		Storage: StorageConfig{
			Driver:  "csv",
			CSVPath: "aljadeed_news.csv",
		},
		SelectorsFile: "configs/selectors_aljadeed.yaml",
		Observability: ObservabilityConfig{
			LogPath:  "logs/scraper.log",
			LogLevel: "debug",
		},
	}
}

func TestValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing feed url", func(c *Config) { c.Feed.URL = "" }},
		{"missing until", func(c *Config) { c.Feed.Until = "" }},
		{"zero item wait", func(c *Config) { c.Feed.ItemWaitS = 0 }},
		{"negative fetch spacing", func(c *Config) { c.Feed.MinFetchSpacingMS = -1 }},
		{"zero attempts", func(c *Config) { c.Fetch.MaxAttempts = 0 }},
		{"unknown storage driver", func(c *Config) { c.Storage.Driver = "postgres" }},
		{"csv driver without path", func(c *Config) { c.Storage.CSVPath = "" }},
		{"mssql driver without dsn", func(c *Config) { c.Storage.Driver = "mssql"; c.Storage.DSN = "" }},
		{"missing selectors file", func(c *Config) { c.SelectorsFile = "" }},
		{"missing log level", func(c *Config) { c.Observability.LogLevel = "" }},
	}

	for _, tt := range tests {
		cfg := validConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: Validate should fail", tt.name)
		}
	}
}

func TestDurationGetters(t *testing.T) {
	cfg := validConfig()
	cfg.Feed.LoadMoreSettleMS = 1500
	cfg.Feed.MinFetchSpacingMS = 500

	if got := cfg.GetItemWait(); got != 10*time.Second {
		t.Errorf("GetItemWait = %v", got)
	}
	if got := cfg.GetLoadMoreSettle(); got != 1500*time.Millisecond {
		t.Errorf("GetLoadMoreSettle = %v", got)
	}
	if got := cfg.GetFetchSpacing(); got != 500*time.Millisecond {
		t.Errorf("GetFetchSpacing = %v", got)
	}
	if got := cfg.GetRetryDelay(); got != 2*time.Second {
		t.Errorf("GetRetryDelay = %v", got)
	}
}
