package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aljadeed-news-scraper/internal/app"
	"aljadeed-news-scraper/internal/config"
	"aljadeed-news-scraper/internal/crawler"
	"aljadeed-news-scraper/internal/driver"
	"aljadeed-news-scraper/internal/extract"
	"aljadeed-news-scraper/internal/fetch"
	"aljadeed-news-scraper/internal/normalize"
	"aljadeed-news-scraper/internal/observability"
	"aljadeed-news-scraper/internal/store"
	"aljadeed-news-scraper/internal/store/mssql"
)

var (
	configPath string
	feedURL    string
	untilRaw   string
	csvPath    string
	logPath    string
	noHeadless bool
)

var rootCmd = &cobra.Command{
	Use:          "aljadeed-news",
	Short:        "Scrape Al Jadeed pushed notifications back to a cutoff time",
	SilenceUsage: true,
	RunE:         run,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "path to config file")
	rootCmd.Flags().StringVar(&feedURL, "url", "", "notifications URL (overrides config)")
	rootCmd.Flags().StringVar(&untilRaw, "until", "", `scrape back until this datetime, e.g. "2025-11-17 00:00" (overrides config)`)
	rootCmd.Flags().StringVar(&csvPath, "csv", "", "path to output CSV file (overrides config)")
	rootCmd.Flags().StringVar(&logPath, "log", "", "path to log file (overrides config)")
	rootCmd.Flags().BoolVar(&noHeadless, "no-headless", false, "run the browser with a visible window")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation error (%s): %w", configPath, err)
	}

	// fail before the browser launches on a bad cutoff
	cutoff, err := normalize.ParseCutoff(cfg.Feed.Until, cfg.Normalize.DayFirst)
	if err != nil {
		return fmt.Errorf("could not parse until value: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Observability)
	if err != nil {
		return err
	}

	selectors, err := config.LoadSelectors(cfg.SelectorsFile)
	if err != nil {
		return err
	}

	st, err := newStore(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("Failed to close store", "error", closeErr.Error())
		}
	}()

	logger.Info("Starting scraper",
		"url", cfg.Feed.URL,
		"until", cutoff.Format("2006-01-02 15:04"),
		"storage", cfg.Storage.Driver,
	)

	browser, err := driver.NewRodBrowser(cfg.Browser)
	if err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer func() {
		if closeErr := browser.Close(); closeErr != nil {
			logger.Error("Failed to close browser", "error", closeErr.Error())
		}
	}()

	ctx, cancel := app.NotifyShutdown(logger)
	defer cancel()

	extractor := extract.NewExtractor(selectors, extract.Options{
		DayFirst:       cfg.Normalize.DayFirst,
		TrimNBSP:       cfg.Normalize.TrimNBSP,
		CollapseSpaces: cfg.Normalize.CollapseSpaces,
	})
	fetcher := fetch.NewFetcher(browser, extractor, selectors.Article.Heading, cfg, logger)
	cr := crawler.NewCrawler(cfg, selectors, browser, fetcher, extractor, st, cutoff, logger)

	stats, err := cr.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("Interrupted", "accepted", stats.Accepted)
			return nil
		}
		logger.Error("Crawl failed", "error", err.Error(), "reason", stats.StoppedReason)
		return err
	}

	logger.Info("Scraper finished",
		"accepted", stats.Accepted,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"reason", stats.StoppedReason,
	)
	return nil
}

func applyOverrides(cfg *config.Config) {
	if feedURL != "" {
		cfg.Feed.URL = feedURL
	}
	if untilRaw != "" {
		cfg.Feed.Until = untilRaw
	}
	if csvPath != "" {
		cfg.Storage.CSVPath = csvPath
	}
	if logPath != "" {
		cfg.Observability.LogPath = logPath
	}
	if noHeadless {
		cfg.Browser.Headless = false
	}
}

func newStore(cfg *config.Config, logger *observability.Logger) (store.Store, error) {
	switch cfg.Storage.Driver {
	case "mssql":
		return mssql.NewRepository(cfg.Storage.DSN, cfg.GetCommandTimeout(), logger)
	default:
		return store.NewCSVStore(cfg.Storage.CSVPath, logger), nil
	}
}
