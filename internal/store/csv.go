package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"aljadeed-news-scraper/internal/observability"
)

// Column order is fixed; existing files written by earlier versions of the
// scraper must keep loading.
var csvHeader = []string{"ScrapedAt", "PublishedAt", "URL", "Title", "Body", "Category", "IsNotificationOnly"}

const (
	scrapedAtLayout   = "2006-01-02T15:04:05"
	publishedAtLayout = "2006-01-02T15:04"

	// utf-8-sig so Excel renders Arabic correctly
	bom = "\uFEFF"
)

type CSVStore struct {
	path   string
	logger *observability.Logger

	rows  []Record
	known map[string]bool

	// rename commits the temp file; replaceable for crash-safety tests.
	rename func(oldpath, newpath string) error
}

func NewCSVStore(path string, logger *observability.Logger) *CSVStore {
	return &CSVStore{
		path:   path,
		logger: logger,
		known:  make(map[string]bool),
		rename: os.Rename,
	}
}

// Load reads the backing file into memory. A missing or unreadable file is
// "no prior state", not an error: the crawl re-discovers everything and the
// dedup set simply starts empty.
func (s *CSVStore) Load(ctx context.Context) ([]Record, map[string]bool, error) {
	s.rows = nil
	s.known = make(map[string]bool)

	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Info("Store file does not exist yet, starting empty", "path", s.path)
		} else {
			s.logger.Warn("Failed to open store file, starting empty", "path", s.path, "error", err.Error())
		}
		return s.snapshot()
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			s.logger.Warn("Failed to close store file", "error", closeErr.Error())
		}
	}()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		s.logger.Warn("Store file is corrupt, starting empty", "path", s.path, "error", err.Error())
		return s.snapshot()
	}

	for i, row := range records {
		if i == 0 {
			// header row, possibly BOM-prefixed
			continue
		}
		rec := parseRow(row)
		if rec.URL == "" {
			continue
		}
		s.rows = append(s.rows, rec)
		s.known[rec.URL] = true
	}

	s.logger.Info("Loaded existing store", "path", s.path, "rows", len(s.rows), "unique_urls", len(s.known))
	return s.snapshot()
}

// Accept prepends the record and rewrites the whole file atomically. The
// full rewrite is O(n) per accepted article on purpose: feed runs are tens
// of items and the temp-file-then-rename discipline keeps a crash from ever
// leaving a torn store.
func (s *CSVStore) Accept(ctx context.Context, rec Record) (bool, error) {
	if rec.URL == "" {
		s.logger.Warn("Record has no URL, skipping", "title", rec.Title)
		return false, nil
	}
	if s.known[rec.URL] {
		s.logger.Debug("Duplicate URL, skipping", "url", rec.URL)
		return false, nil
	}

	s.rows = append([]Record{rec}, s.rows...)
	s.known[rec.URL] = true

	if err := s.writeAll(); err != nil {
		return false, err
	}

	s.logger.Info("Added article", "title", rec.Title, "url", rec.URL)
	return true, nil
}

func (s *CSVStore) Close() error {
	return nil
}

func (s *CSVStore) writeAll() error {
	tmpPath := s.path + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp store file: %w", err)
	}

	if _, err := file.WriteString(bom); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write store file: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write store header: %w", err)
	}
	for _, rec := range s.rows {
		if err := writer.Write(formatRow(rec)); err != nil {
			_ = file.Close()
			return fmt.Errorf("failed to write store row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to flush store file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close temp store file: %w", err)
	}

	if err := s.rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to commit store file: %w", err)
	}

	s.logger.Debug("Rewrote store file", "path", s.path, "rows", len(s.rows))
	return nil
}

func (s *CSVStore) snapshot() ([]Record, map[string]bool, error) {
	rows := make([]Record, len(s.rows))
	copy(rows, s.rows)
	known := make(map[string]bool, len(s.known))
	for url := range s.known {
		known[url] = true
	}
	return rows, known, nil
}

func formatRow(rec Record) []string {
	publishedAt := ""
	if !rec.PublishedAt.IsZero() {
		publishedAt = rec.PublishedAt.Format(publishedAtLayout)
	}
	notifOnly := "False"
	if rec.NotificationOnly {
		notifOnly = "True"
	}
	return []string{
		rec.ScrapedAt.Format(scrapedAtLayout),
		publishedAt,
		rec.URL,
		rec.Title,
		rec.Body,
		rec.Category,
		notifOnly,
	}
}

func parseRow(row []string) Record {
	if len(row) < len(csvHeader) {
		return Record{}
	}
	rec := Record{
		URL:              strings.TrimSpace(row[2]),
		Title:            row[3],
		Body:             row[4],
		Category:         row[5],
		NotificationOnly: strings.EqualFold(strings.TrimSpace(row[6]), "true"),
	}
	if t, err := time.ParseInLocation(scrapedAtLayout, row[0], time.Local); err == nil {
		rec.ScrapedAt = t
	}
	if t, err := time.ParseInLocation(publishedAtLayout, row[1], time.Local); err == nil {
		rec.PublishedAt = t
	}
	return rec
}
