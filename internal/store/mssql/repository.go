package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/microsoft/go-mssqldb"

	"aljadeed-news-scraper/internal/checksum"
	"aljadeed-news-scraper/internal/observability"
	"aljadeed-news-scraper/internal/store"
)

// Repository persists accepted articles in SQL Server. Dedup lives in the
// insert-if-absent statement, so the invariant holds even if another
// scraper instance shares the table.
type Repository struct {
	db             *sql.DB
	commandTimeout time.Duration
	logger         *observability.Logger
	hasher         *checksum.Generator
	known          map[string]bool
}

func NewRepository(dsn string, commandTimeout time.Duration, logger *observability.Logger) (*Repository, error) {
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{
		db:             db,
		commandTimeout: commandTimeout,
		logger:         logger,
		hasher:         checksum.NewGenerator(),
		known:          make(map[string]bool),
	}, nil
}

// Load reads all persisted articles newest-first and rebuilds the known-URL
// set the crawler skips against.
func (r *Repository) Load(ctx context.Context) ([]store.Record, map[string]bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.commandTimeout)
	defer cancel()

	query := `
		SELECT [ScrapedAt], [PublishedAt], [URL], [Title], [Body], [Category], [IsNotificationOnly]
		FROM TblArticles
		ORDER BY [ScrapedAt] DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.Error("Failed to close rows", "error", err.Error())
		}
	}()

	var records []store.Record
	known := make(map[string]bool)

	for rows.Next() {
		var rec store.Record
		var publishedAt sql.NullTime
		if err := rows.Scan(&rec.ScrapedAt, &publishedAt, &rec.URL, &rec.Title, &rec.Body, &rec.Category, &rec.NotificationOnly); err != nil {
			return nil, nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		if publishedAt.Valid {
			rec.PublishedAt = publishedAt.Time
		}
		records = append(records, rec)
		known[rec.URL] = true
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate article rows: %w", err)
	}

	r.known = make(map[string]bool, len(known))
	for url := range known {
		r.known[url] = true
	}

	r.logger.Info("Loaded existing store", "driver", "mssql", "rows", len(records))
	return records, known, nil
}

// Accept inserts the record unless its URL already exists.
func (r *Repository) Accept(ctx context.Context, rec store.Record) (bool, error) {
	if rec.URL == "" {
		r.logger.Warn("Record has no URL, skipping", "title", rec.Title)
		return false, nil
	}
	if r.known[rec.URL] {
		r.logger.Debug("Duplicate URL, skipping", "url", rec.URL)
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.commandTimeout)
	defer cancel()

	query := `
		IF NOT EXISTS (SELECT 1 FROM TblArticles WHERE [URL] = @URL)
		INSERT INTO TblArticles ([ScrapedAt], [PublishedAt], [URL], [Title], [Body], [Category], [IsNotificationOnly], [CheckSum])
		VALUES (@ScrapedAt, @PublishedAt, @URL, @Title, @Body, @Category, @IsNotificationOnly, @CheckSum)
	`

	var publishedAt sql.NullTime
	if !rec.PublishedAt.IsZero() {
		publishedAt = sql.NullTime{Time: rec.PublishedAt, Valid: true}
	}

	result, err := r.db.ExecContext(ctx, query,
		sql.Named("ScrapedAt", rec.ScrapedAt),
		sql.Named("PublishedAt", publishedAt),
		sql.Named("URL", rec.URL),
		sql.Named("Title", rec.Title),
		sql.Named("Body", rec.Body),
		sql.Named("Category", rec.Category),
		sql.Named("IsNotificationOnly", rec.NotificationOnly),
		sql.Named("CheckSum", r.hasher.ContentHash(rec.URL, rec.Title, rec.Body, rec.PublishedAt)),
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert article: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		r.known[rec.URL] = true
		return false, nil
	}

	r.known[rec.URL] = true
	r.logger.Info("Added article", "title", rec.Title, "url", rec.URL)
	return true, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
