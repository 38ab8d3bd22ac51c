package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"aljadeed-news-scraper/internal/extract"
)

// LoadSelectors reads the site selectors from a YAML file.
func LoadSelectors(filePath string) (*extract.Selectors, error) {
	if filePath == "" {
		return nil, fmt.Errorf("selectors file path is empty")
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open selectors file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close selectors file: %v\n", closeErr)
		}
	}()

	var selectors extract.Selectors
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&selectors); err != nil {
		return nil, fmt.Errorf("failed to parse selectors YAML: %w", err)
	}

	if err := validateSelectors(&selectors); err != nil {
		return nil, err
	}

	return &selectors, nil
}

func validateSelectors(s *extract.Selectors) error {
	if s.Feed.Item == "" {
		return fmt.Errorf("feed.item selector is required")
	}
	if s.Feed.Time == "" {
		return fmt.Errorf("feed.time selector is required")
	}
	if s.Feed.Link == "" {
		return fmt.Errorf("feed.link selector is required")
	}
	if s.Feed.LoadMoreText == "" {
		return fmt.Errorf("feed.load_more_text is required")
	}
	if s.Article.Heading == "" {
		return fmt.Errorf("article.heading selector is required")
	}
	if len(s.Article.BodyFallbacks) == 0 {
		return fmt.Errorf("article.body_fallbacks is required")
	}
	if len(s.Article.Categories) == 0 {
		return fmt.Errorf("article.categories is required")
	}
	return nil
}
