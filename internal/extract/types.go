package extract

import "time"

// Content holds the fields pulled from one article page. Every field is
// best-effort; a missing field never invalidates the others.
type Content struct {
	Title            string
	Body             string
	Category         string
	PublishedRaw     string
	PublishedAt      time.Time
	PublishedOK      bool
	NotificationOnly bool
}

type Selectors struct {
	Feed    FeedSelectors    `yaml:"feed"`
	Article ArticleSelectors `yaml:"article"`
}

type FeedSelectors struct {
	Item           string   `yaml:"item"`
	Time           string   `yaml:"time"`
	Link           string   `yaml:"link"`
	LoadMoreText   string   `yaml:"load_more_text"`
	ConsentTexts   []string `yaml:"consent_texts"`
	OverlayIDs     []string `yaml:"overlay_ids"`
	OverlayClasses []string `yaml:"overlay_classes"`
	PopupClose     string   `yaml:"popup_close"`
}

type ArticleSelectors struct {
	Heading       string   `yaml:"heading"`
	ShortDesc     string   `yaml:"short_desc"`
	LongDesc      string   `yaml:"long_desc"`
	RelatedMarker string   `yaml:"related_marker"`
	BodyFallbacks []string `yaml:"body_fallbacks"`
	Categories    []string `yaml:"categories"`
}
