package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"aljadeed-news-scraper/internal/normalize"
)

// Published timestamps render as "2025-11-18 | 13:57".
var dateTimeRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}\s*\|\s*\d{2}:\d{2}`)

type Options struct {
	DayFirst       bool
	TrimNBSP       bool
	CollapseSpaces bool
}

// BodyStrategy is one way of pulling body text out of an article page.
// Strategies are tried in order; the first non-empty result wins.
type BodyStrategy interface {
	Name() string
	Extract(doc *goquery.Document) string
}

type Extractor struct {
	sel        *Selectors
	opts       Options
	strategies []BodyStrategy
}

func NewExtractor(sel *Selectors, opts Options) *Extractor {
	return &Extractor{
		sel:  sel,
		opts: opts,
		strategies: []BodyStrategy{
			&descriptionStrategy{sel: sel, opts: opts},
			&fallbackStrategy{sel: sel, opts: opts},
		},
	}
}

// Extract pulls the structured fields out of an article page snapshot.
// Each field is independently best-effort: a missing title, body, category
// or timestamp never aborts extraction of the others.
func (e *Extractor) Extract(html string) (*Content, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	content := &Content{}

	content.Title = e.clean(doc.Find(e.sel.Article.Heading).First().Text())

	for _, strategy := range e.strategies {
		if body := strategy.Extract(doc); body != "" {
			content.Body = body
			break
		}
	}
	content.NotificationOnly = content.Body == ""

	content.Category = e.extractCategory(doc)

	content.PublishedRaw = e.extractPublishedText(doc)
	if content.PublishedRaw != "" {
		content.PublishedAt, content.PublishedOK = normalize.ParseInstant(content.PublishedRaw, e.opts.DayFirst)
	}

	return content, nil
}

// extractCategory scans all links and returns the first whose text exactly
// matches a known category label. Exact match only: labels are short words
// that would false-positive under substring matching.
func (e *Extractor) extractCategory(doc *goquery.Document) string {
	category := ""
	doc.Find("a").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		for _, known := range e.sel.Article.Categories {
			if text == known {
				category = text
				return false
			}
		}
		return true
	})
	return category
}

// extractPublishedText finds the first element whose own text carries the
// vertical-bar separator and whose rendered text looks like a date.
func (e *Extractor) extractPublishedText(doc *goquery.Document) string {
	found := ""
	doc.Find("*").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if !strings.Contains(ownText(sel), "|") {
			return true
		}
		text := strings.TrimSpace(sel.Text())
		if dateTimeRe.MatchString(text) {
			found = text
			return false
		}
		return true
	})
	return found
}

func (e *Extractor) clean(text string) string {
	return normalize.CleanText(text, e.opts.TrimNBSP, e.opts.CollapseSpaces)
}

// ownText returns the element's direct text nodes, excluding descendants.
func ownText(sel *goquery.Selection) string {
	var b strings.Builder
	sel.Contents().Each(func(i int, c *goquery.Selection) {
		if goquery.NodeName(c) == "#text" {
			b.WriteString(c.Text())
		}
	})
	return b.String()
}

// descriptionStrategy joins the short and long description regions, with
// the related-articles trailer truncated from the long part.
type descriptionStrategy struct {
	sel  *Selectors
	opts Options
}

func (s *descriptionStrategy) Name() string { return "description" }

func (s *descriptionStrategy) Extract(doc *goquery.Document) string {
	var parts []string

	short := normalize.CleanText(doc.Find(s.sel.Article.ShortDesc).First().Text(), s.opts.TrimNBSP, s.opts.CollapseSpaces)
	if short != "" {
		parts = append(parts, short)
	}

	long := strings.TrimSpace(doc.Find(s.sel.Article.LongDesc).First().Text())
	long = normalize.TruncateAt(long, s.sel.Article.RelatedMarker)
	long = normalize.CleanText(long, s.opts.TrimNBSP, s.opts.CollapseSpaces)
	if long != "" {
		parts = append(parts, long)
	}

	return strings.Join(parts, "\n\n")
}

// fallbackStrategy collects generic paragraph text when the description
// regions are absent.
type fallbackStrategy struct {
	sel  *Selectors
	opts Options
}

func (s *fallbackStrategy) Name() string { return "fallback" }

func (s *fallbackStrategy) Extract(doc *goquery.Document) string {
	var paragraphs []string
	for _, selector := range s.sel.Article.BodyFallbacks {
		doc.Find(selector).Each(func(i int, sel *goquery.Selection) {
			text := normalize.CleanText(sel.Text(), s.opts.TrimNBSP, s.opts.CollapseSpaces)
			if text != "" {
				paragraphs = append(paragraphs, text)
			}
		})
	}
	return strings.Join(paragraphs, "\n")
}
