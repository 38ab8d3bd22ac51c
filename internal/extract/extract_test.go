package extract

import (
	"strings"
	"testing"
)

func testSelectors() *Selectors {
	return &Selectors{
		Feed: FeedSelectors{
			Item:         ".card__item",
			Time:         ".card-date",
			Link:         ".card-title a",
			LoadMoreText: "المزيد",
		},
		Article: ArticleSelectors{
			Heading:       "h1",
			ShortDesc:     "#lblShortDesc",
			LongDesc:      ".LongDesc",
			RelatedMarker: "مقالات ذات صلة",
			BodyFallbacks: []string{"article p", ".news-body p"},
			Categories:    []string{"محليات", "رياضة", "إقتصاد"},
		},
	}
}

func testExtractor() *Extractor {
	return NewExtractor(testSelectors(), Options{TrimNBSP: true, CollapseSpaces: true})
}

func TestBodyFallbackOrder(t *testing.T) {
	// both description regions and generic paragraphs present: the
	// description strategy must win
	html := `
		<html><body>
			<h1>عنوان الخبر</h1>
			<span id="lblShortDesc">الوصف القصير</span>
			<div class="LongDesc">الوصف الطويل مقالات ذات صلة خبر آخر</div>
			<article><p>فقرة احتياطية</p></article>
		</body></html>`

	content, err := testExtractor().Extract(html)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := "الوصف القصير\n\nالوصف الطويل"
	if content.Body != want {
		t.Errorf("Body = %q, want %q", content.Body, want)
	}
	if strings.Contains(content.Body, "فقرة احتياطية") {
		t.Errorf("generic fallback leaked into body: %q", content.Body)
	}
	if content.NotificationOnly {
		t.Errorf("NotificationOnly should be false when a body was extracted")
	}
}

func TestBodyGenericFallback(t *testing.T) {
	html := `
		<html><body>
			<h1>عنوان</h1>
			<article><p>الفقرة الأولى</p><p>الفقرة الثانية</p></article>
		</body></html>`

	content, err := testExtractor().Extract(html)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := "الفقرة الأولى\nالفقرة الثانية"
	if content.Body != want {
		t.Errorf("Body = %q, want %q", content.Body, want)
	}
}

func TestNotificationOnly(t *testing.T) {
	content, err := testExtractor().Extract(`<html><body><h1>عنوان فقط</h1></body></html>`)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !content.NotificationOnly {
		t.Errorf("NotificationOnly should be true when no body text was found")
	}
	if content.Title != "عنوان فقط" {
		t.Errorf("Title = %q", content.Title)
	}
}

func TestMissingTitleDoesNotFail(t *testing.T) {
	content, err := testExtractor().Extract(`<html><body><article><p>نص</p></article></body></html>`)
	if err != nil {
		t.Fatalf("Extract should not fail on missing title: %v", err)
	}
	if content.Title != "" {
		t.Errorf("Title should be empty, got %q", content.Title)
	}
	if content.Body == "" {
		t.Errorf("Body should still be extracted")
	}
}

func TestCategoryExactMatch(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			"exact match wins",
			`<a href="/x">الرئيسية</a><a href="/sport">رياضة</a>`,
			"رياضة",
		},
		{
			"substring must not match",
			`<a href="/sport">رياضة محلية</a>`,
			"",
		},
		{
			"first match in document order",
			`<a href="/a">إقتصاد</a><a href="/b">محليات</a>`,
			"إقتصاد",
		},
		{
			"no links",
			`<p>رياضة</p>`,
			"",
		},
	}

	for _, tt := range tests {
		content, err := testExtractor().Extract("<html><body>" + tt.html + "</body></html>")
		if err != nil {
			t.Fatalf("%s: Extract failed: %v", tt.name, err)
		}
		if content.Category != tt.want {
			t.Errorf("%s: Category = %q, want %q", tt.name, content.Category, tt.want)
		}
	}
}

func TestPublishedTimeScan(t *testing.T) {
	html := `
		<html><body>
			<h1>عنوان</h1>
			<span class="date">2025-11-18 | 13:57</span>
		</body></html>`

	content, err := testExtractor().Extract(html)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !content.PublishedOK {
		t.Fatalf("published time should have been parsed, raw=%q", content.PublishedRaw)
	}
	if got := content.PublishedAt.Format("2006-01-02T15:04"); got != "2025-11-18T13:57" {
		t.Errorf("PublishedAt = %s, want 2025-11-18T13:57", got)
	}
}

func TestPublishedTimeAbsent(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"no separator", `<span>2025-11-18 13:57</span>`},
		{"separator without date", `<span>قسم | آخر</span>`},
		{"nothing", `<p>نص عادي</p>`},
	}

	for _, tt := range tests {
		content, err := testExtractor().Extract("<html><body>" + tt.html + "</body></html>")
		if err != nil {
			t.Fatalf("%s: Extract failed: %v", tt.name, err)
		}
		if content.PublishedOK {
			t.Errorf("%s: published time should be absent, got %v", tt.name, content.PublishedAt)
		}
	}
}

func TestListFeedItems(t *testing.T) {
	html := `
		<html><body>
			<div class="card__item">
				<span class="card-date">13:57</span>
				<div class="card-title"><a href="https://www.aljadeed.tv/news/1#top">خبر أول</a></div>
			</div>
			<div class="card__item">
				<span class="card-date"></span>
				<div class="card-title"><a href="https://www.aljadeed.tv/news/2">خبر ثان</a></div>
			</div>
			<div class="card__item">
				<div class="card-title">بدون رابط</div>
			</div>
		</body></html>`

	items, err := testExtractor().ListFeedItems(html)
	if err != nil {
		t.Fatalf("ListFeedItems failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items (linkless one dropped), got %d", len(items))
	}
	if items[0].URL != "https://www.aljadeed.tv/news/1" {
		t.Errorf("anchor fragment should be stripped, got %q", items[0].URL)
	}
	if items[0].TimeRaw != "13:57" || items[0].Title != "خبر أول" {
		t.Errorf("item fields wrong: %+v", items[0])
	}
	if items[1].TimeRaw != "" {
		t.Errorf("missing preview time should be empty, got %q", items[1].TimeRaw)
	}
}
