package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	pipeRe  = regexp.MustCompile(`\s*\|\s*`)
	spaceRe = regexp.MustCompile(`\s+`)

	// "18.11.2025 13:57", "18/11/2025" and the month-first variants
	numericRe = regexp.MustCompile(`^(\d{1,2})[./](\d{1,2})[./](\d{4})(?:\s+(\d{1,2}):(\d{2}))?$`)
)

// Year-first layouts are unambiguous and tried first. Times on the site are
// naive local timestamps, so everything parses in the local location.
var layouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006/01/02 15:04",
	"2006/01/02",
}

// ParseInstant converts loosely formatted timestamp text such as
// "2025-11-18 | 13:57" into a time. It never fails the caller: unparseable
// input returns ok=false and the crawl treats the timestamp as absent.
func ParseInstant(raw string, dayFirst bool) (time.Time, bool) {
	cleaned := pipeRe.ReplaceAllString(raw, " ")
	cleaned = strings.TrimSpace(spaceRe.ReplaceAllString(cleaned, " "))
	if cleaned == "" {
		return time.Time{}, false
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, cleaned, time.Local); err == nil {
			return t, true
		}
	}

	if m := numericRe.FindStringSubmatch(cleaned); m != nil {
		first, _ := parseIntSafe(m[1])
		second, _ := parseIntSafe(m[2])
		year, _ := parseIntSafe(m[3])

		day, month := second, first
		if dayFirst {
			day, month = first, second
		}
		if day < 1 || day > 31 || month < 1 || month > 12 {
			return time.Time{}, false
		}

		hour, minute := 0, 0
		if m[4] != "" {
			hour, _ = parseIntSafe(m[4])
			minute, _ = parseIntSafe(m[5])
			if hour > 23 || minute > 59 {
				return time.Time{}, false
			}
		}

		return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.Local), true
	}

	return time.Time{}, false
}

// ParseCutoff parses the caller-supplied cutoff instant. Unlike scraped
// timestamps this is operator input, so failure is an error.
func ParseCutoff(raw string, dayFirst bool) (time.Time, error) {
	t, ok := ParseInstant(raw, dayFirst)
	if !ok {
		return time.Time{}, fmt.Errorf("unable to parse datetime: %q", raw)
	}
	return t, nil
}

// CleanText normalizes whitespace in extracted text.
func CleanText(text string, trimNBSP, collapseSpaces bool) string {
	if trimNBSP {
		text = strings.ReplaceAll(text, "\u00A0", " ")
	}
	if collapseSpaces {
		text = spaceRe.ReplaceAllString(text, " ")
	}
	return strings.TrimSpace(text)
}

// TruncateAt cuts text at the first occurrence of marker. Used to drop the
// related-articles trailer from article bodies.
func TruncateAt(text, marker string) string {
	if marker == "" {
		return text
	}
	if idx := strings.Index(text, marker); idx > -1 {
		return strings.TrimSpace(text[:idx])
	}
	return text
}

func parseIntSafe(s string) (int, error) {
	var result int
	_, err := fmt.Sscanf(s, "%d", &result)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %q as int: %w", s, err)
	}
	return result, nil
}
