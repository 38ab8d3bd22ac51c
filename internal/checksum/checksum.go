package checksum

import (
	"crypto/sha256"
	"fmt"
	"time"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// ContentHash returns SHA256(url|title|body|published_iso_minute). An
// absent published time hashes as an empty field.
func (g *Generator) ContentHash(url, title, body string, publishedAt time.Time) string {
	publishedISO := ""
	if !publishedAt.IsZero() {
		publishedISO = publishedAt.Format("2006-01-02T15:04")
	}

	content := fmt.Sprintf("%s|%s|%s|%s", url, title, body, publishedISO)
	hash := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%x", hash)
}

// VerifyContentHash checks that the stored hash matches the content.
func (g *Generator) VerifyContentHash(expectedHash, url, title, body string, publishedAt time.Time) bool {
	return g.ContentHash(url, title, body, publishedAt) == expectedHash
}
