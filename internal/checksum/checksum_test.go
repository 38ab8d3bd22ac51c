package checksum

import (
	"testing"
	"time"
)

func TestContentHash(t *testing.T) {
	gen := NewGenerator()

	url := "https://www.aljadeed.tv/news/123"
	title := "عنوان الخبر"
	body := "نص الخبر"
	publishedAt := time.Date(2025, 11, 18, 13, 57, 0, 0, time.Local)

	hash1 := gen.ContentHash(url, title, body, publishedAt)
	hash2 := gen.ContentHash(url, title, body, publishedAt)

	if hash1 != hash2 {
		t.Errorf("Hash not deterministic: %s != %s", hash1, hash2)
	}

	if len(hash1) != 64 {
		t.Errorf("Hash wrong length: %d, expected 64", len(hash1))
	}

	hash3 := gen.ContentHash(url, "عنوان آخر", body, publishedAt)
	if hash1 == hash3 {
		t.Errorf("Hash should change when title changes")
	}

	// absent published time hashes differently from a set one
	hash4 := gen.ContentHash(url, title, body, time.Time{})
	if hash1 == hash4 {
		t.Errorf("Hash should change when published time is absent")
	}
}

func TestVerifyContentHash(t *testing.T) {
	gen := NewGenerator()

	url := "https://www.aljadeed.tv/news/123"
	title := "عنوان الخبر"
	body := "نص الخبر"
	publishedAt := time.Date(2025, 11, 18, 13, 57, 0, 0, time.Local)

	hash := gen.ContentHash(url, title, body, publishedAt)

	if !gen.VerifyContentHash(hash, url, title, body, publishedAt) {
		t.Errorf("VerifyContentHash failed for correct data")
	}

	if gen.VerifyContentHash(hash, url, "عنوان آخر", body, publishedAt) {
		t.Errorf("VerifyContentHash should fail for wrong title")
	}
}
