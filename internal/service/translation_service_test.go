package service

import (
	"context"
	"testing"

	"github.com/ryoshumei/intelliquest/config"
)

func newOfflineTranslator(t *testing.T) Translator {
	t.Helper()
	svc, err := NewTranslationService(&config.Config{})
	if err != nil {
		t.Fatalf("NewTranslationService: %v", err)
	}
	return svc
}

func TestTranslateBatchWithoutClientKeepsOriginals(t *testing.T) {
	svc := newOfflineTranslator(t)
	texts := []string{"hello", "world"}
	out, err := svc.TranslateBatch(context.Background(), texts, "ja")
	if err != nil {
		t.Fatalf("TranslateBatch: %v", err)
	}
	if len(out) != 2 || out[0] != "hello" || out[1] != "world" {
		t.Fatalf("expected passthrough, got %v", out)
	}
}

func TestIsTranslationNeeded(t *testing.T) {
	svc := newOfflineTranslator(t)
	cases := []struct {
		src, dst string
		want     bool
	}{
		{"en", "ja", true},
		{"en", "en", false},
		{"en-US", "en", false},
		{"zh_CN", "zh", false},
		{"JA", "ja", false},
		{"", "ja", false},
		{"en", "", false},
	}
	for _, c := range cases {
		if got := svc.IsTranslationNeeded(c.src, c.dst); got != c.want {
			t.Errorf("IsTranslationNeeded(%q, %q) = %v, want %v", c.src, c.dst, got, c.want)
		}
	}
}

func TestGetSupportedLanguagesIsCopy(t *testing.T) {
	svc := newOfflineTranslator(t)
	langs := svc.GetSupportedLanguages()
	if len(langs) == 0 {
		t.Fatalf("expected supported languages")
	}
	langs[0] = "xx"
	if svc.GetSupportedLanguages()[0] == "xx" {
		t.Fatalf("caller mutation leaked into the service")
	}
}

func TestNormalizeLang(t *testing.T) {
	cases := map[string]string{
		"en-US":  "en",
		"zh_CN":  "zh",
		"  JA  ": "ja",
		"fr":     "fr",
		"":       "",
	}
	for in, want := range cases {
		if got := normalizeLang(in); got != want {
			t.Errorf("normalizeLang(%q) = %q, want %q", in, got, want)
		}
	}
}
