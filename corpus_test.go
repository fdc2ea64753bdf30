package main

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNewCorpusNormalizesAndFilters(t *testing.T) {
	corpus, err := newCorpus([]string{" Testing ", "GO", "it", "WINDOW", "window", ""})
	if err != nil {
		t.Fatalf("newCorpus: %v", err)
	}

	if corpus.Size() != 2 {
		t.Fatalf("expected 2 usable entries, got %d", corpus.Size())
	}
	if !corpus.Contains("testing") || !corpus.Contains("TESTING") {
		t.Fatalf("expected case-insensitive membership for %q", "testing")
	}
	if corpus.Contains("go") {
		t.Fatalf("expected entries shorter than %d to be dropped", tokenLength)
	}
}

func TestNewCorpusRejectsEmptyList(t *testing.T) {
	if _, err := newCorpus([]string{"a", "b", ""}); err == nil {
		t.Fatalf("expected an error for a corpus with no usable entries")
	}
}

func TestSampleTokenIsPrefixOfCorpusEntry(t *testing.T) {
	words := []string{"testing", "window", "message", "keyboard"}
	corpus, err := newCorpus(words)
	if err != nil {
		t.Fatalf("newCorpus: %v", err)
	}

	for i := 0; i < 100; i++ {
		token := corpus.SampleToken()
		if len(token) != tokenLength {
			t.Fatalf("expected token of length %d, got %q", tokenLength, token)
		}

		found := false
		for _, w := range words {
			if strings.HasPrefix(w, token) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("token %q is not a prefix of any corpus entry", token)
		}
	}
}

func TestCorpusHandlesMultibyteWords(t *testing.T) {
	words := []string{"ñé", "héé", "mañana"}
	corpus, err := newCorpus(words)
	if err != nil {
		t.Fatalf("newCorpus: %v", err)
	}

	if corpus.Size() != 2 {
		t.Fatalf("expected the 2-rune entry dropped, got %d entries", corpus.Size())
	}
	if corpus.Contains("ñé") {
		t.Fatalf("expected %q dropped for being shorter than %d runes", "ñé", tokenLength)
	}

	for i := 0; i < 50; i++ {
		token := corpus.SampleToken()
		if !utf8.ValidString(token) {
			t.Fatalf("token %q is not valid UTF-8", token)
		}
		if got := utf8.RuneCountInString(token); got != tokenLength {
			t.Fatalf("expected %d-rune token, got %q (%d runes)", tokenLength, token, got)
		}

		found := false
		for _, w := range words {
			if strings.HasPrefix(w, token) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("token %q is not a prefix of any corpus entry", token)
		}
	}
}

func TestLoadCorpusEmbeddedDefault(t *testing.T) {
	corpus, err := loadCorpus("")
	if err != nil {
		t.Fatalf("loadCorpus: %v", err)
	}
	if corpus.Size() == 0 {
		t.Fatalf("expected the embedded word list to be non-empty")
	}
	if token := corpus.SampleToken(); len(token) != tokenLength {
		t.Fatalf("expected a %d-char token from the embedded list, got %q", tokenLength, token)
	}
}
