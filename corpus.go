package main

import (
	"bufio"
	"crypto/rand"
	_ "embed"
	"errors"
	"math/big"
	"os"
	"strings"
	"unicode/utf8"
)

// tokenLength is the number of leading characters of a sampled corpus
// entry handed to players as the current challenge.
const tokenLength = 3

//go:embed guesstheword/words.txt
var embeddedWords string

// Corpus is the immutable word list used to generate challenge tokens and,
// under strict validation, to check submitted guesses. Entries shorter than
// tokenLength runes are dropped at load time so every token is exactly
// tokenLength runes long.
type Corpus struct {
	words []string
	set   map[string]struct{}
}

// loadCorpus reads one word per line from path, or falls back to the
// embedded default list when path is empty.
func loadCorpus(path string) (*Corpus, error) {
	var lines []string

	if path == "" {
		lines = strings.Split(embeddedWords, "\n")
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	return newCorpus(lines)
}

func newCorpus(lines []string) (*Corpus, error) {
	c := &Corpus{
		set: make(map[string]struct{}, len(lines)),
	}

	for _, line := range lines {
		word := strings.ToLower(strings.TrimSpace(line))
		if utf8.RuneCountInString(word) < tokenLength {
			continue
		}
		if _, exists := c.set[word]; exists {
			continue
		}
		c.set[word] = struct{}{}
		c.words = append(c.words, word)
	}

	if len(c.words) == 0 {
		return nil, errors.New("corpus: word list is empty")
	}

	return c, nil
}

// Contains reports whether word is a corpus member, case-insensitively.
func (c *Corpus) Contains(word string) bool {
	_, ok := c.set[strings.ToLower(word)]
	return ok
}

// SampleToken picks one corpus entry uniformly at random and returns its
// first tokenLength characters. Sampling is uniform over entries, not over
// token values, so common prefixes come up more often.
func (c *Corpus) SampleToken() string {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(len(c.words))))
	if err != nil {
		// crypto/rand only fails if the platform entropy source is broken;
		// the first entry keeps the game running.
		return tokenPrefix(c.words[0])
	}
	return tokenPrefix(c.words[nBig.Int64()])
}

// tokenPrefix returns the first tokenLength runes of word, never splitting
// a multibyte rune. Corpus entries are pre-filtered to at least
// tokenLength runes.
func tokenPrefix(word string) string {
	seen := 0
	for i := range word {
		if seen == tokenLength {
			return word[:i]
		}
		seen++
	}
	return word
}

// Size returns the number of usable corpus entries.
func (c *Corpus) Size() int {
	return len(c.words)
}
