// Package vocabulary provides the fixed word list that prefixes are matched against.
package vocabulary

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed words.txt
var embeddedWords string

// Vocabulary is an immutable, ordered list of known English words.
type Vocabulary struct {
	words []string
	lower []string
}

// New creates a Vocabulary from words, keeping their order.
func New(words []string) *Vocabulary {
	copied := make([]string, len(words))
	lower := make([]string, len(words))
	for i, word := range words {
		copied[i] = word
		lower[i] = strings.ToLower(word)
	}
	return &Vocabulary{
		words: copied,
		lower: lower,
	}
}

// Default returns the vocabulary bundled with the binary.
func Default() *Vocabulary {
	vocabulary, err := Parse(strings.NewReader(embeddedWords))
	if err != nil {
		panic(fmt.Errorf("embedded vocabulary is broken: %w", err))
	}
	return vocabulary
}

// Load reads a word list file. An empty path returns the bundled vocabulary.
func Load(path string) (*Vocabulary, error) {
	if path == "" {
		return Default(), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	vocabulary, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("Parse(%s) > %w", path, err)
	}
	return vocabulary, nil
}

// Parse reads one word per line. Blank lines and lines starting with # are skipped.
func Parse(r io.Reader) (*Vocabulary, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner.Scan() > %w", err)
	}
	return New(words), nil
}

// Match returns the words whose lowercase form starts with the lowercase prefix,
// in vocabulary order. Callers reject blank prefixes before calling it.
func (v *Vocabulary) Match(prefix string) []string {
	lowerPrefix := strings.ToLower(prefix)
	matched := make([]string, 0)
	for i, lowerWord := range v.lower {
		if strings.HasPrefix(lowerWord, lowerPrefix) {
			matched = append(matched, v.words[i])
		}
	}
	return matched
}

// Len returns the number of words.
func (v *Vocabulary) Len() int {
	return len(v.words)
}

// Words returns a copy of all words in order.
func (v *Vocabulary) Words() []string {
	result := make([]string, len(v.words))
	copy(result, v.words)
	return result
}
