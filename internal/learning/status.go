// Package learning provides per-word learning status tracking and its persistence.
package learning

import (
	"fmt"
	"sort"
	"strings"
)

// LearningStatus is the user-tracked mastery state of a word.
type LearningStatus string

const (
	StatusNotStarted LearningStatus = "Not Started"
	StatusLearning   LearningStatus = "Learning"
	StatusMastered   LearningStatus = "Mastered"
)

// Statuses lists every status in display order.
var Statuses = []LearningStatus{
	StatusNotStarted,
	StatusLearning,
	StatusMastered,
}

// Valid reports whether s is one of the three status literals.
func (s LearningStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusLearning, StatusMastered:
		return true
	}
	return false
}

func (s LearningStatus) String() string {
	return string(s)
}

// ParseStatus accepts the status literals case-insensitively,
// plus the hyphenated forms used on the command line.
func ParseStatus(value string) (LearningStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "not started", "not-started", "notstarted", "not_started":
		return StatusNotStarted, nil
	case "learning":
		return StatusLearning, nil
	case "mastered":
		return StatusMastered, nil
	}
	return "", fmt.Errorf("unknown learning status %q (want one of %q, %q, %q)",
		value, StatusNotStarted, StatusLearning, StatusMastered)
}

// StatusMap maps a word to its learning status.
// Entries may reference words that are not part of the current analysis.
type StatusMap map[string]LearningStatus

// Get returns the status of word, or StatusNotStarted when none was recorded.
func (m StatusMap) Get(word string) LearningStatus {
	if status, ok := m[word]; ok {
		return status
	}
	return StatusNotStarted
}

// Clone returns an independent copy.
func (m StatusMap) Clone() StatusMap {
	cloned := make(StatusMap, len(m))
	for word, status := range m {
		cloned[word] = status
	}
	return cloned
}

// SortedWords returns the recorded words in ascending order.
func (m StatusMap) SortedWords() []string {
	words := make([]string, 0, len(m))
	for word := range m {
		words = append(words, word)
	}
	sort.Strings(words)
	return words
}

func (m StatusMap) validate() error {
	for word, status := range m {
		if word == "" {
			return fmt.Errorf("empty word in status map")
		}
		if !status.Valid() {
			return fmt.Errorf("invalid status %q for word %q", status, word)
		}
	}
	return nil
}
