package filter

import (
	"sort"
	"unicode/utf8"

	"github.com/at-ishikawa/wordmemo/internal/analysis"
	"github.com/at-ishikawa/wordmemo/internal/learning"
)

// WordSet is the set of words that pass the current criteria.
type WordSet map[string]struct{}

func (s WordSet) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// Sorted returns the members in ascending order.
func (s WordSet) Sorted() []string {
	words := make([]string, 0, len(s))
	for word := range s {
		words = append(words, word)
	}
	sort.Strings(words)
	return words
}

// Matches reports whether one word detail passes the criteria.
func Matches(detail analysis.WordDetail, criteria Criteria, statuses learning.StatusMap) bool {
	if criteria.PartOfSpeech != All && detail.Grammar.PartOfSpeech != criteria.PartOfSpeech {
		return false
	}
	if !criteria.WordLength.Contains(utf8.RuneCountInString(detail.Word)) {
		return false
	}
	if criteria.LearningStatus != All && string(statuses.Get(detail.Word)) != criteria.LearningStatus {
		return false
	}
	return true
}

// VisibleWords returns the words of result that pass criteria. A nil result
// has no visible words.
func VisibleWords(result *analysis.Result, criteria Criteria, statuses learning.StatusMap) WordSet {
	visible := WordSet{}
	for _, word := range result.Words() {
		detail, _ := result.Detail(word)
		if Matches(detail, criteria, statuses) {
			visible[word] = struct{}{}
		}
	}
	return visible
}

// VisibleWordsInOrder lists the visible words in analysis order.
func VisibleWordsInOrder(result *analysis.Result, visible WordSet) []string {
	words := []string{}
	for _, word := range result.Words() {
		if visible.Contains(word) {
			words = append(words, word)
		}
	}
	return words
}

// PartsOfSpeech returns the distinct parts of speech of result, ascending.
func PartsOfSpeech(result *analysis.Result) []string {
	seen := map[string]struct{}{}
	parts := []string{}
	for _, word := range result.Words() {
		detail, _ := result.Detail(word)
		pos := detail.Grammar.PartOfSpeech
		if _, ok := seen[pos]; ok {
			continue
		}
		seen[pos] = struct{}{}
		parts = append(parts, pos)
	}
	sort.Strings(parts)
	return parts
}

// intersect keeps the group words that are analyzed and visible, preserving
// the group order. The source slice is never modified.
func intersect(result *analysis.Result, words []string, visible WordSet) []string {
	kept := []string{}
	for _, word := range words {
		if _, ok := result.Detail(word); !ok {
			continue
		}
		if visible.Contains(word) {
			kept = append(kept, word)
		}
	}
	return kept
}

// VisibleMeaningGroups projects the meaning groups onto the visible words.
// Groups without any visible word are omitted.
func VisibleMeaningGroups(result *analysis.Result, visible WordSet) []analysis.MeaningGroup {
	groups := []analysis.MeaningGroup{}
	if result == nil {
		return groups
	}
	for _, group := range result.GroupsByMeaning {
		words := intersect(result, group.Words, visible)
		if len(words) == 0 {
			continue
		}
		groups = append(groups, analysis.MeaningGroup{
			GroupName: group.GroupName,
			Words:     words,
		})
	}
	return groups
}

// VisiblePronunciationGroups projects the pronunciation groups onto the visible words.
func VisiblePronunciationGroups(result *analysis.Result, visible WordSet) []analysis.PronunciationGroup {
	groups := []analysis.PronunciationGroup{}
	if result == nil {
		return groups
	}
	for _, group := range result.GroupsByPronunciation {
		words := intersect(result, group.Words, visible)
		if len(words) == 0 {
			continue
		}
		groups = append(groups, analysis.PronunciationGroup{
			SoundDescription: group.SoundDescription,
			IPA:              group.IPA,
			Words:            words,
		})
	}
	return groups
}
