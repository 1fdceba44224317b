package analysis

import (
	"log/slog"

	"github.com/oklog/ulid/v2"
)

type Bilingual struct {
	English string `json:"english"`
	Chinese string `json:"chinese"`
}

type UsageExample = Bilingual

type RelatedWord struct {
	Word               string `json:"word"`
	ChineseTranslation string `json:"chineseTranslation"`
}

type GrammarForm struct {
	FormName string `json:"formName"`
	Value    string `json:"value"`
}

type Grammar struct {
	PartOfSpeech string        `json:"partOfSpeech"`
	Forms        []GrammarForm `json:"forms"`
}

// WordDetail is the analysis of one requested word.
type WordDetail struct {
	Word               string         `json:"word" validate:"required"`
	EnglishDefinition  string         `json:"englishDefinition"`
	ChineseTranslation string         `json:"chineseTranslation"`
	UsageExamples      []UsageExample `json:"usageExamples"`
	Derivatives        []RelatedWord  `json:"derivatives"`
	VowelSwaps         []RelatedWord  `json:"vowelSwaps"`
	Grammar            Grammar        `json:"grammar"`
}

type MeaningGroup struct {
	GroupName Bilingual `json:"groupName"`
	Words     []string  `json:"words"`
}

type PronunciationGroup struct {
	SoundDescription string   `json:"soundDescription"`
	IPA              string   `json:"ipa"`
	Words            []string `json:"words"`
}

// Result is one complete analysis. It is built once by Parse and never
// modified afterwards; a new analysis replaces it as a whole.
type Result struct {
	ID     ulid.ULID `json:"id"`
	Prefix string    `json:"prefix"`
	Model  string    `json:"model,omitempty"`

	MemoryStory           Bilingual            `json:"memoryStory"`
	GroupsByMeaning       []MeaningGroup       `json:"groupsByMeaning"`
	GroupsByPronunciation []PronunciationGroup `json:"groupsByPronunciation"`
	WordDetails           []WordDetail         `json:"wordDetails" validate:"dive"`

	index map[string]int
	words []string
}

// buildIndex maps each word to its detail. When a word appears more than
// once the last entry wins and a warning is logged.
func (r *Result) buildIndex() {
	r.index = make(map[string]int, len(r.WordDetails))
	r.words = make([]string, 0, len(r.WordDetails))
	for i, detail := range r.WordDetails {
		if _, ok := r.index[detail.Word]; ok {
			slog.Default().Warn("duplicate word in analysis, keeping the last entry",
				"analysisId", r.ID.String(),
				"word", detail.Word,
			)
		} else {
			r.words = append(r.words, detail.Word)
		}
		r.index[detail.Word] = i
	}
}

// Detail looks up a word. Words referenced by groups but missing from the
// details are reported as absent.
func (r *Result) Detail(word string) (WordDetail, bool) {
	if r == nil {
		return WordDetail{}, false
	}
	i, ok := r.index[word]
	if !ok {
		return WordDetail{}, false
	}
	return r.WordDetails[i], true
}

// Words returns the distinct analyzed words in the order they first appear.
func (r *Result) Words() []string {
	if r == nil {
		return nil
	}
	words := make([]string, len(r.words))
	copy(words, r.words)
	return words
}

// Len is the number of distinct analyzed words.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.words)
}
