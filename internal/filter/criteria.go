package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/at-ishikawa/wordmemo/internal/learning"
)

// All disables a criterion.
const All = "all"

const (
	DefaultMinLength = 0
	DefaultMaxLength = 99
)

// Range is an inclusive word length range counted in runes.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (r Range) Contains(n int) bool {
	return r.Min <= n && n <= r.Max
}

// Criteria selects the words shown from an analysis.
type Criteria struct {
	PartOfSpeech   string `json:"partOfSpeech"`
	WordLength     Range  `json:"wordLength"`
	LearningStatus string `json:"learningStatus"`
}

// DefaultCriteria shows every word.
func DefaultCriteria() Criteria {
	return Criteria{
		PartOfSpeech:   All,
		WordLength:     Range{Min: DefaultMinLength, Max: DefaultMaxLength},
		LearningStatus: All,
	}
}

func (c Criteria) Validate() error {
	if c.PartOfSpeech == "" {
		return fmt.Errorf("part of speech must not be empty, use %q to disable it", All)
	}
	if c.WordLength.Min < 0 || c.WordLength.Max < 0 {
		return fmt.Errorf("word length bounds must not be negative: %d-%d", c.WordLength.Min, c.WordLength.Max)
	}
	if c.WordLength.Min > c.WordLength.Max {
		return fmt.Errorf("minimum word length %d is greater than maximum %d", c.WordLength.Min, c.WordLength.Max)
	}
	if c.LearningStatus != All && !learning.LearningStatus(c.LearningStatus).Valid() {
		return fmt.Errorf("unknown learning status %q", c.LearningStatus)
	}
	return nil
}

// Kind names one adjustable criterion.
type Kind string

const (
	KindPartOfSpeech Kind = "pos"
	KindLength       Kind = "length"
	KindMinLength    Kind = "min"
	KindMaxLength    Kind = "max"
	KindStatus       Kind = "status"
)

var Kinds = []Kind{KindPartOfSpeech, KindLength, KindMinLength, KindMaxLength, KindStatus}

// ApplyUpdate returns a copy of c with one criterion changed. The receiver is
// never modified, and an invalid update leaves the caller's criteria intact.
func (c Criteria) ApplyUpdate(kind Kind, value string) (Criteria, error) {
	value = strings.TrimSpace(value)
	updated := c

	switch kind {
	case KindPartOfSpeech:
		updated.PartOfSpeech = value
	case KindLength:
		r, err := ParseRange(value)
		if err != nil {
			return c, err
		}
		updated.WordLength = r
	case KindMinLength:
		n, err := parseBound(value, DefaultMinLength)
		if err != nil {
			return c, err
		}
		updated.WordLength.Min = n
	case KindMaxLength:
		n, err := parseBound(value, DefaultMaxLength)
		if err != nil {
			return c, err
		}
		updated.WordLength.Max = n
	case KindStatus:
		if strings.EqualFold(value, All) {
			updated.LearningStatus = All
			break
		}
		status, err := learning.ParseStatus(value)
		if err != nil {
			return c, err
		}
		updated.LearningStatus = string(status)
	default:
		return c, fmt.Errorf("unknown filter kind %q, expected one of %v", kind, Kinds)
	}

	if err := updated.Validate(); err != nil {
		return c, err
	}
	return updated, nil
}

// ParseRange reads "min-max", "n" (exactly n) or "all".
func ParseRange(value string) (Range, error) {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, All) || value == "" {
		return Range{Min: DefaultMinLength, Max: DefaultMaxLength}, nil
	}

	minValue, maxValue, found := strings.Cut(value, "-")
	if !found {
		n, err := strconv.Atoi(value)
		if err != nil {
			return Range{}, fmt.Errorf("invalid word length %q", value)
		}
		return Range{Min: n, Max: n}, nil
	}

	lower, err := parseBound(minValue, DefaultMinLength)
	if err != nil {
		return Range{}, err
	}
	upper, err := parseBound(maxValue, DefaultMaxLength)
	if err != nil {
		return Range{}, err
	}
	return Range{Min: lower, Max: upper}, nil
}

// parseBound reads one bound. An empty value falls back to the default.
func parseBound(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid word length bound %q", value)
	}
	return n, nil
}

// Describe lists the active criteria as "kind=value" pairs.
func (c Criteria) Describe() []string {
	var active []string
	if c.PartOfSpeech != All {
		active = append(active, fmt.Sprintf("%s=%s", KindPartOfSpeech, c.PartOfSpeech))
	}
	if c.WordLength != (Range{Min: DefaultMinLength, Max: DefaultMaxLength}) {
		active = append(active, fmt.Sprintf("%s=%d-%d", KindLength, c.WordLength.Min, c.WordLength.Max))
	}
	if c.LearningStatus != All {
		active = append(active, fmt.Sprintf("%s=%s", KindStatus, c.LearningStatus))
	}
	return active
}
