package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go"

	"github.com/at-ishikawa/wordmemo/internal/analysis"
	"github.com/at-ishikawa/wordmemo/internal/filter"
	"github.com/at-ishikawa/wordmemo/internal/learning"
	"github.com/at-ishikawa/wordmemo/internal/speech"
	"github.com/at-ishikawa/wordmemo/internal/statistics"
	"github.com/at-ishikawa/wordmemo/internal/vocabulary"
)

// Analyzer produces a complete analysis for the matched words of a prefix.
type Analyzer interface {
	Analyze(ctx context.Context, words []string, prefix string) (*analysis.Result, error)
}

// Session holds the state behind every user-facing operation: the live
// analysis, the filter criteria and the pending request.
type Session struct {
	vocabulary *vocabulary.Vocabulary
	analyzer   Analyzer
	store      *learning.Store
	speaker    speech.Speaker
	retryDelay time.Duration

	mu       sync.Mutex
	result   *analysis.Result
	criteria filter.Criteria
	loading  bool
	sequence uint64
	lastErr  error
}

type Option func(*Session)

func WithSpeaker(speaker speech.Speaker) Option {
	return func(s *Session) {
		s.speaker = speaker
	}
}

// WithRetryDelay sets the base delay of SubmitPrefixWithRetry.
func WithRetryDelay(delay time.Duration) Option {
	return func(s *Session) {
		s.retryDelay = delay
	}
}

func New(vocab *vocabulary.Vocabulary, analyzer Analyzer, store *learning.Store, options ...Option) *Session {
	s := &Session{
		vocabulary: vocab,
		analyzer:   analyzer,
		store:      store,
		speaker:    speech.NopSpeaker{},
		retryDelay: time.Second,
		criteria:   filter.DefaultCriteria(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// SubmitPrefix matches prefix against the vocabulary and analyzes the
// matched words. Only one analysis runs at a time. A failed analysis keeps
// the previous result.
func (s *Session) SubmitPrefix(ctx context.Context, prefix string) (*analysis.Result, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, s.fail(vocabulary.EmptyPrefixError{})
	}

	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil, ErrAnalysisInProgress
	}
	words := s.vocabulary.Match(prefix)
	if len(words) == 0 {
		err := &vocabulary.NoMatchError{Prefix: prefix}
		s.result = nil
		s.lastErr = err
		s.mu.Unlock()
		return nil, err
	}
	s.loading = true
	s.sequence++
	sequence := s.sequence
	s.criteria = filter.DefaultCriteria()
	s.lastErr = nil
	s.mu.Unlock()

	slog.Default().Info("analyzing prefix", "prefix", prefix, "wordCount", len(words))
	result, err := s.analyzer.Analyze(ctx, words, prefix)

	s.mu.Lock()
	defer s.mu.Unlock()
	if sequence != s.sequence {
		slog.Default().Warn("discarding stale analysis", "prefix", prefix)
		return nil, fmt.Errorf("analysis for prefix %q was superseded", prefix)
	}
	s.loading = false
	if err != nil {
		s.lastErr = err
		return nil, err
	}
	s.result = result
	return result, nil
}

// SubmitPrefixWithRetry re-submits prefix up to retries more times while the
// analysis fails with *analysis.AIResponseError.
func (s *Session) SubmitPrefixWithRetry(ctx context.Context, prefix string, retries uint) (*analysis.Result, error) {
	var result *analysis.Result
	err := retry.Do(
		func() error {
			submitted, err := s.SubmitPrefix(ctx, prefix)
			if err != nil {
				return err
			}
			result = submitted
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(retries+1),
		retry.Delay(s.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var aiErr *analysis.AIResponseError
			return errors.As(err, &aiErr)
		}),
		retry.OnRetry(func(n uint, err error) {
			slog.Default().Warn("retrying analysis", "prefix", prefix, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Session) fail(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	return err
}

// Clear drops the current result and abandons any pending analysis; its
// response is discarded when it arrives.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = nil
	s.criteria = filter.DefaultCriteria()
	s.loading = false
	s.sequence++
	s.lastErr = nil
}

func (s *Session) Result() *analysis.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Session) Criteria() filter.Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// UpdateFilter changes one criterion; see filter.Criteria.ApplyUpdate.
func (s *Session) UpdateFilter(kind filter.Kind, value string) (filter.Criteria, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated, err := s.criteria.ApplyUpdate(kind, value)
	if err != nil {
		return s.criteria, err
	}
	s.criteria = updated
	return updated, nil
}

func (s *Session) SetCriteria(criteria filter.Criteria) error {
	if err := criteria.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = criteria
	return nil
}

func (s *Session) ResetFilters() filter.Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = filter.DefaultCriteria()
	return s.criteria
}

// SetWordStatus records the status of word. It is independent of any
// pending analysis.
func (s *Session) SetWordStatus(ctx context.Context, word string, status learning.LearningStatus) (learning.StatusMap, error) {
	return s.store.SetStatus(ctx, strings.TrimSpace(word), status)
}

func (s *Session) Statuses() learning.StatusMap {
	return s.store.Snapshot()
}

// Speak hands text to the speech capability and returns immediately.
func (s *Session) Speak(text, locale string) {
	s.speaker.Speak(text, locale)
}

// Vocabulary is the word source the session matches prefixes against.
func (s *Session) Vocabulary() *vocabulary.Vocabulary {
	return s.vocabulary
}

// View is a snapshot of everything a presentation layer renders.
type View struct {
	Result              *analysis.Result                   `json:"result"`
	Criteria            filter.Criteria                    `json:"criteria"`
	VisibleWords        []string                           `json:"visibleWords"`
	MeaningGroups       []analysis.MeaningGroup            `json:"meaningGroups"`
	PronunciationGroups []analysis.PronunciationGroup      `json:"pronunciationGroups"`
	PartsOfSpeech       []string                           `json:"partsOfSpeech"`
	Progress            statistics.Progress                `json:"progress"`
	Statuses            map[string]learning.LearningStatus `json:"statuses"`
	Loading             bool                               `json:"loading"`
	Error               string                             `json:"error,omitempty"`
}

// View derives the current snapshot. Everything is recomputed on each call.
func (s *Session) View() View {
	s.mu.Lock()
	result := s.result
	criteria := s.criteria
	loading := s.loading
	lastErr := s.lastErr
	s.mu.Unlock()

	statuses := s.store.Snapshot()
	visible := filter.VisibleWords(result, criteria, statuses)

	resultStatuses := make(map[string]learning.LearningStatus, result.Len())
	for _, word := range result.Words() {
		resultStatuses[word] = statuses.Get(word)
	}

	return View{
		Result:              result,
		Criteria:            criteria,
		VisibleWords:        filter.VisibleWordsInOrder(result, visible),
		MeaningGroups:       filter.VisibleMeaningGroups(result, visible),
		PronunciationGroups: filter.VisiblePronunciationGroups(result, visible),
		PartsOfSpeech:       filter.PartsOfSpeech(result),
		Progress:            statistics.Summarize(result, statuses),
		Statuses:            resultStatuses,
		Loading:             loading,
		Error:               UserMessage(lastErr),
	}
}
