package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/wordmemo/internal/inference"
)

// Analyzer turns a list of matched words into a Result with one AI request.
type Analyzer struct {
	client  inference.Client
	cache   *FileCache
	refresh bool
}

type AnalyzerOption func(*Analyzer)

// WithCache serves repeated prefixes from cache instead of the AI backend.
func WithCache(cache *FileCache) AnalyzerOption {
	return func(a *Analyzer) {
		a.cache = cache
	}
}

// WithRefresh ignores cached entries but still writes fresh ones.
func WithRefresh(refresh bool) AnalyzerOption {
	return func(a *Analyzer) {
		a.refresh = refresh
	}
}

func NewAnalyzer(client inference.Client, options ...AnalyzerOption) *Analyzer {
	analyzer := &Analyzer{client: client}
	for _, option := range options {
		option(analyzer)
	}
	return analyzer
}

// Analyze sends a single request. Every failure is returned as *AIResponseError.
func (a *Analyzer) Analyze(ctx context.Context, words []string, prefix string) (*Result, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("no words to analyze for prefix %q", prefix)
	}

	if result, ok := a.readCache(words, prefix); ok {
		return result, nil
	}

	response, err := a.client.AnalyzeWords(ctx, inference.AnalyzeWordsRequest{
		Prefix: prefix,
		Words:  words,
	})
	if err != nil {
		slog.Default().Error("AI analysis request failed",
			"prefix", prefix,
			"wordCount", len(words),
			"error", err,
		)
		return nil, &AIResponseError{Prefix: prefix, Err: fmt.Errorf("client.AnalyzeWords > %w", err)}
	}

	result, err := Parse([]byte(response.Content), words, prefix)
	if err != nil {
		slog.Default().Error("invalid AI analysis response",
			"prefix", prefix,
			"model", response.Model,
			"error", err,
		)
		slog.Default().Debug("rejected AI analysis content", "content", response.Content)
		return nil, &AIResponseError{Prefix: prefix, Err: fmt.Errorf("Parse > %w", err)}
	}
	result.Model = response.Model

	if a.cache != nil {
		if err := a.cache.Write(prefix, []byte(response.Content)); err != nil {
			slog.Default().Warn("failed to cache analysis", "prefix", prefix, "error", err)
		}
	}
	slog.Default().Info("analysis completed",
		"analysisId", result.ID.String(),
		"prefix", prefix,
		"words", result.Len(),
	)
	return result, nil
}

func (a *Analyzer) readCache(words []string, prefix string) (*Result, bool) {
	if a.cache == nil || a.refresh {
		return nil, false
	}
	content, ok, err := a.cache.Read(prefix)
	if err != nil {
		slog.Default().Warn("failed to read cached analysis", "prefix", prefix, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	result, err := Parse(content, words, prefix)
	if err != nil {
		slog.Default().Warn("dropping invalid cached analysis", "prefix", prefix, "error", err)
		if err := a.cache.Delete(prefix); err != nil {
			slog.Default().Warn("failed to delete cached analysis", "prefix", prefix, "error", err)
		}
		return nil, false
	}
	result.Model = "cache"
	slog.Default().Debug("analysis served from cache", "prefix", prefix)
	return result, true
}
