package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/at-ishikawa/wordmemo/internal/analysis"
	"github.com/at-ishikawa/wordmemo/internal/config"
	"github.com/at-ishikawa/wordmemo/internal/database"
	"github.com/at-ishikawa/wordmemo/internal/inference"
	"github.com/at-ishikawa/wordmemo/internal/inference/anthropic"
	"github.com/at-ishikawa/wordmemo/internal/inference/gemini"
	"github.com/at-ishikawa/wordmemo/internal/inference/openai"
	"github.com/at-ishikawa/wordmemo/internal/learning"
	"github.com/at-ishikawa/wordmemo/internal/session"
	"github.com/at-ishikawa/wordmemo/internal/speech"
	"github.com/at-ishikawa/wordmemo/internal/vocabulary"
)

// NewStatusBackend opens the learning status storage selected by storage.backend.
func NewStatusBackend(ctx context.Context, cfg *config.Config) (learning.Backend, error) {
	switch cfg.Storage.Backend {
	case config.StorageYAML, "":
		return learning.NewYAMLBackend(cfg.Storage.StatusFile), nil
	case config.StorageSQLite:
		backend, err := learning.OpenSQLiteBackend(ctx, cfg.Storage.SQLiteFile)
		if err != nil {
			return nil, fmt.Errorf("learning.OpenSQLiteBackend(%s) > %w", cfg.Storage.SQLiteFile, err)
		}
		return backend, nil
	case config.StorageMySQL:
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("database.Open() > %w", err)
		}
		backend := learning.NewSQLBackend(db, learning.DialectMySQL)
		if err := backend.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("backend.Migrate() > %w", err)
		}
		return backend, nil
	case config.StorageMemory:
		return learning.NewMemoryBackend(nil), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// NewInferenceClient creates the client of the configured AI provider.
func NewInferenceClient(ctx context.Context, cfg *config.Config) (inference.Client, error) {
	if cfg.APIKey() == "" {
		return nil, fmt.Errorf("%s environment variable is required for the %s provider", cfg.APIKeyEnv(), cfg.AI.Provider)
	}

	switch cfg.AI.Provider {
	case config.ProviderOpenAI, "":
		return openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL), nil
	case config.ProviderGemini:
		client, err := gemini.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("gemini.NewClient() > %w", err)
		}
		return client, nil
	case config.ProviderAnthropic:
		if cfg.Anthropic.Model == "" {
			return nil, errors.New("anthropic.model is required for the anthropic provider")
		}
		return anthropic.NewClient(cfg.Anthropic.APIKey, cfg.Anthropic.Model, cfg.Anthropic.BaseURL, cfg.Anthropic.MaxTokens), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.AI.Provider)
	}
}

// NewAnalyzer wraps client with the analysis cache when cache.directory is set.
func NewAnalyzer(cfg *config.Config, client inference.Client, refresh bool) *analysis.Analyzer {
	options := []analysis.AnalyzerOption{analysis.WithRefresh(refresh)}
	if cfg.Cache.Directory != "" {
		options = append(options, analysis.WithCache(analysis.NewFileCache(cfg.Cache.Directory)))
	}
	return analysis.NewAnalyzer(client, options...)
}

// NewSpeaker returns a command speaker, or a no-op one when no command is configured.
func NewSpeaker(cfg *config.Config) speech.Speaker {
	if cfg.Speech.Command == "" {
		return speech.NopSpeaker{}
	}
	return speech.NewCommandSpeaker(
		cfg.Speech.Command,
		cfg.Speech.Args,
		time.Duration(cfg.Speech.TimeoutSeconds)*time.Second,
	)
}

// SessionOptions customizes NewSession.
type SessionOptions struct {
	// Refresh bypasses the analysis cache.
	Refresh bool
	// Client overrides the configured inference client.
	Client inference.Client
}

// NewSession assembles a session from cfg. Resources are released by the
// shutdown hooks registered on app.
func NewSession(ctx context.Context, app *App, cfg *config.Config, opts SessionOptions) (*session.Session, error) {
	vocab, err := vocabulary.Load(cfg.Vocabulary.File)
	if err != nil {
		return nil, fmt.Errorf("vocabulary.Load() > %w", err)
	}

	client := opts.Client
	if client == nil {
		client, err = NewInferenceClient(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("NewInferenceClient() > %w", err)
		}
	}
	if closer, ok := client.(interface{ Close() error }); ok {
		app.AddShutdownHook(func(ctx context.Context) error {
			return closer.Close()
		})
	}

	backend, err := NewStatusBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("NewStatusBackend() > %w", err)
	}
	store := learning.NewStore(backend)
	store.Load(ctx)
	app.AddShutdownHook(func(ctx context.Context) error {
		return store.Close()
	})

	speaker := NewSpeaker(cfg)
	if waiter, ok := speaker.(interface{ Wait() }); ok {
		app.AddShutdownHook(func(ctx context.Context) error {
			waiter.Wait()
			return nil
		})
	}

	slog.Default().Debug("session ready",
		"provider", cfg.AI.Provider,
		"storage", cfg.Storage.Backend,
		"vocabulary", vocab.Len(),
	)
	return session.New(vocab,
		NewAnalyzer(cfg, client, opts.Refresh),
		store,
		session.WithSpeaker(speaker),
	), nil
}
