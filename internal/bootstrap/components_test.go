package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/wordmemo/internal/config"
	"github.com/at-ishikawa/wordmemo/internal/inference"
	"github.com/at-ishikawa/wordmemo/internal/inference/anthropic"
	"github.com/at-ishikawa/wordmemo/internal/inference/openai"
	"github.com/at-ishikawa/wordmemo/internal/learning"
	mock_inference "github.com/at-ishikawa/wordmemo/internal/mocks/inference"
	"github.com/at-ishikawa/wordmemo/internal/speech"
	"github.com/at-ishikawa/wordmemo/internal/testutil"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		AI:        config.AIConfig{Provider: config.ProviderOpenAI},
		OpenAI:    config.OpenAIConfig{Model: "gpt-4o-mini"},
		Anthropic: config.AnthropicConfig{MaxTokens: 16384},
		Storage: config.StorageConfig{
			Backend:    config.StorageYAML,
			StatusFile: filepath.Join(dir, "statuses.yml"),
			SQLiteFile: filepath.Join(dir, "wordmemo.db"),
		},
	}
}

func TestNewStatusBackend(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		want    any
		wantErr bool
	}{
		{name: "yaml", backend: config.StorageYAML, want: &learning.YAMLBackend{}},
		{name: "sqlite", backend: config.StorageSQLite, want: &learning.SQLBackend{}},
		{name: "memory", backend: config.StorageMemory, want: &learning.MemoryBackend{}},
		{name: "unknown", backend: "redis", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Storage.Backend = tt.backend

			got, err := NewStatusBackend(context.Background(), cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer got.Close()
			assert.IsType(t, tt.want, got)
		})
	}
}

func TestNewInferenceClient(t *testing.T) {
	tests := []struct {
		name      string
		configure func(cfg *config.Config)
		want      any
		wantErr   string
	}{
		{
			name: "openai",
			configure: func(cfg *config.Config) {
				cfg.OpenAI.APIKey = "sk-test"
			},
			want: &openai.Client{},
		},
		{
			name: "anthropic",
			configure: func(cfg *config.Config) {
				cfg.AI.Provider = config.ProviderAnthropic
				cfg.Anthropic.APIKey = "key"
				cfg.Anthropic.Model = "claude-sonnet-4-5"
			},
			want: &anthropic.Client{},
		},
		{
			name:      "missing key names the variable",
			configure: func(cfg *config.Config) {},
			wantErr:   "OPENAI_API_KEY",
		},
		{
			name: "anthropic without model",
			configure: func(cfg *config.Config) {
				cfg.AI.Provider = config.ProviderAnthropic
				cfg.Anthropic.APIKey = "key"
			},
			wantErr: "anthropic.model",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.configure(cfg)

			got, err := NewInferenceClient(context.Background(), cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, got)
		})
	}
}

func TestNewSpeaker(t *testing.T) {
	cfg := testConfig(t)
	assert.IsType(t, speech.NopSpeaker{}, NewSpeaker(cfg))

	cfg.Speech.Command = "say"
	assert.IsType(t, &speech.CommandSpeaker{}, NewSpeaker(cfg))
}

func TestNewSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_inference.NewMockClient(ctrl)
	client.EXPECT().AnalyzeWords(gomock.Any(), inference.AnalyzeWordsRequest{
		Prefix: "ba",
		Words:  testutil.AnalysisWords,
	}).Return(inference.AnalyzeWordsResponse{
		Content: testutil.AnalysisJSON,
		Model:   "gpt-4o-mini",
	}, nil)

	cfg := testConfig(t)
	vocabularyFile := filepath.Join(t.TempDir(), "words.txt")
	testutil.WriteFile(t, vocabularyFile, "apple\nback\nbad\nbag\n")
	cfg.Vocabulary.File = vocabularyFile

	app := New()
	ctx := context.Background()
	sess, err := NewSession(ctx, app, cfg, SessionOptions{Client: client})
	require.NoError(t, err)

	result, err := sess.SubmitPrefix(ctx, "ba")
	require.NoError(t, err)
	assert.Equal(t, testutil.AnalysisWords, result.Words())

	_, err = sess.SetWordStatus(ctx, "back", learning.StatusMastered)
	require.NoError(t, err)
	require.NoError(t, app.Run(ctx, func(ctx context.Context) error { return nil }))

	reloaded, err := learning.NewYAMLBackend(cfg.Storage.StatusFile).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, learning.StatusMap{"back": learning.StatusMastered}, reloaded)
}

type closingClient struct {
	inference.Client
	closed int
}

func (c *closingClient) Close() error {
	c.closed++
	return nil
}

func TestNewSession_ClosesClient(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := &closingClient{Client: mock_inference.NewMockClient(ctrl)}

	cfg := testConfig(t)
	vocabularyFile := filepath.Join(t.TempDir(), "words.txt")
	testutil.WriteFile(t, vocabularyFile, "back\n")
	cfg.Vocabulary.File = vocabularyFile

	app := New()
	_, err := NewSession(context.Background(), app, cfg, SessionOptions{Client: client})
	require.NoError(t, err)
	assert.Zero(t, client.closed)

	require.NoError(t, app.Run(context.Background(), func(ctx context.Context) error { return nil }))
	assert.Equal(t, 1, client.closed)
}
